package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Branch is a physical salon location. Employees, members and transactions
// all belong to exactly one branch.
type Branch struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Code      string    `gorm:"size:20;not null;uniqueIndex" json:"code"`
	Address   *string   `gorm:"type:text" json:"address,omitempty"`
	Phone     *string   `gorm:"size:50" json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (b *Branch) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

func (Branch) TableName() string {
	return "branches"
}
