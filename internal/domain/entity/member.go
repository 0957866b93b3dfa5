package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Member is a loyalty-program customer
type Member struct {
	ID           uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	Name         string     `gorm:"size:255;not null" json:"name"`
	Phone        string     `gorm:"size:50;not null;index" json:"phone"`
	Address      *string    `gorm:"type:text" json:"address,omitempty"`
	BirthDate    *time.Time `gorm:"type:date" json:"birth_date,omitempty"`
	RegisteredAt time.Time  `gorm:"type:date;not null" json:"registered_at"`
	BranchID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"branch_id"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`

	Branch *Branch `gorm:"foreignKey:BranchID" json:"-"`
}

func (m *Member) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

func (Member) TableName() string {
	return "members"
}
