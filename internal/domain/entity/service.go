package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Service is a menu item offered by the salon (haircut, cream bath, ...).
// The two percentages are the commission tariffs paid to the employee who
// performs it, inside and outside working hours.
type Service struct {
	ID                uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	Name              string          `gorm:"size:255;not null" json:"name"`
	RegularPercent    decimal.Decimal `gorm:"type:numeric(5,2);not null" json:"regular_percent"`
	AfterHoursPercent decimal.Decimal `gorm:"type:numeric(5,2);not null" json:"after_hours_percent"`
	Category          string          `gorm:"size:100;index" json:"category"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

func (s *Service) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

func (Service) TableName() string {
	return "services"
}
