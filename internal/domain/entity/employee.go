package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Employee is a stylist or therapist earning commission.
//
// DailyCommission and MonthlyCommission are running totals. They are written
// only by commission accrual (atomic increment) and by the periodic reset
// (atomic zero); the employee CRUD path never touches them.
type Employee struct {
	ID                uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	Name              string          `gorm:"size:255;not null" json:"name"`
	Address           *string         `gorm:"type:text" json:"address,omitempty"`
	Phone             *string         `gorm:"size:50" json:"phone,omitempty"`
	BranchID          uuid.UUID       `gorm:"type:uuid;not null;index" json:"branch_id"`
	DailyCommission   decimal.Decimal `gorm:"type:numeric(15,2);not null;default:0" json:"daily_commission"`
	MonthlyCommission decimal.Decimal `gorm:"type:numeric(15,2);not null;default:0" json:"monthly_commission"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`

	Branch *Branch `gorm:"foreignKey:BranchID" json:"-"`
}

func (e *Employee) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

func (Employee) TableName() string {
	return "employees"
}
