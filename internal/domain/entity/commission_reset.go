package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sangkips/salon-commission-api/internal/domain/enum"
)

// CommissionReset records one applied periodic reset. The unique
// (kind, period_start) pair is what makes a second fire for the same period
// a no-op.
type CommissionReset struct {
	ID           uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Kind         enum.ResetKind `gorm:"size:20;not null;uniqueIndex:idx_commission_resets_period" json:"kind"`
	PeriodStart  time.Time      `gorm:"not null;uniqueIndex:idx_commission_resets_period" json:"period_start"`
	AffectedRows int64          `gorm:"not null;default:0" json:"affected_rows"`
	CreatedAt    time.Time      `json:"created_at"`
}

func (r *CommissionReset) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

func (CommissionReset) TableName() string {
	return "commission_resets"
}
