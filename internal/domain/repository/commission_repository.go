package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sangkips/salon-commission-api/internal/domain/entity"
	"github.com/sangkips/salon-commission-api/internal/domain/enum"
)

// CommissionRepository owns every write to the employee commission
// accumulators.
type CommissionRepository interface {
	// ApplyAccrual marks the line item accrued and adds commission to both
	// accumulators of employeeID in one database transaction, using
	// column = column + delta. Returns false without touching the employee
	// when the item was already accrued.
	ApplyAccrual(ctx context.Context, itemID, employeeID uuid.UUID, commission decimal.Decimal, at time.Time) (bool, error)
	// Reset zeroes the accumulator for kind across all employees and records
	// the period, atomically. Returns applied=false when periodStart was
	// already recorded for kind.
	Reset(ctx context.Context, kind enum.ResetKind, periodStart time.Time) (*entity.CommissionReset, bool, error)
	// LatestReset returns the most recent recorded reset for kind, or nil.
	LatestReset(ctx context.Context, kind enum.ResetKind) (*entity.CommissionReset, error)
}
