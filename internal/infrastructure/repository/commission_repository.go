package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sangkips/salon-commission-api/internal/domain/entity"
	"github.com/sangkips/salon-commission-api/internal/domain/enum"
	domainRepo "github.com/sangkips/salon-commission-api/internal/domain/repository"
	"github.com/sangkips/salon-commission-api/pkg/apperror"
)

type commissionRepository struct {
	db *gorm.DB
}

// NewCommissionRepository creates a new commission repository
func NewCommissionRepository(db *gorm.DB) domainRepo.CommissionRepository {
	return &commissionRepository{db: db}
}

func (r *commissionRepository) ApplyAccrual(ctx context.Context, itemID, employeeID uuid.UUID, commission decimal.Decimal, at time.Time) (bool, error) {
	applied := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Claim the item first; a concurrent or repeated accrual loses here
		claim := tx.Model(&entity.LineItem{}).
			Where("id = ? AND accrued = ?", itemID, false).
			Updates(map[string]interface{}{
				"accrued":    true,
				"commission": commission,
				"accrued_at": at,
			})
		if claim.Error != nil {
			return claim.Error
		}
		if claim.RowsAffected == 0 {
			return nil
		}

		inc := tx.Model(&entity.Employee{}).
			Where("id = ?", employeeID).
			Updates(map[string]interface{}{
				"daily_commission":   gorm.Expr("daily_commission + ?", commission),
				"monthly_commission": gorm.Expr("monthly_commission + ?", commission),
			})
		if inc.Error != nil {
			return inc.Error
		}
		if inc.RowsAffected == 0 {
			return apperror.ErrEmployeeNotFound
		}

		applied = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return applied, nil
}

func (r *commissionRepository) Reset(ctx context.Context, kind enum.ResetKind, periodStart time.Time) (*entity.CommissionReset, bool, error) {
	column := kind.Column()
	if column == "" {
		return nil, false, errors.New("unknown reset kind")
	}

	record := &entity.CommissionReset{Kind: kind, PeriodStart: periodStart}
	applied := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ins := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(record)
		if ins.Error != nil {
			return ins.Error
		}
		if ins.RowsAffected == 0 {
			return nil
		}

		zero := tx.Model(&entity.Employee{}).
			Where("1 = 1").
			Update(column, decimal.Zero)
		if zero.Error != nil {
			return zero.Error
		}

		record.AffectedRows = zero.RowsAffected
		applied = true
		return tx.Model(record).Update("affected_rows", zero.RowsAffected).Error
	})
	if err != nil {
		return nil, false, err
	}
	if !applied {
		return nil, false, nil
	}
	return record, true, nil
}

func (r *commissionRepository) LatestReset(ctx context.Context, kind enum.ResetKind) (*entity.CommissionReset, error) {
	var reset entity.CommissionReset
	err := r.db.WithContext(ctx).
		Where("kind = ?", kind).
		Order("period_start DESC").
		First(&reset).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &reset, err
}
