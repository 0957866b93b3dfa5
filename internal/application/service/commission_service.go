package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/sangkips/salon-commission-api/internal/domain/entity"
	"github.com/sangkips/salon-commission-api/internal/domain/enum"
	"github.com/sangkips/salon-commission-api/internal/domain/repository"
	"github.com/sangkips/salon-commission-api/pkg/apperror"
	"github.com/sangkips/salon-commission-api/pkg/bizclock"
)

var hundred = decimal.NewFromInt(100)

type AccrualStatus string

const (
	AccrualStatusAccrued AccrualStatus = "accrued"
	AccrualStatusSkipped AccrualStatus = "skipped"
	AccrualStatusFailed  AccrualStatus = "failed"
)

// ItemAccrual is the outcome for one line item
type ItemAccrual struct {
	LineItemID uuid.UUID       `json:"line_item_id"`
	EmployeeID uuid.UUID       `json:"employee_id"`
	Percent    decimal.Decimal `json:"percent"`
	Commission decimal.Decimal `json:"commission"`
	Status     AccrualStatus   `json:"status"`
	Error      string          `json:"error,omitempty"`
}

// AccrualReport collects per-item accrual outcomes for one transaction.
// Items are independent: a failure never undoes a sibling's increment.
type AccrualReport struct {
	TransactionID uuid.UUID       `json:"transaction_id"`
	Items         []ItemAccrual   `json:"items"`
	Total         decimal.Decimal `json:"total"`
	Failed        int             `json:"failed"`
}

// Complete reports whether every item has its commission recorded
func (r *AccrualReport) Complete() bool {
	return r.Failed == 0
}

// CommissionService is the only writer of employee commission accumulators
type CommissionService struct {
	commissionRepo  repository.CommissionRepository
	transactionRepo repository.TransactionRepository
	tariffs         *TariffResolver
	clock           *bizclock.Clock
	log             zerolog.Logger
}

// NewCommissionService creates a new commission service
func NewCommissionService(
	commissionRepo repository.CommissionRepository,
	transactionRepo repository.TransactionRepository,
	tariffs *TariffResolver,
	clock *bizclock.Clock,
	log zerolog.Logger,
) *CommissionService {
	return &CommissionService{
		commissionRepo:  commissionRepo,
		transactionRepo: transactionRepo,
		tariffs:         tariffs,
		clock:           clock,
		log:             log,
	}
}

// Commission is price * percent / 100, rounded to cents
func Commission(price, percent decimal.Decimal) decimal.Decimal {
	return price.Mul(percent).Div(hundred).Round(2)
}

// Accrue credits each item's commission to its employee, using the tariff in
// force at the shared sale instant at.
func (s *CommissionService) Accrue(ctx context.Context, transactionID uuid.UUID, items []entity.LineItem, at time.Time) *AccrualReport {
	report := &AccrualReport{
		TransactionID: transactionID,
		Items:         make([]ItemAccrual, 0, len(items)),
		Total:         decimal.Zero,
	}

	for i := range items {
		outcome := s.accrueItem(ctx, &items[i], at)
		if outcome.Status == AccrualStatusFailed {
			report.Failed++
			s.log.Error().
				Str("transaction_id", transactionID.String()).
				Str("line_item_id", outcome.LineItemID.String()).
				Str("employee_id", outcome.EmployeeID.String()).
				Str("error", outcome.Error).
				Msg("commission accrual failed")
		}
		if outcome.Status == AccrualStatusAccrued {
			report.Total = report.Total.Add(outcome.Commission)
		}
		report.Items = append(report.Items, outcome)
	}

	return report
}

func (s *CommissionService) accrueItem(ctx context.Context, item *entity.LineItem, at time.Time) ItemAccrual {
	outcome := ItemAccrual{
		LineItemID: item.ID,
		EmployeeID: item.EmployeeID,
		Percent:    decimal.Zero,
		Commission: decimal.Zero,
	}
	if item.Accrued {
		outcome.Commission = item.Commission
		outcome.Status = AccrualStatusSkipped
		return outcome
	}

	percent, err := s.tariffs.Resolve(ctx, item.ServiceID, at)
	if err != nil {
		outcome.Status = AccrualStatusFailed
		outcome.Error = err.Error()
		return outcome
	}
	outcome.Percent = percent
	outcome.Commission = Commission(item.Price, percent)

	applied, err := s.commissionRepo.ApplyAccrual(ctx, item.ID, item.EmployeeID, outcome.Commission, s.clock.Now())
	if err != nil {
		outcome.Status = AccrualStatusFailed
		outcome.Error = apperror.NewAccrualError("failed to record commission", err).Error()
		return outcome
	}
	if !applied {
		outcome.Status = AccrualStatusSkipped
		return outcome
	}

	item.Accrued = true
	item.Commission = outcome.Commission
	outcome.Status = AccrualStatusAccrued
	return outcome
}

// RetryAccrual re-runs accrual over a completed transaction's items. Items
// that already landed are skipped, so retrying is safe.
func (s *CommissionService) RetryAccrual(ctx context.Context, transactionID uuid.UUID) (*AccrualReport, error) {
	txn, err := s.transactionRepo.GetByID(ctx, transactionID)
	if err != nil {
		return nil, apperror.NewStorageError("load transaction", err)
	}
	if txn == nil {
		return nil, apperror.ErrTransactionNotFound
	}
	if txn.Status != enum.TransactionStatusCompleted {
		return nil, apperror.ErrNotCompleted
	}

	items, err := s.transactionRepo.ListItems(ctx, transactionID)
	if err != nil {
		return nil, apperror.NewStorageError("load line items", err)
	}
	return s.Accrue(ctx, transactionID, items, txn.CreatedAt), nil
}

// Reset zeroes the kind's accumulator for every employee unless periodStart
// was already reset. applied is false for a repeated period.
func (s *CommissionService) Reset(ctx context.Context, kind enum.ResetKind, periodStart time.Time) (*entity.CommissionReset, bool, error) {
	record, applied, err := s.commissionRepo.Reset(ctx, kind, periodStart)
	if err != nil {
		return nil, false, apperror.NewStorageError("reset "+string(kind)+" commission", err)
	}

	event := s.log.Info().Str("kind", string(kind)).Time("period_start", periodStart)
	if applied {
		event.Int64("employees", record.AffectedRows).Msg("commission reset applied")
	} else {
		event.Msg("commission reset already applied for period")
	}
	return record, applied, nil
}

// PeriodStart is the local midnight that owns at for kind
func (s *CommissionService) PeriodStart(kind enum.ResetKind, at time.Time) time.Time {
	if kind == enum.ResetKindMonthly {
		return s.clock.StartOfMonth(at)
	}
	return s.clock.StartOfDay(at)
}

// ResetDaily zeroes daily accumulators for the current local day
func (s *CommissionService) ResetDaily(ctx context.Context) (bool, error) {
	_, applied, err := s.Reset(ctx, enum.ResetKindDaily, s.PeriodStart(enum.ResetKindDaily, s.clock.Now()))
	return applied, err
}

// ResetMonthly zeroes monthly accumulators for the current local month
func (s *CommissionService) ResetMonthly(ctx context.Context) (bool, error) {
	_, applied, err := s.Reset(ctx, enum.ResetKindMonthly, s.PeriodStart(enum.ResetKindMonthly, s.clock.Now()))
	return applied, err
}

// LatestReset returns the most recent recorded reset of kind, or nil
func (s *CommissionService) LatestReset(ctx context.Context, kind enum.ResetKind) (*entity.CommissionReset, error) {
	reset, err := s.commissionRepo.LatestReset(ctx, kind)
	if err != nil {
		return nil, apperror.NewStorageError("load latest reset", err)
	}
	return reset, nil
}
