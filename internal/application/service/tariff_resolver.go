package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/sangkips/salon-commission-api/internal/domain/entity"
	"github.com/sangkips/salon-commission-api/internal/domain/repository"
	"github.com/sangkips/salon-commission-api/internal/infrastructure/cache"
	"github.com/sangkips/salon-commission-api/pkg/apperror"
	"github.com/sangkips/salon-commission-api/pkg/bizclock"
)

// WorkingHours is the half-open local-hour window [Start, End) in which the
// regular tariff applies.
type WorkingHours struct {
	Start int
	End   int
}

// DefaultWorkingHours is 09:00 up to, but not including, 18:00
var DefaultWorkingHours = WorkingHours{Start: 9, End: 18}

// Contains reports whether hour falls inside the window
func (w WorkingHours) Contains(hour int) bool {
	return hour >= w.Start && hour < w.End
}

// TariffResolver picks the commission percentage for a service at a given
// instant.
type TariffResolver struct {
	serviceRepo repository.ServiceRepository
	cache       cache.ServiceCache
	cacheTTL    time.Duration
	clock       *bizclock.Clock
	hours       WorkingHours
	log         zerolog.Logger
}

// NewTariffResolver creates a new tariff resolver
func NewTariffResolver(
	serviceRepo repository.ServiceRepository,
	serviceCache cache.ServiceCache,
	cacheTTL time.Duration,
	clock *bizclock.Clock,
	hours WorkingHours,
	log zerolog.Logger,
) *TariffResolver {
	if serviceCache == nil {
		serviceCache = cache.NoopServiceCache{}
	}
	return &TariffResolver{
		serviceRepo: serviceRepo,
		cache:       serviceCache,
		cacheTTL:    cacheTTL,
		clock:       clock,
		hours:       hours,
		log:         log,
	}
}

// IsWorkingHour reports whether at, in business local time, is inside
// working hours.
func (r *TariffResolver) IsWorkingHour(at time.Time) bool {
	return r.hours.Contains(r.clock.In(at).Hour())
}

// Tariff returns the percentage svc pays at the given instant
func (r *TariffResolver) Tariff(svc *entity.Service, at time.Time) decimal.Decimal {
	if r.IsWorkingHour(at) {
		return svc.RegularPercent
	}
	return svc.AfterHoursPercent
}

// Resolve looks up the service and returns its tariff at the given instant.
// An unknown service is apperror.ErrServiceNotFound.
func (r *TariffResolver) Resolve(ctx context.Context, serviceID uuid.UUID, at time.Time) (decimal.Decimal, error) {
	svc, err := r.lookup(ctx, serviceID)
	if err != nil {
		return decimal.Zero, err
	}
	return r.Tariff(svc, at), nil
}

func (r *TariffResolver) lookup(ctx context.Context, id uuid.UUID) (*entity.Service, error) {
	if svc, ok, err := r.cache.Get(ctx, id); err != nil {
		r.log.Warn().Err(err).Str("service_id", id.String()).Msg("service cache read failed")
	} else if ok {
		return svc, nil
	}

	svc, err := r.serviceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.NewStorageError("load service", err)
	}
	if svc == nil {
		return nil, apperror.ErrServiceNotFound
	}

	if err := r.cache.Set(ctx, svc, r.cacheTTL); err != nil {
		r.log.Warn().Err(err).Str("service_id", id.String()).Msg("service cache write failed")
	}
	return svc, nil
}
