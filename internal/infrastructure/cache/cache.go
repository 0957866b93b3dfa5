package cache

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/sangkips/salon-commission-api/internal/domain/entity"
)

// ServiceCache holds salon services by id so tariff lookups on the accrual
// path skip the database. A miss is (nil, false, nil).
type ServiceCache interface {
	Get(ctx context.Context, id uuid.UUID) (*entity.Service, bool, error)
	Set(ctx context.Context, service *entity.Service, ttl time.Duration) error
	Invalidate(ctx context.Context, id uuid.UUID) error
}

type NoopServiceCache struct{}

func (NoopServiceCache) Get(context.Context, uuid.UUID) (*entity.Service, bool, error) {
	return nil, false, nil
}

func (NoopServiceCache) Set(context.Context, *entity.Service, time.Duration) error {
	return nil
}

func (NoopServiceCache) Invalidate(context.Context, uuid.UUID) error {
	return nil
}

func serviceKey(id uuid.UUID) string {
	return "salon:service:" + id.String()
}
