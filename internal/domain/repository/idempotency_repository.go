package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/sangkips/salon-commission-api/internal/domain/entity"
)

// IdempotencyRepository keeps the first response to each keyed sale so a
// cashier's retry replays it
type IdempotencyRepository interface {
	FindReplay(ctx context.Context, key string, cashierID uuid.UUID) (*entity.IdempotencyKey, error)
	// SaveReplay reports false when the cashier already stored a response
	// under key.
	SaveReplay(ctx context.Context, replay *entity.IdempotencyKey) (bool, error)
	PurgeExpired(ctx context.Context, now time.Time) (int64, error)
}
