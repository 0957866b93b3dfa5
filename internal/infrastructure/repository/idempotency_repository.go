package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sangkips/salon-commission-api/internal/domain/entity"
	domainRepo "github.com/sangkips/salon-commission-api/internal/domain/repository"
)

type idempotencyRepository struct {
	db *gorm.DB
}

// NewIdempotencyRepository stores replayable sale responses in idempotency_keys
func NewIdempotencyRepository(db *gorm.DB) domainRepo.IdempotencyRepository {
	return &idempotencyRepository{db: db}
}

// FindReplay looks up what the cashier got back the first time they sent key.
// Keys are per cashier: two front desks may pick the same key.
func (r *idempotencyRepository) FindReplay(ctx context.Context, key string, cashierID uuid.UUID) (*entity.IdempotencyKey, error) {
	var replay entity.IdempotencyKey
	err := r.db.WithContext(ctx).
		Where("key = ? AND user_id = ?", key, cashierID).
		First(&replay).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &replay, nil
}

// SaveReplay keeps the first stored response when two retries of one sale
// finish together.
func (r *idempotencyRepository) SaveReplay(ctx context.Context, replay *entity.IdempotencyKey) (bool, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}, {Name: "user_id"}},
			DoNothing: true,
		}).
		Create(replay)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *idempotencyRepository) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("expires_at < ?", now).
		Delete(&entity.IdempotencyKey{})
	return result.RowsAffected, result.Error
}
