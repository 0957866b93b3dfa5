package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	redis "github.com/redis/go-redis/v9"

	"github.com/sangkips/salon-commission-api/internal/domain/entity"
)

type RedisServiceCache struct {
	client *redis.Client
}

func NewRedisServiceCache(addr string, password string, db int) *RedisServiceCache {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	return &RedisServiceCache{client: client}
}

func (c *RedisServiceCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisServiceCache) Close() error {
	return c.client.Close()
}

func (c *RedisServiceCache) Get(ctx context.Context, id uuid.UUID) (*entity.Service, bool, error) {
	val, err := c.client.Get(ctx, serviceKey(id)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var svc entity.Service
	if err := json.Unmarshal([]byte(val), &svc); err != nil {
		return nil, false, err
	}
	return &svc, true, nil
}

func (c *RedisServiceCache) Set(ctx context.Context, service *entity.Service, ttl time.Duration) error {
	if service == nil {
		return nil
	}
	payload, err := json.Marshal(service)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, serviceKey(service.ID), payload, ttl).Err()
}

func (c *RedisServiceCache) Invalidate(ctx context.Context, id uuid.UUID) error {
	return c.client.Del(ctx, serviceKey(id)).Err()
}
