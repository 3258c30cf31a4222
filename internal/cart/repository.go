package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Repository persists cart snapshots per owner. A missing snapshot loads as
// an empty cart.
type Repository interface {
	Load(ctx context.Context, owner uuid.UUID) (*Cart, error)
	Save(ctx context.Context, owner uuid.UUID, c *Cart) error
	Delete(ctx context.Context, owner uuid.UUID) error
}

type snapshot struct {
	Items     []Item    `json:"items"`
	UpdatedAt time.Time `json:"updated_at"`
}

type RedisRepository struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisRepository(client *redis.Client, ttl time.Duration) *RedisRepository {
	return &RedisRepository{client: client, ttl: ttl}
}

func (r *RedisRepository) Load(ctx context.Context, owner uuid.UUID) (*Cart, error) {
	data, err := r.client.Get(ctx, cacheKey(owner)).Bytes()
	if errors.Is(err, redis.Nil) {
		return New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("unmarshal cart failed: %w", err)
	}
	return Restore(snap.Items), nil
}

func (r *RedisRepository) Save(ctx context.Context, owner uuid.UUID, c *Cart) error {
	if c.Len() == 0 {
		return r.Delete(ctx, owner)
	}

	data, err := json.Marshal(snapshot{Items: c.Items(), UpdatedAt: time.Now().UTC()})
	if err != nil {
		return fmt.Errorf("marshal cart failed: %w", err)
	}
	if err := r.client.Set(ctx, cacheKey(owner), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (r *RedisRepository) Delete(ctx context.Context, owner uuid.UUID) error {
	if err := r.client.Del(ctx, cacheKey(owner)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func cacheKey(owner uuid.UUID) string {
	return fmt.Sprintf("cart:%s", owner)
}
