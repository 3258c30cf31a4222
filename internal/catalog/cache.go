package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/maritani/marketplace/internal/models"
)

const listKeysSet = "catalog:products:keys"

var errCacheMiss = errors.New("cache miss")

type ProductPage struct {
	Total int64            `json:"total"`
	Items []models.Product `json:"items"`
}

// ListCache keeps rendered catalog pages in redis. Every stored key is
// tracked in a set so writes can drop all pages at once.
type ListCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewListCache(client *redis.Client, ttl time.Duration) *ListCache {
	return &ListCache{client: client, ttl: ttl}
}

func listKey(f ListFilter, offset, limit int) string {
	return fmt.Sprintf("catalog:products:%s:%s:%d:%d:%s:%d:%d",
		f.Category, f.Condition, f.MinPrice, f.MaxPrice, f.Sort, offset, limit)
}

func (c *ListCache) Get(ctx context.Context, key string) (*ProductPage, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, errCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var page ProductPage
	if err := json.Unmarshal(data, &page); err != nil {
		return nil, fmt.Errorf("unmarshal page failed: %w", err)
	}
	return &page, nil
}

func (c *ListCache) Set(ctx context.Context, key string, page *ProductPage) error {
	data, err := json.Marshal(page)
	if err != nil {
		return fmt.Errorf("marshal page failed: %w", err)
	}

	_, err = c.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Set(ctx, key, data, c.ttl)
		p.SAdd(ctx, listKeysSet, key)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *ListCache) Invalidate(ctx context.Context) error {
	keys, err := c.client.SMembers(ctx, listKeysSet).Result()
	if err != nil {
		return fmt.Errorf("redis smembers failed: %w", err)
	}

	keys = append(keys, listKeysSet)
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}
