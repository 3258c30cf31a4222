package cart

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*RedisRepository, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisRepository(client, time.Hour), mr
}

func TestRedisRepository_LoadMissingIsEmpty(t *testing.T) {
	repo, _ := setupTestRedis(t)

	c, err := repo.Load(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Equal(t, 0, c.Len())
}

func TestRedisRepository_SaveLoadRoundTrip(t *testing.T) {
	repo, mr := setupTestRedis(t)
	ctx := context.Background()
	owner := uuid.New()

	c := New()
	cand := candidate(12000, 4)
	c.AddItem(cand)
	c.AddItem(cand)
	c.AddItem(candidate(3000, 1))

	require.NoError(t, repo.Save(ctx, owner, c))
	assert.True(t, mr.Exists(cacheKey(owner)))
	assert.Equal(t, time.Hour, mr.TTL(cacheKey(owner)))

	loaded, err := repo.Load(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, c.Items(), loaded.Items())
	assert.Equal(t, c.Subtotal(), loaded.Subtotal())
}

func TestRedisRepository_SaveEmptyDeletes(t *testing.T) {
	repo, mr := setupTestRedis(t)
	ctx := context.Background()
	owner := uuid.New()

	c := New()
	c.AddItem(candidate(100, 2))
	require.NoError(t, repo.Save(ctx, owner, c))

	c.Clear()
	require.NoError(t, repo.Save(ctx, owner, c))
	assert.False(t, mr.Exists(cacheKey(owner)))
}

func TestRedisRepository_InvalidJSON(t *testing.T) {
	repo, mr := setupTestRedis(t)
	owner := uuid.New()
	require.NoError(t, mr.Set(cacheKey(owner), "{not json"))

	_, err := repo.Load(context.Background(), owner)
	require.ErrorContains(t, err, "unmarshal cart failed")
}

func TestRedisRepository_Delete(t *testing.T) {
	repo, _ := setupTestRedis(t)

	assert.NoError(t, repo.Delete(context.Background(), uuid.New()))
}
