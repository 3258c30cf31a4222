package cache

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := NewClient(context.Background(), mr.Addr(), "")
	require.NoError(t, err)
	defer client.Close()

	require.NoError(t, client.Set(context.Background(), "k", "v", 0).Err())
	got, err := mr.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "v", got)
}

func TestNewClient_Errors(t *testing.T) {
	_, err := NewClient(context.Background(), "", "")
	assert.EqualError(t, err, "REDIS_ADDR is empty")

	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err = NewClient(context.Background(), addr, "")
	assert.ErrorContains(t, err, "ping redis")
}
