package utils

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cachedPage struct {
	Items []string `json:"items"`
	Total int64    `json:"total"`
}

func setupTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewCache(rdb, time.Minute), mr
}

func TestCache_SetAndGet(t *testing.T) {
	cache, mr := setupTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "admin:users:page=1", cachedPage{Items: []string{"a"}, Total: 1}))

	var got cachedPage
	found, err := cache.Get(ctx, "admin:users:page=1", &got)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, cachedPage{Items: []string{"a"}, Total: 1}, got)

	mr.FastForward(2 * time.Minute)
	found, err = cache.Get(ctx, "admin:users:page=1", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestCache_DeletePrefix(t *testing.T) {
	cache, _ := setupTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "admin:withdrawals:all", 1))
	require.NoError(t, cache.Set(ctx, "admin:withdrawals:user=3", 2))
	require.NoError(t, cache.Set(ctx, "catalog:products", 3))

	require.NoError(t, cache.DeletePrefix(ctx, "admin:withdrawals"))

	var v int
	found, err := cache.Get(ctx, "admin:withdrawals:all", &v)
	require.NoError(t, err)
	assert.False(t, found)

	found, err = cache.Get(ctx, "catalog:products", &v)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 3, v)
}

func TestCache_NilIsNoop(t *testing.T) {
	var cache *Cache
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "k", 1))
	found, err := cache.Get(ctx, "k", new(int))
	require.NoError(t, err)
	assert.False(t, found)
	require.NoError(t, cache.DeletePrefix(ctx, "k"))
}
