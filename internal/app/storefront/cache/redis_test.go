package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewRedisStoreWithClient(client), mr
}

// ==================== RedisStore Tests ====================

func TestRedisStore_SetAndGet(t *testing.T) {
	store, _ := newTestRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "products:list:-:-", []byte(`[]`), time.Minute))

	data, ok, err := store.Get(ctx, "products:list:-:-")

	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte(`[]`), data)
}

func TestRedisStore_MissingKey(t *testing.T) {
	store, _ := newTestRedisStore(t)

	_, ok, err := store.Get(context.Background(), "unknown")

	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisStore_Expiration(t *testing.T) {
	store, mr := newTestRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "key", []byte("v"), time.Minute))
	mr.FastForward(2 * time.Minute)

	_, ok, err := store.Get(ctx, "key")

	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisStore_InvalidateByPrefix(t *testing.T) {
	store, _ := newTestRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "cart:alice", []byte("a"), time.Minute))
	require.NoError(t, store.Set(ctx, "cart:bob", []byte("b"), time.Minute))
	require.NoError(t, store.Set(ctx, "products:list:-:-", []byte("c"), time.Minute))

	require.NoError(t, store.Invalidate(ctx, "cart:alice"))

	_, ok, _ := store.Get(ctx, "cart:alice")
	assert.False(t, ok)
	_, ok, _ = store.Get(ctx, "cart:bob")
	assert.True(t, ok)
	_, ok, _ = store.Get(ctx, "products:list:-:-")
	assert.True(t, ok)
}

func TestRedisStore_Reset(t *testing.T) {
	store, _ := newTestRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "a", []byte("1"), time.Minute))
	require.NoError(t, store.Set(ctx, "b", []byte("2"), time.Minute))

	require.NoError(t, store.Reset(ctx))

	_, ok, _ := store.Get(ctx, "a")
	assert.False(t, ok)
	_, ok, _ = store.Get(ctx, "b")
	assert.False(t, ok)
}
