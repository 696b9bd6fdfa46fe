package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoop_AlwaysMisses(t *testing.T) {
	var c ListCache = Noop{}
	require.NoError(t, c.Set(context.Background(), CollectionEvents, 0, "all", []byte("x")))
	_, _, err := c.Get(context.Background(), CollectionEvents, "all")
	assert.ErrorIs(t, err, ErrMiss)
}

func newTestRedisCache(t *testing.T) *RedisListCache {
	t.Helper()
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })

	c := NewRedisListCache(client, time.Minute)
	c.prefix = "test:" + uuid.NewString() + ":"
	return c
}

func TestRedisListCache_InvalidateMovesGeneration(t *testing.T) {
	c := newTestRedisCache(t)
	ctx := context.Background()

	_, gen, err := c.Get(ctx, CollectionEvents, "all")
	assert.ErrorIs(t, err, ErrMiss)

	require.NoError(t, c.Set(ctx, CollectionEvents, gen, "all", []byte(`[1]`)))
	got, _, err := c.Get(ctx, CollectionEvents, "all")
	require.NoError(t, err)
	assert.Equal(t, []byte(`[1]`), got)

	require.NoError(t, c.Invalidate(ctx, CollectionEvents))
	_, _, err = c.Get(ctx, CollectionEvents, "all")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestRedisListCache_FillAfterInvalidateStaysHidden(t *testing.T) {
	c := newTestRedisCache(t)
	ctx := context.Background()

	// A reader misses and loads rows, then a writer invalidates before the reader fills.
	_, seen, err := c.Get(ctx, CollectionAnnouncements, "guest")
	require.ErrorIs(t, err, ErrMiss)
	require.NoError(t, c.Invalidate(ctx, CollectionAnnouncements))
	require.NoError(t, c.Set(ctx, CollectionAnnouncements, seen, "guest", []byte(`["stale"]`)))

	_, current, err := c.Get(ctx, CollectionAnnouncements, "guest")
	assert.ErrorIs(t, err, ErrMiss)
	assert.Equal(t, seen+1, current)
}
