package ratelimit_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/jassus213/ratelimit-sentinel/internal/ratelimit"
)

// newTestRedisStore returns a miniredis-backed RedisStore so the
// strategies' Lua scripts and Reset get exercised without a live
// server.
func newTestRedisStore(t *testing.T) ratelimit.Store {
	t.Helper()
	s, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(s.Close)

	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return ratelimit.NewRedisStore(client)
}

func TestRedisStore_TokenBucketBurstThenDeny(t *testing.T) {
	ctx := context.Background()
	strategy := ratelimit.NewTokenBucket(newTestRedisStore(t))

	const limit = 3
	const window = 60 * time.Second

	for i := 0; i < limit; i++ {
		d, err := strategy.Check(ctx, "client-a", limit, window)
		require.NoError(t, err)
		require.True(t, d.IsAllowed())
	}

	d, err := strategy.Check(ctx, "client-a", limit, window)
	require.NoError(t, err)
	require.False(t, d.IsAllowed())
}

func TestRedisStore_SlidingWindowExactEnforcement(t *testing.T) {
	ctx := context.Background()
	strategy := ratelimit.NewSlidingWindow(newTestRedisStore(t))

	const limit = 2
	const window = 10 * time.Second

	for i := 0; i < limit; i++ {
		d, err := strategy.Check(ctx, "client-b", limit, window)
		require.NoError(t, err)
		require.True(t, d.IsAllowed())
	}

	d, err := strategy.Check(ctx, "client-b", limit, window)
	require.NoError(t, err)
	require.False(t, d.IsAllowed())
}

func TestRedisStore_ResetClearsState(t *testing.T) {
	ctx := context.Background()
	strategy := ratelimit.NewTokenBucket(newTestRedisStore(t))

	_, err := strategy.Check(ctx, "client-c", 1, time.Minute)
	require.NoError(t, err)

	d, err := strategy.Check(ctx, "client-c", 1, time.Minute)
	require.NoError(t, err)
	require.False(t, d.IsAllowed())

	require.NoError(t, strategy.Reset(ctx, "client-c"))

	d, err = strategy.Check(ctx, "client-c", 1, time.Minute)
	require.NoError(t, err)
	require.True(t, d.IsAllowed())
}
