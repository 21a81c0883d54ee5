package ratelimit

import (
	"context"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenBucket_BurstThenDeny(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		ctx := context.Background()
		store := NewMemoryStore(ctx, 0)
		strategy := NewTokenBucket(store)

		const limit = 3
		const window = 60 * time.Second

		for i := 0; i < limit; i++ {
			d, err := strategy.Check(ctx, "client-a", limit, window)
			require.NoError(t, err)
			assert.True(t, d.IsAllowed())
			assert.Equal(t, int64(limit), d.Limit)
		}

		d, err := strategy.Check(ctx, "client-a", limit, window)
		require.NoError(t, err)
		assert.False(t, d.IsAllowed())
		assert.Equal(t, int64(0), d.Remaining)
		assert.GreaterOrEqual(t, d.RetryAfter, minRetryAfter)
	})
}

func TestTokenBucket_RefillOverTime(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		ctx := context.Background()
		store := NewMemoryStore(ctx, 0)
		strategy := NewTokenBucket(store)

		const limit = 2
		const window = 2 * time.Second // refill_rate = 1 token/sec

		for i := 0; i < limit; i++ {
			d, err := strategy.Check(ctx, "client-b", limit, window)
			require.NoError(t, err)
			require.True(t, d.IsAllowed())
		}

		d, err := strategy.Check(ctx, "client-b", limit, window)
		require.NoError(t, err)
		require.False(t, d.IsAllowed())

		time.Sleep(window)
		synctest.Wait()

		d, err = strategy.Check(ctx, "client-b", limit, window)
		require.NoError(t, err)
		assert.True(t, d.IsAllowed())
	})
}

func TestTokenBucket_ClientIsolation(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		ctx := context.Background()
		store := NewMemoryStore(ctx, 0)
		strategy := NewTokenBucket(store)

		const limit = 1
		const window = time.Minute

		d, err := strategy.Check(ctx, "client-a", limit, window)
		require.NoError(t, err)
		require.True(t, d.IsAllowed())

		d, err = strategy.Check(ctx, "client-a", limit, window)
		require.NoError(t, err)
		require.False(t, d.IsAllowed())

		d, err = strategy.Check(ctx, "client-b", limit, window)
		require.NoError(t, err)
		assert.True(t, d.IsAllowed(), "a different client must not share client-a's bucket")
	})
}

func TestTokenBucket_Reset(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		ctx := context.Background()
		store := NewMemoryStore(ctx, 0)
		strategy := NewTokenBucket(store)

		const limit = 1
		const window = time.Minute

		_, err := strategy.Check(ctx, "client-c", limit, window)
		require.NoError(t, err)

		d, err := strategy.Check(ctx, "client-c", limit, window)
		require.NoError(t, err)
		require.False(t, d.IsAllowed())

		require.NoError(t, strategy.Reset(ctx, "client-c"))

		d, err = strategy.Check(ctx, "client-c", limit, window)
		require.NoError(t, err)
		assert.True(t, d.IsAllowed())
	})
}

func TestTokenBucket_RejectsBadQuota(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(ctx, 0)
	strategy := NewTokenBucket(store)

	_, err := strategy.Check(ctx, "client-d", 0, time.Minute)
	assert.ErrorIs(t, err, ErrInvalidQuota)

	_, err = strategy.Check(ctx, "client-d", 1, 0)
	assert.ErrorIs(t, err, ErrInvalidQuota)
}
