package ratelimit

import (
	"context"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlidingWindow_ExactEnforcement(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		ctx := context.Background()
		store := NewMemoryStore(ctx, 0)
		strategy := NewSlidingWindow(store)

		const limit = 3
		const window = 10 * time.Second

		for i := 0; i < limit; i++ {
			d, err := strategy.Check(ctx, "client-a", limit, window)
			require.NoError(t, err)
			assert.True(t, d.IsAllowed())
			assert.Equal(t, int64(limit-i-1), d.Remaining)
		}

		d, err := strategy.Check(ctx, "client-a", limit, window)
		require.NoError(t, err)
		assert.False(t, d.IsAllowed())
		assert.Equal(t, int64(0), d.Remaining)
	})
}

func TestSlidingWindow_EvictsExpiredEntries(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		ctx := context.Background()
		store := NewMemoryStore(ctx, 0)
		strategy := NewSlidingWindow(store)

		const limit = 1
		const window = 5 * time.Second

		d, err := strategy.Check(ctx, "client-b", limit, window)
		require.NoError(t, err)
		require.True(t, d.IsAllowed())

		d, err = strategy.Check(ctx, "client-b", limit, window)
		require.NoError(t, err)
		require.False(t, d.IsAllowed())

		time.Sleep(window + time.Second)
		synctest.Wait()

		d, err = strategy.Check(ctx, "client-b", limit, window)
		require.NoError(t, err)
		assert.True(t, d.IsAllowed(), "the expired entry should have been evicted")
	})
}

func TestSlidingWindow_RetryAfterDecreasesMonotonically(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		ctx := context.Background()
		store := NewMemoryStore(ctx, 0)
		strategy := NewSlidingWindow(store)

		const limit = 1
		const window = 10 * time.Second

		_, err := strategy.Check(ctx, "client-c", limit, window)
		require.NoError(t, err)

		first, err := strategy.Check(ctx, "client-c", limit, window)
		require.NoError(t, err)
		require.False(t, first.IsAllowed())

		time.Sleep(2 * time.Second)
		synctest.Wait()

		second, err := strategy.Check(ctx, "client-c", limit, window)
		require.NoError(t, err)
		require.False(t, second.IsAllowed())

		assert.Less(t, second.RetryAfter, first.RetryAfter)
	})
}

func TestSlidingWindow_Reset(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		ctx := context.Background()
		store := NewMemoryStore(ctx, 0)
		strategy := NewSlidingWindow(store)

		const limit = 1
		const window = time.Minute

		_, err := strategy.Check(ctx, "client-d", limit, window)
		require.NoError(t, err)

		d, err := strategy.Check(ctx, "client-d", limit, window)
		require.NoError(t, err)
		require.False(t, d.IsAllowed())

		require.NoError(t, strategy.Reset(ctx, "client-d"))

		d, err = strategy.Check(ctx, "client-d", limit, window)
		require.NoError(t, err)
		assert.True(t, d.IsAllowed())
	})
}
