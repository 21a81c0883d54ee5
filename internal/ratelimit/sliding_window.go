package ratelimit

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"
)

// slidingWindowKeyPrefix is the key namespace reserved for
// Sliding-Window-Log state.
const slidingWindowKeyPrefix = "sw:"

// memberCounter disambiguates members added within the same
// sub-second tick so two near-simultaneous requests never collapse into
// one logical entry under the "score update on existing member" ZAdd
// semantics.
var memberCounter uint64

// SlidingWindow implements the Sliding-Window-Log strategy: it stores
// one entry per request timestamped within the trailing
// `window` seconds and enforces the limit exactly, with no burst
// allowance. Chosen for compliance-sensitive endpoints where averaging
// is unacceptable, at the cost of memory proportional to traffic.
type SlidingWindow struct {
	store Store
}

// NewSlidingWindow constructs a Sliding-Window-Log strategy over store.
func NewSlidingWindow(store Store) *SlidingWindow {
	return &SlidingWindow{store: store}
}

func (w *SlidingWindow) Check(ctx context.Context, key string, limit int64, window time.Duration) (Decision, error) {
	if err := validateQuota(limit, window); err != nil {
		return Decision{}, err
	}

	key = slidingWindowKeyPrefix + key
	member := uniqueMember()
	raw, err := w.store.EvalAtomic(ctx, ScriptSlidingWindow, key, &SlidingWindowArgs{Limit: limit, Window: window, Member: member})
	if err != nil {
		return Decision{}, err
	}
	outcome := raw.(SlidingWindowOutcome)

	if outcome.Allowed {
		return Decision{
			Status:    Allowed,
			Limit:     limit,
			Remaining: limit - outcome.Count - 1,
			ResetAt:   outcome.Now.Add(window),
		}, nil
	}

	retryAfter := outcome.OldestScore.Add(window).Sub(outcome.Now)
	if retryAfter < minRetryAfter {
		retryAfter = minRetryAfter
	}
	return Decision{
		Status:     Denied,
		Limit:      limit,
		Remaining:  0,
		ResetAt:    outcome.Now.Add(retryAfter),
		RetryAfter: retryAfter,
	}, nil
}

func (w *SlidingWindow) Reset(ctx context.Context, key string) error {
	return w.store.Delete(ctx, slidingWindowKeyPrefix+key)
}

// uniqueMember compounds the current time with a monotone process-local
// counter, guaranteeing member uniqueness without depending on
// sub-microsecond clock resolution.
func uniqueMember() string {
	n := atomic.AddUint64(&memberCounter, 1)
	return fmt.Sprintf("%d-%d", time.Now().UnixNano(), n)
}
