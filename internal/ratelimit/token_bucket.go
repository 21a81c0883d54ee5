package ratelimit

import (
	"context"
	"math"
	"time"
)

// tokenBucketKeyPrefix is the key namespace reserved for Token-Bucket
// state. No other component may write under this prefix.
const tokenBucketKeyPrefix = "tb:"

// TokenBucket implements the lazy-refill Token-Bucket strategy: a
// client starts with a full bucket of `limit` tokens and refills at
// `limit/window` tokens per second, computed only when the key is next
// touched. This keeps the decision O(1) per request with no background
// timer and no clock synchronisation requirement beyond the store's own
// clock being monotone.
//
// limit and window are supplied per Check call rather than baked into
// the constructor, since the quota resolver picks a different quota per
// client tier.
type TokenBucket struct {
	store Store
}

// NewTokenBucket constructs a Token-Bucket strategy over store. store
// may be a MemoryStore (single-process, tests and local runs) or a
// RedisStore (shared, production fleet).
func NewTokenBucket(store Store) *TokenBucket {
	return &TokenBucket{store: store}
}

func (b *TokenBucket) Check(ctx context.Context, key string, limit int64, window time.Duration) (Decision, error) {
	if err := validateQuota(limit, window); err != nil {
		return Decision{}, err
	}

	key = tokenBucketKeyPrefix + key
	raw, err := b.store.EvalAtomic(ctx, ScriptTokenBucket, key, &TokenBucketArgs{Limit: limit, Window: window})
	if err != nil {
		return Decision{}, err
	}
	outcome := raw.(TokenBucketOutcome)

	if outcome.Allowed {
		return Decision{
			Status:    Allowed,
			Limit:     limit,
			Remaining: int64(math.Floor(outcome.Tokens)),
			ResetAt:   outcome.Now.Add(window),
		}, nil
	}

	refillRate := float64(limit) / window.Seconds()
	retryAfter := time.Duration((1 - outcome.Tokens) / refillRate * float64(time.Second))
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

func (b *TokenBucket) Reset(ctx context.Context, key string) error {
	return b.store.Delete(ctx, tokenBucketKeyPrefix+key)
}
