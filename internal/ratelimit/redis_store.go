package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// tokenBucketScript implements the lazy-refill decision procedure as a
// single atomic round trip. It reads the server's own clock via TIME
// rather than trusting the caller's wall clock, so retry_after stays
// reliable across a fleet whose members may drift relative to each
// other but not relative to the store.
var tokenBucketScript = redis.NewScript(`
local key = KEYS[1]
local limit = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local rate = limit / window

local t = redis.call('TIME')
local now = tonumber(t[1]) + tonumber(t[2]) / 1000000

local data = redis.call('HMGET', key, 'tokens', 'last_refill')
local tokens = tonumber(data[1])
local last_refill = tonumber(data[2])
if tokens == nil then
	tokens = limit
	last_refill = now
end

local elapsed = now - last_refill
if elapsed < 0 then elapsed = 0 end
tokens = math.min(limit, tokens + elapsed * rate)

local allowed = 0
if tokens >= 1 then
	allowed = 1
	tokens = tokens - 1
end

redis.call('HSET', key, 'tokens', tostring(tokens), 'last_refill', tostring(now))
redis.call('EXPIRE', key, math.ceil(window * 2))

return {allowed, tostring(tokens), tostring(now)}
`)

// slidingWindowScript implements the evict/count/admit procedure as a
// single atomic round trip.
var slidingWindowScript = redis.NewScript(`
local key = KEYS[1]
local limit = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local member = ARGV[3]

local t = redis.call('TIME')
local now = tonumber(t[1]) + tonumber(t[2]) / 1000000
local window_start = now - window

redis.call('ZREMRANGEBYSCORE', key, '-inf', window_start)
local count = redis.call('ZCARD', key)

if count < limit then
	redis.call('ZADD', key, now, member)
	redis.call('EXPIRE', key, math.ceil(window))
	return {1, count, '0', tostring(now)}
end

local oldest = redis.call('ZRANGE', key, 0, 0, 'WITHSCORES')
local oldest_score = '0'
if oldest and #oldest >= 2 then
	oldest_score = oldest[2]
end

return {0, count, oldest_score, tostring(now)}
`)

// RedisStore delegates to a replicated Redis-compatible service,
// implementing the Store contract with atomic server-side scripts for
// the two decision procedures. It is the shared-store adapter needed
// for correctness under a horizontally scaled fleet: decisions on the
// same key linearise through Redis's own single command executor.
//
// Connection pooling is the client's concern, not RedisStore's:
// strategies built on top must not assume a single underlying
// connection.
type RedisStore struct {
	client redis.UniversalClient
}

// NewRedisStore wraps an already-configured Redis client. The caller
// owns the client's lifecycle (including Close).
func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Get(ctx context.Context, key string) (Record, bool, error) {
	res, err := s.client.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, false, fmt.Errorf("%w: get %q: %v", ErrTransport, key, err)
	}
	if len(res) == 0 {
		return nil, false, nil
	}
	rec := make(Record, len(res))
	for field, raw := range res {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, false, fmt.Errorf("%w: get %q: field %q: %v", ErrTransport, key, field, err)
		}
		rec[field] = v
	}
	return rec, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, rec Record, ttl time.Duration) error {
	fields := make(map[string]any, len(rec))
	for k, v := range rec {
		fields[k] = strconv.FormatFloat(v, 'f', -1, 64)
	}
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, key)
	if len(fields) > 0 {
		pipe.HSet(ctx, key, fields)
	}
	pipe.Expire(ctx, key, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("%w: set %q: %v", ErrTransport, key, err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("%w: delete %q: %v", ErrTransport, key, err)
	}
	return nil
}

func (s *RedisStore) ZAdd(ctx context.Context, key string, score float64, member string) error {
	err := s.client.ZAdd(ctx, key, redis.Z{Score: score, Member: member}).Err()
	if err != nil {
		return fmt.Errorf("%w: zadd %q: %v", ErrTransport, key, err)
	}
	return nil
}

func (s *RedisStore) ZRemRangeByScore(ctx context.Context, key string, lo, hi float64) (int64, error) {
	n, err := s.client.ZRemRangeByScore(ctx, key, formatScore(lo), formatScore(hi)).Result()
	if err != nil {
		return 0, fmt.Errorf("%w: zremrangebyscore %q: %v", ErrTransport, key, err)
	}
	return n, nil
}

func (s *RedisStore) ZCard(ctx context.Context, key string) (int64, error) {
	n, err := s.client.ZCard(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("%w: zcard %q: %v", ErrTransport, key, err)
	}
	return n, nil
}

func (s *RedisStore) ZRange(ctx context.Context, key string, start, stop int64) ([]ScoredMember, error) {
	res, err := s.client.ZRangeWithScores(ctx, key, start, stop).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: zrange %q: %v", ErrTransport, key, err)
	}
	out := make([]ScoredMember, 0, len(res))
	for _, z := range res {
		member, _ := z.Member.(string)
		out = append(out, ScoredMember{Member: member, Score: z.Score})
	}
	return out, nil
}

func (s *RedisStore) Expire(ctx context.Context, key string, ttl time.Duration) error {
	if err := s.client.Expire(ctx, key, ttl).Err(); err != nil {
		return fmt.Errorf("%w: expire %q: %v", ErrTransport, key, err)
	}
	return nil
}

func (s *RedisStore) EvalAtomic(ctx context.Context, script Script, key string, args any) (any, error) {
	switch script {
	case ScriptTokenBucket:
		a := args.(*TokenBucketArgs)
		return s.runTokenBucket(ctx, key, a)
	case ScriptSlidingWindow:
		a := args.(*SlidingWindowArgs)
		return s.runSlidingWindow(ctx, key, a)
	default:
		panic("ratelimit: unknown script")
	}
}

func (s *RedisStore) runTokenBucket(ctx context.Context, key string, a *TokenBucketArgs) (TokenBucketOutcome, error) {
	res, err := tokenBucketScript.Run(ctx, s.client, []string{key}, a.Limit, a.Window.Seconds()).Result()
	if err != nil {
		return TokenBucketOutcome{}, fmt.Errorf("%w: token bucket script %q: %v", ErrTransport, key, err)
	}
	row, ok := res.([]any)
	if !ok || len(row) < 3 {
		return TokenBucketOutcome{}, fmt.Errorf("%w: token bucket script %q: unexpected reply", ErrTransport, key)
	}
	allowed, _ := toInt64(row[0])
	tokens, err := strconv.ParseFloat(toString(row[1]), 64)
	if err != nil {
		return TokenBucketOutcome{}, fmt.Errorf("%w: token bucket script %q: %v", ErrTransport, key, err)
	}
	now, err := strconv.ParseFloat(toString(row[2]), 64)
	if err != nil {
		return TokenBucketOutcome{}, fmt.Errorf("%w: token bucket script %q: %v", ErrTransport, key, err)
	}
	return TokenBucketOutcome{Allowed: allowed == 1, Tokens: tokens, Now: scoreToTime(now)}, nil
}

func (s *RedisStore) runSlidingWindow(ctx context.Context, key string, a *SlidingWindowArgs) (SlidingWindowOutcome, error) {
	res, err := slidingWindowScript.Run(ctx, s.client, []string{key}, a.Limit, a.Window.Seconds(), a.Member).Result()
	if err != nil {
		return SlidingWindowOutcome{}, fmt.Errorf("%w: sliding window script %q: %v", ErrTransport, key, err)
	}
	row, ok := res.([]any)
	if !ok || len(row) < 4 {
		return SlidingWindowOutcome{}, fmt.Errorf("%w: sliding window script %q: unexpected reply", ErrTransport, key)
	}
	allowed, _ := toInt64(row[0])
	count, _ := toInt64(row[1])
	oldest, err := strconv.ParseFloat(toString(row[2]), 64)
	if err != nil {
		return SlidingWindowOutcome{}, fmt.Errorf("%w: sliding window script %q: %v", ErrTransport, key, err)
	}
	now, err := strconv.ParseFloat(toString(row[3]), 64)
	if err != nil {
		return SlidingWindowOutcome{}, fmt.Errorf("%w: sliding window script %q: %v", ErrTransport, key, err)
	}
	out := SlidingWindowOutcome{Allowed: allowed == 1, Count: count, Now: scoreToTime(now)}
	if oldest > 0 {
		out.OldestScore = scoreToTime(oldest)
	}
	return out, nil
}

func formatScore(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func toString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case int64:
		return strconv.FormatInt(t, 10)
	default:
		return fmt.Sprintf("%v", t)
	}
}

func toInt64(v any) (int64, error) {
	switch t := v.(type) {
	case int64:
		return t, nil
	case string:
		return strconv.ParseInt(t, 10, 64)
	default:
		return 0, fmt.Errorf("unexpected type %T", v)
	}
}
