package ratelimit

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"strconv"
)

// Logger is the minimal logging capability the interceptor needs. It
// adds a Warnf level to the usual Debugf/Errorf pair so a misconfigured
// interceptor can log a warn-level diagnostic without overloading
// Errorf for a non-error condition.
type Logger interface {
	Debugf(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// noopLogger discards everything; used when no Logger is supplied so
// the interceptor never needs a nil check on the hot path.
type noopLogger struct{}

func (noopLogger) Debugf(string, ...any) {}
func (noopLogger) Warnf(string, ...any)  {}
func (noopLogger) Errorf(string, ...any) {}

// Interceptor ties the quota resolver and a strategy together into the
// request-interception protocol each middleware adapter drives. It
// holds no per-request mutable state: one instance is constructed at
// startup and shared, read-only, across every concurrent request.
type Interceptor struct {
	strategy Strategy
	quotas   *QuotaResolver
	logger   Logger
}

// NewInterceptor constructs an Interceptor. strategy or quotas may be
// nil to model the "not installed at request time" misconfiguration
// case; logger may be nil, in which case a no-op logger is used.
func NewInterceptor(strategy Strategy, quotas *QuotaResolver, logger Logger) *Interceptor {
	if logger == nil {
		logger = noopLogger{}
	}
	return &Interceptor{strategy: strategy, quotas: quotas, logger: logger}
}

// Decide resolves the quota for an already-computed client identity and
// asks the strategy for a decision. It
// also returns the displayable tier name for the X-User-Tier header.
//
// A misconfigured Interceptor (nil strategy or quotas) logs a warn
// diagnostic and returns ErrMisconfigured rather than panicking; a
// transport failure from the strategy's store is returned as-is
// (wrapping ErrTransport) for the caller to apply the fail-open policy.
func (i *Interceptor) Decide(ctx context.Context, clientID string) (Decision, Tier, error) {
	if i.strategy == nil || i.quotas == nil {
		i.logger.Warnf("ratelimit: interceptor invoked without strategy/quota resolver installed")
		return Decision{}, "", ErrMisconfigured
	}

	quota := i.quotas.Resolve(clientID)
	tier := i.quotas.Tier(clientID)

	decision, err := i.strategy.Check(ctx, clientID, quota.Limit, quota.Window)
	if err != nil {
		i.logger.Errorf("ratelimit: check failed for %q: %v", clientID, err)
		return Decision{}, tier, err
	}
	return decision, tier, nil
}

// Logger exposes the configured logger so middleware adapters can share
// it for their own request-lifecycle logging.
func (i *Interceptor) Logger() Logger { return i.logger }

// DenialBody is the JSON shape of the 429 response body.
type DenialBody struct {
	Error      string  `json:"error"`
	Tier       string  `json:"tier"`
	RetryAfter float64 `json:"retry_after"`
	Message    string  `json:"message"`
}

// WriteHeaders stamps the four response headers required on every
// response the interceptor touches.
func WriteHeaders(w http.ResponseWriter, d Decision, tier Tier) {
	h := w.Header()
	h.Set("X-RateLimit-Limit", strconv.FormatInt(d.Limit, 10))
	h.Set("X-RateLimit-Remaining", strconv.FormatInt(d.Remaining, 10))
	h.Set("X-RateLimit-Reset", strconv.FormatInt(d.ResetAt.Unix(), 10))
	h.Set("X-User-Tier", string(tier))
}

// WriteDenial renders the 429 short-circuit response: a Retry-After
// header of at least one second, and the JSON body
// carrying the same value in fractional seconds.
func WriteDenial(w http.ResponseWriter, d Decision, tier Tier, message string) {
	retryAfterSeconds := d.RetryAfter.Seconds()
	retryAfterHeader := int(math.Ceil(retryAfterSeconds))
	if retryAfterHeader < 1 {
		retryAfterHeader = 1
	}
	w.Header().Set("Retry-After", strconv.Itoa(retryAfterHeader))
	w.WriteHeader(http.StatusTooManyRequests)
	_ = json.NewEncoder(w).Encode(DenialBody{
		Error:      "rate_limit_exceeded",
		Tier:       string(tier),
		RetryAfter: retryAfterSeconds,
		Message:    message,
	})
}
