package ratelimit

import "errors"

// ErrTransport is wrapped into every failure RedisStore returns.
// Strategies pass store errors through unchanged, so callers see it via
// errors.Is/errors.As; the middleware adapters fail open on any
// decision error rather than denying the request.
var ErrTransport = errors.New("ratelimit: transport error")

// ErrMisconfigured is returned when the interceptor is invoked without a
// strategy or quota resolver installed. It is never returned to the
// downstream caller; the interceptor logs it at warn level and forwards
// the request unmodified.
var ErrMisconfigured = errors.New("ratelimit: misconfigured")

// ErrInvalidQuota is returned by a strategy's Check when limit is below
// 1 or window is shorter than one second. It is a programmer error, not
// a runtime condition; Check fails fast rather than produce undefined
// decisions.
var ErrInvalidQuota = errors.New("ratelimit: invalid quota")
