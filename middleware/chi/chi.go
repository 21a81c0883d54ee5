// Package chi provides a chi-compatible middleware adapter for the
// rate-limiting engine in internal/ratelimit, following chi's standard
// router-chain conventions (chi.Router, func(http.Handler) http.Handler
// middleware).
//
// Example usage:
//
//	r := chi.NewRouter()
//	r.Use(ratelimitchi.RateLimiter(interceptor))
package chi

import (
	"net/http"

	"github.com/jassus213/ratelimit-sentinel/internal/ratelimit"
)

// RateLimiter returns a chi-style middleware (func(http.Handler)
// http.Handler) that enforces interceptor's decision on every request
// passing through the chain. It is interchangeable with the plain
// net/http adapter (middleware/nethttp) — chi routers accept any
// func(http.Handler) http.Handler via r.Use — but lives in its own
// package so a chi-based service can depend on it without pulling in
// gin.
func RateLimiter(interceptor *ratelimit.Interceptor, opts ...ratelimit.MiddlewareOption) func(http.Handler) http.Handler {
	cfg := ratelimit.NewMiddlewareConfig(opts...)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			clientID := cfg.Identify(r)

			decision, tier, err := interceptor.Decide(r.Context(), clientID)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			ratelimit.WriteHeaders(w, decision, tier)

			if !decision.IsAllowed() {
				interceptor.Logger().Debugf("ratelimit: denied %q remaining=%d limit=%d", clientID, decision.Remaining, decision.Limit)
				cfg.DenialHandler(w, r, tier, decision)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
