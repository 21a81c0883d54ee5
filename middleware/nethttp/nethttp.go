// Package nethttp provides standard net/http middleware that enforces
// the distributed rate-limiting engine (internal/ratelimit) in front of
// any http.Handler.
//
// It drives a full ratelimit.Interceptor — client identification, quota
// resolution and strategy dispatch — on every request, and fails open
// (forwards the request, no headers set) rather than returning 500
// when the underlying store is unreachable.
//
// Example usage:
//
//	store := ratelimit.NewMemoryStore(ctx, time.Minute)
//	strategy := ratelimit.NewTokenBucket(store)
//	quotas := ratelimit.NewQuotaResolver(nil)
//	interceptor := ratelimit.NewInterceptor(strategy, quotas, logger)
//
//	mux := http.NewServeMux()
//	mux.HandleFunc("/", handler)
//	http.ListenAndServe(":8080", nethttp.Middleware(interceptor)(mux))
package nethttp

import (
	"net/http"

	"github.com/jassus213/ratelimit-sentinel/internal/ratelimit"
)

// Middleware wraps next with the rate-limiting interceptor. Behavior is
// customized via ratelimit.MiddlewareOption (WithIdentify,
// WithDenialHandler).
func Middleware(interceptor *ratelimit.Interceptor, opts ...ratelimit.MiddlewareOption) func(http.Handler) http.Handler {
	cfg := ratelimit.NewMiddlewareConfig(opts...)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			clientID := cfg.Identify(r)

			decision, tier, err := interceptor.Decide(r.Context(), clientID)
			if err != nil {
				// Fail-open: availability over strict quota under
				// degraded storage or misconfiguration.
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
