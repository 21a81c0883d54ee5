// Package gin provides a Gin middleware adapter for the rate-limiting
// engine in internal/ratelimit.
//
// The handler drives a full ratelimit.Interceptor on every request, and
// a storage transport failure fails open (c.Next, no headers set)
// rather than aborting with 500.
//
// Example usage:
//
//	router := gin.Default()
//	router.Use(ratelimitgin.RateLimiter(interceptor))
package gin

import (
	"github.com/gin-gonic/gin"

	"github.com/jassus213/ratelimit-sentinel/internal/ratelimit"
)

// RateLimiter builds a gin.HandlerFunc that enforces interceptor's
// decision on every request. Behavior is customized via
// ratelimit.MiddlewareOption (WithIdentify, WithDenialHandler).
func RateLimiter(interceptor *ratelimit.Interceptor, opts ...ratelimit.MiddlewareOption) gin.HandlerFunc {
	cfg := ratelimit.NewMiddlewareConfig(opts...)

	return func(c *gin.Context) {
		clientID := cfg.Identify(c.Request)

		decision, tier, err := interceptor.Decide(c.Request.Context(), clientID)
		if err != nil {
			// Fail-open: let the request through unthrottled rather
			// than turning a storage outage into a client-facing 500.
			c.Next()
			return
		}

		ratelimit.WriteHeaders(c.Writer, decision, tier)

		if !decision.IsAllowed() {
			interceptor.Logger().Debugf("ratelimit: denied %q remaining=%d limit=%d", clientID, decision.Remaining, decision.Limit)
			cfg.DenialHandler(c.Writer, c.Request, tier, decision)
			c.Abort()
			return
		}

		interceptor.Logger().Debugf("ratelimit: allowed %q remaining=%d limit=%d", clientID, decision.Remaining, decision.Limit)
		c.Next()
	}
}
