package ratelimit

import "net/http"

// IdentifyFunc extracts the client identity from an incoming HTTP
// request. The returned string becomes the key every strategy and the
// quota resolver operate on.
type IdentifyFunc func(r *http.Request) string

// DenialHandler renders the short-circuit response for a DENIED
// decision. The default, WriteDenial, covers the standard body/header
// contract; callers that need a different rendering (plain text, a
// different error taxonomy) can override it.
type DenialHandler func(w http.ResponseWriter, r *http.Request, tier Tier, d Decision)

// MiddlewareConfig holds the per-framework wiring around a shared
// Interceptor. It is the functional-options target every middleware
// adapter (net/http, gin, chi) builds from.
type MiddlewareConfig struct {
	Identify      IdentifyFunc
	DenialHandler DenialHandler
}

// MiddlewareOption applies one setting to a MiddlewareConfig.
type MiddlewareOption func(*MiddlewareConfig)

// NewMiddlewareConfig builds a MiddlewareConfig with the default
// identity precedence and denial rendering, then applies opts.
func NewMiddlewareConfig(opts ...MiddlewareOption) *MiddlewareConfig {
	cfg := &MiddlewareConfig{
		Identify:      DefaultIdentify,
		DenialHandler: func(w http.ResponseWriter, _ *http.Request, tier Tier, d Decision) {
			WriteDenial(w, d, tier, "rate limit exceeded")
		},
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// DefaultIdentify implements the identity precedence rule against a
// live *http.Request: X-API-Key, then the left-most X-Forwarded-For
// entry, then the request's RemoteAddr host, then "unknown".
func DefaultIdentify(r *http.Request) string {
	apiKey := r.Header.Get("X-API-Key")
	forwardedFor := r.Header.Get("X-Forwarded-For")
	return Identify(apiKey, forwardedFor, peerHost(r))
}

func peerHost(r *http.Request) string {
	host, _, ok := splitHostPort(r.RemoteAddr)
	if !ok {
		return r.RemoteAddr
	}
	return host
}

// WithIdentify overrides client identification, e.g. to key on an
// authenticated user ID instead of an API credential header.
func WithIdentify(f IdentifyFunc) MiddlewareOption {
	return func(c *MiddlewareConfig) {
		if f != nil {
			c.Identify = f
		}
	}
}

// WithDenialHandler overrides how a DENIED decision is rendered.
func WithDenialHandler(f DenialHandler) MiddlewareOption {
	return func(c *MiddlewareConfig) {
		if f != nil {
			c.DenialHandler = f
		}
	}
}
