package ratelimit

import "strings"

// Identify builds the opaque client identity string the rest of the
// engine keys on. Precedence: an API credential if present
// (prefixed "api:"), otherwise the first entry of a forwarded-for
// header if present (prefixed "ip:"), otherwise the peer address
// (prefixed "ip:"), otherwise the literal "ip:unknown".
//
// apiKey, forwardedFor and peerAddr are already-extracted header/
// transport values; the HTTP-specific extraction (which header names to
// read, trusting the left-most X-Forwarded-For hop) lives in the
// interceptor and its middleware adapters, not here, so this function
// stays testable without an *http.Request.
func Identify(apiKey, forwardedFor, peerAddr string) string {
	if apiKey != "" {
		return "api:" + apiKey
	}
	if first := firstForwardedFor(forwardedFor); first != "" {
		return "ip:" + first
	}
	if peerAddr != "" {
		return "ip:" + peerAddr
	}
	return "ip:unknown"
}

// firstForwardedFor returns the left-most entry of a comma-separated
// X-Forwarded-For value. The core trusts this entry unconditionally:
// deployments behind untrusted hops must strip or validate the header
// upstream.
func firstForwardedFor(header string) string {
	if header == "" {
		return ""
	}
	first, _, _ := strings.Cut(header, ",")
	return strings.TrimSpace(first)
}
