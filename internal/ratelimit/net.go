package ratelimit

import "net"

// splitHostPort is a thin wrapper over net.SplitHostPort that reports
// success as a bool instead of an error, since the only caller
// (peerHost) just wants the request's RemoteAddr verbatim on failure.
func splitHostPort(hostport string) (host string, port string, ok bool) {
	h, p, err := net.SplitHostPort(hostport)
	if err != nil {
		return "", "", false
	}
	return h, p, true
}
