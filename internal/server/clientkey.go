package server

import (
	"net"
	"net/http"
	"strings"
)

// clientKeyFallback attributes requests that carry no usable identity
// signal.
const clientKeyFallback = "unknown"

// clientKey attributes the request to a client identity for the guard
// chain. Behind a trusted edge the first X-Forwarded-For hop is the
// original client; the header is only honoured when the deployment says the
// edge is trusted, otherwise the transport peer address is used.
func (s *Server) clientKey(r *http.Request) string {
	if s.trustForwardedFor {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			first := strings.TrimSpace(strings.Split(xff, ",")[0])
			if first != "" {
				return first
			}
		}
	}

	host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
	if err == nil && host != "" {
		return host
	}
	if r.RemoteAddr != "" {
		return r.RemoteAddr
	}
	return clientKeyFallback
}
