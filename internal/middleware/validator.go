package middleware

import (
	"net"
	"net/http"
	"strconv"
	"strings"
)

// Request validation and client identification utilities

const fingerprintAgentLen = 32

// Fingerprint derives a stable per-client key for rate limiting: network
// origin plus a truncated client-agent string. Two requests only share a
// budget when both parts match.
func Fingerprint(r *http.Request) string {
	ua := r.UserAgent()
	if len(ua) > fingerprintAgentLen {
		ua = ua[:fingerprintAgentLen]
	}
	return ClientIP(r) + ":" + ua
}

// ClientIP resolves the originating address, honoring X-Forwarded-For
// when a proxy sits in front.
func ClientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if i := strings.IndexByte(fwd, ','); i >= 0 {
			fwd = fwd[:i]
		}
		return strings.TrimSpace(fwd)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// QueryInt parses an integer query parameter, falling back to def on a
// missing or malformed value.
func QueryInt(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}
