package middleware

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFingerprint(t *testing.T) {
	req := httptest.NewRequest("POST", "/v1/analyses", nil)
	req.RemoteAddr = "10.0.0.9:51234"
	req.Header.Set("User-Agent", "Mozilla/5.0")

	assert.Equal(t, "10.0.0.9:Mozilla/5.0", Fingerprint(req))
}

func TestFingerprintTruncatesLongAgent(t *testing.T) {
	req := httptest.NewRequest("POST", "/v1/analyses", nil)
	req.RemoteAddr = "10.0.0.9:51234"
	req.Header.Set("User-Agent", strings.Repeat("a", 100))

	assert.Equal(t, "10.0.0.9:"+strings.Repeat("a", 32), Fingerprint(req))
}

func TestClientIPHonorsForwardedFor(t *testing.T) {
	req := httptest.NewRequest("POST", "/v1/analyses", nil)
	req.RemoteAddr = "10.0.0.9:51234"
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")

	assert.Equal(t, "203.0.113.7", ClientIP(req))
}

func TestQueryInt(t *testing.T) {
	req := httptest.NewRequest("GET", "/v1/analyses?limit=25&offset=abc", nil)

	assert.Equal(t, 25, QueryInt(req, "limit", 10))
	assert.Equal(t, 0, QueryInt(req, "offset", 0), "malformed falls back to default")
	assert.Equal(t, 10, QueryInt(req, "missing", 10))
}
