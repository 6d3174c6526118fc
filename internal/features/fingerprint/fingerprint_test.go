package fingerprint

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

const chromeUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

func TestFromRequestPrefersClientHeader(t *testing.T) {
	r := httptest.NewRequest("GET", "/g/abc", nil)
	r.Header.Set("User-Agent", chromeUA)
	r.Header.Set(HeaderName, "  client-fp-123  ")

	assert.Equal(t, "client-fp-123", FromRequest(r))
}

func TestFromRequestDerivesStableFingerprint(t *testing.T) {
	build := func() string {
		r := httptest.NewRequest("GET", "/g/abc", nil)
		r.Header.Set("User-Agent", chromeUA)
		r.Header.Set("Accept", "text/html")
		r.Header.Set("Accept-Language", "en-US")
		r.Header.Set("Accept-Encoding", "gzip")
		return FromRequest(r)
	}

	first := build()
	assert.Equal(t, first, build(), "identical signals must produce identical output")
	assert.Len(t, first, 64)

	other := httptest.NewRequest("GET", "/g/abc", nil)
	other.Header.Set("User-Agent", chromeUA)
	other.Header.Set("Accept", "text/html")
	other.Header.Set("Accept-Language", "de-DE")
	other.Header.Set("Accept-Encoding", "gzip")
	assert.NotEqual(t, first, FromRequest(other))
}

func TestAttributionKey(t *testing.T) {
	assert.Equal(t, "203.0.113.9_fp", AttributionKey("203.0.113.9", "fp"))
	assert.NotEqual(t, AttributionKey("1.2.3.4", "a"), AttributionKey("1.2.3.4", "b"))
	assert.NotEqual(t, AttributionKey("1.2.3.4", "a"), AttributionKey("4.3.2.1", "a"))
}
