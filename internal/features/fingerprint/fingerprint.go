// Package fingerprint derives a stable identifier for a visiting client.
//
// There are two independent implementations of this capability: the SPA
// computes one from canvas/WebGL/audio/screen signals and sends it in
// the X-Device-Fingerprint header, and the server derives one from
// request headers. They are never compared with each other; only
// equality within the same side matters.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"

	ua "github.com/mileusna/useragent"
)

// HeaderName carries the client-side fingerprint when the SPA set one.
const HeaderName = "X-Device-Fingerprint"

// FromRequest returns the device fingerprint for a request. A
// client-supplied fingerprint wins; otherwise one is derived from the
// request headers. Identical signals always produce identical output.
func FromRequest(r *http.Request) string {
	if client := strings.TrimSpace(r.Header.Get(HeaderName)); client != "" {
		return client
	}
	return fromHeaders(r)
}

func fromHeaders(r *http.Request) string {
	userAgent := r.Header.Get("User-Agent")
	parsed := ua.Parse(userAgent)

	signals := []string{
		userAgent,
		r.Header.Get("Accept"),
		r.Header.Get("Accept-Language"),
		r.Header.Get("Accept-Encoding"),
		r.Header.Get("Connection"),
		parsed.Name,
		parsed.Version,
		parsed.OS,
		parsed.OSVersion,
	}

	sum := sha256.Sum256([]byte(strings.Join(signals, "")))
	return hex.EncodeToString(sum[:])
}

// AttributionKey joins visitor IP and device fingerprint into the key
// that deduplicates referral credit. The underscore separator cannot
// occur in an IP and the fingerprint is hex or base64-ish, so the join
// is unambiguous.
func AttributionKey(ip, fp string) string {
	return ip + "_" + fp
}
