// Package extract flattens request metadata (headers, query strings, client
// address, user agent) into the shapes attached to a request log record.
package extract

import (
	"net"
	"net/http"
	"net/url"
	"strings"

	"github.com/reqtap/reqtap/pkg/mask"
)

// Flatten converts a multi-value map into the logged shape: keys with a
// single value map to a string, keys with several map to a []string. Masking
// is applied before emission.
func Flatten(values map[string][]string, patterns *mask.Set, token string) map[string]any {
	if len(values) == 0 {
		return nil
	}
	masked := mask.Values(values, patterns, token)
	out := make(map[string]any, len(masked))
	for key, vals := range masked {
		switch len(vals) {
		case 0:
			out[key] = ""
		case 1:
			out[key] = vals[0]
		default:
			out[key] = vals
		}
	}
	return out
}

// Query parses a raw query string into the flattened shape. Masking is
// applied only when maskValues is set; a malformed query degrades to nil
// rather than failing the request.
func Query(rawQuery string, patterns *mask.Set, token string, maskValues bool) map[string]any {
	if rawQuery == "" {
		return nil
	}
	parsed, err := url.ParseQuery(rawQuery)
	if err != nil {
		return nil
	}
	if !maskValues {
		patterns = nil
	}
	return Flatten(parsed, patterns, token)
}

// ClientIP returns the originating client address, preferring the standard
// proxy headers over the socket address.
func ClientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		// First hop is the original client.
		if i := strings.IndexByte(fwd, ','); i >= 0 {
			fwd = fwd[:i]
		}
		return strings.TrimSpace(fwd)
	}
	if real := r.Header.Get("X-Real-IP"); real != "" {
		return real
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
