// Package capture buffers request and response bodies around a downstream
// handler so they can be logged without disturbing the live exchange.
package capture

import (
	"bytes"
	"io"
	"net/http"
	"unicode/utf8"
)

// ReplayBody reads the full request body and installs a fresh reader in its
// place, so the downstream handler sees an unconsumed stream. The buffered
// bytes are returned. A read error returns whatever was read along with the
// error; the replacement reader still carries those bytes.
func ReplayBody(r *http.Request) ([]byte, error) {
	if r.Body == nil || r.Body == http.NoBody {
		return nil, nil
	}
	data, err := io.ReadAll(r.Body)
	r.Body.Close()
	r.Body = io.NopCloser(bytes.NewReader(data))
	if err != nil {
		return data, err
	}
	return data, nil
}

// Text decodes body bytes as UTF-8 text. Binary or invalid UTF-8 content
// reports ok == false so callers degrade to "no body text captured".
func Text(data []byte) (string, bool) {
	if len(data) == 0 {
		return "", false
	}
	if !utf8.Valid(data) {
		return "", false
	}
	return string(data), true
}

// Truncate cuts s to at most limit characters (runes, not bytes). A limit of
// zero or less means unlimited.
func Truncate(s string, limit int) string {
	if limit <= 0 {
		return s
	}
	count := 0
	for i := range s {
		if count == limit {
			return s[:i]
		}
		count++
	}
	return s
}
