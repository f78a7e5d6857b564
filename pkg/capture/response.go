package capture

import (
	"bytes"
	"net/http"
)

// ResponseBuffer substitutes an in-memory buffer for the real
// http.ResponseWriter while the downstream handler runs. Header manipulation
// passes straight through to the real writer, but the status code and body
// are held back until Restore copies them out exactly once.
type ResponseBuffer struct {
	rw          http.ResponseWriter
	buf         bytes.Buffer
	status      int
	wroteHeader bool
	restored    bool
}

// NewResponseBuffer wraps the real response writer.
func NewResponseBuffer(w http.ResponseWriter) *ResponseBuffer {
	return &ResponseBuffer{rw: w, status: http.StatusOK}
}

// Header returns the real writer's header map, so downstream handlers keep
// full control of response headers.
func (b *ResponseBuffer) Header() http.Header {
	return b.rw.Header()
}

// WriteHeader records the status code. Only the first call wins, matching
// net/http semantics. Nothing reaches the wire until Restore.
func (b *ResponseBuffer) WriteHeader(code int) {
	if b.wroteHeader {
		return
	}
	b.status = code
	b.wroteHeader = true
}

// Write buffers the response body.
func (b *ResponseBuffer) Write(p []byte) (int, error) {
	if !b.wroteHeader {
		b.WriteHeader(http.StatusOK)
	}
	return b.buf.Write(p)
}

// Flush is accepted but deferred: the body is delivered in one piece by
// Restore. Implementing http.Flusher keeps handlers that type-assert for it
// working.
func (b *ResponseBuffer) Flush() {}

// Status returns the recorded status code (200 when WriteHeader was never
// called).
func (b *ResponseBuffer) Status() int {
	return b.status
}

// WroteHeader reports whether the downstream handler set a status code or
// wrote any body bytes.
func (b *ResponseBuffer) WroteHeader() bool {
	return b.wroteHeader
}

// SetStatus overrides the recorded status code. Used by the interceptor to
// apply the 500 fallback when the handler panicked before writing anything.
func (b *ResponseBuffer) SetStatus(code int) {
	b.status = code
	b.wroteHeader = true
}

// Body returns the buffered response bytes.
func (b *ResponseBuffer) Body() []byte {
	return b.buf.Bytes()
}

// Restore copies the held-back status code and body to the real writer.
// It is idempotent: only the first call writes, so the caller can invoke it
// on every exit path without double-delivering the response.
func (b *ResponseBuffer) Restore() error {
	if b.restored {
		return nil
	}
	b.restored = true
	b.rw.WriteHeader(b.status)
	if b.buf.Len() == 0 {
		return nil
	}
	_, err := b.rw.Write(b.buf.Bytes())
	return err
}

var _ http.ResponseWriter = (*ResponseBuffer)(nil)
var _ http.Flusher = (*ResponseBuffer)(nil)
