// Package correlation assigns and propagates the per-request correlation id
// that joins log records belonging to one logical request.
package correlation

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// DefaultHeader is the inbound header consulted for an existing id.
const DefaultHeader = "X-Correlation-ID"

type ctxKey struct{}

// FromRequest returns the correlation id for a request: the inbound header
// value when present, otherwise a freshly generated UUID. generated reports
// which case applied.
func FromRequest(r *http.Request, header string) (id string, generated bool) {
	if header == "" {
		header = DefaultHeader
	}
	if v := r.Header.Get(header); v != "" {
		return v, false
	}
	return uuid.NewString(), true
}

// WithID stores the correlation id on a context so downstream handlers and
// enrichers can read it without ambient lookups.
func WithID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext returns the correlation id stored by WithID.
func FromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(ctxKey{}).(string)
	return id, ok && id != ""
}
