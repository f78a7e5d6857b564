package tap

import (
	"net/http"
	"time"
)

// RequestContext is the per-invocation state of the interceptor. It is
// created at entry, populated as the exchange progresses, handed to
// enrichers and the message builder, and discarded when the invocation
// returns. Nothing in it is shared across requests.
type RequestContext struct {
	// CorrelationID is stable for the request's lifetime: the inbound header
	// value or a generated UUID.
	CorrelationID string

	// Start is when the interceptor was invoked.
	Start time.Time

	// Request is the live inbound request.
	Request *http.Request

	// RequestBodyText and ResponseBodyText are the captured body texts as
	// they appear in the record (masked and truncated). Empty when the facet
	// was not captured or the body was not text.
	RequestBodyText  string
	ResponseBodyText string

	// StatusCode is the final response status.
	StatusCode int

	// Elapsed is the downstream handler's wall time.
	Elapsed time.Duration

	// Err is the captured downstream fault, nil on success.
	Err error
}

// Succeeded reports the derived outcome: no fault and a status below 400.
func (rc *RequestContext) Succeeded() bool {
	return rc.Err == nil && rc.StatusCode < 400
}
