package tap

import (
	"fmt"
	"net/http"
	"time"

	"github.com/reqtap/reqtap/pkg/capture"
	"github.com/reqtap/reqtap/pkg/correlation"
	"github.com/reqtap/reqtap/pkg/diag"
	"github.com/reqtap/reqtap/pkg/mask"
	"github.com/reqtap/reqtap/pkg/severity"
	"github.com/reqtap/reqtap/pkg/sink"
)

// Middleware wraps an http.Handler and emits one structured log record per
// request.
type Middleware struct {
	next  http.Handler
	opts  Options
	masks *mask.Set
}

// New builds the interceptor around next. The options are validated and
// defaulted here; the returned middleware treats them as immutable.
func New(next http.Handler, opts Options) (*Middleware, error) {
	if next == nil {
		return nil, fmt.Errorf("tap: a downstream handler is required")
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if opts.MaskToken == "" {
		opts.MaskToken = mask.DefaultToken
	}
	if opts.CorrelationHeader == "" {
		opts.CorrelationHeader = correlation.DefaultHeader
	}
	if opts.Severity == nil {
		opts.Severity = severity.Default
	}
	if opts.MessageBuilder == nil {
		opts.MessageBuilder = DefaultMessage
	}
	if opts.Diagnostics == nil {
		opts.Diagnostics = diag.Nop{}
	}
	return &Middleware{
		next:  next,
		opts:  opts,
		masks: mask.NewSet(opts.MaskedFields),
	}, nil
}

// NewWithDefaults is the composition-boundary convenience: DefaultOptions
// with an slog sink on the process default logger. Library code should call
// New with an explicit sink instead.
func NewWithDefaults(next http.Handler) *Middleware {
	opts := DefaultOptions()
	opts.Sink = sink.NewSlogSink(nil)
	m, err := New(next, opts)
	if err != nil {
		// Defaults always validate; only a nil handler can land here.
		panic(err)
	}
	return m
}

// ServeHTTP runs the interception state machine: assign the correlation id,
// buffer the request body, substitute the response buffer, invoke
// downstream, restore the real stream on every exit path, then assemble and
// emit the record. A downstream panic is re-raised unchanged after logging.
func (m *Middleware) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, _ := correlation.FromRequest(r, m.opts.CorrelationHeader)
	r = r.WithContext(correlation.WithID(r.Context(), id))
	if m.opts.EchoCorrelationHeader {
		w.Header().Set(m.opts.CorrelationHeader, id)
	}

	// Correlation assignment always happens; everything below is skipped
	// when no record could be emitted, so pass-through requests pay nothing
	// for buffering or masking.
	if m.opts.LogMode == LogNone || !m.anyLevelEnabled() {
		m.next.ServeHTTP(w, r)
		return
	}

	rc := &RequestContext{
		CorrelationID: id,
		Start:         time.Now(),
		Request:       r,
		StatusCode:    http.StatusOK,
	}

	var reqBody []byte
	if m.opts.RequestBodyMode != LogNone {
		var err error
		reqBody, err = capture.ReplayBody(r)
		if err != nil {
			m.opts.Diagnostics.Report("request body capture failed: %v", err)
			reqBody = nil
		}
	}

	buf := capture.NewResponseBuffer(w)

	var panicked any
	var faulted bool
	func() {
		defer func() {
			if p := recover(); p != nil {
				panicked = p
				faulted = true
			}
		}()
		m.next.ServeHTTP(buf, r)
	}()

	rc.Elapsed = time.Since(rc.Start)
	if faulted {
		rc.Err = faultError(panicked)
		if !buf.WroteHeader() {
			buf.SetStatus(http.StatusInternalServerError)
		}
	}
	rc.StatusCode = buf.Status()

	// The real writer gets the buffered bytes on every exit path, before
	// any logging work that could itself fail.
	if err := buf.Restore(); err != nil {
		m.opts.Diagnostics.Report("restoring response stream: %v", err)
	}

	m.emit(rc, reqBody, buf.Body(), w.Header())

	if faulted {
		panic(panicked)
	}
}

// anyLevelEnabled reports whether the sink keeps at least one severity.
func (m *Middleware) anyLevelEnabled() bool {
	return m.opts.Sink.Enabled(severity.Info) ||
		m.opts.Sink.Enabled(severity.Warn) ||
		m.opts.Sink.Enabled(severity.Error)
}

// emit assembles and writes the record. Any failure in here is reported to
// diagnostics and otherwise swallowed: end users never observe logging
// failures.
func (m *Middleware) emit(rc *RequestContext, reqBody, respBody []byte, respHeader http.Header) {
	defer func() {
		if p := recover(); p != nil {
			m.opts.Diagnostics.Report("request log emission failed: %v", p)
		}
	}()

	level := m.opts.Severity(rc.StatusCode, rc.Elapsed, rc.Err)
	if !m.opts.Sink.Enabled(level) {
		return
	}
	succeeded := rc.Succeeded()
	if !m.opts.LogMode.captures(succeeded) {
		return
	}

	fields := m.buildFields(rc, reqBody, respBody, respHeader, succeeded)
	message, extra := m.opts.MessageBuilder(rc)
	for k, v := range extra {
		fields[k] = v
	}

	m.opts.Sink.Write(sink.Event{
		Time:    time.Now(),
		Level:   level,
		Err:     rc.Err,
		Message: message,
		Fields:  fields,
	})
}

// faultError shapes a recovered panic value into the record's error without
// losing an underlying error.
func faultError(p any) error {
	if err, ok := p.(error); ok {
		return err
	}
	return fmt.Errorf("panic: %v", p)
}

// DefaultMessage renders the standard summary line.
func DefaultMessage(rc *RequestContext) (string, map[string]any) {
	return fmt.Sprintf("HTTP %s %s responded %d in %d ms",
		rc.Request.Method, rc.Request.URL.Path, rc.StatusCode, rc.Elapsed.Milliseconds()), nil
}

var _ http.Handler = (*Middleware)(nil)
