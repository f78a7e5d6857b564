// Package tap is the request-logging interceptor: an http.Handler middleware
// that captures timing, status, headers, and bodies for each request, masks
// sensitive fields, and emits exactly one structured record per exchange to a
// configured sink.
//
// The middleware is transparent to the wrapped handler. Request bodies are
// buffered and restored so downstream reads see an unconsumed stream, and
// response bytes are intercepted and delivered to the real writer exactly
// once on every exit path, including panics. A panicking handler is logged
// and then re-panicked with the original value; logging is a side effect of
// the fault path, never a substitute for it.
//
// Typical wiring:
//
//	opts := tap.DefaultOptions()
//	opts.Sink = sink.NewSlogSink(logger)
//	opts.MaskedFields = append(opts.MaskedFields, "*ssn*")
//	mw, err := tap.New(mux, opts)
//
// Options are validated once in New and immutable afterwards. Each in-flight
// request gets its own RequestContext; the only state shared across requests
// is the options and the sink, which must itself be safe for concurrent
// writes.
package tap
