// Package diag is the logging subsystem's own reporting channel: a
// best-effort text sink for parse errors, masking failures, and misbehaving
// enrichers. Reporters must never panic and never block the request path.
package diag

import (
	"fmt"
	"log/slog"
)

// Reporter receives internal diagnostics from the interceptor.
type Reporter interface {
	// Report records a diagnostic message. Implementations must not panic.
	Report(format string, args ...any)
}

// Nop discards all diagnostics. Used when no reporter is configured.
type Nop struct{}

// Report discards the message.
func (Nop) Report(string, ...any) {}

var _ Reporter = Nop{}

// SlogReporter forwards diagnostics to an slog.Logger at warn level.
type SlogReporter struct {
	logger *slog.Logger
}

// NewSlogReporter builds a Reporter on top of the given logger. A nil logger
// yields a discarding reporter.
func NewSlogReporter(logger *slog.Logger) Reporter {
	if logger == nil {
		return Nop{}
	}
	return &SlogReporter{logger: logger}
}

// Report logs the formatted message. Panics from the underlying handler are
// swallowed; diagnostics must never take down a request.
func (r *SlogReporter) Report(format string, args ...any) {
	defer func() {
		_ = recover()
	}()
	r.logger.Warn(fmt.Sprintf(format, args...), slog.String("component", "reqtap"))
}

var _ Reporter = (*SlogReporter)(nil)
