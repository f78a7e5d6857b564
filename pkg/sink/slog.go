package sink

import (
	"context"
	"log/slog"

	"github.com/reqtap/reqtap/pkg/severity"
)

// SlogSink writes request records through a standard library slog.Logger.
// This is the default backend.
type SlogSink struct {
	logger *slog.Logger
}

// NewSlogSink wraps an slog.Logger. A nil logger uses slog.Default().
func NewSlogSink(logger *slog.Logger) *SlogSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogSink{logger: logger}
}

// Enabled consults the underlying handler's level gate.
func (s *SlogSink) Enabled(level severity.Level) bool {
	return s.logger.Enabled(context.Background(), slogLevel(level))
}

// Write emits the event as one slog record with the structured fields
// attached as attributes.
func (s *SlogSink) Write(e Event) {
	attrs := make([]any, 0, len(e.Fields)+1)
	for k, v := range e.Fields {
		attrs = append(attrs, slog.Any(k, v))
	}
	if e.Err != nil {
		attrs = append(attrs, slog.String("error", e.Err.Error()))
	}
	s.logger.Log(context.Background(), slogLevel(e.Level), e.Message, attrs...)
}

func slogLevel(level severity.Level) slog.Level {
	switch level {
	case severity.Warn:
		return slog.LevelWarn
	case severity.Error:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

var _ Sink = (*SlogSink)(nil)
