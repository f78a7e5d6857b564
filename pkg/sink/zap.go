package sink

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/reqtap/reqtap/pkg/severity"
)

// ZapSink writes request records through a zap.Logger, for hosts already
// standardized on zap.
type ZapSink struct {
	logger *zap.Logger
}

// NewZapSink wraps a zap.Logger. A nil logger uses zap.NewNop().
func NewZapSink(logger *zap.Logger) *ZapSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ZapSink{logger: logger}
}

// Enabled consults the zap core's level gate.
func (s *ZapSink) Enabled(level severity.Level) bool {
	return s.logger.Core().Enabled(zapLevel(level))
}

// Write emits the event as one zap entry.
func (s *ZapSink) Write(e Event) {
	fields := make([]zap.Field, 0, len(e.Fields)+1)
	for k, v := range e.Fields {
		fields = append(fields, zap.Any(k, v))
	}
	if e.Err != nil {
		fields = append(fields, zap.Error(e.Err))
	}
	if ce := s.logger.Check(zapLevel(e.Level), e.Message); ce != nil {
		ce.Write(fields...)
	}
}

func zapLevel(level severity.Level) zapcore.Level {
	switch level {
	case severity.Warn:
		return zapcore.WarnLevel
	case severity.Error:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

var _ Sink = (*ZapSink)(nil)
