// Package sink defines the structured-event boundary the interceptor writes
// to, plus adapters for common logging backends (slog, zap, rotating JSON
// files).
//
// Sinks are shared across concurrent requests: Write must be safe for
// concurrent use. Enabled lets the interceptor skip body capture and masking
// work entirely when a record would be filtered out anyway.
package sink

import (
	"time"

	"github.com/reqtap/reqtap/pkg/severity"
)

// Event is one structured request log record.
type Event struct {
	// Time is when the record was assembled.
	Time time.Time

	// Level is the severity decided by the active policy.
	Level severity.Level

	// Err is the captured downstream fault, nil on success.
	Err error

	// Message is the rendered summary line.
	Message string

	// Fields carries the structured request/response/diagnostics payload.
	Fields map[string]any
}

// Sink receives request log records. Implementations must be safe for
// concurrent Write calls from independent requests.
type Sink interface {
	// Enabled reports whether records at the given level would be kept.
	Enabled(level severity.Level) bool

	// Write records the event. Failures are the sink's own concern; the
	// interceptor treats a panic here as a diagnostics-only event.
	Write(e Event)
}

// Nop discards everything and reports all levels disabled, which lets the
// interceptor skip capture work entirely.
type Nop struct{}

// Enabled always reports false.
func (Nop) Enabled(severity.Level) bool { return false }

// Write discards the event.
func (Nop) Write(Event) {}

var _ Sink = Nop{}

// Multi fans an event out to several sinks.
type Multi struct {
	sinks []Sink
}

// NewMulti builds a fan-out sink. Nil members are dropped.
func NewMulti(sinks ...Sink) *Multi {
	m := &Multi{}
	for _, s := range sinks {
		if s != nil {
			m.sinks = append(m.sinks, s)
		}
	}
	return m
}

// Enabled reports true when any member sink keeps the level.
func (m *Multi) Enabled(level severity.Level) bool {
	for _, s := range m.sinks {
		if s.Enabled(level) {
			return true
		}
	}
	return false
}

// Write delivers the event to every member sink that keeps its level.
func (m *Multi) Write(e Event) {
	for _, s := range m.sinks {
		if s.Enabled(e.Level) {
			s.Write(e)
		}
	}
}

var _ Sink = (*Multi)(nil)
