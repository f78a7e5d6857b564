// Package severity maps a completed request's outcome to a log level.
package severity

import "time"

// Level is the severity of an emitted request log record.
type Level int

// Severity levels, in increasing order.
const (
	Info Level = iota
	Warn
	Error
)

// String returns the lowercase name of the level.
func (l Level) String() string {
	switch l {
	case Warn:
		return "warn"
	case Error:
		return "error"
	default:
		return "info"
	}
}

// Policy decides the severity of a request log record from the final status
// code, the elapsed handler time, and the fault (nil when the handler
// returned normally).
type Policy func(status int, elapsed time.Duration, err error) Level

// Default is the standard policy: any fault or 5xx status is an error,
// a 4xx status is a warning, everything else is informational.
func Default(status int, _ time.Duration, err error) Level {
	switch {
	case err != nil || status >= 500:
		return Error
	case status >= 400:
		return Warn
	default:
		return Info
	}
}
