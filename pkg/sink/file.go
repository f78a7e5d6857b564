package sink

import (
	"encoding/json"
	"sync"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/reqtap/reqtap/pkg/severity"
)

// FileSinkConfig configures a rotating JSON-lines file sink.
type FileSinkConfig struct {
	// Path is the log file location.
	Path string

	// MaxSizeMB rotates the file once it exceeds this size. Defaults to 100.
	MaxSizeMB int

	// MaxBackups is the number of rotated files to keep. 0 keeps all.
	MaxBackups int

	// MaxAgeDays removes rotated files older than this. 0 keeps all.
	MaxAgeDays int

	// MinLevel drops records below this severity.
	MinLevel severity.Level
}

// FileSink writes one JSON line per request record to a size/age-rotated
// file.
type FileSink struct {
	mu  sync.Mutex
	enc *json.Encoder
	out *lumberjack.Logger
	min severity.Level
}

// fileRecord is the on-disk projection of an Event.
type fileRecord struct {
	Time    time.Time      `json:"timestamp"`
	Level   string         `json:"level"`
	Message string         `json:"message"`
	Error   string         `json:"error,omitempty"`
	Fields  map[string]any `json:"properties,omitempty"`
}

// NewFileSink opens a rotating JSON-lines sink at cfg.Path.
func NewFileSink(cfg FileSinkConfig) *FileSink {
	if cfg.MaxSizeMB <= 0 {
		cfg.MaxSizeMB = 100
	}
	out := &lumberjack.Logger{
		Filename:   cfg.Path,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
	}
	return &FileSink{
		enc: json.NewEncoder(out),
		out: out,
		min: cfg.MinLevel,
	}
}

// Enabled reports whether the level clears the configured minimum.
func (s *FileSink) Enabled(level severity.Level) bool {
	return level >= s.min
}

// Write appends the event as a JSON line. Encoding problems are dropped on
// the floor; a file sink must never disturb the request path.
func (s *FileSink) Write(e Event) {
	if !s.Enabled(e.Level) {
		return
	}
	rec := fileRecord{
		Time:    e.Time,
		Level:   e.Level.String(),
		Message: e.Message,
		Fields:  e.Fields,
	}
	if rec.Time.IsZero() {
		rec.Time = time.Now()
	}
	if e.Err != nil {
		rec.Error = e.Err.Error()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	_ = s.enc.Encode(rec)
}

// Close flushes and closes the underlying file.
func (s *FileSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.out.Close()
}

var _ Sink = (*FileSink)(nil)
