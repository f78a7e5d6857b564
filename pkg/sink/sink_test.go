package sink

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/reqtap/reqtap/pkg/severity"
)

func TestSlogSink_LevelGating(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}))
	s := NewSlogSink(logger)

	assert.False(t, s.Enabled(severity.Info))
	assert.True(t, s.Enabled(severity.Warn))
	assert.True(t, s.Enabled(severity.Error))
}

func TestSlogSink_Write(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	s := NewSlogSink(logger)

	s.Write(Event{
		Level:   severity.Error,
		Err:     errors.New("handler exploded"),
		Message: "HTTP POST /login responded 500 in 12ms",
		Fields:  map[string]any{"correlationId": "c-1"},
	})

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "ERROR", rec["level"])
	assert.Equal(t, "HTTP POST /login responded 500 in 12ms", rec["msg"])
	assert.Equal(t, "c-1", rec["correlationId"])
	assert.Equal(t, "handler exploded", rec["error"])
}

func TestZapSink(t *testing.T) {
	core, observed := observer.New(zapcore.WarnLevel)
	s := NewZapSink(zap.New(core))

	assert.False(t, s.Enabled(severity.Info))
	assert.True(t, s.Enabled(severity.Error))

	s.Write(Event{Level: severity.Info, Message: "filtered"})
	s.Write(Event{Level: severity.Error, Message: "kept", Fields: map[string]any{"correlationId": "c-2"}})

	entries := observed.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "kept", entries[0].Message)
	assert.Equal(t, "c-2", entries[0].ContextMap()["correlationId"])
}

func TestFileSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "requests.log")
	s := NewFileSink(FileSinkConfig{Path: path, MinLevel: severity.Warn})
	defer s.Close()

	assert.False(t, s.Enabled(severity.Info))

	s.Write(Event{Level: severity.Info, Message: "dropped"})
	s.Write(Event{
		Time:    time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		Level:   severity.Warn,
		Message: "HTTP GET /missing responded 404 in 1ms",
		Fields:  map[string]any{"correlationId": "c-3"},
	})
	require.NoError(t, s.Close())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	require.Len(t, lines, 1, "info record should have been dropped")

	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &rec))
	assert.Equal(t, "warn", rec["level"])
	assert.True(t, strings.Contains(rec["message"].(string), "404"))
}

// memorySink records events for fan-out assertions.
type memorySink struct {
	min    severity.Level
	events []Event
}

func (m *memorySink) Enabled(l severity.Level) bool { return l >= m.min }
func (m *memorySink) Write(e Event)                 { m.events = append(m.events, e) }

func TestMulti(t *testing.T) {
	all := &memorySink{min: severity.Info}
	errsOnly := &memorySink{min: severity.Error}
	m := NewMulti(all, nil, errsOnly)

	assert.True(t, m.Enabled(severity.Info))
	assert.True(t, m.Enabled(severity.Error))

	m.Write(Event{Level: severity.Info, Message: "a"})
	m.Write(Event{Level: severity.Error, Message: "b"})

	assert.Len(t, all.events, 2)
	require.Len(t, errsOnly.events, 1)
	assert.Equal(t, "b", errsOnly.events[0].Message)
}

func TestNop(t *testing.T) {
	var s Sink = Nop{}
	assert.False(t, s.Enabled(severity.Error))
	s.Write(Event{Level: severity.Error}) // must not panic
}
