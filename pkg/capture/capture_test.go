package capture

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestReplayBody_DownstreamSeesUnconsumedStream(t *testing.T) {
	body := `{"password":"abc123","name":"x"}`
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(body))

	captured, err := ReplayBody(req)
	if err != nil {
		t.Fatalf("ReplayBody: %v", err)
	}
	if string(captured) != body {
		t.Errorf("captured = %q, want %q", captured, body)
	}

	// The handler must still be able to read the full body.
	replayed, err := io.ReadAll(req.Body)
	if err != nil {
		t.Fatalf("reading replayed body: %v", err)
	}
	if string(replayed) != body {
		t.Errorf("replayed = %q, want %q", replayed, body)
	}
}

func TestReplayBody_NoBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	captured, err := ReplayBody(req)
	if err != nil {
		t.Fatalf("ReplayBody: %v", err)
	}
	if len(captured) != 0 {
		t.Errorf("expected empty capture, got %q", captured)
	}
}

func TestText(t *testing.T) {
	tests := []struct {
		name   string
		data   []byte
		want   string
		wantOK bool
	}{
		{name: "plain", data: []byte("hello"), want: "hello", wantOK: true},
		{name: "utf8", data: []byte("héllo"), want: "héllo", wantOK: true},
		{name: "empty", data: nil, wantOK: false},
		{name: "binary", data: []byte{0xff, 0xfe, 0x00, 0x01}, wantOK: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Text(tt.data)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("Text(%v) = (%q, %v), want (%q, %v)", tt.data, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name  string
		s     string
		limit int
		want  string
	}{
		{name: "under limit", s: "abc", limit: 10, want: "abc"},
		{name: "at limit", s: "abc", limit: 3, want: "abc"},
		{name: "over limit", s: "abcdef", limit: 3, want: "abc"},
		{name: "unlimited", s: "abcdef", limit: 0, want: "abcdef"},
		{name: "multibyte not corrupted", s: "héllo", limit: 2, want: "hé"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Truncate(tt.s, tt.limit); got != tt.want {
				t.Errorf("Truncate(%q, %d) = %q, want %q", tt.s, tt.limit, got, tt.want)
			}
		})
	}
}

func TestResponseBuffer_HoldsBodyUntilRestore(t *testing.T) {
	rec := httptest.NewRecorder()
	buf := NewResponseBuffer(rec)

	buf.Header().Set("Content-Type", "application/json")
	buf.WriteHeader(http.StatusCreated)
	if _, err := buf.Write([]byte(`{"id":1}`)); err != nil {
		t.Fatalf("Write: %v", err)
	}

	if rec.Body.Len() != 0 {
		t.Errorf("body reached the real writer before Restore: %q", rec.Body)
	}

	if err := buf.Restore(); err != nil {
		t.Fatalf("Restore: %v", err)
	}

	if rec.Code != http.StatusCreated {
		t.Errorf("status = %d, want 201", rec.Code)
	}
	if rec.Body.String() != `{"id":1}` {
		t.Errorf("body = %q", rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
}

func TestResponseBuffer_RestoreIsIdempotent(t *testing.T) {
	rec := httptest.NewRecorder()
	buf := NewResponseBuffer(rec)
	if _, err := buf.Write([]byte("once")); err != nil {
		t.Fatalf("Write: %v", err)
	}

	if err := buf.Restore(); err != nil {
		t.Fatalf("first Restore: %v", err)
	}
	if err := buf.Restore(); err != nil {
		t.Fatalf("second Restore: %v", err)
	}

	if rec.Body.String() != "once" {
		t.Errorf("body delivered more than once: %q", rec.Body.String())
	}
}

func TestResponseBuffer_DefaultStatusAndImplicitHeader(t *testing.T) {
	rec := httptest.NewRecorder()
	buf := NewResponseBuffer(rec)

	if buf.WroteHeader() {
		t.Error("WroteHeader true before any write")
	}
	if _, err := buf.Write([]byte("ok")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if !buf.WroteHeader() {
		t.Error("Write should imply the 200 header")
	}
	if buf.Status() != http.StatusOK {
		t.Errorf("Status = %d, want 200", buf.Status())
	}
}

func TestResponseBuffer_WriteOrderPreserved(t *testing.T) {
	rec := httptest.NewRecorder()
	buf := NewResponseBuffer(rec)

	chunks := []string{"alpha ", "beta ", "gamma"}
	var want bytes.Buffer
	for _, c := range chunks {
		want.WriteString(c)
		if _, err := buf.Write([]byte(c)); err != nil {
			t.Fatalf("Write: %v", err)
		}
	}
	if err := buf.Restore(); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if rec.Body.String() != want.String() {
		t.Errorf("byte order broken: got %q want %q", rec.Body.String(), want.String())
	}
}
