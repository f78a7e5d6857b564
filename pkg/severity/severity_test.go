package severity

import (
	"errors"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	tests := []struct {
		name   string
		status int
		err    error
		want   Level
	}{
		{name: "ok", status: 200, want: Info},
		{name: "created", status: 201, want: Info},
		{name: "redirect", status: 302, want: Info},
		{name: "not found", status: 404, want: Warn},
		{name: "bad request", status: 400, want: Warn},
		{name: "server error", status: 500, want: Error},
		{name: "bad gateway", status: 502, want: Error},
		{name: "fault trumps status", status: 200, err: errors.New("boom"), want: Error},
		{name: "fault with 4xx", status: 404, err: errors.New("boom"), want: Error},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Default(tt.status, 5*time.Millisecond, tt.err)
			if got != tt.want {
				t.Errorf("Default(%d, _, %v) = %v, want %v", tt.status, tt.err, got, tt.want)
			}
		})
	}
}

func TestLevelString(t *testing.T) {
	if Info.String() != "info" || Warn.String() != "warn" || Error.String() != "error" {
		t.Errorf("unexpected level names: %q %q %q", Info, Warn, Error)
	}
}
