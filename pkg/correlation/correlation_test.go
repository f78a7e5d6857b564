package correlation

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestFromRequest_InboundHeaderWins(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(DefaultHeader, "abc-123")

	id, generated := FromRequest(req, "")
	if id != "abc-123" {
		t.Errorf("id = %q, want abc-123", id)
	}
	if generated {
		t.Error("generated should be false when the header is present")
	}
}

func TestFromRequest_GeneratesWhenAbsent(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	first, generated := FromRequest(req, "")
	if !generated || first == "" {
		t.Fatalf("expected a generated id, got %q (generated=%v)", first, generated)
	}

	second, _ := FromRequest(req, "")
	if first == second {
		t.Errorf("two generations produced the same id: %q", first)
	}
}

func TestFromRequest_CustomHeader(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Trace", "t-9")

	id, generated := FromRequest(req, "X-Trace")
	if id != "t-9" || generated {
		t.Errorf("got (%q, %v), want (t-9, false)", id, generated)
	}
}

func TestContextRoundTrip(t *testing.T) {
	ctx := WithID(context.Background(), "req-7")

	id, ok := FromContext(ctx)
	if !ok || id != "req-7" {
		t.Errorf("FromContext = (%q, %v), want (req-7, true)", id, ok)
	}

	if _, ok := FromContext(context.Background()); ok {
		t.Error("empty context should not carry an id")
	}
}
