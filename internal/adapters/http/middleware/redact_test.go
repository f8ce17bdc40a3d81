package middleware_test

import (
	"log/slog"
	"net/http"
	"testing"

	"github.com/jsamuelsen11/donation-gateway/internal/adapters/http/middleware"
)

func attrByKey(attrs []slog.Attr, key string) (slog.Attr, bool) {
	for _, a := range attrs {
		if a.Key == key {
			return a, true
		}
	}
	return slog.Attr{}, false
}

func TestRedactHeaders(t *testing.T) {
	t.Parallel()

	headers := http.Header{
		"Authorization": []string{"Bearer secret-token"},
		"X-Api-Key":     []string{"key-123"},
		"Cookie":        []string{"session=abc"},
		"Content-Type":  []string{"application/json"},
		"Accept":        []string{"application/json", "text/plain"},
	}

	attrs := middleware.RedactHeaders(headers)

	for _, sensitive := range []string{"Authorization", "X-Api-Key", "Cookie"} {
		attr, ok := attrByKey(attrs, sensitive)
		if !ok {
			t.Errorf("header %q missing from attrs", sensitive)
			continue
		}
		if attr.Value.String() != "[REDACTED]" {
			t.Errorf("%s = %q, want [REDACTED]", sensitive, attr.Value.String())
		}
	}

	ct, ok := attrByKey(attrs, "Content-Type")
	if !ok || ct.Value.String() != "application/json" {
		t.Errorf("Content-Type = %v, want passed through", ct)
	}

	// Multi-value headers are joined with a comma.
	accept, ok := attrByKey(attrs, "Accept")
	if !ok || accept.Value.String() != "application/json,text/plain" {
		t.Errorf("Accept = %v, want comma-joined values", accept)
	}
}
