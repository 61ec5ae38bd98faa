package scanpoller

import (
	"errors"
	"fmt"
	"testing"

	"github.com/SentryPrime1/sentryprime-dashboard/internal/adapters/backend"
)

func TestTransientByMessage(t *testing.T) {
	tests := []struct {
		msg  string
		want bool
	}{
		{"HTTP 502 Bad Gateway", true},
		{"HTTP 503 Service Unavailable", true},
		{"status 429", true},
		{"Network error while polling", true},
		{"fetch failed", true},
		{"request TIMEOUT", true},
		{"Invalid request", false},
		{"scan job rejected", false},
	}
	for _, tt := range tests {
		if got := Transient(errors.New(tt.msg)); got != tt.want {
			t.Errorf("Transient(%q) = %v, want %v", tt.msg, got, tt.want)
		}
	}
}

func TestTransientPrefersStructuredKind(t *testing.T) {
	if !Transient(&backend.Error{Status: 503, Message: "upstream sad"}) {
		t.Error("503 backend error should be transient")
	}
	if !Transient(fmt.Errorf("poll: %w", &backend.Error{Status: 429})) {
		t.Error("wrapped 429 backend error should be transient")
	}
	// A structured kind wins over message matching: a 400 is terminal even
	// when its message happens to contain a transient word.
	if Transient(&backend.Error{Status: 400, Message: "timeout value out of range"}) {
		t.Error("400 backend error must not be retried")
	}
}
