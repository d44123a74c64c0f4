package llm

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorMatchesSentinelByKind(t *testing.T) {
	err := fmt.Errorf("analyze: %w", &Error{Kind: KindTimeout, Attempts: 3, Err: errors.New("deadline")})
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("expected ErrTimeout match")
	}
	if errors.Is(err, ErrServiceUnavailable) {
		t.Fatalf("did not expect ErrServiceUnavailable match")
	}
	if KindOf(err) != KindTimeout {
		t.Fatalf("unexpected kind %q", KindOf(err))
	}
	if KindOf(errors.New("plain")) != "" {
		t.Fatalf("expected empty kind for plain errors")
	}
}

func TestErrorMessage(t *testing.T) {
	err := &Error{Kind: KindServiceUnavailable, StatusCode: 503, Attempts: 3}
	if got := err.Error(); got != "service_unavailable (status 503) after 3 attempt(s)" {
		t.Fatalf("unexpected message %q", got)
	}
}
