package llm

import (
	"context"
	"errors"
	"fmt"
)

// Client sends a prompt to a text generation model and returns its reply.
type Client interface {
	Send(ctx context.Context, prompt string) (string, error)
}

// Kind classifies terminal model failures.
type Kind string

const (
	KindServiceUnavailable Kind = "service_unavailable"
	KindTimeout            Kind = "timeout"
	KindServiceError       Kind = "service_error"
)

var (
	ErrServiceUnavailable = errors.New("model service unavailable")
	ErrTimeout            = errors.New("model service timeout")
	ErrServiceError       = errors.New("model service error")
)

// Error is returned by Client implementations once a call has failed for good.
type Error struct {
	Kind       Kind
	StatusCode int
	Attempts   int
	Err        error
}

func (e *Error) Error() string {
	msg := string(e.Kind)
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.StatusCode)
	}
	if e.Attempts > 0 {
		msg = fmt.Sprintf("%s after %d attempt(s)", msg, e.Attempts)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the sentinel for the error's Kind.
func (e *Error) Is(target error) bool {
	switch e.Kind {
	case KindServiceUnavailable:
		return target == ErrServiceUnavailable
	case KindTimeout:
		return target == ErrTimeout
	case KindServiceError:
		return target == ErrServiceError
	}
	return false
}

// KindOf returns the failure kind carried by err, or "" when err is not a model error.
func KindOf(err error) Kind {
	var modelErr *Error
	if errors.As(err, &modelErr) {
		return modelErr.Kind
	}
	return ""
}
