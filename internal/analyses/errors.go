package analyses

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("document not found")
	ErrInvalidInput = errors.New("invalid input")
	// ErrAnalysisFailed and ErrQuestionFailed are matched by *FailureError.
	ErrAnalysisFailed = errors.New("analysis failed")
	ErrQuestionFailed = errors.New("question failed")
	// ErrResponseTooShort marks a model reply below the minimum useful length.
	ErrResponseTooShort = errors.New("model response too short or empty")
)

type operation string

const (
	opAnalyze operation = "analyze"
	opAsk     operation = "ask"
)

// FailureError reports a pipeline run that could not produce a result.
// The model or storage error that caused it is available through Unwrap.
type FailureError struct {
	Op         operation
	DocumentID string
	Err        error
}

func (e *FailureError) Error() string {
	return fmt.Sprintf("%s document %s: %v", e.Op, e.DocumentID, e.Err)
}

func (e *FailureError) Unwrap() error {
	return e.Err
}

func (e *FailureError) Is(target error) bool {
	switch e.Op {
	case opAnalyze:
		return target == ErrAnalysisFailed
	case opAsk:
		return target == ErrQuestionFailed
	}
	return false
}
