package common

import (
	"errors"
	"fmt"

	"github.com/fabriciorodias/matriculas-analyzer/constants"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Failure taxonomy for a single analysis run.
var (
	// ErrInvalidPDF: the source stream is not a readable PDF. Fatal for the run.
	ErrInvalidPDF = errors.New("invalid or unreadable PDF")
	// ErrUpstreamUnavailable: LLM/OCR transport failure. Fatal for this run; the caller may retry.
	ErrUpstreamUnavailable = errors.New("upstream service unavailable")
	// ErrUpstreamRejected: the provider's safety filter blocked the request.
	ErrUpstreamRejected = errors.New("upstream rejected the request")
	// ErrInvalidInput: bad caller input (unsupported extension, empty upload).
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound: unknown analysis id in the session cache.
	ErrNotFound = errors.New("resource not found")
)

// StageError tags a failure with the pipeline stage that produced it,
// so the caller can tell a reviewer what to do about it.
type StageError struct {
	Stage constants.Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// UserMessage returns the reviewer-facing description for this failure.
func (e *StageError) UserMessage() string {
	return constants.Describe(e.Stage)
}

func NewStageError(stage constants.Stage, err error) *StageError {
	return &StageError{Stage: stage, Err: err}
}

func NewAppError(code, message string, cause error) *AppError {
	return &AppError{Code: code, Message: message, Cause: cause}
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
