package service

import "errors"

var (
	ErrValidation            = errors.New("validation failed")
	ErrEvaluationUnavailable = errors.New("evaluation unavailable")
	ErrProviderNotConfigured = errors.New("llm provider not configured")
	ErrTTSNotConfigured      = errors.New("tts provider not configured")
	ErrTTSFailed             = errors.New("tts synthesis failed")
	ErrChatFailed            = errors.New("chat completion failed")
)

// ValidationError carries the client-facing reason. errors.Is(err,
// ErrValidation) holds for every ValidationError.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func newValidationError(msg string) error {
	return &ValidationError{Message: msg}
}
