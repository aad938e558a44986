package controller

import (
	"errors"
	"fmt"

	"speaksmart-be/internal/service"
	"speaksmart-be/pkg/tts"

	"github.com/gofiber/fiber/v2"
)

// toHTTPError translates service errors into client-safe fiber errors.
// Anything unrecognised is passed through for the error middleware.
func toHTTPError(err error) error {
	var ve *service.ValidationError
	var se *tts.StatusError
	switch {
	case errors.As(err, &ve):
		return fiber.NewError(fiber.StatusBadRequest, ve.Message)
	case errors.Is(err, service.ErrEvaluationUnavailable):
		return wrapFiber(fiber.StatusServiceUnavailable, "Evaluation temporarily unavailable. Please try again later.", err)
	case errors.Is(err, service.ErrProviderNotConfigured):
		return wrapFiber(fiber.StatusInternalServerError, "LLM API key not configured.", err)
	case errors.Is(err, service.ErrTTSNotConfigured):
		return wrapFiber(fiber.StatusInternalServerError, "TTS service not configured.", err)
	case errors.As(err, &se):
		return wrapFiber(se.StatusCode, fmt.Sprintf("TTS %s failed: %d", se.Stage, se.StatusCode), err)
	case errors.Is(err, service.ErrChatFailed):
		return wrapFiber(fiber.StatusInternalServerError, "Something went wrong while processing your request.", err)
	case errors.Is(err, service.ErrTTSFailed):
		return wrapFiber(fiber.StatusInternalServerError, "Text-to-speech generation failed.", err)
	}
	return err
}

// causeError keeps the underlying cause for logging while exposing the
// fiber.Error status and message.
type causeError struct {
	status *fiber.Error
	cause  error
}

func (e *causeError) Error() string { return e.status.Message + ": " + e.cause.Error() }
func (e *causeError) Unwrap() error { return e.status }

func wrapFiber(code int, message string, cause error) error {
	return &causeError{status: fiber.NewError(code, message), cause: cause}
}
