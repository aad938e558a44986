package serverutils

import (
	"errors"

	"speaksmart-be/internal/pkg/logger"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// StatusFor maps an error that reached the HTTP boundary to a status code and
// the message that is safe to show the client.
func StatusFor(err error) (int, string) {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code, fe.Message
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return fiber.StatusBadRequest, "Invalid request body."
	}
	return fiber.StatusInternalServerError, "Internal Server Error"
}

// ErrorHandlerMiddleware turns handler errors into {"error": "..."} bodies and
// logs the underlying cause.
func ErrorHandlerMiddleware(log logger.ILogger) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		code, message := StatusFor(err)
		details := map[string]interface{}{
			"method": ctx.Method(),
			"path":   ctx.Path(),
			"status": code,
			"error":  err.Error(),
		}
		if code >= fiber.StatusInternalServerError {
			log.Error("HTTP", "request failed", details)
		} else {
			log.Warn("HTTP", "request rejected", details)
		}

		return ctx.Status(code).JSON(ErrorResponse(message))
	}
}
