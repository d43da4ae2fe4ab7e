package serverutils

import (
	"errors"

	"ai-notecapture-be/pkg/apperror"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware turns errors returned by handlers into the JSON envelope.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}
		status, message := StatusFor(err)
		return ctx.Status(status).JSON(ErrorResponse(status, message))
	}
}

// StatusFor maps an error onto an HTTP status and a client-safe message.
func StatusFor(err error) (int, string) {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code, fe.Message
	}

	var ce *apperror.CalendarError
	if errors.As(err, &ce) {
		switch ce.Kind {
		case apperror.CalendarNotConnected, apperror.CalendarMissingEventDate:
			return fiber.StatusConflict, ce.Error()
		case apperror.CalendarSessionExpired:
			return fiber.StatusUnauthorized, ce.Error()
		default:
			return fiber.StatusBadGateway, ce.Error()
		}
	}

	switch {
	case errors.Is(err, apperror.ErrValidation):
		return fiber.StatusBadRequest, err.Error()
	case errors.Is(err, apperror.ErrNotFound):
		return fiber.StatusNotFound, err.Error()
	case errors.Is(err, apperror.ErrConfiguration):
		return fiber.StatusServiceUnavailable, err.Error()
	case errors.Is(err, apperror.ErrStructuring), errors.Is(err, apperror.ErrTranscription):
		return fiber.StatusBadGateway, err.Error()
	case errors.Is(err, apperror.ErrPersistence):
		return fiber.StatusInternalServerError, "note could not be saved to storage"
	default:
		return fiber.StatusInternalServerError, "internal server error"
	}
}
