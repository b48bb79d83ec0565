package middleware

import (
	"errors"

	"aquafund-backend/internal/pkg/apperr"
	"aquafund-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// ErrorHandler renders any error that escapes a handler as {error: message}.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return response.Error(c, fe.Message, fe.Code)
	}
	status := apperr.Status(err)
	if status >= fiber.StatusInternalServerError {
		log.Error().Err(err).Str("trace_id", GetTraceID(c)).Str("path", c.Path()).Msg("request failed")
	}
	return response.FromError(c, err)
}
