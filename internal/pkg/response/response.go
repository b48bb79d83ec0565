package response

import (
	"aquafund-backend/internal/pkg/apperr"

	"github.com/gofiber/fiber/v2"
)

// ErrorBody is the only error shape clients ever see.
type ErrorBody struct {
	Error string `json:"error"`
}

// JSON sends data with the given status.
func JSON(c *fiber.Ctx, statusCode int, data interface{}) error {
	return c.Status(statusCode).JSON(data)
}

// Raw sends an already-encoded JSON body as-is (backend pass-through).
func Raw(c *fiber.Ctx, statusCode int, body []byte) error {
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Status(statusCode).Send(body)
}

// Error sends {error: message} with statusCode.
func Error(c *fiber.Ctx, message string, statusCode int) error {
	return c.Status(statusCode).JSON(ErrorBody{Error: message})
}

// FromError maps err through the apperr taxonomy.
func FromError(c *fiber.Ctx, err error) error {
	return Error(c, apperr.Message(err), apperr.Status(err))
}

// Unauthorized sends 401 with the standard error body.
func Unauthorized(c *fiber.Ctx) error {
	return Error(c, apperr.ErrAuthRequired.Error(), fiber.StatusUnauthorized)
}
