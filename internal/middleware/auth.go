package middleware

import (
	"strings"

	"aquafund-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

const authorizationLocal = "authorization"

// RequireAuthorization rejects requests without an Authorization header before any
// downstream call is made. The header value itself is verified by the backend.
func RequireAuthorization() fiber.Handler {
	return func(c *fiber.Ctx) error {
		auth := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
		if auth == "" {
			return response.Unauthorized(c)
		}
		c.Locals(authorizationLocal, auth)
		return c.Next()
	}
}

// Authorization returns the caller's Authorization header verbatim ("" when absent).
func Authorization(c *fiber.Ctx) string {
	if v, ok := c.Locals(authorizationLocal).(string); ok {
		return v
	}
	return c.Get(fiber.HeaderAuthorization)
}
