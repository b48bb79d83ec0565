package middleware

import (
	"strings"

	"aquafund-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// CORSConfig holds CORS configuration (suffix + dev password).
type CORSConfig struct {
	AllowedSuffix string
	DevPassword   string
}

// CORS allows origins ending with AllowedSuffix, localhost preflights, and requests
// carrying the dev-password header. Credentials allowed.
func CORS(cfg CORSConfig) fiber.Handler {
	return func(c *fiber.Ctx) error {
		origin := c.Get("Origin")
		if origin == "" {
			return c.Next()
		}
		local := strings.HasPrefix(origin, "http://localhost:") || strings.HasPrefix(origin, "http://127.0.0.1:")
		if c.Method() == fiber.MethodOptions && local {
			setCORSHeaders(c, origin)
			return c.SendStatus(fiber.StatusNoContent)
		}
		allowed := local && cfg.AllowedSuffix == ""
		if cfg.AllowedSuffix != "" && strings.HasSuffix(strings.ToLower(origin), strings.ToLower(cfg.AllowedSuffix)) {
			allowed = true
		}
		if cfg.DevPassword != "" && c.Get("dev-password") == cfg.DevPassword {
			allowed = true
		}
		if !allowed {
			return response.Error(c, "Not allowed by CORS", fiber.StatusForbidden)
		}
		setCORSHeaders(c, origin)
		if c.Method() == fiber.MethodOptions {
			return c.SendStatus(fiber.StatusNoContent)
		}
		return c.Next()
	}
}

func setCORSHeaders(c *fiber.Ctx, origin string) {
	c.Set("Access-Control-Allow-Origin", origin)
	c.Set("Access-Control-Allow-Credentials", "true")
	c.Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
	c.Set("Access-Control-Allow-Headers", "Content-Type, Authorization, dev-password")
	c.Set("Access-Control-Expose-Headers", traceIDHeader)
}
