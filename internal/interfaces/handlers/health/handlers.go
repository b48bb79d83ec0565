package health

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	healthsvc "aquafund-backend/internal/application/health"
	"aquafund-backend/internal/middleware"
	"aquafund-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

const serviceName = "aquafund-gateway"

// Handlers holds dependencies for health endpoints. Rdb may be nil.
type Handlers struct {
	Rdb            *redis.Client
	Deps           map[string]healthsvc.Pinger
	HealthAdminKey string
}

// Reset clears traffic counters. Requires query key=HEALTH_ADMIN_KEY.
func (h *Handlers) Reset(c *fiber.Ctx) error {
	key := c.Query("key")
	if h.HealthAdminKey == "" || key != h.HealthAdminKey {
		return response.Error(c, "Unauthorized", fiber.StatusForbidden)
	}
	if h.Rdb == nil {
		return response.JSON(c, fiber.StatusOK, fiber.Map{"success": true})
	}
	ctx := context.Background()
	keys := []string{middleware.KeyReqTotal, middleware.KeyReqErrors, middleware.KeyResTime, middleware.KeyResCount, middleware.KeyStartTime, middleware.KeyLastReq, middleware.KeyErrorLog}
	if err := h.Rdb.Del(ctx, keys...).Err(); err != nil {
		return response.Error(c, "Failed to reset stats", fiber.StatusInternalServerError)
	}
	if err := h.Rdb.Set(ctx, middleware.KeyStartTime, strconv.FormatInt(time.Now().UnixMilli(), 10), 0).Err(); err != nil {
		return response.Error(c, "Failed to reset stats", fiber.StatusInternalServerError)
	}
	return response.JSON(c, fiber.StatusOK, fiber.Map{"success": true})
}

// JSON returns service status, runtime, traffic and dependency probes.
func (h *Handlers) JSON(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()
	result := healthsvc.CollectHealth(ctx, h.Rdb, h.Deps)
	return c.JSON(fiber.Map{
		"service":      serviceName,
		"status":       result.Status,
		"runtime":      result.Runtime,
		"traffic":      result.Traffic,
		"dependencies": result.Dependencies,
	})
}

// Errors returns the most recent 5xx entries recorded by HealthMarker.
func (h *Handlers) Errors(c *fiber.Ctx) error {
	out := make([]map[string]interface{}, 0)
	if h.Rdb == nil {
		return c.JSON(out)
	}
	entries, err := h.Rdb.LRange(context.Background(), middleware.KeyErrorLog, 0, 49).Result()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(out)
	}
	for _, s := range entries {
		var m map[string]interface{}
		if json.Unmarshal([]byte(s), &m) == nil && m != nil {
			out = append(out, m)
		}
	}
	return c.JSON(out)
}
