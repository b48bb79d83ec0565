package middleware

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"aquafund-backend/internal/pkg/apperr"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// Redis keys for traffic counters, shared with the health handlers.
const (
	KeyReqTotal  = "aquafund:health:req_total"
	KeyReqErrors = "aquafund:health:req_errors"
	KeyResTime   = "aquafund:health:res_time_total"
	KeyResCount  = "aquafund:health:res_count"
	KeyStartTime = "aquafund:health:start_time"
	KeyLastReq   = "aquafund:health:last_request"
	KeyErrorLog  = "aquafund:health:error_log"
)

// maxErrorLog is how many 5xx entries the error log keeps.
const maxErrorLog = 50

// HealthMarker records request stats in Redis (skip /health*, /reset, favicon).
// With no Redis client it is a pass-through.
func HealthMarker(rdb *redis.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		path := c.Path()
		if rdb == nil || strings.HasPrefix(path, "/health") || path == "/reset" || strings.HasPrefix(path, "/favicon") {
			return c.Next()
		}

		start := time.Now()
		ctx := context.Background()
		lastReq, _ := json.Marshal(map[string]interface{}{
			"time":   start,
			"ip":     c.IP(),
			"path":   c.OriginalURL(),
			"method": c.Method(),
		})
		pipe := rdb.Pipeline()
		pipe.Set(ctx, KeyLastReq, lastReq, 0)
		pipe.Incr(ctx, KeyReqTotal)
		_, _ = pipe.Exec(ctx)

		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = apperr.Status(err)
			}
		}
		pipe = rdb.Pipeline()
		pipe.Incr(ctx, KeyResCount)
		pipe.IncrByFloat(ctx, KeyResTime, float64(time.Since(start).Milliseconds()))
		if status >= fiber.StatusInternalServerError {
			entry, _ := json.Marshal(map[string]interface{}{
				"time":     time.Now().UTC(),
				"path":     path,
				"method":   c.Method(),
				"status":   status,
				"trace_id": GetTraceID(c),
				"message":  errorText(c, err),
			})
			pipe.Incr(ctx, KeyReqErrors)
			pipe.LPush(ctx, KeyErrorLog, entry)
			pipe.LTrim(ctx, KeyErrorLog, 0, maxErrorLog-1)
		}
		_, _ = pipe.Exec(ctx)
		return err
	}
}

func errorText(c *fiber.Ctx, err error) string {
	if err != nil {
		return err.Error()
	}
	var body struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(c.Response().Body(), &body) == nil && body.Error != "" {
		return body.Error
	}
	return ""
}
