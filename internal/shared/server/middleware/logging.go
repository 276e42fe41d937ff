package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"jobapp/internal/shared/telemetry"
)

// Context keys handlers may set to enrich the request log line.
const (
	TaskIDKey   = "taskId"
	TaskKindKey = "taskKind"
)

// Logging emits a structured log per request.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.EqualFold(c.Request.Method, "OPTIONS") {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		latency := time.Since(start)

		taskID, _ := c.Get(TaskIDKey)
		taskKind, _ := c.Get(TaskKindKey)

		telemetry.Info("request.complete", map[string]any{
			"request_id":  RequestIDFromContext(c),
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"status":      c.Writer.Status(),
			"duration_ms": float64(latency.Microseconds()) / 1000.0,
			"task_id":     taskID,
			"task_kind":   taskKind,
			"client_ip":   c.ClientIP(),
			"user_agent":  c.Request.UserAgent(),
		})
	}
}
