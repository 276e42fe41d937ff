package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"jobapp/internal/shared/apperr"
	"jobapp/internal/shared/server/respond"
	"jobapp/internal/shared/telemetry"
)

// Recovery turns a handler panic into a 500 with the request ID attached so
// the log line can be found.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			reqID := RequestIDFromContext(c)
			telemetry.Error("http.panic", map[string]any{
				"request_id": reqID,
				"panic":      fmt.Sprint(rec),
				"stack":      string(debug.Stack()),
				"path":       c.Request.URL.Path,
				"method":     c.Request.Method,
			})
			respond.Error(c, http.StatusInternalServerError, string(apperr.Unknown), "unexpected server error", gin.H{"request_id": reqID})
		}()
		c.Next()
	}
}
