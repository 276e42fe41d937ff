package respond

import (
	"github.com/gin-gonic/gin"

	"jobapp/internal/shared/apperr"
	"jobapp/internal/shared/telemetry"
)

// ErrorBody defines the standardized error object.
type ErrorBody struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Hints   []string    `json:"hints,omitempty"`
	Details interface{} `json:"details,omitempty"`
}

// ErrorResponse wraps the error body.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// Error sends a standardized error response.
func Error(c *gin.Context, status int, code, message string, details interface{}) {
	write(c, status, ErrorBody{Code: code, Message: message, Details: details})
}

// AppError maps a typed failure onto its status and attaches the kind's hints.
func AppError(c *gin.Context, err error) {
	kind := apperr.KindOf(err)
	write(c, apperr.HTTPStatus(kind), ErrorBody{
		Code:    string(kind),
		Message: err.Error(),
		Hints:   apperr.Hints(kind),
	})
}

func write(c *gin.Context, status int, body ErrorBody) {
	telemetry.Error("http.error", map[string]any{
		"status":     status,
		"code":       body.Code,
		"message":    body.Message,
		"path":       c.Request.URL.Path,
		"method":     c.Request.Method,
		"request_id": c.GetString("requestId"),
	})

	c.AbortWithStatusJSON(status, ErrorResponse{Error: body})
}
