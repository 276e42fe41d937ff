package respond

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// JSON writes a JSON response with the given status.
func JSON(c *gin.Context, status int, payload interface{}) {
	c.JSON(status, payload)
}

// OK writes a 200 OK JSON response.
func OK(c *gin.Context, payload interface{}) {
	JSON(c, http.StatusOK, payload)
}

// Accepted writes a 202 for work handed to the background session, pointing
// the caller at the resource to poll.
func Accepted(c *gin.Context, pollURL string, payload interface{}) {
	if pollURL != "" {
		c.Header("Location", pollURL)
	}
	JSON(c, http.StatusAccepted, payload)
}
