package respond

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobapp/internal/shared/apperr"
)

func TestAppErrorCarriesHints(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/fail", func(c *gin.Context) {
		AppError(c, apperr.New(apperr.Timeout, "llm.complete", "request timed out", errors.New("deadline")))
	})

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/fail", nil))

	assert.Equal(t, http.StatusGatewayTimeout, resp.Code)
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, "timeout", body.Error.Code)
	assert.NotEmpty(t, body.Error.Hints)
}

func TestErrorPlain(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/bad", func(c *gin.Context) {
		Error(c, http.StatusBadRequest, "invalid_request", "job_listing is required", nil)
	})

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/bad", nil))

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.JSONEq(t, `{"error":{"code":"invalid_request","message":"job_listing is required"}}`, resp.Body.String())
}
