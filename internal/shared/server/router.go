package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"jobapp/internal/shared/config"
	"jobapp/internal/shared/metrics"
	"jobapp/internal/shared/server/middleware"
)

// RouteRegistrar attaches a handler's routes to the /api/v1 group.
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// RouterDeps lists the handlers mounted by NewRouter. Nil handlers are skipped.
type RouterDeps struct {
	Config         config.Config
	HealthHandler  RouteRegistrar
	ProfileHandler RouteRegistrar
	ApplyHandler   RouteRegistrar
	ImportHandler  RouteRegistrar
	SessionHandler RouteRegistrar
}

const submitGroup = "SUBMIT"

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Config.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.Auth(deps.Config.APIToken),
		middleware.RateLimit(middleware.RateLimitConfig{
			GroupFor: submitGroupFor,
			Rules: map[string]middleware.RateLimitRule{
				submitGroup: {Rate: 0.5, Burst: 5},
			},
		}),
	)

	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	for _, h := range []RouteRegistrar{
		deps.HealthHandler,
		deps.ProfileHandler,
		deps.ApplyHandler,
		deps.ImportHandler,
		deps.SessionHandler,
	} {
		if h != nil {
			h.RegisterRoutes(api)
		}
	}

	return r
}

// submitGroupFor puts task submissions in their own bucket so polling stays unthrottled.
func submitGroupFor(c *gin.Context) string {
	if c.Request.Method != http.MethodPost {
		return ""
	}
	switch c.FullPath() {
	case "/api/v1/applications", "/api/v1/imports":
		return submitGroup
	}
	return ""
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
