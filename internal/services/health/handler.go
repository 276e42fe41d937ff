package health

import (
	"github.com/gin-gonic/gin"

	"jobapp/internal/shared/server/respond"
)

// Handler exposes the doctor report.
type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches the health route.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/health", h.get)
}

// get always answers 200 so liveness probes pass; callers read report.ok.
func (h *Handler) get(c *gin.Context) {
	respond.OK(c, h.Svc.Run(c.Request.Context()))
}
