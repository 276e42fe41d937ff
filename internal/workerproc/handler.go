package workerproc

import (
	"github.com/gin-gonic/gin"

	"jobapp/internal/shared/server/respond"
)

// Handler exposes the session state for polling.
type Handler struct {
	Session *Session
}

func NewHandler(session *Session) *Handler {
	return &Handler{Session: session}
}

// RegisterRoutes attaches session routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/session", h.get)
}

func (h *Handler) get(c *gin.Context) {
	respond.OK(c, h.Session.Snapshot())
}
