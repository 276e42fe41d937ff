package applies

import (
	"context"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"jobapp/internal/shared/server/middleware"
	"jobapp/internal/shared/server/respond"
	"jobapp/internal/workerproc"
)

// TaskKind labels generation tasks in the session and request logs.
const TaskKind = "generate"

// Submitter queues a task on the session.
type Submitter interface {
	Submit(kind string, run workerproc.RunFunc) (string, error)
}

// Handler wires HTTP handlers to the apply service.
type Handler struct {
	Svc     *Service
	Session Submitter
	Output  OutputStore
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, session Submitter, output OutputStore) *Handler {
	return &Handler{Svc: svc, Session: session, Output: output}
}

// RegisterRoutes attaches apply routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/applications", h.generate)
	rg.GET("/artifacts/:name", h.download)
}

func (h *Handler) generate(c *gin.Context) {
	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "job_listing is required", nil)
		return
	}
	listing := strings.TrimSpace(req.JobListing)
	if listing == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "job_listing is required", nil)
		return
	}
	company := req.Company

	id, err := h.Session.Submit(TaskKind, func(ctx context.Context, progress func(string)) (map[string]string, error) {
		return h.Svc.Generate(ctx, listing, company, progress)
	})
	if err != nil {
		switch {
		case errors.Is(err, workerproc.ErrBusy):
			respond.Error(c, http.StatusConflict, "busy", "another task is running, wait for it to finish", nil)
		default:
			respond.Error(c, http.StatusServiceUnavailable, "unavailable", err.Error(), nil)
		}
		return
	}

	c.Set(middleware.TaskIDKey, id)
	c.Set(middleware.TaskKindKey, TaskKind)
	respond.Accepted(c, "/api/v1/session", AcceptedResponse{TaskID: id, Status: "accepted"})
}

func (h *Handler) download(c *gin.Context) {
	name := c.Param("name")
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid artifact name", nil)
		return
	}

	reader, err := h.Output.Open(c.Request.Context(), name)
	if err != nil {
		respond.Error(c, http.StatusNotFound, "not_found", "artifact not found", nil)
		return
	}
	defer reader.Close()

	c.Header("Content-Type", ContentType(name))
	c.Header("Content-Disposition", "attachment; filename=\""+name+"\"")
	c.Status(http.StatusOK)
	_, _ = io.Copy(c.Writer, reader)
}
