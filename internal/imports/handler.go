package imports

import (
	"context"
	"errors"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"jobapp/internal/extract"
	"jobapp/internal/shared/apperr"
	"jobapp/internal/shared/server/middleware"
	"jobapp/internal/shared/server/respond"
	"jobapp/internal/shared/storage/object"
	"jobapp/internal/shared/telemetry"
	"jobapp/internal/shared/util"
	"jobapp/internal/workerproc"
)

const (
	// TaskKind labels import tasks in the session and request logs.
	TaskKind       = "import"
	maxUploadBytes = 5 << 20
)

// Artifact keys reported for a finished import.
const (
	ProfileArtifact = "profile"
	BackupArtifact  = "profile_backup"
)

// Submitter queues a task on the session.
type Submitter interface {
	Submit(kind string, run workerproc.RunFunc) (string, error)
}

// UploadStore keeps uploaded resumes on local disk so they can be extracted.
type UploadStore interface {
	object.ObjectStore
	Path(storageKey string) (string, error)
}

// Handler accepts resume uploads and imports them on the session.
type Handler struct {
	Svc     *Service
	Session Submitter
	Uploads UploadStore
	Mirror  object.ObjectStore
}

func NewHandler(svc *Service, session Submitter, uploads UploadStore, mirror object.ObjectStore) *Handler {
	return &Handler{Svc: svc, Session: session, Uploads: uploads, Mirror: mirror}
}

// RegisterRoutes attaches import routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/imports", h.upload)
}

type acceptedResponse struct {
	TaskID   string `json:"task_id"`
	Status   string `json:"status"`
	Upload   string `json:"upload"`
	Size     int64  `json:"size_bytes"`
	MIMEType string `json:"mime_type"`
}

func (h *Handler) upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes)

	fh, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "multipart field \"file\" is required", nil)
		return
	}
	name, err := util.SanitizeFileName(filepath.Base(fh.Filename))
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid file name", nil)
		return
	}
	if !supported(name) {
		respond.AppError(c, apperr.New(apperr.UnsupportedFormat, "imports.upload",
			"unsupported file type "+filepath.Ext(name), nil))
		return
	}
	backup := true
	if v := c.PostForm("no_backup"); v != "" {
		noBackup, err := strconv.ParseBool(v)
		if err != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", "no_backup must be a boolean", nil)
			return
		}
		backup = !noBackup
	}

	src, err := fh.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "could not read upload", nil)
		return
	}
	defer src.Close()

	key, size, mimeType, err := h.Uploads.Save(c.Request.Context(), name, src)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to store upload", nil)
		return
	}
	telemetry.Info("upload.stored", map[string]any{"key": key, "size_bytes": size, "mime_type": mimeType})
	path, err := h.Uploads.Path(key)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to store upload", nil)
		return
	}

	id, err := h.Session.Submit(TaskKind, func(ctx context.Context, progress func(string)) (map[string]string, error) {
		h.mirror(ctx, key, mimeType)
		res, err := h.Svc.ImportWithProgress(ctx, path, backup, progress)
		if err != nil {
			return nil, err
		}
		out := map[string]string{ProfileArtifact: res.ProfilePath}
		if res.BackupPath != "" {
			out[BackupArtifact] = res.BackupPath
		}
		return out, nil
	})
	if err != nil {
		_ = h.Uploads.Remove(context.WithoutCancel(c.Request.Context()), key)
		if errors.Is(err, workerproc.ErrBusy) {
			respond.Error(c, http.StatusConflict, "busy", "another task is running, wait for it to finish", nil)
			return
		}
		respond.Error(c, http.StatusServiceUnavailable, "unavailable", err.Error(), nil)
		return
	}

	c.Set(middleware.TaskIDKey, id)
	c.Set(middleware.TaskKindKey, TaskKind)
	respond.Accepted(c, "/api/v1/session", acceptedResponse{
		TaskID:   id,
		Status:   "accepted",
		Upload:   key,
		Size:     size,
		MIMEType: mimeType,
	})
}

func (h *Handler) mirror(ctx context.Context, key, contentType string) {
	if h.Mirror == nil {
		return
	}
	rc, err := h.Uploads.Open(ctx, key)
	if err != nil {
		telemetry.Warn("upload.mirror_failed", map[string]any{"key": key, "error": err})
		return
	}
	defer rc.Close()
	if _, err := h.Mirror.SaveWithKey(ctx, "uploads/"+key, contentType, rc); err != nil {
		telemetry.Warn("upload.mirror_failed", map[string]any{"key": key, "error": err})
	}
}

func supported(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, allowed := range extract.SupportedExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}
