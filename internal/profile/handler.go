package profile

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"jobapp/internal/llm"
	"jobapp/internal/shared/server/respond"
)

// Handler serves the profile, its generation settings and the model list.
type Handler struct {
	Store  *Store
	Models llm.ModelLister
}

func NewHandler(store *Store, models llm.ModelLister) *Handler {
	return &Handler{Store: store, Models: models}
}

// RegisterRoutes attaches profile routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/profile", h.get)
	rg.PUT("/settings", h.updateSettings)
	rg.GET("/models", h.models)
}

type profileResponse struct {
	Path     string   `json:"path"`
	Profile  Profile  `json:"profile"`
	Warnings []string `json:"warnings"`
}

func (h *Handler) get(c *gin.Context) {
	p, err := h.Store.Load()
	if err != nil {
		respond.AppError(c, err)
		return
	}
	warnings := Warnings(p)
	if warnings == nil {
		warnings = []string{}
	}
	respond.OK(c, profileResponse{Path: h.Store.Path(), Profile: p, Warnings: warnings})
}

// SettingsUpdate is a partial update; nil fields keep their stored value.
type SettingsUpdate struct {
	BaseURL     *string  `json:"base_url"`
	Model       *string  `json:"model"`
	Temperature *float64 `json:"temperature"`
	MaxTokens   *int     `json:"max_tokens"`
}

// Apply copies the set fields onto s.
func (u SettingsUpdate) Apply(s *GenerationSettings) {
	if u.BaseURL != nil {
		s.BaseURL = *u.BaseURL
	}
	if u.Model != nil {
		s.Model = *u.Model
	}
	if u.Temperature != nil {
		s.Temperature = *u.Temperature
	}
	if u.MaxTokens != nil {
		s.MaxTokens = *u.MaxTokens
	}
}

func (h *Handler) updateSettings(c *gin.Context) {
	var req SettingsUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	p, err := h.Store.UpdateSettings(req.Apply)
	if err != nil {
		var fe FieldErrors
		if errors.As(err, &fe) {
			respond.Error(c, http.StatusBadRequest, "validation_error", "invalid generation settings", fe)
			return
		}
		respond.AppError(c, err)
		return
	}
	respond.OK(c, p.GenerationSettings)
}

type modelsResponse struct {
	BaseURL string   `json:"base_url"`
	Models  []string `json:"models"`
}

func (h *Handler) models(c *gin.Context) {
	p, err := h.Store.Load()
	if err != nil {
		respond.AppError(c, err)
		return
	}
	models, err := ListModels(c.Request.Context(), h.Models, p.GenerationSettings)
	if err != nil {
		respond.AppError(c, err)
		return
	}
	respond.OK(c, modelsResponse{BaseURL: p.GenerationSettings.BaseURL, Models: models})
}

// ListModels asks the configured endpoint for its models. It never returns nil.
func ListModels(ctx context.Context, lister llm.ModelLister, s GenerationSettings) ([]string, error) {
	models, err := lister.ListModels(ctx, s.BaseURL)
	if err != nil {
		return nil, err
	}
	if models == nil {
		models = []string{}
	}
	return models, nil
}
