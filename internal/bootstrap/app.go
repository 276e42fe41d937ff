package bootstrap

import (
	"context"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"jobapp/internal/applies"
	"jobapp/internal/extract"
	"jobapp/internal/imports"
	"jobapp/internal/llm/openai"
	"jobapp/internal/profile"
	"jobapp/internal/services/health"
	"jobapp/internal/shared/config"
	"jobapp/internal/shared/server"
	"jobapp/internal/shared/storage/object"
	localstore "jobapp/internal/shared/storage/object/local"
	s3store "jobapp/internal/shared/storage/object/s3"
	"jobapp/internal/shared/telemetry"
	"jobapp/internal/workerproc"
	"jobapp/resume/render"
	"jobapp/resume/template"
)

// App holds shared dependencies for the API server and the CLI.
type App struct {
	Config        config.Config
	Router        *gin.Engine
	Profiles      *profile.Store
	Templates     *template.Loader
	LLM           *openai.Client
	Output        *localstore.Store
	Uploads       *localstore.Store
	Mirror        object.ObjectStore
	PDF           *render.Pandoc
	Session       *workerproc.Session
	ApplyService  *applies.Service
	ImportService *imports.Service
	HealthService *health.Service
}

// Build prepares every service. The session worker and router are only
// created when withServer is set, so CLI commands stay synchronous.
func Build(ctx context.Context, cfg config.Config, withServer bool) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}

	mirror, err := buildMirror(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config:    cfg,
		Profiles:  profile.NewStore(cfg.ProfilePath),
		Templates: template.NewLoader(cfg.TemplatesDir),
		LLM:       openai.NewClient(openai.WithAPIKey(cfg.LLM.APIKey)),
		Output:    localstore.New(cfg.OutputDir),
		Uploads:   localstore.New(cfg.UploadsDir),
		Mirror:    mirror,
		PDF:       render.NewPandoc(cfg.PDF.Pandoc, cfg.PDF.Engine, cfg.PDF.Margin),
	}

	buildServices(app)

	if withServer {
		app.Session = workerproc.NewSession(ctx)
		app.Router = server.NewRouter(server.RouterDeps{
			Config:         cfg,
			HealthHandler:  health.NewHandler(app.HealthService),
			ProfileHandler: profile.NewHandler(app.Profiles, app.LLM),
			ApplyHandler:   applies.NewHandler(app.ApplyService, app.Session, app.Output),
			ImportHandler:  imports.NewHandler(app.ImportService, app.Session, app.Uploads, app.Mirror),
			SessionHandler: workerproc.NewHandler(app.Session),
		})
	}

	return app, nil
}

// Close stops the session worker, if any.
func (a *App) Close() {
	if a.Session != nil {
		a.Session.Close()
	}
}

func buildServices(app *App) {
	cfg := app.Config

	applySvc := &applies.Service{
		Profiles:  app.Profiles,
		Templates: app.Templates,
		LLM:       app.LLM,
		Output:    app.Output,
		Mirror:    app.Mirror,
		Timeout:   cfg.GenerationTimeout,
	}
	// A disabled converter stays a nil interface, not a typed nil.
	if cfg.PDF.Enabled {
		applySvc.Converter = app.PDF
	}

	app.ApplyService = applySvc
	app.ImportService = &imports.Service{
		Store:         app.Profiles,
		LLM:           app.LLM,
		Extract:       extract.FromFile,
		Timeout:       cfg.ParseTimeout,
		TitleTimeout:  cfg.GenerationTimeout,
		ReferenceYear: cfg.ReferenceYear,
	}
	app.HealthService = health.NewService(
		app.PDF,
		app.LLM,
		app.Profiles,
		app.Templates,
		[]string{template.ResumeFile, template.CoverLetterFile},
		cfg.ProbeTimeout,
	)
}

func buildMirror(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.Store.Type {
	case "s3":
		if strings.TrimSpace(cfg.Store.Bucket) == "" {
			return nil, fmt.Errorf("store.type=s3 requires store.bucket")
		}
		store, err := s3store.New(ctx, cfg.Store.Region, cfg.Store.Bucket, cfg.Store.Prefix, cfg.Store.KMSKeyID)
		if err != nil {
			return nil, fmt.Errorf("build s3 mirror: %w", err)
		}
		telemetry.Info("bootstrap.mirror", map[string]any{"bucket": cfg.Store.Bucket, "prefix": cfg.Store.Prefix})
		return store, nil
	default:
		return nil, nil
	}
}
