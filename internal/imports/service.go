// Package imports maps an existing resume file onto the profile format.
package imports

import (
	"context"
	"fmt"
	"strings"
	"time"

	"jobapp/internal/extract"
	"jobapp/internal/fields"
	"jobapp/internal/llm"
	"jobapp/internal/profile"
	"jobapp/internal/shared/apperr"
	"jobapp/internal/shared/metrics"
	"jobapp/internal/shared/telemetry"
	"jobapp/internal/shared/util"
)

// Timeouts for the structured parse call and the title fallback.
const (
	DefaultTimeout      = 60 * time.Second
	DefaultTitleTimeout = 30 * time.Second
)

var genericFields = map[string]bool{
	"":             true,
	"professional": true,
	"employee":     true,
	"worker":       true,
}

var validStatuses = map[string]bool{
	profile.StatusCompleted:  true,
	profile.StatusInProgress: true,
	profile.StatusExpected:   true,
}

// ProfileStore is the persistence the import flow needs.
type ProfileStore interface {
	Load() (profile.Profile, error)
	Save(p profile.Profile) error
	Backup() (string, error)
	Exists() bool
	Path() string
}

// TextExtractor reads plain text out of a resume file.
type TextExtractor func(ctx context.Context, path string) (string, error)

// ImportResult describes a completed import.
type ImportResult struct {
	Profile     profile.Profile `json:"profile"`
	ProfilePath string          `json:"profile_path"`
	BackupPath  string          `json:"backup_path,omitempty"`
}

// Service parses resumes with the generation endpoint.
type Service struct {
	Store         ProfileStore
	LLM           llm.Client
	Extract       TextExtractor
	Timeout       time.Duration
	TitleTimeout  time.Duration
	ReferenceYear int
}

// Parse extracts the resume text and returns the mapped profile content,
// merged under the current generation settings.
func (s *Service) Parse(ctx context.Context, path string) (profile.Profile, error) {
	current, err := s.Store.Load()
	if err != nil && !apperr.Is(err, apperr.ConfigInvalid) {
		return profile.Profile{}, err
	}
	return s.parse(ctx, path, current.GenerationSettings, func(string) {})
}

func (s *Service) parse(ctx context.Context, path string, settings profile.GenerationSettings, progress func(string)) (profile.Profile, error) {
	extractFn := s.Extract
	if extractFn == nil {
		extractFn = extract.FromFile
	}

	progress("Extracting text from " + path)
	text, err := extractFn(ctx, path)
	if err != nil {
		return profile.Profile{}, err
	}
	telemetry.Info("import.text_extracted", map[string]any{"path": path, "chars": len(text), "digest": util.Digest(text)})

	progress("Parsing resume with the model")
	system, prompt := llm.ResumeParsePrompt(text)
	raw, err := s.LLM.Complete(ctx, llm.Request{
		Settings: settings.LLM(),
		System:   system,
		Prompt:   prompt,
		Timeout:  s.timeout(),
	})
	if err != nil {
		return profile.Profile{}, fmt.Errorf("parse resume: %w", err)
	}

	p, err := decodeResume(raw)
	if err != nil {
		return profile.Profile{}, err
	}
	s.fixPersonalInfo(ctx, &p.PersonalInfo, settings, text)
	p.GenerationSettings = settings
	return p, nil
}

func (s *Service) fixPersonalInfo(ctx context.Context, pi *profile.PersonalInfo, settings profile.GenerationSettings, text string) {
	if genericFields[strings.ToLower(strings.TrimSpace(pi.Field))] {
		extractor := &fields.Extractor{LLM: s.LLM, Settings: settings.LLM(), Timeout: s.titleTimeout()}
		pi.Field = extractor.ProfessionalTitle(ctx, text)
	}

	status := strings.ToLower(strings.TrimSpace(pi.DegreeStatus))
	switch {
	case status == "":
		status = fields.DegreeStatus(text, pi.GraduationYear, s.ReferenceYear)
	case !validStatuses[status]:
		status = profile.StatusCompleted
	}
	pi.DegreeStatus = status
}

// Import parses the resume and replaces the profile, keeping the current
// generation settings. With backup set, the existing file is copied first.
func (s *Service) Import(ctx context.Context, path string, backup bool) (ImportResult, error) {
	return s.ImportWithProgress(ctx, path, backup, nil)
}

// ImportWithProgress is Import with progress reporting for the session.
func (s *Service) ImportWithProgress(ctx context.Context, path string, backup bool, progress func(string)) (ImportResult, error) {
	if progress == nil {
		progress = func(string) {}
	}
	metrics.IncImportStarted()

	res, err := s.importFile(ctx, path, backup, progress)
	if err != nil {
		metrics.IncImportFailed()
		telemetry.Error("import.failed", map[string]any{"path": path, "kind": string(apperr.KindOf(err)), "error": err})
		return ImportResult{}, err
	}
	metrics.IncImportCompleted()
	telemetry.Info("import.complete", map[string]any{"path": path, "profile": res.ProfilePath, "backup": res.BackupPath})
	return res, nil
}

func (s *Service) importFile(ctx context.Context, path string, backup bool, progress func(string)) (ImportResult, error) {
	existed := s.Store.Exists()
	current, err := s.Store.Load()
	if err != nil {
		if !apperr.Is(err, apperr.ConfigInvalid) {
			return ImportResult{}, err
		}
		telemetry.Warn("profile.invalid_using_default_settings", map[string]any{"error": err})
	}

	p, err := s.parse(ctx, path, current.GenerationSettings, progress)
	if err != nil {
		return ImportResult{}, err
	}

	res := ImportResult{Profile: p, ProfilePath: s.Store.Path()}
	if backup && existed {
		res.BackupPath, err = s.Store.Backup()
		if err != nil {
			return ImportResult{}, fmt.Errorf("backup profile: %w", err)
		}
		if res.BackupPath != "" {
			progress("Backed up profile to " + res.BackupPath)
		}
	}

	if err := s.Store.Save(p); err != nil {
		return ImportResult{}, fmt.Errorf("save profile: %w", err)
	}
	progress("Profile updated at " + res.ProfilePath)
	return res, nil
}

func (s *Service) timeout() time.Duration {
	if s.Timeout > 0 {
		return s.Timeout
	}
	return DefaultTimeout
}

func (s *Service) titleTimeout() time.Duration {
	if s.TitleTimeout > 0 {
		return s.TitleTimeout
	}
	return DefaultTitleTimeout
}
