package applies

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"jobapp/internal/cleaner"
	"jobapp/internal/fields"
	"jobapp/internal/llm"
	"jobapp/internal/profile"
	"jobapp/internal/shared/apperr"
	"jobapp/internal/shared/metrics"
	"jobapp/internal/shared/storage/object"
	"jobapp/internal/shared/telemetry"
	"jobapp/internal/shared/util"
	"jobapp/resume/model"
	"jobapp/resume/render"
	"jobapp/resume/template"
)

// Artifact keys reported for a finished application.
const (
	ResumeMD       = "resume_md"
	CoverLetterMD  = "cover_letter_md"
	ResumePDF      = "resume_pdf"
	CoverLetterPDF = "cover_letter_pdf"
)

const timestampLayout = "20060102_150405"

// ErrEmptyListing is returned when there is no job listing to work from.
var ErrEmptyListing = errors.New("job listing is empty")

// Artifacts maps artifact keys to file paths.
type Artifacts map[string]string

// ProfileLoader provides the current profile. A ConfigInvalid error may come
// with a usable default profile.
type ProfileLoader interface {
	Load() (profile.Profile, error)
}

// TemplateSource returns template text by file name.
type TemplateSource interface {
	Load(name string) (string, error)
}

// Converter turns a markdown file into a PDF.
type Converter interface {
	Available() bool
	Convert(ctx context.Context, in, out string) error
}

// OutputStore is the object store that backs the output directory.
type OutputStore interface {
	object.ObjectStore
	Path(storageKey string) (string, error)
}

// Service assembles a tailored resume and cover letter for one listing.
// When Mirror is set every artifact is copied to it; mirror failures are
// logged only.
type Service struct {
	Profiles  ProfileLoader
	Templates TemplateSource
	LLM       llm.Client
	Output    OutputStore
	Mirror    object.ObjectStore
	Converter Converter
	Timeout   time.Duration
	Now       func() time.Time
}

// Generate runs the full pipeline. Nothing is written unless both fragments
// were generated and both templates filled.
func (s *Service) Generate(ctx context.Context, listing, companyOverride string, progress func(string)) (Artifacts, error) {
	if progress == nil {
		progress = func(string) {}
	}
	if strings.TrimSpace(listing) == "" {
		return nil, ErrEmptyListing
	}
	metrics.IncGenerationStarted()

	artifacts, err := s.generate(ctx, listing, companyOverride, progress)
	if err != nil {
		metrics.IncGenerationFailed()
		telemetry.Error("generation.failed", map[string]any{"kind": string(apperr.KindOf(err)), "error": err})
		return nil, err
	}
	metrics.IncGenerationCompleted()
	return artifacts, nil
}

func (s *Service) generate(ctx context.Context, listing, companyOverride string, progress func(string)) (Artifacts, error) {
	p, err := s.Profiles.Load()
	if err != nil {
		if !apperr.Is(err, apperr.ConfigInvalid) {
			return nil, err
		}
		telemetry.Warn("profile.invalid_using_default", map[string]any{"error": err})
		progress("Profile file is invalid, using the default profile")
	}

	resumeTmpl, err := s.Templates.Load(template.ResumeFile)
	if err != nil {
		return nil, err
	}
	coverTmpl, err := s.Templates.Load(template.CoverLetterFile)
	if err != nil {
		return nil, err
	}

	settings := p.GenerationSettings.LLM()
	extractor := &fields.Extractor{LLM: s.LLM, Settings: settings, Timeout: s.Timeout}

	progress("Extracting job details")
	jobTitle := extractor.JobTitle(ctx, listing)
	company := fields.Company(listing, companyOverride)
	progress(fmt.Sprintf("Job title: %s, company: %s", jobTitle, company))

	personal, err := json.MarshalIndent(p.PersonalInfo, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode personal info: %w", err)
	}
	in := llm.SectionInput{
		JobListing:       listing,
		JobTitle:         jobTitle,
		PersonalInfoJSON: string(personal),
		Company:          company,
		EducationLine:    profile.FormatEducation(p.PersonalInfo).Line,
	}

	progress("Generating resume summary")
	summary, err := s.complete(ctx, settings, llm.SummaryPrompt(in), cleaner.Summary)
	if err != nil {
		return nil, err
	}
	progress("Generating cover letter paragraph")
	paragraph, err := s.complete(ctx, settings, llm.CoverParagraphPrompt(in), cleaner.CoverParagraph)
	if err != nil {
		return nil, err
	}

	vars := model.Vars(p, model.JobContext{
		JobTitle:  jobTitle,
		Company:   company,
		Summary:   summary,
		Paragraph: paragraph,
	})
	resume := template.Fill(resumeTmpl, vars)
	cover := template.Fill(coverTmpl, vars)

	progress("Writing documents")
	artifacts, err := s.writeMarkdown(ctx, company, resume, cover)
	if err != nil {
		return nil, err
	}

	s.convertPDFs(ctx, artifacts, progress)
	s.mirror(ctx, artifacts)

	telemetry.Info("generation.complete", map[string]any{
		"job_title": jobTitle,
		"company":   company,
		"listing":   util.Digest(listing),
		"artifacts": len(artifacts),
	})
	return artifacts, nil
}

func (s *Service) complete(ctx context.Context, settings llm.Settings, prompt string, kind cleaner.Kind) (string, error) {
	raw, err := s.LLM.Complete(ctx, llm.Request{Settings: settings, Prompt: prompt, Timeout: s.Timeout})
	if err != nil {
		return "", fmt.Errorf("generate %s: %w", kind, err)
	}
	return cleaner.Clean(raw, kind), nil
}

// writeMarkdown stores both documents or neither.
func (s *Service) writeMarkdown(ctx context.Context, company, resume, cover string) (Artifacts, error) {
	stamp := s.now().Format(timestampLayout)
	slug := util.CompanySlug(company)
	resumeKey := fmt.Sprintf("resume_%s_%s.md", slug, stamp)
	coverKey := fmt.Sprintf("cover_letter_%s_%s.md", slug, stamp)

	if _, err := s.Output.SaveWithKey(ctx, resumeKey, "text/markdown", strings.NewReader(resume)); err != nil {
		return nil, fmt.Errorf("write resume: %w", err)
	}
	if _, err := s.Output.SaveWithKey(ctx, coverKey, "text/markdown", strings.NewReader(cover)); err != nil {
		if rmErr := s.Output.Remove(context.WithoutCancel(ctx), resumeKey); rmErr != nil {
			telemetry.Error("generation.rollback_failed", map[string]any{"key": resumeKey, "error": rmErr})
		}
		return nil, fmt.Errorf("write cover letter: %w", err)
	}

	resumePath, err := s.Output.Path(resumeKey)
	if err != nil {
		return nil, err
	}
	coverPath, err := s.Output.Path(coverKey)
	if err != nil {
		return nil, err
	}
	return Artifacts{ResumeMD: resumePath, CoverLetterMD: coverPath}, nil
}

// convertPDFs renders each markdown file independently. Failures never abort.
func (s *Service) convertPDFs(ctx context.Context, artifacts Artifacts, progress func(string)) {
	if s.Converter == nil {
		return
	}
	if !s.Converter.Available() {
		progress("pandoc not found, skipping PDF conversion")
		return
	}

	pairs := []struct{ md, pdf string }{
		{ResumeMD, ResumePDF},
		{CoverLetterMD, CoverLetterPDF},
	}
	for _, pair := range pairs {
		in := artifacts[pair.md]
		out := render.PDFPath(in)
		progress("Converting " + filepath.Base(in) + " to PDF")
		if err := s.Converter.Convert(ctx, in, out); err != nil {
			metrics.IncPDFConversionFailed()
			telemetry.Warn("pdf.conversion_failed", map[string]any{"file": in, "error": err})
			progress("PDF conversion failed for " + filepath.Base(in) + ": " + err.Error())
			continue
		}
		artifacts[pair.pdf] = out
	}
}

func (s *Service) mirror(ctx context.Context, artifacts Artifacts) {
	if s.Mirror == nil {
		return
	}
	for key, path := range artifacts {
		if err := mirrorFile(ctx, s.Mirror, path); err != nil {
			telemetry.Warn("artifact.mirror_failed", map[string]any{"artifact": key, "error": err})
		}
	}
}

func mirrorFile(ctx context.Context, store object.ObjectStore, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = store.SaveWithKey(ctx, filepath.Base(path), ContentType(path), f)
	return err
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// ContentType returns the media type served for an artifact file name.
func ContentType(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return "application/pdf"
	case ".md":
		return "text/markdown; charset=utf-8"
	default:
		return "application/octet-stream"
	}
}
