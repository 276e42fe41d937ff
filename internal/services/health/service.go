package health

import (
	"context"
	"fmt"
	"strings"
	"time"

	"jobapp/internal/llm"
	"jobapp/internal/profile"
	"jobapp/internal/shared/apperr"
	"jobapp/resume/model"
	"jobapp/resume/template"
)

// DefaultProbeTimeout bounds the endpoint probe when none is configured.
const DefaultProbeTimeout = 5 * time.Second

// PreferredEngine is the LaTeX engine pandoc is configured with by default.
const PreferredEngine = "xelatex"

// Check names.
const (
	CheckPandoc    = "pandoc"
	CheckLaTeX     = "latex"
	CheckEndpoint  = "endpoint"
	CheckTemplates = "templates"
	CheckProfile   = "profile"
)

// PDFProbe reports the local PDF toolchain.
type PDFProbe interface {
	Available() bool
	InstalledEngines() []string
}

// ProfileLoader reads the current profile.
type ProfileLoader interface {
	Load() (profile.Profile, error)
}

// TemplateProbe reports which template files exist on disk and reads them.
type TemplateProbe interface {
	Present(names ...string) map[string]bool
	Load(name string) (string, error)
}

// Check is one line of the doctor report. Required checks decide Report.OK.
type Check struct {
	Name     string   `json:"name"`
	OK       bool     `json:"ok"`
	Required bool     `json:"required"`
	Detail   string   `json:"detail"`
	Hints    []string `json:"hints,omitempty"`
}

// Report is the outcome of one doctor run.
type Report struct {
	OK       bool     `json:"ok"`
	Checks   []Check  `json:"checks"`
	Warnings []string `json:"warnings"`
}

// Check returns the named check.
func (r Report) Check(name string) (Check, bool) {
	for _, c := range r.Checks {
		if c.Name == name {
			return c, true
		}
	}
	return Check{}, false
}

// Service probes the environment the generator depends on.
// Nil probes are reported as failed checks. KnownKeys are the placeholder
// names generation fills in.
type Service struct {
	PDF          PDFProbe
	Models       llm.ModelLister
	Profiles     ProfileLoader
	Templates    TemplateProbe
	TemplateSet  []string
	ProbeTimeout time.Duration
	KnownKeys    []string
}

// NewService constructs the doctor.
func NewService(pdf PDFProbe, models llm.ModelLister, profiles ProfileLoader, templates TemplateProbe, templateSet []string, probeTimeout time.Duration) *Service {
	if probeTimeout <= 0 {
		probeTimeout = DefaultProbeTimeout
	}
	return &Service{
		PDF:          pdf,
		Models:       models,
		Profiles:     profiles,
		Templates:    templates,
		TemplateSet:  templateSet,
		ProbeTimeout: probeTimeout,
		KnownKeys:    model.Keys(),
	}
}

// Run executes every check. Only the endpoint probe blocks.
func (s *Service) Run(ctx context.Context) Report {
	p, profileCheck, warnings := s.checkProfile()

	checks := []Check{
		s.checkPandoc(),
		s.checkLaTeX(),
		s.checkEndpoint(ctx, p.GenerationSettings.BaseURL),
		s.checkTemplates(),
		profileCheck,
	}

	report := Report{OK: true, Checks: checks, Warnings: warnings}
	for _, c := range checks {
		if c.Required && !c.OK {
			report.OK = false
		}
	}
	if report.Warnings == nil {
		report.Warnings = []string{}
	}
	return report
}

func (s *Service) checkPandoc() Check {
	c := Check{Name: CheckPandoc}
	if s.PDF != nil && s.PDF.Available() {
		c.OK = true
		c.Detail = "pandoc found"
		return c
	}
	c.Detail = "pandoc not found; only markdown will be produced"
	c.Hints = []string{"Install pandoc to enable PDF output"}
	return c
}

func (s *Service) checkLaTeX() Check {
	c := Check{Name: CheckLaTeX}
	var engines []string
	if s.PDF != nil {
		engines = s.PDF.InstalledEngines()
	}
	switch {
	case len(engines) == 0:
		c.Detail = "no LaTeX engine found"
		c.Hints = []string{"Install a TeX distribution that provides xelatex"}
	case contains(engines, PreferredEngine):
		c.OK = true
		c.Detail = "found " + strings.Join(engines, ", ")
	default:
		c.OK = true
		c.Detail = fmt.Sprintf("found %s; %s is preferred", strings.Join(engines, ", "), PreferredEngine)
		c.Hints = []string{"Set pdf.engine to one of the installed engines or install xelatex"}
	}
	return c
}

func (s *Service) checkEndpoint(ctx context.Context, baseURL string) Check {
	c := Check{Name: CheckEndpoint, Required: true}
	if s.Models == nil || baseURL == "" {
		c.Detail = "no generation endpoint configured"
		c.Hints = apperr.Hints(apperr.ConnectionFailure)
		return c
	}

	ctx, cancel := context.WithTimeout(ctx, s.ProbeTimeout)
	defer cancel()

	models, err := s.Models.ListModels(ctx, baseURL)
	if err != nil {
		c.Detail = fmt.Sprintf("%s: %v", baseURL, err)
		c.Hints = apperr.Hints(apperr.KindOf(err))
		return c
	}
	c.OK = true
	c.Detail = fmt.Sprintf("%s answered with %d model(s)", baseURL, len(models))
	return c
}

func (s *Service) checkTemplates() Check {
	c := Check{Name: CheckTemplates, OK: true}
	if s.Templates == nil || len(s.TemplateSet) == 0 {
		c.Detail = "using built-in templates"
		return c
	}
	present := s.Templates.Present(s.TemplateSet...)
	var missing, problems []string
	for _, name := range s.TemplateSet {
		if !present[name] {
			missing = append(missing, name)
			continue
		}
		problems = append(problems, s.templateProblems(name)...)
	}
	if len(missing) == 0 && len(problems) == 0 {
		c.Detail = "all templates present"
		return c
	}

	c.OK = false
	var details []string
	if len(missing) > 0 {
		details = append(details, "missing "+strings.Join(missing, ", ")+"; built-in defaults will be used")
		c.Hints = append(c.Hints, "Run `jobapp setup` to write the default templates")
	}
	if len(problems) > 0 {
		details = append(details, strings.Join(problems, "; "))
		c.Hints = append(c.Hints, "Unknown placeholders are left in the document as written; use the names from the default templates")
	}
	c.Detail = strings.Join(details, "; ")
	return c
}

// templateProblems reads one template and lists placeholders generation
// never fills.
func (s *Service) templateProblems(name string) []string {
	text, err := s.Templates.Load(name)
	if err != nil {
		return []string{name + " unreadable: " + err.Error()}
	}
	known := make(map[string]bool, len(s.KnownKeys))
	for _, k := range s.KnownKeys {
		known[k] = true
	}
	var unknown []string
	for _, key := range template.Placeholders(text) {
		if !known[key] {
			unknown = append(unknown, "{{"+key+"}}")
		}
	}
	if len(unknown) == 0 {
		return nil
	}
	return []string{name + " has unknown placeholders " + strings.Join(unknown, ", ")}
}

func (s *Service) checkProfile() (profile.Profile, Check, []string) {
	c := Check{Name: CheckProfile, Required: true}
	if s.Profiles == nil {
		c.Detail = "no profile store"
		return profile.Default(), c, nil
	}
	p, err := s.Profiles.Load()
	if err != nil {
		c.Detail = err.Error()
		c.Hints = apperr.Hints(apperr.KindOf(err))
		return p, c, nil
	}
	warnings := profile.Warnings(p)
	c.OK = true
	c.Detail = fmt.Sprintf("loaded with %d warning(s)", len(warnings))
	return p, c, warnings
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
