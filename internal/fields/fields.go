package fields

import (
	"context"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"jobapp/internal/cleaner"
	"jobapp/internal/llm"
	"jobapp/internal/shared/telemetry"
)

// Fallback labels returned when every strategy fails.
const (
	FallbackJobTitle          = "Desired Position"
	FallbackProfessionalTitle = "Professional"
	FallbackCompany           = "Target Company"
)

// Extractor pulls titles out of free text, asking the model only when the
// patterns find nothing usable. Its methods never fail.
type Extractor struct {
	LLM      llm.Client
	Settings llm.Settings
	Timeout  time.Duration
}

// candidate is one extraction strategy.
type candidate func(ctx context.Context, text string) (string, bool)

// firstOf runs the strategies in order and returns the first accepted result.
func firstOf(ctx context.Context, text string, strategies ...candidate) (string, bool) {
	for _, try := range strategies {
		if out, ok := try(ctx, text); ok {
			return out, true
		}
	}
	return "", false
}

var (
	jobTitlePatterns = compileAll(
		`(?im)(?:position|role|job|title):\s*([^\n\r]+)`,
		`(?im)(?:hiring|seeking|looking for)\s+(?:an?\s+)?([^\n\r,]+?)(?:\s+at|\s+for|\s*$)`,
		`(?im)^([A-Z][^\n\r]+?)(?:\s+at|\s+for|\s*-)`,
		`(?im)Job Title:\s*([^\n\r]+)`,
		`(?im)Position:\s*([^\n\r]+)`,
		`(?im)We are hiring\s+(?:an?\s+)?([^\n\r,]+)`,
	)
	professionalTitlePatterns = compileAll(
		`(?im)(?:objective|summary|profile).*?(?:seeking|as|for)\s+(?:an?\s+)?([^\n\r.]+?)(?:\s+position|\s+role|\.|$)`,
		`(?im)(?:experienced|skilled|professional)\s+([^\n\r,]+?)(?:\s+with|\s+in|\s*,)`,
		`(?im)^([A-Z][^\n\r]+?(?:Engineer|Developer|Manager|Analyst|Specialist|Coordinator|Director|Designer|Consultant)).*$`,
		`(?im)(?:title|position|role):\s*([^\n\r]+)`,
	)

	trailingParen = regexp.MustCompile(`\s*\([^)]*\)$`)
	leadingThe    = regexp.MustCompile(`(?i)^the\s+`)

	jobTitleAnswerPrefixes = compileAll(
		`(?i)^(?:the\s+)?job title is:?\s*`,
		`(?i)^(?:position|role|title):\s*`,
	)
	professionalAnswerPrefixes = compileAll(
		`(?i)^(?:the\s+)?professional title is:?\s*`,
		`(?i)^(?:field|title|profession):\s*`,
	)
)

func compileAll(patterns ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		out = append(out, regexp.MustCompile(p))
	}
	return out
}

// JobTitle extracts the advertised position from a job listing.
func (e *Extractor) JobTitle(ctx context.Context, listing string) string {
	title, ok := firstOf(ctx, listing,
		patternCandidate(jobTitlePatterns, 5),
		e.modelCandidate("job_title", llm.JobTitlePrompt, jobTitleAnswerPrefixes, 5),
	)
	if !ok {
		return FallbackJobTitle
	}
	return title
}

// ProfessionalTitle extracts the candidate's professional identity from a resume.
func (e *Extractor) ProfessionalTitle(ctx context.Context, resume string) string {
	title, ok := firstOf(ctx, resume,
		patternCandidate(professionalTitlePatterns, 5),
		e.modelCandidate("professional_title", llm.ProfessionalTitlePrompt, professionalAnswerPrefixes, 3),
	)
	if !ok {
		return FallbackProfessionalTitle
	}
	return title
}

// patternCandidate accepts the first capture whose cleaned length is in (minLen, 100).
func patternCandidate(patterns []*regexp.Regexp, minLen int) candidate {
	return func(_ context.Context, text string) (string, bool) {
		for _, re := range patterns {
			m := re.FindStringSubmatch(text)
			if m == nil {
				continue
			}
			title := cleanCapture(m[1])
			if acceptable(title, minLen) {
				return title, true
			}
		}
		return "", false
	}
}

func (e *Extractor) modelCandidate(kind string, prompt func(string) string, prefixes []*regexp.Regexp, minLen int) candidate {
	return func(ctx context.Context, text string) (string, bool) {
		if e == nil || e.LLM == nil {
			return "", false
		}
		answer, err := e.LLM.Complete(ctx, llm.Request{
			Settings: e.Settings,
			Prompt:   prompt(text),
			Timeout:  e.Timeout,
		})
		if err != nil {
			telemetry.Warn("fields.model_fallback_failed", map[string]any{"kind": kind, "error": err})
			return "", false
		}
		title := cleanAnswer(answer, prefixes)
		if !acceptable(title, minLen) {
			return "", false
		}
		return title, true
	}
}

func cleanCapture(raw string) string {
	title := strings.TrimSpace(raw)
	title = trailingParen.ReplaceAllString(title, "")
	title = leadingThe.ReplaceAllString(title, "")
	return strings.TrimSpace(title)
}

// cleanAnswer reduces a model reply to a bare title.
func cleanAnswer(raw string, prefixes []*regexp.Regexp) string {
	title := cleaner.Clean(raw, cleaner.Title)
	for _, re := range prefixes {
		title = re.ReplaceAllString(title, "")
	}
	return strings.TrimSpace(strings.Trim(title, `"'`))
}

func acceptable(title string, minLen int) bool {
	n := utf8.RuneCountInString(title)
	return n > minLen && n < 100
}
