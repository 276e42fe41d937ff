package imports

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobapp/internal/llm"
	"jobapp/internal/profile"
	"jobapp/internal/shared/apperr"
)

const resumeText = "Jane Doe\nSenior Cloud Engineer\nBSc Computer Science, UT Austin, 2020"

// parseModel answers the structured parse with answer and anything else with title.
func parseModel(answer, title string) llm.Client {
	return llm.ClientFunc(func(ctx context.Context, req llm.Request) (string, error) {
		if req.System != "" {
			return answer, nil
		}
		return title, nil
	})
}

func staticText(text string) TextExtractor {
	return func(ctx context.Context, path string) (string, error) { return text, nil }
}

func newService(t *testing.T, client llm.Client, text string) (*Service, *profile.Store) {
	t.Helper()
	store := profile.NewStore(filepath.Join(t.TempDir(), "config.json"))
	return &Service{Store: store, LLM: client, Extract: staticText(text)}, store
}

func seedSettings(t *testing.T, store *profile.Store) profile.GenerationSettings {
	t.Helper()
	p := profile.Default()
	p.GenerationSettings = profile.GenerationSettings{
		BaseURL:     "http://studio.local:1234/v1",
		Model:       "qwen2.5-7b-instruct",
		Temperature: 0.2,
		MaxTokens:   1500,
	}
	require.NoError(t, store.Save(p))
	return p.GenerationSettings
}

func TestParseMergesUnderExistingSettings(t *testing.T) {
	svc, store := newService(t, parseModel(parsedJSON, ""), resumeText)
	settings := seedSettings(t, store)

	p, err := svc.Parse(context.Background(), "resume.pdf")
	require.NoError(t, err)

	assert.Equal(t, settings, p.GenerationSettings)
	assert.Equal(t, "Jane Doe", p.PersonalInfo.FullName)
	assert.Equal(t, profile.StatusCompleted, p.PersonalInfo.DegreeStatus)
}

func TestParseSendsSettingsAndSystemInstruction(t *testing.T) {
	var got llm.Request
	client := llm.ClientFunc(func(ctx context.Context, req llm.Request) (string, error) {
		got = req
		return parsedJSON, nil
	})
	svc, store := newService(t, client, resumeText)
	settings := seedSettings(t, store)

	_, err := svc.Parse(context.Background(), "resume.pdf")
	require.NoError(t, err)

	assert.Equal(t, settings.Model, got.Settings.Model)
	assert.Equal(t, DefaultTimeout, got.Timeout)
	assert.Contains(t, got.System, "resume parser")
	assert.Contains(t, got.Prompt, resumeText)
}

func TestParseFixesPersonalInfo(t *testing.T) {
	tests := []struct {
		name       string
		field      string
		status     string
		year       string
		text       string
		wantField  string
		wantStatus string
	}{
		{name: "generic field replaced from resume", field: "Professional", status: "completed", text: resumeText, wantField: "Senior Cloud Engineer", wantStatus: "completed"},
		{name: "empty field uses model fallback", field: "", status: "completed", text: "jane doe", wantField: "Data Analyst", wantStatus: "completed"},
		{name: "specific field kept", field: "Nurse Practitioner", status: "completed", text: resumeText, wantField: "Nurse Practitioner", wantStatus: "completed"},
		{name: "status lowercased", field: "Engineer II", status: "In_Progress", text: resumeText, wantField: "Engineer II", wantStatus: "in_progress"},
		{name: "invalid status coerced", field: "Engineer II", status: "graduated", text: resumeText, wantField: "Engineer II", wantStatus: "completed"},
		{name: "missing status inferred", field: "Engineer II", status: "", year: "2031", text: "BSc Physics", wantField: "Engineer II", wantStatus: "expected"},
		{name: "missing status from indicator", field: "Engineer II", status: "", text: "Currently pursuing a BSc", wantField: "Engineer II", wantStatus: "in_progress"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			answer := `{"personal_info": {"field": "` + tt.field + `", "degree_status": "` + tt.status + `", "graduation_year": "` + tt.year + `"}, "skills": [], "experience": []}`
			svc, _ := newService(t, parseModel(answer, "Data Analyst"), tt.text)

			p, err := svc.Parse(context.Background(), "resume.docx")
			require.NoError(t, err)
			assert.Equal(t, tt.wantField, p.PersonalInfo.Field)
			assert.Equal(t, tt.wantStatus, p.PersonalInfo.DegreeStatus)
		})
	}
}

func TestParseErrors(t *testing.T) {
	extractErr := apperr.New(apperr.UnsupportedFormat, "extract", "unsupported", nil)

	tests := []struct {
		name     string
		extract  TextExtractor
		client   llm.Client
		wantKind apperr.Kind
	}{
		{
			name:     "extraction failure",
			extract:  func(ctx context.Context, path string) (string, error) { return "", extractErr },
			client:   parseModel(parsedJSON, ""),
			wantKind: apperr.UnsupportedFormat,
		},
		{
			name:    "model failure",
			extract: staticText(resumeText),
			client: llm.ClientFunc(func(ctx context.Context, req llm.Request) (string, error) {
				return "", apperr.New(apperr.Timeout, "llm.complete", "deadline", context.DeadlineExceeded)
			}),
			wantKind: apperr.Timeout,
		},
		{
			name:     "no json",
			extract:  staticText(resumeText),
			client:   parseModel("Sorry, I cannot help with that.", ""),
			wantKind: apperr.InvalidModelOutput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newService(t, tt.client, "")
			svc.Extract = tt.extract
			_, err := svc.Parse(context.Background(), "resume.pdf")
			require.Error(t, err)
			assert.Equal(t, tt.wantKind, apperr.KindOf(err))
		})
	}
}

func TestParseUsesRealExtractorByDefault(t *testing.T) {
	svc, _ := newService(t, parseModel(parsedJSON, ""), "")
	svc.Extract = nil

	_, err := svc.Parse(context.Background(), filepath.Join(t.TempDir(), "resume.txt"))
	assert.Equal(t, apperr.NotFound, apperr.KindOf(err))
}

func TestImportBacksUpAndSaves(t *testing.T) {
	svc, store := newService(t, parseModel(parsedJSON, ""), resumeText)
	settings := seedSettings(t, store)
	before, err := os.ReadFile(store.Path())
	require.NoError(t, err)

	res, err := svc.Import(context.Background(), "resume.pdf", true)
	require.NoError(t, err)

	assert.Equal(t, store.BackupPath(), res.BackupPath)
	backup, err := os.ReadFile(res.BackupPath)
	require.NoError(t, err)
	assert.Equal(t, before, backup)

	saved, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, settings, saved.GenerationSettings)
	assert.Equal(t, "Jane Doe", saved.PersonalInfo.FullName)
	assert.Equal(t, []string{"Go", "PostgreSQL"}, saved.Skills)
}

func TestImportWithoutBackup(t *testing.T) {
	svc, store := newService(t, parseModel(parsedJSON, ""), resumeText)
	seedSettings(t, store)

	res, err := svc.Import(context.Background(), "resume.pdf", false)
	require.NoError(t, err)
	assert.Empty(t, res.BackupPath)
	_, err = os.Stat(store.BackupPath())
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestImportWithoutExistingProfileSkipsBackup(t *testing.T) {
	svc, store := newService(t, parseModel(parsedJSON, ""), resumeText)

	res, err := svc.Import(context.Background(), "resume.pdf", true)
	require.NoError(t, err)
	assert.Empty(t, res.BackupPath)

	saved, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, profile.DefaultSettings(), saved.GenerationSettings)
}

func TestImportFailureLeavesProfileUntouched(t *testing.T) {
	svc, store := newService(t, parseModel("not json at all", ""), resumeText)
	seedSettings(t, store)
	before, err := os.ReadFile(store.Path())
	require.NoError(t, err)

	var progress []string
	_, err = svc.ImportWithProgress(context.Background(), "resume.pdf", true, func(msg string) { progress = append(progress, msg) })
	require.Error(t, err)

	after, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Equal(t, before, after)
	_, err = os.Stat(store.BackupPath())
	assert.True(t, errors.Is(err, os.ErrNotExist))
	assert.True(t, strings.HasPrefix(progress[0], "Extracting text"))
}
