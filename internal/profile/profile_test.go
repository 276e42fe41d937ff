package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatEducation(t *testing.T) {
	base := PersonalInfo{Degree: "BSc", Major: "Computer Science", School: "State University", GraduationYear: "2026"}

	tests := []struct {
		name       string
		status     string
		major      string
		wantDegree string
		wantLine   string
	}{
		{name: "completed", status: "completed", major: base.Major, wantDegree: "BSc in Computer Science", wantLine: "BSc in Computer Science, State University, 2026"},
		{name: "in progress", status: "in_progress", major: base.Major, wantDegree: "BSc in Computer Science (In Progress)", wantLine: "BSc in Computer Science (In Progress), State University, Expected 2026"},
		{name: "expected", status: "expected", major: base.Major, wantDegree: "BSc in Computer Science", wantLine: "BSc in Computer Science, State University, Expected 2026"},
		{name: "status is case folded", status: "In_Progress", major: base.Major, wantDegree: "BSc in Computer Science (In Progress)", wantLine: "BSc in Computer Science (In Progress), State University, Expected 2026"},
		{name: "unknown status renders completed", status: "graduated", major: base.Major, wantDegree: "BSc in Computer Science", wantLine: "BSc in Computer Science, State University, 2026"},
		{name: "no major", status: "in_progress", major: "", wantDegree: "BSc (In Progress)", wantLine: "BSc (In Progress), State University, Expected 2026"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pi := base
			pi.DegreeStatus = tt.status
			pi.Major = tt.major
			got := FormatEducation(pi)
			assert.Equal(t, tt.wantDegree, got.DegreeText)
			assert.Equal(t, tt.wantLine, got.Line)
		})
	}
}

func TestValidate(t *testing.T) {
	require.NoError(t, Validate(Default()))

	p := Default()
	p.PersonalInfo.Email = "not-an-email"
	p.PersonalInfo.DegreeStatus = "graduated"
	p.GenerationSettings.MaxTokens = 0
	p.GenerationSettings.Temperature = 3

	err := Validate(p)
	var fe FieldErrors
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "must be a valid email address", fe["personal_info.email"])
	assert.Equal(t, "must be one of: completed in_progress expected", fe["personal_info.degree_status"])
	assert.Contains(t, fe, "generation_settings.max_tokens")
	assert.Contains(t, fe, "generation_settings.temperature")
	assert.Contains(t, err.Error(), "invalid profile:")
}

func TestWarnings(t *testing.T) {
	warnings := Warnings(Default())
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "placeholder")

	assert.Empty(t, Warnings(sampleProfile()))
}

func TestSettingsLLM(t *testing.T) {
	s := DefaultSettings().LLM()
	assert.Equal(t, DefaultBaseURL, s.BaseURL)
	assert.Equal(t, DefaultModel, s.Model)
	assert.Equal(t, DefaultTemperature, s.Temperature)
	assert.Equal(t, DefaultMaxTokens, s.MaxTokens)
}
