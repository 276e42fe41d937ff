package fields

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"

	"jobapp/internal/llm"
)

type mockLLM struct {
	answer string
	err    error
	calls  atomic.Int32
	last   llm.Request
}

func (m *mockLLM) Complete(ctx context.Context, req llm.Request) (string, error) {
	m.calls.Add(1)
	m.last = req
	return m.answer, m.err
}

const scenarioListing = "We are hiring a Senior Backend Engineer at Acme Corp to build our platform."

func TestScenarioTitleAndCompany(t *testing.T) {
	model := &mockLLM{answer: "unused"}
	e := &Extractor{LLM: model}

	title := e.JobTitle(context.Background(), scenarioListing)
	assert.Contains(t, strings.ToLower(title), "senior backend engineer")
	assert.Equal(t, "Acme Corp", Company(scenarioListing, ""))
	assert.Zero(t, model.calls.Load(), "patterns should resolve without the model")
}

func TestJobTitlePatterns(t *testing.T) {
	tests := []struct {
		name    string
		listing string
		want    string
	}{
		{name: "labelled", listing: "Job Title: Data Platform Engineer\nLocation: Remote", want: "Data Platform Engineer"},
		{name: "trailing parenthetical", listing: "Position: Site Reliability Engineer (Contract)", want: "Site Reliability Engineer"},
		{name: "leading the", listing: "Role: the Staff Product Designer", want: "Staff Product Designer"},
		{name: "seeking an", listing: "We're seeking an Infrastructure Engineer for our Berlin office", want: "Infrastructure Engineer"},
		{name: "title at line start", listing: "Machine Learning Engineer - Nimbus Labs\nApply now", want: "Machine Learning Engineer"},
	}

	e := &Extractor{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, e.JobTitle(context.Background(), tt.listing))
		})
	}
}

func TestJobTitleModelFallback(t *testing.T) {
	tests := []struct {
		name   string
		answer string
		err    error
		want   string
	}{
		{name: "clean answer", answer: "Platform Engineer", want: "Platform Engineer"},
		{name: "quoted with prefix", answer: `"The job title is: Platform Engineer"`, want: "Platform Engineer"},
		{name: "role prefix", answer: "Role: Platform Engineer\nThis role involves...", want: "Platform Engineer"},
		{name: "conversational lead-in", answer: "\nHere's the Platform Engineer\n(remote)", want: "Platform Engineer"},
		{name: "too short", answer: "Dev", want: FallbackJobTitle},
		{name: "model failure", err: errors.New("connection refused"), want: FallbackJobTitle},
	}

	listing := "no recognizable structure here, just words"
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			model := &mockLLM{answer: tt.answer, err: tt.err}
			e := &Extractor{LLM: model, Settings: llm.Settings{Model: "m"}}
			assert.Equal(t, tt.want, e.JobTitle(context.Background(), listing))
			assert.EqualValues(t, 1, model.calls.Load())
			assert.Contains(t, model.last.Prompt, listing)
		})
	}
}

func TestJobTitleWithoutModel(t *testing.T) {
	var e *Extractor
	assert.Equal(t, FallbackJobTitle, e.JobTitle(context.Background(), "nothing useful"))
}

func TestProfessionalTitle(t *testing.T) {
	tests := []struct {
		name   string
		resume string
		answer string
		want   string
	}{
		{name: "objective", resume: "Objective: seeking a Backend Developer position.", want: "Backend Developer"},
		{name: "experienced", resume: "Experienced Data Analyst with 5 years in retail", want: "Data Analyst"},
		{name: "line title", resume: "Jane Doe\nSenior Cloud Engineer\njane@example.com", want: "Senior Cloud Engineer"},
		{name: "model fallback", resume: "jane doe\n555-0100", answer: "Professional title is: Nurse", want: "Nurse"},
		{name: "model answer too short", resume: "jane doe", answer: "RN", want: FallbackProfessionalTitle},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := &Extractor{LLM: &mockLLM{answer: tt.answer}}
			assert.Equal(t, tt.want, e.ProfessionalTitle(context.Background(), tt.resume))
		})
	}
}

func TestCompany(t *testing.T) {
	tests := []struct {
		name     string
		listing  string
		override string
		want     string
	}{
		{name: "override wins", listing: scenarioListing, override: "  Globex  ", want: "Globex"},
		{name: "blank override ignored", listing: scenarioListing, override: "   ", want: "Acme Corp"},
		{name: "for", listing: "Come work for Initech Solutions and grow.", want: "Initech Solutions"},
		{name: "comma suffix", listing: "Engineer at Hooli, Inc. in Palo Alto", want: "Hooli, Inc."},
		{name: "sentence end", listing: "Join the team at Nimbus Labs.", want: "Nimbus Labs"},
		{name: "ampersand", listing: "Analyst at Johnson & Johnson today", want: "Johnson & Johnson"},
		{name: "case-insensitive keyword", listing: "Openings AT Globex Corporation now", want: "Globex Corporation"},
		{name: "skips lowercase phrase", listing: "looking for someone great at Umbrella Group", want: "Umbrella Group"},
		{name: "no match", listing: "remote role, great pay", want: FallbackCompany},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Company(tt.listing, tt.override))
		})
	}
}

func TestDegreeStatus(t *testing.T) {
	tests := []struct {
		name string
		text string
		year string
		ref  int
		want string
	}{
		{name: "in progress indicator", text: "BSc Computer Science (In Progress)", year: "2020", want: StatusInProgress},
		{name: "pursuing", text: "Currently pursuing an MBA", want: StatusInProgress},
		{name: "expected indicator", text: "BA History, expected May", year: "2019", want: StatusExpected},
		{name: "future year", text: "BSc Physics", year: "2027", want: StatusExpected},
		{name: "reference year without indicator", text: "BSc Physics", year: "2025", want: StatusCompleted},
		{name: "past year", text: "BSc Physics", year: "2015", want: StatusCompleted},
		{name: "unparseable year", text: "BSc Physics", year: "Spring", want: StatusCompleted},
		{name: "empty", text: "", year: "", want: StatusCompleted},
		{name: "custom reference year", text: "BSc", year: "2026", ref: 2030, want: StatusCompleted},
		{name: "year with spaces", text: "BSc", year: " 2031 ", want: StatusExpected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DegreeStatus(tt.text, tt.year, tt.ref))
		})
	}
}

func TestDegreeStatusIsTotalAndDeterministic(t *testing.T) {
	valid := map[string]bool{StatusCompleted: true, StatusInProgress: true, StatusExpected: true}
	texts := []string{"", "expected", "IN PROGRESS", "graduated 2010", "\x00\xff", strings.Repeat("x", 5000)}
	years := []string{"", "2025", "2024", "2026", "-1", "abc", "99999999999999999999"}

	for _, text := range texts {
		for _, year := range years {
			first := DegreeStatus(text, year, 0)
			assert.True(t, valid[first], "unexpected status %q", first)
			for i := 0; i < 3; i++ {
				assert.Equal(t, first, DegreeStatus(text, year, 0))
			}
		}
	}
}
