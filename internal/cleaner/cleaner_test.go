package cleaner

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanStripsFillerPrefixes(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "heres a", raw: "Here's a results-driven engineer with 5 years in Go.", want: "results-driven engineer with 5 years in Go."},
		{name: "bare here", raw: "Here the summary text", want: "summary text"},
		{name: "based on", raw: "Based on the listing, here is a focused summary.", want: "a focused summary."},
		{name: "ill create", raw: "I'll create something", want: "something"},
		{name: "let me create", raw: "Let me create a summary", want: "a summary"},
		{name: "below is", raw: "Below is the text", want: "the text"},
		{name: "only at start", raw: "Engineer. This is kept as is.", want: "Engineer. This is kept as is."},
		{name: "plain", raw: "  Backend engineer focused on reliability.  ", want: "Backend engineer focused on reliability."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Clean(tt.raw, Summary))
		})
	}
}

func TestCleanSummaryCollapsesBlankLines(t *testing.T) {
	got := Clean("First line.\n\n\n  \nSecond line.", Summary)
	assert.Equal(t, "First line.\n\nSecond line.", got)
}

func TestCleanCoverParagraph(t *testing.T) {
	body := "My work on distributed billing systems at Initech maps directly onto the reliability goals of your platform team."

	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "full letter reduced to body",
			raw:  "Dear Hiring Manager,\n\nI am writing to apply for the Backend Engineer position.\n\n" + body + "\n\nSincerely,\n[Your Name]",
			want: body,
		},
		{
			name: "to whom and thank you",
			raw:  "To whom it may concern,\n" + body + "\nThank you for your time and consideration.\nJane",
			want: body,
		},
		{
			name: "look forward trailing",
			raw:  body + " I look forward to hearing from you.",
			want: body,
		},
		{
			name: "short first paragraph skipped",
			raw:  "Short intro.\n\n" + body,
			want: body,
		},
		{
			name: "nothing long enough falls back to first",
			raw:  "Short one.\n\nShort two.",
			want: "Short one.",
		},
		{
			name: "hello greeting removed",
			raw:  "Hello team,\n" + body + "\n\nBest regards,\nJane Doe",
			want: body,
		},
		{
			name: "name placeholder line removed",
			raw:  "[Your Name]\n" + body,
			want: body,
		},
		{
			name: "same line salutation keeps body",
			raw:  "Dear Hiring Manager, " + body,
			want: body,
		},
		{
			name: "same line to whom keeps body",
			raw:  "To whom it may concern, " + body,
			want: body,
		},
		{
			name: "sincerely mid sentence kept",
			raw:  "I sincerely believe my work on distributed billing systems fits your platform team.",
			want: "I sincerely believe my work on distributed billing systems fits your platform team.",
		},
		{
			name: "look forward mid sentence kept",
			raw:  "Building the ledger service I look forward to extending is the work I know best at Initech.",
			want: "Building the ledger service I look forward to extending is the work I know best at Initech.",
		},
		{
			name: "sign off after same line body",
			raw:  "Dear team, " + body + "\nKind regards,\nJane",
			want: body,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Clean(tt.raw, CoverParagraph))
		})
	}
}

func TestCleanCoverParagraphEmpty(t *testing.T) {
	assert.Equal(t, "", Clean("Dear Hiring Manager,\nSincerely,\nJane", CoverParagraph))
	assert.Equal(t, "", Clean("   ", CoverParagraph))
}

func TestCleanTitle(t *testing.T) {
	assert.Equal(t, "Platform Engineer", Clean("\n\"Platform Engineer\"\nextra words", Title))
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "summary", Summary.String())
	assert.Equal(t, "cover_paragraph", CoverParagraph.String())
	assert.Equal(t, "title", Title.String())
	assert.Equal(t, "unknown", Kind(42).String())
}
