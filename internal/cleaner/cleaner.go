// Package cleaner strips conversational framing from model output so only the
// requested fragment reaches a document.
package cleaner

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Kind selects the rules applied to a fragment.
type Kind int

const (
	Summary Kind = iota
	CoverParagraph
	Title
)

func (k Kind) String() string {
	switch k {
	case Summary:
		return "summary"
	case CoverParagraph:
		return "cover_paragraph"
	case Title:
		return "title"
	default:
		return "unknown"
	}
}

// minParagraphLen is the length a cover paragraph must exceed to be preferred.
const minParagraphLen = 50

var (
	fillerPrefixes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)^here'?s?\s+(?:a|the|your)\s+`),
		regexp.MustCompile(`(?i)^based on[^\n]*?(?:here's|here is)\s+`),
		regexp.MustCompile(`(?i)^i'll create\s+`),
		regexp.MustCompile(`(?i)^let me create\s+`),
		regexp.MustCompile(`(?i)^this is\s+`),
		regexp.MustCompile(`(?i)^below is\s+`),
		regexp.MustCompile(`(?i)^the following is\s+`),
	}

	// A salutation ends at its first comma or at the end of its line; any
	// body text after the comma stays.
	salutation      = regexp.MustCompile(`(?im)^[ \t]*(?:(?:dear|hello)\b[^,\n]*,?|to whom it may concern\b,?)[ \t]*\n?`)
	genericOpening  = regexp.MustCompile(`(?im)^[ \t]*i am writing to[^\n]*?position\.?[ \t]*(?:\n|$)`)
	nameLine        = regexp.MustCompile(`(?im)^[ \t]*\[your name\][^\n]*(?:\n|$)`)
	signOff         = regexp.MustCompile(`(?ims)^[ \t]*(?:sincerely|best regards|kind regards|yours truly)\b.*$`)
	closingSentence = regexp.MustCompile(`(?ims)(^|[.!?])[ \t\n]*(?:i look forward|thank you\b[^\n]*?consideration)\b.*$`)
	blankRuns       = regexp.MustCompile(`\n\s*\n`)
	openingWords    = regexp.MustCompile(`(?i)^(?:dear|to whom|hello)\b`)
)

// Clean normalizes a raw model answer for the given kind.
func Clean(raw string, kind Kind) string {
	text := stripFiller(strings.TrimSpace(raw))

	switch kind {
	case CoverParagraph:
		return coverParagraph(text)
	case Title:
		return strings.TrimSpace(strings.Trim(firstLine(text), `"'`))
	default:
		return strings.TrimSpace(blankRuns.ReplaceAllString(text, "\n\n"))
	}
}

func stripFiller(text string) string {
	for _, re := range fillerPrefixes {
		text = re.ReplaceAllString(text, "")
	}
	return strings.TrimSpace(text)
}

func coverParagraph(text string) string {
	text = salutation.ReplaceAllString(text, "")
	text = genericOpening.ReplaceAllString(text, "")
	text = nameLine.ReplaceAllString(text, "")
	text = signOff.ReplaceAllString(text, "")
	text = closingSentence.ReplaceAllString(text, "${1}")
	text = strings.TrimSpace(blankRuns.ReplaceAllString(text, "\n\n"))
	if text == "" {
		return ""
	}

	paragraphs := strings.Split(text, "\n\n")
	for _, p := range paragraphs {
		p = strings.TrimSpace(p)
		if utf8.RuneCountInString(p) > minParagraphLen && !openingWords.MatchString(p) {
			return p
		}
	}
	return strings.TrimSpace(paragraphs[0])
}

func firstLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
