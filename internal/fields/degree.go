package fields

import (
	"strconv"
	"strings"
)

// DefaultReferenceYear is the year graduation dates are compared with.
const DefaultReferenceYear = 2025

// Degree statuses, matching the profile vocabulary.
const (
	StatusCompleted  = "completed"
	StatusInProgress = "in_progress"
	StatusExpected   = "expected"
)

var (
	inProgressIndicators = []string{
		"in progress", "in-progress", "current", "pursuing", "working toward",
		"candidate for", "anticipated", "pursuing degree", "currently enrolled",
	}
	expectedIndicators = []string{
		"expected", "anticipated graduation", "expected graduation",
		"graduating", "will graduate", "expected completion",
	}
)

// DegreeStatus infers whether a degree is completed, in progress or expected.
// It is total: every input maps to exactly one status.
func DegreeStatus(text, graduationYear string, referenceYear int) string {
	if referenceYear <= 0 {
		referenceYear = DefaultReferenceYear
	}
	lower := strings.ToLower(text)

	if containsAny(lower, inProgressIndicators) {
		return StatusInProgress
	}
	if containsAny(lower, expectedIndicators) {
		return StatusExpected
	}

	year, err := strconv.Atoi(strings.TrimSpace(graduationYear))
	if err != nil {
		return StatusCompleted
	}
	switch {
	case year > referenceYear:
		return StatusExpected
	case year == referenceYear && (containsAny(lower, expectedIndicators) || containsAny(lower, inProgressIndicators)):
		return StatusExpected
	default:
		return StatusCompleted
	}
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
