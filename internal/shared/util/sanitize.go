package util

import (
	"errors"
	"strings"
)

// MaxCompanySlugLen bounds the company part of generated file names.
const MaxCompanySlugLen = 75

// SanitizeFileName removes path separators and rejects traversal patterns.
func SanitizeFileName(name string) (string, error) {
	if strings.Contains(name, "..") {
		return "", errors.New("invalid file name")
	}
	s := strings.TrimSpace(name)
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	if s == "" {
		return "", errors.New("invalid file name")
	}
	return s, nil
}

// CompanySlug turns a company name into the file name token used for artifacts:
// whitespace becomes underscores, path separators are dropped, and the result is
// truncated to MaxCompanySlugLen runes.
func CompanySlug(company string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(company) {
		switch {
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			b.WriteRune('_')
		case r == '/' || r == '\\' || r == 0:
			continue
		default:
			b.WriteRune(r)
		}
	}
	slug := strings.ReplaceAll(b.String(), "..", "_")
	runes := []rune(slug)
	if len(runes) > MaxCompanySlugLen {
		runes = runes[:MaxCompanySlugLen]
	}
	if len(runes) == 0 {
		return "company"
	}
	return string(runes)
}
