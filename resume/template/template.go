// Package template fills markdown documents that use flat {{Name}} placeholders.
package template

import (
	"regexp"
	"strings"
)

// Template file names looked up in the templates directory.
const (
	ResumeFile      = "resume_template.md"
	CoverLetterFile = "cover_letter_template.md"
)

var placeholder = regexp.MustCompile(`\{\{([^{}]+)\}\}`)

// Fill replaces every {{key}} whose key is present in vars. Unknown
// placeholders are kept verbatim and substituted values are never rescanned.
// Bullet lines left empty by substitution are dropped afterwards.
func Fill(tmpl string, vars map[string]string) string {
	filled := placeholder.ReplaceAllStringFunc(tmpl, func(token string) string {
		key := token[2 : len(token)-2]
		if v, ok := vars[key]; ok {
			return v
		}
		return token
	})
	return dropEmptyBullets(filled)
}

// dropEmptyBullets removes lines whose trimmed form starts with "-" or "*"
// and is at most two characters long. This also drops a short item such as
// "-x", while "- x" survives.
func dropEmptyBullets(text string) string {
	lines := strings.Split(text, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if isEmptyBullet(line) {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}

func isEmptyBullet(line string) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return false
	}
	return (trimmed[0] == '-' || trimmed[0] == '*') && len(trimmed) <= 2
}

// Placeholders lists the distinct keys referenced by tmpl in order of first use.
func Placeholders(tmpl string) []string {
	seen := map[string]bool{}
	var keys []string
	for _, m := range placeholder.FindAllStringSubmatch(tmpl, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			keys = append(keys, m[1])
		}
	}
	return keys
}
