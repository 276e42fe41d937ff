package fields

import (
	"regexp"
	"strings"
)

// companyPattern matches "at"/"for" followed by a run of capitalized words,
// optionally closed by a comma and an organization suffix.
var companyPattern = regexp.MustCompile(
	`(?i:\b(?:at|for)\b)[ \t]+` +
		`([A-Z][A-Za-z0-9&'.-]*(?:[ \t]+(?:&[ \t]+)?[A-Z][A-Za-z0-9&'.-]*)*` +
		`(?:,?[ \t]+(?:Co|Inc|Ltd|LLC|Corp|Group|Solutions|Technologies|Systems|Labs|Pte Ltd|GmbH|B\.V\.)\.?)?)`,
)

// Company resolves the target company. A non-blank override always wins.
func Company(listing, override string) string {
	if o := strings.TrimSpace(override); o != "" {
		return o
	}
	m := companyPattern.FindStringSubmatch(listing)
	if m == nil {
		return FallbackCompany
	}
	name := trimCompany(m[1])
	if name == "" {
		return FallbackCompany
	}
	return name
}

func trimCompany(name string) string {
	name = strings.TrimRight(strings.TrimSpace(name), ",;:")
	if strings.HasSuffix(name, ".") && !strings.HasSuffix(name, "B.V.") && !strings.HasSuffix(name, "Inc.") {
		name = strings.TrimRight(name, ".")
	}
	return strings.TrimSpace(name)
}
