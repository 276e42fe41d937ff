package util

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{name: "plain", in: "resume.pdf", want: "resume.pdf"},
		{name: "separators", in: "a/b\\c.docx", want: "a_b_c.docx"},
		{name: "traversal", in: "../etc/passwd", wantErr: true},
		{name: "blank", in: "   ", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SanitizeFileName(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("SanitizeFileName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestCompanySlug(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "spaces", in: "Acme Corp", want: "Acme_Corp"},
		{name: "trimmed", in: "  Globex Inc  ", want: "Globex_Inc"},
		{name: "separators", in: "R&D/Labs", want: "R&DLabs"},
		{name: "empty", in: "", want: "company"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CompanySlug(tt.in); got != tt.want {
				t.Fatalf("CompanySlug(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestCompanySlugBoundsLongNames(t *testing.T) {
	long := strings.Repeat("Very Long Company Name ", 10)
	got := CompanySlug(long)
	if utf8.RuneCountInString(got) > MaxCompanySlugLen {
		t.Fatalf("expected at most %d runes, got %d", MaxCompanySlugLen, utf8.RuneCountInString(got))
	}
	if strings.ContainsAny(got, " \t\n") {
		t.Fatalf("expected no whitespace in %q", got)
	}
}
