package util

import (
	"crypto/sha256"
	"encoding/hex"
)

// Digest returns a short stable identifier for free text, so logs can correlate
// job listings and resumes without carrying their contents.
func Digest(s string) string {
	if s == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:8])
}
