package utils

import (
	"strings"
	"unicode"

	"github.com/google/uuid"
)

// GenerateRunID creates a human-readable simulation run ID.
// Format: {scenarioSlug}-{8charHexUUID}
//
// Example:
//   - Input: scenario="Fairness Demo"
//   - Output: "fairness-demo-a3f8e2b1"
func GenerateRunID(scenario string) string {
	slug := Slugify(scenario)
	if slug == "" {
		slug = "run"
	}
	return slug + "-" + generateShortUUID()
}

// Slugify lowercases s and collapses every run of non-alphanumerics into a
// single hyphen
func Slugify(s string) string {
	var b strings.Builder
	pendingHyphen := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
			continue
		}
		pendingHyphen = true
	}
	return b.String()
}

func generateShortUUID() string {
	id := uuid.New()
	return strings.ReplaceAll(id.String(), "-", "")[:8]
}
