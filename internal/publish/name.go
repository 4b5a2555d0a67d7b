package publish

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Deterministic repository naming: one task identifier maps to exactly one
// repository name. Identifiers are normalized so that forge naming rules
// cannot split a single task across two repositories.

var deaccent = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// RepoName derives the repository name for a task identifier by prefixing and
// normalizing it: diacritics stripped, lowercased, anything outside
// [a-z0-9._-] collapsed to a single dash.
func RepoName(prefix, taskID string) string {
	id, _, err := transform.String(deaccent, taskID)
	if err != nil {
		id = taskID
	}
	id = strings.ToLower(strings.TrimSpace(id))

	var sb strings.Builder
	lastDash := false
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '.', r == '_':
			sb.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				sb.WriteByte('-')
				lastDash = true
			}
		}
	}
	name := strings.Trim(sb.String(), "-")
	return prefix + name
}
