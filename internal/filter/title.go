package filter

import (
	"regexp"
	"strings"
)

// "Vaga de <title>[ em <city> | - ... | # ...]"
var titleRegex = regexp.MustCompile(`(?i)^Vaga\s+de\s+(.+?)(\s+em\s+.*|[-#].*|$)`)

// SanitizeTitle drops the "Vaga de" boilerplate and whatever follows the
// role itself (location, seniority suffix, code). Titles without the
// prefix are only trimmed.
func SanitizeTitle(raw string) string {
	return strings.TrimSpace(titleRegex.ReplaceAllString(raw, "${1}"))
}
