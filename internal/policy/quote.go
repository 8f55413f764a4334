package policy

import "strings"

// QuoteIfNeeded wraps text in double quotes iff it contains a space. This is
// the exact quoting rule `sc create`'s binPath= argument requires, and the
// one the round-trip between add and run depends on.
func QuoteIfNeeded(text string) string {
	if strings.Contains(text, " ") {
		return `"` + text + `"`
	}
	return text
}
