package utils

import (
	"strings"
	"unicode"
)

// SanitizeInput trims surrounding whitespace and drops control characters other
// than newlines and tabs.
func SanitizeInput(input string) string {
	input = strings.TrimSpace(input)
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, input)
}
