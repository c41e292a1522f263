package util

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

var reSpaces = regexp.MustCompile(`\s+`)

// NormalizeSpaces collapses whitespace runs to a single space and trims.
func NormalizeSpaces(input string) string {
	return strings.TrimSpace(reSpaces.ReplaceAllString(input, " "))
}

// CleanCell prepares scraped cell text: NFC, no double quotes, collapsed spaces.
func CleanCell(input string) string {
	s := norm.NFC.String(input)
	s = strings.ReplaceAll(s, `"`, "")
	return NormalizeSpaces(s)
}

// IndexFold is strings.Index comparing runes by their lower-case mapping.
// The returned offset is a byte offset into s, so callers can slice the
// original text.
func IndexFold(s, substr string) int {
	if substr == "" {
		return 0
	}
	for i := range s {
		if hasLowerPrefix(s[i:], substr) {
			return i
		}
	}
	return -1
}

func hasLowerPrefix(s, prefix string) bool {
	for _, want := range prefix {
		if s == "" {
			return false
		}
		got, size := utf8.DecodeRuneInString(s)
		if unicode.ToLower(got) != unicode.ToLower(want) {
			return false
		}
		s = s[size:]
	}
	return true
}

// EarliestIndex returns the smallest index at which any of the markers occurs
// in s, or -1 when none does.
func EarliestIndex(s string, markers []string, index func(s, substr string) int) int {
	best := -1
	for _, m := range markers {
		idx := index(s, m)
		if idx != -1 && (best == -1 || idx < best) {
			best = idx
		}
	}
	return best
}
