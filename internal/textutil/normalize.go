package textutil

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// CollapseSpace trims s and folds every run of whitespace into one space.
func CollapseSpace(s string) string {
	return strings.Join(strings.FieldsFunc(s, unicode.IsSpace), " ")
}

// Normalize prepares text for comparison: NFC composition followed by
// whitespace collapsing.
func Normalize(s string) string {
	return CollapseSpace(norm.NFC.String(s))
}

// Length counts runes, which is how excerpt lengths are compared.
func Length(s string) int {
	return utf8.RuneCountInString(s)
}

// Truncate keeps at most limit runes of s. The boolean reports whether
// anything was cut.
func Truncate(s string, limit int) (string, bool) {
	if limit < 0 {
		limit = 0
	}
	if utf8.RuneCountInString(s) <= limit {
		return s, false
	}
	runes := []rune(s)
	return string(runes[:limit]), true
}
