package shared

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
)

// TruncateString trims s and cuts it to at most max runes
func TruncateString(s string, max int) string {
	s = strings.TrimSpace(s)
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max])
}

// TruncatePtr is TruncateString for optional values; blank input yields nil
func TruncatePtr(s *string, max int) *string {
	if s == nil {
		return nil
	}
	v := TruncateString(*s, max)
	if v == "" {
		return nil
	}
	return &v
}

// EqualFold reports whether a and b are equal under Unicode case folding
func EqualFold(a, b string) bool {
	folder := cases.Fold()
	return folder.String(strings.TrimSpace(a)) == folder.String(strings.TrimSpace(b))
}

// NormalizeEnum returns the canonical spelling from allowed that matches value
// case-insensitively, or false when value is not one of them.
func NormalizeEnum[T ~string](value string, allowed ...T) (T, bool) {
	for _, a := range allowed {
		if EqualFold(string(a), value) {
			return a, true
		}
	}
	var zero T
	return zero, false
}

// RuneLen returns the number of runes in s
func RuneLen(s string) int {
	return utf8.RuneCountInString(s)
}
