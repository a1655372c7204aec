package utils

import (
	"strings"
	"unicode"
)

// HandleBase derives the default handle from a user's names: lowercase alphanumerics only,
// cut to maxLen characters.
func HandleBase(nameFirst, nameLast string, maxLen int) string {
	var b strings.Builder
	for _, r := range strings.ToLower(nameFirst + nameLast) {
		if IsAlphanumeric(r) {
			b.WriteRune(r)
		}
	}
	handle := b.String()
	if len(handle) > maxLen {
		handle = handle[:maxLen]
	}
	return handle
}

// IsAlphanumeric reports whether r is an ASCII letter or digit.
func IsAlphanumeric(r rune) bool {
	return r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r))
}

// IsAlphanumericString reports whether every rune of s is an ASCII letter or digit.
func IsAlphanumericString(s string) bool {
	for _, r := range s {
		if !IsAlphanumeric(r) {
			return false
		}
	}
	return true
}

// Truncate returns at most n runes of s.
func Truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
