package ensure

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var lineBreak = regexp.MustCompile(`\r?\n`)

// Enum reports whether value is one of allowed.
func Enum(value string, allowed []string) bool {
	for _, a := range allowed {
		if value == a {
			return true
		}
	}
	return false
}

// NotEmpty reports whether s has any content.
func NotEmpty(s string) bool {
	return s != ""
}

// MaxLength reports whether s has at most max characters.
func MaxLength(s string, max int) bool {
	return utf8.RuneCountInString(s) <= max
}

// MinLength reports whether s has at least min characters.
func MinLength(s string, min int) bool {
	return utf8.RuneCountInString(s) >= min
}

// MaxLineLength reports whether every line of s has at most max characters.
func MaxLineLength(s string, max int) bool {
	for _, line := range lineBreak.Split(s, -1) {
		if !MaxLength(line, max) {
			return false
		}
	}
	return true
}

// Trimmed reports whether s has no leading or trailing whitespace.
func Trimmed(s string) bool {
	return strings.TrimSpace(s) == s
}
