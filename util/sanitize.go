package util

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxHeaderValueLength bounds values produced by SanitizeHeaderValue.
const MaxHeaderValueLength = 1024

// SanitizeString trims whitespace and removes control characters from s.
func SanitizeString(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
}

// SanitizeHeaderValue makes s safe to send as an HTTP header value. Line
// breaks become spaces, other control characters are dropped and the result
// is truncated to MaxHeaderValueLength bytes on a rune boundary.
func SanitizeHeaderValue(s string) string {
	s = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(s)
	s = SanitizeString(s)
	if len(s) <= MaxHeaderValueLength {
		return s
	}
	cut := MaxHeaderValueLength
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

// SanitizeEnvValue cleans an environment variable value by removing surrounding
// quotes and trimming whitespace.
func SanitizeEnvValue(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			s = s[1 : len(s)-1]
		}
	}
	return strings.TrimSpace(s)
}
