package util

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSanitizeString(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"trims whitespace", "  hello  ", "hello"},
		{"removes control chars", "hello\x00world", "helloworld"},
		{"removes tabs and newlines", "line1\n\tline2", "line1line2"},
		{"empty string", "", ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := SanitizeString(tc.input); got != tc.want {
				t.Errorf("SanitizeString(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestSanitizeHeaderValue(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "dial tcp 127.0.0.1:1: connection refused", "dial tcp 127.0.0.1:1: connection refused"},
		{"crlf", "first\r\nX-Injected: yes", "first X-Injected: yes"},
		{"lone lf", "a\nb", "a b"},
		{"nul", "a\x00b", "ab"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := SanitizeHeaderValue(tc.input); got != tc.want {
				t.Errorf("SanitizeHeaderValue(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestSanitizeHeaderValueTruncates(t *testing.T) {
	long := strings.Repeat("é", MaxHeaderValueLength)
	got := SanitizeHeaderValue(long)
	if len(got) > MaxHeaderValueLength {
		t.Errorf("expected at most %d bytes, got %d", MaxHeaderValueLength, len(got))
	}
	if !utf8.ValidString(got) {
		t.Error("truncation must not split a rune")
	}
}

func TestSanitizeEnvValue(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`"value"`, "value"},
		{`'value'`, "value"},
		{`  "value"  `, "value"},
		{"value", "value"},
		{"", ""},
	}
	for _, tc := range tests {
		if got := SanitizeEnvValue(tc.input); got != tc.want {
			t.Errorf("SanitizeEnvValue(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}
