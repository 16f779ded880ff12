package api

import (
	"strings"
	"unicode/utf8"
)

// maxNameLen is the maximum stored length for API key names. Longer names
// are truncated, not rejected.
const maxNameLen = 100

// maxPhoneLen caps phone fields; E.164 allows at most 15 digits plus "+".
const maxPhoneLen = 20

// maxBodyLen caps SMS text fields.
const maxBodyLen = 1600

// maxURLLen is the maximum length for URL fields.
const maxURLLen = 2048

// validatePhone checks that a string looks like an E.164 number. Only the
// leading "+" is enforced; no further normalization is performed.
func validatePhone(field, value string) string {
	if !strings.HasPrefix(value, "+") {
		return field + " must be E.164 like +15551234567"
	}
	if len(value) > maxPhoneLen {
		return field + " exceeds maximum length"
	}
	return ""
}

// validateWebhookURL checks that a string is an http(s) URL.
func validateWebhookURL(field, value string) string {
	if !strings.HasPrefix(value, "http://") && !strings.HasPrefix(value, "https://") {
		return field + " must be http(s)"
	}
	if len(value) > maxURLLen {
		return field + " exceeds maximum length"
	}
	return ""
}

// truncate shortens a string to at most max runes.
func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max])
}
