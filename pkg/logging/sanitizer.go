// Package logging holds helpers for keeping secrets out of log output and
// client-facing error messages.
package logging

import (
	"regexp"
)

// RedactedText is the replacement text for sensitive data
const RedactedText = "[REDACTED]"

var (
	// Pattern to match JWT tokens (three base64url segments separated by dots)
	jwtPattern = regexp.MustCompile(`[A-Za-z0-9-_]+\.[A-Za-z0-9-_]+\.[A-Za-z0-9-_]{10,}`)

	// Pattern to match 32-byte hex seeds and raw ed25519 key material
	hexKeyPattern = regexp.MustCompile(`\b[0-9a-fA-F]{64,128}\b`)

	// Pattern to match seed/key assignments in error text
	keyAssignPattern = regexp.MustCompile(`(?i)(seed|private[_-]?key|secret)=[^;&\s]+`)
)

// SanitizeError redacts signing keys and issued tokens from error messages
// before they reach logs or response envelopes.
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return Sanitize(err.Error())
}

// Sanitize redacts sensitive material from an arbitrary string.
func Sanitize(s string) string {
	if s == "" {
		return ""
	}
	sanitized := keyAssignPattern.ReplaceAllString(s, "${1}="+RedactedText)
	sanitized = jwtPattern.ReplaceAllString(sanitized, RedactedText)
	sanitized = hexKeyPattern.ReplaceAllString(sanitized, RedactedText)
	return sanitized
}
