// Package redact provides utilities for redacting sensitive information
// from strings before they are logged or returned in error responses.
// It helps prevent accidental leakage of credentials, connection
// strings, tokens, and email addresses through error messages.
package redact

import (
	"regexp"
)

// Redaction placeholders.
const (
	RedactedCredentialPlaceholder = "[REDACTED_CREDENTIAL]"
	RedactedKeyPlaceholder        = "[REDACTED_KEY]"
	RedactedJWTPlaceholder        = "[REDACTED_JWT]"
	RedactedEmailPlaceholder      = "[REDACTED_EMAIL]"
)

// Precompiled patterns, checked in order.
var (
	// Database connection strings with embedded credentials.
	dbConnRegex = regexp.MustCompile(`(?i)(postgres|postgresql|mysql|db|database)://[^@\s]+@`)

	// Password fragments in messages or query strings.
	passwordRegex = regexp.MustCompile(`(?i)(password|passwd|pwd)([=:\s]?['"]?)[^'"&\s]{3,}`)

	// API keys, tokens, and secrets.
	apiKeyRegex = regexp.MustCompile(
		`(?i)(api[_-]?key|token|secret|key|auth)(['"\s:=]+)[A-Za-z0-9_\-.~+/]{8,}`,
	)

	// Standard three-part base64url JWT tokens.
	jwtTokenRegex = regexp.MustCompile(`eyJ[a-zA-Z0-9_-]+\.eyJ[a-zA-Z0-9_-]+\.[a-zA-Z0-9_-]+`)

	// Email addresses.
	emailRegex = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)

	patternPlaceholders = []struct {
		pattern     *regexp.Regexp
		placeholder string
	}{
		{dbConnRegex, RedactedCredentialPlaceholder},
		{passwordRegex, RedactedCredentialPlaceholder},
		{apiKeyRegex, RedactedKeyPlaceholder},
		{jwtTokenRegex, RedactedJWTPlaceholder},
		{emailRegex, RedactedEmailPlaceholder},
	}
)

// String redacts sensitive fragments from an arbitrary string.
func String(s string) string {
	for _, pp := range patternPlaceholders {
		s = pp.pattern.ReplaceAllString(s, pp.placeholder)
	}
	return s
}

// Error redacts an error's message for safe logging. Returns the empty
// string for a nil error.
func Error(err error) string {
	if err == nil {
		return ""
	}
	return String(err.Error())
}
