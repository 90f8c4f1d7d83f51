// Package sanitizer normalizes user-supplied input before it reaches
// storage or comparison logic.
package sanitizer

import (
	"regexp"
	"strings"
)

var dotRegex = regexp.MustCompile(`\.{2,}`)

// NormalizeEmail lower-cases and trims an email address so lookups are
// case-insensitive. Consecutive dots in the local part are consolidated;
// strings that are not shaped like an email are returned lower-cased as-is.
func NormalizeEmail(email string) string {
	email = strings.TrimSpace(email)
	email = strings.ToLower(email)

	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return email
	}

	local := dotRegex.ReplaceAllString(parts[0], ".")
	local = strings.Trim(local, ".")

	return local + "@" + parts[1]
}

// MaskEmail hides most of the local part for log output while keeping the
// domain recognizable.
func MaskEmail(email string) string {
	email = strings.TrimSpace(email)
	parts := strings.Split(email, "@")
	if len(parts) != 2 || parts[0] == "" {
		return email
	}

	local := parts[0]
	if len(local) <= 2 {
		return strings.Repeat("*", len(local)) + "@" + parts[1]
	}
	return local[:1] + strings.Repeat("*", len(local)-2) + local[len(local)-1:] + "@" + parts[1]
}
