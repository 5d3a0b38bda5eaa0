package domain

import (
	"regexp"
	"strings"
)

// emailRegex is a deliberately permissive syntax check:
// something@something.something, no whitespace.
var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// IsValidEmailFormat checks email syntax only; the domain allow-list is a
// separate, configuration-driven check.
func IsValidEmailFormat(email string) bool {
	return emailRegex.MatchString(email)
}

// EmailDomain returns the lowercase domain part of an email address, or ""
// when the address has no @.
func EmailDomain(email string) string {
	at := strings.LastIndex(email, "@")
	if at < 0 || at == len(email)-1 {
		return ""
	}
	return strings.ToLower(email[at+1:])
}
