// Package normalize canonicalizes user-supplied identifiers before they are
// stored or compared.
package normalize

import (
	"net/mail"
	"strings"
)

// Email trims and lowercases an email address.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// ValidEmail reports whether s (after Email) is a bare addr-spec such as
// "ada@example.com". Display-name forms are rejected.
func ValidEmail(s string) bool {
	s = Email(s)
	if s == "" || strings.ContainsAny(s, " <>") {
		return false
	}
	addr, err := mail.ParseAddress(s)
	if err != nil {
		return false
	}
	return addr.Address == s && strings.Contains(s[strings.LastIndex(s, "@")+1:], ".")
}
