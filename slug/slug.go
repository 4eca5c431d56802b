// Package slug validates shop slugs and owns the platform's reserved-word list.
// The router relies on the same list when deciding whether the first path
// segment of a URL addresses a shop, so the two must never diverge.
package slug

import (
	"regexp"
	"strings"
)

const (
	minLength = 3
	maxLength = 50
)

var slugPattern = regexp.MustCompile(`^[a-z0-9-]+$`)

// reservedWords are path segments claimed by the platform itself. A shop can
// never register one of these as its slug.
var reservedWords = map[string]struct{}{
	"login":           {},
	"signup":          {},
	"forgot-password": {},
	"auth":            {},
	"terms":           {},
	"create-shop":     {},
	"dashboard":       {},
	"platform":        {},
}

// Normalize trims and lower-cases a candidate slug and reports whether it is a
// valid shop slug: lowercase letters, digits and hyphens, length 3-50, and not
// a reserved platform word. The second return value is false for any input
// that fails these rules.
func Normalize(raw string) (string, bool) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if len(s) < minLength || len(s) > maxLength {
		return "", false
	}
	if !slugPattern.MatchString(s) {
		return "", false
	}
	if IsReserved(s) {
		return "", false
	}
	return s, true
}

// IsReserved reports whether a path segment is claimed by the platform.
func IsReserved(segment string) bool {
	_, ok := reservedWords[segment]
	return ok
}
