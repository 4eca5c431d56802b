// Package returnpath sanitizes post-login redirect targets. The rules exist to
// block open redirects and redirect loops back into the auth flow itself.
package returnpath

import "strings"

// CallbackSegment is the identity provider's registered return route. Any path
// containing it is rejected as a return target to avoid looping the user back
// into the handshake.
const CallbackSegment = "auth/callback"

// Sanitize validates a candidate return path and returns it unchanged when
// safe, or "" when the input should be treated as "no preference". Rejected
// inputs never produce an error: malformed paths degrade to policy defaults.
func Sanitize(raw string) string {
	p := strings.TrimSpace(raw)
	if p == "" {
		return ""
	}
	// Must be a relative path. This rejects absolute URLs ("https://evil.test")
	// and anything schemeless ("evil.test/x").
	if !strings.HasPrefix(p, "/") {
		return ""
	}
	// "//host" and "/\host" are protocol-relative in browsers.
	if len(p) > 1 && (p[1] == '/' || p[1] == '\\') {
		return ""
	}
	if isLoginPath(p) {
		return ""
	}
	if strings.Contains(p, CallbackSegment) {
		return ""
	}
	return p
}

// isLoginPath reports whether the path is, or ends in, a login route
// ("/login", "/my-shop/login"). Query strings are ignored for the check.
func isLoginPath(p string) bool {
	if i := strings.IndexByte(p, '?'); i >= 0 {
		p = p[:i]
	}
	p = strings.TrimSuffix(p, "/")
	return strings.HasSuffix(p, "/login")
}
