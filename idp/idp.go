// Package idp wraps the external identity provider as an opaque capability:
// given credentials or an OAuth callback, yield a token for an authenticated
// identity. Nothing about the provider's internals leaks past this boundary.
package idp

import (
	"context"
	"time"
)

// Token is the credential set issued by the identity provider for one
// authenticated identity.
type Token struct {
	AccessToken  string
	RefreshToken string
	IDToken      string
	Expiry       time.Time
}

// Provider is the full identity-provider capability: direct credential
// exchange plus the redirect-based OAuth handshake.
type Provider interface {
	// PasswordLogin exchanges credentials for a token.
	PasswordLogin(ctx context.Context, email, password string) (*Token, error)

	// Register creates an identity and logs it in.
	Register(ctx context.Context, email, password, firstName, lastName string) (*Token, error)

	// AuthCodeURL builds the provider's authorization URL for the
	// redirect-based flow. The state, nonce and PKCE verifier are supplied by
	// the caller, which must retain them for the callback.
	AuthCodeURL(state, nonce, codeVerifier string) string

	// Exchange trades an authorization code for a token, verifying the ID
	// token and its nonce.
	Exchange(ctx context.Context, code, codeVerifier, nonce string) (*Token, error)

	// Logout invalidates the refresh token at the provider.
	Logout(ctx context.Context, refreshToken string) error
}
