package idp

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
	"golang.org/x/oauth2"
)

// OIDCConfig configures the OIDC client against a discoverable provider.
type OIDCConfig struct {
	Issuer       string
	ClientID     string
	ClientSecret string
	RedirectURL  string   // The registered auth/callback URL
	Scopes       []string // Defaults to openid, profile, email
	SignupURL    string   // Provider's registration endpoint, optional
	RevokeURL    string   // Provider's token revocation endpoint, optional
}

// OIDCClient implements Provider against a standard OIDC identity provider.
type OIDCClient struct {
	config     OIDCConfig
	provider   *oidc.Provider
	oauth      *oauth2.Config
	verifier   *oidc.IDTokenVerifier
	httpClient *http.Client
}

var _ Provider = (*OIDCClient)(nil)

// NewOIDCClient discovers the provider's endpoints from the issuer and builds
// a ready-to-use client.
func NewOIDCClient(ctx context.Context, config OIDCConfig) (*OIDCClient, error) {
	if config.Issuer == "" {
		return nil, errors.New("[NewOIDCClient] issuer is required")
	}
	if config.ClientID == "" {
		return nil, errors.New("[NewOIDCClient] client ID is required")
	}
	if config.RedirectURL == "" {
		return nil, errors.New("[NewOIDCClient] redirect URL is required")
	}

	provider, err := oidc.NewProvider(ctx, config.Issuer)
	if err != nil {
		return nil, errors.Wrap(err, "[NewOIDCClient] provider discovery")
	}

	scopes := config.Scopes
	if len(scopes) == 0 {
		scopes = []string{oidc.ScopeOpenID, "profile", "email"}
	}

	return &OIDCClient{
		config:   config,
		provider: provider,
		oauth: &oauth2.Config{
			ClientID:     config.ClientID,
			ClientSecret: config.ClientSecret,
			Endpoint:     provider.Endpoint(),
			RedirectURL:  config.RedirectURL,
			Scopes:       scopes,
		},
		verifier:   provider.Verifier(&oidc.Config{ClientID: config.ClientID}),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}, nil
}

// PasswordLogin exchanges credentials via the resource-owner password grant.
func (c *OIDCClient) PasswordLogin(ctx context.Context, email, password string) (*Token, error) {
	tok, err := c.oauth.PasswordCredentialsToken(ctx, email, password)
	if err != nil {
		return nil, errors.Wrap(err, "[OIDCClient.PasswordLogin] password grant")
	}
	return c.toToken(tok), nil
}

// Register creates the identity at the provider's signup endpoint and then
// logs it in.
func (c *OIDCClient) Register(ctx context.Context, email, password, firstName, lastName string) (*Token, error) {
	if c.config.SignupURL == "" {
		return nil, errors.New("[OIDCClient.Register] provider has no signup endpoint configured")
	}

	body, err := json.Marshal(map[string]string{
		"email":      email,
		"password":   password,
		"first_name": firstName,
		"last_name":  lastName,
	})
	if err != nil {
		return nil, errors.Wrap(err, "[OIDCClient.Register] marshal signup request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.SignupURL, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "[OIDCClient.Register] new request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "[OIDCClient.Register] signup request")
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, errors.Errorf("[OIDCClient.Register] signup endpoint returned %d", resp.StatusCode)
	}

	return c.PasswordLogin(ctx, email, password)
}

// AuthCodeURL builds the authorization URL with PKCE and nonce.
func (c *OIDCClient) AuthCodeURL(state, nonce, codeVerifier string) string {
	return c.oauth.AuthCodeURL(state,
		oauth2.S256ChallengeOption(codeVerifier),
		oidc.Nonce(nonce),
	)
}

// Exchange trades the authorization code for tokens and verifies the ID token
// signature, claims, and nonce.
func (c *OIDCClient) Exchange(ctx context.Context, code, codeVerifier, nonce string) (*Token, error) {
	tok, err := c.oauth.Exchange(ctx, code, oauth2.VerifierOption(codeVerifier))
	if err != nil {
		return nil, errors.Wrap(err, "[OIDCClient.Exchange] code exchange")
	}

	rawIDToken, ok := tok.Extra("id_token").(string)
	if !ok {
		return nil, errors.New("[OIDCClient.Exchange] no ID token in response")
	}

	idToken, err := c.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return nil, errors.Wrap(err, "[OIDCClient.Exchange] ID token verification")
	}
	if idToken.Nonce != nonce {
		return nil, errors.New("[OIDCClient.Exchange] nonce mismatch")
	}

	out := c.toToken(tok)
	out.IDToken = rawIDToken
	return out, nil
}

// Logout revokes the refresh token at the provider. A provider without a
// revocation endpoint makes this a no-op; the visitor session is still
// discarded locally.
func (c *OIDCClient) Logout(ctx context.Context, refreshToken string) error {
	if c.config.RevokeURL == "" || refreshToken == "" {
		return nil
	}

	form := url.Values{
		"token":           {refreshToken},
		"token_type_hint": {"refresh_token"},
		"client_id":       {c.config.ClientID},
	}
	if c.config.ClientSecret != "" {
		form.Set("client_secret", c.config.ClientSecret)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.RevokeURL, strings.NewReader(form.Encode()))
	if err != nil {
		return errors.Wrap(err, "[OIDCClient.Logout] new request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "[OIDCClient.Logout] revocation request")
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return errors.Errorf("[OIDCClient.Logout] revocation endpoint returned %d", resp.StatusCode)
	}
	return nil
}

// toToken converts an oauth2 token, recovering the expiry from the access
// token's claims when the provider omits expires_in.
func (c *OIDCClient) toToken(tok *oauth2.Token) *Token {
	out := &Token{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		Expiry:       tok.Expiry,
	}
	if out.Expiry.IsZero() {
		out.Expiry = expiryFromClaims(tok.AccessToken)
	}
	return out
}

// expiryFromClaims parses the access token without verifying it, purely to
// read the exp claim for local bookkeeping. Verification belongs to the
// resource servers, not this client.
func expiryFromClaims(accessToken string) time.Time {
	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(accessToken, claims); err != nil {
		return time.Time{}
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.Time
}
