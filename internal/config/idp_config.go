package config

type Idp struct{}

var _ IdpConfig = Idp{}

// GetIdpIssuer returns the OIDC issuer URL. Empty means no external identity
// provider is configured; in DEV the server falls back to the in-memory one.
func (Idp) GetIdpIssuer() string {
	return GetEnv("IDP_ISSUER", "")
}

func (Idp) GetIdpClientID() string {
	return GetEnv("IDP_CLIENT_ID", "")
}

func (Idp) GetIdpClientSecret() string {
	return GetEnv("IDP_CLIENT_SECRET", "")
}

func (Idp) GetIdpSignupURL() string {
	return GetEnv("IDP_SIGNUP_URL", "")
}

func (Idp) GetIdpRevokeURL() string {
	return GetEnv("IDP_REVOKE_URL", "")
}

// GetProfileEndpoint returns the backend profile endpoint that resolves an
// access token into user + memberships.
func (Idp) GetProfileEndpoint() string {
	return GetEnv("PROFILE_ENDPOINT", "")
}
