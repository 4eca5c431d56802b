package server

import "time"

// Route paths. Shop-scoped variants prefix these with /{shopSlug}.
const (
	HomePath          = "/"
	GlobalLoginPath   = "/login"
	SignupPath        = "/signup"
	LogoutPath        = "/logout"
	DashboardPath     = "/dashboard"
	PlatformPath      = "/platform"
	OAuthStartPath    = "/auth/oidc"
	OAuthCallbackPath = "/auth/callback"
)

const (
	visitorCookieName = "sw_visitor"
	contentTypeHTML   = "text/html; charset=utf-8"

	// authFlowTimeout bounds how long an identity-provider redirect may take
	// before its state is rejected.
	authFlowTimeout = 15 * time.Minute
)
