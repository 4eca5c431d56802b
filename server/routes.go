package server

import "github.com/shopweave/go-storefront-identity/shops"

func (s *Server) initRoutes() {
	html := s.HTMLMiddleware()

	// Public platform routes
	s.RegisterRouteFunc("GET /{$}", ChainMiddleware(s.HomeHandler(), html...))
	s.RegisterRouteFunc("GET "+GlobalLoginPath, ChainMiddleware(s.LoginPageHandler(), html...))
	s.RegisterRouteFunc("POST "+GlobalLoginPath, ChainMiddleware(s.LoginSubmissionHandler(), html...))
	s.RegisterRouteFunc("GET "+SignupPath, ChainMiddleware(s.SignupPageHandler(), html...))
	s.RegisterRouteFunc("POST "+SignupPath, ChainMiddleware(s.SignupSubmissionHandler(), html...))
	s.RegisterRouteFunc("POST "+LogoutPath, ChainMiddleware(s.LogoutHandler(), html...))

	// Identity-provider handshake
	s.RegisterRouteFunc("GET "+OAuthStartPath, ChainMiddleware(s.OAuthStartHandler(), html...))
	s.RegisterRouteFunc(OAuthCallbackPath, ChainMiddleware(s.OAuthCallbackHandler(), html...))

	// Authenticated platform routes
	s.RegisterRouteFunc("GET "+DashboardPath, ChainMiddleware(s.DashboardHandler(), s.HTMLMiddleware(s.Guard())...))
	s.RegisterRouteFunc("GET "+PlatformPath, ChainMiddleware(s.PlatformHandler(), s.HTMLMiddleware(s.Guard(shops.RolePlatform))...))

	// Shop-scoped routes. The {shopSlug} wildcard competes with the literal
	// routes above; the mux prefers literals, which is exactly the reserved
	// word behavior the slug package encodes.
	s.RegisterRouteFunc("GET /{shopSlug}", ChainMiddleware(s.StorefrontHandler(), html...))
	s.RegisterRouteFunc("GET /{shopSlug}/login", ChainMiddleware(s.LoginPageHandler(), html...))
	s.RegisterRouteFunc("POST /{shopSlug}/login", ChainMiddleware(s.LoginSubmissionHandler(), html...))
	s.RegisterRouteFunc("GET /{shopSlug}/admin", ChainMiddleware(s.AdminHandler(),
		s.HTMLMiddleware(s.Guard(shops.RoleAdmin, shops.RoleManager, shops.RoleStaff))...))
}
