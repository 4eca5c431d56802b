package server

import (
	"fmt"
	"net/http"

	"github.com/shopweave/go-storefront-identity/slug"
)

// HomeHandler is the platform landing page.
func (s *Server) HomeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", contentTypeHTML)
		fmt.Fprintf(w, "<h1>%s</h1><p><a href=%q>Sign in</a></p>", s.config.GetAppName(), GlobalLoginPath)
	}
}

// StorefrontHandler serves a shop's public page. The first path segment must
// be a valid, non-reserved shop slug; anything else is not a shop.
func (s *Server) StorefrontHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		segment := r.PathValue("shopSlug")
		if slug.IsReserved(segment) {
			http.NotFound(w, r)
			return
		}
		shopSlug, ok := slug.Normalize(segment)
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", contentTypeHTML)
		fmt.Fprintf(w, "<h1>%s</h1><p>Storefront</p>", shopSlug)
	}
}

// AdminHandler serves a shop's back office. Reached only through the guard.
func (s *Server) AdminHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap := SnapshotFromContext(r.Context())
		shopSlug := shopSlugFromRequest(r)
		m := snap.MembershipFor(shopSlug)
		w.Header().Set("Content-Type", contentTypeHTML)
		if m != nil {
			fmt.Fprintf(w, "<h1>%s admin</h1><p>Signed in as %s (%s)</p>", shopSlug, snap.User.Email, m.Role)
			return
		}
		fmt.Fprintf(w, "<h1>%s admin</h1><p>Signed in as %s</p>", shopSlug, snap.User.Email)
	}
}

// DashboardHandler is the generic buyer dashboard.
func (s *Server) DashboardHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap := SnapshotFromContext(r.Context())
		w.Header().Set("Content-Type", contentTypeHTML)
		fmt.Fprintf(w, "<h1>Dashboard</h1><p>Signed in as %s</p>", snap.User.Email)
	}
}

// PlatformHandler is the platform operators' console.
func (s *Server) PlatformHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap := SnapshotFromContext(r.Context())
		w.Header().Set("Content-Type", contentTypeHTML)
		fmt.Fprintf(w, "<h1>Platform</h1><p>Signed in as %s</p>", snap.User.Email)
	}
}
