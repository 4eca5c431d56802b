package server

import (
	"context"
	"net/http"
	"net/url"

	"github.com/rs/zerolog/log"

	"github.com/shopweave/go-storefront-identity/guard"
	"github.com/shopweave/go-storefront-identity/session"
	"github.com/shopweave/go-storefront-identity/shops"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

// ContextKeySnapshot stores the resolved session snapshot for handlers behind
// the guard.
const ContextKeySnapshot ContextKey = "session_snapshot"

// SnapshotFromContext returns the snapshot the guard resolved, or nil.
func SnapshotFromContext(ctx context.Context) *session.Snapshot {
	snap, _ := ctx.Value(ContextKeySnapshot).(*session.Snapshot)
	return snap
}

// Guard protects a route boundary. An empty role set admits any authenticated
// visitor; otherwise the roles are checked against the shop membership for
// shop-scoped routes, or the global role for platform routes. Denials are
// redirects, never errors: unauthenticated visitors go to the login path with
// their intent recorded for replay, denied visitors go to a safe default.
func (s *Server) Guard(allowedRoles ...shops.Role) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			v, err := s.ensureVisitor(w, r)
			if err != nil {
				log.Err(err).Msg("guard: visitor resolution failed")
				http.Redirect(w, r, HomePath, http.StatusSeeOther)
				return
			}

			snap, err := v.Cache.Load(r.Context(), false)
			if err != nil {
				// Transient profile failure: the cache has invalidated
				// itself, so the next navigation retries cleanly. Treat this
				// visitor as unauthenticated rather than failing the page.
				log.Err(err).Msg("guard: session load failed")
				snap = nil
			}

			route := guard.Route{
				ShopSlug:     shopSlugFromRequest(r),
				AllowedRoles: allowedRoles,
			}
			decision := guard.Evaluate(snap, route, r.URL.RequestURI())
			if decision.Allow {
				ctx := context.WithValue(r.Context(), ContextKeySnapshot, snap)
				next(w, r.WithContext(ctx))
				return
			}

			redirect := decision.Redirect
			if decision.Intent != nil {
				if err := s.intents.Save(v.ID, *decision.Intent); err != nil {
					log.Err(err).Msg("guard: intent save failed")
				}
				// Carry the return target in the query as well, so the login
				// page re-records an equivalent intent when it loads.
				if decision.Intent.ReturnTo != "" {
					redirect += "?return_to=" + url.QueryEscape(decision.Intent.ReturnTo)
				}
			}
			http.Redirect(w, r, redirect, http.StatusSeeOther)
		}
	}
}
