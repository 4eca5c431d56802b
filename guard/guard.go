// Package guard decides, per navigation into a protected boundary, whether
// the visitor passes and where they are sent if not. It is UI-agnostic: the
// HTTP layer persists the intent and issues the redirect.
package guard

import (
	"github.com/shopweave/go-storefront-identity/intent"
	"github.com/shopweave/go-storefront-identity/session"
	"github.com/shopweave/go-storefront-identity/shops"
)

// Route describes one protected boundary.
type Route struct {
	// ShopSlug is set for shop-scoped routes and empty for platform routes.
	ShopSlug string
	// AllowedRoles restricts the route to these roles. Empty means any
	// authenticated visitor. For shop-scoped routes the membership role for
	// ShopSlug is checked, except that an explicit customer allowance passes
	// on the visitor's global role alone: customers are global identities
	// with no per-shop membership rows.
	AllowedRoles []shops.Role
}

// Decision is the outcome for one navigation.
type Decision struct {
	Allow    bool
	Redirect string              // Target when not allowed
	Intent   *intent.LoginIntent // Persist before redirecting to login
}

// LoginPath returns the login route the guard sends unauthenticated visitors
// to: shop-scoped when the boundary is, global otherwise.
func (r Route) LoginPath() string {
	if r.ShopSlug != "" {
		return "/" + r.ShopSlug + "/login"
	}
	return "/login"
}

// fallbackPath is the safe default for denied but authenticated visitors.
func (r Route) fallbackPath() string {
	if r.ShopSlug != "" {
		return "/" + r.ShopSlug
	}
	return "/"
}

// Evaluate decides whether the visitor may pass the boundary. snap is the
// resolved session snapshot (nil when unauthenticated); currentPath is carried
// into the login intent as the candidate return target. Denials are ordinary
// redirect outcomes, never errors.
func Evaluate(snap *session.Snapshot, route Route, currentPath string) Decision {
	if !snap.Authenticated() {
		li := intent.New(originFor(route), route.ShopSlug, currentPath)
		return Decision{Redirect: route.LoginPath(), Intent: &li}
	}

	if len(route.AllowedRoles) == 0 {
		return Decision{Allow: true}
	}

	if route.ShopSlug != "" {
		if shops.RoleCustomer.In(route.AllowedRoles) && snap.User.IsCustomer() {
			return Decision{Allow: true}
		}
		if m := snap.MembershipFor(route.ShopSlug); m != nil && m.Role.In(route.AllowedRoles) {
			return Decision{Allow: true}
		}
		return Decision{Redirect: route.fallbackPath()}
	}

	if snap.User.Role.In(route.AllowedRoles) {
		return Decision{Allow: true}
	}
	return Decision{Redirect: route.fallbackPath()}
}

func originFor(route Route) intent.Origin {
	if route.ShopSlug != "" {
		return intent.OriginShop
	}
	return intent.OriginGlobal
}
