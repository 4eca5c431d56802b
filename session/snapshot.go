// Package session owns the authenticated visitor's resolved state: a cached
// profile snapshot, the commands that change it, and the generation discipline
// that keeps concurrent refreshes from applying stale results.
package session

import (
	"time"

	"github.com/shopweave/go-storefront-identity/shops"
	"github.com/shopweave/go-storefront-identity/users"
)

// Snapshot is the resolved session state at one point in time. It is owned by
// the Cache and superseded, never mutated, on logout, login or refresh.
// Callers must treat it as read-only.
type Snapshot struct {
	User         *users.User
	Memberships  []shops.Membership
	LastShopSlug string
	FetchedAt    time.Time
}

// Authenticated reports whether the snapshot carries a logged-in user.
func (s *Snapshot) Authenticated() bool {
	return s != nil && s.User != nil
}

// MembershipFor returns the visitor's membership in the given shop, or nil.
func (s *Snapshot) MembershipFor(shopSlug string) *shops.Membership {
	if s == nil {
		return nil
	}
	return shops.FindBySlug(s.Memberships, shopSlug)
}
