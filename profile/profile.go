// Package profile defines the contract with the profile endpoint: a single
// call that returns the authenticated user together with their shop
// memberships and last-used shop.
package profile

import (
	"context"
	"errors"

	"github.com/shopweave/go-storefront-identity/shops"
	"github.com/shopweave/go-storefront-identity/users"
)

// ErrNoSession reports that the identity provider holds no session for the
// presented credentials. It is deliberately distinct from transient fetch
// failures: "not logged in" is a normal state, not an error to retry.
var ErrNoSession = errors.New("no active session")

// Payload is the profile endpoint response. A session may exist with zero
// memberships; that is not the same as ErrNoSession.
type Payload struct {
	User         *users.User        `json:"user"`
	Memberships  []shops.Membership `json:"memberships"`
	LastShopSlug string             `json:"last_shop_slug,omitempty"`
}

// Fetcher retrieves the profile for the identity behind an access token.
type Fetcher interface {
	Fetch(ctx context.Context, accessToken string) (*Payload, error)
}
