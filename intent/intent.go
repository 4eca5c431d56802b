// Package intent records why a login was initiated, so the flow can be
// replayed correctly after the user returns from authentication.
package intent

import (
	"github.com/shopweave/go-storefront-identity/returnpath"
	"github.com/shopweave/go-storefront-identity/slug"
)

// Origin identifies where a login flow started.
type Origin string

const (
	// OriginGlobal marks a login started from a platform page.
	OriginGlobal Origin = "global"
	// OriginShop marks a login started from a shop-scoped page.
	OriginShop Origin = "shop"
)

// LoginIntent is the pending reason for a login: where it started, which shop
// it targeted, and where the user asked to return afterwards. ShopSlug is only
// ever set for shop-origin intents and only when it passes slug validation;
// ReturnTo is only ever set when it passes return-path sanitization.
type LoginIntent struct {
	Origin   Origin `json:"origin"`
	ShopSlug string `json:"shop_slug,omitempty"`
	ReturnTo string `json:"return_to,omitempty"`
}

// New builds a LoginIntent from untrusted caller input, enforcing the
// invariants above regardless of what was passed in. An unknown origin is
// treated as global; an invalid shop slug or return path is dropped rather
// than rejected.
func New(origin Origin, shopSlug, returnTo string) LoginIntent {
	li := LoginIntent{
		Origin:   OriginGlobal,
		ReturnTo: returnpath.Sanitize(returnTo),
	}
	if origin == OriginShop {
		li.Origin = OriginShop
		if s, ok := slug.Normalize(shopSlug); ok {
			li.ShopSlug = s
		}
	}
	return li
}
