// Package policy computes the single post-login destination. It is pure:
// every decision is a function of the login origin, the visitor's memberships,
// and the sanitized return path.
package policy

import (
	"github.com/shopweave/go-storefront-identity/intent"
	"github.com/shopweave/go-storefront-identity/returnpath"
	"github.com/shopweave/go-storefront-identity/shops"
)

// Dashboard is the generic buyer landing page for visitors with no shop
// memberships.
const Dashboard = "/dashboard"

// Destination resolves where the visitor lands after login. First match wins:
//
//  1. A safe explicit return path is used verbatim.
//  2. A shop-origin login lands in that shop's admin area for members, or on
//     the shop's public storefront for everyone else. A non-member is never
//     escalated into the back office.
//  3. A global-origin login lands in the admin area of the last-used shop if
//     the visitor still belongs to it, else the first membership's admin area,
//     else the buyer dashboard.
//
// returnTo may arrive raw; it is re-sanitized here rather than trusted.
func Destination(origin intent.Origin, memberships []shops.Membership, lastShopSlug, shopSlug, returnTo string) string {
	if p := returnpath.Sanitize(returnTo); p != "" {
		return p
	}

	if origin == intent.OriginShop && shopSlug != "" {
		if shops.HasSlug(memberships, shopSlug) {
			return "/" + shopSlug + "/admin"
		}
		return "/" + shopSlug
	}

	if len(memberships) > 0 {
		if lastShopSlug != "" && shops.HasSlug(memberships, lastShopSlug) {
			return "/" + lastShopSlug + "/admin"
		}
		return "/" + memberships[0].Slug + "/admin"
	}
	return Dashboard
}

// ForIntent applies Destination to a pending intent and resolved session
// state. A nil intent falls back to the global-origin rules.
func ForIntent(li *intent.LoginIntent, memberships []shops.Membership, lastShopSlug string) string {
	if li == nil {
		return Destination(intent.OriginGlobal, memberships, lastShopSlug, "", "")
	}
	return Destination(li.Origin, memberships, lastShopSlug, li.ShopSlug, li.ReturnTo)
}
