package guard_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shopweave/go-storefront-identity/guard"
	"github.com/shopweave/go-storefront-identity/intent"
	"github.com/shopweave/go-storefront-identity/session"
	"github.com/shopweave/go-storefront-identity/shops"
	"github.com/shopweave/go-storefront-identity/users"
)

func snapshotWith(role shops.Role, memberships ...shops.Membership) *session.Snapshot {
	return &session.Snapshot{
		User:        &users.User{ID: "user-1", Email: "owner@demo.shop", Role: role},
		Memberships: memberships,
	}
}

func adminOf(shopSlug string) shops.Membership {
	return shops.Membership{ShopID: "id-" + shopSlug, Slug: shopSlug, Role: shops.RoleAdmin, Status: shops.StatusActive}
}

func TestUnauthenticatedVisitorSentToShopLogin(t *testing.T) {
	route := guard.Route{ShopSlug: "demo-shop", AllowedRoles: []shops.Role{shops.RoleAdmin}}

	d := guard.Evaluate(nil, route, "/demo-shop/admin/orders")
	require.False(t, d.Allow)
	require.Equal(t, "/demo-shop/login", d.Redirect)
	require.NotNil(t, d.Intent)
	require.Equal(t, intent.OriginShop, d.Intent.Origin)
	require.Equal(t, "demo-shop", d.Intent.ShopSlug)
	require.Equal(t, "/demo-shop/admin/orders", d.Intent.ReturnTo)
}

func TestUnauthenticatedVisitorSentToGlobalLogin(t *testing.T) {
	d := guard.Evaluate(nil, guard.Route{}, "/dashboard")
	require.False(t, d.Allow)
	require.Equal(t, "/login", d.Redirect)
	require.NotNil(t, d.Intent)
	require.Equal(t, intent.OriginGlobal, d.Intent.Origin)
	require.Empty(t, d.Intent.ShopSlug)
	require.Equal(t, "/dashboard", d.Intent.ReturnTo)
}

func TestUnsafeCurrentPathNotCarriedIntoIntent(t *testing.T) {
	d := guard.Evaluate(nil, guard.Route{ShopSlug: "demo-shop"}, "/demo-shop/login")
	require.NotNil(t, d.Intent)
	require.Empty(t, d.Intent.ReturnTo)
}

func TestAnyAuthenticatedVisitorPassesOpenBoundary(t *testing.T) {
	d := guard.Evaluate(snapshotWith(shops.RoleCustomer), guard.Route{}, "/dashboard")
	require.True(t, d.Allow)
	require.Nil(t, d.Intent)
}

func TestShopMemberWithAllowedRolePasses(t *testing.T) {
	route := guard.Route{ShopSlug: "demo-shop", AllowedRoles: []shops.Role{shops.RoleAdmin, shops.RoleManager}}

	d := guard.Evaluate(snapshotWith(shops.RoleCustomer, adminOf("demo-shop")), route, "/demo-shop/admin")
	require.True(t, d.Allow)
}

func TestShopMemberWithWrongRoleBouncedToStorefront(t *testing.T) {
	staff := shops.Membership{ShopID: "id-demo-shop", Slug: "demo-shop", Role: shops.RoleStaff, Status: shops.StatusActive}
	route := guard.Route{ShopSlug: "demo-shop", AllowedRoles: []shops.Role{shops.RoleAdmin}}

	d := guard.Evaluate(snapshotWith(shops.RoleCustomer, staff), route, "/demo-shop/admin")
	require.False(t, d.Allow)
	require.Equal(t, "/demo-shop", d.Redirect)
	require.Nil(t, d.Intent, "authenticated denials carry no intent")
}

func TestNonMemberBouncedToStorefront(t *testing.T) {
	route := guard.Route{ShopSlug: "shop-a", AllowedRoles: []shops.Role{shops.RoleAdmin}}

	d := guard.Evaluate(snapshotWith(shops.RoleCustomer, adminOf("shop-b")), route, "/shop-a/admin")
	require.False(t, d.Allow)
	require.Equal(t, "/shop-a", d.Redirect)
}

func TestCustomerAllowancePassesWithoutMembership(t *testing.T) {
	// Customer-facing shop routes check the global role only; customers hold
	// no membership rows.
	route := guard.Route{ShopSlug: "demo-shop", AllowedRoles: []shops.Role{shops.RoleCustomer}}

	d := guard.Evaluate(snapshotWith(shops.RoleCustomer), route, "/demo-shop/account")
	require.True(t, d.Allow)
}

func TestCustomerAllowanceDoesNotAdmitStaffWithoutMembership(t *testing.T) {
	route := guard.Route{ShopSlug: "demo-shop", AllowedRoles: []shops.Role{shops.RoleCustomer}}

	d := guard.Evaluate(snapshotWith(shops.RolePlatform), route, "/demo-shop/account")
	require.False(t, d.Allow)
	require.Equal(t, "/demo-shop", d.Redirect)
}

func TestPlatformBoundaryChecksGlobalRole(t *testing.T) {
	route := guard.Route{AllowedRoles: []shops.Role{shops.RolePlatform}}

	d := guard.Evaluate(snapshotWith(shops.RolePlatform), route, "/platform")
	require.True(t, d.Allow)

	d = guard.Evaluate(snapshotWith(shops.RoleCustomer, adminOf("demo-shop")), route, "/platform")
	require.False(t, d.Allow)
	require.Equal(t, "/", d.Redirect)
}
