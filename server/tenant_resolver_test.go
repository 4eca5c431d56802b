package server

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestShopSlugFromPath(t *testing.T) {
	tests := map[string]string{
		"/demo-shop":              "demo-shop",
		"/demo-shop/admin/orders": "demo-shop",
		"/Demo-Shop":              "demo-shop",
		"/login":                  "",
		"/dashboard":              "",
		"/auth/callback":          "",
		"/":                       "",
		"/x!":                     "",
		"/ab":                     "",
	}
	for path, want := range tests {
		require.Equal(t, want, shopSlugFromPath(path), "path %q", path)
	}
}

func TestShopSlugFromRequestPrefersPathValue(t *testing.T) {
	r := httptest.NewRequest("GET", "/anything", nil)
	r.SetPathValue("shopSlug", "Demo-Shop")
	require.Equal(t, "demo-shop", shopSlugFromRequest(r))

	r = httptest.NewRequest("GET", "/anything", nil)
	r.SetPathValue("shopSlug", "not a slug")
	require.Empty(t, shopSlugFromRequest(r))
}

func TestShopSlugFromRequestFallsBackToPath(t *testing.T) {
	r := httptest.NewRequest("GET", "/demo-shop/profile", nil)
	require.Equal(t, "demo-shop", shopSlugFromRequest(r))
}
