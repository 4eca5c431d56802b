package server_test

import (
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shopweave/go-storefront-identity/idp/idpfakes"
	"github.com/shopweave/go-storefront-identity/intent"
	"github.com/shopweave/go-storefront-identity/intent/repofakes"
	"github.com/shopweave/go-storefront-identity/internal/config"
	"github.com/shopweave/go-storefront-identity/profile"
	"github.com/shopweave/go-storefront-identity/profile/profilefakes"
	"github.com/shopweave/go-storefront-identity/server"
	"github.com/shopweave/go-storefront-identity/server/authflow"
	"github.com/shopweave/go-storefront-identity/server/visitor"
	"github.com/shopweave/go-storefront-identity/shops"
	"github.com/shopweave/go-storefront-identity/users"
)

const (
	ownerEmail    = "owner@demo.shop"
	ownerPassword = "Password1"
)

type serverFixture struct {
	ts       *httptest.Server
	client   *http.Client
	provider *idpfakes.FakeProvider
	fetcher  *profilefakes.FakeFetcher
}

// setupServerFixture wires the HTTP surface against fake collaborators and a
// browser-like client: cookies persist, redirects are not followed so each
// hop can be asserted.
func setupServerFixture(t *testing.T) *serverFixture {
	t.Helper()

	provider := idpfakes.NewFakeProvider()
	fetcher := profilefakes.NewFakeFetcher()

	ownerPayload := &profile.Payload{
		User: &users.User{ID: "user-1", Email: ownerEmail, Role: shops.RoleCustomer},
		Memberships: []shops.Membership{
			{ShopID: "shop-1", Slug: "demo-shop", Role: shops.RoleAdmin, Status: shops.StatusActive},
		},
		LastShopSlug: "demo-shop",
	}
	provider.IssueHook = func(email, accessToken string) {
		if email == ownerEmail {
			fetcher.SetPayload(accessToken, ownerPayload)
		}
	}
	require.NoError(t, provider.Seed(ownerEmail, ownerPassword))

	intents, err := intent.NewStore(repofakes.NewFakeIntentRepo())
	require.NoError(t, err)

	srv, err := server.New(config.New(), server.Deps{
		Idp:      provider,
		Fetcher:  fetcher,
		Visitors: visitor.NewInMemoryRepo(),
		Intents:  intents,
		Flows:    authflow.NewInMemoryRepo(),
	})
	require.NoError(t, err)

	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	return &serverFixture{
		ts:       ts,
		provider: provider,
		fetcher:  fetcher,
		client: &http.Client{
			Jar: jar,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

func (f *serverFixture) get(t *testing.T, path string) *http.Response {
	t.Helper()
	resp, err := f.client.Get(f.ts.URL + path)
	require.NoError(t, err)
	resp.Body.Close()
	return resp
}

func (f *serverFixture) postForm(t *testing.T, path string, form url.Values) *http.Response {
	t.Helper()
	resp, err := f.client.PostForm(f.ts.URL+path, form)
	require.NoError(t, err)
	resp.Body.Close()
	return resp
}

func location(t *testing.T, resp *http.Response) string {
	t.Helper()
	loc := resp.Header.Get("Location")
	require.NotEmpty(t, loc)
	return loc
}

func TestGuardedRouteRedirectsAnonymousVisitor(t *testing.T) {
	f := setupServerFixture(t)

	resp := f.get(t, "/dashboard")
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, "/login?return_to=%2Fdashboard", location(t, resp))

	resp = f.get(t, "/demo-shop/admin")
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, "/demo-shop/login?return_to=%2Fdemo-shop%2Fadmin", location(t, resp))
}

func TestFormLoginReplaysGuardedDestination(t *testing.T) {
	f := setupServerFixture(t)

	// The bounce off the admin page records the intent for this visitor.
	resp := f.get(t, "/demo-shop/admin")
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	resp = f.postForm(t, "/demo-shop/login", url.Values{
		"email":    {ownerEmail},
		"password": {ownerPassword},
	})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, "/demo-shop/admin", location(t, resp))

	// And this time the guard lets the member through.
	resp = f.get(t, "/demo-shop/admin")
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestLoginWithoutIntentFollowsGlobalPolicy(t *testing.T) {
	f := setupServerFixture(t)

	resp := f.postForm(t, "/login", url.Values{
		"email":    {ownerEmail},
		"password": {ownerPassword},
	})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, "/demo-shop/admin", location(t, resp), "last used shop wins")
}

func TestLoginFailureStaysOnLoginPage(t *testing.T) {
	f := setupServerFixture(t)

	resp := f.postForm(t, "/demo-shop/login", url.Values{
		"email":    {ownerEmail},
		"password": {"wrong"},
	})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	loc, err := url.Parse(location(t, resp))
	require.NoError(t, err)
	require.Equal(t, "/demo-shop/login", loc.Path)
	require.NotEmpty(t, loc.Query().Get("error"))
	require.Equal(t, ownerEmail, loc.Query().Get("email"))
}

func TestRoleDenialBouncesToStorefront(t *testing.T) {
	f := setupServerFixture(t)

	resp := f.postForm(t, "/login", url.Values{
		"email":    {ownerEmail},
		"password": {ownerPassword},
	})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	// A shop admin is not a platform admin.
	resp = f.get(t, "/platform")
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, "/", location(t, resp))

	// Membership in shop-a does not exist; the admin boundary bounces to the
	// storefront, not to login.
	resp = f.get(t, "/shop-a/admin")
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, "/shop-a", location(t, resp))
}

func TestLogoutEndsTheSession(t *testing.T) {
	f := setupServerFixture(t)

	resp := f.postForm(t, "/login", url.Values{
		"email":    {ownerEmail},
		"password": {ownerPassword},
	})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	resp = f.postForm(t, "/logout", url.Values{})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, "/", location(t, resp))

	resp = f.get(t, "/dashboard")
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.True(t, strings.HasPrefix(location(t, resp), "/login"))
}

func TestStorefrontRejectsMalformedSlug(t *testing.T) {
	f := setupServerFixture(t)

	resp := f.get(t, "/x!")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestReservedWordsResolveToPlatformPages(t *testing.T) {
	f := setupServerFixture(t)

	// "login" is a literal route, never a storefront.
	resp := f.get(t, "/login")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = f.get(t, "/demo-shop")
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestOAuthHandshakeCompletesLogin(t *testing.T) {
	f := setupServerFixture(t)

	resp := f.get(t, "/auth/oidc?shop=demo-shop&return_to=%2Fdemo-shop%2Fadmin")
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	authorizeURL, err := url.Parse(location(t, resp))
	require.NoError(t, err)
	state := authorizeURL.Query().Get("state")
	require.NotEmpty(t, state)

	// Stand in for the provider's hosted login page.
	code := f.provider.IssueCode(ownerEmail)

	resp = f.get(t, "/auth/callback?state="+url.QueryEscape(state)+"&code="+url.QueryEscape(code))
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, "/demo-shop/admin", location(t, resp))

	resp = f.get(t, "/demo-shop/admin")
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestOAuthCallbackWithoutProfileReturnsToOriginatingLogin(t *testing.T) {
	f := setupServerFixture(t)

	resp := f.get(t, "/auth/oidc?shop=demo-shop")
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	authorizeURL, err := url.Parse(location(t, resp))
	require.NoError(t, err)
	state := authorizeURL.Query().Get("state")

	// The exchange succeeds but the profile endpoint knows nothing about this
	// identity, so no session materializes.
	code := f.provider.IssueCode("ghost@demo.shop")
	resp = f.get(t, "/auth/callback?state="+url.QueryEscape(state)+"&code="+url.QueryEscape(code))
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	loc, err := url.Parse(location(t, resp))
	require.NoError(t, err)
	require.Equal(t, "/demo-shop/login", loc.Path, "must land on the login page that started the flow, not the callback")
	require.Equal(t, "Sign-in did not complete", loc.Query().Get("error"))
}

func TestOAuthStateIsSingleUse(t *testing.T) {
	f := setupServerFixture(t)

	resp := f.get(t, "/auth/oidc")
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	authorizeURL, err := url.Parse(location(t, resp))
	require.NoError(t, err)
	state := authorizeURL.Query().Get("state")

	code := f.provider.IssueCode(ownerEmail)
	resp = f.get(t, "/auth/callback?state="+url.QueryEscape(state)+"&code="+url.QueryEscape(code))
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	replay := f.provider.IssueCode(ownerEmail)
	resp = f.get(t, "/auth/callback?state="+url.QueryEscape(state)+"&code="+url.QueryEscape(replay))
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestOAuthCallbackRejectsUnknownState(t *testing.T) {
	f := setupServerFixture(t)

	resp := f.get(t, "/auth/callback?state=bogus&code=bogus")
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSignupCreatesAndSignsIn(t *testing.T) {
	f := setupServerFixture(t)

	f.provider.IssueHook = func(email, accessToken string) {
		if email == "new@demo.shop" {
			f.fetcher.SetPayload(accessToken, &profile.Payload{
				User: &users.User{ID: "user-2", Email: email, Role: shops.RoleCustomer},
			})
		}
	}

	resp := f.postForm(t, "/signup", url.Values{
		"email":      {"new@demo.shop"},
		"password":   {"Password1"},
		"first_name": {"New"},
		"last_name":  {"User"},
	})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, "/dashboard", location(t, resp), "no memberships lands on the dashboard")

	resp = f.get(t, "/dashboard")
	require.Equal(t, http.StatusOK, resp.StatusCode)
}
