package server

import (
	"html/template"
	"net/http"
	"net/url"

	"github.com/rs/zerolog/log"

	"github.com/shopweave/go-storefront-identity/intent"
	"github.com/shopweave/go-storefront-identity/policy"
	"github.com/shopweave/go-storefront-identity/server/visitor"
	"github.com/shopweave/go-storefront-identity/session"
)

// LoginPageData contains data for rendering the login and signup pages
type LoginPageData struct {
	ShopSlug string
	Action   string
	Error    string
	Email    string // Preserve email on error
}

var loginTmpl = template.Must(template.New("login").Parse(`<!DOCTYPE html>
<html><head><title>Sign in</title></head><body>
{{if .ShopSlug}}<h1>Sign in to {{.ShopSlug}}</h1>{{else}}<h1>Sign in</h1>{{end}}
{{if .Error}}<p class="error">{{.Error}}</p>{{end}}
<form method="post" action="{{.Action}}">
<input type="email" name="email" value="{{.Email}}" placeholder="Email" required>
<input type="password" name="password" placeholder="Password" required>
<button type="submit">Sign in</button>
</form>
<a href="/auth/oidc{{if .ShopSlug}}?shop={{.ShopSlug}}{{end}}">Continue with single sign-on</a>
</body></html>`))

var signupTmpl = template.Must(template.New("signup").Parse(`<!DOCTYPE html>
<html><head><title>Create account</title></head><body>
<h1>Create account</h1>
{{if .Error}}<p class="error">{{.Error}}</p>{{end}}
<form method="post" action="{{.Action}}">
<input type="text" name="first_name" placeholder="First name">
<input type="text" name="last_name" placeholder="Last name">
<input type="email" name="email" value="{{.Email}}" placeholder="Email" required>
<input type="password" name="password" placeholder="Password" required>
<button type="submit">Sign up</button>
</form>
</body></html>`))

// LoginPageHandler displays the login form for both the global and the
// shop-scoped login routes. Loading the page records a login intent built
// from the route and its return_to query parameter, overwriting any prior
// pending intent (last write wins).
func (s *Server) LoginPageHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v, err := s.ensureVisitor(w, r)
		if err != nil {
			http.Error(w, "Failed to start session", http.StatusInternalServerError)
			return
		}

		shopSlug := shopSlugFromRequest(r)
		s.recordIntent(v, shopSlug, r.URL.Query().Get("return_to"))

		data := LoginPageData{
			ShopSlug: shopSlug,
			Action:   r.URL.Path,
			Error:    r.URL.Query().Get("error"),
			Email:    r.URL.Query().Get("email"),
		}
		w.Header().Set("Content-Type", contentTypeHTML)
		if err := loginTmpl.Execute(w, data); err != nil {
			log.Err(err).Msg("Failed to render login template")
		}
	}
}

// LoginSubmissionHandler processes the login form. An authentication failure
// keeps the user on the login page with a message; success resolves the
// pending intent into a redirect.
func (s *Server) LoginSubmissionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v, err := s.ensureVisitor(w, r)
		if err != nil {
			http.Error(w, "Failed to start session", http.StatusInternalServerError)
			return
		}

		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}
		email := r.FormValue("email")
		password := r.FormValue("password")
		if email == "" || password == "" {
			s.redirectWithError(w, r, r.URL.Path, "Email and password are required", email)
			return
		}

		snap, err := v.Cache.Login(r.Context(), email, password)
		if err != nil {
			log.Err(err).Msg("login failed")
			s.redirectWithError(w, r, r.URL.Path, "Invalid email or password", email)
			return
		}

		s.completeLogin(w, r, v, snap, r.URL.Path)
	}
}

// SignupPageHandler displays the registration form.
func (s *Server) SignupPageHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data := LoginPageData{
			Action: SignupPath,
			Error:  r.URL.Query().Get("error"),
			Email:  r.URL.Query().Get("email"),
		}
		w.Header().Set("Content-Type", contentTypeHTML)
		if err := signupTmpl.Execute(w, data); err != nil {
			log.Err(err).Msg("Failed to render signup template")
		}
	}
}

// SignupSubmissionHandler registers the identity with the provider and
// resolves the redirect the same way a login does.
func (s *Server) SignupSubmissionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v, err := s.ensureVisitor(w, r)
		if err != nil {
			http.Error(w, "Failed to start session", http.StatusInternalServerError)
			return
		}

		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}
		email := r.FormValue("email")
		password := r.FormValue("password")
		if email == "" || password == "" {
			s.redirectWithError(w, r, SignupPath, "Email and password are required", email)
			return
		}

		snap, err := v.Cache.Register(r.Context(), email, password, r.FormValue("first_name"), r.FormValue("last_name"))
		if err != nil {
			log.Err(err).Msg("signup failed")
			s.redirectWithError(w, r, SignupPath, "Could not create the account", email)
			return
		}

		s.completeLogin(w, r, v, snap, SignupPath)
	}
}

// LogoutHandler ends the visitor's session locally and at the provider.
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v, err := s.ensureVisitor(w, r)
		if err != nil {
			http.Redirect(w, r, HomePath, http.StatusSeeOther)
			return
		}
		if err := v.Cache.Logout(r.Context()); err != nil {
			// Local state is already cleared; revocation failure is not
			// user-visible.
			log.Err(err).Msg("logout revocation failed")
		}
		s.dropVisitor(w, v)
		http.Redirect(w, r, HomePath, http.StatusSeeOther)
	}
}

// recordIntent saves a fresh login intent for the visitor, derived from the
// page that initiated the login.
func (s *Server) recordIntent(v *visitor.Session, shopSlug, returnTo string) {
	origin := intent.OriginGlobal
	if shopSlug != "" {
		origin = intent.OriginShop
	}
	if err := s.intents.Save(v.ID, intent.New(origin, shopSlug, returnTo)); err != nil {
		log.Err(err).Msg("intent save failed")
	}
}

// completeLogin resolves the post-login destination from the pending intent
// and the fresh snapshot, then clears the intent. This is the only place an
// intent is consumed. loginPath is the login page that owns this flow, where
// the user is sent when the session did not materialize.
func (s *Server) completeLogin(w http.ResponseWriter, r *http.Request, v *visitor.Session, snap *session.Snapshot, loginPath string) {
	if !snap.Authenticated() {
		s.redirectWithError(w, r, loginPath, "Sign-in did not complete", "")
		return
	}

	li := s.intents.Read(v.ID)
	destination := policy.ForIntent(li, snap.Memberships, snap.LastShopSlug)
	if err := s.intents.Clear(v.ID); err != nil {
		log.Err(err).Msg("intent clear failed")
	}
	http.Redirect(w, r, destination, http.StatusSeeOther)
}

func (s *Server) redirectWithError(w http.ResponseWriter, r *http.Request, path, message, email string) {
	q := url.Values{"error": {message}}
	if email != "" {
		q.Set("email", email)
	}
	http.Redirect(w, r, path+"?"+q.Encode(), http.StatusSeeOther)
}
