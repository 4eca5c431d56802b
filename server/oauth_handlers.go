package server

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"

	"github.com/shopweave/go-storefront-identity/server/authflow"
)

// OAuthStartHandler begins the redirect-based handshake with the identity
// provider. The CSRF state, PKCE verifier and nonce are kept server-side,
// keyed by state, until the provider sends the user back.
func (s *Server) OAuthStartHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v, err := s.ensureVisitor(w, r)
		if err != nil {
			http.Error(w, "Failed to start session", http.StatusInternalServerError)
			return
		}

		shopSlug := shopSlugFromPath("/" + r.URL.Query().Get("shop"))
		s.recordIntent(v, shopSlug, r.URL.Query().Get("return_to"))

		state := uuid.New().String()
		flowState := &authflow.State{
			VisitorID:    v.ID,
			ShopSlug:     shopSlug,
			CodeVerifier: oauth2.GenerateVerifier(),
			Nonce:        uuid.New().String(),
			CreatedAt:    s.nowTime(),
		}
		if err := s.flows.Upsert(state, flowState); err != nil {
			http.Error(w, "Failed to start authentication", http.StatusInternalServerError)
			return
		}

		http.Redirect(w, r, s.idp.AuthCodeURL(state, flowState.Nonce, flowState.CodeVerifier), http.StatusSeeOther)
	}
}

// OAuthCallbackHandler reconciles the identity provider's redirect back into
// an application session: validate state, exchange the code, adopt the token,
// force-refresh the session cache so the redirect policy observes post-login
// state, and resolve the pending intent.
func (s *Server) OAuthCallbackHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// FormValue supports both GET query params and form_post response mode
		state := r.FormValue("state")
		code := r.FormValue("code")
		errorParam := r.FormValue("error")

		if errorParam != "" {
			log.Warn().Str("error", errorParam).Str("description", r.FormValue("error_description")).Msg("authorization failed at provider")
			s.redirectWithError(w, r, GlobalLoginPath, "Authorization failed", "")
			return
		}
		if code == "" || state == "" {
			http.Error(w, "Missing code or state parameter", http.StatusBadRequest)
			return
		}

		flowState, err := s.flows.Get(state)
		if err != nil {
			http.Error(w, "Invalid state parameter", http.StatusBadRequest)
			return
		}
		// State is single-use regardless of the outcome below.
		if err := s.flows.Delete(state); err != nil {
			http.Error(w, "Invalid state parameter", http.StatusInternalServerError)
			return
		}
		if s.nowTime().Sub(flowState.CreatedAt) > authFlowTimeout {
			http.Error(w, "Authentication took too long, please retry", http.StatusBadRequest)
			return
		}

		v, err := s.visitors.Get(flowState.VisitorID)
		if err != nil {
			http.Error(w, "Unknown session", http.StatusBadRequest)
			return
		}

		// Failures land back on the login page that started the handshake.
		loginPath := GlobalLoginPath
		if flowState.ShopSlug != "" {
			loginPath = "/" + flowState.ShopSlug + "/login"
		}

		token, err := s.idp.Exchange(r.Context(), code, flowState.CodeVerifier, flowState.Nonce)
		if err != nil {
			log.Err(err).Msg("token exchange failed")
			s.redirectWithError(w, r, loginPath, "Sign-in could not be completed", "")
			return
		}

		v.Cache.Adopt(token)
		snap, err := v.Cache.Load(r.Context(), true)
		if err != nil {
			log.Err(err).Msg("post-login session refresh failed")
			s.redirectWithError(w, r, loginPath, "Sign-in could not be completed", "")
			return
		}

		s.completeLogin(w, r, v, snap, loginPath)
	}
}
