package server

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/shopweave/go-storefront-identity/session"
	"github.com/shopweave/go-storefront-identity/server/visitor"
)

// ensureVisitor resolves the browser's visitor session from its cookie,
// creating one (and its session cache) on first contact. The visitor ID is the
// scope key for the intent store.
func (s *Server) ensureVisitor(w http.ResponseWriter, r *http.Request) (*visitor.Session, error) {
	if cookie, err := r.Cookie(visitorCookieName); err == nil && cookie.Value != "" {
		if v, err := s.visitors.Get(cookie.Value); err == nil {
			return v, nil
		}
		// Cookie refers to a session this process no longer knows; fall
		// through and mint a fresh one.
	}

	cache, err := session.NewCache(s.fetcher, s.idp)
	if err != nil {
		return nil, errors.Wrap(err, "[ensureVisitor] new cache")
	}

	v := &visitor.Session{
		ID:        uuid.New().String(),
		Cache:     cache,
		CreatedAt: s.nowTime(),
	}
	if err := s.visitors.Upsert(v.ID, v); err != nil {
		return nil, errors.Wrap(err, "[ensureVisitor] visitors.Upsert")
	}

	http.SetCookie(w, &http.Cookie{
		Name:     visitorCookieName,
		Value:    v.ID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return v, nil
}

// dropVisitor forgets the visitor session and expires its cookie.
func (s *Server) dropVisitor(w http.ResponseWriter, v *visitor.Session) {
	_ = s.visitors.Delete(v.ID)
	http.SetCookie(w, &http.Cookie{
		Name:     visitorCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
