// Package authflow persists the transient state of one redirect to the
// identity provider: the CSRF state maps back to the PKCE verifier, nonce and
// visitor that started the handshake.
package authflow

import "time"

type State struct {
	VisitorID    string
	ShopSlug     string
	CodeVerifier string
	Nonce        string
	CreatedAt    time.Time
}

type Repo interface {
	Upsert(state string, flowState *State) error
	Get(state string) (*State, error)
	Delete(state string) error
}
