// Package visitor tracks one browser's session with the storefront: the
// cookie-identified scope that owns a session cache and any pending login
// intent.
package visitor

import (
	"time"

	"github.com/shopweave/go-storefront-identity/session"
)

// Session is one browser session. Its ID doubles as the scope key for the
// intent store; its Cache holds the single resolved identity for this browser.
type Session struct {
	ID        string
	Cache     *session.Cache
	CreatedAt time.Time
}

type Repo interface {
	Upsert(id string, v *Session) error
	Get(id string) (*Session, error)
	Delete(id string) error
}
