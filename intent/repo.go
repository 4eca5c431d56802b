package intent

import "errors"

// ErrNotFound is returned by a Repo when a scope holds no value for a key.
var ErrNotFound = errors.New("intent not found")

// Repo is a session-scoped key-value store. A scope lives as long as the
// visitor's browsing session; values inside it are namespaced by key. The
// contract matters, not the backing mechanism: any store whose lifetime is
// "per browser session" can implement it.
type Repo interface {
	Put(scope, key, value string) error
	Get(scope, key string) (string, error)
	Delete(scope, key string) error
}
