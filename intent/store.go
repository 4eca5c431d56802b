package intent

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// storageKey namespaces the serialized intent inside a visitor's scope.
// Absent key means no pending intent.
const storageKey = "storefront.login_intent"

// Store persists at most one pending LoginIntent per visitor scope across a
// redirect to the identity provider and back.
type Store struct {
	repo Repo
}

// NewStore creates a Store backed by the given session-scoped repo.
func NewStore(repo Repo) (*Store, error) {
	if repo == nil {
		return nil, errors.New("[NewStore] repo is required")
	}
	return &Store{repo: repo}, nil
}

// Save serializes the intent into the visitor's scope, overwriting any prior
// intent. Last write wins.
func (s *Store) Save(scope string, li LoginIntent) error {
	data, err := json.Marshal(li)
	if err != nil {
		return errors.Wrap(err, "[Store.Save] marshal intent")
	}
	if err := s.repo.Put(scope, storageKey, string(data)); err != nil {
		return errors.Wrap(err, "[Store.Save] repo.Put")
	}
	return nil
}

// Read returns the pending intent for the scope, or nil when there is none.
// The stored value is re-validated through New in case it was corrupted or
// tampered with; any parse failure yields nil rather than an error. Read does
// not consume the intent: repeated reads return equal values until Save or
// Clear intervenes.
func (s *Store) Read(scope string) *LoginIntent {
	raw, err := s.repo.Get(scope, storageKey)
	if err != nil {
		return nil
	}
	var stored LoginIntent
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		return nil
	}
	li := New(stored.Origin, stored.ShopSlug, stored.ReturnTo)
	return &li
}

// Clear removes the pending intent. It must be called exactly once per
// completed login flow so a stale intent cannot replay into a later login.
func (s *Store) Clear(scope string) error {
	if err := s.repo.Delete(scope, storageKey); err != nil {
		return errors.Wrap(err, "[Store.Clear] repo.Delete")
	}
	return nil
}
