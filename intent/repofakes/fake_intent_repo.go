package repofakes

import (
	"sync"

	"github.com/shopweave/go-storefront-identity/intent"
)

var _ intent.Repo = (*FakeIntentRepo)(nil)

// FakeIntentRepo is a thread-safe in-memory implementation of intent.Repo.
// Scopes map to visitor sessions; dropping a scope models a closed tab.
type FakeIntentRepo struct {
	mu     sync.RWMutex
	scopes map[string]map[string]string
}

func NewFakeIntentRepo() *FakeIntentRepo {
	return &FakeIntentRepo{
		scopes: make(map[string]map[string]string),
	}
}

func (r *FakeIntentRepo) Put(scope, key, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.scopes[scope]; !ok {
		r.scopes[scope] = make(map[string]string)
	}
	r.scopes[scope][key] = value
	return nil
}

func (r *FakeIntentRepo) Get(scope, key string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	values, ok := r.scopes[scope]
	if !ok {
		return "", intent.ErrNotFound
	}
	value, ok := values[key]
	if !ok {
		return "", intent.ErrNotFound
	}
	return value, nil
}

func (r *FakeIntentRepo) Delete(scope, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	values, ok := r.scopes[scope]
	if !ok {
		return nil
	}
	delete(values, key)
	if len(values) == 0 {
		delete(r.scopes, scope)
	}
	return nil
}

// DropScope discards every value in a scope, modelling the end of a browser
// session.
func (r *FakeIntentRepo) DropScope(scope string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.scopes, scope)
}
