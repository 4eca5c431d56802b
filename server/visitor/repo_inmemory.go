package visitor

import (
	"errors"
	"sync"
)

// InMemoryRepo is a thread-safe in-memory implementation of the Repo interface
type InMemoryRepo struct {
	mu       sync.RWMutex
	visitors map[string]*Session
}

// NewInMemoryRepo creates a new in-memory visitor session repository
func NewInMemoryRepo() *InMemoryRepo {
	return &InMemoryRepo{
		visitors: make(map[string]*Session),
	}
}

// Upsert stores or updates a visitor session
func (r *InMemoryRepo) Upsert(id string, v *Session) error {
	if id == "" {
		return errors.New("visitor ID cannot be empty")
	}
	if v == nil {
		return errors.New("session cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.visitors[id] = v
	return nil
}

// Get retrieves a visitor session by ID
func (r *InMemoryRepo) Get(id string) (*Session, error) {
	if id == "" {
		return nil, errors.New("visitor ID cannot be empty")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	v, exists := r.visitors[id]
	if !exists {
		return nil, errors.New("visitor not found")
	}
	return v, nil
}

// Delete removes a visitor session
func (r *InMemoryRepo) Delete(id string) error {
	if id == "" {
		return errors.New("visitor ID cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.visitors, id)
	return nil
}
