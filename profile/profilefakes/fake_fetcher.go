package profilefakes

import (
	"context"
	"sync"

	"github.com/shopweave/go-storefront-identity/profile"
)

var _ profile.Fetcher = (*FakeFetcher)(nil)

// FakeFetcher is an in-memory profile.Fetcher keyed by access token. An
// optional Gate channel lets tests hold a fetch in flight; an optional Err
// makes every fetch fail.
type FakeFetcher struct {
	mu       sync.Mutex
	payloads map[string]*profile.Payload
	calls    int

	Gate chan struct{}
	Err  error
}

func NewFakeFetcher() *FakeFetcher {
	return &FakeFetcher{
		payloads: make(map[string]*profile.Payload),
	}
}

// SetPayload registers the profile returned for an access token.
func (f *FakeFetcher) SetPayload(accessToken string, p *profile.Payload) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.payloads[accessToken] = p
}

// Calls returns how many fetches have been issued.
func (f *FakeFetcher) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *FakeFetcher) Fetch(ctx context.Context, accessToken string) (*profile.Payload, error) {
	f.mu.Lock()
	f.calls++
	gate := f.Gate
	err := f.Err
	payload, ok := f.payloads[accessToken]
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, profile.ErrNoSession
	}
	return payload, nil
}
