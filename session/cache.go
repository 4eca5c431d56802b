package session

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/singleflight"

	"github.com/shopweave/go-storefront-identity/idp"
	"github.com/shopweave/go-storefront-identity/profile"
)

// DefaultFreshness is how long a snapshot is served without a network call.
const DefaultFreshness = 30 * time.Second

// ErrSuperseded reports that a profile fetch completed after a login, logout
// or clear advanced the generation. The result has been dropped; callers
// should reload under the current generation if they still care.
var ErrSuperseded = errors.New("session fetch superseded")

// Authenticator is the slice of the identity provider the cache needs for its
// credential commands. idp.Provider satisfies it.
type Authenticator interface {
	PasswordLogin(ctx context.Context, email, password string) (*idp.Token, error)
	Register(ctx context.Context, email, password, firstName, lastName string) (*idp.Token, error)
	Logout(ctx context.Context, refreshToken string) error
}

// Cache memoizes one visitor's profile snapshot, coalesces concurrent fetches,
// and invalidates on every authentication change via a generation counter.
//
// The generation is the whole correctness story: every fetch starts by
// capturing the current generation, the singleflight key embeds it so callers
// under different generations never share a flight, and a result is applied
// only if the generation is unchanged when it lands. A fetch that raced a
// login or logout is therefore detected and dropped instead of overwriting
// fresh state.
type Cache struct {
	fetcher profile.Fetcher
	auth    Authenticator

	mu    sync.Mutex
	gen   uint64
	snap  *Snapshot
	token *idp.Token

	flights   singleflight.Group
	freshness time.Duration
	nowTime   func() time.Time
}

// CacheOption modifies the Cache.
type CacheOption func(*Cache)

// WithFreshness sets the snapshot freshness window.
func WithFreshness(d time.Duration) CacheOption {
	return func(c *Cache) { c.freshness = d }
}

// WithNowTime sets the now time function (primarily for testing).
func WithNowTime(nowFunc func() time.Time) CacheOption {
	return func(c *Cache) { c.nowTime = nowFunc }
}

// NewCache creates a session cache for one visitor.
func NewCache(fetcher profile.Fetcher, auth Authenticator, options ...CacheOption) (*Cache, error) {
	if fetcher == nil {
		return nil, errors.New("[NewCache] fetcher is required")
	}
	if auth == nil {
		return nil, errors.New("[NewCache] authenticator is required")
	}

	c := &Cache{
		fetcher:   fetcher,
		auth:      auth,
		freshness: DefaultFreshness,
		nowTime:   time.Now,
	}
	for _, opt := range options {
		opt(c)
	}
	return c, nil
}

// Load returns the current snapshot, or (nil, nil) when the visitor is
// unauthenticated. Without force, a snapshot younger than the freshness window
// is returned with no network call. Concurrent callers under the same
// generation share a single in-flight fetch.
func (c *Cache) Load(ctx context.Context, force bool) (*Snapshot, error) {
	c.mu.Lock()
	if !force && c.snap != nil && c.nowTime().Sub(c.snap.FetchedAt) < c.freshness {
		snap := c.snap
		c.mu.Unlock()
		if !snap.Authenticated() {
			return nil, nil
		}
		return snap, nil
	}
	gen := c.gen
	token := c.token
	c.mu.Unlock()

	v, err, _ := c.flights.Do(strconv.FormatUint(gen, 10), func() (interface{}, error) {
		return c.fetch(ctx, token)
	})

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		// Never cache a failure: the next attempt retries cleanly.
		if gen == c.gen {
			c.snap = nil
		}
		return nil, errors.Wrap(err, "[Cache.Load] profile fetch")
	}
	if gen != c.gen {
		return nil, ErrSuperseded
	}

	snap := v.(*Snapshot)
	c.snap = snap
	if !snap.Authenticated() {
		return nil, nil
	}
	return snap, nil
}

// fetch resolves the profile under the credentials captured at flight start.
// An absent token or ErrNoSession yields an anonymous snapshot, which is
// cacheable state, unlike a transient failure.
func (c *Cache) fetch(ctx context.Context, token *idp.Token) (*Snapshot, error) {
	if token == nil || token.AccessToken == "" {
		return &Snapshot{FetchedAt: c.nowTime()}, nil
	}
	payload, err := c.fetcher.Fetch(ctx, token.AccessToken)
	if errors.Is(err, profile.ErrNoSession) {
		return &Snapshot{FetchedAt: c.nowTime()}, nil
	}
	if err != nil {
		return nil, err
	}
	return &Snapshot{
		User:         payload.User,
		Memberships:  payload.Memberships,
		LastShopSlug: payload.LastShopSlug,
		FetchedAt:    c.nowTime(),
	}, nil
}

// Login exchanges credentials with the identity provider, then force-refreshes
// so the returned snapshot is guaranteed to postdate the generation bump.
func (c *Cache) Login(ctx context.Context, email, password string) (*Snapshot, error) {
	c.bump(nil)
	token, err := c.auth.PasswordLogin(ctx, email, password)
	if err != nil {
		return nil, errors.Wrap(err, "[Cache.Login] credential exchange")
	}
	c.bump(token)
	return c.Load(ctx, true)
}

// Register creates the identity at the provider and logs it in.
func (c *Cache) Register(ctx context.Context, email, password, firstName, lastName string) (*Snapshot, error) {
	c.bump(nil)
	token, err := c.auth.Register(ctx, email, password, firstName, lastName)
	if err != nil {
		return nil, errors.Wrap(err, "[Cache.Register] registration")
	}
	c.bump(token)
	return c.Load(ctx, true)
}

// Adopt installs a token obtained outside the cache (the OAuth callback) and
// invalidates all prior state. Callers follow with a forced Load.
func (c *Cache) Adopt(token *idp.Token) {
	c.bump(token)
}

// Logout invalidates local state first so the visitor is logged out even when
// provider-side revocation fails; the revocation error is still reported.
func (c *Cache) Logout(ctx context.Context) error {
	c.mu.Lock()
	token := c.token
	c.mu.Unlock()

	c.bump(nil)
	if token == nil {
		return nil
	}
	if err := c.auth.Logout(ctx, token.RefreshToken); err != nil {
		return errors.Wrap(err, "[Cache.Logout] provider revocation")
	}
	return nil
}

// ClearUser drops credentials and cached state without contacting the
// provider.
func (c *Cache) ClearUser() {
	c.bump(nil)
}

// Token returns the current identity-provider token, or nil.
func (c *Cache) Token() *idp.Token {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

// Generation returns the current auth generation.
func (c *Cache) Generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen
}

// bump advances the generation, replaces the credentials, and discards the
// snapshot. In-flight fetches keyed to older generations will find the
// generation changed when they land and drop their results.
func (c *Cache) bump(token *idp.Token) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.snap = nil
	c.token = token
}
