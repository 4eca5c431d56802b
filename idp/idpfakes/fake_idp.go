package idpfakes

import (
	"context"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"

	"github.com/shopweave/go-storefront-identity/idp"
)

var (
	ErrBadCredentials = errors.New("invalid credentials")
	ErrUserExists     = errors.New("user already exists")
)

var _ idp.Provider = (*FakeProvider)(nil)

type account struct {
	passwordHash string
	firstName    string
	lastName     string
}

// FakeProvider is an in-memory identity provider for tests and local
// development. Passwords are bcrypt-hashed; tokens and auth codes are opaque
// UUIDs with a one-hour lifetime.
type FakeProvider struct {
	mu       sync.Mutex
	accounts map[string]account
	codes    map[string]string // auth code -> email

	// IssueHook, when set, observes every issued access token together with
	// the email it was issued for. Used to seed profile fakes.
	IssueHook func(email, accessToken string)
}

func NewFakeProvider() *FakeProvider {
	return &FakeProvider{
		accounts: make(map[string]account),
		codes:    make(map[string]string),
	}
}

// Seed registers an account without going through Register.
func (p *FakeProvider) Seed(email, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return errors.Wrap(err, "[FakeProvider.Seed] hash password")
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.accounts[email] = account{passwordHash: string(hash)}
	return nil
}

// IssueCode mints an authorization code for a seeded account, standing in for
// the provider's hosted login page.
func (p *FakeProvider) IssueCode(email string) string {
	code := uuid.New().String()
	p.mu.Lock()
	defer p.mu.Unlock()
	p.codes[code] = email
	return code
}

func (p *FakeProvider) PasswordLogin(ctx context.Context, email, password string) (*idp.Token, error) {
	p.mu.Lock()
	acct, ok := p.accounts[email]
	p.mu.Unlock()
	if !ok {
		return nil, ErrBadCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(acct.passwordHash), []byte(password)); err != nil {
		return nil, ErrBadCredentials
	}
	return p.issue(email), nil
}

func (p *FakeProvider) Register(ctx context.Context, email, password, firstName, lastName string) (*idp.Token, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return nil, errors.Wrap(err, "[FakeProvider.Register] hash password")
	}

	p.mu.Lock()
	if _, exists := p.accounts[email]; exists {
		p.mu.Unlock()
		return nil, ErrUserExists
	}
	p.accounts[email] = account{
		passwordHash: string(hash),
		firstName:    firstName,
		lastName:     lastName,
	}
	p.mu.Unlock()

	return p.issue(email), nil
}

func (p *FakeProvider) AuthCodeURL(state, nonce, codeVerifier string) string {
	q := url.Values{"state": {state}, "nonce": {nonce}}
	return "/fake-idp/authorize?" + q.Encode()
}

func (p *FakeProvider) Exchange(ctx context.Context, code, codeVerifier, nonce string) (*idp.Token, error) {
	p.mu.Lock()
	email, ok := p.codes[code]
	delete(p.codes, code)
	p.mu.Unlock()
	if !ok {
		return nil, errors.New("[FakeProvider.Exchange] unknown authorization code")
	}
	return p.issue(email), nil
}

func (p *FakeProvider) Logout(ctx context.Context, refreshToken string) error {
	return nil
}

func (p *FakeProvider) issue(email string) *idp.Token {
	tok := &idp.Token{
		AccessToken:  uuid.New().String(),
		RefreshToken: uuid.New().String(),
		Expiry:       time.Now().Add(time.Hour),
	}
	if p.IssueHook != nil {
		p.IssueHook(email, tok.AccessToken)
	}
	return tok
}
