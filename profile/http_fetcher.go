package profile

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"
)

// HTTPFetcher calls the backend's profile endpoint over HTTP with a bearer
// token.
type HTTPFetcher struct {
	endpoint   string
	httpClient *http.Client
}

// HTTPFetcherOption configures the HTTPFetcher.
type HTTPFetcherOption func(*HTTPFetcher)

// WithHTTPClient sets a custom HTTP client for profile requests.
func WithHTTPClient(c *http.Client) HTTPFetcherOption {
	return func(f *HTTPFetcher) { f.httpClient = c }
}

// NewHTTPFetcher creates a Fetcher that calls the given profile endpoint URL.
func NewHTTPFetcher(endpoint string, opts ...HTTPFetcherOption) (*HTTPFetcher, error) {
	if endpoint == "" {
		return nil, errors.New("[NewHTTPFetcher] endpoint is required")
	}
	f := &HTTPFetcher{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(f)
	}
	return f, nil
}

var _ Fetcher = (*HTTPFetcher)(nil)

// Fetch retrieves the profile for the identity behind the access token.
// A 401 response maps to ErrNoSession; any other failure is transient and
// propagated to the caller.
func (f *HTTPFetcher) Fetch(ctx context.Context, accessToken string) (*Payload, error) {
	if accessToken == "" {
		return nil, ErrNoSession
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.endpoint, nil)
	if err != nil {
		return nil, errors.Wrap(err, "[HTTPFetcher.Fetch] new request")
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "[HTTPFetcher.Fetch] profile request")
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, ErrNoSession
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, errors.Errorf("[HTTPFetcher.Fetch] profile endpoint returned %d: %s", resp.StatusCode, string(body))
	}

	var payload Payload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, errors.Wrap(err, "[HTTPFetcher.Fetch] decode payload")
	}
	if payload.User == nil {
		return nil, ErrNoSession
	}
	return &payload, nil
}
