package auth

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/fivetwenty-io/lingua/internal/constants"
	"github.com/fivetwenty-io/lingua/pkg/lingua"
)

// TokenFetcher is a provider that can also report the full token, including
// its expiry and refresh token.
type TokenFetcher interface {
	lingua.TokenProvider
	FetchToken(ctx context.Context) (*Token, error)
}

// StaticProvider serves a fixed token. When the token is a JWT carrying an
// exp claim, the provider stops serving it once it expires.
type StaticProvider struct {
	token     string
	expiresAt time.Time
}

// NewStaticProvider creates a provider for token.
func NewStaticProvider(token string) *StaticProvider {
	provider := &StaticProvider{token: token}

	if expiresAt, err := ExpiryFromJWT(token); err == nil {
		provider.expiresAt = expiresAt
	}

	return provider
}

// Token implements lingua.TokenProvider.
func (p *StaticProvider) Token(ctx context.Context) (string, error) {
	tok, _ := p.FetchToken(ctx)

	return tok.AccessToken, nil
}

// FetchToken implements TokenFetcher. An expired token is reported empty.
func (p *StaticProvider) FetchToken(_ context.Context) (*Token, error) {
	tok := &Token{AccessToken: p.token, ExpiresAt: p.expiresAt}
	if !tok.Valid() {
		return &Token{}, nil
	}

	return tok, nil
}

// RefreshFunc obtains a new token. current is the last stored token, possibly nil.
type RefreshFunc func(ctx context.Context, current *Token) (*Token, error)

// RefreshingProvider serves the stored token while it is valid and refreshes
// it otherwise. Concurrent refreshes collapse into one call.
type RefreshingProvider struct {
	store   *TokenStore
	refresh RefreshFunc
	group   singleflight.Group
}

// NewRefreshingProvider creates a provider backed by store. refresh may be nil,
// in which case the provider only serves what the store holds.
func NewRefreshingProvider(store *TokenStore, refresh RefreshFunc) *RefreshingProvider {
	if store == nil {
		store = NewTokenStore()
	}

	return &RefreshingProvider{store: store, refresh: refresh}
}

// Store returns the backing token store.
func (p *RefreshingProvider) Store() *TokenStore {
	return p.store
}

// SetToken stores a token obtained elsewhere.
func (p *RefreshingProvider) SetToken(token string, expiresAt time.Time) {
	p.store.Set(&Token{AccessToken: token, ExpiresAt: expiresAt, TokenType: "bearer"})
}

// Token implements lingua.TokenProvider.
func (p *RefreshingProvider) Token(ctx context.Context) (string, error) {
	tok, err := p.FetchToken(ctx)
	if err != nil {
		return "", err
	}

	if tok == nil {
		return "", nil
	}

	return tok.AccessToken, nil
}

// FetchToken implements TokenFetcher.
func (p *RefreshingProvider) FetchToken(ctx context.Context) (*Token, error) {
	if current := p.store.Get(); current.Valid() {
		return current, nil
	}

	if p.refresh == nil {
		return nil, nil //nolint:nilnil // no token and no way to get one
	}

	return p.Refresh(ctx)
}

// Refresh forces a refresh, sharing the result with concurrent callers.
// The shared refresh is detached from the caller that started it, so one
// cancelled caller does not fail the others; each caller still stops waiting
// when its own ctx is done.
func (p *RefreshingProvider) Refresh(ctx context.Context) (*Token, error) {
	if p.refresh == nil {
		return nil, constants.ErrNoRefreshFunc
	}

	results := p.group.DoChan("refresh", func() (interface{}, error) {
		refreshCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), constants.ShortHTTPTimeout)
		defer cancel()

		tok, err := p.refresh(refreshCtx, p.store.Get())
		if err != nil {
			return nil, fmt.Errorf("refreshing token: %w", err)
		}

		if tok == nil {
			return nil, nil
		}

		tok.normalize()
		p.store.Set(tok)

		return tok, nil
	})

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("waiting for token refresh: %w", context.Cause(ctx))
	case result := <-results:
		if result.Err != nil {
			return nil, result.Err //nolint:wrapcheck // already wrapped inside the group
		}

		tok, _ := result.Val.(*Token)

		return tok, nil
	}
}

var (
	_ TokenFetcher = (*StaticProvider)(nil)
	_ TokenFetcher = (*RefreshingProvider)(nil)
)
