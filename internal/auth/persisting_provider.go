package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fivetwenty-io/lingua/internal/constants"
	"github.com/fivetwenty-io/lingua/pkg/lingua"
)

// TokenPersister saves tokens between runs.
type TokenPersister interface {
	UpdateToken(baseURL, accessToken string, expiresAt time.Time, refreshToken string) error
}

// PersistingProvider wraps a TokenFetcher and persists every new token it sees.
type PersistingProvider struct {
	inner     TokenFetcher
	persister TokenPersister
	baseURL   string
	logger    lingua.Logger

	mu          sync.Mutex
	lastToken   string
	lastExpires time.Time
}

// NewPersistingProvider creates a persisting provider. initialToken and
// initialExpiry describe what the persister already holds, so it is not
// written back unchanged.
func NewPersistingProvider(inner TokenFetcher, persister TokenPersister, baseURL, initialToken string, initialExpiry time.Time, logger lingua.Logger) *PersistingProvider {
	if logger == nil {
		logger = lingua.NopLogger{}
	}

	return &PersistingProvider{
		inner:       inner,
		persister:   persister,
		baseURL:     baseURL,
		logger:      logger,
		lastToken:   initialToken,
		lastExpires: initialExpiry,
	}
}

// Token implements lingua.TokenProvider. Persistence failures are logged and
// never fail the request.
func (p *PersistingProvider) Token(ctx context.Context) (string, error) {
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
func (p *PersistingProvider) FetchToken(ctx context.Context) (*Token, error) {
	tok, err := p.inner.FetchToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("getting token: %w", err)
	}

	if tok == nil || tok.AccessToken == "" {
		return tok, nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if tok.AccessToken == p.lastToken && tok.ExpiresAt.Equal(p.lastExpires) {
		return tok, nil
	}

	persistErr := p.persist(tok)
	if persistErr != nil {
		p.logger.Warn("failed to persist refreshed token", map[string]interface{}{
			"error": persistErr.Error(),
		})
	}

	p.lastToken = tok.AccessToken
	p.lastExpires = tok.ExpiresAt

	return tok, nil
}

func (p *PersistingProvider) persist(token *Token) error {
	if p.persister == nil {
		return constants.ErrNoTokenPersister
	}

	err := p.persister.UpdateToken(p.baseURL, token.AccessToken, token.ExpiresAt, token.RefreshToken)
	if err != nil {
		return fmt.Errorf("failed to update token: %w", err)
	}

	return nil
}

var _ TokenFetcher = (*PersistingProvider)(nil)
