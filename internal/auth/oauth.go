package auth

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/fivetwenty-io/lingua/internal/constants"
)

// OAuth2Config holds the token endpoint and credentials for the OAuth2 providers.
type OAuth2Config struct {
	TokenURL     string
	ClientID     string
	ClientSecret string
	Username     string
	Password     string
	RefreshToken string
	Scopes       []string
}

// OAuth2Provider adapts an oauth2.TokenSource.
type OAuth2Provider struct {
	source oauth2.TokenSource
}

// NewOAuth2Provider wraps source in a reusing token source, so the endpoint is
// only contacted when the cached token expires.
func NewOAuth2Provider(source oauth2.TokenSource) *OAuth2Provider {
	return &OAuth2Provider{source: oauth2.ReuseTokenSource(nil, source)}
}

// NewClientCredentialsProvider uses the client_credentials grant. ctx governs
// every later call to the token endpoint, so it should outlive the provider.
func NewClientCredentialsProvider(ctx context.Context, config *OAuth2Config) *OAuth2Provider {
	ccConfig := &clientcredentials.Config{
		ClientID:     config.ClientID,
		ClientSecret: config.ClientSecret,
		TokenURL:     config.TokenURL,
		Scopes:       config.Scopes,
		AuthStyle:    oauth2.AuthStyleInHeader,
	}

	return NewOAuth2Provider(ccConfig.TokenSource(tokenContext(ctx)))
}

// tokenContext bounds token endpoint calls unless ctx already carries an
// oauth2.HTTPClient.
func tokenContext(ctx context.Context) context.Context {
	if _, ok := ctx.Value(oauth2.HTTPClient).(*http.Client); ok {
		return ctx
	}

	return context.WithValue(ctx, oauth2.HTTPClient, &http.Client{Timeout: constants.ShortHTTPTimeout})
}

// NewPasswordProvider uses the password grant on first use and the refresh
// token afterwards. A configured RefreshToken skips the password exchange.
func NewPasswordProvider(ctx context.Context, config *OAuth2Config) *OAuth2Provider {
	ctx = tokenContext(ctx)

	oauthConfig := &oauth2.Config{
		ClientID:     config.ClientID,
		ClientSecret: config.ClientSecret,
		Scopes:       config.Scopes,
		Endpoint: oauth2.Endpoint{
			TokenURL:  config.TokenURL,
			AuthStyle: oauth2.AuthStyleInHeader,
		},
	}

	source := &passwordSource{
		ctx:      ctx,
		config:   oauthConfig,
		username: config.Username,
		password: config.Password,
	}

	if config.RefreshToken != "" {
		source.inner = oauthConfig.TokenSource(ctx, &oauth2.Token{RefreshToken: config.RefreshToken})
	}

	return NewOAuth2Provider(source)
}

// Token implements lingua.TokenProvider.
func (p *OAuth2Provider) Token(ctx context.Context) (string, error) {
	tok, err := p.FetchToken(ctx)
	if err != nil {
		return "", err
	}

	return tok.AccessToken, nil
}

// FetchToken implements TokenFetcher.
func (p *OAuth2Provider) FetchToken(_ context.Context) (*Token, error) {
	tok, err := p.source.Token()
	if err != nil {
		return nil, fmt.Errorf("fetching oauth2 token: %w", err)
	}

	if !tok.Valid() {
		return &Token{}, nil
	}

	return &Token{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		TokenType:    tok.Type(),
		ExpiresAt:    tok.Expiry,
	}, nil
}

type passwordSource struct {
	ctx      context.Context //nolint:containedctx // oauth2 token sources are bound to a context
	config   *oauth2.Config
	username string
	password string

	mu    sync.Mutex
	inner oauth2.TokenSource
}

func (s *passwordSource) Token() (*oauth2.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.inner != nil {
		tok, err := s.inner.Token()
		if err != nil {
			return nil, fmt.Errorf("refreshing token: %w", err)
		}

		return tok, nil
	}

	tok, err := s.config.PasswordCredentialsToken(s.ctx, s.username, s.password)
	if err != nil {
		return nil, fmt.Errorf("password grant: %w", err)
	}

	s.inner = s.config.TokenSource(s.ctx, tok)

	return tok, nil
}

var _ TokenFetcher = (*OAuth2Provider)(nil)
