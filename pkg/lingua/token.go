package lingua

import "context"

// TokenProvider supplies bearer tokens for authenticated requests.
//
// Token returns "" when no valid token is available right now; a non-nil
// error fails the request. Implementations are called concurrently from
// every in-flight request and must do their own caching and locking.
type TokenProvider interface {
	Token(ctx context.Context) (string, error)
}

// TokenProviderFunc adapts a function to TokenProvider.
type TokenProviderFunc func(ctx context.Context) (string, error)

// Token implements TokenProvider.
func (f TokenProviderFunc) Token(ctx context.Context) (string, error) {
	return f(ctx)
}
