// Package linguaclient provides the main entry point for creating lingua clients.
package linguaclient

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/fivetwenty-io/lingua/internal/auth"
	"github.com/fivetwenty-io/lingua/internal/client"
	"github.com/fivetwenty-io/lingua/internal/config"
	"github.com/fivetwenty-io/lingua/internal/constants"
	linguahttp "github.com/fivetwenty-io/lingua/internal/http"
	"github.com/fivetwenty-io/lingua/pkg/lingua"
)

// Option configures a client built by this package.
type Option func(*options)

type options struct {
	httpOpts []linguahttp.Option
	provider lingua.TokenProvider
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger lingua.Logger) Option {
	return func(o *options) {
		o.httpOpts = append(o.httpOpts, linguahttp.WithLogger(logger))
	}
}

// WithDebug logs every request and response through the logger.
func WithDebug(debug bool) Option {
	return func(o *options) {
		o.httpOpts = append(o.httpOpts, linguahttp.WithDebug(debug))
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(o *options) {
		o.httpOpts = append(o.httpOpts, linguahttp.WithUserAgent(userAgent))
	}
}

// WithRetries retries connection errors, 429 and 5xx responses up to
// maxRetries times. Zero waits use the package defaults.
func WithRetries(maxRetries int, waitMin, waitMax time.Duration) Option {
	if waitMin <= 0 {
		waitMin = constants.DefaultRetryWaitMin
	}

	if waitMax <= 0 {
		waitMax = constants.DefaultRetryWaitMax
	}

	return func(o *options) {
		o.httpOpts = append(o.httpOpts, linguahttp.WithRetryConfig(maxRetries, waitMin, waitMax))
	}
}

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(o *options) {
		o.httpOpts = append(o.httpOpts, linguahttp.WithHTTPClient(httpClient))
	}
}

// WithInterceptors installs request/response interceptors.
func WithInterceptors(chain *lingua.InterceptorChain) Option {
	return func(o *options) {
		o.httpOpts = append(o.httpOpts, linguahttp.WithInterceptors(chain))
	}
}

// WithTokenProvider attaches a token provider.
func WithTokenProvider(provider lingua.TokenProvider) Option {
	return func(o *options) {
		o.provider = provider
	}
}

// WithAccessToken authenticates with a token you already have. JWTs stop
// being sent once their exp claim has passed.
func WithAccessToken(token string) Option {
	return WithTokenProvider(auth.NewStaticProvider(token))
}

// WithClientCredentials authenticates with the OAuth2 client_credentials grant.
func WithClientCredentials(tokenURL, clientID, clientSecret string) Option {
	return WithTokenProvider(auth.NewClientCredentialsProvider(context.Background(), &auth.OAuth2Config{
		TokenURL:     tokenURL,
		ClientID:     clientID,
		ClientSecret: clientSecret,
	}))
}

// WithPassword authenticates with the OAuth2 password grant.
func WithPassword(tokenURL, clientID, username, password string) Option {
	return WithTokenProvider(auth.NewPasswordProvider(context.Background(), &auth.OAuth2Config{
		TokenURL: tokenURL,
		ClientID: clientID,
		Username: username,
		Password: password,
	}))
}

// NewRequestClient creates a RequestClient. Unset configuration fields take
// their defaults; construction performs no I/O.
func NewRequestClient(cfg lingua.Config, opts ...Option) lingua.RequestClient {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	requests := linguahttp.NewClient(cfg, o.httpOpts...)
	if o.provider != nil {
		requests.SetTokenProvider(o.provider)
	}

	return requests
}

// New creates a client exposing the typed resource clients.
func New(cfg lingua.Config, opts ...Option) lingua.Client {
	return client.New(NewRequestClient(cfg, opts...))
}

// NewFromEnvironment reads LINGUA_* environment variables into the
// configuration. LINGUA_TOKEN, when set and no provider option is given,
// becomes a static token provider.
func NewFromEnvironment(opts ...Option) (lingua.Client, error) {
	v := config.NewViper("")

	cfg, err := config.ClientConfig(v)
	if err != nil {
		return nil, fmt.Errorf("loading configuration from environment: %w", err)
	}

	if token := v.GetString(config.KeyToken); token != "" {
		opts = append([]Option{WithAccessToken(token)}, opts...)
	}

	return New(cfg, opts...), nil
}
