package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fivetwenty-io/lingua/internal/auth"
	"github.com/fivetwenty-io/lingua/internal/config"
	"github.com/fivetwenty-io/lingua/internal/telemetry"
	"github.com/fivetwenty-io/lingua/pkg/lingua"
	"github.com/fivetwenty-io/lingua/pkg/linguaclient"
)

// Keys that exist only for the CLI, next to the shared config keys.
const (
	keyVerbose = "verbose"
	keyRetry   = "retry"
)

// flagKeys binds persistent flags to configuration keys.
var flagKeys = map[string]string{
	"base-url":    config.KeyBackendURL,
	"api-version": config.KeyAPIVersion,
	"token":       config.KeyToken,
	"timeout":     config.KeyTimeout,
	"output":      config.KeyOutput,
	"nats-url":    config.KeyNATSURL,
	"verbose":     keyVerbose,
	"retry":       keyRetry,
}

// app carries what every command needs once flags are parsed.
type app struct {
	v          *viper.Viper
	configPath string
	logger     zerolog.Logger
	natsConn   *nats.Conn
	// metrics is set under --verbose and summarized on exit.
	metrics *lingua.MetricsCollector
}

// setup reads the config file, environment and flags, in increasing priority.
func (a *app) setup(cmd *cobra.Command) error {
	flags := cmd.Root().PersistentFlags()

	path, _ := flags.GetString("config")
	if path == "" {
		defaultPath, err := config.DefaultPath()
		if err != nil {
			return err
		}

		path = defaultPath
	}

	a.configPath = path
	a.v = config.NewViper(path)

	err := config.ReadFile(a.v)
	if err != nil {
		return err
	}

	for flag, key := range flagKeys {
		err = a.v.BindPFlag(key, flags.Lookup(flag))
		if err != nil {
			return fmt.Errorf("binding flag %s: %w", flag, err)
		}
	}

	a.logger = newLogger(cmd.ErrOrStderr(), a.v.GetBool(keyVerbose))

	if used := a.v.ConfigFileUsed(); used != "" {
		a.logger.Debug().Str("path", used).Msg("using config file")
	}

	return nil
}

func newLogger(w io.Writer, verbose bool) zerolog.Logger {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}

	return zerolog.New(zerolog.ConsoleWriter{Out: w}).Level(level).With().Timestamp().Logger()
}

func (a *app) teardown() {
	a.reportMetrics()

	telemetry.Close(a.natsConn)
	a.natsConn = nil
}

func (a *app) reportMetrics() {
	if a.metrics == nil {
		return
	}

	for _, endpoint := range a.metrics.Endpoints() {
		metrics, _ := a.metrics.GetMetrics(endpoint)
		a.logger.Debug().
			Str("endpoint", endpoint).
			Int64("requests", metrics.TotalRequests).
			Int64("errors", metrics.TotalErrors).
			Dur("avg_latency", metrics.AverageLatency).
			Msg("request metrics")
	}

	a.metrics = nil
}

func (a *app) outputFormat() string {
	return a.v.GetString(config.KeyOutput)
}

func (a *app) clientOptions() (lingua.Config, []linguaclient.Option, error) {
	cfg, err := config.ClientConfig(a.v)
	if err != nil {
		return lingua.Config{}, nil, err
	}

	logger := lingua.NewZerologLogger(a.logger)

	opts := []linguaclient.Option{
		linguaclient.WithLogger(logger),
		linguaclient.WithDebug(a.v.GetBool(keyVerbose)),
		linguaclient.WithInterceptors(a.interceptors(logger)),
	}

	if retries := a.v.GetInt(keyRetry); retries > 0 {
		opts = append(opts, linguaclient.WithRetries(retries, 0, 0))
	}

	if provider := a.tokenProvider(cfg.BaseURL, logger); provider != nil {
		opts = append(opts, linguaclient.WithTokenProvider(provider))
	}

	return cfg, opts, nil
}

func (a *app) requestClient() (lingua.RequestClient, error) {
	cfg, opts, err := a.clientOptions()
	if err != nil {
		return nil, err
	}

	return linguaclient.NewRequestClient(cfg, opts...), nil
}

func (a *app) client() (lingua.Client, error) {
	cfg, opts, err := a.clientOptions()
	if err != nil {
		return nil, err
	}

	return linguaclient.New(cfg, opts...), nil
}

func (a *app) interceptors(logger lingua.Logger) *lingua.InterceptorChain {
	chain := lingua.NewInterceptorChain().AddRequestInterceptor(lingua.RequestIDInterceptor())

	if a.v.GetBool(keyVerbose) {
		if a.metrics == nil {
			a.metrics = lingua.NewMetricsCollector()
		}

		chain.AddResponseInterceptor(lingua.MetricsResponseInterceptor(a.metrics))
	}

	natsURL := a.v.GetString(config.KeyNATSURL)
	if natsURL == "" {
		return chain
	}

	if a.natsConn == nil {
		conn, err := telemetry.Connect(natsURL)
		if err != nil {
			a.logger.Warn().Err(err).Msg("telemetry disabled")

			return chain
		}

		a.natsConn = conn
	}

	reporter := telemetry.NewReporter(a.natsConn, a.v.GetString(config.KeyTelemetrySubject), logger)

	return chain.AddResponseInterceptor(reporter.Interceptor())
}

// tokenProvider returns nil when no credentials are configured. A stored
// refresh token and token URL enable refreshing, with new tokens written
// back to the config file.
func (a *app) tokenProvider(baseURL string, logger lingua.Logger) lingua.TokenProvider {
	token := a.v.GetString(config.KeyToken)
	refreshToken := a.v.GetString(config.KeyRefreshToken)
	tokenURL := a.v.GetString(config.KeyTokenURL)

	if refreshToken == "" || tokenURL == "" {
		if token == "" {
			return nil
		}

		return auth.NewStaticProvider(token)
	}

	expiresAt := a.v.GetTime(config.KeyTokenExpiresAt)

	store := auth.NewTokenStore()
	store.Set(&auth.Token{
		AccessToken:  token,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
		ExpiresAt:    expiresAt,
	})

	refreshing := auth.NewRefreshingProvider(store, a.refreshFunc(tokenURL, refreshToken))

	return auth.NewPersistingProvider(refreshing, config.NewFilePersister(a.configPath), baseURL, token, expiresAt, logger)
}

func (a *app) refreshFunc(tokenURL, storedRefreshToken string) auth.RefreshFunc {
	clientID := a.v.GetString(config.KeyClientID)

	return func(ctx context.Context, current *auth.Token) (*auth.Token, error) {
		refreshToken := storedRefreshToken
		if current != nil && current.RefreshToken != "" {
			refreshToken = current.RefreshToken
		}

		provider := auth.NewPasswordProvider(ctx, &auth.OAuth2Config{
			TokenURL:     tokenURL,
			ClientID:     clientID,
			RefreshToken: refreshToken,
		})

		return provider.FetchToken(ctx)
	}
}
