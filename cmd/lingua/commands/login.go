package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/fivetwenty-io/lingua/internal/auth"
	"github.com/fivetwenty-io/lingua/internal/config"
	"github.com/fivetwenty-io/lingua/internal/constants"
)

type loginFlags struct {
	tokenURL     string
	clientID     string
	clientSecret string
	username     string
	password     string
}

func newLoginCommand(a *app) *cobra.Command {
	flags := &loginFlags{}

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store credentials for the backend",
		Long: `Store an access token in the config file.

With --token (or when prompted) the token is stored as is. With --client-id
and --client-secret the client_credentials grant is used; with --username the
password grant is used. Refresh tokens returned by the token endpoint are
stored too and used once the access token expires.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := config.LoadSettings(a.configPath)
			if err != nil {
				return err
			}

			if flags.tokenURL == "" {
				flags.tokenURL = settings.TokenURL
			}

			rawToken, _ := cmd.Flags().GetString("token")

			token, err := flags.obtainToken(cmd.Context(), a, rawToken, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			settings.Token = token.AccessToken
			settings.RefreshToken = token.RefreshToken
			settings.TokenExpiresAt = nil

			if !token.ExpiresAt.IsZero() {
				expiry := token.ExpiresAt.UTC()
				settings.TokenExpiresAt = &expiry
			}

			if token.RefreshToken != "" {
				settings.TokenURL = flags.tokenURL
				settings.ClientID = flags.clientID
			}

			if baseURL, _ := cmd.Flags().GetString("base-url"); baseURL != "" {
				settings.BackendURL = baseURL
			}

			err = config.SaveSettings(a.configPath, settings)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Logged in. Credentials saved to %s\n", a.configPath)

			return err
		},
	}

	cmd.Flags().StringVar(&flags.tokenURL, "token-url", "", "OAuth2 token endpoint")
	cmd.Flags().StringVar(&flags.clientID, "client-id", "", "OAuth2 client ID")
	cmd.Flags().StringVar(&flags.clientSecret, "client-secret", "", "OAuth2 client secret")
	cmd.Flags().StringVarP(&flags.username, "username", "u", "", "username for the password grant")
	cmd.Flags().StringVarP(&flags.password, "password", "p", "", "password for the password grant (prompted when empty)")
	cmd.MarkFlagsRequiredTogether("client-id", "client-secret")

	return cmd
}

func (f *loginFlags) obtainToken(ctx context.Context, a *app, token string, prompt io.Writer) (*auth.Token, error) {
	switch {
	case f.clientSecret != "":
		provider := auth.NewClientCredentialsProvider(ctx, &auth.OAuth2Config{
			TokenURL:     f.tokenURL,
			ClientID:     f.clientID,
			ClientSecret: f.clientSecret,
		})

		return fetchToken(ctx, provider)
	case f.username != "":
		if f.password == "" {
			password, err := readSecret(prompt, "Password: ")
			if err != nil {
				return nil, err
			}

			f.password = password
		}

		provider := auth.NewPasswordProvider(ctx, &auth.OAuth2Config{
			TokenURL: f.tokenURL,
			ClientID: f.clientID,
			Username: f.username,
			Password: f.password,
		})

		return fetchToken(ctx, provider)
	}

	if token == "" {
		var err error

		token, err = readSecret(prompt, "Access token: ")
		if err != nil {
			return nil, err
		}
	}

	token = strings.TrimSpace(token)
	if token == "" {
		return nil, constants.ErrEmptyToken
	}

	expiresAt, _ := auth.ExpiryFromJWT(token)
	if !expiresAt.IsZero() && time.Now().After(expiresAt) {
		a.logger.Warn().Time("expired_at", expiresAt).Msg("the token has already expired")
	}

	return &auth.Token{AccessToken: token, ExpiresAt: expiresAt}, nil
}

func fetchToken(ctx context.Context, provider auth.TokenFetcher) (*auth.Token, error) {
	token, err := provider.FetchToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("login failed: %w", err)
	}

	if token.AccessToken == "" {
		return nil, constants.ErrEmptyToken
	}

	return token, nil
}

func readSecret(prompt io.Writer, label string) (string, error) {
	_, _ = fmt.Fprint(prompt, label)

	secret, err := term.ReadPassword(int(os.Stdin.Fd())) //nolint:gosec // stdin fd fits in int
	_, _ = fmt.Fprintln(prompt)

	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", strings.ToLower(strings.TrimSuffix(label, ": ")), err)
	}

	return string(secret), nil
}

func newLogoutCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget stored credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := config.LoadSettings(a.configPath)
			if err != nil {
				return err
			}

			settings.ClearToken()

			err = config.SaveSettings(a.configPath, settings)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), "Logged out")

			return err
		},
	}
}
