package commands

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/lingua/internal/config"
	"github.com/fivetwenty-io/lingua/internal/constants"
)

// newConfigCommand creates the config command group.
func newConfigCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage CLI configuration",
		Long:  "Show and change the settings stored in the lingua config file",
	}

	cmd.AddCommand(newConfigShowCommand(a))
	cmd.AddCommand(newConfigSetCommand(a))

	return cmd
}

func newConfigShowCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Long:  "Display the stored configuration with secrets masked, plus the resolved backend URL",
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := config.LoadSettings(a.configPath)
			if err != nil {
				return err
			}

			masked := *settings
			masked.Token = mask(settings.Token)
			masked.RefreshToken = mask(settings.RefreshToken)

			renderer := &OutputRenderer[*config.Settings]{RenderTable: func(w io.Writer, s *config.Settings) error {
				return a.renderConfigTable(w, s)
			}}

			return renderer.Render(cmd.OutOrStdout(), &masked, a.outputFormat())
		},
	}
}

func (a *app) renderConfigTable(w io.Writer, s *config.Settings) error {
	table := newTable(w, "Property", "Value")
	_ = table.Append("Config File", a.configPath)

	if resolved, err := config.ClientConfig(a.v); err == nil {
		_ = table.Append("Resolved URL", resolved.BaseURL+resolved.APIVersionPrefix)
		_ = table.Append("Resolved Timeout", resolved.Timeout.String())
	}

	_ = table.Append(config.KeyBackendURL, orNA(s.BackendURL))

	if s.BackendHost != "" {
		_ = table.Append(config.KeyBackendHost, s.BackendHost)
	}

	if s.BackendPort != 0 {
		_ = table.Append(config.KeyBackendPort, strconv.Itoa(s.BackendPort))
	}

	if s.BackendScheme != "" {
		_ = table.Append(config.KeyBackendScheme, s.BackendScheme)
	}

	_ = table.Append(config.KeyAPIVersion, orNA(s.APIVersion))
	_ = table.Append(config.KeyTimeout, orNA(s.Timeout))
	_ = table.Append(config.KeyToken, orNA(s.Token))

	if s.TokenExpiresAt != nil {
		_ = table.Append(config.KeyTokenExpiresAt, s.TokenExpiresAt.Local().Format(time.RFC3339))
	}

	if s.RefreshToken != "" {
		_ = table.Append(config.KeyRefreshToken, s.RefreshToken)
	}

	if s.TokenURL != "" {
		_ = table.Append(config.KeyTokenURL, s.TokenURL)
	}

	if s.ClientID != "" {
		_ = table.Append(config.KeyClientID, s.ClientID)
	}

	_ = table.Append(config.KeyOutput, orNA(s.Output))
	_ = table.Append(config.KeyNATSURL, orNA(s.NATSURL))

	keys := make([]string, 0, len(s.Headers))
	for key := range s.Headers {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	for _, key := range keys {
		_ = table.Append("header "+key, s.Headers[key])
	}

	return table.Render()
}

func newConfigSetCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Set a configuration value",
		Long: `Set a configuration value. Valid keys: backend_url, backend_host,
backend_port, backend_scheme, api_version, timeout, token_url, client_id,
output, nats_url, telemetry_subject.`,
		Args: cobra.ExactArgs(constants.MinimumArgumentCount),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, value := args[0], args[1]

			settings, err := config.LoadSettings(a.configPath)
			if err != nil {
				return err
			}

			err = settings.Set(key, value)
			if err != nil {
				return err
			}

			err = config.SaveSettings(a.configPath, settings)
			if err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s\n", key, value)

			return err
		},
	}
}
