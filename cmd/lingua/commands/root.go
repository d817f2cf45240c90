// Package commands implements the lingua command-line interface.
package commands

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/lingua/internal/constants"
)

// NewRootCommand creates the lingua root command with every subcommand attached.
func NewRootCommand(version, commit, date string) *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   "lingua",
		Short: "Language-learning backend CLI",
		Long: `A command-line interface for the language-learning backend.

Browse practice videos, manage phrases, review practice sessions, or send
raw requests to any versioned endpoint.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			a.teardown()
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringP("config", "c", "", "config file (default is $HOME/.lingua/config.yml)")
	flags.String("base-url", "", "backend base URL, e.g. http://localhost:8080")
	flags.String("api-version", "", "API version prefix (default /v1/api)")
	flags.StringP("token", "t", "", "bearer token")
	flags.String("timeout", "", "request timeout, a duration (10s) or milliseconds (500)")
	flags.StringP("output", "o", constants.FormatTable, "output format (table, json, yaml)")
	flags.BoolP("verbose", "v", false, "verbose output")
	flags.String("nats-url", "", "publish one event per request to this NATS server")
	flags.Int("retry", 0, "retry failed requests up to this many times (--retry alone means 3)")
	flags.Lookup("retry").NoOptDefVal = strconv.Itoa(constants.DefaultRetryMax)

	cmd.AddCommand(newVersionCommand(a, version, commit, date))
	cmd.AddCommand(newRequestCommand(a))

	for _, method := range supportedMethods {
		cmd.AddCommand(newMethodCommand(a, method))
	}

	cmd.AddCommand(newVideosCommand(a))
	cmd.AddCommand(newProfileCommand(a))
	cmd.AddCommand(newSessionsCommand(a))
	cmd.AddCommand(newPhrasesCommand(a))
	cmd.AddCommand(newLoginCommand(a))
	cmd.AddCommand(newLogoutCommand(a))
	cmd.AddCommand(newConfigCommand(a))

	return cmd
}
