package commands

import (
	"fmt"
	"net/http"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/lingua/internal/constants"
	"github.com/fivetwenty-io/lingua/pkg/lingua"
)

var supportedMethods = []string{
	http.MethodGet,
	http.MethodPost,
	http.MethodPut,
	http.MethodPatch,
	http.MethodDelete,
}

type requestFlags struct {
	query   []string
	headers []string
	data    string
	auth    bool
	version string
}

func (f *requestFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringArrayVarP(&f.query, "query", "q", nil, "query parameter key=value (repeatable, order is kept)")
	cmd.Flags().StringArrayVarP(&f.headers, "header", "H", nil, "request header key=value (repeatable)")
	cmd.Flags().StringVarP(&f.data, "data", "d", "", "request body, or @file to read it from a file")
	cmd.Flags().BoolVar(&f.auth, "auth", false, "require a bearer token")
	cmd.Flags().StringVar(&f.version, "version-prefix", "", "API version prefix for this request only")
}

func newRequestCommand(a *app) *cobra.Command {
	flags := &requestFlags{}

	cmd := &cobra.Command{
		Use:   "request METHOD PATH",
		Short: "Send a request to any endpoint",
		Long: `Send a request to a path under the configured API version prefix.

Examples:
  lingua request GET videos -q language=es -q page=2
  lingua request POST phrases --auth -d '{"text":"hola","translation":"hello","language":"es"}'`,
		Args: cobra.ExactArgs(constants.MinimumArgumentCount),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRequest(cmd, a, args[0], args[1], flags)
		},
	}

	flags.register(cmd)

	return cmd
}

func newMethodCommand(a *app, method string) *cobra.Command {
	flags := &requestFlags{}

	cmd := &cobra.Command{
		Use:   strings.ToLower(method) + " PATH",
		Short: "Send a " + method + " request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRequest(cmd, a, method, args[0], flags)
		},
	}

	flags.register(cmd)

	return cmd
}

func runRequest(cmd *cobra.Command, a *app, method, path string, flags *requestFlags) error {
	method = strings.ToUpper(method)
	if !slices.Contains(supportedMethods, method) {
		return fmt.Errorf("%w: %s", constants.ErrInvalidMethod, method)
	}

	spec, err := flags.spec(method, path)
	if err != nil {
		return err
	}

	requests, err := a.requestClient()
	if err != nil {
		return err
	}

	resp, err := requests.Request(cmd.Context(), spec)
	if err != nil {
		return err
	}

	a.logger.Debug().Int("status", resp.StatusCode).Str("content_type", resp.ContentType).Msg("response received")

	return writeResponse(cmd.OutOrStdout(), a.outputFormat(), resp)
}

func (f *requestFlags) spec(method, path string) (*lingua.RequestSpec, error) {
	query, err := parseQuery(f.query)
	if err != nil {
		return nil, err
	}

	headers, err := parseKeyValues(f.headers)
	if err != nil {
		return nil, err
	}

	spec := &lingua.RequestSpec{
		Path:         path,
		Method:       method,
		Query:        query,
		Headers:      headers,
		RequiresAuth: f.auth,
	}

	if f.version != "" {
		spec.APIVersion = lingua.String(f.version)
	}

	if f.data != "" {
		body, err := readData(f.data)
		if err != nil {
			return nil, err
		}

		spec.Body = body
	}

	return spec, nil
}

func readData(data string) (string, error) {
	name, ok := strings.CutPrefix(data, "@")
	if !ok {
		return data, nil
	}

	content, err := os.ReadFile(name) //nolint:gosec // reading the file the user named is the point
	if err != nil {
		return "", fmt.Errorf("reading request body: %w", err)
	}

	return string(content), nil
}

func splitKeyValue(pair string) (string, string, error) {
	key, value, ok := strings.Cut(pair, "=")
	if !ok || strings.TrimSpace(key) == "" {
		return "", "", fmt.Errorf("%w: %q", constants.ErrInvalidKeyValue, pair)
	}

	return strings.TrimSpace(key), value, nil
}

func parseKeyValues(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}

	values := make(map[string]string, len(pairs))

	for _, pair := range pairs {
		key, value, err := splitKeyValue(pair)
		if err != nil {
			return nil, err
		}

		values[key] = value
	}

	return values, nil
}

func parseQuery(pairs []string) (lingua.Query, error) {
	var query lingua.Query

	for _, pair := range pairs {
		key, value, err := splitKeyValue(pair)
		if err != nil {
			return nil, err
		}

		query = query.Add(key, value)
	}

	return query, nil
}
