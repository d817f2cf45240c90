package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"gopkg.in/yaml.v3"

	"github.com/fivetwenty-io/lingua/internal/constants"
	"github.com/fivetwenty-io/lingua/pkg/lingua"
)

const (
	notAvailable      = "N/A"
	defaultJSONIndent = "  "
	timestampLayout   = "2006-01-02 15:04:05"
)

// OutputRenderer renders data as JSON, YAML or a table.
type OutputRenderer[T any] struct {
	RenderTable func(w io.Writer, data T) error
}

// Render outputs data in the given format; anything unknown is a table.
func (o *OutputRenderer[T]) Render(w io.Writer, data T, format string) error {
	switch format {
	case constants.FormatJSON:
		return writeJSON(w, data)
	case constants.FormatYAML:
		return writeYAML(w, data)
	default:
		return o.RenderTable(w, data)
	}
}

func writeJSON(w io.Writer, data interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", defaultJSONIndent)

	return encoder.Encode(data)
}

func writeYAML(w io.Writer, data interface{}) error {
	encoder := yaml.NewEncoder(w)
	defer func() { _ = encoder.Close() }()

	return encoder.Encode(data)
}

func newTable(w io.Writer, header ...any) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.Header(header...)

	return table
}

// writeResponse prints a raw response. JSON bodies are re-indented (or
// converted to YAML); anything else is printed as received.
func writeResponse(w io.Writer, format string, resp *lingua.Response) error {
	if !resp.IsJSON() || resp.Data == nil {
		text := resp.Text()
		if text == "" {
			return nil
		}

		_, err := fmt.Fprintln(w, strings.TrimRight(text, "\n"))

		return err
	}

	if format == constants.FormatYAML {
		return writeYAML(w, resp.Data)
	}

	return writeJSON(w, resp.Data)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return notAvailable
	}

	return t.Local().Format(timestampLayout)
}

func orNA(value string) string {
	if value == "" {
		return notAvailable
	}

	return value
}

func mask(secret string) string {
	if secret == "" {
		return ""
	}

	return constants.MaskedSecret
}
