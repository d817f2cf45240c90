package commands

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/fivetwenty-io/lingua/pkg/lingua"
)

func newPhrasesCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "phrases",
		Aliases: []string{"phrase"},
		Short:   "Manage practice phrases",
	}

	cmd.AddCommand(newPhrasesListCommand(a))
	cmd.AddCommand(newPhrasesAddCommand(a))
	cmd.AddCommand(newPhrasesImportCommand(a))
	cmd.AddCommand(newPhrasesDeleteCommand(a))

	return cmd
}

func newPhrasesListCommand(a *app) *cobra.Command {
	flags := &listFlags{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List your phrases",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.client()
			if err != nil {
				return err
			}

			phrases, err := client.Phrases().List(cmd.Context(), flags.params())
			if err != nil {
				return fmt.Errorf("failed to list phrases: %w", err)
			}

			renderer := &OutputRenderer[*lingua.ListResponse[lingua.Phrase]]{RenderTable: renderPhrasesTable}

			return renderer.Render(cmd.OutOrStdout(), phrases, a.outputFormat())
		},
	}

	flags.register(cmd)

	return cmd
}

func renderPhrasesTable(w io.Writer, phrases *lingua.ListResponse[lingua.Phrase]) error {
	if len(phrases.Items) == 0 {
		_, err := fmt.Fprintln(w, "No phrases found")

		return err
	}

	table := newTable(w, "ID", "Text", "Translation", "Language", "Tags")
	for _, phrase := range phrases.Items {
		_ = table.Append(phrase.ID, phrase.Text, phrase.Translation, phrase.Language, strings.Join(phrase.Tags, ", "))
	}

	return table.Render()
}

func newPhrasesAddCommand(a *app) *cobra.Command {
	var (
		language string
		tags     []string
	)

	cmd := &cobra.Command{
		Use:   "add TEXT TRANSLATION",
		Short: "Add a phrase",
		Args:  cobra.ExactArgs(2), //nolint:mnd // text and translation
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.client()
			if err != nil {
				return err
			}

			phrase, err := client.Phrases().Create(cmd.Context(), &lingua.PhraseCreate{
				Text:        args[0],
				Translation: args[1],
				Language:    language,
				Tags:        tags,
			})
			if err != nil {
				return fmt.Errorf("failed to add phrase: %w", err)
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Added phrase %s\n", phrase.ID)

			return err
		},
	}

	cmd.Flags().StringVarP(&language, "language", "l", "", "language code of the phrase")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "tags (repeatable)")
	_ = cmd.MarkFlagRequired("language")

	return cmd
}

// readPhrases reads a YAML (or JSON, which is valid YAML) list of phrases.
func readPhrases(path string) ([]lingua.PhraseCreate, error) {
	data, err := os.ReadFile(path) //nolint:gosec // reading the file the user named is the point
	if err != nil {
		return nil, fmt.Errorf("reading phrases file: %w", err)
	}

	var phrases []lingua.PhraseCreate

	err = yaml.Unmarshal(data, &phrases)
	if err != nil {
		return nil, fmt.Errorf("parsing phrases file: %w", err)
	}

	return phrases, nil
}

func newPhrasesImportCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Import phrases from a YAML or JSON file",
		Long: `Import a list of phrases in one bulk request. Each entry has text,
translation, language and optional tags.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			phrases, err := readPhrases(args[0])
			if err != nil {
				return err
			}

			client, err := a.client()
			if err != nil {
				return err
			}

			result, err := client.Phrases().BulkCreate(cmd.Context(), phrases)
			if err != nil {
				return fmt.Errorf("failed to import phrases: %w", err)
			}

			renderer := &OutputRenderer[*lingua.BulkResult]{RenderTable: func(w io.Writer, result *lingua.BulkResult) error {
				_, err := fmt.Fprintf(w, "Imported %d of %d phrases\n", result.Created, len(phrases))
				if err != nil || len(result.Failed) == 0 {
					return err
				}

				table := newTable(w, "Entry", "Error")
				for _, failure := range result.Failed {
					_ = table.Append(strconv.Itoa(failure.Index), failure.Error)
				}

				return table.Render()
			}}

			return renderer.Render(cmd.OutOrStdout(), result, a.outputFormat())
		},
	}
}

func newPhrasesDeleteCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete PHRASE_ID",
		Short: "Delete a phrase",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.client()
			if err != nil {
				return err
			}

			err = client.Phrases().Delete(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to delete phrase: %w", err)
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Deleted phrase %s\n", args[0])

			return err
		},
	}
}
