package commands

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/lingua/internal/constants"
	"github.com/fivetwenty-io/lingua/pkg/lingua"
)

type listFlags struct {
	page     int
	perPage  int
	search   string
	language string
	level    string
}

func (f *listFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.page, "page", 0, "page number")
	cmd.Flags().IntVar(&f.perPage, "per-page", constants.DefaultPageSize, "items per page")
	cmd.Flags().StringVar(&f.search, "search", "", "search text")
	cmd.Flags().StringVar(&f.language, "language", "", "filter by language code, e.g. es")
	cmd.Flags().StringVar(&f.level, "level", "", "filter by level, e.g. A2")
}

func (f *listFlags) params() *lingua.ListParams {
	return &lingua.ListParams{
		Page:     f.page,
		PerPage:  f.perPage,
		Search:   f.search,
		Language: f.language,
		Level:    f.level,
	}
}

func newVideosCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "videos",
		Aliases: []string{"video"},
		Short:   "Browse practice videos",
		Long:    "List and inspect the practice video catalogue",
	}

	cmd.AddCommand(newVideosListCommand(a))
	cmd.AddCommand(newVideosGetCommand(a))

	return cmd
}

func newVideosListCommand(a *app) *cobra.Command {
	flags := &listFlags{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List videos",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.client()
			if err != nil {
				return err
			}

			videos, err := client.Videos().List(cmd.Context(), flags.params())
			if err != nil {
				return fmt.Errorf("failed to list videos: %w", err)
			}

			renderer := &OutputRenderer[*lingua.ListResponse[lingua.Video]]{RenderTable: renderVideosTable}

			return renderer.Render(cmd.OutOrStdout(), videos, a.outputFormat())
		},
	}

	flags.register(cmd)

	return cmd
}

func renderVideosTable(w io.Writer, videos *lingua.ListResponse[lingua.Video]) error {
	if len(videos.Items) == 0 {
		_, err := fmt.Fprintln(w, "No videos found")

		return err
	}

	table := newTable(w, "ID", "Title", "Language", "Level", "Duration")
	for _, video := range videos.Items {
		duration := time.Duration(video.DurationSeconds) * time.Second
		_ = table.Append(video.ID, video.Title, video.Language, orNA(video.Level), duration.String())
	}

	err := table.Render()
	if err != nil {
		return fmt.Errorf("rendering table: %w", err)
	}

	if videos.HasMore() {
		_, err = fmt.Fprintf(w, "Page %d, %d videos in total. Use --page %d for more.\n",
			videos.Page, videos.Total, videos.Page+1)
	}

	return err
}

func newVideosGetCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get VIDEO_ID",
		Short: "Get video details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.client()
			if err != nil {
				return err
			}

			video, err := client.Videos().Get(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to get video: %w", err)
			}

			renderer := &OutputRenderer[*lingua.Video]{RenderTable: func(w io.Writer, video *lingua.Video) error {
				table := newTable(w, "Property", "Value")
				_ = table.Append("ID", video.ID)
				_ = table.Append("Title", video.Title)
				_ = table.Append("Language", video.Language)
				_ = table.Append("Level", orNA(video.Level))
				_ = table.Append("Duration", strconv.Itoa(video.DurationSeconds)+"s")
				_ = table.Append("URL", video.URL)
				_ = table.Append("Created", formatTime(video.CreatedAt))

				return table.Render()
			}}

			return renderer.Render(cmd.OutOrStdout(), video, a.outputFormat())
		},
	}
}
