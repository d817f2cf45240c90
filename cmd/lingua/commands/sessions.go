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

const defaultProgressDays = 7

func newSessionsCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "sessions",
		Aliases: []string{"session"},
		Short:   "Review practice sessions",
	}

	cmd.AddCommand(newSessionsListCommand(a))
	cmd.AddCommand(newSessionsProgressCommand(a))

	return cmd
}

// parseDate parses a YYYY-MM-DD flag value. Empty means the zero time.
func parseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}

	parsed, err := time.Parse(constants.DateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD: %w", value, err)
	}

	return parsed, nil
}

func newSessionsListCommand(a *app) *cobra.Command {
	var (
		from, to string
		mode     string
		page     int
		perPage  int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List practice sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			fromDate, err := parseDate(from)
			if err != nil {
				return err
			}

			toDate, err := parseDate(to)
			if err != nil {
				return err
			}

			client, err := a.client()
			if err != nil {
				return err
			}

			sessions, err := client.Sessions().List(cmd.Context(), &lingua.SessionFilter{
				From:    fromDate,
				To:      toDate,
				Mode:    lingua.PracticeMode(mode),
				Page:    page,
				PerPage: perPage,
			})
			if err != nil {
				return fmt.Errorf("failed to list sessions: %w", err)
			}

			renderer := &OutputRenderer[*lingua.ListResponse[lingua.PracticeSession]]{RenderTable: renderSessionsTable}

			return renderer.Render(cmd.OutOrStdout(), sessions, a.outputFormat())
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "first day, YYYY-MM-DD")
	cmd.Flags().StringVar(&to, "to", "", "last day, YYYY-MM-DD")
	cmd.Flags().StringVar(&mode, "mode", "", "practice mode (video_repeat, phrase, shadowing)")
	cmd.Flags().IntVar(&page, "page", 0, "page number")
	cmd.Flags().IntVar(&perPage, "per-page", constants.DefaultPageSize, "items per page")

	return cmd
}

func renderSessionsTable(w io.Writer, sessions *lingua.ListResponse[lingua.PracticeSession]) error {
	if len(sessions.Items) == 0 {
		_, err := fmt.Fprintln(w, "No sessions found")

		return err
	}

	table := newTable(w, "ID", "Mode", "Started", "Completed", "Duration", "Reps", "Score")

	for _, session := range sessions.Items {
		completed := notAvailable
		if session.CompletedAt != nil {
			completed = formatTime(*session.CompletedAt)
		}

		score := notAvailable
		if session.Score != nil {
			score = strconv.FormatFloat(*session.Score, 'f', 1, 64)
		}

		_ = table.Append(session.ID, string(session.Mode), formatTime(session.StartedAt), completed,
			(time.Duration(session.DurationSeconds) * time.Second).String(),
			strconv.Itoa(session.RepetitionCount), score)
	}

	return table.Render()
}

func newSessionsProgressCommand(a *app) *cobra.Command {
	var from, to string

	cmd := &cobra.Command{
		Use:   "progress",
		Short: "Show daily practice progress",
		Long:  "Show minutes practised per day. Defaults to the last seven days.",
		RunE: func(cmd *cobra.Command, args []string) error {
			toDate, err := parseDate(to)
			if err != nil {
				return err
			}

			if toDate.IsZero() {
				toDate = time.Now()
			}

			fromDate, err := parseDate(from)
			if err != nil {
				return err
			}

			if fromDate.IsZero() {
				fromDate = toDate.AddDate(0, 0, -(defaultProgressDays - 1))
			}

			client, err := a.client()
			if err != nil {
				return err
			}

			progress, err := client.Sessions().Progress(cmd.Context(), fromDate, toDate)
			if err != nil {
				return fmt.Errorf("failed to get progress: %w", err)
			}

			renderer := &OutputRenderer[*lingua.Progress]{RenderTable: func(w io.Writer, progress *lingua.Progress) error {
				table := newTable(w, "Date", "Minutes", "Sessions", "Goal Met")
				for _, day := range progress.Days {
					_ = table.Append(day.Date, strconv.Itoa(day.Minutes), strconv.Itoa(day.Sessions), strconv.FormatBool(day.GoalMet))
				}

				err := table.Render()
				if err != nil {
					return fmt.Errorf("rendering table: %w", err)
				}

				_, err = fmt.Fprintf(w, "Streak: %d days, %d minutes in total\n", progress.StreakDays, progress.TotalMinutes)

				return err
			}}

			return renderer.Render(cmd.OutOrStdout(), progress, a.outputFormat())
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "first day, YYYY-MM-DD")
	cmd.Flags().StringVar(&to, "to", "", "last day, YYYY-MM-DD (default today)")

	return cmd
}
