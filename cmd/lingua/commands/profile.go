package commands

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/lingua/pkg/lingua"
)

func newProfileCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or update your profile",
	}

	cmd.AddCommand(newProfileShowCommand(a))
	cmd.AddCommand(newProfileUpdateCommand(a))

	return cmd
}

func newProfileShowCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show your profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.client()
			if err != nil {
				return err
			}

			profile, err := client.Profile().Get(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to get profile: %w", err)
			}

			return renderProfile(cmd.OutOrStdout(), profile, a.outputFormat())
		},
	}
}

func newProfileUpdateCommand(a *app) *cobra.Command {
	var (
		displayName string
		dailyGoal   int
		timezone    string
		targets     []string
	)

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update your profile",
		Long:  "Update the given profile fields; fields without a flag are left unchanged",
		RunE: func(cmd *cobra.Command, args []string) error {
			update := &lingua.ProfileUpdate{TargetLanguages: targets}

			if cmd.Flags().Changed("display-name") {
				update.DisplayName = lingua.String(displayName)
			}

			if cmd.Flags().Changed("daily-goal") {
				update.DailyGoalMinutes = &dailyGoal
			}

			if cmd.Flags().Changed("timezone") {
				update.Timezone = lingua.String(timezone)
			}

			client, err := a.client()
			if err != nil {
				return err
			}

			profile, err := client.Profile().Update(cmd.Context(), update)
			if err != nil {
				return fmt.Errorf("failed to update profile: %w", err)
			}

			return renderProfile(cmd.OutOrStdout(), profile, a.outputFormat())
		},
	}

	cmd.Flags().StringVar(&displayName, "display-name", "", "display name")
	cmd.Flags().IntVar(&dailyGoal, "daily-goal", 0, "daily practice goal in minutes")
	cmd.Flags().StringVar(&timezone, "timezone", "", "IANA timezone, e.g. Europe/Madrid")
	cmd.Flags().StringSliceVar(&targets, "target-languages", nil, "languages you are learning")

	return cmd
}

func renderProfile(w io.Writer, profile *lingua.Profile, format string) error {
	renderer := &OutputRenderer[*lingua.Profile]{RenderTable: func(w io.Writer, profile *lingua.Profile) error {
		table := newTable(w, "Property", "Value")
		_ = table.Append("ID", profile.ID)
		_ = table.Append("Email", profile.Email)
		_ = table.Append("Display Name", profile.DisplayName)
		_ = table.Append("Native Language", orNA(profile.NativeLanguage))
		_ = table.Append("Learning", orNA(strings.Join(profile.TargetLanguages, ", ")))
		_ = table.Append("Daily Goal", strconv.Itoa(profile.DailyGoalMinutes)+" min")
		_ = table.Append("Timezone", orNA(profile.Timezone))
		_ = table.Append("Created", formatTime(profile.CreatedAt))

		return table.Render()
	}}

	return renderer.Render(w, profile, format)
}
