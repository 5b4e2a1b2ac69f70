package cli

import (
	"github.com/spf13/cobra"

	"slackpost/internal/slack"
)

// newUpdateCmd creates the update command (chat.update).
func (a *App) newUpdateCmd() *cobra.Command {
	opts := &messageOptions{}

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update an existing message in place",
		Long: `Replace the content of an existing message with chat.update.

The channel must be a channel ID and --ts the timestamp of the message to
replace, both as returned when the message was posted.

Example:
  slackpost update --channel C024BE91L --ts 1539917263.000100 --msg 'build green'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.sendMessage(cmd.Context(), cmd, slack.OpUpdate, opts)
		},
	}

	registerMessageFlags(cmd, opts)
	cmd.Flags().StringVar(&opts.timestamp, "ts", "", "Timestamp of the message to update (required)")
	_ = cmd.MarkFlagRequired("ts")

	return cmd
}
