package cli

import (
	"github.com/spf13/cobra"

	"slackpost/internal/slack"
)

// newPostCmd creates the post command (chat.postMessage).
func (a *App) newPostCmd() *cobra.Command {
	opts := &messageOptions{}

	cmd := &cobra.Command{
		Use:   "post",
		Short: "Post a new message to a channel",
		Long: `Post a new message with chat.postMessage.

Examples:
  # Plain notification
  slackpost post --token xoxp-... --channel '#deploys' --msg 'web01 completed'

  # Color bar in front of the message
  slackpost post --channel '#deploys' --msg 'web01 is alive!' --color good

  # Reply into an existing thread
  slackpost post --channel C024BE91L --msg 'done' --thread-ts 1539917263.000100

  # Rich attachments from a file
  slackpost post --channel '#ops' --attachments-file load-report.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.sendMessage(cmd.Context(), cmd, slack.OpPostMessage, opts)
		},
	}

	registerMessageFlags(cmd, opts)
	cmd.Flags().StringVar(&opts.timestamp, "thread-ts", "", "Timestamp of the thread to reply into")

	return cmd
}
