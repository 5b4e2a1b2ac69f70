// Package cli provides the slackpost command tree.
package cli

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"
)

// Version information set at build time.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// App represents the CLI application.
type App struct {
	root   *cobra.Command
	stdout io.Writer
	stderr io.Writer
}

// New creates a new CLI application.
func New() *App {
	app := &App{
		stdout: os.Stdout,
		stderr: os.Stderr,
	}

	app.root = &cobra.Command{
		Use:   "slackpost",
		Short: "Send Slack notifications via the Slack Web API",
		Long: `slackpost formats a message (plain text or attachments) into a Slack Web
API payload and posts it with bearer-token authentication. It supports
creating a new message (chat.postMessage) and updating an existing one in
place (chat.update). Each invocation performs exactly one API call.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	app.root.AddCommand(
		app.newPostCmd(),
		app.newUpdateCmd(),
		app.newVersionCmd(),
	)

	return app
}

// WithOutput sets custom output writers. Useful for testing.
func (a *App) WithOutput(stdout, stderr io.Writer) *App {
	a.stdout = stdout
	a.stderr = stderr
	a.root.SetOut(stdout)
	a.root.SetErr(stderr)
	return a
}

// Execute runs the CLI application.
func (a *App) Execute(ctx context.Context) error {
	return a.root.ExecuteContext(ctx)
}

// ExecuteWithArgs runs the CLI with specific arguments (useful for testing).
func (a *App) ExecuteWithArgs(ctx context.Context, args []string) error {
	a.root.SetArgs(args)
	return a.root.ExecuteContext(ctx)
}
