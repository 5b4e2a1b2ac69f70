// Command slackpost sends Slack notifications via the Slack Web API.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"slackpost/internal/cli"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	app := cli.New()
	if err := app.Execute(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
