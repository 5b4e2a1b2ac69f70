package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"slackpost/internal/config"
	"slackpost/internal/slack"
	"slackpost/pkg/logx"
)

// tokenEnvVar is consulted when --token is not given.
const tokenEnvVar = "SLACK_TOKEN"

// messageOptions holds the flags shared by the post and update commands.
type messageOptions struct {
	configPath string

	token     string
	msg       string
	channel   string
	timestamp string
	username  string
	iconURL   string
	iconEmoji string
	linkNames bool
	parse     string
	color     string

	attachments     string
	attachmentsFile string

	apiBase  string
	timeout  time.Duration
	insecure bool
	logLevel string
}

func registerMessageFlags(cmd *cobra.Command, opts *messageOptions) {
	f := cmd.Flags()

	f.StringVarP(&opts.configPath, "config", "c", "", "Path to defaults file (YAML or JSON)")

	f.StringVar(&opts.token, "token", "", "Slack OAuth access token (or set "+tokenEnvVar+")")
	f.StringVarP(&opts.msg, "msg", "m", "", "Message text to send")
	f.StringVar(&opts.channel, "channel", "", "Channel to send the message to (ID or name)")
	f.StringVar(&opts.username, "username", config.DefaultUsername, "Sender display name")
	f.StringVar(&opts.iconURL, "icon-url", config.DefaultIconURL, "URL for the sender's icon")
	f.StringVar(&opts.iconEmoji, "icon-emoji", "", "Emoji code for the sender's icon (wins over --icon-url)")
	f.BoolVar(&opts.linkNames, "link-names", true, "Link channel and user names in the message")
	f.StringVar(&opts.parse, "parse", "", "Slack message parser setting (full or none)")
	f.StringVar(&opts.color, "color", slack.ColorNormal, "Color bar: normal, good, warning, danger or #hex")

	f.StringVar(&opts.attachments, "attachments", "", "Attachments list as inline YAML or JSON")
	f.StringVar(&opts.attachmentsFile, "attachments-file", "", "Path to a file holding the attachments list")
	cmd.MarkFlagsMutuallyExclusive("attachments", "attachments-file")

	f.StringVar(&opts.apiBase, "api-base", config.DefaultAPIBase, "Slack Web API root URL")
	f.DurationVar(&opts.timeout, "timeout", config.DefaultTimeout, "HTTP request timeout")
	f.BoolVar(&opts.insecure, "insecure", false, "Skip TLS certificate validation")
	f.StringVar(&opts.logLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")
}

// sendMessage validates the options, builds the payload for op and performs
// the single API call. All validation happens before any network activity.
func (a *App) sendMessage(ctx context.Context, cmd *cobra.Command, op slack.Operation, opts *messageOptions) error {
	cfg := config.Default()
	if opts.configPath != "" {
		var err error
		cfg, err = config.Load(opts.configPath)
		if err != nil {
			return err
		}
	}

	flags := cmd.Flags()

	level := cfg.LogLevel
	if opts.logLevel != "" {
		level = opts.logLevel
	}
	log := logx.NewConsole(level)

	token := opts.token
	if token == "" {
		token = os.Getenv(tokenEnvVar)
	}
	if token == "" {
		return fmt.Errorf("missing token: pass --token or set %s", tokenEnvVar)
	}

	if !slack.ValidColor(opts.color) {
		return fmt.Errorf("invalid color %q: must be one of normal, good, warning, danger "+
			"or a 3- or 6-digit hex value", opts.color)
	}
	if flags.Changed("parse") && opts.parse != "full" && opts.parse != "none" {
		return fmt.Errorf("invalid parse mode %q: must be full or none", opts.parse)
	}

	attachments, err := a.loadAttachments(opts)
	if err != nil {
		return err
	}

	p := slack.MessageParams{Color: opts.color, Attachments: attachments}
	if flags.Changed("msg") {
		p.Text = slack.Ptr(opts.msg)
	}
	if flags.Changed("channel") {
		p.Channel = slack.Ptr(opts.channel)
	}
	if opts.timestamp != "" {
		p.Timestamp = slack.Ptr(opts.timestamp)
	}
	if flags.Changed("parse") {
		p.Parse = slack.Ptr(opts.parse)
	}
	if flags.Changed("icon-emoji") {
		p.IconEmoji = slack.Ptr(opts.iconEmoji)
	}

	// Sender identity fields always go on the wire; the file supplies them
	// when the flags are left at their defaults.
	p.Username = slack.Ptr(resolveString(flags.Changed("username"), opts.username, cfg.Username))
	p.IconURL = slack.Ptr(resolveString(flags.Changed("icon-url"), opts.iconURL, cfg.IconURL))

	linkNames := cfg.LinkNames != nil && *cfg.LinkNames
	if flags.Changed("link-names") {
		linkNames = opts.linkNames
	}
	p.LinkNames = slack.Ptr(boolToInt(linkNames))

	payload := slack.BuildPayload(op, p)

	timeout, err := cfg.TimeoutDuration()
	if err != nil {
		return err
	}
	if flags.Changed("timeout") {
		timeout = opts.timeout
	}
	apiBase := cfg.APIBase
	if flags.Changed("api-base") {
		apiBase = opts.apiBase
	}
	insecure := cfg.InsecureSkipVerify || opts.insecure

	client := slack.NewClient(slack.ClientConfig{
		BaseURL:            apiBase,
		Token:              token,
		Timeout:            timeout,
		InsecureSkipVerify: insecure,
		Logger:             log,
	})

	resp, err := client.Call(ctx, op, payload)
	if err != nil {
		var apiErr *slack.APIError
		if errors.As(err, &apiErr) {
			log.Error("slack rejected the request", logx.String("error", apiErr.Response.Error))
		}
		return err
	}

	log.Info("message delivered",
		logx.String("method", string(op)),
		logx.String("channel", resp.Channel),
		logx.String("ts", resp.TS))

	out, err := json.Marshal(resp.Raw)
	if err != nil {
		return fmt.Errorf("encode reply: %w", err)
	}
	fmt.Fprintln(a.stdout, string(out))
	return nil
}

func (a *App) loadAttachments(opts *messageOptions) ([]slack.Attachment, error) {
	var raw []byte
	switch {
	case opts.attachments != "":
		raw = []byte(opts.attachments)
	case opts.attachmentsFile != "":
		b, err := os.ReadFile(opts.attachmentsFile)
		if err != nil {
			return nil, fmt.Errorf("attachments file: %w", err)
		}
		raw = b
	default:
		return nil, nil
	}

	maps, err := config.ParseAttachments(raw)
	if err != nil {
		return nil, err
	}
	if maps == nil {
		return nil, nil
	}
	out := make([]slack.Attachment, 0, len(maps))
	for _, m := range maps {
		out = append(out, slack.Attachment(m))
	}
	return out, nil
}

func resolveString(changed bool, flagValue, fileValue string) string {
	if changed {
		return flagValue
	}
	return fileValue
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
