package slack

import "fmt"

// Operation is a Slack Web API method this tool knows how to call.
type Operation string

const (
	// OpPostMessage creates a new message (https://api.slack.com/methods/chat.postMessage).
	OpPostMessage Operation = "chat.postMessage"
	// OpUpdate replaces an existing message in place (https://api.slack.com/methods/chat.update).
	OpUpdate Operation = "chat.update"
)

// ParseOperation maps a method name to a supported Operation.
func ParseOperation(s string) (Operation, error) {
	switch Operation(s) {
	case OpPostMessage:
		return OpPostMessage, nil
	case OpUpdate:
		return OpUpdate, nil
	}
	return "", fmt.Errorf("unsupported method %q (supported: %s, %s)", s, OpPostMessage, OpUpdate)
}

// timestampField is the wire name for the message identifier: a new message
// threads onto thread_ts, an update targets an existing message's ts.
func (op Operation) timestampField() string {
	if op == OpUpdate {
		return "ts"
	}
	return "thread_ts"
}

// Attachment mirrors the Slack attachment schema as an open mapping.
// Recognized keys (title, text, author_name, pretext, fallback) get quote
// escaping; everything else passes through unchanged.
type Attachment map[string]any

// MessageParams are the formatting inputs for one message. Pointer fields
// distinguish "unset" from an explicit empty value; unset fields are never
// serialized.
type MessageParams struct {
	Text      *string
	Channel   *string
	Timestamp *string // thread_ts for chat.postMessage, ts for chat.update
	Username  *string
	IconURL   *string
	IconEmoji *string // wins over IconURL when both are set
	LinkNames *int    // 0 or 1
	Parse     *string // "full" or "none"
	Color     string  // "normal", "good", "warning", "danger" or #hex; "" means "normal"

	Attachments []Attachment
}

// Response is the parsed Slack reply. Raw keeps the full decoded body for
// diagnostics; the typed fields cover what callers routinely inspect.
type Response struct {
	OK      bool
	Error   string
	Warning string
	Channel string
	TS      string

	Raw map[string]any
}

// Ptr returns a pointer to v. Convenience for building MessageParams.
func Ptr[T any](v T) *T { return &v }
