package slack

// attachmentEscapeKeys are the attachment fields that go through the quote
// escape step when present.
var attachmentEscapeKeys = []string{
	"title",
	"text",
	"author_name",
	"pretext",
	"fallback",
}

// BuildPayload maps message parameters to the wire-format JSON object for op.
// It is a pure transform: p is not modified and identical inputs yield
// identical payloads.
//
// A custom color forces the text into a synthetic attachment with markdown
// enabled, because Slack only renders the colored sidebar on attachments.
// With the default color the text stays a plain top-level field.
func BuildPayload(op Operation, p MessageParams) map[string]any {
	color := p.Color
	if color == "" {
		color = ColorNormal
	}

	payload := map[string]any{}
	if p.Text != nil {
		if color == ColorNormal {
			payload["text"] = escapeQuotes(*p.Text)
		} else {
			payload["attachments"] = []Attachment{{
				"text":      escapeQuotes(*p.Text),
				"color":     color,
				"mrkdwn_in": []string{"text"},
			}}
		}
	}
	if p.Channel != nil {
		payload["channel"] = *p.Channel
	}
	if p.Timestamp != nil {
		payload[op.timestampField()] = *p.Timestamp
	}
	if p.Username != nil {
		payload["username"] = *p.Username
	}
	if p.IconEmoji != nil {
		payload["icon_emoji"] = *p.IconEmoji
	} else if p.IconURL != nil {
		payload["icon_url"] = *p.IconURL
	}
	if p.LinkNames != nil {
		payload["link_names"] = *p.LinkNames
	}
	if p.Parse != nil {
		payload["parse"] = *p.Parse
	}

	if p.Attachments != nil {
		list, _ := payload["attachments"].([]Attachment)
		if list == nil {
			list = []Attachment{}
		}
		for _, a := range p.Attachments {
			list = append(list, normalizeAttachment(a))
		}
		payload["attachments"] = list
	}

	return payload
}

// normalizeAttachment copies a, escapes the recognized text fields and
// synthesizes fallback from text when absent.
func normalizeAttachment(a Attachment) Attachment {
	out := make(Attachment, len(a)+1)
	for k, v := range a {
		out[k] = v
	}
	for _, key := range attachmentEscapeKeys {
		if s, ok := out[key].(string); ok {
			out[key] = escapeQuotes(s)
		}
	}
	if _, ok := out["fallback"]; !ok {
		if text, ok := out["text"]; ok {
			out["fallback"] = text
		}
	}
	return out
}
