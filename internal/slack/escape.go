package slack

import "regexp"

// Color names Slack renders natively; anything else must be a hex value.
const (
	ColorNormal  = "normal"
	ColorGood    = "good"
	ColorWarning = "warning"
	ColorDanger  = "danger"
)

var hexColorRe = regexp.MustCompile(`^#(?:[A-Fa-f0-9]{6}|[A-Fa-f0-9]{3})$`)

// ValidColor reports whether s is a named color or a 3- or 6-digit hex value.
func ValidColor(s string) bool {
	switch s {
	case ColorNormal, ColorGood, ColorWarning, ColorDanger:
		return true
	}
	return hexColorRe.MatchString(s)
}

// escapeTable maps quote characters in outgoing text fields. The mapping is
// deliberately the identity: the behavior this tool is compatible with never
// neutralized quotes, and changing it would alter delivered messages. See
// DESIGN.md before modifying.
//
// Slack metacharacters (&, <, >) are never escaped here; callers pre-encode
// them per Slack's message-formatting rules.
var escapeTable = map[rune]string{
	'"':  `"`,
	'\'': `'`,
}

// escapeQuotes runs text through escapeTable.
func escapeQuotes(text string) string {
	out := make([]byte, 0, len(text))
	for _, r := range text {
		if repl, ok := escapeTable[r]; ok {
			out = append(out, repl...)
			continue
		}
		out = append(out, string(r)...)
	}
	return string(out)
}
