package relay

import "strings"

// Audience modes control whether the outbound turn embeds the sender's name
// and a quoted excerpt of the triggering message.
const (
	AudiencePlain     = 0 // raw message
	AudienceName      = 1 // prefix with the sender's display name
	AudienceQuote     = 2 // wrap as a quoted excerpt
	AudienceNameQuote = 3 // both
)

// FormatSpec holds the operator-configured outbound templates. Template may
// contain {username}, {reply} and {message}; NameFormat substitutes its own
// {username}, QuoteFormat its own {quote}. Placeholders unused by the active
// mode are blanked, never left literal.
type FormatSpec struct {
	Template    string
	NameFormat  string
	QuoteFormat string
}

// DefaultFormatSpec matches the stock relay behavior.
func DefaultFormatSpec() FormatSpec {
	return FormatSpec{
		Template:    "{username}{reply}{message}",
		NameFormat:  "[{username}] ",
		QuoteFormat: "((in reply to: {quote})) ",
	}
}

// FormatTurn builds the text sent to the character for one inbound message.
func FormatTurn(mode int, spec FormatSpec, username, quote, message string) string {
	var name, reply string
	switch mode {
	case AudienceName:
		name = expandName(spec.NameFormat, username)
	case AudienceQuote:
		reply = expandQuote(spec.QuoteFormat, quote)
	case AudienceNameQuote:
		name = expandName(spec.NameFormat, username)
		reply = expandQuote(spec.QuoteFormat, quote)
	}

	out := strings.ReplaceAll(spec.Template, "{username}", name)
	out = strings.ReplaceAll(out, "{reply}", reply)
	return strings.ReplaceAll(out, "{message}", message)
}

func expandName(format, username string) string {
	return strings.ReplaceAll(format, "{username}", username)
}

func expandQuote(format, quote string) string {
	return strings.ReplaceAll(format, "{quote}", quote)
}
