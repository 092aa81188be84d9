package relay

import "errors"

// Handler-boundary error classes. Collaborator failures become user-visible
// warn messages; ErrNotFound and ErrDenied are silent.
var (
	ErrNotFound = errors.New("not found")
	ErrDenied   = errors.New("denied")
)

// WarnSign prefixes user-visible failure texts.
const WarnSign = "⚠"

func warnText(err error) string {
	return WarnSign + " " + err.Error()
}
