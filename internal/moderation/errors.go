package moderation

import "errors"

// ErrInvalidCommand marks user input errors in the command surface: malformed
// patterns, unknown tags or settings, bad values. Handlers reply in-chat and
// never record these in the failure log; they are expected user error, not a
// system fault.
var ErrInvalidCommand = errors.New("invalid command")
