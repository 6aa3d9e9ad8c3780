package hotkey

import (
	"context"
	"errors"
)

// ErrUnsupported is returned by New on platforms without global hotkeys.
var ErrUnsupported = errors.New("global hotkeys are not supported on this platform")

// Listener listens for a global hotkey press.
type Listener interface {
	Start(ctx context.Context, onPress func()) error
	Stop()
	KeyName() string
}
