//go:build !darwin && !linux

package hotkey

// New always fails with ErrUnsupported on platforms without a listener.
func New(combo, device string) (Listener, error) {
	return nil, ErrUnsupported
}
