// Package loginitem registers the app to start when the user logs in.
package loginitem

import (
	"fmt"
	"os"
)

// Registrar turns launch-at-login on and off.
type Registrar interface {
	Enabled() bool
	SetEnabled(enabled bool) error
}

// Toggle flips the registration and returns the state the registrar reports
// afterwards.
func Toggle(r Registrar) (bool, error) {
	err := r.SetEnabled(!r.Enabled())
	return r.Enabled(), err
}

// programArgs returns the command line used to relaunch this binary.
func programArgs(extra ...string) ([]string, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("locate executable: %w", err)
	}
	return append([]string{exe}, extra...), nil
}

func removeIfExists(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
