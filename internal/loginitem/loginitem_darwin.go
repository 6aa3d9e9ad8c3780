//go:build darwin

package loginitem

import (
	"os"
	"path/filepath"
)

// New returns the launchd based registrar for label.
func New(label string) (Registrar, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	args, err := programArgs()
	if err != nil {
		return nil, err
	}
	return &LaunchAgent{
		Dir:     filepath.Join(home, "Library", "LaunchAgents"),
		Label:   label,
		Program: args,
	}, nil
}
