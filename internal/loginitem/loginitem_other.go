//go:build !darwin

package loginitem

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

// New returns the XDG autostart registrar for label.
func New(label string) (Registrar, error) {
	args, err := programArgs()
	if err != nil {
		return nil, err
	}
	return &Autostart{
		Dir:     filepath.Join(xdg.ConfigHome, "autostart"),
		Name:    label,
		Program: args,
	}, nil
}
