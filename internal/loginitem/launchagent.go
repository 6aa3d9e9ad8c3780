package loginitem

import (
	"fmt"
	"os"
	"path/filepath"

	"howett.net/plist"
)

// launchAgentPlist is the subset of launchd.plist(5) keys a login item needs.
type launchAgentPlist struct {
	Label            string   `plist:"Label"`
	ProgramArguments []string `plist:"ProgramArguments"`
	RunAtLoad        bool     `plist:"RunAtLoad"`
	ProcessType      string   `plist:"ProcessType,omitempty"`
}

// LaunchAgent registers a per-user launchd agent with RunAtLoad set.
type LaunchAgent struct {
	Dir     string   // usually ~/Library/LaunchAgents
	Label   string   // reverse-DNS job label, also the file name
	Program []string // executable and arguments
}

// Path returns the plist location.
func (a *LaunchAgent) Path() string {
	return filepath.Join(a.Dir, a.Label+".plist")
}

// Enabled reports whether a plist for this label exists and runs at load.
func (a *LaunchAgent) Enabled() bool {
	data, err := os.ReadFile(a.Path())
	if err != nil {
		return false
	}
	var p launchAgentPlist
	if _, err := plist.Unmarshal(data, &p); err != nil {
		return false
	}
	return p.RunAtLoad && p.Label == a.Label
}

// SetEnabled writes or removes the plist.
func (a *LaunchAgent) SetEnabled(enabled bool) error {
	if !enabled {
		return removeIfExists(a.Path())
	}
	if len(a.Program) == 0 {
		return fmt.Errorf("launch agent %s: no program", a.Label)
	}
	data, err := plist.MarshalIndent(launchAgentPlist{
		Label:            a.Label,
		ProgramArguments: a.Program,
		RunAtLoad:        true,
		ProcessType:      "Interactive",
	}, plist.XMLFormat, "\t")
	if err != nil {
		return fmt.Errorf("encode launch agent: %w", err)
	}
	if err := os.MkdirAll(a.Dir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(a.Path(), data, 0o644)
}
