package loginitem

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Autostart registers an XDG autostart desktop entry.
type Autostart struct {
	Dir     string // usually $XDG_CONFIG_HOME/autostart
	Name    string // entry file name without extension
	Program []string
}

// Path returns the desktop entry location.
func (a *Autostart) Path() string {
	return filepath.Join(a.Dir, a.Name+".desktop")
}

// Enabled reports whether the entry exists and is not hidden.
func (a *Autostart) Enabled() bool {
	data, err := os.ReadFile(a.Path())
	if err != nil {
		return false
	}
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if strings.EqualFold(line, "Hidden=true") || strings.EqualFold(line, "X-GNOME-Autostart-enabled=false") {
			return false
		}
	}
	return true
}

// SetEnabled writes or removes the desktop entry.
func (a *Autostart) SetEnabled(enabled bool) error {
	if !enabled {
		return removeIfExists(a.Path())
	}
	if len(a.Program) == 0 {
		return fmt.Errorf("autostart %s: no program", a.Name)
	}
	var b strings.Builder
	b.WriteString("[Desktop Entry]\n")
	b.WriteString("Type=Application\n")
	b.WriteString("Name=Menu Mic\n")
	fmt.Fprintf(&b, "Exec=%s\n", execLine(a.Program))
	b.WriteString("X-GNOME-Autostart-enabled=true\n")
	if err := os.MkdirAll(a.Dir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(a.Path(), []byte(b.String()), 0o644)
}

// execLine quotes arguments per the desktop entry Exec key rules.
func execLine(args []string) string {
	quoted := make([]string, len(args))
	for i, arg := range args {
		if strings.ContainsAny(arg, " \t\"'\\$`") {
			r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "$", `\$`, "`", "\\`")
			arg = `"` + r.Replace(arg) + `"`
		}
		quoted[i] = arg
	}
	return strings.Join(quoted, " ")
}
