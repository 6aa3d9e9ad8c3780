package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/adrg/xdg"
	"github.com/go-playground/validator/v10"
)

// AppName is the directory name used under the XDG config home.
const AppName = "menumic"

// Backend names accepted by the backend setting.
const (
	BackendAuto      = "auto"
	BackendCoreAudio = "coreaudio"
	BackendPactl     = "pactl"
	BackendPortAudio = "portaudio"
)

// HotkeyConfig holds the global hotkey that cycles input devices.
// An empty key disables the hotkey. On macOS the key is a combo such as
// "Ctrl+Option+M"; on Linux it is an evdev key name such as "KEY_F9" read
// from Device, or from the first keyboard found when Device is empty.
type HotkeyConfig struct {
	Key    string `toml:"key" validate:"omitempty,max=64"`
	Device string `toml:"device" validate:"omitempty,startswith=/dev/input/"`
}

// CustomTheme defines a user color theme for the TUI. Colors are hex
// strings like "#FF6AC1".
type CustomTheme struct {
	Name       string `toml:"name" validate:"required,max=32"`
	Primary    string `toml:"primary" validate:"omitempty,hexcolor"`
	Secondary  string `toml:"secondary" validate:"omitempty,hexcolor"`
	Accent     string `toml:"accent" validate:"omitempty,hexcolor"`
	Error      string `toml:"error" validate:"omitempty,hexcolor"`
	Success    string `toml:"success" validate:"omitempty,hexcolor"`
	Warning    string `toml:"warning" validate:"omitempty,hexcolor"`
	Background string `toml:"background" validate:"omitempty,hexcolor"`
	Text       string `toml:"text" validate:"omitempty,hexcolor"`
	Dimmed     string `toml:"dimmed" validate:"omitempty,hexcolor"`
	Separator  string `toml:"separator" validate:"omitempty,hexcolor"`
}

// FeedbackConfig controls how the app reports what it did.
type FeedbackConfig struct {
	ChimeEnabled  bool   `toml:"chime_enabled"`  // chime after a device switch from the menu or hotkey
	ChimePath     string `toml:"chime_path"`     // custom WAV file, empty for the built-in chime
	NotifyEnabled bool   `toml:"notify_enabled"` // desktop notification when balance was re-centered
}

// LoginConfig holds launch-at-login registration settings.
type LoginConfig struct {
	Label string `toml:"label" validate:"required,max=255,excludesall=/"`
}

// Config is the top-level configuration.
type Config struct {
	Backend        string         `toml:"backend" validate:"oneof=auto coreaudio pactl portaudio"`
	PollIntervalMs int            `toml:"poll_interval_ms" validate:"gte=100,lte=60000"`
	Theme          string         `toml:"theme" validate:"required"`
	Hotkey         HotkeyConfig   `toml:"hotkey"`
	Feedback       FeedbackConfig `toml:"feedback"`
	Login          LoginConfig    `toml:"login"`
	CustomThemes   []CustomTheme  `toml:"custom_theme" validate:"dive"`
}

// Default returns a Config populated with all default values.
func Default() *Config {
	return &Config{
		Backend:        BackendAuto,
		PollIntervalMs: 1000,
		Theme:          "synthwave",
		Hotkey: HotkeyConfig{
			Key:    "",
			Device: "",
		},
		Feedback: FeedbackConfig{
			ChimeEnabled:  false,
			ChimePath:     "",
			NotifyEnabled: false,
		},
		Login: LoginConfig{
			Label: "com.danondso.menumic",
		},
	}
}

// PollInterval returns the tick period.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalMs) * time.Millisecond
}

// Dir returns the per-user configuration directory.
func Dir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// DefaultPath returns the default config file path.
func DefaultPath() string {
	return filepath.Join(Dir(), "config.toml")
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the config for out-of-range or unknown values.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s: failed %q (got %v)", fe.Namespace(), fe.Tag(), fe.Value()))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

// Save writes the config as TOML to the given path, creating parent
// directories if needed. The write is atomic: data is written to a
// temporary file and renamed into place.
func Save(path string, cfg *Config) error {
	return WriteTOMLAtomic(path, cfg)
}

// WriteTOMLAtomic encodes v as TOML into a temporary file next to path and
// renames it into place, so a crash mid-write cannot corrupt the old file.
func WriteTOMLAtomic(path string, v any) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, "."+AppName+"-*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	if err := toml.NewEncoder(tmp).Encode(v); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return os.Rename(tmpPath, path)
}

// Load reads the TOML config from path. If the file does not exist,
// it returns the default config without error.
func Load(path string) (*Config, error) {
	cfg := Default()

	_, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}

	_, err = toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}
