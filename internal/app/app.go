// Package app ties the device directory, the user's preferences and the
// login item together into the once-per-tick reconcile loop that drives the
// menu.
package app

import (
	"context"
	"errors"
	"io"
	"log"
	"time"

	"github.com/Danondso/menumic/internal/audiodev"
	"github.com/Danondso/menumic/internal/loginitem"
	"github.com/Danondso/menumic/internal/prefs"
)

// DefaultInterval is the nominal tick period.
const DefaultInterval = time.Second

// ErrNoLoginItem is returned by ToggleOpenAtLogin when no registrar is configured.
var ErrNoLoginItem = errors.New("launch at login is not available")

// ErrStopped is returned by Submit after Run has returned.
var ErrStopped = errors.New("controller stopped")

// Entry is one input device row of the menu.
type Entry struct {
	ID       audiodev.DeviceID
	Name     string
	Selected bool
}

// Snapshot is everything a menu needs to render one tick.
type Snapshot struct {
	Devices            []Entry
	KeepInputActive    bool
	KeepOutputBalanced bool
	OpenAtLogin        bool
}

// Selected returns the selected entry, if any.
func (s Snapshot) Selected() (Entry, bool) {
	for _, e := range s.Devices {
		if e.Selected {
			return e, true
		}
	}
	return Entry{}, false
}

// Chimer plays a confirmation sound.
type Chimer interface {
	Play()
}

// Notifier posts a user-visible notification.
type Notifier interface {
	Notify(title, message string)
}

// Options holds the optional collaborators of a Controller.
type Options struct {
	Login    loginitem.Registrar
	Chime    Chimer
	Notifier Notifier
	Logger   *log.Logger
}

// Controller owns all access to the audio system and preferences. Its
// methods are not safe for concurrent use; UI code calls them through
// Submit while Run is active.
type Controller struct {
	sys      audiodev.System
	prefs    prefs.Store
	login    loginitem.Registrar
	chime    Chimer
	notifier Notifier
	logger   *log.Logger

	actions chan func()
	done    chan struct{}
}

// New creates a Controller.
func New(sys audiodev.System, store prefs.Store, opts Options) *Controller {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Controller{
		sys:      sys,
		prefs:    store,
		login:    opts.Login,
		chime:    opts.Chime,
		notifier: opts.Notifier,
		logger:   logger,
		actions:  make(chan func()),
		done:     make(chan struct{}),
	}
}

// Tick reads the device list and selection, then applies the keep-input-active
// and keep-output-balanced policies. The returned snapshot reflects the state
// before the policies ran; any change they make shows up on the next tick.
func (c *Controller) Tick() Snapshot {
	devices := audiodev.ListInputDevices(c.sys)
	snap := c.snapshot(devices)
	c.keepInputActive(devices)
	c.keepOutputBalanced()
	return snap
}

// Snapshot returns the current menu state without applying any policy.
func (c *Controller) Snapshot() Snapshot {
	return c.snapshot(audiodev.ListInputDevices(c.sys))
}

func (c *Controller) snapshot(devices []audiodev.Device) Snapshot {
	active, hasActive := audiodev.ActiveInputDevice(c.sys)
	entries := make([]Entry, 0, len(devices))
	for _, d := range devices {
		entries = append(entries, Entry{
			ID:       d.ID,
			Name:     d.Name(),
			Selected: hasActive && d.ID == active.ID,
		})
	}
	return Snapshot{
		Devices:            entries,
		KeepInputActive:    c.prefs.Bool(prefs.KeepInputActive),
		KeepOutputBalanced: c.prefs.Bool(prefs.KeepOutputBalanced),
		OpenAtLogin:        c.login != nil && c.login.Enabled(),
	}
}

// keepInputActive re-applies the remembered device on every tick, even when
// it is already the default input.
func (c *Controller) keepInputActive(devices []audiodev.Device) {
	if !c.prefs.Bool(prefs.KeepInputActive) {
		return
	}
	id := audiodev.DeviceID(c.prefs.Int(prefs.InputDeviceID))
	d, ok := audiodev.FindDevice(devices, id)
	if !ok {
		return
	}
	if err := audiodev.SetActiveInputDevice(c.sys, d); err != nil {
		c.logger.Printf("device: keep active %d: %v", id, err)
	}
}

func (c *Controller) keepOutputBalanced() {
	if !c.prefs.Bool(prefs.KeepOutputBalanced) {
		return
	}
	if audiodev.CenterOutputBalance(c.sys) {
		c.logger.Printf("balance: output re-centered")
		if c.notifier != nil {
			c.notifier.Notify("Output balance re-centered", "The output device balance was reset to center.")
		}
	}
}

// SelectDevice makes id the default input and remembers it for the
// keep-input-active policy. The OS write is best effort; only a failure to
// store the preference is returned.
func (c *Controller) SelectDevice(id audiodev.DeviceID) error {
	d := audiodev.NewDevice(c.sys, id)
	if err := audiodev.SetActiveInputDevice(c.sys, d); err != nil {
		c.logger.Printf("device: select %d: %v", id, err)
	} else {
		c.logger.Printf("device: selected %d (%s)", id, d.Name())
	}
	if c.chime != nil {
		c.chime.Play()
	}
	return c.prefs.SetInt(prefs.InputDeviceID, int(id))
}

// CycleInputDevice selects the input device after the active one, wrapping
// around. With no active device the first one is selected. It reports
// whether a device was selected.
func (c *Controller) CycleInputDevice() (bool, error) {
	devices := audiodev.ListInputDevices(c.sys)
	if len(devices) == 0 {
		return false, nil
	}
	next := 0
	if active, ok := audiodev.ActiveInputDevice(c.sys); ok {
		for i, d := range devices {
			if d.ID == active.ID {
				next = (i + 1) % len(devices)
				break
			}
		}
	}
	return true, c.SelectDevice(devices[next].ID)
}

// ToggleKeepInputActive flips the preference and returns the new value.
func (c *Controller) ToggleKeepInputActive() (bool, error) {
	return prefs.Toggle(c.prefs, prefs.KeepInputActive)
}

// ToggleKeepOutputBalanced flips the preference and returns the new value.
func (c *Controller) ToggleKeepOutputBalanced() (bool, error) {
	return prefs.Toggle(c.prefs, prefs.KeepOutputBalanced)
}

// ToggleOpenAtLogin flips the login item and returns its state afterwards.
func (c *Controller) ToggleOpenAtLogin() (bool, error) {
	if c.login == nil {
		return false, ErrNoLoginItem
	}
	enabled, err := loginitem.Toggle(c.login)
	if err != nil {
		c.logger.Printf("login: toggle: %v", err)
	}
	return enabled, err
}

// Run ticks immediately and then once per interval until ctx is done,
// passing every snapshot to publish. Functions handed to Submit run on the
// same goroutine between ticks, each followed by a fresh Snapshot.
func (c *Controller) Run(ctx context.Context, interval time.Duration, publish func(Snapshot)) error {
	defer close(c.done)
	if interval <= 0 {
		interval = DefaultInterval
	}

	publish(c.Tick())

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			publish(c.Tick())
		case fn := <-c.actions:
			fn()
			publish(c.Snapshot())
		}
	}
}

// Submit runs fn on the Run goroutine and waits for it to finish. It returns
// ErrStopped once Run has returned. It must not be called from publish or
// from inside another submitted function.
func (c *Controller) Submit(fn func()) error {
	ran := make(chan struct{})
	select {
	case c.actions <- func() { defer close(ran); fn() }:
	case <-c.done:
		return ErrStopped
	}
	<-ran
	return nil
}
