// Package tray shows the menu in the macOS status bar (or the system tray
// elsewhere) using fyne.io/systray.
package tray

import (
	"context"
	"log"
	"sync"
	"time"

	"fyne.io/systray"

	"github.com/Danondso/menumic/internal/app"
	"github.com/Danondso/menumic/internal/audiodev"
)

// Title is the bold-looking first row of the menu.
const Title = "Menu Mic"

// Shell renders controller snapshots into a status bar menu.
type Shell struct {
	ctrl     *app.Controller
	interval time.Duration
	logger   *log.Logger

	mu           sync.Mutex
	slots        []*systray.MenuItem
	slotIDs      []audiodev.DeviceID
	keepInput    *systray.MenuItem
	keepBalanced *systray.MenuItem
	openAtLogin  *systray.MenuItem
	overflowSeen bool
}

// New creates a Shell.
func New(ctrl *app.Controller, interval time.Duration, logger *log.Logger) *Shell {
	return &Shell{ctrl: ctrl, interval: interval, logger: logger}
}

// Run shows the status item and blocks until Quit is chosen or ctx is done.
// It must be called from the main goroutine.
func (s *Shell) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	systray.Run(func() { s.onReady(ctx) }, cancel)
}

func (s *Shell) onReady(ctx context.Context) {
	icon := Icon()
	systray.SetTemplateIcon(icon, icon)
	systray.SetTooltip(Title)

	title := systray.AddMenuItem(Title, "")
	title.Disable()
	systray.AddSeparator()
	header := systray.AddMenuItem("Input Device", "")
	header.Disable()

	s.slots = make([]*systray.MenuItem, maxDeviceSlots)
	s.slotIDs = make([]audiodev.DeviceID, maxDeviceSlots)
	for i := range s.slots {
		item := systray.AddMenuItemCheckbox("", "", false)
		item.Hide()
		s.slots[i] = item
		go s.watchSlot(ctx, i, item)
	}

	systray.AddSeparator()
	s.keepInput = systray.AddMenuItemCheckbox("Keep Input Active", "Switch back to the chosen input device whenever it changes", false)
	s.keepBalanced = systray.AddMenuItemCheckbox("Keep Output Balanced", "Reset the output balance to center whenever it changes", false)
	s.openAtLogin = systray.AddMenuItemCheckbox("Open at Login", "", false)
	systray.AddSeparator()
	quit := systray.AddMenuItem("Quit", "")

	go s.watchToggle(ctx, s.keepInput, s.ctrl.ToggleKeepInputActive)
	go s.watchToggle(ctx, s.keepBalanced, s.ctrl.ToggleKeepOutputBalanced)
	go s.watchToggle(ctx, s.openAtLogin, s.ctrl.ToggleOpenAtLogin)

	go func() {
		select {
		case <-quit.ClickedCh:
		case <-ctx.Done():
		}
		systray.Quit()
	}()

	go func() {
		err := s.ctrl.Run(ctx, s.interval, s.render)
		if err != nil && ctx.Err() == nil {
			s.logger.Printf("tick loop: %v", err)
		}
	}()
}

func (s *Shell) watchSlot(ctx context.Context, i int, item *systray.MenuItem) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-item.ClickedCh:
			s.mu.Lock()
			id := s.slotIDs[i]
			s.mu.Unlock()
			err := s.ctrl.Submit(func() {
				if err := s.ctrl.SelectDevice(id); err != nil {
					s.logger.Printf("prefs: remember device: %v", err)
				}
			})
			if err != nil {
				return
			}
		}
	}
}

func (s *Shell) watchToggle(ctx context.Context, item *systray.MenuItem, toggle func() (bool, error)) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-item.ClickedCh:
			err := s.ctrl.Submit(func() {
				on, err := toggle()
				if err != nil {
					s.logger.Printf("toggle %s: %v", item.String(), err)
				}
				setChecked(item, on)
			})
			if err != nil {
				return
			}
		}
	}
}

// render applies a snapshot to the menu. Called on the controller goroutine.
func (s *Shell) render(snap app.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(snap.Devices) > len(s.slots) && !s.overflowSeen {
		s.overflowSeen = true
		s.logger.Printf("device: %d input devices, showing the first %d", len(snap.Devices), len(s.slots))
	}

	for i, st := range layoutSlots(snap, len(s.slots)) {
		item := s.slots[i]
		s.slotIDs[i] = st.ID
		if !st.Visible {
			item.Hide()
			continue
		}
		item.SetTitle(st.Title)
		setChecked(item, st.Checked)
		item.Show()
	}

	setChecked(s.keepInput, snap.KeepInputActive)
	setChecked(s.keepBalanced, snap.KeepOutputBalanced)
	setChecked(s.openAtLogin, snap.OpenAtLogin)
}

func setChecked(item *systray.MenuItem, on bool) {
	if on {
		item.Check()
	} else {
		item.Uncheck()
	}
}
