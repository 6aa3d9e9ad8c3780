package tui

import (
	"fmt"
	"log"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Danondso/menumic/internal/app"
	"github.com/Danondso/menumic/internal/audiodev"
)

// Controller is the part of app.Controller the TUI drives. Every call other
// than Submit must happen inside a function passed to Submit.
type Controller interface {
	Submit(fn func()) error
	SelectDevice(id audiodev.DeviceID) error
	ToggleKeepInputActive() (bool, error)
	ToggleKeepOutputBalanced() (bool, error)
	ToggleOpenAtLogin() (bool, error)
}

// Toggle identifies one of the checkbox rows below the device list.
type Toggle int

const (
	ToggleKeepInputActive Toggle = iota
	ToggleKeepOutputBalanced
	ToggleOpenAtLogin
	numToggles
)

var toggleLabels = [numToggles]string{
	ToggleKeepInputActive:    "Keep Input Active",
	ToggleKeepOutputBalanced: "Keep Output Balanced",
	ToggleOpenAtLogin:        "Open at Login",
}

// Messages sent through the Bubble Tea update loop.

// SnapshotMsg carries the state published after each tick or action.
type SnapshotMsg struct {
	Snapshot app.Snapshot
}

// ActionErrorMsg reports a failed menu action.
type ActionErrorMsg struct {
	Err error
}

// NoticeMsg shows a short confirmation line.
type NoticeMsg struct {
	Text string
}

type noticeTimeoutMsg struct{}

// DebugEntry is a structured debug log entry.
type DebugEntry struct {
	Time     string // e.g. "11:27:53"
	Category string // e.g. "device", "balance", "login"
	Message  string
}

// DebugLogMsg carries a structured debug log entry into the TUI.
type DebugLogMsg struct {
	Entry DebugEntry
}

const maxDebugLines = 50

const noticeDuration = 3 * time.Second

// Model is the Bubble Tea model for the Menu Mic TUI.
type Model struct {
	Snapshot     app.Snapshot
	Cursor       int
	HotkeyName   string
	BackendName  string
	ThemeName    string
	Notice       string
	LastError    string
	Logger       *log.Logger
	DebugMode    bool
	DebugEntries []DebugEntry
	ctrl         Controller
	copyText     func(string) error
	received     bool
}

// NewModel creates a new TUI model.
func NewModel(ctrl Controller, backend, hotkeyName, theme string, logger *log.Logger, debug bool) Model {
	t := LoadTheme(theme)
	applyTheme(t)
	return Model{
		HotkeyName:  hotkeyName,
		BackendName: backend,
		ThemeName:   t.Name,
		Logger:      logger,
		DebugMode:   debug,
		ctrl:        ctrl,
		copyText:    clipboard.WriteAll,
	}
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// rows is the number of selectable rows: devices then toggles.
func (m Model) rows() int {
	return len(m.Snapshot.Devices) + int(numToggles)
}

// cursorDevice returns the device under the cursor, if the cursor is on one.
func (m Model) cursorDevice() (app.Entry, bool) {
	if m.Cursor < len(m.Snapshot.Devices) {
		return m.Snapshot.Devices[m.Cursor], true
	}
	return app.Entry{}, false
}

// cursorToggle returns the toggle under the cursor, if the cursor is on one.
func (m Model) cursorToggle() (Toggle, bool) {
	i := m.Cursor - len(m.Snapshot.Devices)
	if i >= 0 && i < int(numToggles) {
		return Toggle(i), true
	}
	return 0, false
}

// Update handles messages and transitions state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case SnapshotMsg:
		first := !m.received
		m.Snapshot = msg.Snapshot
		m.received = true
		if first {
			if i, ok := m.selectedIndex(); ok {
				m.Cursor = i
			}
		}
		if m.Cursor >= m.rows() {
			m.Cursor = m.rows() - 1
		}

	case ActionErrorMsg:
		m.LastError = msg.Err.Error()
		m.Notice = ""
		return m, scheduleNoticeTimeout()

	case NoticeMsg:
		m.Notice = msg.Text
		m.LastError = ""
		return m, scheduleNoticeTimeout()

	case noticeTimeoutMsg:
		m.Notice = ""
		m.LastError = ""

	case DebugLogMsg:
		m.DebugEntries = append(m.DebugEntries, msg.Entry)
		if len(m.DebugEntries) > maxDebugLines {
			m.DebugEntries = m.DebugEntries[len(m.DebugEntries)-maxDebugLines:]
		}
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "down", "j":
		if m.Cursor < m.rows()-1 {
			m.Cursor++
		}
	case "enter", " ":
		if d, ok := m.cursorDevice(); ok {
			return m, m.selectCmd(d.ID)
		}
		if t, ok := m.cursorToggle(); ok {
			return m, m.toggleCmd(t)
		}
	case "c":
		if d, ok := m.cursorDevice(); ok {
			return m, m.copyCmd(d)
		}
	case "t":
		next := NextTheme(m.ThemeName)
		applyTheme(next)
		m.ThemeName = next.Name
	}
	return m, nil
}

func (m Model) selectedIndex() (int, bool) {
	for i, d := range m.Snapshot.Devices {
		if d.Selected {
			return i, true
		}
	}
	return 0, false
}

func (m Model) selectCmd(id audiodev.DeviceID) tea.Cmd {
	ctrl := m.ctrl
	return func() tea.Msg {
		var selErr error
		err := ctrl.Submit(func() {
			selErr = ctrl.SelectDevice(id)
		})
		if err == nil {
			err = selErr
		}
		if err != nil {
			return ActionErrorMsg{Err: fmt.Errorf("select device: %w", err)}
		}
		return nil
	}
}

func (m Model) toggleCmd(t Toggle) tea.Cmd {
	ctrl := m.ctrl
	return func() tea.Msg {
		var toggleErr error
		err := ctrl.Submit(func() {
			switch t {
			case ToggleKeepInputActive:
				_, toggleErr = ctrl.ToggleKeepInputActive()
			case ToggleKeepOutputBalanced:
				_, toggleErr = ctrl.ToggleKeepOutputBalanced()
			case ToggleOpenAtLogin:
				_, toggleErr = ctrl.ToggleOpenAtLogin()
			}
		})
		if err == nil {
			err = toggleErr
		}
		if err != nil {
			return ActionErrorMsg{Err: fmt.Errorf("%s: %w", toggleLabels[t], err)}
		}
		return nil
	}
}

func (m Model) copyCmd(d app.Entry) tea.Cmd {
	copyFn := m.copyText
	name := deviceLabel(d)
	return func() tea.Msg {
		if err := copyFn(name); err != nil {
			return ActionErrorMsg{Err: fmt.Errorf("copy: %w", err)}
		}
		return NoticeMsg{Text: fmt.Sprintf("copied %q", name)}
	}
}

func scheduleNoticeTimeout() tea.Cmd {
	return tea.Tick(noticeDuration, func(time.Time) tea.Msg {
		return noticeTimeoutMsg{}
	})
}
