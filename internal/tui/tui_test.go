package tui

import (
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Danondso/menumic/internal/app"
	"github.com/Danondso/menumic/internal/audiodev"
	"github.com/Danondso/menumic/internal/config"
)

// mockController runs submitted functions inline and records calls.
type mockController struct {
	submitErr error
	selectErr error
	toggleErr error
	selected  []audiodev.DeviceID
	toggles   []string
}

func (m *mockController) Submit(fn func()) error {
	if m.submitErr != nil {
		return m.submitErr
	}
	fn()
	return nil
}

func (m *mockController) SelectDevice(id audiodev.DeviceID) error {
	m.selected = append(m.selected, id)
	return m.selectErr
}

func (m *mockController) ToggleKeepInputActive() (bool, error) {
	m.toggles = append(m.toggles, "input")
	return true, m.toggleErr
}

func (m *mockController) ToggleKeepOutputBalanced() (bool, error) {
	m.toggles = append(m.toggles, "balance")
	return true, m.toggleErr
}

func (m *mockController) ToggleOpenAtLogin() (bool, error) {
	m.toggles = append(m.toggles, "login")
	return true, m.toggleErr
}

func newTestModel(ctrl Controller) Model {
	return NewModel(ctrl, "fake", "ctrl+option+m", "synthwave", log.New(io.Discard, "", 0), false)
}

func testSnapshot() app.Snapshot {
	return app.Snapshot{
		Devices: []app.Entry{
			{ID: 2, Name: "Built-in Microphone"},
			{ID: 3, Name: "USB Mic", Selected: true},
			{ID: 4, Name: ""},
		},
		KeepOutputBalanced: true,
	}
}

func withSnapshot(m Model, snap app.Snapshot) Model {
	updated, _ := m.Update(SnapshotMsg{Snapshot: snap})
	return updated.(Model)
}

func press(m Model, key string) (Model, tea.Cmd) {
	var msg tea.KeyMsg
	switch key {
	case "up":
		msg = tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		msg = tea.KeyMsg{Type: tea.KeyDown}
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	updated, cmd := m.Update(msg)
	return updated.(Model), cmd
}

func TestFirstSnapshotPlacesCursorOnSelection(t *testing.T) {
	m := withSnapshot(newTestModel(&mockController{}), testSnapshot())
	if m.Cursor != 1 {
		t.Errorf("expected cursor on selected device 1, got %d", m.Cursor)
	}

	m.Cursor = 0
	m = withSnapshot(m, testSnapshot())
	if m.Cursor != 0 {
		t.Errorf("expected later snapshots to keep the cursor, got %d", m.Cursor)
	}
}

func TestSnapshotClampsCursor(t *testing.T) {
	m := withSnapshot(newTestModel(&mockController{}), testSnapshot())
	m.Cursor = 5
	m = withSnapshot(m, app.Snapshot{})
	if m.Cursor != int(numToggles)-1 {
		t.Errorf("expected cursor clamped to %d, got %d", numToggles-1, m.Cursor)
	}
}

func TestCursorMovementBounds(t *testing.T) {
	m := withSnapshot(newTestModel(&mockController{}), testSnapshot())
	m.Cursor = 0
	m, _ = press(m, "up")
	if m.Cursor != 0 {
		t.Errorf("expected cursor to stay at 0, got %d", m.Cursor)
	}
	for i := 0; i < 10; i++ {
		m, _ = press(m, "down")
	}
	if want := m.rows() - 1; m.Cursor != want {
		t.Errorf("expected cursor at last row %d, got %d", want, m.Cursor)
	}
	m, _ = press(m, "k")
	if want := m.rows() - 2; m.Cursor != want {
		t.Errorf("expected k to move up to %d, got %d", want, m.Cursor)
	}
}

func TestEnterSelectsDevice(t *testing.T) {
	ctrl := &mockController{}
	m := withSnapshot(newTestModel(ctrl), testSnapshot())
	m.Cursor = 2

	_, cmd := press(m, "enter")
	if cmd == nil {
		t.Fatal("expected select command")
	}
	if msg := cmd(); msg != nil {
		t.Errorf("expected no message on success, got %#v", msg)
	}
	if len(ctrl.selected) != 1 || ctrl.selected[0] != 4 {
		t.Errorf("expected device 4 selected, got %v", ctrl.selected)
	}
}

func TestEnterTogglesRow(t *testing.T) {
	tests := []struct {
		row  int
		want string
	}{
		{3, "input"},
		{4, "balance"},
		{5, "login"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			ctrl := &mockController{}
			m := withSnapshot(newTestModel(ctrl), testSnapshot())
			m.Cursor = tt.row
			_, cmd := press(m, "enter")
			if cmd == nil {
				t.Fatal("expected toggle command")
			}
			cmd()
			if len(ctrl.toggles) != 1 || ctrl.toggles[0] != tt.want {
				t.Errorf("expected toggle %q, got %v", tt.want, ctrl.toggles)
			}
		})
	}
}

func TestActionErrorsBecomeMessages(t *testing.T) {
	ctrl := &mockController{toggleErr: errors.New("launch agent write failed")}
	m := withSnapshot(newTestModel(ctrl), testSnapshot())
	m.Cursor = 5
	_, cmd := press(m, "enter")
	msg, ok := cmd().(ActionErrorMsg)
	if !ok {
		t.Fatalf("expected ActionErrorMsg, got %#v", msg)
	}
	if !strings.Contains(msg.Err.Error(), "Open at Login") {
		t.Errorf("expected toggle label in error, got %q", msg.Err)
	}

	updated, timeout := m.Update(msg)
	m = updated.(Model)
	if m.LastError == "" || timeout == nil {
		t.Error("expected error to be shown with a timeout")
	}
	updated, _ = m.Update(noticeTimeoutMsg{})
	if updated.(Model).LastError != "" {
		t.Error("expected error cleared after timeout")
	}
}

func TestSubmitAfterStopReportsError(t *testing.T) {
	ctrl := &mockController{submitErr: app.ErrStopped}
	m := withSnapshot(newTestModel(ctrl), testSnapshot())
	m.Cursor = 0
	_, cmd := press(m, "enter")
	msg, ok := cmd().(ActionErrorMsg)
	if !ok || !errors.Is(msg.Err, app.ErrStopped) {
		t.Errorf("expected ErrStopped, got %#v", msg)
	}
	if len(ctrl.selected) != 0 {
		t.Errorf("expected no selection, got %v", ctrl.selected)
	}
}

func TestCopyDeviceName(t *testing.T) {
	var copied string
	m := withSnapshot(newTestModel(&mockController{}), testSnapshot())
	m.copyText = func(s string) error {
		copied = s
		return nil
	}
	m.Cursor = 1
	_, cmd := press(m, "c")
	if cmd == nil {
		t.Fatal("expected copy command")
	}
	msg, ok := cmd().(NoticeMsg)
	if !ok {
		t.Fatalf("expected NoticeMsg, got %#v", msg)
	}
	if copied != "USB Mic" {
		t.Errorf("expected 'USB Mic' copied, got %q", copied)
	}

	m.Cursor = 4
	if _, cmd := press(m, "c"); cmd != nil {
		t.Error("expected no copy command on a toggle row")
	}
}

func TestThemeCycle(t *testing.T) {
	m := newTestModel(&mockController{})
	if m.ThemeName != "Synthwave" {
		t.Fatalf("expected Synthwave, got %q", m.ThemeName)
	}
	m, _ = press(m, "t")
	if m.ThemeName != "Everforest" {
		t.Errorf("expected Everforest, got %q", m.ThemeName)
	}
	applyTheme(LoadTheme("synthwave"))
}

func TestQuit(t *testing.T) {
	m := newTestModel(&mockController{})
	_, cmd := press(m, "q")
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}

func TestViewContainsTitle(t *testing.T) {
	view := newTestModel(&mockController{}).View()
	if !strings.Contains(view, "MENU MIC") {
		t.Error("expected view to contain 'MENU MIC'")
	}
	if !strings.Contains(view, "loading") {
		t.Error("expected loading placeholder before the first snapshot")
	}
}

func TestViewShowsDevicesAndToggles(t *testing.T) {
	view := withSnapshot(newTestModel(&mockController{}), testSnapshot()).View()
	for _, want := range []string{
		"Input Device",
		"Built-in Microphone",
		"✓ USB Mic",
		"Device 4",
		"[ ] ",
		"[x] ",
		"Keep Input Active",
		"Keep Output Balanced",
		"Open at Login",
		"Backend:",
		"fake",
	} {
		if !strings.Contains(view, want) {
			t.Errorf("expected view to contain %q", want)
		}
	}
}

func TestViewNoDevices(t *testing.T) {
	view := withSnapshot(newTestModel(&mockController{}), app.Snapshot{}).View()
	if !strings.Contains(view, "no input devices") {
		t.Error("expected empty device placeholder")
	}
}

func TestDebugLogMsgAddsEntry(t *testing.T) {
	m := newTestModel(&mockController{})
	entry := DebugEntry{Time: "11:00:00", Category: "device", Message: "hello"}
	updated, _ := m.Update(DebugLogMsg{Entry: entry})
	model := updated.(Model)
	if len(model.DebugEntries) != 1 {
		t.Fatalf("expected 1 debug entry, got %d", len(model.DebugEntries))
	}
	if model.DebugEntries[0].Message != "hello" {
		t.Errorf("expected 'hello', got %q", model.DebugEntries[0].Message)
	}
}

func TestDebugLogTruncatesToMax(t *testing.T) {
	m := newTestModel(&mockController{})
	for i := 0; i < maxDebugLines+10; i++ {
		entry := DebugEntry{Time: "11:00:00", Category: "debug", Message: fmt.Sprintf("line %d", i)}
		updated, _ := m.Update(DebugLogMsg{Entry: entry})
		m = updated.(Model)
	}
	if len(m.DebugEntries) != maxDebugLines {
		t.Errorf("expected %d debug entries, got %d", maxDebugLines, len(m.DebugEntries))
	}
	if m.DebugEntries[0].Message != "line 10" {
		t.Errorf("expected oldest message to be 'line 10', got %q", m.DebugEntries[0].Message)
	}
}

func TestViewShowsDebugPanel(t *testing.T) {
	m := newTestModel(&mockController{})
	updated, _ := m.Update(DebugLogMsg{Entry: DebugEntry{Time: "11:00:00", Category: "device", Message: "test message"}})
	view := updated.(Model).View()
	if !strings.Contains(view, "Debug") {
		t.Error("expected view to contain 'Debug' panel title")
	}
	if !strings.Contains(view, "test message") {
		t.Error("expected view to contain debug message")
	}
}

func TestViewHidesDebugPanelWhenEmpty(t *testing.T) {
	view := newTestModel(&mockController{}).View()
	if strings.Contains(view, "Debug") {
		t.Error("expected view to NOT contain 'Debug' panel when no debug lines")
	}
}

func TestParseLine(t *testing.T) {
	tests := []struct {
		line     string
		time     string
		category string
		message  string
	}{
		{"[DEBUG] 11:27:53.777842 device: selected 3 (USB Mic)", "11:27:53.777842", "device", "device: selected 3 (USB Mic)"},
		{"[DEBUG] 11:27:53 balance: output re-centered", "11:27:53", "balance", "balance: output re-centered"},
		{"[DEBUG] 09:00:00 login: toggle: denied", "09:00:00", "login", "login: toggle: denied"},
		{"[DEBUG] 09:00:00 notify: sent \"x\"", "09:00:00", "feedback", "notify: sent \"x\""},
		{"[DEBUG] 09:00:00 chime: speaker init error", "09:00:00", "feedback", "chime: speaker init error"},
		{"[DEBUG] 09:00:00 hotkey: ctrl+m", "09:00:00", "hotkey", "hotkey: ctrl+m"},
		{"[DEBUG] 09:00:00 pactl: exit 1", "09:00:00", "audio", "pactl: exit 1"},
		{"something else", "", "debug", "something else"},
	}
	for _, tt := range tests {
		entry := parseLine(tt.line)
		if entry.Time != tt.time || entry.Category != tt.category || entry.Message != tt.message {
			t.Errorf("parseLine(%q) = %+v", tt.line, entry)
		}
	}
}

func TestRegisterCustomThemes(t *testing.T) {
	savedOrder := append([]string(nil), themeOrder...)
	t.Cleanup(func() {
		for _, k := range themeOrder {
			if !builtinThemes[k] {
				delete(themes, k)
			}
		}
		themeOrder = savedOrder
	})

	RegisterCustomThemes([]config.CustomTheme{
		{Name: "Ocean", Primary: "#0077B6"},
		{Name: "gruvbox", Primary: "#000000"},
		{Name: ""},
		{Name: "ocean", Primary: "#111111"},
	})

	ocean := LoadTheme("ocean")
	if ocean.Name != "Ocean" {
		t.Fatalf("expected custom theme Ocean, got %q", ocean.Name)
	}
	if ocean.Primary != lipgloss.Color("#0077B6") {
		t.Errorf("expected custom primary, got %v", ocean.Primary)
	}
	if ocean.Background != themes["synthwave"].Background {
		t.Errorf("expected empty color to fall back to synthwave, got %v", ocean.Background)
	}
	if LoadTheme("gruvbox").Primary != lipgloss.Color("#FB4934") {
		t.Error("expected built-in gruvbox to be left alone")
	}
	if got := NextTheme("monochrome"); got.Name != "Ocean" {
		t.Errorf("expected Ocean after monochrome, got %q", got.Name)
	}
	if len(themeOrder) != len(savedOrder)+1 {
		t.Errorf("expected one theme appended, got order %v", themeOrder)
	}
}
