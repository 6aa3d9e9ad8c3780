package tui

import (
	"fmt"
	"strings"

	"github.com/Danondso/menumic/internal/app"
)

// panelWidth is the total outer width of the main panel. borderStyle adds a
// border (2) and padding (4); Width() excludes the border.
const panelWidth = 72
const panelWidthForStyle = panelWidth - 2
const panelContentWidth = panelWidth - 6

// deviceLabel is the row text for a device.
func deviceLabel(e app.Entry) string {
	if e.Name == "" {
		return fmt.Sprintf("Device %d", e.ID)
	}
	return e.Name
}

// View renders the TUI.
func (m Model) View() string {
	var b strings.Builder

	titleText := "  MENU MIC  "
	barTotal := panelContentWidth - len(titleText)
	barLeft := barTotal / 2
	barRight := barTotal - barLeft
	title := strings.Repeat("▓", barLeft) + titleText + strings.Repeat("▓", barRight)
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")
	b.WriteString(m.renderStatusBar())
	b.WriteString("\n\n")

	b.WriteString(labelStyle.Render("Input Device"))
	b.WriteString("\n")
	b.WriteString(m.renderDevices())
	b.WriteString("\n\n")

	b.WriteString(m.renderToggles())
	b.WriteString("\n\n")

	switch {
	case m.LastError != "":
		errText := m.LastError
		if len(errText) > panelContentWidth-2 {
			errText = errText[:panelContentWidth-5] + "..."
		}
		b.WriteString(errorStyle.Render("✗ " + errText))
		b.WriteString("\n")
	case m.Notice != "":
		b.WriteString(noticeStyle.Render("✓ " + m.Notice))
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("↑/↓ move  enter select  c copy name  t theme  q quit"))

	if m.DebugMode || len(m.DebugEntries) > 0 {
		b.WriteString("\n\n")
		b.WriteString(m.renderDebugPanel())
	}

	return borderStyle.Width(panelWidthForStyle).Render(b.String())
}

func (m Model) cursorMark(row int) string {
	if row == m.Cursor {
		return cursorStyle.Render("> ")
	}
	return bodyStyle.Render("  ")
}

func (m Model) renderDevices() string {
	if !m.received {
		return helpStyle.Render("  loading...")
	}
	if len(m.Snapshot.Devices) == 0 {
		return helpStyle.Render("  (no input devices)")
	}

	rows := make([]string, 0, len(m.Snapshot.Devices))
	for i, d := range m.Snapshot.Devices {
		label := deviceLabel(d)
		var row string
		if d.Selected {
			row = selectedStyle.Render("✓ " + label)
		} else {
			row = bodyStyle.Render("  " + label)
		}
		rows = append(rows, m.cursorMark(i)+row)
	}
	return strings.Join(rows, "\n")
}

func (m Model) toggleState(t Toggle) bool {
	switch t {
	case ToggleKeepInputActive:
		return m.Snapshot.KeepInputActive
	case ToggleKeepOutputBalanced:
		return m.Snapshot.KeepOutputBalanced
	case ToggleOpenAtLogin:
		return m.Snapshot.OpenAtLogin
	}
	return false
}

func (m Model) renderToggles() string {
	offset := len(m.Snapshot.Devices)
	rows := make([]string, 0, numToggles)
	for t := Toggle(0); t < numToggles; t++ {
		var box string
		if m.toggleState(t) {
			box = toggleOnStyle.Render("[x] ")
		} else {
			box = toggleOffStyle.Render("[ ] ")
		}
		rows = append(rows, m.cursorMark(offset+int(t))+box+bodyStyle.Render(toggleLabels[t]))
	}
	return strings.Join(rows, "\n")
}

func (m Model) renderStatusBar() string {
	backend := m.BackendName
	if backend == "" {
		backend = "unknown"
	}
	hk := m.HotkeyName
	if hk == "" {
		hk = "none"
	}
	return helpStyle.Render("Backend: ") + hotkeyStyle.Render(backend) +
		helpStyle.Render("  Hotkey: ") + hotkeyStyle.Render(hk) +
		helpStyle.Render("  Theme: ") + hotkeyStyle.Render(m.ThemeName)
}

const debugPanelMaxLines = 5

// Debug table column widths. Row content must fit within panelContentWidth.
const (
	colTimeWidth     = 15
	colCategoryWidth = 8
	colSepWidth      = 3 // " │ "
	colMsgWidth      = panelContentWidth - colTimeWidth - colCategoryWidth - colSepWidth*2
)

func (m Model) renderDebugPanel() string {
	sep := debugSepStyle.Render(" │ ")
	rule := debugRuleStyle.Render(strings.Repeat("─", panelContentWidth))

	var db strings.Builder

	db.WriteString(debugTitleStyle.Render("Debug"))
	db.WriteString("\n")
	db.WriteString(rule)
	db.WriteString("\n")

	db.WriteString(
		debugHeaderStyle.Width(colTimeWidth).Render("TIME") +
			sep +
			debugHeaderStyle.Width(colCategoryWidth).Render("TYPE") +
			sep +
			debugHeaderStyle.Width(colMsgWidth).Render("MESSAGE"))
	db.WriteString("\n")
	db.WriteString(rule)

	entries := m.DebugEntries
	if len(entries) > debugPanelMaxLines {
		entries = entries[len(entries)-debugPanelMaxLines:]
	}
	for _, entry := range entries {
		timeStr := entry.Time
		if len(timeStr) > colTimeWidth {
			timeStr = timeStr[:colTimeWidth]
		}

		cat := entry.Category
		if len(cat) > colCategoryWidth {
			cat = cat[:colCategoryWidth]
		}

		msg := entry.Message
		if len(msg) > colMsgWidth {
			msg = msg[:colMsgWidth-3] + "..."
		}

		db.WriteString("\n")
		db.WriteString(
			debugTimeStyle.Width(colTimeWidth).Render(timeStr) +
				sep +
				debugCategoryStyle.Width(colCategoryWidth).Render(cat) +
				sep +
				debugMsgStyle.Width(colMsgWidth).Render(msg))
	}

	return db.String()
}
