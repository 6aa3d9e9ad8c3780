package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// LogWriter is an io.Writer that sends each written line as a DebugLogMsg
// to a Bubble Tea program. Use it as the output for a log.Logger.
type LogWriter struct {
	program *tea.Program
}

// NewLogWriter creates a LogWriter that sends debug lines to the given program.
func NewLogWriter(p *tea.Program) *LogWriter {
	return &LogWriter{program: p}
}

// Write implements io.Writer. The send happens in a goroutine so logging from
// inside a Bubble Tea command cannot deadlock the program.
func (w *LogWriter) Write(b []byte) (int, error) {
	line := strings.TrimRight(string(b), "\n")
	entry := parseLine(line)
	go w.program.Send(DebugLogMsg{Entry: entry})
	return len(b), nil
}

// parseLine extracts time, category, and message from a log line.
// Expected format: "[DEBUG] HH:MM:SS.micros message text"
func parseLine(line string) DebugEntry {
	entry := DebugEntry{
		Category: "debug",
		Message:  line,
	}

	msg := strings.TrimPrefix(line, "[DEBUG] ")

	if len(msg) >= 8 && msg[2] == ':' && msg[5] == ':' {
		spaceIdx := strings.IndexByte(msg, ' ')
		if spaceIdx > 0 {
			entry.Time = msg[:spaceIdx]
			msg = msg[spaceIdx+1:]
		}
	}

	entry.Category, entry.Message = inferCategory(msg)

	return entry
}

// inferCategory determines the log category from the message prefix.
func inferCategory(msg string) (category, message string) {
	lower := strings.ToLower(msg)

	switch {
	case strings.HasPrefix(lower, "device"):
		return "device", msg
	case strings.HasPrefix(lower, "balance"):
		return "balance", msg
	case strings.HasPrefix(lower, "login"):
		return "login", msg
	case strings.HasPrefix(lower, "hotkey"):
		return "hotkey", msg
	case strings.HasPrefix(lower, "notify"), strings.HasPrefix(lower, "chime"):
		return "feedback", msg
	case strings.HasPrefix(lower, "prefs"), strings.HasPrefix(lower, "config"):
		return "prefs", msg
	case strings.HasPrefix(lower, "coreaudio"), strings.HasPrefix(lower, "pactl"), strings.HasPrefix(lower, "portaudio"):
		return "audio", msg
	default:
		return "debug", msg
	}
}
