package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Danondso/menumic/internal/config"
)

// Theme defines the color palette for the TUI.
type Theme struct {
	Name       string
	Primary    lipgloss.Color // title, selected device
	Secondary  lipgloss.Color // labels, border, hotkey text
	Accent     lipgloss.Color // cursor
	Error      lipgloss.Color // error line
	Success    lipgloss.Color // enabled toggles, notices
	Warning    lipgloss.Color // debug category
	Background lipgloss.Color // panel background
	Text       lipgloss.Color // body text
	Dimmed     lipgloss.Color // help text, disabled toggles, debug text
	Separator  lipgloss.Color // debug separator
}

var themes = map[string]Theme{
	"synthwave": {
		Name:       "Synthwave",
		Primary:    lipgloss.Color("#FF6AC1"),
		Secondary:  lipgloss.Color("#00E5FF"),
		Accent:     lipgloss.Color("#B388FF"),
		Error:      lipgloss.Color("#FF8A80"),
		Success:    lipgloss.Color("#64FFDA"),
		Warning:    lipgloss.Color("#FFAB40"),
		Background: lipgloss.Color("#1A1A2E"),
		Text:       lipgloss.Color("#E0E0E0"),
		Dimmed:     lipgloss.Color("#666666"),
		Separator:  lipgloss.Color("#444444"),
	},
	"everforest": {
		Name:       "Everforest",
		Primary:    lipgloss.Color("#A7C080"),
		Secondary:  lipgloss.Color("#7FBBB3"),
		Accent:     lipgloss.Color("#D699B6"),
		Error:      lipgloss.Color("#E67E80"),
		Success:    lipgloss.Color("#83C092"),
		Warning:    lipgloss.Color("#DBBC7F"),
		Background: lipgloss.Color("#2D353B"),
		Text:       lipgloss.Color("#D3C6AA"),
		Dimmed:     lipgloss.Color("#859289"),
		Separator:  lipgloss.Color("#4F585E"),
	},
	"gruvbox": {
		Name:       "Gruvbox",
		Primary:    lipgloss.Color("#FB4934"),
		Secondary:  lipgloss.Color("#83A598"),
		Accent:     lipgloss.Color("#D3869B"),
		Error:      lipgloss.Color("#FB4934"),
		Success:    lipgloss.Color("#B8BB26"),
		Warning:    lipgloss.Color("#FABD2F"),
		Background: lipgloss.Color("#282828"),
		Text:       lipgloss.Color("#EBDBB2"),
		Dimmed:     lipgloss.Color("#928374"),
		Separator:  lipgloss.Color("#504945"),
	},
	"monochrome": {
		Name:       "Monochrome",
		Primary:    lipgloss.Color("#FFFFFF"),
		Secondary:  lipgloss.Color("#CCCCCC"),
		Accent:     lipgloss.Color("#AAAAAA"),
		Error:      lipgloss.Color("#FF0000"),
		Success:    lipgloss.Color("#FFFFFF"),
		Warning:    lipgloss.Color("#CCCCCC"),
		Background: lipgloss.Color("#000000"),
		Text:       lipgloss.Color("#FFFFFF"),
		Dimmed:     lipgloss.Color("#888888"),
		Separator:  lipgloss.Color("#444444"),
	},
}

// themeOrder defines the fixed cycle order for theme toggling.
var themeOrder = []string{"synthwave", "everforest", "gruvbox", "monochrome"}

// ThemeNames returns the names of all built-in themes in cycle order.
func ThemeNames() []string {
	return themeOrder
}

// LoadTheme returns the theme with the given name (case-insensitive).
// Falls back to synthwave if the name is not recognized.
func LoadTheme(name string) Theme {
	if t, ok := themes[strings.ToLower(name)]; ok {
		return t
	}
	return themes["synthwave"]
}

// NextTheme returns the theme after the given one in the cycle order.
func NextTheme(current string) Theme {
	current = strings.ToLower(current)
	for i, name := range themeOrder {
		if name == current {
			return themes[themeOrder[(i+1)%len(themeOrder)]]
		}
	}
	return themes[themeOrder[0]]
}

// builtinThemes is the set of theme keys that cannot be overridden by custom themes.
var builtinThemes = map[string]bool{
	"synthwave":  true,
	"everforest": true,
	"gruvbox":    true,
	"monochrome": true,
}

// orDefault returns c, or fallback when c is empty.
func orDefault(c string, fallback lipgloss.Color) lipgloss.Color {
	if c == "" {
		return fallback
	}
	return lipgloss.Color(c)
}

// RegisterCustomThemes adds config custom themes to the themes map and
// appends them to the theme cycle order. Colors left empty come from
// synthwave. Entries with empty names or names that collide with existing
// themes are skipped.
func RegisterCustomThemes(custom []config.CustomTheme) {
	base := themes["synthwave"]
	for _, ct := range custom {
		key := strings.ToLower(ct.Name)
		if key == "" || builtinThemes[key] {
			continue
		}
		if _, exists := themes[key]; exists {
			continue
		}
		themes[key] = Theme{
			Name:       ct.Name,
			Primary:    orDefault(ct.Primary, base.Primary),
			Secondary:  orDefault(ct.Secondary, base.Secondary),
			Accent:     orDefault(ct.Accent, base.Accent),
			Error:      orDefault(ct.Error, base.Error),
			Success:    orDefault(ct.Success, base.Success),
			Warning:    orDefault(ct.Warning, base.Warning),
			Background: orDefault(ct.Background, base.Background),
			Text:       orDefault(ct.Text, base.Text),
			Dimmed:     orDefault(ct.Dimmed, base.Dimmed),
			Separator:  orDefault(ct.Separator, base.Separator),
		}
		themeOrder = append(themeOrder, key)
	}
}

var (
	titleStyle         lipgloss.Style
	borderStyle        lipgloss.Style
	labelStyle         lipgloss.Style
	bodyStyle          lipgloss.Style
	selectedStyle      lipgloss.Style
	cursorStyle        lipgloss.Style
	toggleOnStyle      lipgloss.Style
	toggleOffStyle     lipgloss.Style
	hotkeyStyle        lipgloss.Style
	helpStyle          lipgloss.Style
	noticeStyle        lipgloss.Style
	errorStyle         lipgloss.Style
	debugTitleStyle    lipgloss.Style
	debugRuleStyle     lipgloss.Style
	debugHeaderStyle   lipgloss.Style
	debugTimeStyle     lipgloss.Style
	debugCategoryStyle lipgloss.Style
	debugMsgStyle      lipgloss.Style
	debugSepStyle      lipgloss.Style
)

func init() {
	applyTheme(themes["synthwave"])
}

// applyTheme updates all TUI style variables to use the given theme's colors.
func applyTheme(t Theme) {
	base := lipgloss.NewStyle().Background(t.Background)

	titleStyle = base.
		Bold(true).
		Foreground(t.Primary).
		MarginBottom(1)

	borderStyle = base.
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Secondary).
		Padding(1, 2)

	labelStyle = base.Foreground(t.Secondary).Bold(true)
	bodyStyle = base.Foreground(t.Text)
	selectedStyle = base.Foreground(t.Primary).Bold(true)
	cursorStyle = base.Foreground(t.Accent).Bold(true)
	toggleOnStyle = base.Foreground(t.Success).Bold(true)
	toggleOffStyle = base.Foreground(t.Dimmed)
	hotkeyStyle = base.Foreground(t.Secondary)
	helpStyle = base.Foreground(t.Dimmed)
	noticeStyle = base.Foreground(t.Success)
	errorStyle = base.Foreground(t.Error).Bold(true)

	debugTitleStyle = base.Foreground(t.Dimmed).Bold(true)
	debugRuleStyle = base.Foreground(t.Dimmed)
	debugHeaderStyle = base.Foreground(t.Dimmed).Bold(true)
	debugTimeStyle = base.Foreground(t.Dimmed)
	debugCategoryStyle = base.Foreground(t.Warning)
	debugMsgStyle = base.Foreground(t.Dimmed)
	debugSepStyle = base.Foreground(t.Separator)
}
