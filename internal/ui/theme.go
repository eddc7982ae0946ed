package ui

import "github.com/charmbracelet/lipgloss"

type Theme struct {
	Background string

	TopBar    lipgloss.Style
	StatusBar lipgloss.Style
	Tab       lipgloss.Style
	TabActive lipgloss.Style

	Title   lipgloss.Style
	Label   lipgloss.Style
	Value   lipgloss.Style
	Border  lipgloss.Style
	Hint    lipgloss.Style
	Error   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style

	ModalBox   lipgloss.Style
	ModalTitle lipgloss.Style
	Button     lipgloss.Style
	Selected   lipgloss.Style

	BotBubble  lipgloss.Style
	UserBubble lipgloss.Style
}

func newTheme(bg, fg, accent, dim, surface string) Theme {
	return Theme{
		Background: bg,

		TopBar:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(bg)).Background(lipgloss.Color(accent)).Padding(0, 1),
		StatusBar: lipgloss.NewStyle().Foreground(lipgloss.Color(dim)).Padding(0, 1),
		Tab:       lipgloss.NewStyle().Foreground(lipgloss.Color(dim)).Padding(0, 1),
		TabActive: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(accent)).Underline(true).Padding(0, 1),

		Title:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(fg)),
		Label:   lipgloss.NewStyle().Faint(true).Foreground(lipgloss.Color("#89B4FA")),
		Value:   lipgloss.NewStyle().Foreground(lipgloss.Color(fg)),
		Border:  lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color(dim)).Padding(0, 1),
		Hint:    lipgloss.NewStyle().Faint(true).Foreground(lipgloss.Color(dim)),
		Error:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F38BA8")),
		Success: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#A6E3A1")),
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("#FAB387")),

		ModalBox:   lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color(accent)).Padding(1, 2),
		ModalTitle: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(accent)).MarginBottom(1),
		Button:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(bg)).Background(lipgloss.Color(accent)).Padding(0, 2),
		Selected:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(accent)),

		BotBubble:  lipgloss.NewStyle().Foreground(lipgloss.Color(fg)).Background(lipgloss.Color(surface)).Padding(0, 1),
		UserBubble: lipgloss.NewStyle().Foreground(lipgloss.Color(bg)).Background(lipgloss.Color(accent)).Padding(0, 1),
	}
}

var themes = map[string]Theme{
	"default": newTheme("#1E1E2E", "#CDD6F4", "#94E2D5", "#6C7086", "#313244"),
	"dark":    newTheme("#11111B", "#BAC2DE", "#B4BEFE", "#585B70", "#1E1E2E"),
	"light":   newTheme("#EFF1F5", "#4C4F69", "#179299", "#8C8FA1", "#DCE0E8"),
}

// ThemeFor returns the named theme, falling back to the default one.
func ThemeFor(name string) Theme {
	if t, ok := themes[name]; ok {
		return t
	}
	return themes["default"]
}
