package viz

import "github.com/charmbracelet/lipgloss"

// Theme defines the colors of the live view.
type Theme struct {
	Name    string
	Flock   lipgloss.Color
	Header  lipgloss.Color
	Label   lipgloss.Color
	Value   lipgloss.Color
	Graph   lipgloss.Color
	Border  lipgloss.Color
	Paused  lipgloss.Color
	Running lipgloss.Color
}

var (
	ThemeNight = Theme{
		Name:    "night",
		Flock:   lipgloss.Color("#e0e0e0"),
		Header:  lipgloss.Color("86"),
		Label:   lipgloss.Color("245"),
		Value:   lipgloss.Color("252"),
		Graph:   lipgloss.Color("49"),
		Border:  lipgloss.Color("240"),
		Paused:  lipgloss.Color("#ffaa00"),
		Running: lipgloss.Color("#00ff88"),
	}

	ThemeRetroGreen = Theme{
		Name:    "retro",
		Flock:   lipgloss.Color("#00ff00"), // Green phosphor
		Header:  lipgloss.Color("#88ff88"),
		Label:   lipgloss.Color("#00aa00"),
		Value:   lipgloss.Color("#00ff00"),
		Graph:   lipgloss.Color("#00cc00"),
		Border:  lipgloss.Color("#005500"),
		Paused:  lipgloss.Color("#ffff00"),
		Running: lipgloss.Color("#88ff88"),
	}

	ThemeOcean = Theme{
		Name:    "ocean",
		Flock:   lipgloss.Color("#00a8cc"),
		Header:  lipgloss.Color("#ffd700"),
		Label:   lipgloss.Color("#4488aa"),
		Value:   lipgloss.Color("#e0f0ff"),
		Graph:   lipgloss.Color("#0077be"),
		Border:  lipgloss.Color("#4488aa"),
		Paused:  lipgloss.Color("#ffcc00"),
		Running: lipgloss.Color("#00ff88"),
	}

	ThemeSunset = Theme{
		Name:    "sunset",
		Flock:   lipgloss.Color("#ff6b6b"), // Coral
		Header:  lipgloss.Color("#feca57"),
		Label:   lipgloss.Color("#8b6b8c"),
		Value:   lipgloss.Color("#fff5f5"),
		Graph:   lipgloss.Color("#ff9ff3"),
		Border:  lipgloss.Color("#8b6b8c"),
		Paused:  lipgloss.Color("#ffc048"),
		Running: lipgloss.Color("#5fd068"),
	}

	Themes = []Theme{
		ThemeNight,
		ThemeRetroGreen,
		ThemeOcean,
		ThemeSunset,
	}
)

// GetTheme returns a theme by name, falling back to the first one.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return Themes[0]
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

// styles holds the lipgloss styles derived from a theme.
type styles struct {
	canvas  lipgloss.Style
	stats   lipgloss.Style
	header  lipgloss.Style
	label   lipgloss.Style
	value   lipgloss.Style
	graph   lipgloss.Style
	help    lipgloss.Style
	paused  lipgloss.Style
	running lipgloss.Style
}

func newStyles(t Theme) styles {
	return styles{
		canvas:  lipgloss.NewStyle().Padding(0, 1).Foreground(t.Flock),
		stats:   lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(t.Border).Padding(0, 2).Width(42),
		header:  lipgloss.NewStyle().Foreground(t.Header).Bold(true).MarginBottom(1),
		label:   lipgloss.NewStyle().Foreground(t.Label).Width(15),
		value:   lipgloss.NewStyle().Foreground(t.Value),
		graph:   lipgloss.NewStyle().Foreground(t.Graph).Padding(1, 0),
		help:    lipgloss.NewStyle().Foreground(t.Border).MarginTop(1),
		paused:  lipgloss.NewStyle().Foreground(t.Paused).Bold(true),
		running: lipgloss.NewStyle().Foreground(t.Running).Bold(true),
	}
}
