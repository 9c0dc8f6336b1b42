package tui

import "github.com/charmbracelet/lipgloss"

// Styles
var (
	baseFg    = lipgloss.Color("#E6E6E6")
	baseDimFg = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#6B7280"}
	accentFg  = lipgloss.Color("#0FB1FB")
	borderCol = lipgloss.Color("#243141")
	hoverFg   = lipgloss.Color("#FFA500")
	glowFg    = lipgloss.Color("#FFD700")

	appStyle   = lipgloss.NewStyle().Foreground(baseFg)
	boxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(borderCol).Padding(0, 1)
	titleStyle = lipgloss.NewStyle().Foreground(accentFg).Bold(true)
	dimStyle   = lipgloss.NewStyle().Foreground(baseDimFg)
	bloomStyle = lipgloss.NewStyle().Foreground(glowFg).Bold(true)

	layerOnStyle  = lipgloss.NewStyle().Foreground(accentFg)
	layerOffStyle = lipgloss.NewStyle().Foreground(baseDimFg).Strikethrough(true)
)

// layerBadges renders the 1-4 layer toggles for the header.
func (m Model) layerBadges() string {
	layers := []struct {
		key, name string
		on        bool
	}{
		{"1", "regions", m.showRegions},
		{"2", "outlines", m.showOutlines},
		{"3", "routes", m.showRoutes},
		{"4", "markers", m.showMarkers},
	}
	out := ""
	for _, l := range layers {
		st := layerOffStyle
		if l.on {
			st = layerOnStyle
		}
		out += " " + st.Render(l.key+":"+l.name)
	}
	return out
}
