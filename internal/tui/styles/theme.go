package styles

import (
	"cobide/internal/config"

	"github.com/charmbracelet/lipgloss"
)

// Theme holds the styles of the terminal IDE, derived from the color
// settings.
type Theme struct {
	App        lipgloss.Style
	Title      lipgloss.Style
	Tab        lipgloss.Style
	ActiveTab  lipgloss.Style
	Panel      lipgloss.Style
	Focused    lipgloss.Style
	Selected   lipgloss.Style
	Unselected lipgloss.Style
	Help       lipgloss.Style
	Status     lipgloss.Style
	Success    lipgloss.Style
	Warning    lipgloss.Style
	Error      lipgloss.Style
	Info       lipgloss.Style
	Dialog     lipgloss.Style
}

// NewTheme builds the styles for the colors of cfg
func NewTheme(cfg *config.Config) Theme {
	primary := lipgloss.Color(cfg.Theme.Primary)
	border := lipgloss.Color(cfg.Theme.Border)
	emphasis := lipgloss.Color(cfg.Theme.Emphasis)

	return Theme{
		App: lipgloss.NewStyle(),
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(primary),
		Tab: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#959595")).
			Padding(0, 1),
		ActiveTab: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(primary).
			Padding(0, 1),
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#626262")),
		Focused: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(border),
		Selected: lipgloss.NewStyle().
			Foreground(emphasis).
			Bold(true),
		Unselected: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#CCCCCC")),
		Help: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#5A9")),
		Status: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#959595")),
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color(cfg.Theme.Success)),
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color(cfg.Theme.Warning)),
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color(cfg.Theme.Error)),
		Info:    lipgloss.NewStyle().Foreground(lipgloss.Color(cfg.Theme.Info)),
		Dialog: lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(border).
			Padding(1, 2),
	}
}
