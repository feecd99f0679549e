package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"cobide/internal/config"

	"github.com/charmbracelet/lipgloss"
)

// ColorTheme represents a set of styles for the CLI
type ColorTheme struct {
	Name       string
	Success    lipgloss.Style
	Error      lipgloss.Style
	Warning    lipgloss.Style
	Info       lipgloss.Style
	Header     lipgloss.Style
	Logo       lipgloss.Style
	BoxOutline lipgloss.Style
	Highlight  lipgloss.Style
}

// Output is where the Print functions write
var Output io.Writer = os.Stdout

// CurrentTheme is the active theme, starts with default
var CurrentTheme = NewColorTheme("default")

// NewColorTheme builds the CLI styles from one of the settings themes.
// Unknown names yield the default theme.
func NewColorTheme(name string) ColorTheme {
	colors := config.GetTheme(name)
	fg := func(key string) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(colors[key]))
	}
	return ColorTheme{
		Name:       name,
		Success:    fg("success"),
		Error:      fg("error"),
		Warning:    fg("warning"),
		Info:       fg("info"),
		Header:     fg("primary").Bold(true),
		Logo:       fg("primary"),
		BoxOutline: lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color(colors["border"])).Padding(0, 1),
		Highlight:  fg("emphasis"),
	}
}

// SetTheme sets the current theme by name
func SetTheme(themeName string) bool {
	for _, name := range config.ListThemes() {
		if name == themeName {
			CurrentTheme = NewColorTheme(name)
			return true
		}
	}
	return false
}

// GetThemeNames returns all available theme names
func GetThemeNames() []string {
	return config.ListThemes()
}

// PrintSuccess prints a success message
func PrintSuccess(message string) {
	fmt.Fprintln(Output, CurrentTheme.Success.Render("✓ "+message))
}

// PrintError prints an error message
func PrintError(message string) {
	fmt.Fprintln(Output, CurrentTheme.Error.Render("✗ "+message))
}

// PrintWarning prints a warning message
func PrintWarning(message string) {
	fmt.Fprintln(Output, CurrentTheme.Warning.Render("! "+message))
}

// PrintInfo prints an informational message
func PrintInfo(message string) {
	fmt.Fprintln(Output, CurrentTheme.Info.Render("ℹ "+message))
}

// PrintHeader prints a section header
func PrintHeader(message string) {
	fmt.Fprintln(Output, "\n"+CurrentTheme.Header.Render(message))
	fmt.Fprintln(Output, strings.Repeat("─", lipgloss.Width(message)))
}

// PrintLine prints a plain line
func PrintLine(message string) {
	fmt.Fprintln(Output, message)
}

// Highlight renders s with the emphasis color
func Highlight(s string) string {
	return CurrentTheme.Highlight.Render(s)
}

// DrawBox draws a rounded box around content
func DrawBox(content string) string {
	return CurrentTheme.BoxOutline.Render(content)
}

// DrawLogo generates the ASCII art logo
func DrawLogo() string {
	logo := `
  ██████  ██████  ██████  ██ ██████  ███████
 ██      ██    ██ ██   ██ ██ ██   ██ ██
 ██      ██    ██ ██████  ██ ██   ██ █████
 ██      ██    ██ ██   ██ ██ ██   ██ ██
  ██████  ██████  ██████  ██ ██████  ███████
`
	return CurrentTheme.Logo.Render(logo)
}
