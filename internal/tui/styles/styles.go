// Package styles holds the lipgloss styles of the terminal IDE
package styles

import "cobide/internal/config"

// Default is the theme used before the settings are loaded
var Default = NewTheme(config.New())

// ForName returns the styles of a named theme
func ForName(name string) Theme {
	cfg := config.New()
	cfg.ApplyTheme(name)
	return NewTheme(cfg)
}
