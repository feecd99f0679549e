package ide

import (
	"fmt"
	"runtime"

	"cobide/internal/config"
	"cobide/internal/editor"
)

// Version is set at build time
var Version = "dev"

// QuickStart actions offered by the home page
const (
	QuickStartNew   = "Create a new file"
	QuickStartOpen  = "Open a file"
	QuickStartAbout = "About"
)

// QuickStartActions lists the home page actions in display order
func QuickStartActions() []string {
	return []string{QuickStartNew, QuickStartOpen, QuickStartAbout}
}

// ToggleFullscreen switches fullscreen mode and remembers it
func (c *Controller) ToggleFullscreen() {
	c.SetFullscreen(!c.fullscreen)
}

// SetFullscreen enters or leaves fullscreen mode
func (c *Controller) SetFullscreen(fullscreen bool) {
	c.fullscreen = fullscreen
	c.surface.SetFullscreen(fullscreen)
	_ = c.store.Update(func(cfg *config.Config) { cfg.Window.Fullscreen = fullscreen })
}

// Fullscreen reports the fullscreen mode
func (c *Controller) Fullscreen() bool { return c.fullscreen }

// ToggleDock shows or hides a dock. The navigation dock is only shown for
// COBOL tabs and both docks stay hidden on the home page.
func (c *Controller) ToggleDock(dock Dock) {
	switch dock {
	case DockNavigation:
		c.showNav = !c.showNav
	case DockLogs:
		c.showLogs = !c.showLogs
	}
	showNav, showLogs := c.showNav, c.showLogs
	_ = c.store.Update(func(cfg *config.Config) {
		cfg.Window.ShowNavigation = showNav
		cfg.Window.ShowLogs = showLogs
	})
	c.surface.ShowDock(dock, c.DockVisible(dock))
}

// DockVisible reports whether dock is shown in the current state
func (c *Controller) DockVisible(dock Dock) bool {
	tab := c.tabs.Active()
	if tab == nil {
		return false
	}
	if dock == DockNavigation {
		_, isCobol := tab.(*editor.CobolTab)
		return isCobol && c.showNav
	}
	return c.showLogs
}

// About shows the about dialog
func (c *Controller) About() {
	c.surface.ShowInfo("About "+WindowTitle, AboutText())
}

// AboutText describes the application
func AboutText() string {
	return fmt.Sprintf("%s %s\n\nA simple IDE for editing, compiling and running COBOL programs.\n"+
		"Programs are compiled with GnuCOBOL (cobc) or a compatible compiler.\n\n"+
		"Built with %s for %s/%s.", WindowTitle, Version, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
