package common

import (
	"cobide/internal/editor"
	"cobide/internal/ide"
	"cobide/internal/tui/styles"
)

// Focus is the panel receiving key presses
type Focus int

const (
	FocusHome Focus = iota
	FocusEditor
	FocusErrors
	FocusNavigation
	FocusLogs
)

func (f Focus) String() string {
	switch f {
	case FocusEditor:
		return "editor"
	case FocusErrors:
		return "errors"
	case FocusNavigation:
		return "navigation"
	case FocusLogs:
		return "logs"
	default:
		return "home"
	}
}

// ModelReader defines the interface that views use to read model state
type ModelReader interface {
	Size() (width, height int)
	Theme() styles.Theme
	Page() ide.Page
	Focus() Focus
	Title() string
	Tabs() []editor.Tab
	ActiveTab() editor.Tab
	DockVisible(dock ide.Dock) bool
	ShowHelp() bool

	// Rendered components
	HomeView() string
	EditorView() string
	ErrorsView() string
	NavigationView() string
	LogsView() string
	StatusView() string
	HelpView() string
	// OverlayView is the open dialog or prompt, empty when there is none
	OverlayView() string
}
