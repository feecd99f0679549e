// Package ide implements the main window controller of the COBOL IDE. The
// controller is independent of any UI toolkit: it drives a Surface and
// receives the results of background work through a Mailbox drained on the
// UI goroutine.
package ide

import (
	"cobide/internal/editor"
	"cobide/pkg/types"
)

// Page is one of the two mutually exclusive main views
type Page int

const (
	PageHome Page = iota
	PageEditor
)

func (p Page) String() string {
	if p == PageEditor {
		return "editor"
	}
	return "home"
}

// LogTab selects a tab of the logs dock
type LogTab int

const (
	LogCompiler LogTab = iota
	LogOutput
)

func (l LogTab) String() string {
	if l == LogOutput {
		return "Output"
	}
	return "Compiler"
}

// Dock identifies a side panel
type Dock int

const (
	DockNavigation Dock = iota
	DockLogs
)

// Status is the content of the status bar
type Status struct {
	Filename string
	Encoding string
	Cursor   string
}

// Surface is the UI driven by the controller. Every method is called on the
// UI goroutine.
type Surface interface {
	// ShowPage switches between the home page and the editor page
	ShowPage(page Page)
	SetTitle(title string)
	SetActions(state ActionState)
	SetStatus(status Status)

	// SetTabs lists the open tabs; active is nil when none is open. The
	// editing widget shows the text of active.
	SetTabs(tabs []editor.Tab, active editor.Tab)
	// ReloadTab is called when the text of tab changed outside the widget
	ReloadTab(tab editor.Tab)
	// MoveCursor moves the cursor of the editing widget
	MoveCursor(pos types.CursorPos)

	SetErrors(entries []string)
	// SetNavigation shows the outline of the active document, nil clears it
	SetNavigation(root *types.Node)
	SetRecentFiles(files []string)

	SelectLog(tab LogTab)
	ClearLog(tab LogTab)
	AppendLog(tab LogTab, line string)
	ShowDock(dock Dock, visible bool)
	SetFullscreen(fullscreen bool)

	// ShowError, ShowWarning and ShowInfo display modal dialogs
	ShowError(title, msg string)
	ShowWarning(title, msg string)
	ShowInfo(title, msg string)
	// ShowMessage displays a transient status message
	ShowMessage(msg string)
}
