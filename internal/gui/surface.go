//go:build !nogui
// +build !nogui

package gui

import (
	"cobide/internal/editor"
	"cobide/internal/ide"
	"cobide/pkg/types"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
)

var _ ide.Surface = (*App)(nil)

// ShowPage switches between the home page and the editor page
func (a *App) ShowPage(page ide.Page) {
	a.page = page
	if page == ide.PageEditor {
		a.homePage.Hide()
		a.editorPage.Show()
	} else {
		a.editorPage.Hide()
		a.homePage.Show()
	}
	a.pages.Refresh()
}

func (a *App) SetTitle(title string) {
	a.mainWindow.SetTitle(title)
}

// SetActions enables the toolbar buttons and menu items
func (a *App) SetActions(state ide.ActionState) {
	a.actions = state

	setButton := func(b interface {
		Enable()
		Disable()
	}, enabled bool) {
		if enabled {
			b.Enable()
		} else {
			b.Disable()
		}
	}
	setButton(a.buttons.save, state.Save.Enabled)
	setButton(a.buttons.saveAs, state.SaveAs.Enabled)
	setButton(a.buttons.close, state.Close.Enabled)
	setButton(a.buttons.compile, state.Compile.Enabled)
	setButton(a.buttons.run, state.Run.Enabled)

	a.menu.save.Disabled = !state.Save.Enabled
	a.menu.saveAs.Disabled = !state.SaveAs.Enabled
	a.menu.close.Disabled = !state.Close.Enabled
	a.menu.compile.Disabled = !state.Compile.Enabled
	a.menu.run.Disabled = !state.Run.Enabled
	a.menu.program.Disabled = !state.Program.Enabled
	a.menu.program.Checked = state.Program.Checked
	a.menu.subprogram.Disabled = !state.Subprogram.Enabled
	a.menu.subprogram.Checked = state.Subprogram.Checked
	a.mainMenu.Refresh()
}

func (a *App) SetStatus(status ide.Status) {
	a.statusFile.SetText(status.Filename)
	a.statusEncoding.SetText(status.Encoding)
	a.statusCursor.SetText(status.Cursor)
	a.statusMessage.SetText("")
	// Saving clears the dirty marker of the tab title
	if te := a.editorFor(a.active); te != nil && te.item.Text != te.title() {
		a.refreshTabTitle(te)
	}
}

// SetTabs reconciles the tab items with the open tabs and selects active
func (a *App) SetTabs(tabs []editor.Tab, active editor.Tab) {
	a.syncing = true
	defer func() { a.syncing = false }()

	open := make(map[editor.Tab]bool, len(tabs))
	for _, tab := range tabs {
		open[tab] = true
	}
	kept := a.editors[:0]
	for _, te := range a.editors {
		if open[te.tab] {
			kept = append(kept, te)
		} else {
			a.docTabs.Remove(te.item)
		}
	}
	a.editors = kept

	for _, tab := range tabs {
		if a.editorFor(tab) == nil {
			te := a.newTabEditor(tab)
			a.editors = append(a.editors, te)
			a.docTabs.Append(te.item)
		}
	}

	for _, te := range a.editors {
		te.item.Text = te.title()
	}
	a.active = active
	if te := a.editorFor(active); te != nil {
		a.docTabs.Select(te.item)
		a.mainWindow.Canvas().Focus(te.entry)
	}
	a.docTabs.Refresh()
}

func (a *App) newTabEditor(tab editor.Tab) *tabEditor {
	te := &tabEditor{tab: tab, entry: newCodeEntry(a.tabWidth)}
	te.entry.SetText(tab.Buffer().Text())
	te.entry.onShortcut = a.handleShortcut
	te.entry.onFunctionKey = a.handleFunctionKey
	te.entry.OnChanged = func(text string) {
		if a.syncing || a.active != te.tab {
			return
		}
		wasDirty := te.tab.Buffer().IsDirty()
		a.ctrl.TextChanged(text)
		if te.tab.Buffer().IsDirty() != wasDirty {
			a.refreshTabTitle(te)
		}
	}
	te.entry.OnCursorChanged = func() {
		if a.syncing || a.active != te.tab {
			return
		}
		a.ctrl.CursorChanged(types.CursorPos{Line: te.entry.CursorRow + 1, Column: te.entry.CursorColumn + 1})
	}

	icon := theme.DocumentIcon()
	if tab.Type().IsCobol() {
		icon = theme.FileTextIcon()
	}
	te.item = container.NewTabItemWithIcon(te.title(), icon, te.entry)
	return te
}

func (a *App) refreshTabTitle(te *tabEditor) {
	te.item.Text = te.title()
	a.docTabs.Refresh()
}

func (a *App) editorFor(tab editor.Tab) *tabEditor {
	if tab == nil {
		return nil
	}
	for _, te := range a.editors {
		if te.tab == tab {
			return te
		}
	}
	return nil
}

func (a *App) editorForItem(item *container.TabItem) *tabEditor {
	for _, te := range a.editors {
		if te.item == item {
			return te
		}
	}
	return nil
}

func (a *App) onTabSelected(item *container.TabItem) {
	if a.syncing {
		return
	}
	if te := a.editorForItem(item); te != nil && te.tab != a.active {
		a.ctrl.ActivateTab(te.tab)
	}
}

// ReloadTab shows text of tab that changed outside the editing widget
func (a *App) ReloadTab(tab editor.Tab) {
	te := a.editorFor(tab)
	if te == nil {
		return
	}
	a.syncing = true
	te.entry.SetText(tab.Buffer().Text())
	a.syncing = false
	a.refreshTabTitle(te)
}

// MoveCursor moves the cursor of the active editing widget
func (a *App) MoveCursor(pos types.CursorPos) {
	te := a.editorFor(a.active)
	if te == nil {
		return
	}
	a.syncing = true
	te.entry.CursorRow = pos.Line - 1
	te.entry.CursorColumn = pos.Column - 1
	te.entry.Refresh()
	a.syncing = false
	a.mainWindow.Canvas().Focus(te.entry)
}

func (a *App) SetErrors(entries []string) {
	a.errors = entries
	a.errorList.UnselectAll()
	a.errorList.Refresh()
}

func (a *App) SetNavigation(root *types.Node) {
	a.nav.SetRoot(root)
}

// SetRecentFiles fills the home page list and the File menu
func (a *App) SetRecentFiles(files []string) {
	a.recent = files
	a.recentList.Refresh()

	items := make([]*fyne.MenuItem, 0, len(files)+2)
	for _, path := range files {
		path := path
		items = append(items, fyne.NewMenuItem(path, func() {
			_ = a.ctrl.OpenRecent(path)
		}))
	}
	if len(files) > 0 {
		items = append(items, fyne.NewMenuItemSeparator())
	}
	clearItem := fyne.NewMenuItem("Clear Recent Files", a.ctrl0(func(c *ide.Controller) { c.ClearRecentFiles() }))
	clearItem.Disabled = len(files) == 0
	items = append(items, clearItem)
	a.recentMenu.ChildMenu.Items = items
	a.mainMenu.Refresh()
}

func (a *App) SelectLog(tab ide.LogTab) {
	a.logs.Select(tab)
}

func (a *App) ClearLog(tab ide.LogTab) {
	a.logs.Clear(tab)
}

func (a *App) AppendLog(tab ide.LogTab, line string) {
	a.logs.Append(tab, line)
}

// ShowDock shows or hides a side panel and checks its View menu item
func (a *App) ShowDock(dock ide.Dock, visible bool) {
	var obj fyne.CanvasObject
	var item *fyne.MenuItem
	switch dock {
	case ide.DockNavigation:
		obj, item = a.navDock, a.menu.navigation
	case ide.DockLogs:
		obj, item = a.logsDock, a.menu.logs
	default:
		return
	}
	if visible {
		obj.Show()
	} else {
		obj.Hide()
	}
	item.Checked = visible
	a.mainMenu.Refresh()
	a.editorPage.Refresh()
}

func (a *App) SetFullscreen(fullscreen bool) {
	a.fullscreen = fullscreen
	a.mainWindow.SetFullScreen(fullscreen)
	a.menu.fullscreen.Checked = fullscreen
	a.mainMenu.Refresh()
}

func (a *App) ShowError(title, msg string) {
	a.showDialog(title, msg, theme.ErrorIcon())
}

func (a *App) ShowWarning(title, msg string) {
	a.showDialog(title, msg, theme.WarningIcon())
}

func (a *App) ShowInfo(title, msg string) {
	a.showDialog(title, msg, theme.InfoIcon())
}

// ShowMessage displays msg in the status bar until the status changes
func (a *App) ShowMessage(msg string) {
	a.statusMessage.SetText(msg)
}

// Page returns the page shown
func (a *App) Page() ide.Page {
	return a.page
}

// Actions returns the last action state
func (a *App) Actions() ide.ActionState {
	return a.actions
}
