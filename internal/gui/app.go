//go:build !nogui
// +build !nogui

package gui

import (
	"fmt"

	"cobide/internal/config"
	"cobide/internal/editor"
	"cobide/internal/ide"
	"cobide/internal/log"
	"cobide/pkg/types"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

const banner = `
  ____ ___  ____   ___  _       ___ ____  _____
 / ___/ _ \| __ ) / _ \| |     |_ _|  _ \| ____|
| |  | | | |  _ \| | | | |      | || | | |  _|
| |__| |_| | |_) | |_| | |___   | || |_| | |___
 \____\___/|____/ \___/|_____| |___|____/|_____|
`

// App is the GUI application. It is the Surface of its controller.
type App struct {
	fyneApp    fyne.App
	mainWindow fyne.Window
	ctrl       *ide.Controller
	store      *config.Store
	tabWidth   int

	// Files opened by Run once the window shows
	pendingFiles []string

	page       ide.Page
	pages      *fyne.Container
	homePage   fyne.CanvasObject
	editorPage *fyne.Container

	recent     []string
	recentList *widget.List
	recentMenu *fyne.MenuItem

	docTabs *container.DocTabs
	editors []*tabEditor
	active  editor.Tab
	// Set while the widgets are updated from the controller
	syncing bool

	errors    []string
	errorList *widget.List

	nav     *navigationTree
	navDock fyne.CanvasObject

	logs     *logPanel
	logsDock fyne.CanvasObject

	statusFile     *widget.Label
	statusEncoding *widget.Label
	statusCursor   *widget.Label
	statusMessage  *widget.Label
	activity       *widget.ProgressBarInfinite

	actions    ide.ActionState
	buttons    actionButtons
	menu       actionMenu
	mainMenu   *fyne.MainMenu
	fullscreen bool

	shortcuts    map[string]func()
	functionKeys map[fyne.KeyName]func()
}

type actionButtons struct {
	save, saveAs, close, compile, run *widget.Button
}

type actionMenu struct {
	save, saveAs, close, compile, run, program, subprogram *fyne.MenuItem
	navigation, logs, fullscreen                           *fyne.MenuItem
}

// NewApp builds the main window on fyneApp and starts its controller
func NewApp(fyneApp fyne.App, store *config.Store, opts ...ide.Option) *App {
	a := &App{
		fyneApp:      fyneApp,
		store:        store,
		tabWidth:     store.Config().Editor.TabWidth,
		shortcuts:    make(map[string]func()),
		functionKeys: make(map[fyne.KeyName]func()),
	}
	if a.tabWidth <= 0 {
		a.tabWidth = 4
	}

	a.mainWindow = fyneApp.NewWindow(ide.WindowTitle)
	a.mainWindow.Resize(fyne.NewSize(1000, 720))
	a.setupMainWindow()

	a.ctrl = ide.New(a, store, opts...)
	a.ctrl.Start()
	return a
}

// Controller returns the controller driving the window
func (a *App) Controller() *ide.Controller {
	return a.ctrl
}

// GetMainWindow returns the main window instance
func (a *App) GetMainWindow() fyne.Window {
	return a.mainWindow
}

// Run shows the window and blocks until the application quits
func (a *App) Run() {
	go a.pumpMailbox()
	for _, path := range a.pendingFiles {
		a.openPath(path)
	}
	a.pendingFiles = nil

	a.mainWindow.ShowAndRun()
}

// pumpMailbox runs the notifications of background work on the fyne
// goroutine
func (a *App) pumpMailbox() {
	mailbox := a.ctrl.Mailbox()
	for {
		select {
		case fn := <-mailbox.C():
			fyne.Do(func() {
				fn()
				a.updateActivity()
			})
		case <-mailbox.Done():
			return
		}
	}
}

// setupMainWindow sets up the main window content
func (a *App) setupMainWindow() {
	a.homePage = a.createHomePage()
	a.editorPage = a.createEditorPage()
	a.editorPage.Hide()
	a.pages = container.NewStack(a.homePage, a.editorPage)

	a.mainMenu = a.createMainMenu()
	a.mainWindow.SetMainMenu(a.mainMenu)
	a.registerShortcuts()

	content := container.NewBorder(
		container.NewVBox(a.createToolbar(), widget.NewSeparator()),
		a.createStatusBar(),
		nil,
		nil,
		a.pages,
	)
	a.mainWindow.SetContent(content)
	a.mainWindow.SetCloseIntercept(a.requestQuit)
}

func (a *App) createHomePage() fyne.CanvasObject {
	logoLabel := widget.NewLabelWithStyle(banner, fyne.TextAlignCenter, fyne.TextStyle{Monospace: true})

	quickStart := container.NewVBox(
		widget.NewLabelWithStyle("Quick start", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewButtonWithIcon(ide.QuickStartNew, theme.DocumentCreateIcon(), a.newFile),
		widget.NewButtonWithIcon(ide.QuickStartOpen, theme.FolderOpenIcon(), a.openFile),
		widget.NewButtonWithIcon(ide.QuickStartAbout, theme.InfoIcon(), a.ctrl0(func(c *ide.Controller) { c.About() })),
	)

	a.recentList = widget.NewList(
		func() int {
			return len(a.recent)
		},
		func() fyne.CanvasObject {
			return container.NewHBox(widget.NewIcon(theme.DocumentIcon()), widget.NewLabel("Template recent file"))
		},
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			if id < 0 || id >= len(a.recent) {
				return
			}
			obj.(*fyne.Container).Objects[1].(*widget.Label).SetText(a.recent[id])
		},
	)
	a.recentList.OnSelected = func(id widget.ListItemID) {
		a.recentList.UnselectAll()
		if id < 0 || id >= len(a.recent) {
			return
		}
		if err := a.ctrl.OpenRecent(a.recent[id]); err != nil {
			log.LogWithError(err).Debug("open recent failed")
		}
	}
	clearButton := widget.NewButtonWithIcon("Clear", theme.DeleteIcon(), func() {
		a.ctrl.ClearRecentFiles()
	})

	recentCard := widget.NewCard("Recent files", "", container.NewBorder(
		nil,
		container.NewHBox(layout.NewSpacer(), clearButton),
		nil,
		nil,
		a.recentList,
	))

	return container.NewBorder(
		logoLabel,
		nil,
		container.NewPadded(quickStart),
		nil,
		recentCard,
	)
}

// ctrl0 adapts a controller call to a button callback
func (a *App) ctrl0(fn func(c *ide.Controller)) func() {
	return func() { fn(a.ctrl) }
}

func (a *App) createEditorPage() *fyne.Container {
	a.docTabs = container.NewDocTabs()
	a.docTabs.OnSelected = a.onTabSelected
	a.docTabs.CloseIntercept = func(item *container.TabItem) {
		if te := a.editorForItem(item); te != nil {
			a.closeTab(te.tab)
		}
	}

	a.errorList = widget.NewList(
		func() int {
			return len(a.errors)
		},
		func() fyne.CanvasObject {
			return container.NewHBox(widget.NewIcon(theme.ErrorIcon()), widget.NewLabel("Template error message"))
		},
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			if id < 0 || id >= len(a.errors) {
				return
			}
			row := obj.(*fyne.Container)
			row.Objects[0].(*widget.Icon).SetResource(diagnosticIcon(a.errors[id]))
			row.Objects[1].(*widget.Label).SetText(a.errors[id])
		},
	)
	a.errorList.OnSelected = func(id widget.ListItemID) {
		if id < 0 || id >= len(a.errors) {
			return
		}
		a.ctrl.ActivateError(a.errors[id])
		a.errorList.Unselect(id)
	}

	a.nav = newNavigationTree(func(node *types.Node) {
		a.ctrl.ActivateNavigation(node)
	})
	a.navDock = widget.NewCard("Navigation", "", a.nav.tree)
	a.navDock.Hide()

	a.logs = newLogPanel(a.copyLog)
	a.logsDock = a.logs.content
	a.logsDock.Hide()

	// Keeps the bottom docks readable when the editor grows
	spacer := canvas.NewRectangle(theme.Color(theme.ColorNameBackground))
	spacer.SetMinSize(fyne.NewSize(0, 180))
	bottom := container.NewStack(spacer, container.NewGridWithColumns(2,
		widget.NewCard("Errors", "", a.errorList),
		a.logsDock,
	))

	return container.NewBorder(nil, bottom, a.navDock, nil, a.docTabs)
}

func (a *App) createToolbar() fyne.CanvasObject {
	button := func(label string, icon fyne.Resource, fn func()) *widget.Button {
		b := widget.NewButtonWithIcon(label, icon, fn)
		b.Importance = widget.LowImportance
		return b
	}

	a.buttons.save = button("Save", theme.DocumentSaveIcon(), a.save)
	a.buttons.saveAs = button("Save as", theme.DocumentSaveIcon(), a.saveAs)
	a.buttons.close = button("Close", theme.CancelIcon(), a.closeActive)
	a.buttons.compile = button("Compile", theme.ConfirmIcon(), a.compile)
	a.buttons.run = button("Run", theme.MediaPlayIcon(), a.run)

	return container.NewHBox(
		button("New", theme.DocumentCreateIcon(), a.newFile),
		button("Open", theme.FolderOpenIcon(), a.openFile),
		a.buttons.save,
		a.buttons.saveAs,
		a.buttons.close,
		widget.NewSeparator(),
		a.buttons.compile,
		a.buttons.run,
		layout.NewSpacer(),
		button("", theme.SettingsIcon(), a.showSettings),
		button("", theme.HelpIcon(), a.ctrl0(func(c *ide.Controller) { c.About() })),
	)
}

func (a *App) createMainMenu() *fyne.MainMenu {
	a.menu.save = fyne.NewMenuItem("Save", a.save)
	a.menu.saveAs = fyne.NewMenuItem("Save As...", a.saveAs)
	a.menu.close = fyne.NewMenuItem("Close", a.closeActive)
	a.recentMenu = fyne.NewMenuItem("Open Recent", nil)
	a.recentMenu.ChildMenu = fyne.NewMenu("")
	quit := fyne.NewMenuItem("Quit", a.requestQuit)
	quit.IsQuit = true

	file := fyne.NewMenu("File",
		fyne.NewMenuItem("New...", a.newFile),
		fyne.NewMenuItem("Open...", a.openFile),
		a.recentMenu,
		fyne.NewMenuItemSeparator(),
		a.menu.save,
		a.menu.saveAs,
		a.menu.close,
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Settings...", a.showSettings),
		quit,
	)

	a.menu.compile = fyne.NewMenuItem("Compile", a.compile)
	a.menu.run = fyne.NewMenuItem("Run", a.run)
	a.menu.program = fyne.NewMenuItem("Program", func() { a.ctrl.SetFileType(types.Program) })
	a.menu.subprogram = fyne.NewMenuItem("Subprogram", func() { a.ctrl.SetFileType(types.Subprogram) })
	build := fyne.NewMenu("Build",
		a.menu.compile,
		a.menu.run,
		fyne.NewMenuItemSeparator(),
		a.menu.program,
		a.menu.subprogram,
	)

	a.menu.navigation = fyne.NewMenuItem("Navigation", func() { a.ctrl.ToggleDock(ide.DockNavigation) })
	a.menu.logs = fyne.NewMenuItem("Logs", func() { a.ctrl.ToggleDock(ide.DockLogs) })
	a.menu.fullscreen = fyne.NewMenuItem("Fullscreen", a.ctrl0(func(c *ide.Controller) { c.ToggleFullscreen() }))
	view := fyne.NewMenu("View",
		fyne.NewMenuItem("Next Tab", a.ctrl0(func(c *ide.Controller) { c.NextTab() })),
		fyne.NewMenuItem("Previous Tab", a.ctrl0(func(c *ide.Controller) { c.PrevTab() })),
		fyne.NewMenuItemSeparator(),
		a.menu.navigation,
		a.menu.logs,
		a.menu.fullscreen,
	)

	help := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", a.ctrl0(func(c *ide.Controller) { c.About() })),
	)

	return fyne.NewMainMenu(file, build, view, help)
}

func (a *App) registerShortcuts() {
	ctrl := fyne.KeyModifierShortcutDefault
	a.addShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyN, Modifier: ctrl}, a.newFile)
	a.addShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyO, Modifier: ctrl}, a.openFile)
	a.addShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyS, Modifier: ctrl}, a.save)
	a.addShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyS, Modifier: ctrl | fyne.KeyModifierShift}, a.saveAs)
	a.addShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyW, Modifier: ctrl}, a.closeActive)
	a.addShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyQ, Modifier: ctrl}, a.requestQuit)
	a.addShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyT, Modifier: ctrl}, a.toggleFileType)
	a.addShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyTab, Modifier: fyne.KeyModifierControl}, a.ctrl0(func(c *ide.Controller) { c.NextTab() }))

	a.functionKeys[fyne.KeyF5] = a.compile
	a.functionKeys[fyne.KeyF6] = a.run
	a.functionKeys[fyne.KeyF7] = a.ctrl0(func(c *ide.Controller) { c.PrevTab() })
	a.functionKeys[fyne.KeyF8] = a.ctrl0(func(c *ide.Controller) { c.NextTab() })
	a.functionKeys[fyne.KeyF9] = func() { a.ctrl.ToggleDock(ide.DockLogs) }
	a.functionKeys[fyne.KeyF10] = func() { a.ctrl.ToggleDock(ide.DockNavigation) }
	a.functionKeys[fyne.KeyF11] = a.ctrl0(func(c *ide.Controller) { c.ToggleFullscreen() })
	a.functionKeys[fyne.KeyF12] = a.ctrl0(func(c *ide.Controller) { c.About() })

	a.mainWindow.Canvas().SetOnTypedKey(func(ev *fyne.KeyEvent) {
		a.handleFunctionKey(ev.Name)
	})
}

func (a *App) addShortcut(shortcut *desktop.CustomShortcut, fn func()) {
	a.shortcuts[shortcut.ShortcutName()] = fn
	a.mainWindow.Canvas().AddShortcut(shortcut, func(fyne.Shortcut) { fn() })
}

// handleShortcut runs the action bound to shortcut, for widgets that
// receive shortcuts before the canvas does
func (a *App) handleShortcut(shortcut fyne.Shortcut) bool {
	fn, ok := a.shortcuts[shortcut.ShortcutName()]
	if ok {
		fn()
	}
	return ok
}

func (a *App) handleFunctionKey(name fyne.KeyName) bool {
	fn, ok := a.functionKeys[name]
	if ok {
		fn()
	}
	return ok
}

func (a *App) createStatusBar() fyne.CanvasObject {
	a.statusFile = widget.NewLabel("")
	a.statusFile.Truncation = fyne.TextTruncateEllipsis
	a.statusEncoding = widget.NewLabel("")
	a.statusCursor = widget.NewLabel("")
	a.statusMessage = widget.NewLabelWithStyle("", fyne.TextAlignTrailing, fyne.TextStyle{Italic: true})
	a.activity = widget.NewProgressBarInfinite()
	a.activity.Stop()
	a.activity.Hide()

	return container.NewBorder(
		widget.NewSeparator(),
		nil,
		nil,
		container.NewHBox(a.statusMessage, a.activity, a.statusEncoding, a.statusCursor),
		a.statusFile,
	)
}

// updateActivity shows the activity indicator while the worker is busy
func (a *App) updateActivity() {
	busy := a.ctrl.Running() || a.ctrl.Queue().Busy() || a.ctrl.Queue().Pending() > 0
	if busy == a.activity.Visible() {
		return
	}
	if busy {
		a.activity.Show()
		a.activity.Start()
	} else {
		a.activity.Stop()
		a.activity.Hide()
	}
}

func (a *App) openPath(path string) {
	if err := a.ctrl.OpenFile(path); err != nil {
		log.LogWithError(err).Warn("cannot open file")
	}
}

func (a *App) save() {
	if !a.actions.Save.Enabled {
		return
	}
	if err := a.ctrl.Save(); err != nil {
		log.LogWithError(err).Debug("save failed")
	}
}

func (a *App) compile() {
	if !a.actions.Compile.Enabled {
		return
	}
	if err := a.ctrl.Compile(); err != nil {
		a.ShowError("Compile", err.Error())
	}
	a.updateActivity()
}

func (a *App) run() {
	if !a.actions.Run.Enabled {
		return
	}
	if err := a.ctrl.Run(); err != nil {
		a.ShowError("Run", err.Error())
	}
	a.updateActivity()
}

func (a *App) toggleFileType() {
	if !a.actions.Program.Enabled {
		return
	}
	if a.actions.Program.Checked {
		a.ctrl.SetFileType(types.Subprogram)
	} else {
		a.ctrl.SetFileType(types.Program)
	}
}

func (a *App) closeActive() {
	if a.active != nil {
		a.closeTab(a.active)
	}
}

// closeTab closes tab, asking first when it has unsaved changes
func (a *App) closeTab(tab editor.Tab) {
	if !tab.Buffer().IsDirty() {
		a.ctrl.CloseTab(tab)
		return
	}
	a.askSave("Unsaved changes",
		fmt.Sprintf("%s has unsaved changes. Save them before closing?", tab.Name()),
		func() {
			a.ctrl.ActivateTab(tab)
			if a.ctrl.Save() == nil {
				a.ctrl.CloseTab(tab)
			}
		},
		func() { a.ctrl.CloseTab(tab) },
	)
}

// requestQuit quits, asking first when files have unsaved changes
func (a *App) requestQuit() {
	if a.ctrl.RequestQuit() {
		a.quit()
		return
	}
	a.askSave("Unsaved changes",
		"Some files have unsaved changes. Save them before quitting?",
		func() {
			if a.ctrl.SaveAll() == nil {
				a.quit()
			}
		},
		func() {
			a.ctrl.DiscardAll()
			a.quit()
		},
	)
}

func (a *App) quit() {
	a.ctrl.Shutdown()
	a.fyneApp.Quit()
}

func (a *App) copyLog(text string) {
	a.mainWindow.Clipboard().SetContent(text)
	a.ShowMessage("Log copied to the clipboard")
}
