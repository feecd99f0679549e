package ide

import (
	"fmt"

	"cobide/internal/cobol"
	"cobide/internal/config"
	"cobide/internal/detect"
	"cobide/internal/editor"
	"cobide/internal/log"
	"cobide/internal/watch"
	"cobide/internal/worker"
	"cobide/pkg/types"
)

// WindowTitle is the title shown when no file is open
const WindowTitle = "COBOL IDE"

// Controller is the main window controller. Apart from the constructor
// options, all methods must be called on the UI goroutine.
type Controller struct {
	surface  Surface
	store    *config.Store
	tabs     *editor.TabManager
	queue    *worker.Queue
	mailbox  *Mailbox
	compiler *cobol.Compiler
	watcher  *watch.Watcher

	detectEncoding func(path string) string

	// Runs submitted and not finished yet
	runs int

	fullscreen bool
	showNav    bool
	showLogs   bool
}

// Option configures a Controller
type Option func(*Controller)

// WithQueue replaces the worker queue
func WithQueue(q *worker.Queue) Option {
	return func(c *Controller) { c.queue = q }
}

// WithMailbox replaces the mailbox
func WithMailbox(m *Mailbox) Option {
	return func(c *Controller) { c.mailbox = m }
}

// WithCompiler replaces the compiler built from the settings
func WithCompiler(compiler *cobol.Compiler) Option {
	return func(c *Controller) { c.compiler = compiler }
}

// WithWatcher reports external changes of open files through w
func WithWatcher(w *watch.Watcher) Option {
	return func(c *Controller) { c.watcher = w }
}

// ApplySettings rebuilds the compiler from the stored settings. Compilations
// already queued keep the compiler they were submitted with.
func (c *Controller) ApplySettings() {
	cfg := c.store.Config()
	c.compiler = cobol.NewCompiler(cfg.Compiler.Command, cfg.Compiler.Flags...)
	log.LogWithFields(log.F("compiler", c.compiler.Command)).Debug("settings applied")
}

// Compiler returns the compiler used by Compile
func (c *Controller) Compiler() *cobol.Compiler { return c.compiler }

// New wires a controller to surface. Call Start before use.
func New(surface Surface, store *config.Store, opts ...Option) *Controller {
	cfg := store.Config()
	c := &Controller{
		surface:    surface,
		store:      store,
		tabs:       editor.NewTabManager(),
		fullscreen: cfg.Window.Fullscreen,
		showNav:    cfg.Window.ShowNavigation,
		showLogs:   cfg.Window.ShowLogs,

		detectEncoding: detect.DetectEncoding,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.queue == nil {
		c.queue = worker.NewQueue()
	}
	if c.mailbox == nil {
		c.mailbox = NewMailbox(DefaultMailboxSize)
	}
	if c.compiler == nil {
		c.compiler = cobol.NewCompiler(cfg.Compiler.Command, cfg.Compiler.Flags...)
	}

	c.tabs.OnTabChanged(c.onTabChanged)
	c.tabs.OnCursorMoved(c.onCursorMoved)
	return c
}

// Start puts the surface in its initial state: home page, no docks.
func (c *Controller) Start() {
	if c.fullscreen {
		c.surface.SetFullscreen(true)
	}
	c.onTabChanged(nil)

	if c.watcher != nil {
		if err := c.watcher.Start(); err != nil {
			log.LogWithError(err).Warn("file watcher not started")
		} else {
			go c.forwardModifications(c.watcher.FileChannel())
		}
	}
	log.Info("IDE started")
}

// Shutdown stops background work. Pending compile and run tasks are
// dropped; the active one is waited for. The mailbox is closed first so
// a task blocked posting to a full mailbox can return.
func (c *Controller) Shutdown() {
	if c.watcher != nil {
		c.watcher.Stop()
	}
	c.mailbox.Close()
	c.queue.Close()
	log.Info("IDE stopped")
}

func (c *Controller) forwardModifications(ch <-chan watch.FileModification) {
	for mod := range ch {
		mod := mod
		if !c.mailbox.Post(func() { c.HandleFileModified(mod) }) {
			return
		}
	}
}

// Mailbox returns the queue of notifications front ends must drain on the
// UI goroutine.
func (c *Controller) Mailbox() *Mailbox { return c.mailbox }

// Tabs returns the tab manager
func (c *Controller) Tabs() *editor.TabManager { return c.tabs }

// Store returns the settings store
func (c *Controller) Store() *config.Store { return c.store }

// Queue returns the worker queue running compile and run tasks
func (c *Controller) Queue() *worker.Queue { return c.queue }

// Actions returns the current action state
func (c *Controller) Actions() ActionState {
	return DeriveActions(c.tabs.HasOpenTabs(), c.tabs.ActiveType(), c.runs > 0)
}

// Running reports whether a program run is in flight
func (c *Controller) Running() bool { return c.runs > 0 }

func (c *Controller) updateActions() {
	c.surface.SetActions(c.Actions())
}

func (c *Controller) updateTabs() {
	c.surface.SetTabs(c.tabs.Tabs(), c.tabs.Active())
}

func (c *Controller) updateRecentFiles() {
	c.surface.SetRecentFiles(c.store.RecentFiles())
}

// onTabChanged refreshes everything that depends on the active tab
func (c *Controller) onTabChanged(tab editor.Tab) {
	c.updateTabs()
	if tab == nil {
		c.surface.SetTitle(WindowTitle)
		c.updateActions()
		c.surface.ClearLog(LogOutput)
		c.surface.SetErrors(nil)
		c.surface.ShowPage(PageHome)
		c.updateRecentFiles()
		c.surface.ShowDock(DockNavigation, false)
		c.surface.ShowDock(DockLogs, false)
		c.surface.SetNavigation(nil)
		c.updateStatus(nil)
		return
	}

	c.surface.SetTitle(fmt.Sprintf("%s - %s", WindowTitle, tab.Name()))
	c.updateActions()
	if cobolTab, ok := tab.(*editor.CobolTab); ok {
		if cobolTab.Errors != nil {
			cobolTab.Errors.UpdateErrors()
		} else {
			c.surface.SetErrors(nil)
		}
		cobolTab.Analyser.Parse(cobolTab.Buffer().Text())
		c.surface.ShowDock(DockNavigation, c.showNav)
	} else {
		c.surface.SetErrors(nil)
		c.surface.ShowDock(DockNavigation, false)
	}
	c.updateNavigation()
	c.surface.SelectLog(LogCompiler)
	c.surface.ShowDock(DockLogs, c.showLogs)
	c.updateStatus(tab)
}

func (c *Controller) updateNavigation() {
	if cobolTab, ok := c.tabs.Active().(*editor.CobolTab); ok {
		c.surface.SetNavigation(cobolTab.Analyser.Root())
		return
	}
	c.surface.SetNavigation(nil)
}

func (c *Controller) updateStatus(tab editor.Tab) {
	if tab == nil {
		c.surface.SetStatus(Status{})
		return
	}
	c.surface.SetStatus(Status{
		Filename: tab.Path(),
		Encoding: tab.Encoding(),
		Cursor:   c.tabs.CursorPos().String(),
	})
}

func (c *Controller) onCursorMoved(types.CursorPos) {
	c.updateStatus(c.tabs.Active())
}

// TextChanged records an edit of the active tab made in the editing widget
func (c *Controller) TextChanged(text string) {
	tab := c.tabs.Active()
	if tab == nil {
		return
	}
	tab.Buffer().SetText(text)
	if cobolTab, ok := tab.(*editor.CobolTab); ok {
		cobolTab.Analyser.Parse(text)
	}
}

// CursorChanged records a cursor move made in the editing widget
func (c *Controller) CursorChanged(pos types.CursorPos) {
	if tab := c.tabs.Active(); tab != nil {
		tab.Buffer().MoveTo(pos.Line, pos.Column)
	}
}

// ActivateTab makes tab the active tab
func (c *Controller) ActivateTab(tab editor.Tab) {
	c.tabs.Activate(tab)
}

// NextTab activates the next tab
func (c *Controller) NextTab() { c.tabs.Next() }

// PrevTab activates the previous tab
func (c *Controller) PrevTab() { c.tabs.Prev() }
