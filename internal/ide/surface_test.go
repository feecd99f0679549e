package ide

import (
	"testing"

	"cobide/internal/cobol"
	"cobide/internal/config"
	"cobide/internal/editor"
	"cobide/pkg/types"
)

type dialog struct {
	kind  string
	title string
	msg   string
}

// fakeSurface records what the controller shows
type fakeSurface struct {
	page         Page
	pageSwitches []Page
	title        string
	actions      ActionState
	status       Status
	tabs         []editor.Tab
	active       editor.Tab
	reloaded     []editor.Tab
	cursor       types.CursorPos
	cursorMoves  int
	errors       []string
	nav          *types.Node
	recent       []string
	selectedLog  LogTab
	logs         map[LogTab][]string
	outputEvents []string
	docks        map[Dock]bool
	fullscreen   bool
	dialogs      []dialog
	messages     []string
}

func newFakeSurface() *fakeSurface {
	return &fakeSurface{logs: map[LogTab][]string{}, docks: map[Dock]bool{}}
}

func (f *fakeSurface) ShowPage(page Page) {
	f.page = page
	f.pageSwitches = append(f.pageSwitches, page)
}
func (f *fakeSurface) SetTitle(title string)        { f.title = title }
func (f *fakeSurface) SetActions(state ActionState) { f.actions = state }
func (f *fakeSurface) SetStatus(status Status)      { f.status = status }
func (f *fakeSurface) SetTabs(tabs []editor.Tab, active editor.Tab) {
	f.tabs = tabs
	f.active = active
}
func (f *fakeSurface) ReloadTab(tab editor.Tab) { f.reloaded = append(f.reloaded, tab) }
func (f *fakeSurface) MoveCursor(pos types.CursorPos) {
	f.cursor = pos
	f.cursorMoves++
}
func (f *fakeSurface) SetErrors(entries []string)     { f.errors = entries }
func (f *fakeSurface) SetNavigation(root *types.Node) { f.nav = root }
func (f *fakeSurface) SetRecentFiles(files []string)  { f.recent = files }
func (f *fakeSurface) SelectLog(tab LogTab)           { f.selectedLog = tab }
func (f *fakeSurface) ClearLog(tab LogTab) {
	f.logs[tab] = nil
	if tab == LogOutput {
		f.outputEvents = append(f.outputEvents, "<clear>")
	}
}
func (f *fakeSurface) AppendLog(tab LogTab, line string) {
	f.logs[tab] = append(f.logs[tab], line)
	if tab == LogOutput {
		f.outputEvents = append(f.outputEvents, line)
	}
}
func (f *fakeSurface) ShowDock(dock Dock, visible bool) { f.docks[dock] = visible }
func (f *fakeSurface) SetFullscreen(fullscreen bool)    { f.fullscreen = fullscreen }
func (f *fakeSurface) ShowError(title, msg string) {
	f.dialogs = append(f.dialogs, dialog{"error", title, msg})
}
func (f *fakeSurface) ShowWarning(title, msg string) {
	f.dialogs = append(f.dialogs, dialog{"warning", title, msg})
}
func (f *fakeSurface) ShowInfo(title, msg string) {
	f.dialogs = append(f.dialogs, dialog{"info", title, msg})
}
func (f *fakeSurface) ShowMessage(msg string) { f.messages = append(f.messages, msg) }

var _ Surface = (*fakeSurface)(nil)

// newTestController returns a started controller backed by an in-memory
// settings store.
func newTestController(t *testing.T, opts ...Option) (*Controller, *fakeSurface) {
	t.Helper()
	surface := newFakeSurface()
	c := New(surface, config.NewMemoryStore(config.New()), opts...)
	c.Start()
	t.Cleanup(c.Shutdown)
	return c, surface
}

// settle waits for the worker and runs the notifications it posted
func settle(c *Controller) {
	c.Queue().Wait()
	c.Mailbox().Drain()
}

func withCompiler(path string) Option {
	return WithCompiler(cobol.NewCompiler(path))
}
