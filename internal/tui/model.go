package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cobide/internal/config"
	"cobide/internal/detect"
	"cobide/internal/editor"
	"cobide/internal/ide"
	"cobide/internal/log"
	"cobide/internal/tui/common"
	"cobide/internal/tui/components"
	"cobide/internal/tui/messages"
	"cobide/internal/tui/styles"
	"cobide/internal/tui/views"
	"cobide/pkg/types"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	defaultWidth    = 100
	defaultHeight   = 30
	navigationWidth = 30
)

type dialogKind int

const (
	dialogInfo dialogKind = iota
	dialogWarning
	dialogError
	dialogConfirm
)

type dialog struct {
	kind  dialogKind
	title string
	msg   string
	onYes func() tea.Cmd
	onNo  func() tea.Cmd
}

// Model is the terminal front end of the IDE. It is the Surface of its
// controller and forwards key presses to it.
type Model struct {
	ctrl     *ide.Controller
	keys     types.KeyMap
	theme    styles.Theme
	help     help.Model
	tabWidth int

	// Core state
	width    int
	height   int
	page     ide.Page
	focus    common.Focus
	title    string
	actions  ide.ActionState
	tabs     []editor.Tab
	active   editor.Tab
	recent   []string
	docks    map[ide.Dock]bool
	showHelp bool
	quitting bool

	// Components
	editor  textarea.Model
	home    *components.ItemList
	errors  *components.ItemList
	outline *components.Outline
	logs    *components.LogPanel
	status  *components.StatusBar
	prompt  *components.Prompt
	dialogs []dialog

	// Commands requested by surface calls, returned by the next Update
	pending []tea.Cmd
}

// New builds the terminal IDE on top of store and starts its controller
func New(store *config.Store, opts ...ide.Option) *Model {
	cfg := store.Config()
	theme := styles.NewTheme(cfg)

	ta := textarea.New()
	ta.ShowLineNumbers = true
	ta.Prompt = " "
	ta.CharLimit = 0
	ta.MaxHeight = 0

	m := &Model{
		keys:     types.DefaultKeyMap(),
		theme:    theme,
		help:     help.New(),
		tabWidth: cfg.Editor.TabWidth,
		width:    defaultWidth,
		height:   defaultHeight,
		docks:    make(map[ide.Dock]bool),
		editor:   ta,
		home:     components.NewItemList("Quick start", "Nothing to do", theme),
		errors:   components.NewItemList("Errors", "No errors", theme),
		outline:  components.NewOutline(theme),
		logs:     components.NewLogPanel(theme),
		status:   components.NewStatusBar(theme),
	}
	m.refreshHome()
	m.layout()

	m.ctrl = ide.New(m, store, opts...)
	m.ctrl.Start()
	return m
}

// Controller returns the controller driving the model
func (m *Model) Controller() *ide.Controller {
	return m.ctrl
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.flush(), m.waitMailbox(), textarea.Blink)
}

// waitMailbox delivers the next notification posted by background work
func (m *Model) waitMailbox() tea.Cmd {
	mb := m.ctrl.Mailbox()
	return func() tea.Msg {
		select {
		case fn := <-mb.C():
			return messages.MailboxMsg{Fn: fn}
		case <-mb.Done():
			return messages.MailboxClosedMsg{}
		}
	}
}

// View implements tea.Model
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	return views.RenderMainView(m)
}

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.layout()

	case messages.MailboxMsg:
		msg.Fn()
		cmds = append(cmds, m.waitMailbox())

	case messages.MailboxClosedMsg:

	case messages.OpenFilesMsg:
		for _, path := range msg.Paths {
			m.openPath(path)
		}

	case messages.PromptMsg:
		m.prompt = nil
		cmds = append(cmds, m.handlePrompt(msg))

	case messages.ClipboardMsg:
		if msg.Err != nil {
			m.status.SetMessage("Copy failed: " + msg.Err.Error())
		} else {
			m.status.SetMessage(fmt.Sprintf("Copied %d lines", msg.Lines))
		}

	case spinner.TickMsg:
		cmds = append(cmds, m.status.Update(msg))

	case tea.KeyMsg:
		cmds = append(cmds, m.handleKey(msg))

	default:
		if m.focus == common.FocusEditor {
			var cmd tea.Cmd
			m.editor, cmd = m.editor.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	cmds = append(cmds, m.flush())
	return m, tea.Batch(cmds...)
}

// flush returns the commands queued by surface calls and keeps the spinner
// in step with the background work.
func (m *Model) flush() tea.Cmd {
	cmds := m.pending
	m.pending = nil
	busy := m.ctrl.Running() || m.ctrl.Queue().Busy() || m.ctrl.Queue().Pending() > 0
	if cmd := m.status.SetLoading(busy); cmd != nil {
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if len(m.dialogs) > 0 {
		return m.handleDialogKey(msg)
	}
	if m.prompt != nil {
		return m.prompt.Update(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.requestQuit()
	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		m.layout()
	case key.Matches(msg, m.keys.New):
		m.openPrompt(messages.PromptNew, "New file (.cbl for COBOL programs)", m.ctrl.Store().LastUsedPath()+string(filepath.Separator))
	case key.Matches(msg, m.keys.Open):
		m.openPrompt(messages.PromptOpen, "Open file", m.ctrl.Store().LastUsedPath()+string(filepath.Separator))
	case key.Matches(msg, m.keys.Save):
		if m.actions.Save.Enabled {
			m.logFailure(m.ctrl.Save(), "save")
		}
	case key.Matches(msg, m.keys.SaveAs):
		if m.actions.SaveAs.Enabled {
			m.openPrompt(messages.PromptSaveAs, "Save as", m.active.Path())
		}
	case key.Matches(msg, m.keys.Close):
		if m.actions.Close.Enabled {
			m.closeActive()
		}
	case key.Matches(msg, m.keys.NextTab):
		m.ctrl.NextTab()
	case key.Matches(msg, m.keys.PrevTab):
		m.ctrl.PrevTab()
	case key.Matches(msg, m.keys.Compile):
		if m.actions.Compile.Enabled {
			m.logFailure(m.ctrl.Compile(), "compile")
		}
	case key.Matches(msg, m.keys.Run):
		if m.actions.Run.Enabled {
			m.logFailure(m.ctrl.Run(), "run")
		}
	case key.Matches(msg, m.keys.ToggleFileType):
		if m.actions.Program.Enabled {
			if m.actions.Program.Checked {
				m.ctrl.SetFileType(types.Subprogram)
			} else {
				m.ctrl.SetFileType(types.Program)
			}
		}
	case key.Matches(msg, m.keys.FocusEditor):
		m.setFocus(common.FocusEditor)
	case key.Matches(msg, m.keys.FocusErrors):
		m.setFocus(common.FocusErrors)
	case key.Matches(msg, m.keys.FocusNavigation):
		m.setFocus(common.FocusNavigation)
	case key.Matches(msg, m.keys.ToggleLogs):
		m.ctrl.ToggleDock(ide.DockLogs)
	case key.Matches(msg, m.keys.ToggleNav):
		m.ctrl.ToggleDock(ide.DockNavigation)
	case key.Matches(msg, m.keys.CopyLog):
		return m.copyLog()
	case key.Matches(msg, m.keys.Fullscreen):
		m.ctrl.ToggleFullscreen()
	case key.Matches(msg, m.keys.About):
		m.ctrl.About()
	default:
		return m.updateFocused(msg)
	}
	return nil
}

func (m *Model) updateFocused(msg tea.KeyMsg) tea.Cmd {
	if m.focus != common.FocusEditor && m.focus != common.FocusHome && key.Matches(msg, m.keys.Cancel) {
		m.setFocus(common.FocusEditor)
		return nil
	}

	switch m.focus {
	case common.FocusHome:
		if key.Matches(msg, m.keys.Activate) {
			m.activateHome()
			return nil
		}
		return m.home.Update(msg)

	case common.FocusErrors:
		if key.Matches(msg, m.keys.Activate) {
			if entry, ok := m.errors.Selected(); ok {
				m.ctrl.ActivateError(entry)
				m.setFocus(common.FocusEditor)
			}
			return nil
		}
		return m.errors.Update(msg)

	case common.FocusNavigation:
		if key.Matches(msg, m.keys.Activate) {
			m.ctrl.ActivateNavigation(m.outline.Selected())
			m.setFocus(common.FocusEditor)
			return nil
		}
		return m.outline.Update(msg)

	case common.FocusLogs:
		return m.logs.Update(msg)

	case common.FocusEditor:
		if m.active == nil {
			return nil
		}
		before := m.editor.Value()
		var cmd tea.Cmd
		if msg.Type == tea.KeyTab {
			m.editor.InsertString(strings.Repeat(" ", m.tabWidth))
		} else {
			m.editor, cmd = m.editor.Update(msg)
		}
		if after := m.editor.Value(); after != before {
			m.ctrl.TextChanged(after)
		}
		m.ctrl.CursorChanged(m.editorCursor())
		return cmd
	}
	return nil
}

func (m *Model) handleDialogKey(msg tea.KeyMsg) tea.Cmd {
	d := m.dialogs[0]
	if d.kind != dialogConfirm {
		m.dialogs = m.dialogs[1:]
		return nil
	}

	switch msg.String() {
	case "y", "Y":
		m.dialogs = m.dialogs[1:]
		return d.onYes()
	case "n", "N":
		m.dialogs = m.dialogs[1:]
		return d.onNo()
	case "esc":
		m.dialogs = m.dialogs[1:]
	}
	return nil
}

func (m *Model) confirm(title, msg string, onYes, onNo func() tea.Cmd) {
	m.dialogs = append(m.dialogs, dialog{kind: dialogConfirm, title: title, msg: msg, onYes: onYes, onNo: onNo})
}

func (m *Model) openPrompt(kind messages.PromptKind, label, value string) {
	m.prompt = components.NewPrompt(kind, label, value, m.theme)
	m.prompt.SetWidth(m.width)
}

func (m *Model) handlePrompt(msg messages.PromptMsg) tea.Cmd {
	if msg.Value == "" {
		return nil
	}
	switch msg.Kind {
	case messages.PromptOpen:
		m.openPath(msg.Value)
	case messages.PromptNew:
		fileType := types.Text
		if ext := filepath.Ext(msg.Value); ext == "" || ext == detect.CobolExtension {
			fileType = types.Program
		}
		m.logFailure(m.ctrl.NewFile(msg.Value, fileType), "new file")
	case messages.PromptSaveAs:
		m.logFailure(m.ctrl.SaveAs(msg.Value), "save as")
	}
	return nil
}

func (m *Model) openPath(path string) {
	if _, err := os.Stat(path); err != nil {
		m.status.SetMessage(fmt.Sprintf("%s: no such file", path))
		return
	}
	m.logFailure(m.ctrl.OpenFile(path), "open")
}

func (m *Model) logFailure(err error, action string) {
	if err != nil {
		log.LogWithFields(log.F("action", action), log.F("error", err)).Debug("action failed")
	}
}

func (m *Model) activateHome() {
	entry, ok := m.home.Selected()
	if !ok {
		return
	}
	switch entry {
	case ide.QuickStartNew:
		m.openPrompt(messages.PromptNew, "New file (.cbl for COBOL programs)", m.ctrl.Store().LastUsedPath()+string(filepath.Separator))
	case ide.QuickStartOpen:
		m.openPrompt(messages.PromptOpen, "Open file", m.ctrl.Store().LastUsedPath()+string(filepath.Separator))
	case ide.QuickStartAbout:
		m.ctrl.About()
	default:
		m.logFailure(m.ctrl.OpenRecent(entry), "open recent")
	}
}

func (m *Model) closeActive() {
	tab := m.active
	if !tab.Buffer().IsDirty() {
		m.ctrl.CloseTab(tab)
		return
	}
	m.confirm("Unsaved changes", fmt.Sprintf("Save changes to %s before closing?", tab.Name()),
		func() tea.Cmd {
			if err := m.ctrl.Save(); err == nil {
				m.ctrl.CloseTab(tab)
			}
			return nil
		},
		func() tea.Cmd {
			m.ctrl.CloseTab(tab)
			return nil
		})
}

func (m *Model) requestQuit() tea.Cmd {
	if m.ctrl.RequestQuit() {
		return m.quit()
	}
	m.confirm("Unsaved changes", "Some files have unsaved changes. Save them before quitting?",
		func() tea.Cmd {
			if err := m.ctrl.SaveAll(); err != nil {
				return nil
			}
			return m.quit()
		},
		func() tea.Cmd {
			m.ctrl.DiscardAll()
			return m.quit()
		})
	return nil
}

func (m *Model) quit() tea.Cmd {
	m.quitting = true
	m.ctrl.Shutdown()
	return tea.Quit
}

func (m *Model) copyLog() tea.Cmd {
	text := m.logs.Text()
	lines := len(m.logs.Lines(m.logs.Selected()))
	return func() tea.Msg {
		return messages.ClipboardMsg{Lines: lines, Err: clipboard.WriteAll(text)}
	}
}

func (m *Model) setFocus(focus common.Focus) {
	if m.page == ide.PageHome {
		focus = common.FocusHome
	}
	if focus == common.FocusNavigation && !m.docks[ide.DockNavigation] {
		return
	}
	if (focus == common.FocusErrors || focus == common.FocusLogs) && !m.docks[ide.DockLogs] {
		return
	}
	m.focus = focus
	if focus == common.FocusEditor {
		m.editor.Focus()
	} else {
		m.editor.Blur()
	}
}

// editorCursor returns the 1-based position of the textarea cursor
func (m *Model) editorCursor() types.CursorPos {
	info := m.editor.LineInfo()
	return types.CursorPos{Line: m.editor.Line() + 1, Column: info.StartColumn + info.ColumnOffset + 1}
}

func (m *Model) moveEditorCursor(pos types.CursorPos) {
	target := pos.Line - 1
	limit := len(m.editor.Value()) + 1
	for i := 0; m.editor.Line() > target && i < limit; i++ {
		m.editor.CursorUp()
	}
	for i := 0; m.editor.Line() < target && i < limit; i++ {
		m.editor.CursorDown()
	}
	m.editor.SetCursor(pos.Column - 1)
}

// loadEditor shows the text of the active tab in the textarea
func (m *Model) loadEditor() {
	if m.active == nil {
		m.editor.Reset()
		m.editor.Blur()
		return
	}
	m.editor.SetValue(m.active.Buffer().Text())
	m.moveEditorCursor(m.active.Buffer().Cursor())
}

func (m *Model) refreshHome() {
	entries := ide.QuickStartActions()
	entries = append(entries, m.recent...)
	m.home.SetItems(entries)
}

func (m *Model) layout() {
	width, height := m.width, m.height
	if width <= 0 {
		width = defaultWidth
	}
	if height <= 0 {
		height = defaultHeight
	}

	// Title, status bar and the tab bar
	body := height - 3
	if m.showHelp {
		body -= 6
	}

	logsHeight := 0
	if m.docks[ide.DockLogs] {
		logsHeight = max(body/3, 6)
	}
	navWidth := 0
	if m.docks[ide.DockNavigation] {
		navWidth = navigationWidth + 2
	}

	editorHeight := max(body-logsHeight-2, 3)
	m.editor.SetWidth(max(width-navWidth-2, 10))
	m.editor.SetHeight(editorHeight)
	m.outline.SetSize(navigationWidth, editorHeight+1)

	errorsWidth := width / 3
	m.errors.SetSize(max(errorsWidth-2, 10), max(logsHeight-2, 1))
	m.logs.SetSize(max(width-errorsWidth-2, 10), max(logsHeight-2, 1))

	m.home.SetSize(width, max(body-8, 3))
	m.status.SetWidth(width)
	m.help.Width = width
	if m.prompt != nil {
		m.prompt.SetWidth(width)
	}
}

// Surface implementation. The controller calls these on the UI goroutine,
// from within Update.

func (m *Model) ShowPage(page ide.Page) {
	m.page = page
	if page == ide.PageHome {
		m.setFocus(common.FocusHome)
	} else if m.focus == common.FocusHome {
		m.setFocus(common.FocusEditor)
	}
}

func (m *Model) SetTitle(title string) {
	m.title = title
	m.pending = append(m.pending, tea.SetWindowTitle(title))
}

func (m *Model) SetActions(state ide.ActionState) {
	m.actions = state
}

func (m *Model) SetStatus(status ide.Status) {
	m.status.SetStatus(status)
}

func (m *Model) SetTabs(tabs []editor.Tab, active editor.Tab) {
	m.tabs = tabs
	if active != m.active {
		m.active = active
		m.loadEditor()
	}
}

func (m *Model) ReloadTab(tab editor.Tab) {
	if tab == m.active {
		m.loadEditor()
	}
}

func (m *Model) MoveCursor(pos types.CursorPos) {
	if m.active != nil {
		m.moveEditorCursor(pos)
	}
}

func (m *Model) SetErrors(entries []string) {
	m.errors.SetItems(entries)
}

func (m *Model) SetNavigation(root *types.Node) {
	m.outline.SetRoot(root)
}

func (m *Model) SetRecentFiles(files []string) {
	m.recent = files
	m.refreshHome()
}

func (m *Model) SelectLog(tab ide.LogTab) {
	m.logs.Select(tab)
}

func (m *Model) ClearLog(tab ide.LogTab) {
	m.logs.Clear(tab)
}

func (m *Model) AppendLog(tab ide.LogTab, line string) {
	m.logs.Append(tab, line)
}

func (m *Model) ShowDock(dock ide.Dock, visible bool) {
	m.docks[dock] = visible
	if !visible {
		switch {
		case dock == ide.DockNavigation && m.focus == common.FocusNavigation,
			dock == ide.DockLogs && (m.focus == common.FocusErrors || m.focus == common.FocusLogs):
			m.setFocus(common.FocusEditor)
		}
	}
	m.layout()
}

func (m *Model) SetFullscreen(fullscreen bool) {
	if fullscreen {
		m.pending = append(m.pending, tea.EnterAltScreen)
	} else {
		m.pending = append(m.pending, tea.ExitAltScreen)
	}
}

func (m *Model) ShowError(title, msg string) {
	m.dialogs = append(m.dialogs, dialog{kind: dialogError, title: title, msg: msg})
}

func (m *Model) ShowWarning(title, msg string) {
	m.dialogs = append(m.dialogs, dialog{kind: dialogWarning, title: title, msg: msg})
}

func (m *Model) ShowInfo(title, msg string) {
	m.dialogs = append(m.dialogs, dialog{kind: dialogInfo, title: title, msg: msg})
}

func (m *Model) ShowMessage(msg string) {
	m.status.SetMessage(msg)
}

var _ ide.Surface = (*Model)(nil)

// Getters used by the views

func (m *Model) Size() (int, int) {
	return m.width, m.height
}

func (m *Model) Theme() styles.Theme {
	return m.theme
}

func (m *Model) Page() ide.Page {
	return m.page
}

func (m *Model) Focus() common.Focus {
	return m.focus
}

func (m *Model) Title() string {
	return m.title
}

func (m *Model) Tabs() []editor.Tab {
	return m.tabs
}

func (m *Model) ActiveTab() editor.Tab {
	return m.active
}

func (m *Model) DockVisible(dock ide.Dock) bool {
	return m.docks[dock]
}

func (m *Model) ShowHelp() bool {
	return m.showHelp
}

func (m *Model) Actions() ide.ActionState {
	return m.actions
}

func (m *Model) Quitting() bool {
	return m.quitting
}

func (m *Model) HomeView() string {
	return m.home.View()
}

func (m *Model) EditorView() string {
	return m.editor.View()
}

func (m *Model) ErrorsView() string {
	return m.errors.View()
}

func (m *Model) NavigationView() string {
	return m.outline.View()
}

func (m *Model) LogsView() string {
	return m.logs.View()
}

func (m *Model) StatusView() string {
	return m.status.View()
}

func (m *Model) HelpView() string {
	return m.help.FullHelpView(m.keys.FullHelp())
}

func (m *Model) OverlayView() string {
	if len(m.dialogs) > 0 {
		d := m.dialogs[0]
		title := m.theme.Info.Render(d.title)
		hint := "press any key"
		switch d.kind {
		case dialogError:
			title = m.theme.Error.Render(d.title)
		case dialogWarning:
			title = m.theme.Warning.Render(d.title)
		case dialogConfirm:
			title = m.theme.Warning.Render(d.title)
			hint = "y yes  n no  esc cancel"
		}
		return title + "\n\n" + d.msg + "\n\n" + m.theme.Help.Render(hint)
	}
	if m.prompt != nil {
		return m.prompt.View()
	}
	return ""
}
