package tui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"cobide/internal/config"
	"cobide/internal/editor"
	"cobide/internal/ide"
	"cobide/internal/tui/common"
	"cobide/internal/tui/components"
	"cobide/internal/tui/messages"
	"cobide/internal/tui/styles"
	"cobide/pkg/testutils"
	"cobide/pkg/types"

	alsrt "github.com/alecthomas/assert"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestModel(t *testing.T) *Model {
	t.Helper()
	m := New(config.NewMemoryStore(nil))
	t.Cleanup(m.Controller().Shutdown)
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return m
}

func openHello(t *testing.T, m *Model) string {
	t.Helper()
	dir := testutils.CreateCobolProject(t)
	path := filepath.Join(dir, "hello.cbl")
	m.Update(messages.OpenFilesMsg{Paths: []string{path}})
	require.NotNil(t, m.ActiveTab())
	return path
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModelInitialization(t *testing.T) {
	m := newTestModel(t)

	assert.Equal(t, ide.PageHome, m.Page())
	assert.Equal(t, common.FocusHome, m.Focus())
	assert.Equal(t, ide.WindowTitle, m.Title())
	assert.Nil(t, m.ActiveTab())
	assert.Equal(t, ide.ActionState{}, m.Actions())
	assert.False(t, m.DockVisible(ide.DockLogs))

	view := testutils.StripANSI(m.View())
	alsrt.Contains(t, view, ide.QuickStartNew)
	alsrt.Contains(t, view, ide.QuickStartOpen)
	alsrt.Contains(t, view, ide.QuickStartAbout)
}

func TestOpenFileShowsEditor(t *testing.T) {
	m := newTestModel(t)
	path := openHello(t, m)

	alsrt.Equal(t, ide.PageEditor, m.Page())
	alsrt.Equal(t, common.FocusEditor, m.Focus())
	alsrt.Equal(t, "COBOL IDE - hello.cbl", m.Title())
	alsrt.Equal(t, path, m.ActiveTab().Path())
	assert.True(t, m.DockVisible(ide.DockNavigation))
	assert.True(t, m.Actions().Compile.Enabled)
	assert.Equal(t, path, m.status.Status().Filename)
	assert.Equal(t, "1:1", m.status.Status().Cursor)
	assert.Contains(t, m.editor.Value(), "PROGRAM-ID. HELLO.")
	require.NotNil(t, m.outline.Root())
	assert.Len(t, m.outline.Root().Children, 4)

	view := testutils.StripANSI(m.View())
	alsrt.Contains(t, view, "hello.cbl")
	alsrt.Contains(t, view, "Navigation")
}

func TestOpenMissingFileSetsMessage(t *testing.T) {
	m := newTestModel(t)
	m.Update(messages.OpenFilesMsg{Paths: []string{filepath.Join(t.TempDir(), "nope.cbl")}})

	assert.Nil(t, m.ActiveTab())
	assert.Equal(t, ide.PageHome, m.Page())
	assert.Contains(t, m.status.Message(), "no such file")
}

func TestTypingUpdatesTheTab(t *testing.T) {
	m := newTestModel(t)
	path := openHello(t, m)
	tab := m.ActiveTab()

	m.Update(keyRunes("X"))
	assert.True(t, tab.Buffer().IsDirty())
	assert.True(t, strings.HasPrefix(tab.Buffer().Text(), "X"))
	assert.Equal(t, "1:2", m.status.Status().Cursor)
	alsrt.Contains(t, testutils.StripANSI(m.View()), "hello.cbl*")

	m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	assert.False(t, tab.Buffer().IsDirty())
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "X       IDENTIFICATION DIVISION."))
}

func TestTabKeyInsertsSpaces(t *testing.T) {
	m := newTestModel(t)
	openHello(t, m)

	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.True(t, strings.HasPrefix(m.ActiveTab().Buffer().Text(), "           IDENTIFICATION"))
	assert.Equal(t, types.CursorPos{Line: 1, Column: 5}, m.Controller().Tabs().CursorPos())
}

func TestErrorListActivation(t *testing.T) {
	m := newTestModel(t)
	openHello(t, m)

	tab := m.ActiveTab().(*editor.CobolTab)
	tab.Errors.SetErrors([]types.Diagnostic{
		{Line: 3, Message: "error: first"},
		{Line: 11, Message: "error: second"},
	}, "")
	assert.Equal(t, []string{"3:error: first", "11:error: second"}, m.errors.Items())

	m.Update(tea.KeyMsg{Type: tea.KeyF3})
	require.Equal(t, common.FocusErrors, m.Focus())
	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, common.FocusEditor, m.Focus())
	assert.Equal(t, types.CursorPos{Line: 11, Column: 1}, m.Controller().Tabs().CursorPos())
	assert.Equal(t, 10, m.editor.Line())
	assert.Equal(t, "11:1", m.status.Status().Cursor)
}

func TestNavigationActivation(t *testing.T) {
	m := newTestModel(t)
	openHello(t, m)

	m.Update(tea.KeyMsg{Type: tea.KeyF4})
	require.Equal(t, common.FocusNavigation, m.Focus())

	// root, four divisions, one section, then MAIN-PARA
	for i := 0; i < 6; i++ {
		m.Update(tea.KeyMsg{Type: tea.KeyDown})
	}
	require.Equal(t, "MAIN-PARA", m.outline.Selected().Name)
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, types.CursorPos{Line: 8, Column: 1}, m.Controller().Tabs().CursorPos())
	assert.Equal(t, 7, m.editor.Line())
}

func TestToggleFileType(t *testing.T) {
	m := newTestModel(t)
	openHello(t, m)

	m.Update(tea.KeyMsg{Type: tea.KeyCtrlT})
	assert.Equal(t, types.Subprogram, m.ActiveTab().Type())
	assert.False(t, m.Actions().Run.Enabled)

	m.Update(tea.KeyMsg{Type: tea.KeyCtrlT})
	assert.Equal(t, types.Program, m.ActiveTab().Type())
	assert.True(t, m.Actions().Run.Enabled)
}

func TestDocksToggle(t *testing.T) {
	m := newTestModel(t)
	openHello(t, m)

	m.Update(tea.KeyMsg{Type: tea.KeyF4})
	m.Update(tea.KeyMsg{Type: tea.KeyF10})
	assert.False(t, m.DockVisible(ide.DockNavigation))
	assert.Equal(t, common.FocusEditor, m.Focus(), "focus leaves a hidden dock")

	m.Update(tea.KeyMsg{Type: tea.KeyF9})
	assert.False(t, m.DockVisible(ide.DockLogs))
	m.Update(tea.KeyMsg{Type: tea.KeyF3})
	assert.Equal(t, common.FocusEditor, m.Focus())
}

func TestDialogs(t *testing.T) {
	m := newTestModel(t)

	m.Update(tea.KeyMsg{Type: tea.KeyF12})
	overlay := m.OverlayView()
	alsrt.Contains(t, overlay, "About COBOL IDE")
	alsrt.Contains(t, testutils.StripANSI(m.View()), "GnuCOBOL")

	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	alsrt.Equal(t, "", m.OverlayView())
}

func TestCloseDirtyTabAsks(t *testing.T) {
	m := newTestModel(t)
	openHello(t, m)
	m.Update(keyRunes("X"))

	m.Update(tea.KeyMsg{Type: tea.KeyCtrlW})
	require.NotNil(t, m.ActiveTab(), "the tab stays open until the user answers")
	alsrt.Contains(t, m.OverlayView(), "Save changes to hello.cbl")

	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, m.ActiveTab())

	m.Update(tea.KeyMsg{Type: tea.KeyCtrlW})
	m.Update(keyRunes("n"))
	assert.Nil(t, m.ActiveTab())
	assert.Equal(t, ide.PageHome, m.Page())
	assert.Equal(t, common.FocusHome, m.Focus())
}

func TestQuit(t *testing.T) {
	t.Run("clean tabs quit right away", func(t *testing.T) {
		m := newTestModel(t)
		openHello(t, m)
		m.Update(tea.KeyMsg{Type: tea.KeyCtrlQ})
		assert.True(t, m.Quitting())
		assert.Empty(t, m.View())
	})

	t.Run("unsaved changes are confirmed", func(t *testing.T) {
		m := newTestModel(t)
		path := openHello(t, m)
		m.Update(keyRunes("X"))

		m.Update(tea.KeyMsg{Type: tea.KeyCtrlQ})
		assert.False(t, m.Quitting())
		alsrt.Contains(t, m.OverlayView(), "unsaved changes")

		m.Update(keyRunes("y"))
		assert.True(t, m.Quitting())
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(string(data), "X"))
	})
}

func TestPromptMessages(t *testing.T) {
	m := newTestModel(t)
	dir := testutils.CreateCobolProject(t)

	m.Update(tea.KeyMsg{Type: tea.KeyCtrlO})
	require.NotNil(t, m.prompt)
	alsrt.Contains(t, m.OverlayView(), "Open file")

	m.Update(messages.PromptMsg{Kind: messages.PromptOpen, Value: filepath.Join(dir, "notes.txt")})
	assert.Nil(t, m.prompt)
	require.NotNil(t, m.ActiveTab())
	assert.Equal(t, "notes.txt", m.ActiveTab().Name())
	assert.False(t, m.DockVisible(ide.DockNavigation))

	m.Update(messages.PromptMsg{Kind: messages.PromptNew, Value: filepath.Join(dir, "payroll")})
	assert.Equal(t, "payroll.cbl", m.ActiveTab().Name())
	assert.Equal(t, types.Program, m.ActiveTab().Type())

	m.Update(messages.PromptMsg{Kind: messages.PromptSaveAs, Value: filepath.Join(dir, "copy.cbl")})
	assert.Equal(t, "copy.cbl", m.ActiveTab().Name())
	assert.FileExists(t, filepath.Join(dir, "copy.cbl"))

	// Cancelled prompts do nothing
	m.Update(messages.PromptMsg{Kind: messages.PromptSaveAs})
	assert.Equal(t, "copy.cbl", m.ActiveTab().Name())
}

func TestPromptComponent(t *testing.T) {
	p := components.NewPrompt(messages.PromptOpen, "Open file", "/tmp/", styles.Default)

	p.Update(keyRunes("a.cbl"))
	alsrt.Equal(t, "/tmp/a.cbl", p.Value())

	cmd := p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, messages.PromptMsg{Kind: messages.PromptOpen, Value: "/tmp/a.cbl"}, cmd())

	cmd = p.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, messages.PromptMsg{Kind: messages.PromptOpen}, cmd())
}

func TestMailboxPump(t *testing.T) {
	m := newTestModel(t)

	ran := false
	require.True(t, m.Controller().Mailbox().Post(func() { ran = true }))

	msg := m.waitMailbox()()
	mail, ok := msg.(messages.MailboxMsg)
	require.True(t, ok)
	_, cmd := m.Update(mail)
	assert.True(t, ran)
	assert.NotNil(t, cmd, "the pump is re-armed")

	m.Controller().Shutdown()
	assert.Equal(t, messages.MailboxClosedMsg{}, m.waitMailbox()())
}

func TestLogPanel(t *testing.T) {
	lp := components.NewLogPanel(styles.Default)
	lp.SetSize(40, 6)

	lp.Append(ide.LogCompiler, "Compiling hello.cbl (Program)")
	lp.Append(ide.LogOutput, "HELLO WORLD")
	alsrt.Contains(t, testutils.StripANSI(lp.View()), "Compiling hello.cbl")

	lp.Select(ide.LogOutput)
	alsrt.Equal(t, "HELLO WORLD", lp.Text())

	lp.Update(tea.KeyMsg{Type: tea.KeyTab})
	alsrt.Equal(t, ide.LogCompiler, lp.Selected())

	lp.Clear(ide.LogCompiler)
	assert.Empty(t, lp.Lines(ide.LogCompiler))
	assert.Equal(t, []string{"HELLO WORLD"}, lp.Lines(ide.LogOutput))
}

func TestOutline(t *testing.T) {
	o := components.NewOutline(styles.Default)
	assert.Nil(t, o.Selected())
	o.MoveCursor(1)

	root := &types.Node{Name: "hello.cbl", Kind: types.NodeRoot, Children: []*types.Node{
		{Name: "PROCEDURE DIVISION", Kind: types.NodeDivision, Line: 6, Children: []*types.Node{
			{Name: "MAIN-PARA", Kind: types.NodeParagraph, Line: 7},
		}},
	}}
	o.SetRoot(root)
	o.MoveCursor(2)
	assert.Equal(t, "MAIN-PARA", o.Selected().Name)
	o.MoveCursor(5)
	assert.Equal(t, "MAIN-PARA", o.Selected().Name)

	// The cursor follows the selected node across reparses
	root.Children[0].Children = append([]*types.Node{{Name: "INIT-PARA", Kind: types.NodeParagraph, Line: 7}},
		&types.Node{Name: "MAIN-PARA", Kind: types.NodeParagraph, Line: 9})
	o.SetRoot(root)
	assert.Equal(t, "MAIN-PARA", o.Selected().Name)

	o.SetRoot(nil)
	assert.Nil(t, o.Selected())
	alsrt.Contains(t, o.View(), "No outline")
}
