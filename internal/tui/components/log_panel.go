package components

import (
	"strings"

	"cobide/internal/ide"
	"cobide/internal/tui/styles"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
)

// LogPanel shows the compiler and program output logs, one at a time
type LogPanel struct {
	viewport viewport.Model
	logs     map[ide.LogTab][]string
	selected ide.LogTab
	theme    styles.Theme
	width    int
	height   int
}

func NewLogPanel(theme styles.Theme) *LogPanel {
	vp := viewport.New(80, 8)
	return &LogPanel{
		viewport: vp,
		logs:     map[ide.LogTab][]string{},
		theme:    theme,
		width:    80,
		height:   9,
	}
}

func (lp *LogPanel) SetSize(width, height int) {
	lp.width = width
	lp.height = height
	lp.viewport.Width = width
	lp.viewport.Height = height - 1 // Leave room for the tab bar
	lp.refresh(false)
}

// Select shows the log of tab
func (lp *LogPanel) Select(tab ide.LogTab) {
	lp.selected = tab
	lp.refresh(true)
}

func (lp *LogPanel) Selected() ide.LogTab {
	return lp.selected
}

func (lp *LogPanel) Clear(tab ide.LogTab) {
	lp.logs[tab] = nil
	if tab == lp.selected {
		lp.refresh(true)
	}
}

// Append adds a line to the log of tab, following the end of the log when
// it is shown.
func (lp *LogPanel) Append(tab ide.LogTab, line string) {
	lp.logs[tab] = append(lp.logs[tab], line)
	if tab == lp.selected {
		lp.refresh(true)
	}
}

// Lines returns the content of the log of tab
func (lp *LogPanel) Lines(tab ide.LogTab) []string {
	return lp.logs[tab]
}

// Text returns the selected log as plain text
func (lp *LogPanel) Text() string {
	return strings.Join(lp.logs[lp.selected], "\n")
}

func (lp *LogPanel) refresh(follow bool) {
	content := lp.Text()
	if lp.width > 0 {
		content = wordwrap.String(content, lp.width)
	}
	lp.viewport.SetContent(content)
	if follow {
		lp.viewport.GotoBottom()
	}
}

func (lp *LogPanel) Update(msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.String() == "tab" {
		if lp.selected == ide.LogCompiler {
			lp.Select(ide.LogOutput)
		} else {
			lp.Select(ide.LogCompiler)
		}
		return nil
	}
	var cmd tea.Cmd
	lp.viewport, cmd = lp.viewport.Update(msg)
	return cmd
}

func (lp *LogPanel) View() string {
	var tabs []string
	for _, tab := range []ide.LogTab{ide.LogCompiler, ide.LogOutput} {
		if tab == lp.selected {
			tabs = append(tabs, lp.theme.ActiveTab.Render(tab.String()))
		} else {
			tabs = append(tabs, lp.theme.Tab.Render(tab.String()))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...) + "\n" + lp.viewport.View()
}
