package views

import (
	"strings"

	"cobide/internal/ide"
	"cobide/internal/tui/common"

	"github.com/charmbracelet/lipgloss"
)

// RenderMainView lays out the current page, the docks and the status bar.
// An open dialog or prompt replaces the page.
func RenderMainView(m common.ModelReader) string {
	theme := m.Theme()
	width, _ := m.Size()

	var sb strings.Builder
	sb.WriteString(theme.Title.Render(m.Title()))
	sb.WriteString("\n")

	switch {
	case m.OverlayView() != "":
		sb.WriteString(renderCentered(m, theme.Dialog.Render(m.OverlayView())))
	case m.Page() == ide.PageHome:
		sb.WriteString(renderBanner(m))
		sb.WriteString("\n")
		sb.WriteString(m.HomeView())
	default:
		sb.WriteString(renderEditorPage(m))
	}

	if m.ShowHelp() {
		sb.WriteString("\n" + m.HelpView())
	}
	sb.WriteString("\n" + m.StatusView())
	return theme.App.MaxWidth(width).Render(sb.String())
}

func renderEditorPage(m common.ModelReader) string {
	theme := m.Theme()

	panel := func(focus common.Focus, content string) string {
		if m.Focus() == focus {
			return theme.Focused.Render(content)
		}
		return theme.Panel.Render(content)
	}

	center := RenderTabBar(m) + "\n" + panel(common.FocusEditor, m.EditorView())
	if m.DockVisible(ide.DockNavigation) {
		center = lipgloss.JoinHorizontal(lipgloss.Top,
			panel(common.FocusNavigation, m.NavigationView()),
			center,
		)
	}

	if !m.DockVisible(ide.DockLogs) {
		return center
	}
	bottom := lipgloss.JoinHorizontal(lipgloss.Top,
		panel(common.FocusErrors, m.ErrorsView()),
		panel(common.FocusLogs, m.LogsView()),
	)
	return lipgloss.JoinVertical(lipgloss.Left, center, bottom)
}

// RenderTabBar lists the open tabs, highlighting the active one. Tabs with
// unsaved changes are marked with an asterisk.
func RenderTabBar(m common.ModelReader) string {
	theme := m.Theme()
	active := m.ActiveTab()

	var tabs []string
	for _, tab := range m.Tabs() {
		name := tab.Name()
		if tab.Buffer().IsDirty() {
			name += "*"
		}
		if tab == active {
			tabs = append(tabs, theme.ActiveTab.Render(name))
		} else {
			tabs = append(tabs, theme.Tab.Render(name))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func renderCentered(m common.ModelReader, content string) string {
	width, height := m.Size()
	if width <= 0 || height <= 0 {
		return content
	}
	return lipgloss.Place(width, height-3, lipgloss.Center, lipgloss.Center, content)
}

func renderBanner(m common.ModelReader) string {
	return m.Theme().Title.Render(`
   ____ ___  ____   ___  _       ___ ____  _____
  / ___/ _ \| __ ) / _ \| |     |_ _|  _ \| ____|
 | |  | | | |  _ \| | | | |      | || | | |  _|
 | |__| |_| | |_) | |_| | |___   | || |_| | |___
  \____\___/|____/ \___/|_____| |___|____/|_____|
`)
}
