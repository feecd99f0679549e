package components

import (
	"fmt"
	"io"
	"strings"

	"cobide/internal/tui/styles"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/reflow/truncate"
)

// item is a single line entry of an ItemList
type item string

func (i item) FilterValue() string { return string(i) }

// itemDelegate renders one entry per line with a cursor marker
type itemDelegate struct {
	theme styles.Theme
}

func (d itemDelegate) Height() int                             { return 1 }
func (d itemDelegate) Spacing() int                            { return 0 }
func (d itemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d itemDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	text, ok := listItem.(item)
	if !ok {
		return
	}
	line := string(text)
	if width := m.Width() - 2; width > 0 {
		line = truncate.StringWithTail(line, uint(width), "…")
	}
	if index == m.Index() {
		fmt.Fprint(w, d.theme.Selected.Render("> "+line))
		return
	}
	fmt.Fprint(w, d.theme.Unselected.Render("  "+line))
}

// ItemList is a titled list of strings used for the error list and the
// home page entries.
type ItemList struct {
	list  list.Model
	items []string
	empty string
}

// NewItemList returns an empty list showing placeholder when it has no
// entries.
func NewItemList(title, placeholder string, theme styles.Theme) *ItemList {
	l := list.New([]list.Item{}, itemDelegate{theme: theme}, 0, 0)
	l.Title = title
	l.Styles.Title = theme.Title
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowPagination(false)
	l.DisableQuitKeybindings()
	l.KeyMap.ShowFullHelp.SetEnabled(false)
	l.KeyMap.CloseFullHelp.SetEnabled(false)

	return &ItemList{list: l, empty: placeholder}
}

func (il *ItemList) Init() tea.Cmd {
	return nil
}

// SetItems replaces the entries and moves the cursor to the first one
func (il *ItemList) SetItems(entries []string) {
	il.items = append([]string(nil), entries...)
	items := make([]list.Item, len(entries))
	for i, e := range entries {
		items[i] = item(e)
	}
	il.list.SetItems(items)
	il.list.Select(0)
}

func (il *ItemList) Items() []string {
	return il.items
}

func (il *ItemList) Len() int {
	return len(il.items)
}

// Selected returns the entry under the cursor
func (il *ItemList) Selected() (string, bool) {
	i := il.list.Index()
	if i < 0 || i >= len(il.items) {
		return "", false
	}
	return il.items[i], true
}

func (il *ItemList) Index() int {
	return il.list.Index()
}

func (il *ItemList) Select(i int) {
	il.list.Select(i)
}

func (il *ItemList) SetSize(width, height int) {
	il.list.SetSize(width, height)
}

func (il *ItemList) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	il.list, cmd = il.list.Update(msg)
	return cmd
}

func (il *ItemList) View() string {
	if len(il.items) == 0 {
		return il.list.Styles.Title.Render(il.list.Title) + "\n\n  " + il.empty
	}
	return strings.TrimRight(il.list.View(), "\n")
}
