//go:build !nogui
// +build !nogui

package gui

import (
	"strconv"
	"strings"

	"cobide/internal/editor"
	"cobide/internal/ide"
	"cobide/pkg/types"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// codeEntry is the multi line editing widget of a tab. It inserts spaces
// for the tab key and lets the window handle its shortcuts first.
type codeEntry struct {
	widget.Entry

	tabWidth      int
	onShortcut    func(shortcut fyne.Shortcut) bool
	onFunctionKey func(name fyne.KeyName) bool
}

func newCodeEntry(tabWidth int) *codeEntry {
	e := &codeEntry{tabWidth: tabWidth}
	e.MultiLine = true
	e.Wrapping = fyne.TextWrapOff
	e.TextStyle = fyne.TextStyle{Monospace: true}
	e.ExtendBaseWidget(e)
	return e
}

// TypedKey handles function keys and the tab key before the entry does
func (e *codeEntry) TypedKey(ev *fyne.KeyEvent) {
	if e.onFunctionKey != nil && e.onFunctionKey(ev.Name) {
		return
	}
	if ev.Name == fyne.KeyTab {
		for i := 0; i < e.tabWidth; i++ {
			e.Entry.TypedRune(' ')
		}
		return
	}
	e.Entry.TypedKey(ev)
}

// TypedShortcut gives window shortcuts precedence over the entry ones
func (e *codeEntry) TypedShortcut(shortcut fyne.Shortcut) {
	if e.onShortcut != nil && e.onShortcut(shortcut) {
		return
	}
	e.Entry.TypedShortcut(shortcut)
}

// tabEditor binds an open tab to its tab item and editing widget
type tabEditor struct {
	tab   editor.Tab
	item  *container.TabItem
	entry *codeEntry
}

func (te *tabEditor) title() string {
	if te.tab.Buffer().IsDirty() {
		return te.tab.Name() + " *"
	}
	return te.tab.Name()
}

// navigationTree shows the outline of a COBOL document. Node IDs are the
// child indexes from the root joined with "/".
type navigationTree struct {
	tree       *widget.Tree
	root       *types.Node
	nodes      map[widget.TreeNodeID]*types.Node
	onActivate func(node *types.Node)
}

const navRootID = "0"

func newNavigationTree(onActivate func(node *types.Node)) *navigationTree {
	n := &navigationTree{
		nodes:      make(map[widget.TreeNodeID]*types.Node),
		onActivate: onActivate,
	}
	n.tree = widget.NewTree(
		n.childUIDs,
		func(id widget.TreeNodeID) bool {
			if id == "" {
				return true
			}
			node := n.nodes[id]
			return node != nil && len(node.Children) > 0
		},
		func(branch bool) fyne.CanvasObject {
			return widget.NewLabel("Template node name")
		},
		func(id widget.TreeNodeID, branch bool, obj fyne.CanvasObject) {
			if node := n.nodes[id]; node != nil {
				obj.(*widget.Label).SetText(node.Name)
			}
		},
	)
	n.tree.OnSelected = func(id widget.TreeNodeID) {
		if node := n.nodes[id]; node != nil && n.onActivate != nil {
			n.onActivate(node)
		}
		n.tree.Unselect(id)
	}
	return n
}

func (n *navigationTree) childUIDs(id widget.TreeNodeID) []widget.TreeNodeID {
	if id == "" {
		if n.root == nil {
			return nil
		}
		return []widget.TreeNodeID{navRootID}
	}
	node := n.nodes[id]
	if node == nil {
		return nil
	}
	ids := make([]widget.TreeNodeID, len(node.Children))
	for i := range node.Children {
		ids[i] = id + "/" + strconv.Itoa(i)
	}
	return ids
}

// SetRoot replaces the outline. An identical outline leaves the tree and
// its scroll position untouched.
func (n *navigationTree) SetRoot(root *types.Node) {
	if root.Equal(n.root) {
		return
	}
	n.root = root
	n.nodes = make(map[widget.TreeNodeID]*types.Node)
	if root != nil {
		n.index(navRootID, root)
	}
	n.tree.Refresh()
	n.tree.OpenAllBranches()
}

func (n *navigationTree) index(id widget.TreeNodeID, node *types.Node) {
	n.nodes[id] = node
	for i, child := range node.Children {
		n.index(id+"/"+strconv.Itoa(i), child)
	}
}

// Root returns the outline shown
func (n *navigationTree) Root() *types.Node {
	return n.root
}

// logPanel holds the compiler and program output logs
type logPanel struct {
	content *fyne.Container
	tabs    *container.AppTabs
	items   map[ide.LogTab]*container.TabItem
	lists   map[ide.LogTab]*widget.List
	lines   map[ide.LogTab][]string
}

func newLogPanel(onCopy func(text string)) *logPanel {
	p := &logPanel{
		items: make(map[ide.LogTab]*container.TabItem),
		lists: make(map[ide.LogTab]*widget.List),
		lines: make(map[ide.LogTab][]string),
	}

	p.tabs = container.NewAppTabs()
	for _, tab := range []ide.LogTab{ide.LogCompiler, ide.LogOutput} {
		tab := tab
		list := widget.NewList(
			func() int {
				return len(p.lines[tab])
			},
			func() fyne.CanvasObject {
				return widget.NewLabelWithStyle("", fyne.TextAlignLeading, fyne.TextStyle{Monospace: true})
			},
			func(id widget.ListItemID, obj fyne.CanvasObject) {
				if id < 0 || id >= len(p.lines[tab]) {
					return
				}
				obj.(*widget.Label).SetText(p.lines[tab][id])
			},
		)
		p.lists[tab] = list
		p.items[tab] = container.NewTabItem(tab.String(), list)
		p.tabs.Append(p.items[tab])
	}

	copyButton := widget.NewButtonWithIcon("", theme.ContentCopyIcon(), func() {
		if onCopy != nil {
			onCopy(p.Text(p.Selected()))
		}
	})
	copyButton.Importance = widget.LowImportance

	p.content = container.NewBorder(nil, nil, nil, container.NewVBox(copyButton), p.tabs)
	return p
}

// Select shows a log tab
func (p *logPanel) Select(tab ide.LogTab) {
	p.tabs.Select(p.items[tab])
}

// Selected returns the log tab shown
func (p *logPanel) Selected() ide.LogTab {
	current := p.tabs.Selected()
	for tab, item := range p.items {
		if item == current {
			return tab
		}
	}
	return ide.LogCompiler
}

// Clear empties a log
func (p *logPanel) Clear(tab ide.LogTab) {
	p.lines[tab] = nil
	p.lists[tab].Refresh()
}

// Append adds a line to a log and scrolls to it
func (p *logPanel) Append(tab ide.LogTab, line string) {
	p.lines[tab] = append(p.lines[tab], line)
	p.lists[tab].Refresh()
	p.lists[tab].ScrollToBottom()
}

// Lines returns the content of a log
func (p *logPanel) Lines(tab ide.LogTab) []string {
	return p.lines[tab]
}

// Text returns the content of a log as one string
func (p *logPanel) Text(tab ide.LogTab) string {
	return strings.Join(p.lines[tab], "\n")
}

// diagnosticIcon picks the icon of an error list entry
func diagnosticIcon(entry string) fyne.Resource {
	if strings.Contains(strings.ToLower(entry), "warning") {
		return theme.WarningIcon()
	}
	return theme.ErrorIcon()
}
