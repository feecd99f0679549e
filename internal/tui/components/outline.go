package components

import (
	"strings"

	"cobide/internal/tui/styles"
	"cobide/pkg/types"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/reflow/truncate"
)

// outlineRow is a visible line of the outline
type outlineRow struct {
	node  *types.Node
	depth int
}

// Outline displays the navigation tree of the active COBOL document
type Outline struct {
	root   *types.Node
	rows   []outlineRow
	cursor int
	offset int // For scrolling
	width  int
	height int
	theme  styles.Theme
}

// NewOutline creates an empty outline
func NewOutline(theme styles.Theme) *Outline {
	return &Outline{theme: theme, width: 30, height: 10}
}

// SetRoot replaces the tree. The cursor stays on the node with the same
// name when the new tree still has it.
func (o *Outline) SetRoot(root *types.Node) {
	var current string
	if node := o.Selected(); node != nil {
		current = node.Name
	}

	o.root = root
	o.rows = o.rows[:0]
	root.Walk(func(node *types.Node, depth int) {
		o.rows = append(o.rows, outlineRow{node: node, depth: depth})
	})

	o.cursor = 0
	for i, row := range o.rows {
		if row.node.Name == current {
			o.cursor = i
			break
		}
	}
	o.scroll()
}

func (o *Outline) Root() *types.Node {
	return o.root
}

// Selected returns the node under the cursor, nil when the tree is empty
func (o *Outline) Selected() *types.Node {
	if o.cursor < 0 || o.cursor >= len(o.rows) {
		return nil
	}
	return o.rows[o.cursor].node
}

// MoveCursor moves the cursor by delta rows, staying inside the tree
func (o *Outline) MoveCursor(delta int) {
	pos := o.cursor + delta
	if pos < 0 {
		pos = 0
	}
	if pos >= len(o.rows) {
		pos = len(o.rows) - 1
	}
	if pos < 0 {
		return
	}
	o.cursor = pos
	o.scroll()
}

func (o *Outline) scroll() {
	if o.cursor < o.offset {
		o.offset = o.cursor
	}
	if o.height > 0 && o.cursor >= o.offset+o.height {
		o.offset = o.cursor - o.height + 1
	}
}

func (o *Outline) SetSize(width, height int) {
	o.width = width
	o.height = height - 1 // title line
	o.scroll()
}

func (o *Outline) Update(msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			o.MoveCursor(-1)
		case "down", "j":
			o.MoveCursor(1)
		case "home", "g":
			o.MoveCursor(-len(o.rows))
		case "end", "G":
			o.MoveCursor(len(o.rows))
		}
	}
	return nil
}

func (o *Outline) View() string {
	var sb strings.Builder
	sb.WriteString(o.theme.Title.Render("Navigation"))

	if len(o.rows) == 0 {
		sb.WriteString("\n\n  No outline")
		return sb.String()
	}

	end := len(o.rows)
	if o.height > 0 && o.offset+o.height < end {
		end = o.offset + o.height
	}
	for i := o.offset; i < end; i++ {
		row := o.rows[i]
		line := strings.Repeat("  ", row.depth) + icon(row.node.Kind) + row.node.Name
		if o.width > 2 {
			line = truncate.StringWithTail(line, uint(o.width-2), "…")
		}
		sb.WriteString("\n")
		if i == o.cursor {
			sb.WriteString(o.theme.Selected.Render("> " + line))
		} else {
			sb.WriteString(o.theme.Unselected.Render("  " + line))
		}
	}
	return sb.String()
}

func icon(kind types.NodeKind) string {
	switch kind {
	case types.NodeDivision:
		return "▸ "
	case types.NodeSection:
		return "§ "
	case types.NodeParagraph:
		return "¶ "
	default:
		return ""
	}
}
