package types

// NodeKind tells what part of a COBOL document a navigation node points at
type NodeKind int

const (
	NodeRoot NodeKind = iota
	NodeDivision
	NodeSection
	NodeParagraph
)

// Node is an entry of the navigation tree. Line is zero based.
type Node struct {
	Name     string
	Kind     NodeKind
	Line     int
	Children []*Node
}

// Walk visits the node and its descendants depth first. The depth of the
// root is 0.
func (n *Node) Walk(fn func(node *Node, depth int)) {
	if n == nil {
		return
	}
	var walk func(node *Node, depth int)
	walk = func(node *Node, depth int) {
		fn(node, depth)
		for _, child := range node.Children {
			walk(child, depth+1)
		}
	}
	walk(n, 0)
}

// Equal reports whether two trees have the same shape, names and lines.
func (n *Node) Equal(other *Node) bool {
	if n == nil || other == nil {
		return n == other
	}
	if n.Name != other.Name || n.Kind != other.Kind || n.Line != other.Line {
		return false
	}
	if len(n.Children) != len(other.Children) {
		return false
	}
	for i := range n.Children {
		if !n.Children[i].Equal(other.Children[i]) {
			return false
		}
	}
	return true
}
