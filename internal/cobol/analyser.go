package cobol

import (
	"strings"
	"unicode"

	"cobide/pkg/types"
)

// Analyser builds the navigation outline of a COBOL document and notifies
// listeners when its layout changes.
type Analyser struct {
	name      string
	root      *types.Node
	listeners []func(root *types.Node)
}

// NewAnalyser returns an analyser whose root node is called name
func NewAnalyser(name string) *Analyser {
	return &Analyser{name: name, root: &types.Node{Name: name, Kind: types.NodeRoot}}
}

// SetName renames the root node
func (a *Analyser) SetName(name string) {
	a.name = name
	a.root.Name = name
}

// Root returns the last parsed outline
func (a *Analyser) Root() *types.Node {
	return a.root
}

// OnLayoutChanged registers fn to be called with the new outline whenever a
// parse changes it.
func (a *Analyser) OnLayoutChanged(fn func(root *types.Node)) {
	a.listeners = append(a.listeners, fn)
}

// Parse rebuilds the outline from text. Listeners are only notified when
// the outline differs from the previous one.
func (a *Analyser) Parse(text string) *types.Node {
	root := ParseOutline(a.name, text)
	if root.Equal(a.root) {
		return a.root
	}
	a.root = root
	for _, fn := range a.listeners {
		fn(root)
	}
	return root
}

// ParseOutline returns the divisions, sections and paragraphs of a COBOL
// document. Both fixed and free source formats are understood.
func ParseOutline(name, text string) *types.Node {
	root := &types.Node{Name: name, Kind: types.NodeRoot}
	var division, section *types.Node
	inProcedure := false

	for i, raw := range strings.Split(text, "\n") {
		code, indent, ok := codeArea(strings.TrimRight(raw, "\r"))
		if !ok {
			continue
		}
		upper := strings.ToUpper(code)
		fields := strings.Fields(strings.TrimSuffix(upper, "."))

		switch {
		case len(fields) >= 2 && fields[1] == "DIVISION":
			division = &types.Node{Name: fields[0] + " DIVISION", Kind: types.NodeDivision, Line: i}
			root.Children = append(root.Children, division)
			section = nil
			inProcedure = fields[0] == "PROCEDURE"

		case len(fields) >= 2 && fields[1] == "SECTION" && division != nil:
			section = &types.Node{Name: fields[0] + " SECTION", Kind: types.NodeSection, Line: i}
			division.Children = append(division.Children, section)

		case inProcedure && indent < 4 && isParagraph(upper):
			para := &types.Node{Name: strings.TrimSuffix(upper, "."), Kind: types.NodeParagraph, Line: i}
			if section != nil {
				section.Children = append(section.Children, para)
			} else {
				division.Children = append(division.Children, para)
			}
		}
	}
	return root
}

// codeArea strips the sequence and indicator areas of fixed format lines
// and inline comments. indent is the number of blanks before the code, ok
// is false for blank and comment lines.
func codeArea(line string) (string, int, bool) {
	if isFixedFormat(line) {
		if line[6] == '*' || line[6] == '/' {
			return "", 0, false
		}
		line = line[7:]
		if len(line) > 65 {
			line = line[:65]
		}
	}
	if i := strings.Index(line, "*>"); i >= 0 {
		line = line[:i]
	}
	trimmed := strings.TrimLeft(line, " \t")
	indent := len(line) - len(trimmed)
	trimmed = strings.TrimSpace(trimmed)
	if trimmed == "" {
		return "", 0, false
	}
	return trimmed, indent, true
}

func isFixedFormat(line string) bool {
	if len(line) < 7 {
		return false
	}
	for _, r := range line[:6] {
		if r != ' ' && !unicode.IsDigit(r) {
			return false
		}
	}
	switch line[6] {
	case ' ', '*', '/', '-', 'D', 'd':
		return true
	}
	return false
}

// isParagraph reports whether a procedure division line is a paragraph
// header: a single user defined word terminated by a period.
func isParagraph(upper string) bool {
	if !strings.HasSuffix(upper, ".") {
		return false
	}
	word := strings.TrimSuffix(upper, ".")
	if word == "" || strings.ContainsAny(word, " \t\"'.") {
		return false
	}
	if reservedStatements[word] || strings.HasPrefix(word, "END-") {
		return false
	}
	for _, r := range word {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-' && r != '_' {
			return false
		}
	}
	return true
}

var reservedStatements = map[string]bool{
	"EXIT":     true,
	"GOBACK":   true,
	"CONTINUE": true,
	"STOP":     true,
	"ELSE":     true,
}
