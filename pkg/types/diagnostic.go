package types

import (
	"fmt"
	"strconv"
	"strings"
)

// Diagnostic is a compiler-reported line/message pair
type Diagnostic struct {
	Line    int    `json:"line" yaml:"line"`
	Message string `json:"message" yaml:"message"`
}

// String renders the diagnostic the way the error list shows it: "line:message"
func (d Diagnostic) String() string {
	return fmt.Sprintf("%d:%s", d.Line, d.Message)
}

// ParseDiagnosticLine extracts the line number from an error list entry.
// The boolean is false when the text does not start with a numeric line.
func ParseDiagnosticLine(text string) (int, bool) {
	prefix, _, _ := strings.Cut(text, ":")
	line, err := strconv.Atoi(strings.TrimSpace(prefix))
	if err != nil {
		return 0, false
	}
	return line, true
}

// CursorPos is a 1-based line and column pair
type CursorPos struct {
	Line   int
	Column int
}

// String renders the position for the status bar
func (p CursorPos) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}
