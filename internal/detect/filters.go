package detect

import (
	"fmt"
	"path/filepath"
	"strings"

	"cobide/pkg/types"

	"github.com/gobwas/glob"
)

// Filter is a named set of file name patterns offered by the open and save
// dialogs.
type Filter struct {
	Name     string
	Patterns []string
	globs    []glob.Glob
}

// NewFilter compiles patterns. Patterns match against the base name of a path.
func NewFilter(name string, patterns ...string) (*Filter, error) {
	f := &Filter{Name: name, Patterns: patterns}
	for _, p := range patterns {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", p, err)
		}
		f.globs = append(f.globs, g)
	}
	return f, nil
}

func mustFilter(name string, patterns ...string) *Filter {
	f, err := NewFilter(name, patterns...)
	if err != nil {
		panic(err)
	}
	return f
}

var (
	// CobolFilter selects COBOL sources
	CobolFilter = mustFilter("Cobol files", "*"+CobolExtension)
	// TextFilter selects plain text files
	TextFilter = mustFilter("Text files", "*.txt", "*.dat")
	// AllFilter selects everything
	AllFilter = mustFilter("All files", "*")
)

// OpenFilters lists the filters of the open dialog in display order
func OpenFilters() []*Filter {
	return []*Filter{CobolFilter, TextFilter, AllFilter}
}

// Match reports whether the base name of path matches one of the patterns
func (f *Filter) Match(path string) bool {
	base := filepath.Base(path)
	for _, g := range f.globs {
		if g.Match(base) {
			return true
		}
	}
	return false
}

// Extensions returns the literal extensions named by the patterns, for
// toolkits whose dialogs filter by extension.
func (f *Filter) Extensions() []string {
	var exts []string
	for _, p := range f.Patterns {
		if strings.HasPrefix(p, "*.") && !strings.ContainsAny(p[2:], "*?[{") {
			exts = append(exts, p[1:])
		}
	}
	return exts
}

func (f *Filter) String() string {
	return fmt.Sprintf("%s (%s)", f.Name, strings.Join(f.Patterns, " "))
}

// FilterFor returns the dialog filter matching a file type
func FilterFor(t types.FileType) *Filter {
	if t.IsCobol() {
		return CobolFilter
	}
	return TextFilter
}

// DefaultExtension is appended to new file names that have no extension
func DefaultExtension(t types.FileType) string {
	if t.IsCobol() {
		return CobolExtension
	}
	return ".txt"
}

// EnsureExtension appends the default extension of t when path has none
func EnsureExtension(path string, t types.FileType) string {
	if path == "" || filepath.Ext(path) != "" {
		return path
	}
	return path + DefaultExtension(t)
}
