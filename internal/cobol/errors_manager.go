package cobol

import (
	"cobide/pkg/types"
)

// Markers is implemented by editors able to flag lines. The map is keyed by
// 1-based line number.
type Markers interface {
	SetMarkers(lines map[int]string)
}

// ErrorsManager keeps the diagnostics of the last compilation of one COBOL
// tab and renders them to the tab's line markers and to an error list.
type ErrorsManager struct {
	markers    Markers
	render     func(diags []types.Diagnostic)
	diags      []types.Diagnostic
	outputPath string
}

// NewErrorsManager binds a manager to an editor. render receives the
// diagnostics each time they are shown; it may be nil.
func NewErrorsManager(markers Markers, render func(diags []types.Diagnostic)) *ErrorsManager {
	return &ErrorsManager{markers: markers, render: render}
}

// SetErrors replaces the diagnostics and shows them
func (m *ErrorsManager) SetErrors(diags []types.Diagnostic, outputPath string) {
	m.diags = append([]types.Diagnostic(nil), diags...)
	m.outputPath = outputPath
	m.UpdateErrors()
}

// UpdateErrors shows the current diagnostics again, e.g. after the tab was
// reactivated.
func (m *ErrorsManager) UpdateErrors() {
	if m.markers != nil {
		lines := make(map[int]string, len(m.diags))
		for _, d := range m.diags {
			if _, ok := lines[d.Line]; !ok {
				lines[d.Line] = d.Message
			}
		}
		m.markers.SetMarkers(lines)
	}
	if m.render != nil {
		m.render(m.Errors())
	}
}

// Clear drops the diagnostics
func (m *ErrorsManager) Clear() {
	m.SetErrors(nil, m.outputPath)
}

// Errors returns a copy of the diagnostics
func (m *ErrorsManager) Errors() []types.Diagnostic {
	return append([]types.Diagnostic(nil), m.diags...)
}

// Entries returns the diagnostics formatted for the error list
func (m *ErrorsManager) Entries() []string {
	entries := make([]string, len(m.diags))
	for i, d := range m.diags {
		entries[i] = d.String()
	}
	return entries
}

// OutputPath is the file produced by the last compilation
func (m *ErrorsManager) OutputPath() string {
	return m.outputPath
}
