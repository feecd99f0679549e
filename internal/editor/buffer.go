// Package editor holds the state of open files: their text, cursor and
// dirty flag, and the set of tabs shown by the IDE.
package editor

import (
	"strings"
	"unicode/utf8"

	"cobide/pkg/types"
)

// Buffer is the line oriented text of one tab. Lines and columns are
// 1-based as shown in the status bar.
type Buffer struct {
	lines    []string
	cursor   types.CursorPos
	dirty    bool
	markers  map[int]string
	onCursor func(pos types.CursorPos)
}

// NewBuffer returns a clean buffer holding text
func NewBuffer(text string) *Buffer {
	b := &Buffer{}
	b.Load(text)
	return b
}

// Load replaces the content, puts the cursor on the first character and
// marks the buffer clean.
func (b *Buffer) Load(text string) {
	b.lines = strings.Split(text, "\n")
	b.dirty = false
	b.MoveTo(1, 1)
}

// SetText replaces the content as an edit would. The cursor is kept inside
// the new text.
func (b *Buffer) SetText(text string) {
	if text == b.Text() {
		return
	}
	b.lines = strings.Split(text, "\n")
	b.dirty = true
	b.MoveTo(b.cursor.Line, b.cursor.Column)
}

// Text returns the content
func (b *Buffer) Text() string {
	return strings.Join(b.lines, "\n")
}

// LineCount returns the number of lines, at least 1
func (b *Buffer) LineCount() int {
	return len(b.lines)
}

// Line returns line n, or "" when n is out of range
func (b *Buffer) Line(n int) string {
	if n < 1 || n > len(b.lines) {
		return ""
	}
	return b.lines[n-1]
}

// Cursor returns the cursor position
func (b *Buffer) Cursor() types.CursorPos {
	return b.cursor
}

// MoveTo places the cursor, clamping it to the text
func (b *Buffer) MoveTo(line, col int) {
	if line < 1 {
		line = 1
	}
	if line > len(b.lines) {
		line = len(b.lines)
	}
	maxCol := utf8.RuneCountInString(b.lines[line-1]) + 1
	if col < 1 {
		col = 1
	}
	if col > maxCol {
		col = maxCol
	}
	pos := types.CursorPos{Line: line, Column: col}
	if pos == b.cursor {
		return
	}
	b.cursor = pos
	if b.onCursor != nil {
		b.onCursor(pos)
	}
}

// IsDirty reports unsaved changes
func (b *Buffer) IsDirty() bool {
	return b.dirty
}

// MarkClean is called after the content was written to disk
func (b *Buffer) MarkClean() {
	b.dirty = false
}

// SetMarkers flags lines, e.g. with compiler diagnostics
func (b *Buffer) SetMarkers(lines map[int]string) {
	b.markers = lines
}

// Marker returns the marker message of a line
func (b *Buffer) Marker(line int) (string, bool) {
	msg, ok := b.markers[line]
	return msg, ok
}

// Markers returns the flagged line numbers
func (b *Buffer) Markers() map[int]string {
	out := make(map[int]string, len(b.markers))
	for k, v := range b.markers {
		out[k] = v
	}
	return out
}
