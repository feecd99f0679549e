package cli

import (
	"bytes"
	"testing"

	"cobide/pkg/testutils"

	"github.com/stretchr/testify/assert"
)

func capture(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := Output
	Output = &buf
	t.Cleanup(func() { Output = prev })
	return &buf
}

func TestPrintFunctions(t *testing.T) {
	buf := capture(t)

	PrintSuccess("compiled")
	PrintError("failed")
	PrintWarning("careful")
	PrintInfo("note")
	PrintHeader("Diagnostics")

	out := testutils.StripANSI(buf.String())
	assert.Contains(t, out, "✓ compiled")
	assert.Contains(t, out, "✗ failed")
	assert.Contains(t, out, "! careful")
	assert.Contains(t, out, "ℹ note")
	assert.Contains(t, out, "Diagnostics\n───────────")
}

func TestSetTheme(t *testing.T) {
	prev := CurrentTheme
	t.Cleanup(func() { CurrentTheme = prev })

	assert.True(t, SetTheme("mainframe"))
	assert.Equal(t, "mainframe", CurrentTheme.Name)
	assert.False(t, SetTheme("no-such-theme"))
	assert.Equal(t, "mainframe", CurrentTheme.Name)
	assert.Contains(t, GetThemeNames(), "default")
}

func TestDrawBox(t *testing.T) {
	box := testutils.StripANSI(DrawBox("hello"))
	assert.Contains(t, box, "hello")
	assert.Contains(t, box, "╭")
	assert.Contains(t, box, "╯")
}
