package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"cobide/cmd/cobide/cli"
	"cobide/pkg/testutils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the CLI with args and returns what it printed
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	prev := cli.Output
	cli.Output = &buf
	t.Cleanup(func() { cli.Output = prev })

	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	err := cmd.Execute()
	return testutils.StripANSI(buf.String()), err
}

func TestDetectCommand(t *testing.T) {
	dir := testutils.CreateCobolProject(t)
	hello := filepath.Join(dir, "hello.cbl")
	greet := filepath.Join(dir, "greet.cbl")
	notes := filepath.Join(dir, "notes.txt")

	out, err := execute(t, "detect", hello, greet, notes)
	require.NoError(t, err)
	assert.Contains(t, out, hello+"\tascii\tProgram")
	assert.Contains(t, out, greet+"\tascii\tSubprogram")
	assert.Contains(t, out, notes+"\tascii\tText")
}

func TestDetectCommandRequiresFiles(t *testing.T) {
	_, err := execute(t, "detect")
	assert.Error(t, err)
}

func TestOutlineCommand(t *testing.T) {
	dir := testutils.CreateCobolProject(t)

	out, err := execute(t, "outline", filepath.Join(dir, "hello.cbl"))
	require.NoError(t, err)
	assert.Contains(t, out, "hello.cbl\n")
	assert.Contains(t, out, "  PROCEDURE DIVISION (line 7)\n")
	assert.Contains(t, out, "    WORKING-STORAGE SECTION (line 5)\n")
	assert.Contains(t, out, "    MAIN-PARA (line 8)\n")
	assert.Contains(t, out, "    DONE-PARA (line 11)\n")

	_, err = execute(t, "outline", filepath.Join(dir, "missing.cbl"))
	assert.Error(t, err)
}

func TestConfigCommands(t *testing.T) {
	settings := filepath.Join(t.TempDir(), "settings.yaml")

	out, err := execute(t, "--config", settings, "config", "path")
	require.NoError(t, err)
	assert.Contains(t, out, "settings: "+settings)

	out, err = execute(t, "--config", settings, "config", "theme", "mainframe")
	require.NoError(t, err)
	assert.Contains(t, out, "Theme set to mainframe")

	out, err = execute(t, "--config", settings, "config", "themes")
	require.NoError(t, err)
	assert.Contains(t, out, "* mainframe")
	assert.Contains(t, out, "  default")

	_, err = execute(t, "--config", settings, "config", "theme", "plaid")
	assert.Error(t, err)

	_, err = execute(t, "--config", settings, "config", "compiler", "/opt/cobc", "--", "-free", "-g")
	require.NoError(t, err)

	out, err = execute(t, "--config", settings, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "name: mainframe")
	assert.Contains(t, out, "command: /opt/cobc")
	assert.Contains(t, out, "- -free")
}

func TestInvalidSettingsFile(t *testing.T) {
	settings := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(settings, []byte("editor:\n  tab_width: 40\n"), 0644))

	out, err := execute(t, "--config", settings, "config", "path")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "editor.tab_width")
	assert.Contains(t, out, "Fix the settings file or remove it")
}

func TestCompileAndRunCommands(t *testing.T) {
	testutils.RequireShell(t)
	dir := testutils.CreateCobolProject(t)
	settings := filepath.Join(t.TempDir(), "settings.yaml")
	compiler := testutils.FakeCompiler(t, dir, "", 0)

	_, err := execute(t, "--config", settings, "config", "compiler", compiler)
	require.NoError(t, err)

	hello := filepath.Join(dir, "hello.cbl")
	out, err := execute(t, "--config", settings, "compile", hello)
	require.NoError(t, err)
	assert.Contains(t, out, "Compiling hello.cbl as Program")
	assert.Contains(t, out, "✓ Compiled")

	out, err = execute(t, "--config", settings, "run", hello)
	require.NoError(t, err)
	assert.Contains(t, out, "compiled\n")
	assert.Contains(t, out, "Process finished with exit code 0")
}

func TestCompileCommandReportsDiagnostics(t *testing.T) {
	testutils.RequireShell(t)
	dir := testutils.CreateCobolProject(t)
	settings := filepath.Join(t.TempDir(), "settings.yaml")
	compiler := testutils.FakeCompiler(t, dir, "greet.cbl:5: error: LK-NAME not defined", 1)

	_, err := execute(t, "--config", settings, "config", "compiler", compiler)
	require.NoError(t, err)

	out, err := execute(t, "--config", settings, "compile", "--subprogram", filepath.Join(dir, "greet.cbl"))
	assert.ErrorIs(t, err, errReported)
	assert.Contains(t, out, "as Subprogram")
	assert.Contains(t, out, "5:error: LK-NAME not defined")
	assert.Contains(t, out, "1 diagnostic(s) reported")
}

func TestRunCommandWithoutExecutable(t *testing.T) {
	dir := testutils.CreateCobolProject(t)
	settings := filepath.Join(t.TempDir(), "settings.yaml")

	out, err := execute(t, "--config", settings, "run", filepath.Join(dir, "hello.cbl"))
	assert.ErrorIs(t, err, errReported)
	assert.Contains(t, out, "compile the program first")
}
