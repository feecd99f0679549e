package cobol

import (
	"context"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"cobide/internal/errors"
	"cobide/pkg/testutils"
	"cobide/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDiagnostic(t *testing.T) {
	tests := []struct {
		line string
		want types.Diagnostic
		ok   bool
	}{
		{"hello.cbl:12: error: syntax error, unexpected DISPLAY", types.Diagnostic{Line: 12, Message: "error: syntax error, unexpected DISPLAY"}, true},
		{"/src/hello.cbl:3: warning: line not terminated by a newline", types.Diagnostic{Line: 3, Message: "warning: line not terminated by a newline"}, true},
		{`C:\src\hello.cbl:7: error: unknown`, types.Diagnostic{Line: 7, Message: "error: unknown"}, true},
		{"hello.cbl:9: error: trailing cr\r", types.Diagnostic{Line: 9, Message: "error: trailing cr"}, true},
		{"hello.cbl: in paragraph 'MAIN':", types.Diagnostic{}, false},
		{"", types.Diagnostic{}, false},
	}
	for _, tt := range tests {
		got, ok := ParseDiagnostic(tt.line)
		assert.Equal(t, tt.ok, ok, tt.line)
		assert.Equal(t, tt.want, got, tt.line)
	}

	diags := ParseDiagnostics("a.cbl:1: first\nnoise\na.cbl:2: second\n")
	assert.Equal(t, []types.Diagnostic{{Line: 1, Message: "first"}, {Line: 2, Message: "second"}}, diags)
}

func TestOutputPath(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix file names")
	}
	assert.Equal(t, "/src/hello", OutputPath("/src/hello.cbl", types.Program))
	assert.Equal(t, "/src/greet.so", OutputPath("/src/greet.cbl", types.Subprogram))
	assert.Equal(t, "/src/hello", ExecutablePath("/src/hello.cbl"))
}

func TestCompilerArgs(t *testing.T) {
	c := NewCompiler("", "-free")
	assert.Equal(t, DefaultCompiler, c.Command)

	args := c.Args("/src/hello.cbl", types.Program)
	assert.Equal(t, "-free", args[0])
	assert.Contains(t, args, "-x")
	assert.NotContains(t, args, "-m")
	assert.Equal(t, "/src/hello.cbl", args[len(args)-1])

	args = c.Args("/src/greet.cbl", types.Subprogram)
	assert.Contains(t, args, "-m")
	assert.NotContains(t, args, "-x")
}

func TestCompile(t *testing.T) {
	testutils.RequireShell(t)
	ctx := context.Background()

	t.Run("success produces the executable", func(t *testing.T) {
		dir := testutils.CreateCobolProject(t)
		c := NewCompiler(testutils.FakeCompiler(t, dir, "", 0))
		src := filepath.Join(dir, "hello.cbl")

		diags, out, err := c.Compile(ctx, src, types.Program)
		require.NoError(t, err)
		assert.Empty(t, diags)
		assert.Equal(t, filepath.Join(dir, "hello"), out)
		assert.FileExists(t, out)
	})

	t.Run("diagnostics are parsed", func(t *testing.T) {
		dir := testutils.CreateCobolProject(t)
		output := "hello.cbl: in paragraph 'MAIN-PARA':\nhello.cbl:9: error: 'WS-NAM' is not defined\nhello.cbl:11: warning: unreachable statement"
		c := NewCompiler(testutils.FakeCompiler(t, dir, output, 1))
		var lines []string
		c.Output = func(line string) { lines = append(lines, line) }

		diags, _, err := c.Compile(ctx, filepath.Join(dir, "hello.cbl"), types.Program)
		require.NoError(t, err)
		assert.Equal(t, []types.Diagnostic{
			{Line: 9, Message: "error: 'WS-NAM' is not defined"},
			{Line: 11, Message: "warning: unreachable statement"},
		}, diags)
		assert.Len(t, lines, 3)
	})

	t.Run("silent failure is an error", func(t *testing.T) {
		dir := testutils.CreateCobolProject(t)
		c := NewCompiler(testutils.FakeCompiler(t, dir, "", 2))

		_, _, err := c.Compile(ctx, filepath.Join(dir, "hello.cbl"), types.Program)
		require.Error(t, err)
		assert.True(t, errors.IsProcessError(err))
		assert.Equal(t, errors.CompileFailed, errors.KindOf(err))
	})

	t.Run("missing compiler", func(t *testing.T) {
		dir := testutils.CreateCobolProject(t)
		c := NewCompiler(filepath.Join(dir, "no-such-cobc"))

		_, _, err := c.Compile(ctx, filepath.Join(dir, "hello.cbl"), types.Program)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot start compiler")
	})

	t.Run("text files are refused", func(t *testing.T) {
		dir := testutils.CreateCobolProject(t)
		c := NewCompiler(testutils.FakeCompiler(t, dir, "", 0))

		_, _, err := c.Compile(ctx, filepath.Join(dir, "notes.txt"), types.Text)
		assert.Error(t, err)
	})
}

type runRecorder struct {
	lines    []string
	errs     []string
	finished int
}

func (r *runRecorder) attach(runner *Runner) *Runner {
	return runner.
		OnLine(func(line string) { r.lines = append(r.lines, line) }).
		OnError(func(msg string) { r.errs = append(r.errs, msg) }).
		OnFinished(func() { r.finished++ })
}

func TestRunner(t *testing.T) {
	testutils.RequireShell(t)
	ctx := context.Background()

	t.Run("streams output", func(t *testing.T) {
		dir := t.TempDir()
		testutils.WriteScript(t, dir, "hello", "echo HELLO WORLD\necho second line")
		rec := &runRecorder{}
		runner := rec.attach(NewRunner(filepath.Join(dir, "hello.cbl")))

		require.NoError(t, runner.Run(ctx))
		assert.Equal(t, []string{"HELLO WORLD", "second line", "Process finished with exit code 0"}, rec.lines)
		assert.Empty(t, rec.errs)
		assert.Equal(t, 1, rec.finished)
	})

	t.Run("exit status is reported as output", func(t *testing.T) {
		dir := t.TempDir()
		testutils.WriteScript(t, dir, "fail", "echo oops >&2\nexit 3")
		rec := &runRecorder{}
		runner := rec.attach(NewRunner(filepath.Join(dir, "fail.cbl")))

		require.NoError(t, runner.Run(ctx))
		assert.Equal(t, []string{"oops", "Process finished with exit code 3"}, rec.lines)
		assert.Empty(t, rec.errs)
	})

	t.Run("missing executable", func(t *testing.T) {
		dir := t.TempDir()
		rec := &runRecorder{}
		runner := rec.attach(NewRunner(filepath.Join(dir, "never-compiled.cbl")))

		err := runner.Run(ctx)
		require.Error(t, err)
		assert.Equal(t, errors.RunFailed, errors.KindOf(err))
		require.Len(t, rec.errs, 1)
		assert.Contains(t, rec.errs[0], "executable not found")
		assert.Equal(t, 1, rec.finished)
	})

	t.Run("single use", func(t *testing.T) {
		dir := t.TempDir()
		testutils.WriteScript(t, dir, "once", "echo once")
		rec := &runRecorder{}
		runner := rec.attach(NewRunner(filepath.Join(dir, "once.cbl")))

		require.NoError(t, runner.Run(ctx))
		assert.Error(t, runner.Run(ctx))
		assert.Equal(t, 1, rec.finished)
	})
}

type fakeMarkers struct {
	lines map[int]string
}

func (f *fakeMarkers) SetMarkers(lines map[int]string) { f.lines = lines }

func TestErrorsManager(t *testing.T) {
	markers := &fakeMarkers{}
	var rendered []types.Diagnostic
	renders := 0
	m := NewErrorsManager(markers, func(diags []types.Diagnostic) {
		rendered = diags
		renders++
	})

	diags := []types.Diagnostic{
		{Line: 12, Message: "Some error"},
		{Line: 12, Message: "second error on the same line"},
		{Line: 3, Message: "warning"},
	}
	m.SetErrors(diags, "/src/hello")

	assert.Equal(t, diags, rendered)
	assert.Equal(t, map[int]string{12: "Some error", 3: "warning"}, markers.lines)
	assert.Equal(t, []string{"12:Some error", "12:second error on the same line", "3:warning"}, m.Entries())
	assert.Equal(t, "/src/hello", m.OutputPath())

	// Mutating the input does not leak into the manager
	diags[0].Message = "changed"
	assert.Equal(t, "Some error", m.Errors()[0].Message)

	m.UpdateErrors()
	assert.Equal(t, 2, renders)

	m.Clear()
	assert.Empty(t, rendered)
	assert.Empty(t, markers.lines)
	assert.Equal(t, "/src/hello", m.OutputPath())
}

func TestErrorsManagerWithoutViews(t *testing.T) {
	m := NewErrorsManager(nil, nil)
	m.SetErrors([]types.Diagnostic{{Line: 1, Message: "x"}}, "out")
	assert.Equal(t, []string{"1:x"}, m.Entries())
}

func TestParseOutline(t *testing.T) {
	root := ParseOutline("hello.cbl", testutils.HelloProgram)

	var got []string
	root.Walk(func(node *types.Node, depth int) {
		got = append(got, strings.Repeat("  ", depth)+node.Name)
	})
	assert.Equal(t, []string{
		"hello.cbl",
		"  IDENTIFICATION DIVISION",
		"  ENVIRONMENT DIVISION",
		"  DATA DIVISION",
		"    WORKING-STORAGE SECTION",
		"  PROCEDURE DIVISION",
		"    MAIN-PARA",
		"    DONE-PARA",
	}, got)

	proc := root.Children[3]
	assert.Equal(t, types.NodeDivision, proc.Kind)
	assert.Equal(t, 6, proc.Line)
	assert.Equal(t, 7, proc.Children[0].Line)
	assert.Equal(t, types.NodeParagraph, proc.Children[0].Kind)
}

func TestParseOutlineFreeFormat(t *testing.T) {
	src := strings.Join([]string{
		"IDENTIFICATION DIVISION.",
		"PROGRAM-ID. FREE.",
		"*> a comment DIVISION.",
		"PROCEDURE DIVISION.",
		"MAIN SECTION.",
		"START-UP.",
		"    DISPLAY \"HI\".",
		"    EXIT.",
		"WRAP-UP. *> trailing comment",
		"    GOBACK.",
	}, "\n")

	root := ParseOutline("free.cbl", src)
	require.Len(t, root.Children, 2)
	proc := root.Children[1]
	require.Len(t, proc.Children, 1)
	section := proc.Children[0]
	assert.Equal(t, "MAIN SECTION", section.Name)
	require.Len(t, section.Children, 2)
	assert.Equal(t, "START-UP", section.Children[0].Name)
	assert.Equal(t, "WRAP-UP", section.Children[1].Name)
	assert.Equal(t, 8, section.Children[1].Line)
}

func TestParseOutlineSkipsFixedComments(t *testing.T) {
	src := "      * PROCEDURE DIVISION.\n       IDENTIFICATION DIVISION.\n"
	root := ParseOutline("c.cbl", src)
	require.Len(t, root.Children, 1)
	assert.Equal(t, "IDENTIFICATION DIVISION", root.Children[0].Name)
	assert.Equal(t, 1, root.Children[0].Line)
}

func TestAnalyserNotifiesOnLayoutChange(t *testing.T) {
	a := NewAnalyser("hello.cbl")
	changes := 0
	a.OnLayoutChanged(func(root *types.Node) { changes++ })

	a.Parse(testutils.HelloProgram)
	assert.Equal(t, 1, changes)

	// Same layout, different statements
	a.Parse(strings.Replace(testutils.HelloProgram, `"HELLO "`, `"BYE "`, 1))
	assert.Equal(t, 1, changes)

	a.Parse(testutils.HelloProgram + "       EXTRA-PARA.\n           EXIT.\n")
	assert.Equal(t, 2, changes)
	assert.Equal(t, "hello.cbl", a.Root().Name)

	a.SetName("renamed.cbl")
	assert.Equal(t, "renamed.cbl", a.Root().Name)
}
