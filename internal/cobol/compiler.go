// Package cobol drives the external COBOL toolchain and models the pieces of
// a COBOL editor session: compiler diagnostics, program execution and the
// document outline.
package cobol

import (
	"bufio"
	"bytes"
	"context"
	"os/exec"
	"path/filepath"
	"regexp"
	"runtime"
	"strconv"
	"strings"

	"cobide/internal/errors"
	"cobide/internal/log"
	"cobide/pkg/types"
)

// DefaultCompiler is the compiler command used when none is configured
const DefaultCompiler = "cobc"

// diagnosticPattern matches "file:line: message" as printed by cobc. The file
// part is lazy so that drive letters survive on Windows.
var diagnosticPattern = regexp.MustCompile(`^(.+?):(\d+):\s*(.*)$`)

// Compiler invokes a cobc compatible command line compiler.
type Compiler struct {
	Command string
	Flags   []string

	// Output, when set, receives every line the compiler prints. It is
	// called from the goroutine running Compile.
	Output func(line string)
}

// NewCompiler returns a compiler running command with flags placed before
// the mode flags.
func NewCompiler(command string, flags ...string) *Compiler {
	if command == "" {
		command = DefaultCompiler
	}
	return &Compiler{Command: command, Flags: flags}
}

// OutputPath returns the file produced by compiling path. Programs become
// executables next to the source, subprograms become shared objects.
func OutputPath(path string, fileType types.FileType) string {
	base := strings.TrimSuffix(path, filepath.Ext(path))
	if fileType == types.Subprogram {
		if runtime.GOOS == "windows" {
			return base + ".dll"
		}
		return base + ".so"
	}
	return ExecutablePath(path)
}

// ExecutablePath returns the executable built from the program at path
func ExecutablePath(path string) string {
	base := strings.TrimSuffix(path, filepath.Ext(path))
	if runtime.GOOS == "windows" {
		return base + ".exe"
	}
	return base
}

// Args returns the compiler arguments for path
func (c *Compiler) Args(path string, fileType types.FileType) []string {
	args := append([]string{}, c.Flags...)
	if fileType == types.Subprogram {
		args = append(args, "-m")
	} else {
		args = append(args, "-x")
	}
	return append(args, "-o", OutputPath(path, fileType), path)
}

// Compile builds path and returns the diagnostics reported by the compiler
// together with the output file name. A compiler that reports diagnostics
// is not an error; an error is returned when the compiler cannot be started
// or fails without saying why.
func (c *Compiler) Compile(ctx context.Context, path string, fileType types.FileType) ([]types.Diagnostic, string, error) {
	if !fileType.IsCobol() {
		return nil, "", errors.NewProcessError("not a cobol file", path, errors.CompileFailed, nil)
	}

	output := OutputPath(path, fileType)
	args := c.Args(path, fileType)
	log.LogWithFields(log.F("command", c.Command), log.F("args", strings.Join(args, " "))).Debug("compiling")

	cmd := exec.CommandContext(ctx, c.Command, args...)
	cmd.Dir = filepath.Dir(path)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	runErr := cmd.Run()

	var diags []types.Diagnostic
	scanner := bufio.NewScanner(&out)
	for scanner.Scan() {
		line := scanner.Text()
		if c.Output != nil {
			c.Output(line)
		}
		if d, ok := ParseDiagnostic(line); ok {
			diags = append(diags, d)
		}
	}

	if runErr != nil {
		var exitErr *exec.ExitError
		if !errors.As(runErr, &exitErr) {
			return nil, output, errors.NewProcessError("cannot start compiler", c.Command, errors.CompileFailed, runErr)
		}
		if len(diags) == 0 {
			return nil, output, errors.NewProcessError("compiler exited with status "+strconv.Itoa(exitErr.ExitCode()), c.Command, errors.CompileFailed, runErr)
		}
	}
	return diags, output, nil
}

// ParseDiagnostic converts one line of compiler output into a diagnostic
func ParseDiagnostic(line string) (types.Diagnostic, bool) {
	m := diagnosticPattern.FindStringSubmatch(strings.TrimRight(line, "\r"))
	if m == nil {
		return types.Diagnostic{}, false
	}
	n, err := strconv.Atoi(m[2])
	if err != nil {
		return types.Diagnostic{}, false
	}
	return types.Diagnostic{Line: n, Message: m[3]}, true
}

// ParseDiagnostics extracts every diagnostic from compiler output
func ParseDiagnostics(output string) []types.Diagnostic {
	var diags []types.Diagnostic
	for _, line := range strings.Split(output, "\n") {
		if d, ok := ParseDiagnostic(line); ok {
			diags = append(diags, d)
		}
	}
	return diags
}
