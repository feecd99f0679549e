package testutils

import (
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
)

// HelloProgram is a minimal COBOL main program
const HelloProgram = `       IDENTIFICATION DIVISION.
       PROGRAM-ID. HELLO.
       ENVIRONMENT DIVISION.
       DATA DIVISION.
       WORKING-STORAGE SECTION.
       01 WS-NAME PIC X(10) VALUE "WORLD".
       PROCEDURE DIVISION.
       MAIN-PARA.
           DISPLAY "HELLO " WS-NAME.
           PERFORM DONE-PARA.
       DONE-PARA.
           STOP RUN.
`

// GreetSubprogram is a COBOL subprogram taking one parameter
const GreetSubprogram = `       IDENTIFICATION DIVISION.
       PROGRAM-ID. GREET.
       DATA DIVISION.
       LINKAGE SECTION.
       01 LK-NAME PIC X(10).
       procedure division using LK-NAME.
       GREET-PARA.
           DISPLAY "HELLO " LK-NAME.
           GOBACK.
`

// CreateTestFilesWithContent creates test files with specific content
func CreateTestFilesWithContent(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		err := os.WriteFile(path, []byte(content), 0644)
		require.NoError(t, err)
	}
}

// CreateCobolProject writes a program, a subprogram and a notes file into a
// fresh temporary directory and returns it.
func CreateCobolProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	CreateTestFilesWithContent(t, dir, map[string]string{
		"hello.cbl": HelloProgram,
		"greet.cbl": GreetSubprogram,
		"notes.txt": "remember to compile greet first\n",
	})
	return dir
}

// RequireShell skips tests that execute shell scripts on platforms without
// /bin/sh.
func RequireShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts are not supported on windows")
	}
	if _, err := os.Stat("/bin/sh"); err != nil {
		t.Skip("/bin/sh not available")
	}
}

// WriteScript creates an executable shell script called name in dir
func WriteScript(t *testing.T, dir, name, body string) string {
	t.Helper()
	RequireShell(t)
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0755))
	return path
}

// FakeCompiler writes a script that mimics cobc. It prints each line of
// diagnostics on stderr and exits with status. When status is zero it
// creates the file named by the -o argument.
func FakeCompiler(t *testing.T, dir, diagnostics string, status int) string {
	t.Helper()
	body := `out=""
while [ $# -gt 0 ]; do
  if [ "$1" = "-o" ]; then out="$2"; shift; fi
  shift
done
`
	if diagnostics != "" {
		body += "cat >&2 <<'EOF'\n" + diagnostics + "\nEOF\n"
	}
	if status == 0 {
		body += `if [ -n "$out" ]; then printf '#!/bin/sh\necho compiled\n' > "$out"; chmod +x "$out"; fi` + "\n"
	}
	body += "exit " + strconv.Itoa(status)
	return WriteScript(t, dir, "fake-cobc", body)
}

// StripANSI removes ANSI escape sequences from a string
func StripANSI(str string) string {
	var result []rune
	inEscape := false
	for _, r := range str {
		if r == '\x1b' {
			inEscape = true
			continue
		}
		if inEscape {
			if (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') {
				inEscape = false
			}
			continue
		}
		result = append(result, r)
	}
	return string(result)
}
