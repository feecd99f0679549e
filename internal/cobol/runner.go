package cobol

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"sync/atomic"

	"cobide/internal/errors"
	"cobide/internal/log"

	"golang.org/x/sync/errgroup"
)

// Runner executes a compiled program once and streams what it prints.
// Callbacks run on the goroutine calling Run; line callbacks never overlap.
type Runner struct {
	source string
	exe    string
	used   atomic.Bool

	mu         sync.Mutex
	onLine     func(line string)
	onError    func(msg string)
	onFinished func()
}

// NewRunner returns a runner for the executable built from the COBOL source
// at path.
func NewRunner(path string) *Runner {
	return &Runner{source: path, exe: ExecutablePath(path)}
}

// Executable returns the program the runner starts
func (r *Runner) Executable() string {
	return r.exe
}

// OnLine registers the callback receiving each output line
func (r *Runner) OnLine(fn func(line string)) *Runner {
	r.onLine = fn
	return r
}

// OnError registers the callback receiving execution errors
func (r *Runner) OnError(fn func(msg string)) *Runner {
	r.onError = fn
	return r
}

// OnFinished registers the callback invoked once the run is over, whether
// it succeeded or not.
func (r *Runner) OnFinished(fn func()) *Runner {
	r.onFinished = fn
	return r
}

// Run starts the program and blocks until it exits and all of its output
// has been delivered. A runner can only be run once.
func (r *Runner) Run(ctx context.Context) error {
	if !r.used.CompareAndSwap(false, true) {
		return errors.NewProcessError("runner already used", r.exe, errors.RunFailed, nil)
	}
	defer r.finished()

	err := r.run(ctx)
	if err != nil {
		log.LogWithError(err).Warn("program execution failed")
		r.fail(err.Error())
	}
	return err
}

func (r *Runner) run(ctx context.Context) error {
	if _, err := os.Stat(r.exe); err != nil {
		return errors.NewProcessError("executable not found, compile the program first", r.exe, errors.RunFailed, err)
	}

	cmd := exec.CommandContext(ctx, r.exe)
	cmd.Dir = filepath.Dir(r.exe)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return errors.NewProcessError("cannot capture output", r.exe, errors.RunFailed, err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return errors.NewProcessError("cannot capture output", r.exe, errors.RunFailed, err)
	}
	if err := cmd.Start(); err != nil {
		return errors.NewProcessError("cannot start program", r.exe, errors.RunFailed, err)
	}
	log.Debugf("started %s (pid %d)", r.exe, cmd.Process.Pid)

	// Both pipes must be drained before Wait closes them.
	var g errgroup.Group
	g.Go(func() error { return r.forward(stdout) })
	g.Go(func() error { return r.forward(stderr) })
	readErr := g.Wait()

	if err := cmd.Wait(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			r.line(fmt.Sprintf("Process finished with exit code %d", exitErr.ExitCode()))
			return nil
		}
		return errors.NewProcessError("program execution failed", r.exe, errors.RunFailed, err)
	}
	if readErr != nil {
		return errors.NewProcessError("cannot read program output", r.exe, errors.RunFailed, readErr)
	}
	r.line("Process finished with exit code 0")
	return nil
}

func (r *Runner) forward(rd io.Reader) error {
	scanner := bufio.NewScanner(rd)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		r.line(scanner.Text())
	}
	return scanner.Err()
}

func (r *Runner) line(text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.onLine != nil {
		r.onLine(text)
	}
}

func (r *Runner) fail(msg string) {
	if r.onError != nil {
		r.onError(msg)
	}
}

func (r *Runner) finished() {
	if r.onFinished != nil {
		r.onFinished()
	}
}
