package ide

import (
	"context"
	"fmt"

	"cobide/internal/cobol"
	"cobide/internal/editor"
	"cobide/internal/errors"
	"cobide/internal/log"
	"cobide/pkg/types"
)

// Compile saves the active COBOL tab and compiles it on the worker queue.
// The diagnostics are fed to the tab's errors manager once the compiler
// returns.
func (c *Controller) Compile() error {
	tab, ok := c.tabs.Active().(*editor.CobolTab)
	if !ok {
		return errors.ErrNoActiveTab
	}

	c.surface.SelectLog(LogCompiler)
	if err := c.Save(); err != nil {
		return err
	}

	path, fileType := tab.Path(), tab.Type()
	compiler := *c.compiler
	compiler.Output = func(line string) {
		c.mailbox.Post(func() { c.surface.AppendLog(LogCompiler, line) })
	}

	err := c.queue.Submit(func(ctx context.Context) {
		c.mailbox.Post(func() {
			c.surface.ClearLog(LogCompiler)
			c.surface.AppendLog(LogCompiler, fmt.Sprintf("Compiling %s (%s)", path, fileType))
		})
		diags, output, err := compiler.Compile(ctx, path, fileType)
		c.mailbox.Post(func() { c.onCompiled(tab, diags, output, err) })
	})
	if err != nil {
		log.LogWithError(err).Error("cannot queue compilation")
		return err
	}
	return nil
}

func (c *Controller) onCompiled(tab *editor.CobolTab, diags []types.Diagnostic, output string, err error) {
	if err != nil {
		log.LogWithError(err).Warn("compilation failed")
		c.surface.AppendLog(LogCompiler, err.Error())
	} else if len(diags) == 0 {
		c.surface.AppendLog(LogCompiler, fmt.Sprintf("Compilation succeeded: %s", output))
	} else {
		c.surface.AppendLog(LogCompiler, fmt.Sprintf("Compilation finished with %d diagnostics", len(diags)))
	}

	// The tab may have been closed while the compiler ran
	if c.tabs.Find(tab.Path()) != editor.Tab(tab) || tab.Errors == nil {
		return
	}
	tab.Errors.SetErrors(diags, output)
}

// Run executes the program built from the active tab on the worker queue.
// The Run action stays disabled until the run finishes; calling Run again
// queues another run behind the first.
func (c *Controller) Run() error {
	tab := c.tabs.Active()
	if tab == nil {
		return errors.ErrNoActiveTab
	}
	if tab.Type() != types.Program {
		return errors.NewProcessError("only programs can be run", tab.Path(), errors.RunFailed, nil)
	}

	c.surface.SelectLog(LogOutput)

	runner := cobol.NewRunner(tab.Path()).
		OnLine(func(line string) {
			c.mailbox.Post(func() { c.surface.AppendLog(LogOutput, line) })
		}).
		OnError(func(msg string) {
			c.mailbox.Post(func() { c.onRunError(msg) })
		}).
		OnFinished(func() {
			c.mailbox.Post(c.onRunFinished)
		})

	c.runs++
	c.updateActions()
	err := c.queue.Submit(func(ctx context.Context) {
		// The output log is cleared when the run starts, not when it is queued
		c.mailbox.Post(func() { c.surface.ClearLog(LogOutput) })
		runner.Run(ctx)
	})
	if err != nil {
		c.runs--
		c.updateActions()
		log.LogWithError(err).Error("cannot queue run")
		return err
	}
	log.LogWithFields(log.F("executable", runner.Executable())).Info("run queued")
	return nil
}

func (c *Controller) onRunError(msg string) {
	c.surface.AppendLog(LogOutput, msg)
	c.surface.ShowError("Error executing program",
		"An error occurred while running a cobol program:\n\n"+msg)
}

func (c *Controller) onRunFinished() {
	if c.runs > 0 {
		c.runs--
	}
	c.updateActions()
}

// ActivateError moves the cursor to the line of an error list entry
// formatted "line:message". Entries without a numeric line are ignored.
func (c *Controller) ActivateError(entry string) {
	line, ok := types.ParseDiagnosticLine(entry)
	if !ok {
		return
	}
	c.moveCursor(line, 1)
}

// ActivateNavigation moves the cursor to a node of the navigation tree
func (c *Controller) ActivateNavigation(node *types.Node) {
	if node == nil || node.Kind == types.NodeRoot {
		return
	}
	c.moveCursor(node.Line+1, 1)
}

func (c *Controller) moveCursor(line, col int) {
	tab := c.tabs.Active()
	if tab == nil {
		return
	}
	tab.Buffer().MoveTo(line, col)
	c.surface.MoveCursor(tab.Buffer().Cursor())
}

// SetFileType switches the active COBOL tab between Program and
// Subprogram. Text tabs keep their classification.
func (c *Controller) SetFileType(fileType types.FileType) {
	if tab, ok := c.tabs.Active().(*editor.CobolTab); ok {
		if tab.SetFileType(fileType) {
			log.LogWithFields(log.F("path", tab.Path()), log.F("type", fileType.String())).Debug("classification changed")
		}
	}
	c.updateActions()
}
