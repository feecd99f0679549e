package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cobide/cmd/cobide/cli"
	"cobide/internal/cobol"
	"cobide/internal/config"
	"cobide/internal/detect"
	"cobide/internal/errors"
	"cobide/pkg/types"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// errReported fails a command whose error was already printed
var errReported = errors.New("error reported")

// compileCmd builds one COBOL file the way the Compile action does
func compileCmd() *cobra.Command {
	var (
		subprogram bool
		program    bool
	)

	cmd := &cobra.Command{
		Use:   "compile <file>",
		Short: "Compile a COBOL file",
		Long: `Compile a COBOL file with the configured compiler. The file is compiled
as a program or a subprogram depending on its content unless a flag says
otherwise.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			setupLogging(os.Stderr)
			store, err := openStore()
			if err != nil {
				return err
			}

			path, err := filepath.Abs(args[0])
			if err != nil {
				return err
			}
			fileType := detect.DetectFileType(path)
			switch {
			case subprogram:
				fileType = types.Subprogram
			case program:
				fileType = types.Program
			}
			if !fileType.IsCobol() {
				fileType = types.Program
			}

			cfg := store.Config()
			compiler := cobol.NewCompiler(cfg.Compiler.Command, cfg.Compiler.Flags...)
			compiler.Output = func(line string) {
				cli.PrintLine(line)
			}

			cli.PrintHeader(fmt.Sprintf("Compiling %s as %s", filepath.Base(path), fileType))
			diags, output, err := compiler.Compile(cmd.Context(), path, fileType)
			if err != nil {
				return err
			}
			if len(diags) > 0 {
				cli.PrintHeader("Diagnostics")
				for _, d := range diags {
					cli.PrintWarning(d.String())
				}
				cli.PrintError(fmt.Sprintf("%d diagnostic(s) reported", len(diags)))
				return errReported
			}
			cli.PrintSuccess("Compiled " + output)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&subprogram, "subprogram", "s", false, "Compile as a subprogram (shared object)")
	cmd.Flags().BoolVarP(&program, "program", "p", false, "Compile as a program (executable)")
	cmd.MarkFlagsMutuallyExclusive("subprogram", "program")

	return cmd
}

// runCmd executes the program compiled from a COBOL file
func runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run <file>",
		Short: "Run a compiled COBOL program",
		Long:  `Run the executable compiled from a COBOL program and print its output.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			setupLogging(os.Stderr)
			if _, err := openStore(); err != nil {
				return err
			}
			path, err := filepath.Abs(args[0])
			if err != nil {
				return err
			}

			runner := cobol.NewRunner(path).
				OnLine(cli.PrintLine).
				OnError(cli.PrintError)
			cli.PrintHeader("Running " + filepath.Base(runner.Executable()))
			if err := runner.Run(cmd.Context()); err != nil {
				if errors.IsProcessError(err) {
					// OnError printed it
					return errReported
				}
				return err
			}
			return nil
		},
	}
}

// detectCmd reports the encoding and classification of files
func detectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "detect <files...>",
		Short: "Show the encoding and file type of files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, path := range args {
				fileType := detect.DetectFileType(path)
				encoding := detect.DetectEncoding(path)
				cli.PrintLine(fmt.Sprintf("%s\t%s\t%s", cli.Highlight(path), encoding, fileType))
			}
			return nil
		},
	}
}

// outlineCmd prints the navigation tree of a COBOL file
func outlineCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "outline <file>",
		Short: "Print the divisions, sections and paragraphs of a COBOL file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			data, err := os.ReadFile(path)
			if err != nil {
				return errors.NewFileError("cannot read file", path, errors.FileNotFound, err)
			}
			root := cobol.ParseOutline(filepath.Base(path), string(data))
			root.Walk(func(node *types.Node, depth int) {
				if depth == 0 {
					cli.PrintLine(cli.Highlight(node.Name))
					return
				}
				cli.PrintLine(fmt.Sprintf("%s%s (line %d)", strings.Repeat("  ", depth), node.Name, node.Line+1))
			})
			return nil
		},
	}
}

// configCmd groups the settings subcommands
func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and change settings",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the settings and log file locations",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}
			cli.PrintLine("settings: " + store.Path())
			if logPath, err := config.DefaultLogPath(); err == nil {
				cli.PrintLine("log:      " + logPath)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}
			data, err := yaml.Marshal(store.Config())
			if err != nil {
				return err
			}
			cli.PrintLine(strings.TrimRight(string(data), "\n"))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "themes",
		Short: "List the color themes",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}
			current := store.Config().Theme.Name
			for _, name := range cli.GetThemeNames() {
				if name == current {
					cli.PrintLine(cli.Highlight("* " + name))
				} else {
					cli.PrintLine("  " + name)
				}
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "theme <name>",
		Short: "Select the color theme",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			if !cli.SetTheme(name) {
				return fmt.Errorf("unknown theme %q (available: %s)", name, strings.Join(cli.GetThemeNames(), ", "))
			}
			store, err := openStore()
			if err != nil {
				return err
			}
			if err := store.Update(func(cfg *config.Config) { cfg.ApplyTheme(name) }); err != nil {
				return err
			}
			cli.SetTheme(name)
			cli.PrintSuccess("Theme set to " + name)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:     "compiler <command> [-- flags...]",
		Short:   "Set the compiler command and its flags",
		Example: "  cobide config compiler cobc -- -free -std=default",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}
			err = store.Update(func(cfg *config.Config) {
				cfg.Compiler.Command = args[0]
				cfg.Compiler.Flags = append([]string(nil), args[1:]...)
			})
			if err != nil {
				return err
			}
			cli.PrintSuccess("Compiler set to " + strings.Join(args, " "))
			return nil
		},
	})

	return cmd
}
