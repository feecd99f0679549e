package main

import (
	"fmt"
	"io"
	"os"

	"cobide/cmd/cobide/cli"
	"cobide/internal/config"
	"cobide/internal/errors"
	"cobide/internal/gui"
	"cobide/internal/ide"
	"cobide/internal/log"
	"cobide/internal/tui"
	"cobide/internal/tui/messages"
	"cobide/internal/watch"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
)

// Global flags
var (
	configPath string
	debug      bool
)

// Entry point for the application
func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errReported) {
			cli.PrintError(err.Error())
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "cobide [files...]",
		Short: "A COBOL editor and build front end",
		Long: `cobide edits COBOL programs and subprograms, compiles them with a
cobc compatible compiler and runs the result. Without a subcommand the
terminal interface is started with the given files open.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(args)
		},
	}

	// Prepend logo to help message
	helpTemplate := cli.DrawLogo() + "\n\n" + rootCmd.UsageTemplate()
	rootCmd.SetUsageTemplate(helpTemplate)
	rootCmd.SetHelpTemplate(helpTemplate)

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Settings file (default $XDG_CONFIG_HOME/cobide/settings.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Write debug entries to the log")

	rootCmd.AddCommand(tuiCmd())
	rootCmd.AddCommand(guiCmd())
	rootCmd.AddCommand(compileCmd())
	rootCmd.AddCommand(runCmd())
	rootCmd.AddCommand(detectCmd())
	rootCmd.AddCommand(outlineCmd())
	rootCmd.AddCommand(configCmd())

	return rootCmd
}

// openStore loads the settings and applies the CLI theme
func openStore() (*config.Store, error) {
	store, err := config.OpenStore(configPath)
	if err != nil {
		if errors.IsInvalidConfig(err) {
			cli.PrintWarning("Fix the settings file or remove it to start from the defaults")
		}
		return nil, fmt.Errorf("cannot load settings: %w", err)
	}
	cli.SetTheme(store.Config().Theme.Name)
	return store, nil
}

// setupLogging sends log entries to the log file. console is where they
// are mirrored when debugging; interactive interfaces pass io.Discard.
func setupLogging(console io.Writer) {
	log.SetDebug(debug)
	if !debug {
		console = io.Discard
	}
	opts := []log.Option{log.WithOutput(console)}
	if path, err := config.DefaultLogPath(); err == nil {
		opts = append(opts, log.WithFile(path))
	}
	log.Configure(opts...)
}

// newWatcher returns the file watcher for open files, nil when the
// platform cannot provide one
func newWatcher() *watch.Watcher {
	w, err := watch.New()
	if err != nil {
		log.LogWithError(err).Warn("external changes will not be detected")
		return nil
	}
	return w
}

func interfaceOptions() []ide.Option {
	if w := newWatcher(); w != nil {
		return []ide.Option{ide.WithWatcher(w)}
	}
	return nil
}

// runTUI starts the terminal interface with files open
func runTUI(files []string) error {
	setupLogging(io.Discard)
	store, err := openStore()
	if err != nil {
		return err
	}

	m := tui.New(store, interfaceOptions()...)
	p := tea.NewProgram(m, tea.WithAltScreen())
	if len(files) > 0 {
		go p.Send(messages.OpenFilesMsg{Paths: files})
	}
	if _, err := p.Run(); err != nil {
		m.Controller().Shutdown()
		return fmt.Errorf("error running TUI: %w", err)
	}
	return nil
}

// runGUI starts the graphical interface with files open
func runGUI(files []string) error {
	setupLogging(os.Stderr)
	if !gui.IsGUIAvailable() {
		return fmt.Errorf("this build has no graphical interface")
	}
	store, err := openStore()
	if err != nil {
		return err
	}

	app, err := gui.NewFactory(store, interfaceOptions()...).OpenFiles(files...).Create()
	if err != nil {
		return fmt.Errorf("error launching GUI: %w", err)
	}
	app.Run()
	return nil
}

// tuiCmd represents the TUI command
func tuiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tui [files...]",
		Short: "Start the terminal user interface",
		Long:  `Start the terminal interface and open the given files.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(args)
		},
	}
}

// guiCmd creates the GUI command for the CLI
func guiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "gui [files...]",
		Short: "Launch the graphical user interface",
		Long:  `Launch the graphical interface and open the given files.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGUI(args)
		},
	}
}
