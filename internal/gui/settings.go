//go:build !nogui
// +build !nogui

package gui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"cobide/internal/charset"
	"cobide/internal/config"
	"cobide/internal/log"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// settingsForm edits the persisted settings
type settingsForm struct {
	command   *widget.Entry
	flags     *widget.Entry
	version   *widget.Label
	encoding  *widget.Entry
	tabWidth  *widget.Entry
	recentMax *widget.Entry
	theme     *widget.Select
}

func newSettingsForm(cfg *config.Config) *settingsForm {
	f := &settingsForm{
		command:   widget.NewEntry(),
		flags:     widget.NewEntry(),
		version:   widget.NewLabel(""),
		encoding:  widget.NewEntry(),
		tabWidth:  widget.NewEntry(),
		recentMax: widget.NewEntry(),
		theme:     widget.NewSelect(config.ListThemes(), nil),
	}
	f.flags.SetPlaceHolder("-free -std=default")
	f.encoding.Validator = func(s string) error {
		if !charset.Supported(s) {
			return fmt.Errorf("unknown encoding %q", s)
		}
		return nil
	}
	f.tabWidth.Validator = intRange(1, 16)
	f.recentMax.Validator = intRange(1, 100)
	f.load(cfg)
	return f
}

func intRange(lo, hi int) func(string) error {
	return func(s string) error {
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return fmt.Errorf("not a number")
		}
		if n < lo || n > hi {
			return fmt.Errorf("must be between %d and %d", lo, hi)
		}
		return nil
	}
}

func (f *settingsForm) load(cfg *config.Config) {
	f.command.SetText(cfg.Compiler.Command)
	f.flags.SetText(strings.Join(cfg.Compiler.Flags, " "))
	f.encoding.SetText(cfg.Editor.FallbackEncoding)
	f.tabWidth.SetText(strconv.Itoa(cfg.Editor.TabWidth))
	f.recentMax.SetText(strconv.Itoa(cfg.Recent.Max))
	f.theme.SetSelected(cfg.Theme.Name)
}

// apply copies the form into cfg. cfg is left untouched when a value is
// invalid.
func (f *settingsForm) apply(cfg *config.Config) error {
	tabWidth, err := strconv.Atoi(strings.TrimSpace(f.tabWidth.Text))
	if err != nil {
		return fmt.Errorf("invalid tab width: %w", err)
	}
	recentMax, err := strconv.Atoi(strings.TrimSpace(f.recentMax.Text))
	if err != nil {
		return fmt.Errorf("invalid recent files count: %w", err)
	}

	next := cfg.Clone()
	next.Compiler.Command = strings.TrimSpace(f.command.Text)
	next.Compiler.Flags = splitFlags(f.flags.Text)
	next.Editor.FallbackEncoding = strings.TrimSpace(f.encoding.Text)
	next.Editor.TabWidth = tabWidth
	next.Recent.Max = recentMax
	if f.theme.Selected != "" && f.theme.Selected != next.Theme.Name {
		next.ApplyTheme(f.theme.Selected)
	}
	if err := next.Validate(); err != nil {
		return err
	}
	*cfg = *next
	return nil
}

func (f *settingsForm) items(check func()) []*widget.FormItem {
	checkButton := widget.NewButtonWithIcon("", theme.SearchIcon(), check)
	return []*widget.FormItem{
		widget.NewFormItem("Compiler", container.NewBorder(nil, nil, nil, checkButton, f.command)),
		widget.NewFormItem("", f.version),
		widget.NewFormItem("Compiler flags", f.flags),
		widget.NewFormItem("Fallback encoding", f.encoding),
		widget.NewFormItem("Tab width", f.tabWidth),
		widget.NewFormItem("Recent files", f.recentMax),
		widget.NewFormItem("Terminal theme", f.theme),
	}
}

// showSettings opens the settings dialog
func (a *App) showSettings() {
	form := newSettingsForm(a.store.Config())

	check := func() {
		command := strings.TrimSpace(form.command.Text)
		form.version.SetText("Checking " + command + "...")
		go func() {
			version, err := CompilerVersion(context.Background(), command)
			fyne.Do(func() {
				if err != nil {
					form.version.SetText(fmt.Sprintf("Not usable: %v", err))
					return
				}
				form.version.SetText(version)
			})
		}()
	}

	items := form.items(check)
	items = append(items, widget.NewFormItem("", container.NewHBox(
		widget.NewButtonWithIcon("Import...", theme.DownloadIcon(), func() { a.importSettings(form) }),
		widget.NewButtonWithIcon("Export...", theme.UploadIcon(), func() { a.exportSettings(form) }),
	)))

	d := dialog.NewForm("Settings", "Save", "Cancel", items, func(ok bool) {
		if ok {
			a.saveSettings(form)
		}
	}, a.mainWindow)
	d.Resize(fyne.NewSize(560, 0))
	d.Show()
	check()
}

func (a *App) saveSettings(form *settingsForm) {
	var applyErr error
	err := a.store.Update(func(cfg *config.Config) {
		applyErr = form.apply(cfg)
	})
	if applyErr != nil {
		a.ShowError("Invalid settings", applyErr.Error())
		return
	}
	if err != nil {
		a.ShowWarning("Failed to save settings", err.Error())
	}

	cfg := a.store.Config()
	a.tabWidth = cfg.Editor.TabWidth
	for _, te := range a.editors {
		te.entry.tabWidth = a.tabWidth
	}
	a.ctrl.ApplySettings()
	log.LogWithFields(log.F("path", a.store.Path())).Info("settings saved")
}

func (a *App) importSettings(form *settingsForm) {
	d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		defer reader.Close()
		cfg, err := parseImportedConfig(reader, reader.URI().Name())
		if err != nil {
			a.ShowError("Import failed", err.Error())
			return
		}
		form.load(cfg)
	}, a.mainWindow)
	d.SetFilter(patternFilter{settingsFilter})
	d.Show()
}

func (a *App) exportSettings(form *settingsForm) {
	cfg := a.store.Config()
	if err := form.apply(cfg); err != nil {
		a.ShowError("Invalid settings", err.Error())
		return
	}
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		defer writer.Close()
		if err := exportConfig(cfg, writer, exportFormat(writer.URI().Name())); err != nil {
			a.ShowError("Export failed", err.Error())
		}
	}, a.mainWindow)
	d.SetFileName(config.AppName + ".yaml")
	d.SetFilter(patternFilter{settingsFilter})
	d.Show()
}
