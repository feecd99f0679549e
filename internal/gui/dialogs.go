//go:build !nogui
// +build !nogui

package gui

import (
	"path/filepath"
	"strings"

	"cobide/internal/detect"
	"cobide/internal/log"
	"cobide/pkg/types"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// patternFilter matches file dialog entries against glob filters
type patternFilter []*detect.Filter

// Matches implements storage.FileFilter
func (f patternFilter) Matches(uri fyne.URI) bool {
	for _, filter := range f {
		if filter.Match(uri.Path()) {
			return true
		}
	}
	return false
}

var _ storage.FileFilter = patternFilter(nil)

// settingsFilter selects exported settings files
var settingsFilter = func() *detect.Filter {
	f, err := detect.NewFilter("Settings", "*.yaml", "*.yml", "*.json")
	if err != nil {
		panic(err)
	}
	return f
}()

// fileTypeNames lists the classifications offered by the new file dialog
var fileTypeNames = []string{types.Program.String(), types.Subprogram.String(), types.Text.String()}

// dialogLocation returns dir as a dialog start location, nil when it
// cannot be listed
func dialogLocation(dir string) fyne.ListableURI {
	if dir == "" {
		return nil
	}
	lister, err := storage.ListerForURI(storage.NewFileURI(dir))
	if err != nil {
		log.LogWithFields(log.F("dir", dir)).Debug("dialog location not listable")
		return nil
	}
	return lister
}

func (a *App) openFile() {
	d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			a.ShowError("Failed to open file", err.Error())
			return
		}
		if reader == nil {
			return
		}
		path := reader.URI().Path()
		_ = reader.Close()
		a.openPath(path)
	}, a.mainWindow)
	d.SetFilter(patternFilter{detect.CobolFilter, detect.TextFilter})
	if location := dialogLocation(a.store.LastUsedPath()); location != nil {
		d.SetLocation(location)
	}
	d.Resize(fyne.NewSize(800, 560))
	d.Show()
}

// newFile asks for the name, folder and classification of a new file
func (a *App) newFile() {
	name := widget.NewEntry()
	name.SetPlaceHolder("program" + detect.CobolExtension)
	name.Validator = func(s string) error {
		if strings.TrimSpace(s) == "" {
			return errEmptyName
		}
		return nil
	}

	dir := widget.NewEntry()
	dir.SetText(a.store.LastUsedPath())
	browse := widget.NewButtonWithIcon("", theme.FolderOpenIcon(), func() {
		d := dialog.NewFolderOpen(func(uri fyne.ListableURI, err error) {
			if err == nil && uri != nil {
				dir.SetText(uri.Path())
			}
		}, a.mainWindow)
		if location := dialogLocation(dir.Text); location != nil {
			d.SetLocation(location)
		}
		d.Show()
	})

	kind := widget.NewSelect(fileTypeNames, nil)
	kind.SetSelected(types.Program.String())

	items := []*widget.FormItem{
		widget.NewFormItem("Name", name),
		widget.NewFormItem("Folder", container.NewBorder(nil, nil, nil, browse, dir)),
		widget.NewFormItem("Type", kind),
	}
	d := dialog.NewForm("New file", "Create", "Cancel", items, func(ok bool) {
		if !ok {
			return
		}
		fileType, _ := types.ParseFileType(kind.Selected)
		path := filepath.Join(dir.Text, strings.TrimSpace(name.Text))
		if err := a.ctrl.NewFile(path, fileType); err != nil {
			log.LogWithError(err).Debug("new file failed")
		}
	}, a.mainWindow)
	d.Resize(fyne.NewSize(520, 0))
	d.Show()
}

func (a *App) saveAs() {
	tab := a.active
	if tab == nil || !a.actions.SaveAs.Enabled {
		return
	}
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			a.ShowError("Failed to save file", err.Error())
			return
		}
		path := ""
		if writer != nil {
			path = writer.URI().Path()
			_ = writer.Close()
		}
		if err := a.ctrl.SaveAs(path); err != nil {
			log.LogWithError(err).Debug("save as failed")
		}
	}, a.mainWindow)
	d.SetFileName(tab.Name())
	d.SetFilter(patternFilter{detect.FilterFor(tab.Type()), detect.AllFilter})
	if location := dialogLocation(tab.Dir()); location != nil {
		d.SetLocation(location)
	}
	d.Resize(fyne.NewSize(800, 560))
	d.Show()
}

// showDialog displays a modal message with an icon
func (a *App) showDialog(title, msg string, icon fyne.Resource) {
	label := widget.NewLabel(msg)
	label.Wrapping = fyne.TextWrapWord
	d := dialog.NewCustom(title, "OK", container.NewBorder(nil, nil, widget.NewIcon(icon), nil, label), a.mainWindow)
	d.Resize(fyne.NewSize(480, 200))
	d.Show()
}

// askSave asks whether unsaved changes are saved, discarded or the action
// cancelled
func (a *App) askSave(title, msg string, onSave, onDiscard func()) {
	d := dialog.NewCustomWithoutButtons(title, widget.NewLabel(msg), a.mainWindow)
	save := widget.NewButtonWithIcon("Save", theme.DocumentSaveIcon(), func() {
		d.Hide()
		onSave()
	})
	save.Importance = widget.HighImportance
	discard := widget.NewButtonWithIcon("Discard", theme.DeleteIcon(), func() {
		d.Hide()
		onDiscard()
	})
	cancel := widget.NewButtonWithIcon("Cancel", theme.CancelIcon(), d.Hide)
	d.SetButtons([]fyne.CanvasObject{cancel, discard, save})
	d.Show()
}
