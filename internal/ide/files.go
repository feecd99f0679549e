package ide

import (
	"fmt"
	"os"
	"path/filepath"

	"cobide/internal/charset"
	"cobide/internal/cobol"
	"cobide/internal/detect"
	"cobide/internal/editor"
	"cobide/internal/errors"
	"cobide/internal/log"
	"cobide/internal/watch"
	"cobide/pkg/types"
)

// OpenFile opens path, detecting its classification. Empty and missing
// paths are ignored. A file that cannot be decoded is reported with a
// dialog and leaves the IDE unchanged.
func (c *Controller) OpenFile(path string) error {
	return c.openFile(path, types.Text, false)
}

// OpenFileAs opens path with an explicit classification
func (c *Controller) OpenFileAs(path string, fileType types.FileType) error {
	return c.openFile(path, fileType, true)
}

func (c *Controller) openFile(path string, fileType types.FileType, explicit bool) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		log.LogWithFields(log.F("path", path)).Debug("ignoring open of missing file")
		return nil
	}

	abs, err := filepath.Abs(filepath.Clean(path))
	if err != nil {
		return errors.NewFileError("invalid file path", path, errors.InvalidPath, err)
	}
	if tab := c.tabs.Find(abs); tab != nil {
		c.tabs.Activate(tab)
		return nil
	}

	if !explicit {
		fileType = detect.DetectFileType(abs)
	}
	encoding := c.detectEncoding(abs)

	text, err := charset.ReadFile(abs, encoding)
	if err != nil {
		log.LogWithError(err).Warn("cannot open file")
		if errors.IsDecodeFailed(err) {
			c.surface.ShowError("Bad encoding", fmt.Sprintf(
				"Failed to open %s, bad encoding.\n\n"+
					"No usable encoding could be detected (tried %s), please "+
					"encode your file with a standard encoding (utf-8 for example).",
				abs, encoding))
		} else {
			c.surface.ShowError("Failed to open file", fmt.Sprintf("Failed to open %s.\n\n%v", abs, err))
		}
		return err
	}

	c.surface.ShowPage(PageEditor)
	tab := c.tabs.OpenTab(abs, fileType, encoding, text)
	c.store.SetLastUsedPath(c.tabs.ActiveFileDir())

	if cobolTab, ok := tab.(*editor.CobolTab); ok {
		c.attachCobol(cobolTab)
	}

	c.updateActions()
	c.recordRecent(abs)
	c.watch(abs)
	log.LogWithFields(log.F("path", abs), log.F("type", fileType.String()), log.F("encoding", encoding)).Info("file opened")
	return nil
}

// attachCobol binds a fresh errors manager to tab and follows its outline
func (c *Controller) attachCobol(tab *editor.CobolTab) {
	tab.Errors = cobol.NewErrorsManager(tab.Buffer(), func(diags []types.Diagnostic) {
		if c.tabs.Active() != editor.Tab(tab) {
			return
		}
		entries := make([]string, len(diags))
		for i, d := range diags {
			entries[i] = d.String()
		}
		c.surface.SetErrors(entries)
	})
	tab.Analyser.OnLayoutChanged(func(*types.Node) {
		if c.tabs.Active() == editor.Tab(tab) {
			c.updateNavigation()
		}
	})
	c.updateNavigation()
}

// NewFile creates an empty file at path and opens it. The default
// extension of fileType is appended when path has none.
func (c *Controller) NewFile(path string, fileType types.FileType) error {
	if path == "" {
		return nil
	}
	path = detect.EnsureExtension(filepath.Clean(path), fileType)
	if err := os.WriteFile(path, nil, 0644); err != nil {
		ferr := errors.NewFileError("failed to create file", path, errors.FileCreateFailed, err)
		log.LogWithError(ferr).Warn("new file")
		c.surface.ShowWarning("Failed to create file", fmt.Sprintf(
			"Failed to create file %s.\nCheck that you have the access rights on this folder and retry.", path))
		return ferr
	}
	return c.OpenFileAs(path, fileType)
}

// Save writes the active tab to its file
func (c *Controller) Save() error {
	tab := c.tabs.Active()
	if tab == nil {
		return errors.ErrNoActiveTab
	}
	if err := c.saveTab(tab, tab.Path()); err != nil {
		c.showSaveError(tab.Path(), err)
		return err
	}
	c.recordRecent(tab.Path())
	c.updateStatus(tab)
	return nil
}

// SaveAs writes the active tab to path and makes path its file. An empty
// path means the user cancelled.
func (c *Controller) SaveAs(path string) error {
	tab := c.tabs.Active()
	if tab == nil {
		return errors.ErrNoActiveTab
	}
	if path == "" {
		c.updateStatus(tab)
		return nil
	}

	abs, err := filepath.Abs(filepath.Clean(path))
	if err != nil {
		return errors.NewFileError("invalid file path", path, errors.InvalidPath, err)
	}
	if err := c.saveTab(tab, abs); err != nil {
		c.showSaveError(abs, err)
		c.updateStatus(tab)
		return err
	}

	if abs != tab.Path() {
		c.unwatch(tab.Path())
		c.tabs.Retarget(tab, abs)
		c.watch(abs)
	}
	c.recordRecent(abs)
	c.store.SetLastUsedPath(c.tabs.ActiveFileDir())
	c.updateStatus(tab)
	return nil
}

// saveTab encodes the tab text with its encoding, retrying once with the
// fallback encoding when the text cannot be represented.
func (c *Controller) saveTab(tab editor.Tab, path string) error {
	text := tab.Buffer().Text()
	err := charset.WriteFile(path, text, tab.Encoding())
	if errors.IsEncodeFailed(err) {
		fallback := c.store.FallbackEncoding()
		log.LogWithFields(log.F("path", path), log.F("encoding", tab.Encoding()), log.F("fallback", fallback)).
			Warn("text cannot be encoded, retrying with the fallback encoding")
		if err = charset.WriteFile(path, text, fallback); err == nil {
			tab.SetEncoding(fallback)
		}
	}
	if err != nil {
		return err
	}
	tab.Buffer().MarkClean()
	log.LogWithFields(log.F("path", path), log.F("encoding", tab.Encoding())).Debug("file saved")
	return nil
}

func (c *Controller) showSaveError(path string, err error) {
	log.LogWithError(err).Warn("save failed")
	c.surface.ShowWarning("Failed to save file", fmt.Sprintf("Failed to save %s.\n\n%v", path, err))
}

// CloseTab closes tab without saving it. Front ends confirm unsaved
// changes before calling it.
func (c *Controller) CloseTab(tab editor.Tab) {
	if tab == nil {
		return
	}
	c.unwatch(tab.Path())
	if c.tabs.Close(tab) {
		c.updateTabs()
		c.updateActions()
	}
}

// RequestQuit reports whether the IDE can quit right away. When it returns
// false the front end asks the user and calls SaveAll or DiscardAll.
func (c *Controller) RequestQuit() bool {
	return c.tabs.IsClean()
}

// SaveAll saves every tab with unsaved changes
func (c *Controller) SaveAll() error {
	var failed error
	ok := c.tabs.Cleanup(func(tab editor.Tab) error {
		if err := c.saveTab(tab, tab.Path()); err != nil {
			c.showSaveError(tab.Path(), err)
			failed = err
			return err
		}
		c.recordRecent(tab.Path())
		return nil
	})
	if !ok {
		return failed
	}
	c.updateStatus(c.tabs.Active())
	return nil
}

// DiscardAll drops unsaved changes so that the IDE can quit
func (c *Controller) DiscardAll() {
	c.tabs.Cleanup(func(tab editor.Tab) error {
		tab.Buffer().MarkClean()
		return nil
	})
}

// OpenRecent opens a file of the recent files list. Files that vanished
// are dropped from the list.
func (c *Controller) OpenRecent(path string) error {
	if _, err := os.Stat(path); err != nil {
		c.store.RemoveRecentFile(path)
		c.updateRecentFiles()
		c.surface.ShowMessage(fmt.Sprintf("%s no longer exists", path))
		return nil
	}
	return c.OpenFile(path)
}

// ClearRecentFiles empties the recent files list
func (c *Controller) ClearRecentFiles() {
	c.store.ClearRecentFiles()
	c.updateRecentFiles()
}

func (c *Controller) recordRecent(path string) {
	c.store.AddRecentFile(path)
	c.updateRecentFiles()
}

func (c *Controller) watch(path string) {
	if c.watcher == nil {
		return
	}
	if err := c.watcher.Add(path); err != nil {
		log.LogWithFields(log.F("path", path), log.F("error", err)).Debug("cannot watch file")
	}
}

func (c *Controller) unwatch(path string) {
	if c.watcher != nil {
		c.watcher.Remove(path)
	}
}

// HandleFileModified reacts to a change of an open file made outside the
// IDE. Clean tabs are reloaded, dirty tabs keep their text.
func (c *Controller) HandleFileModified(mod watch.FileModification) {
	tab := c.tabs.Find(mod.Path)
	if tab == nil {
		return
	}
	if mod.Removed() {
		c.surface.ShowMessage(fmt.Sprintf("%s was removed from disk", tab.Name()))
		return
	}
	if tab.Buffer().IsDirty() {
		c.surface.ShowMessage(fmt.Sprintf("%s changed on disk, save to overwrite", tab.Name()))
		return
	}

	text, err := charset.ReadFile(tab.Path(), tab.Encoding())
	if err != nil {
		log.LogWithError(err).Debug("cannot reload file")
		return
	}
	if text == tab.Buffer().Text() {
		return
	}

	pos := tab.Buffer().Cursor()
	tab.Buffer().Load(text)
	tab.Buffer().MoveTo(pos.Line, pos.Column)
	if cobolTab, ok := tab.(*editor.CobolTab); ok {
		cobolTab.Analyser.Parse(text)
	}
	c.surface.ReloadTab(tab)
	c.surface.ShowMessage(fmt.Sprintf("%s reloaded", tab.Name()))
}
