package editor

import (
	"path/filepath"

	"cobide/internal/log"
	"cobide/pkg/types"
)

// TabManager owns the open tabs and tracks the active one. It is not safe
// for concurrent use; the IDE only touches it from the UI goroutine.
type TabManager struct {
	tabs   []Tab
	active int

	tabChanged  []func(tab Tab)
	cursorMoved []func(pos types.CursorPos)
}

// NewTabManager returns an empty manager
func NewTabManager() *TabManager {
	return &TabManager{active: -1}
}

// OnTabChanged registers fn, called with the new active tab (nil when the
// last tab was closed).
func (m *TabManager) OnTabChanged(fn func(tab Tab)) {
	m.tabChanged = append(m.tabChanged, fn)
}

// OnCursorMoved registers fn, called when the cursor of the active tab moves
func (m *TabManager) OnCursorMoved(fn func(pos types.CursorPos)) {
	m.cursorMoved = append(m.cursorMoved, fn)
}

// OpenTab creates a tab for path, makes it active and returns it. The tab is
// a *CobolTab when fileType is Program or Subprogram.
func (m *TabManager) OpenTab(path string, fileType types.FileType, encoding, text string) Tab {
	tab := newTab(filepath.Clean(path), fileType, encoding, text)
	tab.Buffer().onCursor = func(pos types.CursorPos) {
		if m.Active() == tab {
			m.notifyCursor(pos)
		}
	}
	m.tabs = append(m.tabs, tab)
	log.LogWithFields(log.F("path", path), log.F("type", fileType.String()), log.F("encoding", encoding)).Debug("tab opened")
	m.activate(len(m.tabs) - 1)
	return tab
}

// Tabs returns the open tabs in display order
func (m *TabManager) Tabs() []Tab {
	return append([]Tab(nil), m.tabs...)
}

// Find returns the tab editing path
func (m *TabManager) Find(path string) Tab {
	path = filepath.Clean(path)
	for _, tab := range m.tabs {
		if tab.Path() == path {
			return tab
		}
	}
	return nil
}

// Activate makes tab the active tab
func (m *TabManager) Activate(tab Tab) bool {
	for i, t := range m.tabs {
		if t == tab {
			m.activate(i)
			return true
		}
	}
	return false
}

// Next activates the tab after the active one, wrapping around
func (m *TabManager) Next() {
	if len(m.tabs) > 1 {
		m.activate((m.active + 1) % len(m.tabs))
	}
}

// Prev activates the tab before the active one, wrapping around
func (m *TabManager) Prev() {
	if len(m.tabs) > 1 {
		m.activate((m.active - 1 + len(m.tabs)) % len(m.tabs))
	}
}

func (m *TabManager) activate(i int) {
	if i == m.active {
		return
	}
	m.active = i
	m.notifyTab(m.Active())
}

// Close removes tab without saving it
func (m *TabManager) Close(tab Tab) bool {
	for i, t := range m.tabs {
		if t != tab {
			continue
		}
		m.tabs = append(m.tabs[:i], m.tabs[i+1:]...)
		switch {
		case len(m.tabs) == 0:
			m.active = -1
			m.notifyTab(nil)
		case i < m.active:
			m.active--
		case i == m.active:
			if m.active >= len(m.tabs) {
				m.active = len(m.tabs) - 1
			}
			m.notifyTab(m.Active())
		}
		return true
	}
	return false
}

// Retarget points tab at a new file, as after "save as"
func (m *TabManager) Retarget(tab Tab, path string) {
	tab.setPath(filepath.Clean(path))
	if tab == m.Active() {
		m.notifyTab(tab)
	}
}

// Active returns the active tab or nil
func (m *TabManager) Active() Tab {
	if m.active < 0 || m.active >= len(m.tabs) {
		return nil
	}
	return m.tabs[m.active]
}

// ActiveType returns the classification of the active tab, Text if none
func (m *TabManager) ActiveType() types.FileType {
	if tab := m.Active(); tab != nil {
		return tab.Type()
	}
	return types.Text
}

// ActiveFilename returns the path of the active tab
func (m *TabManager) ActiveFilename() string {
	if tab := m.Active(); tab != nil {
		return tab.Path()
	}
	return ""
}

// ActiveFileDir returns the directory of the active tab
func (m *TabManager) ActiveFileDir() string {
	if tab := m.Active(); tab != nil {
		return tab.Dir()
	}
	return ""
}

// HasOpenTabs reports whether any tab is open
func (m *TabManager) HasOpenTabs() bool {
	return len(m.tabs) > 0
}

// IsClean reports whether no tab has unsaved changes
func (m *TabManager) IsClean() bool {
	return len(m.Dirty()) == 0
}

// Dirty returns the tabs with unsaved changes
func (m *TabManager) Dirty() []Tab {
	var dirty []Tab
	for _, tab := range m.tabs {
		if tab.Buffer().IsDirty() {
			dirty = append(dirty, tab)
		}
	}
	return dirty
}

// Cleanup resolves every dirty tab with resolve, which saves or discards
// the tab. It stops and returns false at the first error, leaving the
// remaining tabs untouched.
func (m *TabManager) Cleanup(resolve func(tab Tab) error) bool {
	for _, tab := range m.Dirty() {
		if err := resolve(tab); err != nil {
			log.Debugf("cleanup stopped at %s: %v", tab.Path(), err)
			return false
		}
	}
	return true
}

// CursorPos returns the cursor of the active tab
func (m *TabManager) CursorPos() types.CursorPos {
	if tab := m.Active(); tab != nil {
		return tab.Buffer().Cursor()
	}
	return types.CursorPos{}
}

func (m *TabManager) notifyTab(tab Tab) {
	for _, fn := range m.tabChanged {
		fn(tab)
	}
}

func (m *TabManager) notifyCursor(pos types.CursorPos) {
	for _, fn := range m.cursorMoved {
		fn(pos)
	}
}
