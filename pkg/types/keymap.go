package types

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the keybindings of the terminal IDE.
// It lives in pkg/types so the model and its views share one definition.
type KeyMap struct {
	// General
	Help key.Binding
	Quit key.Binding

	// Files
	New    key.Binding
	Open   key.Binding
	Save   key.Binding
	SaveAs key.Binding
	Close  key.Binding

	// Tabs
	NextTab key.Binding
	PrevTab key.Binding

	// Code
	Compile        key.Binding
	Run            key.Binding
	ToggleFileType key.Binding

	// Panels
	FocusEditor     key.Binding
	FocusErrors     key.Binding
	FocusNavigation key.Binding
	ToggleLogs      key.Binding
	ToggleNav       key.Binding
	CopyLog         key.Binding
	Fullscreen      key.Binding
	About           key.Binding

	// Lists and prompts
	Activate key.Binding
	Cancel   key.Binding
}

// DefaultKeyMap returns the keybindings used when nothing else is configured
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Help: key.NewBinding(key.WithKeys("f1"), key.WithHelp("F1", "help")),
		Quit: key.NewBinding(key.WithKeys("ctrl+q", "ctrl+c"), key.WithHelp("^Q", "quit")),

		New:    key.NewBinding(key.WithKeys("ctrl+n"), key.WithHelp("^N", "new")),
		Open:   key.NewBinding(key.WithKeys("ctrl+o"), key.WithHelp("^O", "open")),
		Save:   key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("^S", "save")),
		SaveAs: key.NewBinding(key.WithKeys("ctrl+a"), key.WithHelp("^A", "save as")),
		Close:  key.NewBinding(key.WithKeys("ctrl+w"), key.WithHelp("^W", "close tab")),

		NextTab: key.NewBinding(key.WithKeys("ctrl+right", "f8"), key.WithHelp("F8", "next tab")),
		PrevTab: key.NewBinding(key.WithKeys("ctrl+left", "f7"), key.WithHelp("F7", "prev tab")),

		Compile:        key.NewBinding(key.WithKeys("f5"), key.WithHelp("F5", "compile")),
		Run:            key.NewBinding(key.WithKeys("f6"), key.WithHelp("F6", "run")),
		ToggleFileType: key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("^T", "program/subprogram")),

		FocusEditor:     key.NewBinding(key.WithKeys("f2"), key.WithHelp("F2", "editor")),
		FocusErrors:     key.NewBinding(key.WithKeys("f3"), key.WithHelp("F3", "errors")),
		FocusNavigation: key.NewBinding(key.WithKeys("f4"), key.WithHelp("F4", "navigation")),
		ToggleLogs:      key.NewBinding(key.WithKeys("f9"), key.WithHelp("F9", "logs")),
		ToggleNav:       key.NewBinding(key.WithKeys("f10"), key.WithHelp("F10", "nav panel")),
		CopyLog:         key.NewBinding(key.WithKeys("ctrl+y"), key.WithHelp("^Y", "copy log")),
		Fullscreen:      key.NewBinding(key.WithKeys("f11"), key.WithHelp("F11", "fullscreen")),
		About:           key.NewBinding(key.WithKeys("f12"), key.WithHelp("F12", "about")),

		Activate: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "go to")),
		Cancel:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	}
}

// ShortHelp implements help.KeyMap
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Open, k.Save, k.Compile, k.Run, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.New, k.Open, k.Save, k.SaveAs, k.Close},
		{k.NextTab, k.PrevTab, k.Compile, k.Run, k.ToggleFileType},
		{k.FocusEditor, k.FocusErrors, k.FocusNavigation, k.ToggleLogs, k.ToggleNav},
		{k.CopyLog, k.Fullscreen, k.About, k.Help, k.Quit},
	}
}
