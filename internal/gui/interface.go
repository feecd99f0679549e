package gui

import (
	"cobide/internal/config"
	"cobide/internal/ide"
)

// Interface defines the contract for GUI operations
type Interface interface {
	Run()
	ShowError(title, msg string)
	ShowInfo(title, msg string)
}

// Factory creates GUI instances
type Factory struct {
	store *config.Store
	opts  []ide.Option
	files []string
}

// NewFactory creates a new GUI factory. The options are passed to the
// controller of the window.
func NewFactory(store *config.Store, opts ...ide.Option) *Factory {
	return &Factory{
		store: store,
		opts:  opts,
	}
}

// OpenFiles sets the files opened when the window shows
func (f *Factory) OpenFiles(paths ...string) *Factory {
	f.files = append(f.files, paths...)
	return f
}
