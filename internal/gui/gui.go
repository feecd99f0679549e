//go:build !nogui
// +build !nogui

package gui

import (
	"fyne.io/fyne/v2/app"
)

// AppID identifies the application for fyne preferences storage
const AppID = "io.github.cobide"

// Create returns a new GUI instance
func (f *Factory) Create() (Interface, error) {
	a := NewApp(app.NewWithID(AppID), f.store, f.opts...)
	a.pendingFiles = append(a.pendingFiles, f.files...)
	return a, nil
}

// IsGUIAvailable returns whether the GUI is available in this build
func IsGUIAvailable() bool {
	return true
}
