// Package ui is the fyne front end: the main tabbed window, the idle
// warning window and the system tray menu.
package ui

import (
	"fyne.io/fyne/v2"

	"github.com/3dm4rk/volidle/pkg/interfaces"
)

// Dispatcher posts functions onto the fyne event loop.
type Dispatcher struct{}

var _ interfaces.Dispatcher = Dispatcher{}

// Do runs fn on the UI goroutine without waiting for it.
func (Dispatcher) Do(fn func()) {
	fyne.Do(fn)
}
