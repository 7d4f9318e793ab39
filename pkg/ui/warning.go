package ui

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/3dm4rk/volidle/pkg/idle"
)

const warningMessage = "Idle detected! This computer will shutdown soon if you don't interact."

// Warning is the idle countdown window.
type Warning struct {
	app       fyne.App
	window    fyne.Window
	countdown *widget.Label

	// OnDismiss runs when the user presses OK or closes the window.
	OnDismiss func()
}

var _ idle.WarningPresenter = (*Warning)(nil)

// NewWarning creates a hidden warning window owner.
func NewWarning(app fyne.App) *Warning {
	return &Warning{app: app}
}

// ShowWarning opens the window with remaining seconds on the clock.
func (w *Warning) ShowWarning(remaining int) {
	if w.window == nil {
		w.build()
	}
	w.countdown.SetText(countdownText(remaining))
	w.window.Show()
	w.window.RequestFocus()
}

// UpdateCountdown refreshes the remaining seconds.
func (w *Warning) UpdateCountdown(remaining int) {
	if w.countdown != nil {
		w.countdown.SetText(countdownText(remaining))
	}
}

// HideWarning closes the window if it is open.
func (w *Warning) HideWarning() {
	if w.window == nil {
		return
	}
	w.window.Close()
	w.window = nil
	w.countdown = nil
}

// Visible reports whether the window is open.
func (w *Warning) Visible() bool {
	return w.window != nil
}

// Countdown returns the displayed countdown text.
func (w *Warning) Countdown() string {
	if w.countdown == nil {
		return ""
	}
	return w.countdown.Text
}

func (w *Warning) build() {
	w.window = w.app.NewWindow("Idle Warning")
	w.window.SetFixedSize(true)
	w.window.Resize(fyne.NewSize(400, 220))

	message := widget.NewLabel(warningMessage)
	message.Wrapping = fyne.TextWrapWord
	message.Alignment = fyne.TextAlignCenter

	w.countdown = widget.NewLabel("")
	w.countdown.Alignment = fyne.TextAlignCenter
	w.countdown.TextStyle = fyne.TextStyle{Bold: true}

	ok := widget.NewButton("OK", w.dismiss)
	ok.Importance = widget.HighImportance

	w.window.SetContent(container.NewVBox(message, w.countdown, container.NewCenter(ok)))
	w.window.SetCloseIntercept(w.dismiss)
	w.window.CenterOnScreen()
}

func (w *Warning) dismiss() {
	if w.OnDismiss != nil {
		w.OnDismiss()
		return
	}
	w.HideWarning()
}

func countdownText(remaining int) string {
	return fmt.Sprintf("Time remaining: %d seconds", remaining)
}
