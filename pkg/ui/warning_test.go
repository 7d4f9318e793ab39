package ui

import (
	"testing"

	"fyne.io/fyne/v2/test"
)

func TestWarning(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()

	w := NewWarning(a)
	if w.Visible() {
		t.Fatal("new warning should be hidden")
	}

	// Before the window exists these are no-ops
	w.UpdateCountdown(3)
	w.HideWarning()

	w.ShowWarning(10)
	if !w.Visible() {
		t.Fatal("expected warning visible")
	}
	if got := w.Countdown(); got != "Time remaining: 10 seconds" {
		t.Errorf("countdown = %q", got)
	}
	if got := w.window.Title(); got != "Idle Warning" {
		t.Errorf("title = %q", got)
	}

	w.UpdateCountdown(4)
	if got := w.Countdown(); got != "Time remaining: 4 seconds" {
		t.Errorf("countdown = %q", got)
	}

	// Without a handler, OK just closes
	w.dismiss()
	if w.Visible() {
		t.Error("expected warning closed")
	}

	// Reopening builds a fresh window
	w.ShowWarning(7)
	if got := w.Countdown(); got != "Time remaining: 7 seconds" {
		t.Errorf("countdown = %q", got)
	}
	w.HideWarning()
}

func TestWarningOnDismiss(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()

	w := NewWarning(a)
	called := 0
	w.OnDismiss = func() { called++ }

	w.ShowWarning(10)
	w.dismiss()

	if called != 1 {
		t.Errorf("expected OnDismiss once, got %d", called)
	}
	if !w.Visible() {
		t.Error("OnDismiss owns closing the window")
	}
}
