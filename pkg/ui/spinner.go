package ui

import (
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// spinner is a bounded integer entry with step buttons.
type spinner struct {
	entry    *widget.Entry
	down, up *widget.Button
	min, max int
	value    int

	OnChanged func(value int)
}

func newSpinner(min, max, value int) *spinner {
	s := &spinner{min: min, max: max}
	s.entry = widget.NewEntry()
	s.entry.OnSubmitted = func(text string) {
		s.submit(text)
	}
	s.down = widget.NewButton("-", func() { s.step(-1) })
	s.up = widget.NewButton("+", func() { s.step(1) })
	s.SetValue(value)
	return s
}

// SetValue updates the display without calling OnChanged.
func (s *spinner) SetValue(value int) {
	s.value = s.clamp(value)
	s.entry.SetText(strconv.Itoa(s.value))
}

// Value returns the current value.
func (s *spinner) Value() int {
	return s.value
}

func (s *spinner) object() fyne.CanvasObject {
	return container.NewBorder(nil, nil, s.down, s.up, s.entry)
}

func (s *spinner) step(delta int) {
	s.set(s.value + delta)
}

func (s *spinner) submit(text string) {
	v, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		s.SetValue(s.value)
		return
	}
	s.set(v)
}

func (s *spinner) set(value int) {
	value = s.clamp(value)
	changed := value != s.value
	s.SetValue(value)
	if changed && s.OnChanged != nil {
		s.OnChanged(value)
	}
}

func (s *spinner) clamp(v int) int {
	if v < s.min {
		return s.min
	}
	if v > s.max {
		return s.max
	}
	return v
}
