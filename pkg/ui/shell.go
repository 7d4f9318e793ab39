package ui

import (
	"fmt"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/3dm4rk/volidle/pkg/config"
	"github.com/3dm4rk/volidle/pkg/interfaces"
	"github.com/3dm4rk/volidle/pkg/status"
	"github.com/3dm4rk/volidle/pkg/volume"
)

// Tab positions
const (
	tabSettings = iota
	tabIdle
	tabVolume
)

// QuickSetPercents are the preset volume buttons.
var QuickSetPercents = []int{15, 30, 50, 75}

// IdleControl is the idle monitor as seen by the window.
type IdleControl interface {
	Start()
	Stop()
	Dismiss()
	Running() bool
}

// VolumeControl is the volume controller as seen by the window.
type VolumeControl interface {
	Start()
	Refresh()
	SetEnabled(enabled bool)
	OnSliderMove(percent float64)
	QuickSet(percent int)
	SetCustom(text string) error
	SaveCurrentVolume() error
	Close() error
}

// Bindings connects the window to the application's components.
type Bindings struct {
	Store      *config.Store
	Idle       IdleControl
	Volume     VolumeControl
	Status     *status.Log
	Dispatcher interfaces.Dispatcher

	// OnActivity, if set, runs on every user action in the window.
	OnActivity func()
}

// Shell is the main window.
type Shell struct {
	app     fyne.App
	window  fyne.Window
	warning *Warning
	log     logrus.FieldLogger
	b       Bindings

	tabs *container.AppTabs

	idleCheck   *widget.Check
	volumeCheck *widget.Check

	threshold    *spinner
	delay        *spinner
	statusGrid   *widget.TextGrid
	statusScroll *container.Scroll
	startButton  *widget.Button
	stopButton   *widget.Button

	currentLabel   *widget.Label
	savedLabel     *widget.Label
	slider         *widget.Slider
	quickButtons   []*widget.Button
	customEntry    *widget.Entry
	customButton   *widget.Button
	saveButton     *widget.Button
	hideCheck      *widget.Check
	toggleButton   *widget.Button
	volumeControls []fyne.Disableable

	visible bool
	stopped bool
}

var _ volume.View = (*Shell)(nil)

// New creates the window and its widgets. Callbacks are attached by Bind,
// so the shell can serve as the volume view and warning presenter before
// the controllers exist.
func New(app fyne.App, log logrus.FieldLogger) *Shell {
	s := &Shell{
		app:     app,
		window:  app.NewWindow("System Utilities"),
		warning: NewWarning(app),
		log:     log,
	}
	s.window.Resize(fyne.NewSize(450, 500))
	s.window.SetFixedSize(true)

	s.idleCheck = widget.NewCheck("Enable Idle Detector", nil)
	s.volumeCheck = widget.NewCheck("Enable Volume Control", nil)

	s.threshold = newSpinner(config.MinSeconds, config.MaxSeconds, config.MinSeconds)
	s.delay = newSpinner(config.MinSeconds, config.MaxSeconds, config.MinSeconds)
	s.statusGrid = widget.NewTextGrid()
	s.statusScroll = container.NewVScroll(s.statusGrid)
	s.statusScroll.SetMinSize(fyne.NewSize(0, 150))
	s.startButton = widget.NewButton("Start", nil)
	s.stopButton = widget.NewButton("Stop", nil)

	s.currentLabel = widget.NewLabel("Current Volume: Checking...")
	s.savedLabel = widget.NewLabel("")
	s.slider = widget.NewSlider(0, 100)
	for _, p := range QuickSetPercents {
		s.quickButtons = append(s.quickButtons, widget.NewButton(fmt.Sprintf("%d%%", p), nil))
	}
	s.customEntry = widget.NewEntry()
	s.customEntry.SetPlaceHolder("0-100")
	s.customButton = widget.NewButton("Set", nil)
	s.saveButton = widget.NewButton("Save Current Volume", nil)
	s.hideCheck = widget.NewCheck("Hide program when run", nil)
	s.toggleButton = widget.NewButton("Hide Window", nil)

	s.volumeControls = []fyne.Disableable{s.slider, s.customEntry, s.customButton, s.saveButton}
	for _, b := range s.quickButtons {
		s.volumeControls = append(s.volumeControls, b)
	}
	return s
}

// Warning returns the idle warning window owner.
func (s *Shell) Warning() *Warning {
	return s.warning
}

// Window returns the main window.
func (s *Shell) Window() fyne.Window {
	return s.window
}

// Bind attaches b and lays out the tabs.
func (s *Shell) Bind(b Bindings) {
	s.b = b
	cfg := b.Store.Snapshot()

	s.warning.OnDismiss = func() {
		s.touch()
		b.Idle.Dismiss()
	}

	s.tabs = container.NewAppTabs(
		container.NewTabItem("Settings", s.settingsTab(cfg)),
		container.NewTabItem("Idle Detector", s.idleTab(cfg)),
		container.NewTabItem("Volume Control", s.volumeTab(cfg)),
	)
	s.tabs.OnSelected = func(item *container.TabItem) {
		// Show the live level, not the last polled one
		if item == s.tabs.Items[tabVolume] {
			b.Volume.Refresh()
		}
	}
	s.setTabEnabled(tabIdle, cfg.IdleDetectorEnabled)
	s.setTabEnabled(tabVolume, cfg.VolumeControlEnabled)
	s.setVolumeControlsEnabled(cfg.VolumeControlEnabled)
	s.window.SetContent(s.tabs)

	s.window.SetCloseIntercept(s.Quit)
	s.app.Lifecycle().SetOnStopped(s.shutdown)

	if desk, ok := s.app.(desktop.App); ok {
		desk.SetSystemTrayMenu(fyne.NewMenu("volidle",
			fyne.NewMenuItem("Show", s.ShowWindow),
			fyne.NewMenuItem("Hide", s.HideWindow),
		))
	}

	if b.Status != nil {
		s.statusGrid.SetText(b.Status.String())
		b.Status.OnChange(func(lines []string) {
			text := strings.Join(lines, "\n")
			b.Dispatcher.Do(func() {
				s.statusGrid.SetText(text)
				s.statusScroll.ScrollToBottom()
			})
		})
	}
}

// Start brings up the features enabled in the config.
func (s *Shell) Start() {
	s.b.Volume.Start()
	if s.b.Store.IdleDetectorEnabled() {
		s.b.Idle.Start()
	}
	s.refreshIdleButtons()
}

// Run shows the window unless hidden and runs the event loop.
func (s *Shell) Run(hidden bool) {
	if hidden {
		s.setVisible(false)
		s.app.Run()
		return
	}
	s.setVisible(true)
	s.window.ShowAndRun()
}

// Quit stops every feature and exits the event loop.
func (s *Shell) Quit() {
	s.shutdown()
	s.app.Quit()
}

func (s *Shell) shutdown() {
	if s.stopped {
		return
	}
	s.stopped = true

	if err := s.b.Volume.Close(); err != nil {
		s.log.WithError(err).Warn("Closing volume control failed")
	}
	s.b.Idle.Stop()
	s.warning.HideWarning()
}

// ShowWindow makes the main window visible.
func (s *Shell) ShowWindow() {
	s.window.Show()
	s.setVisible(true)
}

// HideWindow hides the main window; the tray keeps the app reachable.
func (s *Shell) HideWindow() {
	s.window.Hide()
	s.setVisible(false)
}

// ToggleWindow flips the main window's visibility.
func (s *Shell) ToggleWindow() {
	if s.visible {
		s.HideWindow()
		return
	}
	s.ShowWindow()
}

// Visible reports whether the main window is shown.
func (s *Shell) Visible() bool {
	return s.visible
}

func (s *Shell) setVisible(visible bool) {
	s.visible = visible
	if visible {
		s.toggleButton.SetText("Hide Window")
	} else {
		s.toggleButton.SetText("Show Window")
	}
}

func (s *Shell) settingsTab(cfg config.Config) fyne.CanvasObject {
	s.idleCheck.SetChecked(cfg.IdleDetectorEnabled)
	s.idleCheck.OnChanged = s.setIdleEnabled

	s.volumeCheck.SetChecked(cfg.VolumeControlEnabled)
	s.volumeCheck.OnChanged = s.setVolumeEnabled

	toggles := widget.NewCard("Feature Toggles", "", container.NewVBox(s.idleCheck, s.volumeCheck))
	return container.NewPadded(container.NewVBox(
		toggles,
		widget.NewLabel("Note: Changes take effect immediately"),
	))
}

func (s *Shell) idleTab(cfg config.Config) fyne.CanvasObject {
	s.threshold.SetValue(cfg.IdleThreshold)
	s.threshold.OnChanged = func(v int) {
		s.touch()
		s.update(func(c *config.Config) { c.IdleThreshold = v })
	}

	s.delay.SetValue(cfg.ShutdownDelay)
	s.delay.OnChanged = func(v int) {
		s.touch()
		s.update(func(c *config.Config) { c.ShutdownDelay = v })
	}

	s.startButton.OnTapped = func() {
		s.touch()
		s.b.Idle.Start()
		s.refreshIdleButtons()
	}
	s.stopButton.OnTapped = func() {
		s.touch()
		s.b.Idle.Stop()
		s.refreshIdleButtons()
	}

	settings := widget.NewCard("Settings", "", container.New(
		layout.NewFormLayout(),
		widget.NewLabel("Idle Threshold (seconds):"), s.threshold.object(),
		widget.NewLabel("Shutdown Delay (seconds):"), s.delay.object(),
	))
	statusCard := widget.NewCard("Status", "", s.statusScroll)

	return container.NewBorder(
		settings,
		container.NewHBox(s.startButton, s.stopButton),
		nil, nil,
		statusCard,
	)
}

func (s *Shell) volumeTab(cfg config.Config) fyne.CanvasObject {
	s.SetSavedPercent(cfg.SavedVolume)
	if !cfg.VolumeControlEnabled {
		s.currentLabel.SetText("Volume Control Disabled")
	}

	s.slider.Step = 1
	s.slider.OnChanged = s.onSlider

	quick := container.NewHBox()
	for i, b := range s.quickButtons {
		percent := QuickSetPercents[i]
		b.OnTapped = func() {
			s.touch()
			s.b.Volume.QuickSet(percent)
		}
		quick.Add(b)
	}

	s.customButton.OnTapped = s.setCustom
	s.customEntry.OnSubmitted = func(string) { s.setCustom() }

	s.hideCheck.SetChecked(cfg.HideOnStartup)
	s.hideCheck.OnChanged = func(hide bool) {
		s.touch()
		s.update(func(c *config.Config) { c.HideOnStartup = hide })
	}

	s.saveButton.OnTapped = func() {
		s.touch()
		_ = s.b.Volume.SaveCurrentVolume()
	}
	s.toggleButton.OnTapped = func() {
		s.touch()
		s.ToggleWindow()
	}

	title := widget.NewLabel("Windows Volume Control")
	title.TextStyle = fyne.TextStyle{Bold: true}
	title.Alignment = fyne.TextAlignCenter
	s.currentLabel.Alignment = fyne.TextAlignCenter
	s.savedLabel.Alignment = fyne.TextAlignCenter

	custom := container.NewHBox(widget.NewLabel("Custom %:"), container.NewGridWrap(fyne.NewSize(70, 36), s.customEntry), s.customButton)

	return container.NewPadded(container.NewVBox(
		title,
		s.currentLabel,
		s.savedLabel,
		s.slider,
		container.NewCenter(quick),
		container.NewCenter(custom),
		container.NewCenter(s.hideCheck),
		container.NewCenter(s.saveButton),
		container.NewCenter(s.toggleButton),
	))
}

func (s *Shell) onSlider(percent float64) {
	s.touch()
	s.b.Volume.OnSliderMove(percent)
}

func (s *Shell) setCustom() {
	s.touch()
	_ = s.b.Volume.SetCustom(s.customEntry.Text)
}

func (s *Shell) setIdleEnabled(enabled bool) {
	s.touch()
	s.update(func(c *config.Config) { c.IdleDetectorEnabled = enabled })
	if enabled {
		s.b.Idle.Start()
	} else {
		s.b.Idle.Stop()
	}
	s.setTabEnabled(tabIdle, enabled)
	s.refreshIdleButtons()
}

func (s *Shell) setVolumeEnabled(enabled bool) {
	s.touch()
	s.update(func(c *config.Config) { c.VolumeControlEnabled = enabled })
	s.b.Volume.SetEnabled(enabled)
	s.setTabEnabled(tabVolume, enabled)
	s.setVolumeControlsEnabled(enabled)
}

// update persists a settings change, reporting write failures in a dialog.
func (s *Shell) update(fn func(*config.Config)) {
	if err := s.b.Store.Update(fn); err != nil {
		s.log.WithError(err).Error("Saving config failed")
		dialog.ShowError(errors.Wrap(err, "failed to save config"), s.window)
	}
}

func (s *Shell) setTabEnabled(index int, enabled bool) {
	if enabled {
		s.tabs.EnableIndex(index)
	} else {
		s.tabs.DisableIndex(index)
	}
}

func (s *Shell) setVolumeControlsEnabled(enabled bool) {
	for _, w := range s.volumeControls {
		if enabled {
			w.Enable()
		} else {
			w.Disable()
		}
	}
}

func (s *Shell) refreshIdleButtons() {
	running := s.b.Idle.Running()
	if running {
		s.startButton.Disable()
		s.stopButton.Enable()
	} else {
		s.startButton.Enable()
		s.stopButton.Disable()
	}
}

func (s *Shell) touch() {
	if s.b.OnActivity != nil {
		s.b.OnActivity()
	}
}

// SetCurrentText implements volume.View.
func (s *Shell) SetCurrentText(text string) {
	s.currentLabel.SetText(text)
}

// SetSlider implements volume.View. The move is not reported back as a drag.
func (s *Shell) SetSlider(percent float64) {
	onChanged := s.slider.OnChanged
	s.slider.OnChanged = nil
	s.slider.SetValue(percent)
	s.slider.OnChanged = onChanged
}

// SetSavedPercent implements volume.View.
func (s *Shell) SetSavedPercent(percent int) {
	s.savedLabel.SetText(fmt.Sprintf("Saved Volume: %d%%", percent))
}

// ShowError implements volume.View.
func (s *Shell) ShowError(title string, err error) {
	dialog.ShowError(err, s.window)
}

// ShowInfo implements volume.View.
func (s *Shell) ShowInfo(title, message string) {
	dialog.ShowInformation(title, message, s.window)
}
