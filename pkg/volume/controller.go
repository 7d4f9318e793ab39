// Package volume pins the master volume to a saved preference.
package volume

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/3dm4rk/volidle/pkg/config"
	"github.com/3dm4rk/volidle/pkg/interfaces"
	"github.com/3dm4rk/volidle/pkg/schedule"
)

const (
	// PollInterval is how often the endpoint is checked for external changes.
	PollInterval = time.Second

	// DebounceWindow is the quiet period before a slider drag is applied.
	DebounceWindow = 100 * time.Millisecond
)

var (
	// ErrUnavailable is returned when there is no audio endpoint.
	ErrUnavailable = errors.New("volume control unavailable")

	// ErrInvalidPercent is returned for custom input outside 0-100.
	ErrInvalidPercent = errors.New("please enter a number 0-100")
)

// Label texts
const (
	textUnknown     = "Current Volume: Unknown"
	textUnavailable = "Current Volume: Unavailable"
	textDisabled    = "Volume Control Disabled"
)

// Preferences stores the saved volume. *config.Store satisfies it.
type Preferences interface {
	SavedVolume() int
	Update(fn func(*config.Config)) error
}

// View displays volume state. Methods are called on the UI goroutine.
type View interface {
	SetCurrentText(text string)
	SetSlider(percent float64)
	SetSavedPercent(percent int)
	ShowError(title string, err error)
	ShowInfo(title, message string)
}

// Controller reads and writes the endpoint and reverts external changes.
// All methods are expected to run on the UI goroutine; callbacks scheduled
// through the Scheduler arrive there too.
type Controller struct {
	endpoint  interfaces.VolumeEndpoint
	prefs     Preferences
	scheduler interfaces.Scheduler
	view      View
	log       logrus.FieldLogger
	debouncer *schedule.Debouncer[float64]

	mu       sync.Mutex
	enabled  bool
	changing bool
	monitor  interfaces.Timer
	gen      uint64
}

// NewController creates a controller. A nil endpoint leaves the controller
// permanently unavailable.
func NewController(
	endpoint interfaces.VolumeEndpoint,
	prefs Preferences,
	scheduler interfaces.Scheduler,
	view View,
	log logrus.FieldLogger,
	enabled bool,
) *Controller {
	c := &Controller{
		endpoint:  endpoint,
		prefs:     prefs,
		scheduler: scheduler,
		view:      view,
		log:       log,
		enabled:   enabled,
	}
	c.debouncer = schedule.NewDebouncer(scheduler, DebounceWindow, func(percent float64) {
		_ = c.setVolume(percent, false)
	})
	return c
}

// Available reports whether an endpoint is present
func (c *Controller) Available() bool {
	return c.endpoint != nil
}

// Enabled reports whether the feature is on
func (c *Controller) Enabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.enabled
}

// Start populates the labels and, when enabled, applies the saved volume
// and begins monitoring.
func (c *Controller) Start() {
	c.view.SetSavedPercent(c.prefs.SavedVolume())

	if !c.Available() {
		c.view.SetCurrentText(textUnavailable)
		return
	}
	if !c.Enabled() {
		c.view.SetCurrentText(textDisabled)
		return
	}

	_ = c.SetVolume(float64(c.prefs.SavedVolume()), true)
	c.startMonitor()
}

// SetEnabled turns the feature on or off. Enabling applies the saved
// volume; disabling drops any pending slider commit.
func (c *Controller) SetEnabled(enabled bool) {
	c.mu.Lock()
	c.enabled = enabled
	c.mu.Unlock()

	if !enabled {
		c.debouncer.Cancel()
		c.stopMonitor()
		c.view.SetCurrentText(textDisabled)
		c.log.Info("Volume control disabled")
		return
	}

	c.log.Info("Volume control enabled")
	if !c.Available() {
		c.view.SetCurrentText(textUnavailable)
		return
	}
	_ = c.SetVolume(float64(c.prefs.SavedVolume()), true)
	c.startMonitor()
}

// SetVolume clamps percent into [0,100] and writes it to the endpoint.
// Failures are shown as a dialog and returned.
func (c *Controller) SetVolume(percent float64, updateSlider bool) error {
	return c.setVolume(percent, updateSlider)
}

func (c *Controller) setVolume(percent float64, updateSlider bool) error {
	if !c.Available() {
		return ErrUnavailable
	}
	if !c.Enabled() {
		return nil
	}

	percent = clamp(percent)
	if err := c.write(percent); err != nil {
		err = errors.Wrap(err, "volume control failed")
		c.log.WithError(err).Warn("Set volume failed")
		c.view.ShowError("Error", err)
		return err
	}

	if updateSlider {
		c.view.SetSlider(percent)
	}
	c.refreshLabel()
	return nil
}

// write performs the endpoint call with the self-change guard held
func (c *Controller) write(percent float64) error {
	c.mu.Lock()
	c.changing = true
	c.mu.Unlock()

	err := c.endpoint.SetScalar(float32(percent / 100))

	c.mu.Lock()
	c.changing = false
	c.mu.Unlock()
	return err
}

// Current returns the endpoint volume as a whole percent
func (c *Controller) Current() (int, error) {
	if !c.Available() {
		return 0, ErrUnavailable
	}
	level, err := c.endpoint.Scalar()
	if err != nil {
		return 0, errors.Wrap(err, "read master volume")
	}
	return toPercent(level), nil
}

// Refresh re-reads the endpoint into the label and slider
func (c *Controller) Refresh() {
	if percent, ok := c.refreshLabel(); ok {
		c.view.SetSlider(float64(percent))
	}
}

func (c *Controller) refreshLabel() (int, bool) {
	if !c.Available() || !c.Enabled() {
		c.view.SetCurrentText(textUnavailable)
		return 0, false
	}
	percent, err := c.Current()
	if err != nil {
		c.log.WithError(err).Debug("Volume query failed")
		c.view.SetCurrentText(textUnknown)
		return 0, false
	}
	c.view.SetCurrentText(fmt.Sprintf("Current Volume: %d%%", percent))
	return percent, true
}

// OnSliderMove schedules percent to be applied once the drag settles
func (c *Controller) OnSliderMove(percent float64) {
	if !c.Enabled() {
		return
	}
	c.debouncer.Trigger(percent)
}

// QuickSet applies one of the preset percentages
func (c *Controller) QuickSet(percent int) {
	_ = c.SetVolume(float64(percent), true)
}

// SetCustom parses text as a whole percent and applies it
func (c *Controller) SetCustom(text string) error {
	percent, err := ParsePercent(text)
	if err != nil {
		c.view.ShowError("Error", err)
		return err
	}
	return c.SetVolume(float64(percent), true)
}

// SaveCurrentVolume stores the live endpoint volume as the preference
func (c *Controller) SaveCurrentVolume() error {
	if !c.Available() {
		return ErrUnavailable
	}

	percent, err := c.Current()
	if err == nil {
		err = c.prefs.Update(func(cfg *config.Config) {
			cfg.SavedVolume = percent
		})
	}
	if err != nil {
		err = errors.Wrap(err, "failed to save volume")
		c.view.ShowError("Error", err)
		return err
	}

	c.view.SetSavedPercent(percent)
	c.view.ShowInfo("Saved", fmt.Sprintf("Volume setting %d%% has been saved.", percent))
	c.log.Infof("Saved volume %d%%", percent)
	return nil
}

// Monitoring reports whether a monitor tick is scheduled
func (c *Controller) Monitoring() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.monitor != nil
}

func (c *Controller) startMonitor() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.monitor != nil {
		c.monitor.Stop()
	}
	c.gen++
	c.schedule(c.gen)
}

// schedule must be called with mu held
func (c *Controller) schedule(gen uint64) {
	c.monitor = c.scheduler.AfterFunc(PollInterval, func() {
		c.monitorTick(gen)
	})
}

func (c *Controller) stopMonitor() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.monitor != nil {
		c.monitor.Stop()
		c.monitor = nil
	}
	c.gen++
}

// monitorTick reverts the endpoint to the saved volume if something else
// changed it, then reschedules itself.
func (c *Controller) monitorTick(gen uint64) {
	c.mu.Lock()
	if gen != c.gen || !c.enabled {
		c.mu.Unlock()
		return
	}
	changing := c.changing
	c.mu.Unlock()

	saved := c.prefs.SavedVolume()
	if current, err := c.Current(); err != nil {
		c.log.WithError(err).Debug("Volume query failed")
	} else if !changing && current != saved {
		c.log.WithFields(logrus.Fields{
			"current": current,
			"saved":   saved,
		}).Info("Restoring saved volume")
		c.restore(saved)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen == c.gen && c.enabled {
		c.schedule(gen)
	}
}

// restore writes saved without a dialog, since it repeats every tick
func (c *Controller) restore(saved int) {
	if err := c.write(clamp(float64(saved))); err != nil {
		c.log.WithError(err).Warn("Restore volume failed")
		c.view.SetCurrentText(textUnknown)
		return
	}
	c.view.SetSlider(float64(saved))
	c.refreshLabel()
}

// Close drops pending work and releases the endpoint
func (c *Controller) Close() error {
	c.debouncer.Cancel()
	c.stopMonitor()
	if c.endpoint == nil {
		return nil
	}
	return c.endpoint.Close()
}

// ParsePercent accepts a whole number between 0 and 100
func ParsePercent(text string) (int, error) {
	percent, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || percent < 0 || percent > 100 {
		return 0, ErrInvalidPercent
	}
	return percent, nil
}

func clamp(percent float64) float64 {
	if math.IsNaN(percent) {
		return 0
	}
	return math.Max(0, math.Min(100, percent))
}

func toPercent(level float32) int {
	return int(math.Round(float64(level) * 100))
}
