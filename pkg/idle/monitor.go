package idle

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/3dm4rk/volidle/pkg/interfaces"
)

const (
	// DefaultPollInterval is how often the OS idle time is sampled.
	DefaultPollInterval = time.Second

	// ActivityThreshold is the idle time below which the user counts as active.
	ActivityThreshold = time.Second
)

// Settings supplies the live idle thresholds. Values are read on every tick.
type Settings interface {
	IdleThreshold() time.Duration
	ShutdownDelay() time.Duration
}

// WarningPresenter displays the shutdown countdown. Calls are made through
// the monitor's Dispatcher.
type WarningPresenter interface {
	ShowWarning(remaining int)
	UpdateCountdown(remaining int)
	HideWarning()
}

// State is the monitor's position in the idle state machine
type State int

const (
	StateStopped State = iota
	StateWatching
	StateWarning
)

func (s State) String() string {
	switch s {
	case StateStopped:
		return "stopped"
	case StateWatching:
		return "watching"
	case StateWarning:
		return "warning"
	}
	return "unknown"
}

// Monitor polls the idle clock and shuts the machine down after an
// unanswered warning. The poll tick is the only timer: it both detects idle
// time and drives the countdown, so stopping or dismissing cancels both.
type Monitor struct {
	clock      interfaces.IdleClock
	shutdowner interfaces.Shutdowner
	settings   Settings
	presenter  WarningPresenter
	dispatcher interfaces.Dispatcher
	log        logrus.FieldLogger

	interval time.Duration
	now      func() time.Time

	mu             sync.Mutex
	state          State
	lastActive     time.Time
	remaining      int
	shutdownIssued bool
	cancel         context.CancelFunc
	done           chan struct{}
}

// Option configures a Monitor
type Option func(*Monitor)

// WithPollInterval overrides DefaultPollInterval.
func WithPollInterval(d time.Duration) Option {
	return func(m *Monitor) {
		if d > 0 {
			m.interval = d
		}
	}
}

// WithNow overrides the wall clock used for the dismissal timestamp.
func WithNow(now func() time.Time) Option {
	return func(m *Monitor) {
		m.now = now
	}
}

// NewMonitor creates a stopped monitor
func NewMonitor(
	clock interfaces.IdleClock,
	shutdowner interfaces.Shutdowner,
	settings Settings,
	presenter WarningPresenter,
	dispatcher interfaces.Dispatcher,
	log logrus.FieldLogger,
	opts ...Option,
) *Monitor {
	m := &Monitor{
		clock:      clock,
		shutdowner: shutdowner,
		settings:   settings,
		presenter:  presenter,
		dispatcher: dispatcher,
		log:        log,
		interval:   DefaultPollInterval,
		now:        time.Now,
		state:      StateStopped,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Start begins polling. It is a no-op if the monitor is already running.
func (m *Monitor) Start() {
	m.mu.Lock()
	if m.state != StateStopped {
		m.mu.Unlock()
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	m.state = StateWatching
	m.lastActive = m.now()
	m.cancel = cancel
	m.done = make(chan struct{})
	done := m.done
	m.mu.Unlock()

	m.log.Infof("Idle detection running (Threshold: %ds)", int(m.settings.IdleThreshold()/time.Second))
	go m.run(ctx, done)
}

// Stop ends polling and closes any open warning. It returns once the poll
// goroutine has exited.
func (m *Monitor) Stop() {
	m.mu.Lock()
	if m.state == StateStopped {
		m.mu.Unlock()
		return
	}

	wasWarning := m.state == StateWarning
	cancel, done := m.cancel, m.done
	m.state = StateStopped
	m.remaining = 0
	m.shutdownIssued = false
	m.cancel = nil
	m.done = nil
	m.mu.Unlock()

	cancel()
	<-done

	if wasWarning {
		m.dispatcher.Do(m.presenter.HideWarning)
	}
	m.log.Info("Idle detection stopped")
}

// Dismiss answers an open warning: the countdown is cancelled and the idle
// clock restarts from now. It also closes a warning whose shutdown has
// already been attempted.
func (m *Monitor) Dismiss() {
	m.mu.Lock()
	if m.state != StateWarning {
		m.mu.Unlock()
		return
	}
	m.state = StateWatching
	m.remaining = 0
	m.shutdownIssued = false
	m.lastActive = m.now()
	m.mu.Unlock()

	m.dispatcher.Do(m.presenter.HideWarning)
	m.log.Info("User manually dismissed warning")
}

// State returns the current state
func (m *Monitor) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Remaining returns the seconds left on an open warning
func (m *Monitor) Remaining() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.remaining
}

// Running reports whether the poll loop is active
func (m *Monitor) Running() bool {
	return m.State() != StateStopped
}

func (m *Monitor) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.tick()
		}
	}
}

// tick samples the idle clock once and advances the state machine
func (m *Monitor) tick() {
	osIdle, err := m.clock.IdleTime()
	if err != nil {
		m.log.WithError(err).Debug("Idle query failed")
		return
	}
	threshold := m.settings.IdleThreshold()
	delay := int(m.settings.ShutdownDelay() / time.Second)

	var ui func()
	shutdown := false

	m.mu.Lock()
	now := m.now()
	active := osIdle < ActivityThreshold

	switch m.state {
	case StateWatching:
		if active {
			m.lastActive = now
			break
		}
		if m.effectiveIdle(osIdle, now) >= threshold {
			m.state = StateWarning
			m.remaining = delay
			m.shutdownIssued = false
			ui = func() { m.presenter.ShowWarning(delay) }
			m.log.Info("Idle detected! Showing warning...")
		}

	case StateWarning:
		if active {
			m.state = StateWatching
			m.remaining = 0
			m.shutdownIssued = false
			m.lastActive = now
			ui = m.presenter.HideWarning
			m.log.Info("Warning dismissed due to user activity")
			break
		}
		// Countdown finished; wait for the user instead of retrying
		if m.shutdownIssued {
			break
		}
		m.remaining--
		if m.remaining <= 0 {
			m.remaining = 0
			m.shutdownIssued = true
			shutdown = true
		}
		remaining := m.remaining
		ui = func() { m.presenter.UpdateCountdown(remaining) }
	}
	m.mu.Unlock()

	if ui != nil {
		m.dispatcher.Do(ui)
	}

	if shutdown {
		m.log.Info("Shutting down computer...")
		if err := m.shutdowner.Shutdown(); err != nil {
			m.log.WithError(err).Error("Shutdown command failed")
		}
	}
}

// effectiveIdle is the OS idle time capped by the last recorded activity,
// so a dismissal restarts the count even if the OS did not see input.
func (m *Monitor) effectiveIdle(osIdle time.Duration, now time.Time) time.Duration {
	if sinceActive := now.Sub(m.lastActive); sinceActive < osIdle {
		return sinceActive
	}
	return osIdle
}
