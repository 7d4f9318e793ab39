package idle

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"

	"github.com/3dm4rk/volidle/pkg/power"
	"github.com/3dm4rk/volidle/pkg/testutil"
)

// stubSettings is a mutable Settings for testing
type stubSettings struct {
	mu        sync.Mutex
	threshold time.Duration
	delay     time.Duration
}

func (s *stubSettings) IdleThreshold() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.threshold
}

func (s *stubSettings) ShutdownDelay() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.delay
}

func (s *stubSettings) set(threshold, delay time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.threshold = threshold
	s.delay = delay
}

type fixture struct {
	t         *testing.T
	clock     *testutil.MockIdleClock
	shutdown  *testutil.MockShutdowner
	presenter *testutil.MockWarningPresenter
	settings  *stubSettings
	hook      *test.Hook
	now       time.Time
	monitor   *Monitor
}

// newFixture builds a started monitor whose poll loop never fires on its
// own; tests drive it through tick.
func newFixture(t *testing.T, threshold, delay time.Duration) *fixture {
	t.Helper()

	logger, hook := test.NewNullLogger()
	f := &fixture{
		t:         t,
		clock:     testutil.NewMockIdleClock(0),
		shutdown:  testutil.NewMockShutdowner(),
		presenter: testutil.NewMockWarningPresenter(),
		settings:  &stubSettings{threshold: threshold, delay: delay},
		hook:      hook,
		now:       time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC),
	}
	f.monitor = NewMonitor(
		f.clock,
		f.shutdown,
		f.settings,
		f.presenter,
		&testutil.SyncDispatcher{},
		logger,
		WithNow(func() time.Time { return f.now }),
		WithPollInterval(time.Hour),
	)
	f.monitor.Start()
	t.Cleanup(f.monitor.Stop)
	return f
}

// idleFor advances both clocks one second at a time with no input
func (f *fixture) idleFor(seconds int) {
	for i := 0; i < seconds; i++ {
		f.clock.Advance(time.Second)
		f.now = f.now.Add(time.Second)
		f.monitor.tick()
	}
}

// activity simulates fresh user input followed by one poll
func (f *fixture) activity() {
	f.clock.SetIdle(0)
	f.now = f.now.Add(time.Second)
	f.monitor.tick()
}

func TestMonitor_NoWarningBelowThreshold(t *testing.T) {
	f := newFixture(t, 30*time.Second, 30*time.Second)

	f.idleFor(29)

	if shown := f.presenter.GetShown(); len(shown) != 0 {
		t.Errorf("expected no warning below threshold, got %v", shown)
	}
	if f.monitor.State() != StateWatching {
		t.Errorf("expected watching, got %v", f.monitor.State())
	}
}

func TestMonitor_WarningShownOnce(t *testing.T) {
	f := newFixture(t, 30*time.Second, 60*time.Second)

	f.idleFor(30)
	if shown := f.presenter.GetShown(); len(shown) != 1 || shown[0] != 60 {
		t.Fatalf("expected one warning with 60s, got %v", shown)
	}

	// Staying idle must not open a second warning
	f.idleFor(20)
	if shown := f.presenter.GetShown(); len(shown) != 1 {
		t.Errorf("expected warning shown at most once, got %v", shown)
	}
	if f.monitor.State() != StateWarning {
		t.Errorf("expected warning state, got %v", f.monitor.State())
	}
}

func TestMonitor_ThresholdFiveDelayTen(t *testing.T) {
	f := newFixture(t, 5*time.Second, 10*time.Second)

	f.idleFor(4)
	if len(f.presenter.GetShown()) != 0 {
		t.Fatal("warning shown before threshold")
	}

	f.idleFor(1)
	shown := f.presenter.GetShown()
	if len(shown) != 1 || shown[0] != 10 {
		t.Fatalf("expected warning with 10 remaining, got %v", shown)
	}

	f.idleFor(9)
	if f.shutdown.GetCallCount() != 0 {
		t.Fatal("shutdown fired before the delay elapsed")
	}
	if f.monitor.Remaining() != 1 {
		t.Errorf("expected 1 second remaining, got %d", f.monitor.Remaining())
	}

	f.idleFor(1)
	if f.shutdown.GetCallCount() != 1 {
		t.Fatalf("expected shutdown after 10s, got %d calls", f.shutdown.GetCallCount())
	}

	want := []int{9, 8, 7, 6, 5, 4, 3, 2, 1, 0}
	got := f.presenter.GetCountdown()
	if len(got) != len(want) {
		t.Fatalf("countdown = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("countdown = %v, want %v", got, want)
		}
	}

	// No retry while the warning stays open
	f.idleFor(5)
	if f.shutdown.GetCallCount() != 1 {
		t.Errorf("expected exactly one shutdown, got %d", f.shutdown.GetCallCount())
	}
	if f.monitor.State() != StateWarning {
		t.Errorf("expected to remain in warning, got %v", f.monitor.State())
	}

	// Activity still closes the finished warning
	f.activity()
	if f.monitor.State() != StateWatching {
		t.Errorf("expected watching after activity, got %v", f.monitor.State())
	}
	if f.presenter.IsVisible() {
		t.Error("expected warning hidden after activity")
	}
}

func TestMonitor_DismissResetsIdleClock(t *testing.T) {
	f := newFixture(t, 5*time.Second, 30*time.Second)

	f.idleFor(5)
	if !f.presenter.IsVisible() {
		t.Fatal("expected warning visible")
	}

	f.monitor.Dismiss()

	if f.presenter.IsVisible() {
		t.Error("expected warning hidden after dismiss")
	}
	if f.monitor.State() != StateWatching {
		t.Errorf("expected watching after dismiss, got %v", f.monitor.State())
	}

	// The OS clock never saw input, but the threshold must elapse again
	f.idleFor(4)
	if n := len(f.presenter.GetShown()); n != 1 {
		t.Fatalf("expected no new warning before threshold, got %d warnings", n)
	}

	f.idleFor(1)
	if n := len(f.presenter.GetShown()); n != 2 {
		t.Errorf("expected a second warning after threshold, got %d", n)
	}
	if f.shutdown.GetCallCount() != 0 {
		t.Error("unexpected shutdown")
	}
}

func TestMonitor_ActivityCancelsWarning(t *testing.T) {
	f := newFixture(t, 5*time.Second, 10*time.Second)

	f.idleFor(7)
	if f.monitor.State() != StateWarning {
		t.Fatalf("expected warning, got %v", f.monitor.State())
	}

	f.activity()

	if f.monitor.State() != StateWatching {
		t.Errorf("expected watching after activity, got %v", f.monitor.State())
	}
	if f.presenter.GetHiddenCount() != 1 {
		t.Errorf("expected warning hidden once, got %d", f.presenter.GetHiddenCount())
	}

	// The old countdown must not keep running
	f.idleFor(4)
	if f.shutdown.GetCallCount() != 0 {
		t.Error("cancelled countdown still shut down")
	}
}

func TestMonitor_DismissOutsideWarningIsNoop(t *testing.T) {
	f := newFixture(t, 5*time.Second, 10*time.Second)

	f.monitor.Dismiss()

	if f.presenter.GetHiddenCount() != 0 {
		t.Error("dismiss without a warning should not touch the presenter")
	}
}

func TestMonitor_SettingsReadLive(t *testing.T) {
	f := newFixture(t, 30*time.Second, 30*time.Second)

	f.idleFor(6)
	if len(f.presenter.GetShown()) != 0 {
		t.Fatal("unexpected warning")
	}

	f.settings.set(5*time.Second, 12*time.Second)
	f.idleFor(1)

	shown := f.presenter.GetShown()
	if len(shown) != 1 || shown[0] != 12 {
		t.Errorf("expected new threshold and delay to apply on next tick, got %v", shown)
	}
}

func TestMonitor_StopClosesWarning(t *testing.T) {
	f := newFixture(t, 5*time.Second, 10*time.Second)

	f.idleFor(6)
	f.monitor.Stop()

	if f.monitor.State() != StateStopped {
		t.Errorf("expected stopped, got %v", f.monitor.State())
	}
	if f.presenter.IsVisible() {
		t.Error("expected warning closed on stop")
	}
	if f.monitor.Remaining() != 0 {
		t.Errorf("expected countdown reset, got %d", f.monitor.Remaining())
	}

	// Ticks after stop are ignored
	f.idleFor(20)
	if f.shutdown.GetCallCount() != 0 {
		t.Error("stopped monitor shut down")
	}

	// Stop twice is safe
	f.monitor.Stop()
}

func TestMonitor_StartIsIdempotent(t *testing.T) {
	f := newFixture(t, 5*time.Second, 10*time.Second)

	f.monitor.Start()

	running := 0
	for _, e := range f.hook.AllEntries() {
		if e.Message == "Idle detection running (Threshold: 5s)" {
			running++
		}
	}
	if running != 1 {
		t.Errorf("expected one start message, got %d", running)
	}
}

func TestMonitor_IdleQueryError(t *testing.T) {
	f := newFixture(t, 5*time.Second, 10*time.Second)
	f.clock.SetError(errors.New("no session"))

	f.idleFor(10)

	if len(f.presenter.GetShown()) != 0 {
		t.Error("warning shown despite failing idle query")
	}
	if f.monitor.State() != StateWatching {
		t.Errorf("expected watching, got %v", f.monitor.State())
	}
}

func TestMonitor_ShutdownErrorLogged(t *testing.T) {
	f := newFixture(t, 5*time.Second, 5*time.Second)
	f.shutdown.SetError(errors.New("access denied"))

	f.idleFor(10)

	if f.shutdown.GetCallCount() != 1 {
		t.Fatalf("expected one shutdown attempt, got %d", f.shutdown.GetCallCount())
	}
	if f.hook.LastEntry().Message != "Shutdown command failed" {
		t.Errorf("unexpected last log entry %q", f.hook.LastEntry().Message)
	}
}

func TestMonitor_DismissAfterFailedShutdown(t *testing.T) {
	f := newFixture(t, 5*time.Second, 5*time.Second)
	f.shutdown.SetError(errors.New("Access is denied."))

	f.idleFor(10)
	if f.shutdown.GetCallCount() != 1 {
		t.Fatalf("expected one shutdown attempt, got %d", f.shutdown.GetCallCount())
	}

	f.monitor.Dismiss()
	if f.presenter.IsVisible() || f.presenter.GetHiddenCount() != 1 {
		t.Error("expected dismiss to close the warning")
	}
	if f.monitor.State() != StateWatching {
		t.Fatalf("expected watching after dismiss, got %v", f.monitor.State())
	}

	// The next idle period warns and shuts down again from a full delay
	f.idleFor(5)
	if shown := f.presenter.GetShown(); len(shown) != 2 || shown[1] != 5 {
		t.Fatalf("expected a second warning with 5 remaining, got %v", shown)
	}
	f.idleFor(5)
	if f.shutdown.GetCallCount() != 2 {
		t.Errorf("expected a second shutdown attempt, got %d", f.shutdown.GetCallCount())
	}
}

func TestMonitor_DryRunDismissClosesWarning(t *testing.T) {
	logger, hook := test.NewNullLogger()
	clock := testutil.NewMockIdleClock(0)
	presenter := testutil.NewMockWarningPresenter()
	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

	m := NewMonitor(
		clock,
		power.NewDryRun(logger),
		&stubSettings{threshold: 5 * time.Second, delay: 5 * time.Second},
		presenter,
		&testutil.SyncDispatcher{},
		logger,
		WithNow(func() time.Time { return now }),
		WithPollInterval(time.Hour),
	)
	m.Start()
	defer m.Stop()

	for i := 0; i < 10; i++ {
		clock.Advance(time.Second)
		now = now.Add(time.Second)
		m.tick()
	}

	var skipped bool
	for _, e := range hook.AllEntries() {
		if e.Message == "Dry run: shutdown skipped" {
			skipped = true
		}
	}
	if !skipped {
		t.Fatal("expected dry run shutdown to be logged")
	}

	m.Dismiss()
	if presenter.IsVisible() {
		t.Error("expected warning closed after dismiss")
	}
	if m.State() != StateWatching {
		t.Errorf("expected watching after dismiss, got %v", m.State())
	}
}

func TestMonitor_PollLoop(t *testing.T) {
	logger, _ := test.NewNullLogger()
	clock := testutil.NewMockIdleClock(time.Hour)
	presenter := testutil.NewMockWarningPresenter()

	// Every call to now is an hour later, so the start grace is always satisfied
	var hours atomic.Int64
	base := time.Now()
	now := func() time.Time {
		return base.Add(time.Duration(hours.Add(1)) * time.Hour)
	}

	m := NewMonitor(
		clock,
		testutil.NewMockShutdowner(),
		&stubSettings{threshold: 5 * time.Second, delay: 30 * time.Second},
		presenter,
		&testutil.SyncDispatcher{},
		logger,
		WithNow(now),
		WithPollInterval(5*time.Millisecond),
	)
	m.Start()

	deadline := time.Now().Add(2 * time.Second)
	for !presenter.IsVisible() && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if !presenter.IsVisible() {
		t.Fatal("poll loop never raised a warning")
	}
	if !m.Running() {
		t.Error("expected monitor running")
	}

	m.Stop()

	if presenter.IsVisible() {
		t.Error("expected warning hidden after stop")
	}
	if clock.GetCallCount() == 0 {
		t.Error("expected idle clock to be polled")
	}
}

func TestStateString(t *testing.T) {
	tests := map[State]string{
		StateStopped:  "stopped",
		StateWatching: "watching",
		StateWarning:  "warning",
		State(42):     "unknown",
	}
	for state, want := range tests {
		if got := state.String(); got != want {
			t.Errorf("State(%d).String() = %q, want %q", state, got, want)
		}
	}
}
