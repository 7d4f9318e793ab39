// Package schedule provides timers that fire on the UI goroutine and a
// debouncer built on them.
package schedule

import (
	"sync"
	"time"

	"github.com/3dm4rk/volidle/pkg/interfaces"
)

// DispatchScheduler fires callbacks through a Dispatcher, so work scheduled
// from the UI goroutine also runs there.
type DispatchScheduler struct {
	dispatcher interfaces.Dispatcher
}

// NewDispatchScheduler creates a scheduler that posts onto dispatcher.
func NewDispatchScheduler(dispatcher interfaces.Dispatcher) *DispatchScheduler {
	return &DispatchScheduler{dispatcher: dispatcher}
}

// Ensure DispatchScheduler implements Scheduler
var _ interfaces.Scheduler = (*DispatchScheduler)(nil)

// AfterFunc schedules fn to run on the UI goroutine after d.
func (s *DispatchScheduler) AfterFunc(d time.Duration, fn func()) interfaces.Timer {
	t := &dispatchTimer{}
	t.timer = time.AfterFunc(d, func() {
		s.dispatcher.Do(func() {
			// Stop may have raced with the post
			if t.stopped() {
				return
			}
			fn()
		})
	})
	return t
}

type dispatchTimer struct {
	timer *time.Timer

	mu   sync.Mutex
	done bool
}

// Stop prevents the callback from running if it has not started yet.
func (t *dispatchTimer) Stop() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	wasPending := !t.done
	t.done = true
	t.timer.Stop()
	return wasPending
}

func (t *dispatchTimer) stopped() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.done {
		return true
	}
	t.done = true
	return false
}

// ImmediateDispatcher runs functions inline on the calling goroutine.
type ImmediateDispatcher struct{}

// Do runs fn immediately
func (ImmediateDispatcher) Do(fn func()) {
	fn()
}
