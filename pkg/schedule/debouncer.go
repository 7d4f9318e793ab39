package schedule

import (
	"sync"
	"time"

	"github.com/3dm4rk/volidle/pkg/interfaces"
)

// Debouncer coalesces a burst of values into one call carrying the last value
type Debouncer[T any] struct {
	scheduler interfaces.Scheduler
	window    time.Duration
	callback  func(T)

	mu      sync.Mutex
	pending interfaces.Timer
	gen     uint64
}

// NewDebouncer creates a debouncer that calls callback once window has
// passed without a new Trigger
func NewDebouncer[T any](scheduler interfaces.Scheduler, window time.Duration, callback func(T)) *Debouncer[T] {
	return &Debouncer[T]{
		scheduler: scheduler,
		window:    window,
		callback:  callback,
	}
}

// Trigger cancels any pending call and schedules a new one with value
func (d *Debouncer[T]) Trigger(value T) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.pending != nil {
		d.pending.Stop()
	}

	d.gen++
	gen := d.gen
	d.pending = d.scheduler.AfterFunc(d.window, func() {
		d.mu.Lock()
		if gen != d.gen {
			d.mu.Unlock()
			return
		}
		d.pending = nil
		d.mu.Unlock()

		d.callback(value)
	})
}

// Cancel drops the pending call, if any
func (d *Debouncer[T]) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.pending != nil {
		d.pending.Stop()
		d.pending = nil
	}
	d.gen++
}

// Pending reports whether a call is scheduled
func (d *Debouncer[T]) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending != nil
}
