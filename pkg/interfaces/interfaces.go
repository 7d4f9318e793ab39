// Package interfaces defines the core interfaces used throughout the application.
package interfaces

import (
	"time"

	"github.com/pkg/errors"
)

// ErrUnsupported is returned by OS capabilities on platforms that lack them.
var ErrUnsupported = errors.New("not supported on this platform")

// IdleClock reports how long the user has been inactive.
type IdleClock interface {
	IdleTime() (time.Duration, error)
}

// Shutdowner powers off the machine.
type Shutdowner interface {
	Shutdown() error
}

// VolumeEndpoint reads and writes the master volume as a 0.0-1.0 scalar.
type VolumeEndpoint interface {
	Scalar() (float32, error)
	SetScalar(level float32) error
	Close() error
}

// Dispatcher runs functions on the UI goroutine.
type Dispatcher interface {
	Do(fn func())
}

// Timer is a pending scheduled callback.
type Timer interface {
	Stop() bool
}

// Scheduler schedules callbacks after a delay.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) Timer
}
