// Package idle provides idle detection and the idle-shutdown monitor.
package idle

import (
	"time"

	"github.com/3dm4rk/volidle/pkg/interfaces"
)

// NewIdleClock creates a platform-appropriate idle clock.
// It returns:
// - WindowsIdleClock on Windows (GetLastInputInfo)
// - an unsupported clock elsewhere, whose IdleTime always fails with
// interfaces.ErrUnsupported.
func NewIdleClock() interfaces.IdleClock {
	return newPlatformClock()
}

// elapsedMillis converts two GetTickCount-style readings into a duration.
// The subtraction is done in uint32 so the 49.7 day wraparound is handled.
func elapsedMillis(now, last uint32) time.Duration {
	return time.Duration(now-last) * time.Millisecond
}

// unsupportedClock is the idle clock on platforms without an input-idle query.
type unsupportedClock struct{}

// IdleTime always fails.
func (unsupportedClock) IdleTime() (time.Duration, error) {
	return 0, interfaces.ErrUnsupported
}
