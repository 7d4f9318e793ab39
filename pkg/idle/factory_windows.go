//go:build windows
// +build windows

package idle

import (
	"github.com/3dm4rk/volidle/pkg/interfaces"
)

// newPlatformClock creates a Windows-specific idle clock.
func newPlatformClock() interfaces.IdleClock {
	return NewWindowsIdleClock()
}
