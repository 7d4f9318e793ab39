//go:build !windows
// +build !windows

package idle

import (
	"github.com/3dm4rk/volidle/pkg/interfaces"
)

// newPlatformClock creates a fallback clock for unsupported platforms.
func newPlatformClock() interfaces.IdleClock {
	return unsupportedClock{}
}
