//go:build windows
// +build windows

package power

import (
	"github.com/3dm4rk/volidle/pkg/interfaces"
)

// NewShutdowner runs "shutdown /s /t 1".
func NewShutdowner() interfaces.Shutdowner {
	return NewCommandShutdowner("shutdown", "/s", "/t", "1")
}
