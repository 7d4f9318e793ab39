//go:build !windows
// +build !windows

package power

import (
	"github.com/3dm4rk/volidle/pkg/interfaces"
)

// NewShutdowner returns a shutdowner that always fails with
// interfaces.ErrUnsupported.
func NewShutdowner() interfaces.Shutdowner {
	return unsupported{}
}
