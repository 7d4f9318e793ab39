//go:build !windows
// +build !windows

package audio

import (
	"github.com/sirupsen/logrus"

	"github.com/3dm4rk/volidle/pkg/interfaces"
)

// Endpoint is unavailable on this platform.
type Endpoint struct{}

// NewEndpoint always fails with interfaces.ErrUnsupported.
func NewEndpoint(log logrus.FieldLogger) (*Endpoint, error) {
	return nil, interfaces.ErrUnsupported
}

// Scalar always fails with interfaces.ErrUnsupported.
func (e *Endpoint) Scalar() (float32, error) { return 0, interfaces.ErrUnsupported }

// SetScalar always fails with interfaces.ErrUnsupported.
func (e *Endpoint) SetScalar(float32) error { return interfaces.ErrUnsupported }

// Close is a no-op.
func (e *Endpoint) Close() error { return nil }
