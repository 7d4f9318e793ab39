// Package audio exposes the default speaker's master volume.
package audio

import (
	"github.com/sirupsen/logrus"

	"github.com/3dm4rk/volidle/pkg/interfaces"
)

var _ interfaces.VolumeEndpoint = (*Endpoint)(nil)

// Open returns the default endpoint, or a nil interface and the reason it
// could not be activated.
func Open(log logrus.FieldLogger) (interfaces.VolumeEndpoint, error) {
	e, err := NewEndpoint(log)
	if err != nil {
		return nil, err
	}
	return e, nil
}
