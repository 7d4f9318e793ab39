// Package instance keeps a single copy of the application running.
package instance

import (
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/pkg/errors"
)

// LockName is the lock file created next to the config file.
const LockName = "volidle.lock"

// ErrAlreadyRunning is returned when another process holds the lock.
var ErrAlreadyRunning = errors.New("another instance is already running")

// Lock is a held single-instance lock.
type Lock struct {
	fileLock *flock.Flock
}

// Acquire takes the lock in dir without blocking.
func Acquire(dir string) (*Lock, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "create lock directory")
	}

	fileLock := flock.New(filepath.Join(dir, LockName))
	locked, err := fileLock.TryLock()
	if err != nil {
		return nil, errors.Wrap(err, "acquire lock")
	} else if !locked {
		return nil, ErrAlreadyRunning
	}
	return &Lock{fileLock: fileLock}, nil
}

// Path returns the lock file path.
func (l *Lock) Path() string {
	return l.fileLock.Path()
}

// Release unlocks. It is safe to call more than once.
func (l *Lock) Release() error {
	if l == nil || l.fileLock == nil {
		return nil
	}
	return errors.Wrap(l.fileLock.Unlock(), "release lock")
}
