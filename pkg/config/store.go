package config

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Store holds the live settings bound to a file. Every mutation is written
// back synchronously; readers always see the latest value.
type Store struct {
	path string

	mu  sync.RWMutex
	cfg Config
}

// NewStore creates a store over cfg that persists to path.
func NewStore(path string, cfg *Config) *Store {
	s := &Store{path: path}
	if cfg == nil {
		cfg = DefaultConfig()
	}
	s.cfg = *cfg
	return s
}

// Open loads path into a new store. Load problems are logged and the
// defaults are used in their place.
func Open(path string, log logrus.FieldLogger) *Store {
	cfg, adjusted, err := load(path)
	if err != nil {
		log.WithError(err).WithField("path", path).Warn("Using default configuration")
	}
	for _, a := range adjusted {
		log.WithFields(logrus.Fields{
			"field": a.Field,
			"from":  a.From,
			"to":    a.To,
		}).Warn("Config value out of range, clamped")
	}
	return NewStore(path, cfg)
}

// Path returns the file the store writes to.
func (s *Store) Path() string {
	return s.path
}

// Snapshot returns a copy of the current settings.
func (s *Store) Snapshot() Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

// Update applies fn, normalizes the result and saves it. The in-memory value
// is kept even when the write fails.
func (s *Store) Update(fn func(*Config)) error {
	s.mu.Lock()
	fn(&s.cfg)
	Normalize(&s.cfg)
	snapshot := s.cfg
	s.mu.Unlock()

	return Save(s.path, &snapshot)
}

// IdleThreshold returns the idle duration that raises a warning.
func (s *Store) IdleThreshold() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return time.Duration(s.cfg.IdleThreshold) * time.Second
}

// ShutdownDelay returns the countdown length of a warning.
func (s *Store) ShutdownDelay() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return time.Duration(s.cfg.ShutdownDelay) * time.Second
}

// SavedVolume returns the preferred volume percent.
func (s *Store) SavedVolume() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg.SavedVolume
}

// IdleDetectorEnabled reports whether the idle detector feature is on.
func (s *Store) IdleDetectorEnabled() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg.IdleDetectorEnabled
}

// VolumeControlEnabled reports whether the volume lock feature is on.
func (s *Store) VolumeControlEnabled() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg.VolumeControlEnabled
}
