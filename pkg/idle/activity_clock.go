package idle

import (
	"sync"
	"time"
)

// ActivityClock is a software idle clock: idle time is measured from the
// last Touch. It stands in for the OS query where none exists.
type ActivityClock struct {
	mu           sync.Mutex
	lastActivity time.Time
	now          func() time.Time
}

// NewActivityClock creates a clock whose last activity is now
func NewActivityClock() *ActivityClock {
	return newActivityClock(time.Now)
}

func newActivityClock(now func() time.Time) *ActivityClock {
	return &ActivityClock{
		lastActivity: now(),
		now:          now,
	}
}

// Touch records user activity
func (c *ActivityClock) Touch() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastActivity = c.now()
}

// LastActivity returns the last activity time
func (c *ActivityClock) LastActivity() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastActivity
}

// IdleTime returns the time since the last Touch
func (c *ActivityClock) IdleTime() (time.Duration, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if d := c.now().Sub(c.lastActivity); d > 0 {
		return d, nil
	}
	return 0, nil
}
