// Package status keeps the short activity log shown in the Idle Detector tab.
package status

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// DefaultCapacity is the number of lines retained by NewLog.
const DefaultCapacity = 200

// Log is a bounded, thread-safe list of timestamped status lines
type Log struct {
	mu       sync.Mutex
	lines    []string
	capacity int
	now      func() time.Time
	onChange func(lines []string)
}

// NewLog creates a new status log
func NewLog(capacity int) *Log {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Log{
		capacity: capacity,
		now:      time.Now,
	}
}

// OnChange registers fn to receive a copy of the lines after every append.
// fn runs on the appending goroutine.
func (l *Log) OnChange(fn func(lines []string)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.onChange = fn
}

// Append adds a line prefixed with the current wall clock time
func (l *Log) Append(message string) {
	l.mu.Lock()
	line := fmt.Sprintf("%s - %s", l.now().Format("15:04:05"), message)
	l.lines = append(l.lines, line)
	if over := len(l.lines) - l.capacity; over > 0 {
		l.lines = append(l.lines[:0:0], l.lines[over:]...)
	}
	fn := l.onChange
	snapshot := l.snapshot()
	l.mu.Unlock()

	if fn != nil {
		fn(snapshot)
	}
}

// Lines returns a copy of the retained lines, oldest first
func (l *Log) Lines() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.snapshot()
}

// String joins the lines with newlines
func (l *Log) String() string {
	return strings.Join(l.Lines(), "\n")
}

func (l *Log) snapshot() []string {
	out := make([]string, len(l.lines))
	copy(out, l.lines)
	return out
}
