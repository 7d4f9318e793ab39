package testutil

import (
	"sync"
	"time"

	"github.com/3dm4rk/volidle/pkg/interfaces"
)

// MockIdleClock is a thread-safe mock implementation of interfaces.IdleClock for testing
type MockIdleClock struct {
	mu        sync.Mutex
	idle      time.Duration
	err       error
	callCount int
}

// NewMockIdleClock creates a new mock idle clock reporting idle
func NewMockIdleClock(idle time.Duration) *MockIdleClock {
	return &MockIdleClock{idle: idle}
}

// IdleTime implements the IdleClock interface
func (m *MockIdleClock) IdleTime() (time.Duration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount++
	return m.idle, m.err
}

// SetIdle sets the reported idle duration
func (m *MockIdleClock) SetIdle(idle time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.idle = idle
}

// Advance adds d to the reported idle duration
func (m *MockIdleClock) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.idle += d
}

// SetError sets the error to return on IdleTime calls
func (m *MockIdleClock) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// GetCallCount returns how many times IdleTime was called
func (m *MockIdleClock) GetCallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// MockShutdowner is a mock implementation of interfaces.Shutdowner for testing
type MockShutdowner struct {
	mu    sync.Mutex
	calls int
	err   error
}

// NewMockShutdowner creates a new mock shutdowner
func NewMockShutdowner() *MockShutdowner {
	return &MockShutdowner{}
}

// Shutdown implements the Shutdowner interface
func (m *MockShutdowner) Shutdown() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	return m.err
}

// SetError sets the error to return on Shutdown calls
func (m *MockShutdowner) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// GetCallCount returns how many times Shutdown was called
func (m *MockShutdowner) GetCallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// MockEndpoint is an in-memory interfaces.VolumeEndpoint
type MockEndpoint struct {
	mu       sync.Mutex
	level    float32
	getErr   error
	setErr   error
	sets     []float32
	closed   bool
	getCount int
}

// NewMockEndpoint creates a new mock endpoint at level
func NewMockEndpoint(level float32) *MockEndpoint {
	return &MockEndpoint{level: level}
}

// Scalar implements the VolumeEndpoint interface
func (m *MockEndpoint) Scalar() (float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.getCount++
	if m.getErr != nil {
		return 0, m.getErr
	}
	return m.level, nil
}

// SetScalar implements the VolumeEndpoint interface
func (m *MockEndpoint) SetScalar(level float32) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.setErr != nil {
		return m.setErr
	}
	m.level = level
	m.sets = append(m.sets, level)
	return nil
}

// Close implements the VolumeEndpoint interface
func (m *MockEndpoint) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// SetExternal changes the level without recording a write, as another
// process would
func (m *MockEndpoint) SetExternal(level float32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.level = level
}

// Level returns the current level
func (m *MockEndpoint) Level() float32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.level
}

// GetSets returns a copy of all levels written through SetScalar
func (m *MockEndpoint) GetSets() []float32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]float32, len(m.sets))
	copy(result, m.sets)
	return result
}

// SetErrors sets the errors returned by Scalar and SetScalar
func (m *MockEndpoint) SetErrors(getErr, setErr error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.getErr = getErr
	m.setErr = setErr
}

// IsClosed reports whether Close was called
func (m *MockEndpoint) IsClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// SyncDispatcher runs functions immediately and counts them
type SyncDispatcher struct {
	mu    sync.Mutex
	count int
}

// Do implements the Dispatcher interface
func (d *SyncDispatcher) Do(fn func()) {
	d.mu.Lock()
	d.count++
	d.mu.Unlock()
	fn()
}

// GetCount returns how many functions were dispatched
func (d *SyncDispatcher) GetCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.count
}

// Ensure mocks implement their interfaces
var (
	_ interfaces.IdleClock      = (*MockIdleClock)(nil)
	_ interfaces.Shutdowner     = (*MockShutdowner)(nil)
	_ interfaces.VolumeEndpoint = (*MockEndpoint)(nil)
	_ interfaces.Dispatcher     = (*SyncDispatcher)(nil)
)
