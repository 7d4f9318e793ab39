package testutil

import "sync"

// MockWarningPresenter records idle warning display calls
type MockWarningPresenter struct {
	mu        sync.Mutex
	shown     []int
	countdown []int
	hidden    int
	visible   bool
}

// NewMockWarningPresenter creates a new mock presenter
func NewMockWarningPresenter() *MockWarningPresenter {
	return &MockWarningPresenter{}
}

// ShowWarning records a warning opened with remaining seconds
func (m *MockWarningPresenter) ShowWarning(remaining int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shown = append(m.shown, remaining)
	m.visible = true
}

// UpdateCountdown records a countdown refresh
func (m *MockWarningPresenter) UpdateCountdown(remaining int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.countdown = append(m.countdown, remaining)
}

// HideWarning records the warning being closed
func (m *MockWarningPresenter) HideWarning() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hidden++
	m.visible = false
}

// GetShown returns the remaining seconds of every ShowWarning call
func (m *MockWarningPresenter) GetShown() []int {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]int, len(m.shown))
	copy(result, m.shown)
	return result
}

// GetCountdown returns every countdown value displayed
func (m *MockWarningPresenter) GetCountdown() []int {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]int, len(m.countdown))
	copy(result, m.countdown)
	return result
}

// GetHiddenCount returns how many times HideWarning was called
func (m *MockWarningPresenter) GetHiddenCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.hidden
}

// IsVisible reports whether a warning is currently shown
func (m *MockWarningPresenter) IsVisible() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.visible
}

// MockVolumeView records what the volume controller displays
type MockVolumeView struct {
	mu      sync.Mutex
	current string
	slider  []float64
	saved   []int
	errors  []error
	infos   []string
}

// NewMockVolumeView creates a new mock view
func NewMockVolumeView() *MockVolumeView {
	return &MockVolumeView{}
}

// SetCurrentText records the current-volume label
func (m *MockVolumeView) SetCurrentText(text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = text
}

// SetSlider records a slider position update
func (m *MockVolumeView) SetSlider(percent float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slider = append(m.slider, percent)
}

// SetSavedPercent records the saved-volume label
func (m *MockVolumeView) SetSavedPercent(percent int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saved = append(m.saved, percent)
}

// ShowError records an error dialog
func (m *MockVolumeView) ShowError(title string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors = append(m.errors, err)
}

// ShowInfo records an information dialog
func (m *MockVolumeView) ShowInfo(title, message string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.infos = append(m.infos, message)
}

// GetCurrentText returns the last current-volume label
func (m *MockVolumeView) GetCurrentText() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// GetSlider returns every slider position set
func (m *MockVolumeView) GetSlider() []float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]float64, len(m.slider))
	copy(result, m.slider)
	return result
}

// GetSaved returns every saved-volume label value
func (m *MockVolumeView) GetSaved() []int {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]int, len(m.saved))
	copy(result, m.saved)
	return result
}

// GetErrors returns every error shown
func (m *MockVolumeView) GetErrors() []error {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]error, len(m.errors))
	copy(result, m.errors)
	return result
}

// GetInfos returns every information message shown
func (m *MockVolumeView) GetInfos() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]string, len(m.infos))
	copy(result, m.infos)
	return result
}
