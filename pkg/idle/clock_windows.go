//go:build windows
// +build windows

package idle

import (
	"time"
	"unsafe"

	"github.com/pkg/errors"
	"golang.org/x/sys/windows"
)

var (
	user32   = windows.NewLazySystemDLL("user32.dll")
	kernel32 = windows.NewLazySystemDLL("kernel32.dll")

	procGetLastInputInfo = user32.NewProc("GetLastInputInfo")
	procGetTickCount     = kernel32.NewProc("GetTickCount")
)

// lastInputInfo mirrors the Win32 LASTINPUTINFO structure.
type lastInputInfo struct {
	cbSize uint32
	dwTime uint32
}

// WindowsIdleClock reads the session input idle time from user32.
type WindowsIdleClock struct{}

// NewWindowsIdleClock creates a new Windows idle clock.
func NewWindowsIdleClock() *WindowsIdleClock {
	return &WindowsIdleClock{}
}

// IdleTime returns the time since the last keyboard or mouse input.
func (c *WindowsIdleClock) IdleTime() (time.Duration, error) {
	info := lastInputInfo{cbSize: uint32(unsafe.Sizeof(lastInputInfo{}))}

	// #nosec G103 -- Required to pass LASTINPUTINFO to user32
	r, _, err := procGetLastInputInfo.Call(uintptr(unsafe.Pointer(&info)))
	if r == 0 {
		return 0, errors.Wrap(err, "GetLastInputInfo")
	}

	tick, _, _ := procGetTickCount.Call()
	return elapsedMillis(uint32(tick), info.dwTime), nil
}
