//go:build windows
// +build windows

package ui

import (
	"golang.org/x/sys/windows"
)

// ShowFatal reports an error that prevents startup in a native message box.
func ShowFatal(title, message string) {
	t, err := windows.UTF16PtrFromString(title)
	if err != nil {
		return
	}
	m, err := windows.UTF16PtrFromString(message)
	if err != nil {
		return
	}
	_, _ = windows.MessageBox(0, m, t, windows.MB_OK|windows.MB_ICONERROR)
}
