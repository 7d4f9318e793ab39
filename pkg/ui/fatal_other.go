//go:build !windows
// +build !windows

package ui

import (
	"fmt"
	"os"
)

// ShowFatal reports an error that prevents startup on stderr.
func ShowFatal(title, message string) {
	fmt.Fprintf(os.Stderr, "%s: %s\n", title, message)
}
