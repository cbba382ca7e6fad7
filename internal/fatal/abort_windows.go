//go:build windows

package fatal

import "os"

// abort exits with the code the C runtime uses for abort() on Windows.
func abort() {
	os.Exit(3)
}
