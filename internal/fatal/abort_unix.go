//go:build unix

package fatal

import (
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sys/unix"
)

// abort raises SIGABRT so the exit status is an abort signal, not a clean
// nonzero code. The runtime installs its own SIGABRT handler that would
// turn the signal into a goroutine dump and a plain exit, so the default
// disposition is restored first. The Exit call is unreachable unless the
// signal is blocked.
func abort() {
	signal.Reset(syscall.SIGABRT)
	_ = unix.Kill(unix.Getpid(), unix.SIGABRT)
	os.Exit(134)
}
