// Package fatal funnels scope-exit cleanup failures into unconditional
// process termination. An implicit release has no caller-supplied error
// channel, so a failure there is logged, printed to stderr and escalated
// to the platform abort rather than being allowed to propagate.
package fatal

import (
	"fmt"
	"os"
	"sync"

	"go.uber.org/zap"

	"github.com/chalkline/resguard"
)

var (
	mu      sync.Mutex
	handler = defaultHandler
)

// Cleanup reports a failed automatic cleanup. Under the default handler it
// does not return: the process terminates abnormally.
func Cleanup(err error) {
	mu.Lock()
	h := handler
	mu.Unlock()
	h(err)
}

func defaultHandler(err error) {
	resguard.Logger().Error("unrecoverable cleanup failure", zap.Error(err))
	fmt.Fprintln(os.Stderr, err)
	abort()
}

// SetHandler replaces the termination handler and returns a function that
// restores the previous one. Tests use it to observe escalations without
// dying; callers of Cleanup must not assume control comes back outside of
// tests.
func SetHandler(h func(error)) (restore func()) {
	mu.Lock()
	prev := handler
	handler = h
	mu.Unlock()
	return func() {
		mu.Lock()
		handler = prev
		mu.Unlock()
	}
}
