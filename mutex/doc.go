// Package mutex provides a scope-bound guard over an OS mutual-exclusion
// primitive, realized as an exclusive lock on a dedicated lock file (flock
// on Unix, LockFileEx on Windows).
//
// The guard's contract is deliberately asymmetric: Lock and Unlock return
// errors the caller handles, but the scope-exit Release has no error
// channel. Releasing while the lock is still held is a logic error, and the
// guard's answer to logic errors is caller discipline, not bookkeeping:
// always unlock before the guard leaves scope. A Release that cannot
// complete terminates the process.
//
//	m, err := mutex.New("/tmp/worker.lock")
//	if err != nil {
//	    return err
//	}
//	defer m.Release()
//
//	if err := m.Lock(); err != nil {
//	    return err
//	}
//	// ... critical section ...
//	return m.Unlock()
package mutex
