// Package resguard implements scope-bound resource guards: objects that
// acquire one system resource at construction and release it when they
// leave scope, with precise semantics for what happens when the release
// itself fails.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct responsibilities:
//
//	resguard/            Root package with the Guard interface and shared logger
//	├── mutex/           Guard over an OS mutual-exclusion primitive (file lock)
//	├── file/            Guard over a buffered output stream
//	├── scope/           LIFO cleanup coordinator for multi-guard unwinds
//	├── track/           Guard lifecycle registry and observer events
//	├── errors/          Structured ResourceError types
//	└── cmd/guarddemo    Demonstration programs for each failure mode
//
// # The Discipline
//
// Every guard offers two release paths:
//
//   - Explicit: an error-returning call (file.File.Close) the owner may make
//     at any time to observe and recover from release failures.
//   - Implicit: a Release method intended for defer. It has no error channel;
//     if the cleanup fails, the failure is logged and the process terminates
//     with the platform abort signal.
//
// The split follows the error taxonomy: logic errors (destroying a locked
// mutex) are eliminated by caller discipline, while environmental errors
// (a buffered write surfacing only at flush time) get the explicit path for
// callers motivated to handle them and a crash-only fallback for everyone
// else. Once automatic cleanup cannot complete, the process state regarding
// that resource is untrustworthy; restarting beats limping on.
//
// # Quick Start
//
//	m, err := mutex.New("/tmp/demo.lock")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer m.Release()
//
//	if err := m.Lock(); err != nil {
//	    log.Fatal(err)
//	}
//	// critical section
//	if err := m.Unlock(); err != nil {
//	    log.Fatal(err)
//	}
//
// A file guard with the explicit escape hatch:
//
//	f, err := file.Create("/tmp/out.txt")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer f.Release() // no-op after a successful (or failed) Close
//
//	if err := f.Write([]byte("hello")); err != nil {
//	    log.Fatal(err)
//	}
//	if err := f.Close(); err != nil {
//	    // deferred I/O error surfaced at flush time; the handle is already
//	    // invalid, the process keeps running
//	    log.Print(err)
//	}
package resguard
