// Package file provides a scope-bound guard over a buffered output stream.
//
// Buffering makes close the moment of truth: an I/O error the OS deferred
// (a disconnected network filesystem, a full disk) surfaces only when the
// buffer is flushed. The guard therefore splits release in two:
//
//   - Close, explicit and idempotent, returns the failure to the owner. The
//     handle is marked invalid before the error is surfaced, so no code path
//     ever retries against a released descriptor.
//   - Release, the deferred fallback, has no error channel; if the close
//     logic fails there, the process terminates abnormally.
//
// State machine:
//
//	Open → (Write)* → Open
//	Open → Close success → Closed
//	Open → Close failure → Closed (error returned, process continues)
//	Open → Release failure → process termination
//
// Closed is terminal; only further no-op Close calls are valid afterward.
package file
