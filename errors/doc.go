// Package errors provides the structured error type for the resguard library.
//
// Errors carry three dimensions: Resource (which guard variant), Op (which
// operation failed) and Class (logic versus environment). The class decides
// the library's stance: logic errors are eliminated by caller discipline,
// environmental errors are surfaced on the explicit release path and
// escalated to process termination on the implicit one.
//
// Use the convenience constructors:
//
//	err := errors.CloseFailed("/mnt/nfs/out.txt", osErr)
//	err := errors.DestroyBusy("/tmp/demo.lock")
//
// All errors implement the standard error interface; Is matches on the set
// dimensions of the target, so a caller can test for any logic error with
//
//	errors.Is(err, &errors.ResourceError{Class: errors.ClassLogic})
//
// The originating OS error is kept verbatim in Cause and is reachable
// through Unwrap; the package deliberately does not enumerate errnos.
package errors
