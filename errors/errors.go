package errors

import (
	"fmt"
	"strings"
)

// Resource names the kind of resource a guard owns.
type Resource string

const (
	ResourceMutex Resource = "mutex" // OS mutual-exclusion primitive
	ResourceFile  Resource = "file"  // buffered output stream
)

// Op indicates which guard operation failed.
type Op string

const (
	OpCreate  Op = "create"  // acquiring the resource
	OpLock    Op = "lock"    // locking the mutex
	OpUnlock  Op = "unlock"  // unlocking the mutex
	OpWrite   Op = "write"   // buffering data
	OpClose   Op = "close"   // explicit flush and release
	OpDestroy Op = "destroy" // scope-exit release
)

// Class separates failures the caller could have prevented from failures
// only the environment could.
type Class string

const (
	// ClassLogic marks caller-preventable failures, e.g. destroying a mutex
	// that is still locked or writing through a released handle. The remedy
	// is caller discipline, not runtime recovery.
	ClassLogic Class = "logic"

	// ClassEnvironment marks failures of the surrounding system (OS, storage,
	// network) that the caller can only detect and respond to.
	ClassEnvironment Class = "environment"
)

// verbs maps each Op to the phrase used in diagnostics.
var verbs = map[Op]string{
	OpCreate:  "creating",
	OpLock:    "locking",
	OpUnlock:  "unlocking",
	OpWrite:   "writing to",
	OpClose:   "closing",
	OpDestroy: "destroying",
}

// ResourceError is the structured error type used throughout the library.
// The Cause field carries the originating OS error verbatim; the taxonomy
// here is about when failures are fatal versus recoverable, not about
// classifying every possible errno.
type ResourceError struct {
	Cause    error
	Resource Resource
	Op       Op
	Class    Class
	Path     string
	Detail   string
}

// Error implements the error interface.
func (e *ResourceError) Error() string {
	var b strings.Builder

	b.WriteString("error ")
	if v, ok := verbs[e.Op]; ok {
		b.WriteString(v)
	} else {
		b.WriteString(string(e.Op))
	}
	b.WriteByte(' ')
	b.WriteString(string(e.Resource))

	if e.Path != "" {
		b.WriteByte(' ')
		b.WriteString(e.Path)
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}

	return b.String()
}

// Unwrap returns the originating OS error, if any.
func (e *ResourceError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error. Zero-valued fields on the
// target act as wildcards, so errors.Is(err, &ResourceError{Class: ClassLogic})
// matches any logic error.
func (e *ResourceError) Is(target error) bool {
	t, ok := target.(*ResourceError)
	if !ok {
		return false
	}
	if t.Resource != "" && t.Resource != e.Resource {
		return false
	}
	if t.Op != "" && t.Op != e.Op {
		return false
	}
	if t.Class != "" && t.Class != e.Class {
		return false
	}
	return true
}

// Convenience constructors for the failures the guards actually produce.

// CreateFailed reports a failed resource acquisition.
func CreateFailed(res Resource, path string, cause error) *ResourceError {
	return &ResourceError{
		Resource: res,
		Op:       OpCreate,
		Class:    ClassEnvironment,
		Path:     path,
		Cause:    cause,
	}
}

// LockFailed reports a failed lock acquisition on the mutex primitive.
func LockFailed(path string, cause error) *ResourceError {
	return &ResourceError{
		Resource: ResourceMutex,
		Op:       OpLock,
		Class:    ClassEnvironment,
		Path:     path,
		Cause:    cause,
	}
}

// UnlockFailed reports a failed unlock on the mutex primitive.
func UnlockFailed(path string, cause error) *ResourceError {
	return &ResourceError{
		Resource: ResourceMutex,
		Op:       OpUnlock,
		Class:    ClassEnvironment,
		Path:     path,
		Cause:    cause,
	}
}

// DestroyBusy reports destruction of a mutex that is still locked. This is
// a logic error: correct callers unlock before the guard leaves scope.
func DestroyBusy(path string) *ResourceError {
	return &ResourceError{
		Resource: ResourceMutex,
		Op:       OpDestroy,
		Class:    ClassLogic,
		Path:     path,
		Detail:   "still locked",
	}
}

// DestroyFailed reports an OS failure releasing the mutex primitive.
func DestroyFailed(path string, cause error) *ResourceError {
	return &ResourceError{
		Resource: ResourceMutex,
		Op:       OpDestroy,
		Class:    ClassEnvironment,
		Path:     path,
		Cause:    cause,
	}
}

// WriteFailed reports an OS-level write error on the stream.
func WriteFailed(path string, cause error) *ResourceError {
	return &ResourceError{
		Resource: ResourceFile,
		Op:       OpWrite,
		Class:    ClassEnvironment,
		Path:     path,
		Cause:    cause,
	}
}

// ShortWrite reports a write that accepted fewer bytes than requested.
func ShortWrite(path string, n, want int) *ResourceError {
	return &ResourceError{
		Resource: ResourceFile,
		Op:       OpWrite,
		Class:    ClassEnvironment,
		Path:     path,
		Detail:   fmt.Sprintf("incomplete write operation (%d of %d bytes)", n, want),
	}
}

// CloseFailed reports a failure flushing or releasing the stream. The
// canonical case is a deferred I/O error surfacing only at flush time.
func CloseFailed(path string, cause error) *ResourceError {
	return &ResourceError{
		Resource: ResourceFile,
		Op:       OpClose,
		Class:    ClassEnvironment,
		Path:     path,
		Cause:    cause,
	}
}

// Invalid reports an operation attempted through a handle that has already
// been released or moved from.
func Invalid(res Resource, op Op, path string) *ResourceError {
	return &ResourceError{
		Resource: res,
		Op:       op,
		Class:    ClassLogic,
		Path:     path,
		Detail:   "handle already released",
	}
}
