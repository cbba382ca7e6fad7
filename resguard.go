package resguard

// Guard is the scope-exit side of a resource guard. Both guard variants
// implement it; Release is the method callers defer.
type Guard interface {
	// Release runs the automatic cleanup. It reports nothing to the caller:
	// if the underlying release fails, the failure is logged and the process
	// terminates abnormally. Release on an already-released or moved-from
	// guard is a no-op.
	Release()
}

// ExplicitCloser is implemented by guards that additionally offer an
// error-returning release path the owner may invoke before scope exit to
// observe failures without risking process termination.
type ExplicitCloser interface {
	Guard

	// Close releases the resource and surfaces any failure to the caller.
	// A failed Close still invalidates the guard; calling Close again is a
	// nil no-op.
	Close() error
}
