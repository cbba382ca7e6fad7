package mutex

import (
	"os"

	"go.uber.org/zap"

	"github.com/chalkline/resguard"
	"github.com/chalkline/resguard/errors"
	"github.com/chalkline/resguard/internal/fatal"
)

// Mutex is a scope-bound guard over an OS mutual-exclusion primitive: an
// exclusive lock on a dedicated lock file. Lock, Unlock and the final
// release are real OS calls and can fail with OS error codes.
//
// The primitive coordinates across processes; the guard's own lifecycle
// operations are not synchronized and must not be called concurrently on
// the same instance.
type Mutex struct {
	f      *os.File
	path   string
	locked bool
}

var _ resguard.Guard = (*Mutex)(nil)

// New acquires a new mutual-exclusion primitive backed by the lock file at
// path, creating the file if needed.
func New(path string) (*Mutex, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, errors.CreateFailed(errors.ResourceMutex, path, err)
	}
	resguard.Logger().Debug("mutex created", zap.String("path", path))
	return &Mutex{f: f, path: path}, nil
}

// Lock acquires the exclusive lock, blocking until it is available.
func (m *Mutex) Lock() error {
	if m.f == nil {
		return errors.Invalid(errors.ResourceMutex, errors.OpLock, m.path)
	}
	if err := lockFile(m.f.Fd()); err != nil {
		return errors.LockFailed(m.path, err)
	}
	m.locked = true
	return nil
}

// TryLock attempts to acquire the lock without blocking. It returns false
// with a nil error when another holder has it.
func (m *Mutex) TryLock() (bool, error) {
	if m.f == nil {
		return false, errors.Invalid(errors.ResourceMutex, errors.OpLock, m.path)
	}
	ok, err := tryLockFile(m.f.Fd())
	if err != nil {
		return false, errors.LockFailed(m.path, err)
	}
	if ok {
		m.locked = true
	}
	return ok, nil
}

// Unlock releases the exclusive lock.
func (m *Mutex) Unlock() error {
	if m.f == nil {
		return errors.Invalid(errors.ResourceMutex, errors.OpUnlock, m.path)
	}
	if err := unlockFile(m.f.Fd()); err != nil {
		return errors.UnlockFailed(m.path, err)
	}
	m.locked = false
	return nil
}

// Locked reports whether this guard currently holds the lock.
func (m *Mutex) Locked() bool {
	return m.locked
}

// Move transfers ownership of the primitive to the returned guard and
// leaves m inert: every further operation on m treats the handle as already
// released, and m's Release becomes a no-op.
func (m *Mutex) Move() *Mutex {
	next := &Mutex{f: m.f, path: m.path, locked: m.locked}
	m.f = nil
	m.locked = false
	return next
}

// Release destroys the primitive. It is the scope-exit cleanup and is meant
// to be deferred; it has no error channel. Destroying an unlocked mutex
// always succeeds silently. Destroying a mutex that is still locked is a
// logic error, and an OS failure releasing the descriptor is just as
// unreportable at scope-exit time: either way the process terminates.
func (m *Mutex) Release() {
	if m.f == nil {
		return
	}
	f := m.f
	m.f = nil

	if m.locked {
		m.locked = false
		fatal.Cleanup(errors.DestroyBusy(m.path))
		// Reached only when a test handler intercepts the escalation.
		_ = f.Close()
		return
	}

	if err := f.Close(); err != nil {
		fatal.Cleanup(errors.DestroyFailed(m.path, err))
		return
	}
	resguard.Logger().Debug("mutex destroyed", zap.String("path", m.path))
}
