package scope

import (
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/chalkline/resguard"
	"github.com/chalkline/resguard/internal/fatal"
	"github.com/chalkline/resguard/track"
)

// Scope coordinates the release of several guards leaving scope together.
// Cleanups run in reverse registration order, mirroring stack unwinding.
//
// At most one cleanup failure may propagate per exit. The first failure is
// appended to the caller's error channel; if a later cleanup also fails
// while the first is still in flight, the process terminates and the
// diagnostic surfaces the in-flight failure; the superseding one is logged
// and never propagates. Without an error channel, any cleanup failure is
// immediately fatal.
//
// A Scope is single-owner, like the guards it holds; its methods are not
// synchronized.
type Scope struct {
	reg     *track.Registry
	handles []track.Handle
	exited  bool
}

// New creates a scope with a private lifecycle registry.
func New() *Scope {
	return NewObserved(track.NewRegistry())
}

// NewObserved creates a scope that records its cleanups in reg, so
// observers subscribed there see each acquisition and release.
func NewObserved(reg *track.Registry) *Scope {
	return &Scope{reg: reg}
}

// Defer registers an error-returning cleanup, typically an explicit close
// such as (*file.File).Close. Its failure is recoverable subject to the
// one-in-flight rule.
func (s *Scope) Defer(name string, cleanup func() error) {
	h := s.reg.Acquire(name, cleanup)
	s.handles = append(s.handles, h)
}

// Own registers a guard's automatic release. The guard escalates its own
// failures, so from the scope's point of view this cleanup cannot fail.
func (s *Scope) Own(name string, g resguard.Guard) {
	s.Defer(name, func() error {
		g.Release()
		return nil
	})
}

// Exit releases everything the scope holds, last-registered first. It is
// meant to be deferred with the caller's named return error:
//
//	func work() (err error) {
//	    s := scope.New()
//	    defer s.Exit(&err)
//	    ...
//	}
//
// Passing nil means the caller has no error channel; a cleanup failure then
// terminates the process directly. Exit is idempotent.
func (s *Scope) Exit(errp *error) {
	if s.exited {
		return
	}
	s.exited = true

	var inflight error
	for i := len(s.handles) - 1; i >= 0; i-- {
		err := s.reg.Release(s.handles[i])
		if err == nil {
			continue
		}
		if errp == nil {
			fatal.Cleanup(err)
			continue
		}
		if inflight != nil {
			// Second cleanup failure during one unwind. The in-flight
			// failure is the one that surfaces; this one is superseded.
			resguard.Logger().Error("cleanup failure superseded during unwind",
				zap.NamedError("superseded", err),
				zap.NamedError("inflight", inflight))
			fatal.Cleanup(inflight)
			continue
		}
		inflight = err
		*errp = multierr.Append(*errp, err)
	}
	s.handles = nil
}
