package scope

import (
	"errors"
	"testing"

	"go.uber.org/multierr"

	"github.com/chalkline/resguard/internal/fatal"
	"github.com/chalkline/resguard/track"
)

func recordCleanups(t *testing.T) *[]error {
	t.Helper()
	var got []error
	restore := fatal.SetHandler(func(err error) {
		got = append(got, err)
	})
	t.Cleanup(restore)
	return &got
}

func TestScope_LIFOOrder(t *testing.T) {
	s := New()
	var order []string
	for _, name := range []string{"a", "b", "c"} {
		name := name
		s.Defer(name, func() error {
			order = append(order, name)
			return nil
		})
	}

	var err error
	s.Exit(&err)
	if err != nil {
		t.Fatalf("Exit: %v", err)
	}
	if len(order) != 3 || order[0] != "c" || order[1] != "b" || order[2] != "a" {
		t.Fatalf("cleanups ran in order %v, want [c b a]", order)
	}
}

func TestScope_FirstFailurePropagates(t *testing.T) {
	fatals := recordCleanups(t)
	s := New()

	boom := errors.New("close failed")
	s.Defer("healthy", func() error { return nil })
	s.Defer("broken", func() error { return boom })

	var err error
	s.Exit(&err)

	if !errors.Is(err, boom) {
		t.Fatalf("Exit captured %v, want %v", err, boom)
	}
	if len(*fatals) != 0 {
		t.Fatalf("single failure escalated: %v", *fatals)
	}
}

func TestScope_SecondFailureEscalates(t *testing.T) {
	fatals := recordCleanups(t)
	s := New()

	errA := errors.New("a failed")
	errB := errors.New("b failed")
	s.Defer("a", func() error { return errA })
	s.Defer("b", func() error { return errB })

	var err error
	s.Exit(&err)

	// B registered last, so it is released first: its failure is in
	// flight; A's supersedes and triggers the escalation, which surfaces
	// B's error.
	if !errors.Is(err, errB) {
		t.Fatalf("Exit captured %v, want %v", err, errB)
	}
	if errors.Is(err, errA) {
		t.Fatal("superseded failure leaked into the error channel")
	}
	if len(*fatals) != 1 {
		t.Fatalf("expected one escalation, got %d", len(*fatals))
	}
	if (*fatals)[0] != errB {
		t.Fatalf("escalation surfaced %v, want in-flight %v", (*fatals)[0], errB)
	}
}

func TestScope_NoChannelIsFatal(t *testing.T) {
	fatals := recordCleanups(t)
	s := New()

	boom := errors.New("close failed")
	s.Defer("broken", func() error { return boom })

	s.Exit(nil)

	if len(*fatals) != 1 || (*fatals)[0] != boom {
		t.Fatalf("expected immediate escalation of %v, got %v", boom, *fatals)
	}
}

func TestScope_BodyErrorCombines(t *testing.T) {
	recordCleanups(t)
	s := New()

	closeErr := errors.New("close failed")
	s.Defer("broken", func() error { return closeErr })

	err := errors.New("body failed")
	s.Exit(&err)

	errs := multierr.Errors(err)
	if len(errs) != 2 {
		t.Fatalf("got %d combined errors, want 2: %v", len(errs), err)
	}
	if !errors.Is(err, closeErr) {
		t.Fatalf("combined error %v does not include cleanup failure", err)
	}
}

func TestScope_ExitIdempotent(t *testing.T) {
	s := New()
	runs := 0
	s.Defer("once", func() error {
		runs++
		return nil
	})

	var err error
	s.Exit(&err)
	s.Exit(&err)
	if runs != 1 {
		t.Fatalf("cleanup ran %d times, want 1", runs)
	}
}

func TestScope_ObservedEvents(t *testing.T) {
	reg := track.NewRegistry()
	var events []track.Event
	reg.Subscribe(track.ObserverFunc(func(e track.Event) {
		events = append(events, e)
	}))

	s := NewObserved(reg)
	s.Defer("watched", func() error { return nil })

	var err error
	s.Exit(&err)
	if err != nil {
		t.Fatalf("Exit: %v", err)
	}

	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	if events[0].Type != track.EventAcquired || events[1].Type != track.EventReleased {
		t.Fatalf("unexpected event sequence %+v", events)
	}
}
