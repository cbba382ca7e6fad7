package track

import "sync"

// Handle is an opaque reference to a tracked cleanup in a registry.
// Handle 0 is reserved and always invalid.
type Handle uint32

// EventType identifies a guard lifecycle event.
type EventType uint8

const (
	EventAcquired EventType = iota
	EventReleased
	EventReleaseFailed
)

// Event describes one guard lifecycle transition.
type Event struct {
	Err    error
	Name   string
	Handle Handle
	Type   EventType
}

// Observer receives notifications about guard lifecycle events.
type Observer interface {
	OnGuardEvent(Event)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(Event)

func (f ObserverFunc) OnGuardEvent(e Event) { f(e) }

// Registry tracks live cleanups by handle and notifies observers of
// lifecycle transitions. Slots are reused through a free list; a released
// handle is invalidated before its cleanup runs, so no path can reach a
// cleanup through a dead handle.
type Registry struct {
	entries   []entry
	freeList  []Handle
	observers []Observer
	mu        sync.Mutex
}

type entry struct {
	cleanup func() error
	name    string
	valid   bool
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		entries:  make([]entry, 0, 8),
		freeList: make([]Handle, 0, 4),
	}
}

// Subscribe adds an observer for lifecycle events.
func (r *Registry) Subscribe(o Observer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.observers = append(r.observers, o)
}

// Unsubscribe removes an observer.
func (r *Registry) Unsubscribe(o Observer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, obs := range r.observers {
		if obs == o {
			r.observers = append(r.observers[:i], r.observers[i+1:]...)
			return
		}
	}
}

// Acquire registers a named cleanup and returns its handle.
func (r *Registry) Acquire(name string, cleanup func() error) Handle {
	r.mu.Lock()
	e := entry{cleanup: cleanup, name: name, valid: true}
	var h Handle
	if n := len(r.freeList); n > 0 {
		h = r.freeList[n-1]
		r.freeList = r.freeList[:n-1]
		r.entries[h-1] = e
	} else {
		r.entries = append(r.entries, e)
		h = Handle(len(r.entries))
	}
	r.mu.Unlock()

	r.notify(Event{Type: EventAcquired, Handle: h, Name: name})
	return h
}

// Release invalidates the handle, runs its cleanup and reports the
// cleanup's error. Releasing an invalid or already-released handle is a
// no-op returning nil.
func (r *Registry) Release(h Handle) error {
	r.mu.Lock()
	if h == 0 || int(h) > len(r.entries) || !r.entries[h-1].valid {
		r.mu.Unlock()
		return nil
	}
	e := r.entries[h-1]
	r.entries[h-1] = entry{}
	r.freeList = append(r.freeList, h)
	r.mu.Unlock()

	var err error
	if e.cleanup != nil {
		err = e.cleanup()
	}
	if err != nil {
		r.notify(Event{Type: EventReleaseFailed, Handle: h, Name: e.name, Err: err})
		return err
	}
	r.notify(Event{Type: EventReleased, Handle: h, Name: e.name})
	return nil
}

// Len returns the number of live cleanups.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.entries {
		if e.valid {
			n++
		}
	}
	return n
}

func (r *Registry) notify(e Event) {
	r.mu.Lock()
	obs := make([]Observer, len(r.observers))
	copy(obs, r.observers)
	r.mu.Unlock()
	for _, o := range obs {
		o.OnGuardEvent(e)
	}
}
