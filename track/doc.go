// Package track provides a lifecycle registry for guard cleanups.
//
// The registry maps opaque handles to named cleanups and notifies
// subscribed observers as guards are acquired and released. The scope
// package stores its deferred cleanups here, and the demonstration
// commands subscribe an observer to narrate each lifecycle transition.
//
//	reg := track.NewRegistry()
//	reg.Subscribe(track.ObserverFunc(func(e track.Event) {
//	    switch e.Type {
//	    case track.EventAcquired:
//	        fmt.Fprintf(os.Stderr, "acquired %s\n", e.Name)
//	    case track.EventReleaseFailed:
//	        fmt.Fprintf(os.Stderr, "release of %s failed: %v\n", e.Name, e.Err)
//	    }
//	}))
package track
