// Package scope coordinates the release of multiple guards leaving scope
// in the same unwind.
//
// A bare defer of each guard's Release already gives correct semantics: the
// first failing cleanup aborts the process on the spot. Scope exists for
// callers who want the first failure back as an ordinary error value while
// keeping the hard rule that only one cleanup failure may be in flight at a
// time: a second failure during the same exit is escalated to process
// termination unconditionally, whether or not the first was handled.
//
//	func copyOut(dst string) (err error) {
//	    s := scope.New()
//	    defer s.Exit(&err)
//
//	    f, err := file.Create(dst)
//	    if err != nil {
//	        return err
//	    }
//	    s.Defer("output file", f.Close)
//
//	    return f.Write(payload)
//	}
package scope
