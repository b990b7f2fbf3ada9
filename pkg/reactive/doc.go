// Package reactive provides the observable state container behind a form
// session.
//
// A Signal holds one value. Writers replace the value with Set or Update;
// readers call Get. Observers registered with Subscribe are invoked after
// every write that actually changes the value:
//
//	fields := reactive.NewSignal(Fields{})
//	stop := fields.Subscribe(func() { rerender() })
//	defer stop()
//	fields.Update(func(f Fields) Fields { f.Email = "a@b.com"; return f })
//
// Observers run synchronously on the writer's goroutine, after the signal's
// lock has been released, so an observer may read the signal it watches.
package reactive
