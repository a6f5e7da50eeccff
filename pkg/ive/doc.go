// Package ive provides the reactive core: state cells, the component
// registry, the reactive binder and the update dispatcher.
//
// There is no virtual DOM and no dependency tracking. A component declares
// the cells it depends on, and a change to one of them re-renders every
// mounted node produced from that component and swaps it in place.
//
// # Core Types
//
// State[T] is a mutable value cell:
//
//	count := ive.NewState(rt, 0)
//	count.Get()   // 0
//	count.Set(1)  // re-renders every mounted node watching count
//
// Watch binds a render function to the cells it reads:
//
//	counter := ive.Watch1(rt, count, func(n int, _ ive.Props) *dom.Node {
//	    return el.H("p", nil, fmt.Sprintf("count: %d", n))
//	})
//	rt.Mount(counter.Render(nil))
//
// Each Watch call creates one registry entry. Nodes produced by the binding
// carry marker attributes (ive-watch-<cell>, ive-component) linking them back
// to the entry, and the runtime keeps a reverse index from cell to mounted
// nodes so a mutation touches only its subscribers.
//
// # Threading
//
// A Runtime is single-threaded. Cells must be read and written on the
// goroutine that drives the runtime's Loop; other goroutines hand work over
// with Loop.Post or settle a Future. A Set call notifies, re-renders and
// replaces every dependent node before it returns.
//
// # Asynchronous values
//
// Future[T] is a single-settlement value whose continuations run as loop
// tasks. Wait renders a future through a three-state cell:
//
//	profile := ive.Wait(rt, ive.Go(rt.Loop(), ctx, fetchProfile), renderProfile,
//	    ive.WithLoading(spinner))
package ive
