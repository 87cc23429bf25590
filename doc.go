// Package interact provides browser-style interaction primitives for Go,
// built on a single-threaded cooperative event loop: cancellable event
// subscriptions, debounce/throttle gating, per-frame coalescing, press
// gesture state machines, and a race-based runtime capability probe.
//
// # Architecture
//
// The package is built around a [Loop] core that manages task scheduling,
// timer processing, and frame callbacks. A small DOM-equivalent host sits on
// top: [EventTarget] provides listener registration and synchronous dispatch,
// [Element] adds tree containment, and [Document] owns the element index and
// the media driver. The composition layer ([Listen], [Debounce], [Throttle],
// [Coalesce], [HoldPress], [LongPress], [Probe]) turns noisy or ambiguous
// event streams into rate-limited, disposable reactions.
//
// # Execution Model
//
// All component state is mutated only from the loop goroutine. Suspension
// occurs only at well-defined asynchronous boundaries: timer expiry, frame
// callbacks, event delivery, or [Completion] settlement. Cancellation is
// cooperative; disposing a subscription or cancelling a timer suppresses a
// future callback, it does not abort work already in flight.
//
// Ordering within each tick:
//  1. Timer callbacks (earliest deadline first)
//  2. Frame callbacks (at most once per frame interval)
//  3. Submitted tasks
//
// # Disposal
//
// Registration functions return a [Disposer], a zero-argument callable that
// reverses the registration. Disposers are idempotent; invoking one twice has
// the same effect as once, and [CombineDisposers] composes several into one,
// order-independent.
//
// # Usage
//
//	loop, err := interact.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	doc := interact.NewDocument()
//	panel := doc.CreateElement("div")
//	doc.Root().AppendChild(panel)
//
//	loop.Submit(func() {
//	    dispose, _ := interact.ClickOutside(doc, panel, func() {
//	        fmt.Println("clicked outside the panel")
//	    }, nil)
//	    _ = dispose
//	})
//
//	if err := loop.Run(context.Background()); err != nil {
//	    log.Fatal(err)
//	}
//
// # Error Handling
//
// Calls suppressed by a gating policy are not errors; they are dropped
// silently. Invalid registrations (nil target, nil handler) fail fast with
// [ErrNilTarget] or [ErrNilHandler]. Probe failures never unwind to the
// caller; every non-success outcome folds into a restricted=true result,
// with the discriminated [RaceOutcome] available for diagnostics.
package interact
