package interact

import (
	"context"
	"sync"
)

// Completion is a settle-once asynchronous result.
//
// A Completion is either resolved with a value or rejected with an error,
// exactly once; later settlement attempts are no-ops. Callbacks registered
// via [Completion.Then] are delivered on the loop goroutine, after the
// current task completes. Callbacks registered after settlement are
// delivered the settled result.
//
// It is the outcome type of [MediaElement.Play] and the internal settlement
// primitive of the capability probe. It deliberately does not chain; a
// caller needing composition should layer it explicitly.
//
// Thread Safety: safe for concurrent use.
type Completion struct {
	loop      *Loop
	mu        sync.Mutex
	settled   bool
	value     any
	err       error
	callbacks []func(value any, err error)
}

// NewCompletion creates an unsettled Completion whose callbacks are
// delivered via loop. A nil loop delivers callbacks synchronously at
// settlement, which is only appropriate in tests.
func NewCompletion(loop *Loop) *Completion {
	return &Completion{loop: loop}
}

// Resolve settles the completion successfully. Returns false if it was
// already settled.
func (c *Completion) Resolve(value any) bool {
	return c.settle(value, nil)
}

// Reject settles the completion with an error. A nil err is recorded as-is;
// callers distinguish outcomes by the err parameter they receive. Returns
// false if the completion was already settled.
func (c *Completion) Reject(err error) bool {
	return c.settle(nil, err)
}

// Settled reports whether the completion has been resolved or rejected.
func (c *Completion) Settled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.settled
}

// Then registers fn to receive the settled result. If the completion is
// already settled, fn is scheduled immediately. A nil fn is a no-op.
func (c *Completion) Then(fn func(value any, err error)) {
	if fn == nil {
		return
	}
	c.mu.Lock()
	if !c.settled {
		c.callbacks = append(c.callbacks, fn)
		c.mu.Unlock()
		return
	}
	value, err := c.value, c.err
	c.mu.Unlock()
	c.deliver(fn, value, err)
}

// Await blocks until the completion settles or ctx is done, returning the
// settled result or ctx.Err(). For callers off the loop goroutine; calling
// Await on the loop goroutine deadlocks if settlement depends on the loop.
func (c *Completion) Await(ctx context.Context) (any, error) {
	done := make(chan struct{})
	var value any
	var err error
	c.Then(func(v any, e error) {
		value, err = v, e
		close(done)
	})
	select {
	case <-done:
		return value, err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (c *Completion) settle(value any, err error) bool {
	c.mu.Lock()
	if c.settled {
		c.mu.Unlock()
		return false
	}
	c.settled = true
	c.value = value
	c.err = err
	callbacks := c.callbacks
	c.callbacks = nil
	c.mu.Unlock()
	for _, fn := range callbacks {
		c.deliver(fn, value, err)
	}
	return true
}

// deliver runs fn on the loop goroutine, falling back to synchronous
// invocation when no loop is attached or the loop can no longer accept work.
func (c *Completion) deliver(fn func(value any, err error), value any, err error) {
	if c.loop != nil {
		if submitErr := c.loop.Submit(func() { fn(value, err) }); submitErr == nil {
			return
		}
	}
	fn(value, err)
}
