package interact

import (
	"time"
)

// frameCoalescer holds the scheduling state for a coalesced function: a
// single Idle/Scheduled flag plus the payload captured by the first trigger
// of the current window.
type frameCoalescer[T any] struct {
	frames  FrameScheduler
	fn      func(T)
	state   coalesceState
	payload T
}

// Coalesce returns a trigger that collapses bursts of calls into at most one
// invocation of fn per rendering frame.
//
// The first trigger of a window captures its payload and schedules fn for
// the next frame boundary; every further trigger in the same window is a
// no-op whose payload is discarded, not merged. This bounds reaction cost to
// the frame rate regardless of call volume, at the cost of delivering only
// the first payload per window. A caller that needs the latest payload must
// track it outside this primitive; that is intentional, not a bug.
//
// The trigger must be invoked from the loop goroutine. Triggers issued after
// the scheduler stops accepting work are dropped; a gating drop is not an
// error.
func Coalesce[T any](frames FrameScheduler, fn func(T)) (func(T), error) {
	if frames == nil {
		return nil, ErrNilScheduler
	}
	if fn == nil {
		return nil, ErrNilHandler
	}
	c := &frameCoalescer[T]{frames: frames, fn: fn}
	return c.trigger, nil
}

func (c *frameCoalescer[T]) trigger(v T) {
	if c.state == coalesceScheduled {
		return
	}
	c.payload = v
	if err := c.frames.RequestFrame(c.run); err != nil {
		return
	}
	c.state = coalesceScheduled
}

func (c *frameCoalescer[T]) run(_ time.Time) {
	c.state = coalesceIdle
	c.fn(c.payload)
}
