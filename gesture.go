// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package interact

import (
	"time"
)

const (
	// DefaultHoldDelay is the pause before a held press starts repeating.
	DefaultHoldDelay = 150 * time.Millisecond

	// DefaultHoldInterval is the repeat cadence of a held press.
	DefaultHoldInterval = 50 * time.Millisecond

	// LongPressDelay is how long a press must be held before it counts as a
	// long press.
	LongPressDelay = 300 * time.Millisecond
)

// releaseEvents are the event kinds that end a press, in subscription order.
var releaseEvents = [...]string{EventTouchEnd, EventTouchCancel, EventMouseUp}

// HoldOptions configures [HoldPress].
type HoldOptions struct {
	// Delay is the pause before the repeat loop starts. Zero means
	// [DefaultHoldDelay].
	Delay time.Duration
	// Interval is the repeat cadence. Zero means [DefaultHoldInterval].
	Interval time.Duration
}

// Hold is the handle for an active press-and-hold interaction.
//
// Hold state is mutated only on the loop goroutine; Destroy and Active must
// be called there too.
type Hold struct {
	sched    TimerScheduler
	cb       func()
	interval time.Duration
	state    holdState
}

// HoldPress fires cb once immediately, then, after the configured delay,
// repeatedly at the configured interval until the returned handle is
// destroyed.
//
// The in-flight timer is not cancelled by Destroy; its continuation is
// suppressed instead, so the final scheduled iteration silently expires.
func HoldPress(sched TimerScheduler, cb func(), opts *HoldOptions) (*Hold, error) {
	if sched == nil {
		return nil, ErrNilScheduler
	}
	if cb == nil {
		return nil, ErrNilHandler
	}
	delay := DefaultHoldDelay
	interval := DefaultHoldInterval
	if opts != nil {
		if opts.Delay > 0 {
			delay = opts.Delay
		}
		if opts.Interval > 0 {
			interval = opts.Interval
		}
	}
	h := &Hold{
		sched:    sched,
		cb:       cb,
		interval: interval,
		state:    holdActive,
	}
	cb()
	if _, err := sched.ScheduleTimer(delay, h.step); err != nil {
		// The scheduler is gone; the press degenerates to the single
		// synchronous fire above.
		h.state = holdDestroyed
	}
	return h, nil
}

// step runs one repeat iteration and, if the hold is still active,
// reschedules itself.
func (h *Hold) step() {
	if h.state != holdActive {
		return
	}
	h.cb()
	if h.state != holdActive {
		// cb destroyed the hold.
		return
	}
	if _, err := h.sched.ScheduleTimer(h.interval, h.step); err != nil {
		h.state = holdDestroyed
	}
}

// Destroy stops future repeats. Destroyed state is terminal; the hold cannot
// be reactivated. Safe to call more than once.
func (h *Hold) Destroy() {
	h.state = holdDestroyed
}

// Active reports whether the hold is still repeating.
func (h *Hold) Active() bool {
	return h.state == holdActive
}

// longPress is the state machine for a single long-press interaction.
//
//	Armed → LongFired → Released
//	Armed → Released
//
// Released is terminal and reachable exactly once.
type longPress struct {
	sched     TimerScheduler
	onPress   func(longPressed bool)
	onRelease func(longPressed bool)
	dispose   Disposer
	timer     TimerID
	state     pressState
}

// LongPress models a press-and-hold on the event's originating element.
//
// The event's default action is prevented immediately. If the press is still
// held after [LongPressDelay], onPress(true) fires once. Whenever the press
// ends (touch end, touch cancel, or mouse up, whichever of those kinds the
// originating element supports), the release event's default action is
// prevented, all release subscriptions are detached, and
// onRelease(longPressed) fires exactly once.
//
// LongPress must be called from the loop goroutine, with an event that
// carries an originating node.
func LongPress(sched TimerScheduler, event *Event, onPress, onRelease func(longPressed bool)) error {
	if sched == nil {
		return ErrNilScheduler
	}
	if event == nil || event.Node == nil {
		return ErrNilTarget
	}
	if onPress == nil || onRelease == nil {
		return ErrNilHandler
	}

	event.PreventDefault()
	target := event.Node

	g := &longPress{
		sched:     sched,
		onPress:   onPress,
		onRelease: onRelease,
		state:     pressArmed,
	}

	timer, err := sched.ScheduleTimer(LongPressDelay, g.fired)
	if err != nil {
		return err
	}
	g.timer = timer

	disposers := make([]Disposer, 0, len(releaseEvents))
	for _, kind := range releaseEvents {
		if !target.SupportsEvent(kind) {
			continue
		}
		d, err := Listen(target, kind, g.release)
		if err != nil {
			_ = sched.CancelTimer(timer)
			CombineDisposers(disposers...)()
			return err
		}
		disposers = append(disposers, d)
	}
	g.dispose = CombineDisposers(disposers...)
	return nil
}

// fired transitions Armed → LongFired when the arm timer outlives the press.
func (g *longPress) fired() {
	if g.state != pressArmed {
		return
	}
	g.state = pressLongFired
	g.onPress(true)
}

// release produces the single terminal transition, regardless of how many
// release events the host delivers or in what order relative to the arm
// timer.
func (g *longPress) release(event *Event) {
	event.PreventDefault()
	if g.state == pressReleased {
		return
	}
	longPressed := g.state == pressLongFired
	if !longPressed {
		_ = g.sched.CancelTimer(g.timer)
	}
	g.state = pressReleased
	g.dispose()
	g.onRelease(longPressed)
}
