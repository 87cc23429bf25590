package interact

import (
	"time"
)

// debounceGate holds the scheduling state for a debounced function.
// At most one timer is pending at any time.
type debounceGate[T any] struct {
	sched  TimerScheduler
	fn     func(T)
	delay  time.Duration
	state  gateState
	timer  TimerID
	latest T
}

// Debounce returns a trigger that defers fn until delay has elapsed since
// the trigger's most recent call, invoking fn with that call's argument.
// Only the last call in a burst shorter than delay survives.
//
// The trigger must be invoked from the loop goroutine. Calls made after the
// scheduler stops accepting work are dropped; a gating drop is not an error.
func Debounce[T any](sched TimerScheduler, delay time.Duration, fn func(T)) (func(T), error) {
	if sched == nil {
		return nil, ErrNilScheduler
	}
	if fn == nil {
		return nil, ErrNilHandler
	}
	g := &debounceGate[T]{sched: sched, fn: fn, delay: delay}
	return g.trigger, nil
}

func (g *debounceGate[T]) trigger(v T) {
	if g.state == gatePending {
		// Superseded; only the latest call's timer may fire.
		_ = g.sched.CancelTimer(g.timer)
		g.state = gateIdle
	}
	g.latest = v
	id, err := g.sched.ScheduleTimer(g.delay, g.fire)
	if err != nil {
		return
	}
	g.timer = id
	g.state = gatePending
}

func (g *debounceGate[T]) fire() {
	g.state = gateIdle
	g.fn(g.latest)
}

// throttleGate holds the scheduling state for a throttled function.
type throttleGate[T any] struct {
	sched TimerScheduler
	fn    func(T)
	delay time.Duration
	state gateState
	first T
}

// Throttle returns a trigger that limits fn to one invocation per delay
// window. The first call of a window captures the argument and schedules fn
// to fire after delay; every further call before it fires is dropped
// entirely, arguments discarded. Once fn fires the gate reopens.
//
// The trigger must be invoked from the loop goroutine. Calls made after the
// scheduler stops accepting work are dropped; a gating drop is not an error.
func Throttle[T any](sched TimerScheduler, delay time.Duration, fn func(T)) (func(T), error) {
	if sched == nil {
		return nil, ErrNilScheduler
	}
	if fn == nil {
		return nil, ErrNilHandler
	}
	g := &throttleGate[T]{sched: sched, fn: fn, delay: delay}
	return g.trigger, nil
}

func (g *throttleGate[T]) trigger(v T) {
	if g.state == gatePending {
		return
	}
	g.first = v
	if _, err := g.sched.ScheduleTimer(g.delay, g.fire); err != nil {
		return
	}
	g.state = gatePending
}

func (g *throttleGate[T]) fire() {
	g.state = gateIdle
	g.fn(g.first)
}
