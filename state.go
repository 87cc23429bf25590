package interact

import (
	"sync/atomic"
)

// LoopState represents the current state of the event loop.
//
// State Machine:
//
//	StateAwake (0) → StateRunning (1)       [Run()]
//	StateAwake (0) → StateTerminated (3)    [Shutdown() before Run()]
//	StateRunning (1) → StateTerminating (2) [Shutdown()]
//	StateRunning (1) → StateTerminated (3)  [context cancelled]
//	StateTerminating (2) → StateTerminated (3)
//	StateTerminated (3) → (terminal)
//
// Transitions into Running and Terminating use CAS via tryTransition;
// Terminated is irreversible and may be stored directly.
type LoopState uint64

const (
	// StateAwake indicates the loop has been created but not started.
	StateAwake LoopState = iota
	// StateRunning indicates the loop is actively processing tasks.
	StateRunning
	// StateTerminating indicates shutdown has been requested but not completed.
	StateTerminating
	// StateTerminated indicates the loop has been stopped and is fully shut down.
	StateTerminated
)

// String returns a human-readable representation of the state.
func (s LoopState) String() string {
	switch s {
	case StateAwake:
		return "Awake"
	case StateRunning:
		return "Running"
	case StateTerminating:
		return "Terminating"
	case StateTerminated:
		return "Terminated"
	default:
		return "Unknown"
	}
}

// lifecycle is a lock-free state machine for the loop's lifecycle.
type lifecycle struct {
	v atomic.Uint64
}

func newLifecycle() *lifecycle {
	s := &lifecycle{}
	s.v.Store(uint64(StateAwake))
	return s
}

func (s *lifecycle) load() LoopState {
	return LoopState(s.v.Load())
}

func (s *lifecycle) store(state LoopState) {
	s.v.Store(uint64(state))
}

func (s *lifecycle) tryTransition(from, to LoopState) bool {
	return s.v.CompareAndSwap(uint64(from), uint64(to))
}

func (s *lifecycle) canAcceptWork() bool {
	state := s.load()
	return state == StateAwake || state == StateRunning
}

// gateState is the per-gate scheduling state for [Debounce] and [Throttle].
// At most one timer is pending per gate instance at any time.
type gateState uint8

const (
	gateIdle gateState = iota
	gatePending
)

func (s gateState) String() string {
	switch s {
	case gateIdle:
		return "Idle"
	case gatePending:
		return "Pending"
	default:
		return "Unknown"
	}
}

// coalesceState is the per-coalescer scheduling state for [Coalesce].
type coalesceState uint8

const (
	coalesceIdle coalesceState = iota
	coalesceScheduled
)

func (s coalesceState) String() string {
	switch s {
	case coalesceIdle:
		return "Idle"
	case coalesceScheduled:
		return "Scheduled"
	default:
		return "Unknown"
	}
}

// holdState is the lifecycle state of a [Hold] handle. Destroyed is terminal.
type holdState uint8

const (
	holdActive holdState = iota
	holdDestroyed
)

func (s holdState) String() string {
	switch s {
	case holdActive:
		return "Active"
	case holdDestroyed:
		return "Destroyed"
	default:
		return "Unknown"
	}
}

// pressState is the state machine for a long-press interaction.
//
//	pressArmed → pressLongFired → pressReleased
//	pressArmed → pressReleased
//
// Released is terminal and reachable exactly once.
type pressState uint8

const (
	pressArmed pressState = iota
	pressLongFired
	pressReleased
)

func (s pressState) String() string {
	switch s {
	case pressArmed:
		return "Armed"
	case pressLongFired:
		return "LongFired"
	case pressReleased:
		return "Released"
	default:
		return "Unknown"
	}
}

// attemptState is the settlement state of a single probe attempt.
type attemptState uint8

const (
	attemptPending attemptState = iota
	attemptSettled
)

func (s attemptState) String() string {
	switch s {
	case attemptPending:
		return "Pending"
	case attemptSettled:
		return "Settled"
	default:
		return "Unknown"
	}
}
