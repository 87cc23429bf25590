package interact

import (
	"errors"
	"fmt"
)

// Standard errors.
var (
	// ErrLoopAlreadyRunning is returned when Run() is called on a loop that is already running.
	ErrLoopAlreadyRunning = errors.New("interact: loop is already running")

	// ErrLoopTerminated is returned when operations are attempted on a terminated loop.
	ErrLoopTerminated = errors.New("interact: loop has been terminated")

	// ErrLoopOverloaded is returned when the external task queue is full.
	ErrLoopOverloaded = errors.New("interact: loop is overloaded")

	// ErrTimerNotFound is returned when cancelling a timer that does not exist
	// or has already fired.
	ErrTimerNotFound = errors.New("interact: timer not found")

	// ErrNilTarget is returned when a registration is attempted against a nil
	// target (element, document, or event).
	ErrNilTarget = errors.New("interact: nil target")

	// ErrNilHandler is returned when a registration is attempted with a nil
	// handler function.
	ErrNilHandler = errors.New("interact: nil handler")

	// ErrNilScheduler is returned when a gate or gesture is constructed
	// without a timer scheduler.
	ErrNilScheduler = errors.New("interact: nil scheduler")

	// ErrMediaUnsupported is reported when a media element has no driver to
	// load or play it.
	ErrMediaUnsupported = errors.New("interact: media not supported by host")
)

// ProbeError describes a failed capability probe attempt, carrying the
// discriminated outcome and, where available, the underlying cause.
//
// ProbeError is diagnostic only; the probe itself never returns it to the
// caller as an error. See [Probe.LowPowerOutcome].
type ProbeError struct {
	Cause   error
	Outcome RaceOutcome
}

// Error implements the error interface.
func (e *ProbeError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("interact: probe %s: %v", e.Outcome, e.Cause)
	}
	return fmt.Sprintf("interact: probe %s", e.Outcome)
}

// Unwrap returns the underlying cause for use with [errors.Is] and [errors.As].
func (e *ProbeError) Unwrap() error {
	return e.Cause
}
