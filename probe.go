// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package interact

import (
	"fmt"
	"sync"
	"time"

	"github.com/joeycumines/logiface"
)

const (
	// DefaultProbeElementID is the fixed identifier of the singleton probe
	// resource within its document.
	DefaultProbeElementID = "interact-lowpower-probe"

	// DefaultProbeTimeout is how long the probe waits, after the first
	// suspend signal, for the resource's metadata before settling as timed
	// out.
	DefaultProbeTimeout = 500 * time.Millisecond
)

// probeSource is a minimal valid inline media payload. Hosts that cannot
// decode it surface a load error, which the probe folds into the restricted
// result like every other failure.
const probeSource = "data:video/mp4;base64,AAAAIGZ0eXBpc29tAAACAGlzb21pc28yYXZjMW1wNDE="

// probeStyle is the fixed sizing and positioning applied to the probe
// element. Zero-size or hidden elements are not guaranteed to play on all
// hosts, so the element is kept small but visible.
var probeStyle = map[string]string{
	"position": "fixed",
	"right":    "0",
	"bottom":   "0",
	"width":    "2px",
	"height":   "2px",
}

// RaceOutcome is the discriminated result of a probe attempt: the first of
// the competing asynchronous signals (metadata, timeout, load error,
// playback settlement) to settle determines it.
type RaceOutcome uint8

const (
	// OutcomeResolved means metadata loaded in time and playback was
	// permitted. It is the only outcome that is not restricted.
	OutcomeResolved RaceOutcome = iota
	// OutcomeTimedOut means metadata did not arrive within the probe
	// timeout after the first suspend signal.
	OutcomeTimedOut
	// OutcomeLoadError means the resource failed to load.
	OutcomeLoadError
	// OutcomePlaybackDenied means the resource loaded but the host refused
	// playback.
	OutcomePlaybackDenied
)

// String returns a human-readable representation of the outcome.
func (o RaceOutcome) String() string {
	switch o {
	case OutcomeResolved:
		return "Resolved"
	case OutcomeTimedOut:
		return "TimedOut"
	case OutcomeLoadError:
		return "LoadError"
	case OutcomePlaybackDenied:
		return "PlaybackDenied"
	default:
		return "Unknown"
	}
}

// Restricted reports whether the outcome maps to the restricted result.
// Every non-success outcome does; the probe has no partial or unknown
// result.
func (o RaceOutcome) Restricted() bool {
	return o != OutcomeResolved
}

// probeOptions holds configuration options for Probe creation.
type probeOptions struct {
	logger    *logiface.Logger[logiface.Event]
	timeout   time.Duration
	elementID string
}

// ProbeOption configures a Probe instance.
type ProbeOption interface {
	applyProbe(*probeOptions) error
}

type probeOptionImpl struct {
	applyProbeFunc func(*probeOptions) error
}

func (p *probeOptionImpl) applyProbe(opts *probeOptions) error {
	return p.applyProbeFunc(opts)
}

// WithProbeTimeout sets how long the probe waits for metadata after the
// first suspend signal. The default is [DefaultProbeTimeout].
func WithProbeTimeout(d time.Duration) ProbeOption {
	return &probeOptionImpl{func(opts *probeOptions) error {
		if d <= 0 {
			return fmt.Errorf("interact: probe timeout must be positive, got %v", d)
		}
		opts.timeout = d
		return nil
	}}
}

// WithProbeElementID overrides the fixed identifier of the probe resource.
func WithProbeElementID(id string) ProbeOption {
	return &probeOptionImpl{func(opts *probeOptions) error {
		if id == "" {
			return fmt.Errorf("interact: probe element id must not be empty")
		}
		opts.elementID = id
		return nil
	}}
}

// WithProbeLogger attaches a structured logger to the probe. Attempt
// lifecycle transitions are logged at debug level.
func WithProbeLogger(logger *logiface.Logger[logiface.Event]) ProbeOption {
	return &probeOptionImpl{func(opts *probeOptions) error {
		opts.logger = logger
		return nil
	}}
}

// Probe detects a restricted execution mode, observed as the host's refusal
// to autoplay inline muted video, by racing media lifecycle signals against
// a timeout.
//
// The probe resource is an explicit handle: one media element per Probe,
// looked up (or created) by its fixed identifier on first use, attached to
// the document, and reused by every subsequent attempt. It is never torn
// down.
//
// Concurrent invocations are coalesced onto one outstanding attempt; every
// caller receives that attempt's result. The probe is total: every branch
// converges through a single fold that maps every non-success outcome to
// restricted=true, and the public entry points never panic.
type Probe struct {
	loop      *Loop
	doc       *Document
	logger    *logiface.Logger[logiface.Event]
	timeout   time.Duration
	elementID string

	mu      sync.Mutex
	el      *MediaElement
	running bool
	waiters []func(restricted bool, outcome RaceOutcome)
}

// NewProbe creates a Probe bound to a loop and a document.
func NewProbe(loop *Loop, doc *Document, opts ...ProbeOption) (*Probe, error) {
	if loop == nil {
		return nil, ErrNilScheduler
	}
	if doc == nil {
		return nil, ErrNilTarget
	}
	cfg := &probeOptions{
		timeout:   DefaultProbeTimeout,
		elementID: DefaultProbeElementID,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt.applyProbe(cfg); err != nil {
			return nil, err
		}
	}
	return &Probe{
		loop:      loop,
		doc:       doc,
		logger:    cfg.logger,
		timeout:   cfg.timeout,
		elementID: cfg.elementID,
	}, nil
}

// LowPower runs the detection protocol and reports the result through cb:
// true when the host is in a restricted (low-power) mode, false otherwise.
//
// Must be called from the loop goroutine. A nil cb still runs the protocol,
// warming the singleton resource.
func (p *Probe) LowPower(cb func(restricted bool)) {
	p.LowPowerOutcome(func(restricted bool, _ RaceOutcome) {
		if cb != nil {
			cb(restricted)
		}
	})
}

// LowPowerOutcome is [Probe.LowPower] with the discriminated race outcome
// exposed for diagnostics. The boolean result is authoritative; the outcome
// explains it.
func (p *Probe) LowPowerOutcome(cb func(restricted bool, outcome RaceOutcome)) {
	p.mu.Lock()
	if cb != nil {
		p.waiters = append(p.waiters, cb)
	}
	if p.running {
		// Coalesce onto the outstanding attempt.
		p.mu.Unlock()
		return
	}
	p.running = true
	p.mu.Unlock()

	p.begin()
}

// probeAttempt is a single run of the detection protocol. Settlement is
// guarded by an explicit state so that whichever competing signal arrives
// first produces the one and only transition.
type probeAttempt struct {
	probe      *Probe
	el         *MediaElement
	dispose    Disposer
	timer      TimerID
	timerArmed bool
	state      attemptState
}

// begin starts an attempt against the singleton resource.
//
// Subscriptions are attached before the load begins so drivers that report
// synchronously cannot slip a signal past the race.
func (p *Probe) begin() {
	el := p.resource()
	attempt := &probeAttempt{probe: p, el: el}

	suspend, _ := Listen(&el.Element, EventSuspend, attempt.onSuspend, Once())
	metadata, _ := Listen(&el.Element, EventLoadedMetadata, attempt.onMetadata)
	loadErr, _ := Listen(&el.Element, EventMediaError, attempt.onLoadError)
	attempt.dispose = CombineDisposers(suspend, metadata, loadErr)

	p.logger.Debug().
		Str("element_id", p.elementID).
		Log("interact: probe attempt started")

	el.Load()
}

// resource returns the singleton probe element, creating and attaching it on
// first use. Lookup is keyed by the fixed identifier, so a pre-existing
// element under that id is adopted rather than duplicated.
func (p *Probe) resource() *MediaElement {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.el != nil {
		return p.el
	}
	if existing := p.doc.ElementByID(p.elementID); existing != nil {
		if m := existing.Media(); m != nil {
			p.el = m
			return m
		}
	}
	m := p.doc.CreateMedia("video")
	m.SetMuted(true)
	m.SetLooping(true)
	m.SetPlaysInline(true)
	m.SetSource(probeSource)
	for property, value := range probeStyle {
		m.SetStyle(property, value)
	}
	m.SetID(p.elementID)
	p.doc.Root().AppendChild(&m.Element)
	p.el = m
	return m
}

// onSuspend arms the timeout: buffering has stalled, so metadata either
// arrives within the window or the attempt settles as timed out.
func (a *probeAttempt) onSuspend(*Event) {
	if a.state == attemptSettled {
		return
	}
	timer, err := a.probe.loop.ScheduleTimer(a.probe.timeout, a.onTimeout)
	if err != nil {
		// No loop to wait on; settle conservatively.
		a.settle(OutcomeTimedOut, err)
		return
	}
	a.timer = timer
	a.timerArmed = true
}

func (a *probeAttempt) onTimeout() {
	a.timerArmed = false
	a.settle(OutcomeTimedOut, nil)
}

// onMetadata wins the race for the load: cancel the timeout, stop
// listening, and move on to the playback attempt.
func (a *probeAttempt) onMetadata(*Event) {
	if a.state == attemptSettled {
		return
	}
	a.state = attemptSettled
	a.disarm()

	a.probe.logger.Debug().Log("interact: probe resource resolved, attempting playback")

	a.el.Play().Then(func(_ any, err error) {
		if err != nil {
			a.probe.finish(OutcomePlaybackDenied, err)
			return
		}
		a.probe.finish(OutcomeResolved, nil)
	})
}

func (a *probeAttempt) onLoadError(event *Event) {
	cause, _ := event.Detail().(error)
	a.settle(OutcomeLoadError, cause)
}

// settle is the terminal transition for every non-playback branch.
func (a *probeAttempt) settle(outcome RaceOutcome, cause error) {
	if a.state == attemptSettled {
		return
	}
	a.state = attemptSettled
	a.disarm()
	a.probe.finish(outcome, cause)
}

// disarm cancels the pending timeout, if armed, and detaches every
// subscription of this attempt.
func (a *probeAttempt) disarm() {
	if a.timerArmed {
		a.timerArmed = false
		_ = a.probe.loop.CancelTimer(a.timer)
	}
	a.dispose()
}

// finish is the single outer fold: every outcome maps to a boolean result,
// every non-success outcome to true, and every coalesced waiter observes it.
func (p *Probe) finish(outcome RaceOutcome, cause error) {
	restricted := outcome.Restricted()

	b := p.logger.Debug().
		Stringer("outcome", outcome).
		Bool("restricted", restricted)
	if cause != nil {
		b = b.Err(&ProbeError{Cause: cause, Outcome: outcome})
	}
	b.Log("interact: probe settled")

	p.mu.Lock()
	waiters := p.waiters
	p.waiters = nil
	p.running = false
	p.mu.Unlock()

	for _, cb := range waiters {
		cb(restricted, outcome)
	}
}
