package interact

import (
	"sync"
)

// Media lifecycle event names, dispatched on a [MediaElement] by its driver.
const (
	// EventSuspend fires once resource buffering stalls. Virtually all hosts
	// deliver it during a load, restricted or not.
	EventSuspend = "suspend"
	// EventLoadedMetadata fires when the resource's metadata is available.
	EventLoadedMetadata = "loadedmetadata"
	// EventMediaError fires when the resource fails to load. The event's
	// Detail carries the cause, where the driver supplies one.
	EventMediaError = "error"
)

// MediaDriver supplies host media behavior for media elements: loading the
// resource and starting playback.
//
// Load must eventually dispatch [EventSuspend], [EventLoadedMetadata], or
// [EventMediaError] on the element, from the loop goroutine. Dispatching
// synchronously from within Load is permitted; consumers subscribe before
// they begin a load.
//
// Play returns a [Completion] that resolves when playback starts and rejects
// when the host denies playback.
type MediaDriver interface {
	Load(m *MediaElement)
	Play(m *MediaElement) *Completion
}

// MediaElement is a playable media resource attached to the element tree.
//
// The element itself only records intent (muted, looping, inline playback,
// source); actual loading and playback are delegated to the document's
// [MediaDriver]. Without a driver, Load fails immediately with an
// [EventMediaError] dispatch and Play rejects, so consumers settle
// conservatively instead of hanging.
type MediaElement struct {
	Element

	driver MediaDriver

	attrMu  sync.RWMutex
	muted   bool
	looping bool
	inline  bool
	src     string
}

// SetMuted sets whether the media plays without audio.
func (m *MediaElement) SetMuted(v bool) {
	m.attrMu.Lock()
	defer m.attrMu.Unlock()
	m.muted = v
}

// Muted reports whether the media plays without audio.
func (m *MediaElement) Muted() bool {
	m.attrMu.RLock()
	defer m.attrMu.RUnlock()
	return m.muted
}

// SetLooping sets whether playback restarts when the resource ends.
func (m *MediaElement) SetLooping(v bool) {
	m.attrMu.Lock()
	defer m.attrMu.Unlock()
	m.looping = v
}

// Looping reports whether playback restarts when the resource ends.
func (m *MediaElement) Looping() bool {
	m.attrMu.RLock()
	defer m.attrMu.RUnlock()
	return m.looping
}

// SetPlaysInline sets whether the media may play inline rather than
// fullscreen.
func (m *MediaElement) SetPlaysInline(v bool) {
	m.attrMu.Lock()
	defer m.attrMu.Unlock()
	m.inline = v
}

// PlaysInline reports whether the media may play inline.
func (m *MediaElement) PlaysInline() bool {
	m.attrMu.RLock()
	defer m.attrMu.RUnlock()
	return m.inline
}

// SetSource sets the media resource payload (typically a data URI).
func (m *MediaElement) SetSource(src string) {
	m.attrMu.Lock()
	defer m.attrMu.Unlock()
	m.src = src
}

// Source returns the media resource payload.
func (m *MediaElement) Source() string {
	m.attrMu.RLock()
	defer m.attrMu.RUnlock()
	return m.src
}

// Load begins loading the resource via the driver. Progress is reported
// through [EventSuspend], [EventLoadedMetadata], and [EventMediaError]
// events dispatched on the element.
func (m *MediaElement) Load() {
	if m.driver == nil {
		m.DispatchEvent(NewCustomEvent(EventMediaError, ErrMediaUnsupported))
		return
	}
	m.driver.Load(m)
}

// Play attempts to begin playback, returning a [Completion] that rejects if
// the host denies it.
func (m *MediaElement) Play() *Completion {
	if m.driver == nil {
		c := NewCompletion(nil)
		c.Reject(ErrMediaUnsupported)
		return c
	}
	return m.driver.Play(m)
}
