package interact

import (
	"sync"
)

// EventListenerFunc is a callback function for [EventTarget.AddEventListener].
// The callback receives the dispatched [Event] and can inspect/modify its state.
type EventListenerFunc func(event *Event)

// ListenerID uniquely identifies an event listener for removal purposes.
// In Go, functions cannot be reliably compared for equality, so we generate
// a unique ID for each registered listener.
type ListenerID uint64

// ListenerOptions configures a listener registration.
type ListenerOptions struct {
	// Once removes the listener after its first dispatch.
	Once bool
	// Passive declares that the listener will not cancel the event's default
	// action; [Event.PreventDefault] is ignored while a passive listener runs.
	Passive bool
}

// listenerEntry pairs a listener with its unique ID for removal.
type listenerEntry struct {
	id       ListenerID
	listener EventListenerFunc
	opts     ListenerOptions
}

// EventTarget provides DOM-style event dispatching.
//
// Thread Safety:
// EventTarget is safe for concurrent use from multiple goroutines. All state
// mutations are protected by an internal mutex. However, for proper
// single-threaded dispatch semantics, it is recommended to use EventTarget
// only from the event loop goroutine (via Submit/callbacks).
//
// Usage:
//
//	target := interact.NewEventTarget()
//
//	// Add a listener
//	id := target.AddEventListener("click", func(e *interact.Event) {
//	    fmt.Println("Clicked!", e.Type)
//	})
//
//	// Dispatch an event
//	target.DispatchEvent(&interact.Event{Type: "click"})
//
//	// Remove the listener
//	target.RemoveEventListenerByID("click", id)
type EventTarget struct {
	listeners      map[string][]listenerEntry // eventType -> listeners
	nextListenerID ListenerID
	mu             sync.RWMutex
}

// Event represents an event dispatched by [EventTarget.DispatchEvent].
//
// Thread Safety:
// Event is NOT safe for concurrent access. An Event should only be used
// from the goroutine that calls DispatchEvent.
type Event struct {
	// Type is the name of the event (e.g., "click", "keyup", "suspend").
	Type string

	// Target is the EventTarget on which the event was dispatched.
	Target *EventTarget

	// Node is the element the event originated on, if the event was
	// dispatched through an [Element].
	Node *Element

	// Key is the key value for keyboard events (e.g., "Escape").
	Key string

	// DefaultPrevented is true if PreventDefault() was called.
	DefaultPrevented bool

	// Cancelable indicates whether the event's default action can be
	// prevented. Default is false.
	Cancelable bool

	// Bubbles indicates whether the event propagates up the element tree
	// when dispatched through an [Element]. Default is false.
	Bubbles bool

	// propagationStopped is true if StopPropagation() was called.
	propagationStopped bool

	// immediatePropagationStopped is true if StopImmediatePropagation was called.
	immediatePropagationStopped bool

	// passiveDispatch is true while a passive listener is running; it makes
	// PreventDefault a no-op for that listener.
	passiveDispatch bool

	// detail holds custom event data (used by CustomEvent).
	detail any
}

// NewEventTarget creates a new EventTarget with an empty listener map.
func NewEventTarget() *EventTarget {
	return &EventTarget{
		listeners:      make(map[string][]listenerEntry),
		nextListenerID: 1,
	}
}

// AddEventListener registers a listener for events of the specified type.
//
// Returns a unique identifier that can be used to remove the listener via
// [EventTarget.RemoveEventListenerByID]. Registering a nil listener is a
// no-op and returns 0.
//
// Thread Safety: Safe to call concurrently.
func (et *EventTarget) AddEventListener(eventType string, listener EventListenerFunc) ListenerID {
	return et.AddEventListenerWithOptions(eventType, listener, ListenerOptions{})
}

// AddEventListenerOnce registers a listener that will be removed after the
// first dispatch. This is equivalent to registering with Once: true.
//
// Thread Safety: Safe to call concurrently.
func (et *EventTarget) AddEventListenerOnce(eventType string, listener EventListenerFunc) ListenerID {
	return et.AddEventListenerWithOptions(eventType, listener, ListenerOptions{Once: true})
}

// AddEventListenerWithOptions registers a listener with explicit options.
//
// Thread Safety: Safe to call concurrently.
func (et *EventTarget) AddEventListenerWithOptions(eventType string, listener EventListenerFunc, opts ListenerOptions) ListenerID {
	if listener == nil {
		return 0
	}

	et.mu.Lock()
	defer et.mu.Unlock()

	id := et.nextListenerID
	et.nextListenerID++

	et.listeners[eventType] = append(et.listeners[eventType], listenerEntry{
		id:       id,
		listener: listener,
		opts:     opts,
	})
	return id
}

// RemoveEventListenerByID removes a listener by its ID.
//
// This is the recommended way to remove listeners in Go since function
// values cannot be reliably compared for equality.
//
// Returns true if a listener was removed, false otherwise. Removing the
// same ID twice is a safe no-op.
//
// Thread Safety: Safe to call concurrently.
func (et *EventTarget) RemoveEventListenerByID(eventType string, id ListenerID) bool {
	et.mu.Lock()
	defer et.mu.Unlock()

	entries, ok := et.listeners[eventType]
	if !ok {
		return false
	}

	for i, entry := range entries {
		if entry.id == id {
			et.listeners[eventType] = append(entries[:i], entries[i+1:]...)
			return true
		}
	}

	return false
}

// DispatchEvent dispatches an event to all registered listeners.
//
// The event's Target is set to this EventTarget before listeners are called.
// Listeners are called in the order they were registered.
//
// Returns true if the event was not canceled (DefaultPrevented is false),
// or if the event is not cancelable.
//
// Thread Safety: Safe to call concurrently, though listeners are called
// synchronously and should not block.
func (et *EventTarget) DispatchEvent(event *Event) bool {
	if event == nil {
		return true
	}

	event.Target = et

	// Copy listeners so the lock is not held during dispatch; listeners may
	// add or remove other listeners.
	et.mu.RLock()
	entries := make([]listenerEntry, len(et.listeners[event.Type]))
	copy(entries, et.listeners[event.Type])
	et.mu.RUnlock()

	var removeIDs []ListenerID

	for _, entry := range entries {
		if event.immediatePropagationStopped {
			break
		}

		event.passiveDispatch = entry.opts.Passive
		entry.listener(event)
		event.passiveDispatch = false

		if entry.opts.Once {
			removeIDs = append(removeIDs, entry.id)
		}
	}

	for _, id := range removeIDs {
		et.RemoveEventListenerByID(event.Type, id)
	}

	return !event.Cancelable || !event.DefaultPrevented
}

// HasEventListeners returns true if there are any listeners for the event type.
//
// Thread Safety: Safe to call concurrently.
func (et *EventTarget) HasEventListeners(eventType string) bool {
	et.mu.RLock()
	defer et.mu.RUnlock()
	return len(et.listeners[eventType]) > 0
}

// ListenerCount returns the number of listeners for the event type.
//
// Thread Safety: Safe to call concurrently.
func (et *EventTarget) ListenerCount(eventType string) int {
	et.mu.RLock()
	defer et.mu.RUnlock()
	return len(et.listeners[eventType])
}

// RemoveAllEventListeners removes all listeners for the specified event type.
// If eventType is empty, removes all listeners for all event types.
//
// Thread Safety: Safe to call concurrently.
func (et *EventTarget) RemoveAllEventListeners(eventType string) {
	et.mu.Lock()
	defer et.mu.Unlock()

	if eventType == "" {
		et.listeners = make(map[string][]listenerEntry)
	} else {
		delete(et.listeners, eventType)
	}
}

// PreventDefault marks the event as having its default action canceled.
//
// This only has effect if the event's Cancelable property is true, and is
// ignored while a passive listener is running.
func (e *Event) PreventDefault() {
	if e.Cancelable && !e.passiveDispatch {
		e.DefaultPrevented = true
	}
}

// StopPropagation prevents the event from bubbling to ancestor elements.
// Remaining listeners on the current target still run.
func (e *Event) StopPropagation() {
	e.propagationStopped = true
}

// IsPropagationStopped returns true if StopPropagation or
// StopImmediatePropagation was called.
func (e *Event) IsPropagationStopped() bool {
	return e.propagationStopped
}

// StopImmediatePropagation prevents any further listeners from being called
// for the current dispatch, on this and any ancestor target.
func (e *Event) StopImmediatePropagation() {
	e.propagationStopped = true
	e.immediatePropagationStopped = true
}

// IsImmediatePropagationStopped returns true if StopImmediatePropagation was called.
func (e *Event) IsImmediatePropagationStopped() bool {
	return e.immediatePropagationStopped
}

// Detail returns the custom detail data associated with the event.
func (e *Event) Detail() any {
	return e.detail
}

// NewEvent creates a new Event with the specified type.
func NewEvent(eventType string) *Event {
	return &Event{
		Type: eventType,
	}
}

// NewCustomEvent creates a new Event carrying custom detail data,
// accessible via [Event.Detail].
func NewCustomEvent(eventType string, detail any) *Event {
	return &Event{
		Type:   eventType,
		detail: detail,
	}
}
