package interact

import (
	"sync/atomic"
)

// Interaction event names delivered by the host runtime.
const (
	EventClick             = "click"
	EventKeyUp             = "keyup"
	EventTouchEnd          = "touchend"
	EventTouchCancel       = "touchcancel"
	EventMouseUp           = "mouseup"
	EventResize            = "resize"
	EventOrientationChange = "orientationchange"
)

// KeyEscape is the key value delivered for the Escape key.
const KeyEscape = "Escape"

// Disposer reverses a registration. It is idempotent: invoking it more than
// once has the same effect as invoking it once, and never errors.
type Disposer func()

// CombineDisposers composes several disposers into one that invokes all of
// them. The combined disposer is order-independent and, like its parts, safe
// to invoke more than once. Nil entries are skipped.
func CombineDisposers(disposers ...Disposer) Disposer {
	return func() {
		for _, d := range disposers {
			if d != nil {
				d()
			}
		}
	}
}

// ListenOption configures a [Listen] registration.
type ListenOption interface {
	applyListen(*ListenerOptions)
}

type listenOptionImpl struct {
	applyListenFunc func(*ListenerOptions)
}

func (l *listenOptionImpl) applyListen(opts *ListenerOptions) {
	l.applyListenFunc(opts)
}

// Once removes the subscription after its first delivery.
func Once() ListenOption {
	return &listenOptionImpl{func(opts *ListenerOptions) {
		opts.Once = true
	}}
}

// Passive declares the handler will not cancel the event's default action.
func Passive() ListenOption {
	return &listenOptionImpl{func(opts *ListenerOptions) {
		opts.Passive = true
	}}
}

// Listen attaches handler to target for the named event and returns a
// disposer that detaches it.
//
// A nil target fails fast with [ErrNilTarget] and a nil handler with
// [ErrNilHandler]; registrations are never silently dropped.
func Listen(target *Element, eventName string, handler EventListenerFunc, opts ...ListenOption) (Disposer, error) {
	if target == nil {
		return nil, ErrNilTarget
	}
	if handler == nil {
		return nil, ErrNilHandler
	}
	var o ListenerOptions
	for _, opt := range opts {
		if opt != nil {
			opt.applyListen(&o)
		}
	}
	id := target.AddEventListenerWithOptions(eventName, handler, o)
	var disposed atomic.Bool
	return func() {
		if !disposed.CompareAndSwap(false, true) {
			return
		}
		target.RemoveEventListenerByID(eventName, id)
	}, nil
}

// OnEscape subscribes to the document's key-release stream, invoking
// onEscape each time the Escape key is released. Other keys are ignored.
func OnEscape(doc *Document, onEscape func()) (Disposer, error) {
	if doc == nil {
		return nil, ErrNilTarget
	}
	if onEscape == nil {
		return nil, ErrNilHandler
	}
	return Listen(doc.Root(), EventKeyUp, func(event *Event) {
		if event.Key == KeyEscape {
			onEscape()
		}
	})
}

// ClickOutside invokes onOutside when a document-level click lands outside
// el, or when Escape is released.
//
// When validator is supplied it replaces the containment check entirely:
// onOutside fires iff validator(el, event) returns true. Otherwise onOutside
// fires iff the click event carries an originating node, that node is not el
// itself, and el does not contain it. Escape fires onOutside
// unconditionally.
//
// The returned disposer detaches both subscriptions.
func ClickOutside(doc *Document, el *Element, onOutside func(), validator func(el *Element, event *Event) bool) (Disposer, error) {
	if doc == nil || el == nil {
		return nil, ErrNilTarget
	}
	if onOutside == nil {
		return nil, ErrNilHandler
	}

	clicks, err := Listen(doc.Root(), EventClick, func(event *Event) {
		if validator != nil {
			if validator(el, event) {
				onOutside()
			}
			return
		}
		if event.Node == nil || event.Node == el || el.Contains(event.Node) {
			return
		}
		onOutside()
	})
	if err != nil {
		return nil, err
	}

	escape, err := OnEscape(doc, onOutside)
	if err != nil {
		clicks()
		return nil, err
	}

	return CombineDisposers(clicks, escape), nil
}
