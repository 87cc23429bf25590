package interact

import (
	"sync"
)

// Element is a node in the document tree.
//
// Element embeds [EventTarget] for listener registration and dispatch, and
// adds parent/child containment, an id, inline style properties, and the set
// of event kinds the host can deliver on it.
//
// Thread Safety: tree mutations and attribute access are guarded by an
// internal mutex, matching [EventTarget]. Dispatch should nonetheless happen
// on the loop goroutine.
type Element struct {
	EventTarget

	doc   *Document
	media *MediaElement // set when this element is the tree node of a MediaElement

	treeMu    sync.RWMutex
	tag       string
	id        string
	parent    *Element
	children  []*Element
	style     map[string]string
	supported map[string]bool // nil means every event kind is supported
}

func newElement(doc *Document, tag string) *Element {
	e := &Element{}
	initElement(e, doc, tag)
	return e
}

// initElement initialises an element in place so embedding types never copy
// the EventTarget's mutex.
func initElement(e *Element, doc *Document, tag string) {
	e.EventTarget.listeners = make(map[string][]listenerEntry)
	e.EventTarget.nextListenerID = 1
	e.doc = doc
	e.tag = tag
	e.style = make(map[string]string)
}

// Tag returns the element's tag name.
func (e *Element) Tag() string {
	return e.tag
}

// ID returns the element's id, or "" if none is set.
func (e *Element) ID() string {
	e.treeMu.RLock()
	defer e.treeMu.RUnlock()
	return e.id
}

// SetID assigns the element's id and registers it with the owning document's
// index, replacing any previous registration for this element.
func (e *Element) SetID(id string) {
	e.treeMu.Lock()
	old := e.id
	e.id = id
	e.treeMu.Unlock()
	if e.doc != nil {
		e.doc.reindex(e, old, id)
	}
}

// Document returns the document this element belongs to.
func (e *Element) Document() *Document {
	return e.doc
}

// Parent returns the element's parent, or nil if detached.
func (e *Element) Parent() *Element {
	e.treeMu.RLock()
	defer e.treeMu.RUnlock()
	return e.parent
}

// AppendChild attaches child as the last child of e, detaching it from any
// previous parent first. Appending nil or the element itself is a no-op.
func (e *Element) AppendChild(child *Element) {
	if child == nil || child == e {
		return
	}
	if p := child.Parent(); p != nil {
		p.RemoveChild(child)
	}
	e.treeMu.Lock()
	e.children = append(e.children, child)
	e.treeMu.Unlock()
	child.treeMu.Lock()
	child.parent = e
	child.treeMu.Unlock()
}

// RemoveChild detaches child from e. Returns true if child was a child of e.
func (e *Element) RemoveChild(child *Element) bool {
	if child == nil {
		return false
	}
	e.treeMu.Lock()
	found := false
	for i, c := range e.children {
		if c == child {
			e.children = append(e.children[:i], e.children[i+1:]...)
			found = true
			break
		}
	}
	e.treeMu.Unlock()
	if found {
		child.treeMu.Lock()
		child.parent = nil
		child.treeMu.Unlock()
	}
	return found
}

// Contains reports whether other is e itself or a descendant of e,
// following DOM Node.contains semantics.
func (e *Element) Contains(other *Element) bool {
	for n := other; n != nil; n = n.Parent() {
		if n == e {
			return true
		}
	}
	return false
}

// SetStyle sets an inline style property.
func (e *Element) SetStyle(property, value string) {
	e.treeMu.Lock()
	defer e.treeMu.Unlock()
	e.style[property] = value
}

// Style returns the value of an inline style property, or "" if unset.
func (e *Element) Style(property string) string {
	e.treeMu.RLock()
	defer e.treeMu.RUnlock()
	return e.style[property]
}

// SetSupportedEvents restricts the event kinds the host can deliver on this
// element. By default (no restriction) every kind is supported. Consumers
// such as [LongPress] skip subscriptions for unsupported kinds.
func (e *Element) SetSupportedEvents(kinds ...string) {
	supported := make(map[string]bool, len(kinds))
	for _, k := range kinds {
		supported[k] = true
	}
	e.treeMu.Lock()
	defer e.treeMu.Unlock()
	e.supported = supported
}

// SupportsEvent reports whether the host can deliver the given event kind on
// this element.
func (e *Element) SupportsEvent(kind string) bool {
	e.treeMu.RLock()
	defer e.treeMu.RUnlock()
	return e.supported == nil || e.supported[kind]
}

// Media returns the media resource this element represents, or nil if the
// element is not a media element.
func (e *Element) Media() *MediaElement {
	return e.media
}

// DispatchEvent dispatches an event on this element, recording it as the
// event's originating node, then bubbles it up the parent chain when the
// event's Bubbles flag is set. See [EventTarget.DispatchEvent].
func (e *Element) DispatchEvent(event *Event) bool {
	if event == nil {
		return true
	}
	if event.Node == nil {
		event.Node = e
	}
	e.EventTarget.DispatchEvent(event)
	if event.Bubbles {
		for p := e.Parent(); p != nil && !event.IsPropagationStopped(); p = p.Parent() {
			p.EventTarget.DispatchEvent(event)
		}
	}
	return !event.Cancelable || !event.DefaultPrevented
}

// Document is the root of an element tree. It owns the id index and the
// media driver used by media elements created through it.
type Document struct {
	mu     sync.RWMutex
	root   *Element
	byID   map[string]*Element
	driver MediaDriver
}

// DocumentOption configures a Document instance.
type DocumentOption interface {
	applyDocument(*Document)
}

type documentOptionImpl struct {
	applyDocumentFunc func(*Document)
}

func (d *documentOptionImpl) applyDocument(doc *Document) {
	d.applyDocumentFunc(doc)
}

// WithMediaDriver sets the driver backing media elements created via
// [Document.CreateMedia]. Without a driver, loading a media element fails
// immediately with an "error" event and playback is denied.
func WithMediaDriver(driver MediaDriver) DocumentOption {
	return &documentOptionImpl{func(doc *Document) {
		doc.driver = driver
	}}
}

// NewDocument creates a Document with an empty root element.
func NewDocument(opts ...DocumentOption) *Document {
	doc := &Document{
		byID: make(map[string]*Element),
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt.applyDocument(doc)
	}
	doc.root = newElement(doc, "document")
	return doc
}

// Root returns the document's root element. Document-level subscriptions
// (clicks, key releases) attach here.
func (d *Document) Root() *Element {
	return d.root
}

// CreateElement creates a detached element owned by this document.
func (d *Document) CreateElement(tag string) *Element {
	return newElement(d, tag)
}

// CreateMedia creates a detached media element owned by this document,
// backed by the document's media driver.
func (d *Document) CreateMedia(tag string) *MediaElement {
	m := &MediaElement{driver: d.driver}
	initElement(&m.Element, d, tag)
	m.Element.media = m
	return m
}

// ElementByID returns the element registered under id, or nil.
func (d *Document) ElementByID(id string) *Element {
	if id == "" {
		return nil
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.byID[id]
}

func (d *Document) reindex(e *Element, old, id string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if old != "" && d.byID[old] == e {
		delete(d.byID, old)
	}
	if id != "" {
		d.byID[id] = e
	}
}
