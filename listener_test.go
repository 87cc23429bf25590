package interact

import (
	"errors"
	"testing"
)

func TestListen_Preconditions(t *testing.T) {
	doc := NewDocument()
	el := doc.CreateElement("div")

	if _, err := Listen(nil, EventClick, func(*Event) {}); !errors.Is(err, ErrNilTarget) {
		t.Errorf("nil target: got %v, want ErrNilTarget", err)
	}
	if _, err := Listen(el, EventClick, nil); !errors.Is(err, ErrNilHandler) {
		t.Errorf("nil handler: got %v, want ErrNilHandler", err)
	}
}

func TestListen_DisposerIdempotent(t *testing.T) {
	doc := NewDocument()
	el := doc.CreateElement("div")

	calls := 0
	dispose, err := Listen(el, EventClick, func(*Event) { calls++ })
	if err != nil {
		t.Fatalf("Listen failed: %v", err)
	}

	el.DispatchEvent(&Event{Type: EventClick})
	if calls != 1 {
		t.Fatalf("expected 1 call, got %d", calls)
	}

	dispose()
	dispose() // second invocation is a no-op
	el.DispatchEvent(&Event{Type: EventClick})
	if calls != 1 {
		t.Errorf("disposed listener still called, calls=%d", calls)
	}
}

func TestListen_Once(t *testing.T) {
	doc := NewDocument()
	el := doc.CreateElement("video")

	calls := 0
	dispose, err := Listen(el, EventSuspend, func(*Event) { calls++ }, Once())
	if err != nil {
		t.Fatalf("Listen failed: %v", err)
	}

	el.DispatchEvent(&Event{Type: EventSuspend})
	el.DispatchEvent(&Event{Type: EventSuspend})
	if calls != 1 {
		t.Errorf("once listener called %d times, want 1", calls)
	}

	// Disposing after auto-removal is a safe no-op.
	dispose()
}

func TestListen_Passive(t *testing.T) {
	doc := NewDocument()
	el := doc.CreateElement("div")

	_, err := Listen(el, EventTouchEnd, func(e *Event) { e.PreventDefault() }, Passive())
	if err != nil {
		t.Fatalf("Listen failed: %v", err)
	}

	event := &Event{Type: EventTouchEnd, Cancelable: true}
	el.DispatchEvent(event)
	if event.DefaultPrevented {
		t.Error("passive handler must not prevent default")
	}
}

func TestCombineDisposers(t *testing.T) {
	doc := NewDocument()
	el := doc.CreateElement("div")

	var a, b int
	da, _ := Listen(el, EventClick, func(*Event) { a++ })
	db, _ := Listen(el, EventResize, func(*Event) { b++ })

	combined := CombineDisposers(db, nil, da) // order-independent, nils skipped
	combined()
	combined()

	el.DispatchEvent(&Event{Type: EventClick})
	el.DispatchEvent(&Event{Type: EventResize})
	if a != 0 || b != 0 {
		t.Errorf("combined disposer did not detach everything: a=%d b=%d", a, b)
	}
}

func TestOnEscape(t *testing.T) {
	doc := NewDocument()

	calls := 0
	dispose, err := OnEscape(doc, func() { calls++ })
	if err != nil {
		t.Fatalf("OnEscape failed: %v", err)
	}

	doc.Root().DispatchEvent(&Event{Type: EventKeyUp, Key: "Enter"})
	if calls != 0 {
		t.Error("non-escape key should be ignored")
	}

	doc.Root().DispatchEvent(&Event{Type: EventKeyUp, Key: KeyEscape})
	if calls != 1 {
		t.Errorf("escape release should fire exactly once, got %d", calls)
	}

	dispose()
	doc.Root().DispatchEvent(&Event{Type: EventKeyUp, Key: KeyEscape})
	if calls != 1 {
		t.Error("disposed escape subscription still fired")
	}
}

func TestOnEscape_Preconditions(t *testing.T) {
	if _, err := OnEscape(nil, func() {}); !errors.Is(err, ErrNilTarget) {
		t.Errorf("nil doc: got %v, want ErrNilTarget", err)
	}
	if _, err := OnEscape(NewDocument(), nil); !errors.Is(err, ErrNilHandler) {
		t.Errorf("nil handler: got %v, want ErrNilHandler", err)
	}
}

func TestClickOutside(t *testing.T) {
	doc := NewDocument()
	panel := doc.CreateElement("div")
	inner := doc.CreateElement("span")
	outside := doc.CreateElement("div")
	doc.Root().AppendChild(panel)
	doc.Root().AppendChild(outside)
	panel.AppendChild(inner)

	calls := 0
	dispose, err := ClickOutside(doc, panel, func() { calls++ }, nil)
	if err != nil {
		t.Fatalf("ClickOutside failed: %v", err)
	}

	// Click on the element itself: never fires.
	panel.DispatchEvent(&Event{Type: EventClick, Bubbles: true})
	if calls != 0 {
		t.Error("click on the element itself fired onOutside")
	}

	// Click on a descendant: never fires.
	inner.DispatchEvent(&Event{Type: EventClick, Bubbles: true})
	if calls != 0 {
		t.Error("click on a descendant fired onOutside")
	}

	// Click elsewhere: exactly once.
	outside.DispatchEvent(&Event{Type: EventClick, Bubbles: true})
	if calls != 1 {
		t.Errorf("outside click should fire exactly once, got %d", calls)
	}

	// Escape: unconditionally, exactly once.
	doc.Root().DispatchEvent(&Event{Type: EventKeyUp, Key: KeyEscape})
	if calls != 2 {
		t.Errorf("escape should fire exactly once, got %d total", calls)
	}

	// After disposal no event fires it.
	dispose()
	outside.DispatchEvent(&Event{Type: EventClick, Bubbles: true})
	doc.Root().DispatchEvent(&Event{Type: EventKeyUp, Key: KeyEscape})
	if calls != 2 {
		t.Errorf("disposed ClickOutside still fired, got %d", calls)
	}
}

func TestClickOutside_NoOriginatingNode(t *testing.T) {
	doc := NewDocument()
	panel := doc.CreateElement("div")
	doc.Root().AppendChild(panel)

	calls := 0
	if _, err := ClickOutside(doc, panel, func() { calls++ }, nil); err != nil {
		t.Fatalf("ClickOutside failed: %v", err)
	}

	// Dispatch directly on the root's EventTarget so no node is recorded.
	doc.Root().EventTarget.DispatchEvent(&Event{Type: EventClick})
	if calls != 0 {
		t.Error("click without an originating node fired onOutside")
	}
}

func TestClickOutside_Validator(t *testing.T) {
	doc := NewDocument()
	panel := doc.CreateElement("div")
	doc.Root().AppendChild(panel)

	calls := 0
	var sawEl *Element
	_, err := ClickOutside(doc, panel, func() { calls++ }, func(el *Element, event *Event) bool {
		sawEl = el
		return event.Key == "magic"
	})
	if err != nil {
		t.Fatalf("ClickOutside failed: %v", err)
	}

	// Validator replaces the containment check entirely: even a click on the
	// element fires when the validator approves.
	panel.DispatchEvent(&Event{Type: EventClick, Bubbles: true, Key: "magic"})
	if calls != 1 {
		t.Errorf("validator-approved click should fire, got %d", calls)
	}
	if sawEl != panel {
		t.Error("validator should receive the guarded element")
	}

	panel.Parent().DispatchEvent(&Event{Type: EventClick, Bubbles: true})
	if calls != 1 {
		t.Errorf("validator-rejected click should not fire, got %d", calls)
	}
}

func TestClickOutside_Preconditions(t *testing.T) {
	doc := NewDocument()
	el := doc.CreateElement("div")
	if _, err := ClickOutside(nil, el, func() {}, nil); !errors.Is(err, ErrNilTarget) {
		t.Errorf("nil doc: got %v, want ErrNilTarget", err)
	}
	if _, err := ClickOutside(doc, nil, func() {}, nil); !errors.Is(err, ErrNilTarget) {
		t.Errorf("nil element: got %v, want ErrNilTarget", err)
	}
	if _, err := ClickOutside(doc, el, nil, nil); !errors.Is(err, ErrNilHandler) {
		t.Errorf("nil handler: got %v, want ErrNilHandler", err)
	}
}
