package interact

import (
	"context"
	"testing"
	"time"
)

// startLoop runs a loop for the duration of the test, shutting it down in
// cleanup.
func startLoop(t *testing.T, opts ...LoopOption) *Loop {
	t.Helper()
	loop, err := New(opts...)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = loop.Run(context.Background())
	}()
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := loop.Shutdown(ctx); err != nil {
			t.Errorf("Shutdown failed: %v", err)
		}
		<-done
	})
	return loop
}

// onLoop runs fn on the loop goroutine and waits for it to complete.
func onLoop(t *testing.T, loop *Loop, fn func()) {
	t.Helper()
	done := make(chan struct{})
	if err := loop.Submit(func() {
		defer close(done)
		fn()
	}); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for loop task")
	}
}

// waitFor polls the loop-confined condition until it holds or the deadline
// passes.
func waitFor(t *testing.T, loop *Loop, timeout time.Duration, cond func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		var ok bool
		onLoop(t, loop, func() { ok = cond() })
		if ok {
			return true
		}
		time.Sleep(2 * time.Millisecond)
	}
	return false
}

// counter is a loop-confined invocation recorder.
type counter struct {
	n    int
	last any
}

func (c *counter) add(v any) {
	c.n++
	c.last = v
}

// fakeScheduler is a deterministic TimerScheduler for single-goroutine
// tests; timers fire only when the test calls fire or fireAll.
type fakeScheduler struct {
	timers map[TimerID]func()
	order  []TimerID
	next   TimerID
	err    error
}

func newFakeScheduler() *fakeScheduler {
	return &fakeScheduler{timers: make(map[TimerID]func())}
}

func (f *fakeScheduler) ScheduleTimer(_ time.Duration, fn func()) (TimerID, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.next++
	f.timers[f.next] = fn
	f.order = append(f.order, f.next)
	return f.next, nil
}

func (f *fakeScheduler) CancelTimer(id TimerID) error {
	if _, ok := f.timers[id]; !ok {
		return ErrTimerNotFound
	}
	delete(f.timers, id)
	return nil
}

func (f *fakeScheduler) pending() int {
	return len(f.timers)
}

// fireAll pops and runs every pending timer in scheduling order, including
// timers scheduled by the fired callbacks if rounds permits.
func (f *fakeScheduler) fireAll() {
	order := f.order
	f.order = nil
	for _, id := range order {
		fn, ok := f.timers[id]
		if !ok {
			continue
		}
		delete(f.timers, id)
		fn()
	}
}

// fakeFrames is a deterministic FrameScheduler; a frame boundary occurs only
// when the test calls tick.
type fakeFrames struct {
	queue []FrameFunc
	err   error
}

func (f *fakeFrames) RequestFrame(fn FrameFunc) error {
	if f.err != nil {
		return f.err
	}
	f.queue = append(f.queue, fn)
	return nil
}

func (f *fakeFrames) tick(now time.Time) {
	queue := f.queue
	f.queue = nil
	for _, fn := range queue {
		fn(now)
	}
}
