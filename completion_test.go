package interact

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestCompletion_ResolveOnce(t *testing.T) {
	c := NewCompletion(nil)
	if c.Settled() {
		t.Fatal("new completion should be unsettled")
	}
	if !c.Resolve("ok") {
		t.Fatal("first resolve should succeed")
	}
	if c.Resolve("again") {
		t.Error("second resolve should be a no-op")
	}
	if c.Reject(errors.New("late")) {
		t.Error("reject after resolve should be a no-op")
	}
	if !c.Settled() {
		t.Error("completion should report settled")
	}
}

func TestCompletion_CallbacksReceiveResult(t *testing.T) {
	c := NewCompletion(nil)
	var got any
	var gotErr error
	c.Then(func(value any, err error) {
		got, gotErr = value, err
	})
	c.Resolve(42)
	if got != 42 || gotErr != nil {
		t.Errorf("got (%v, %v), want (42, nil)", got, gotErr)
	}
}

func TestCompletion_RejectDeliversError(t *testing.T) {
	c := NewCompletion(nil)
	want := errors.New("denied")
	var gotErr error
	c.Then(func(_ any, err error) { gotErr = err })
	c.Reject(want)
	if !errors.Is(gotErr, want) {
		t.Errorf("got %v, want %v", gotErr, want)
	}
}

func TestCompletion_ThenAfterSettle(t *testing.T) {
	c := NewCompletion(nil)
	c.Resolve("done")
	var got any
	c.Then(func(value any, _ error) { got = value })
	if got != "done" {
		t.Errorf("late callback got %v, want done", got)
	}
	c.Then(nil) // no-op
}

func TestCompletion_MultipleCallbacks(t *testing.T) {
	c := NewCompletion(nil)
	var order []int
	c.Then(func(any, error) { order = append(order, 1) })
	c.Then(func(any, error) { order = append(order, 2) })
	c.Resolve(nil)
	if len(order) != 2 || order[0] != 1 || order[1] != 2 {
		t.Errorf("callbacks ran as %v, want [1 2]", order)
	}
}

func TestCompletion_LoopDelivery(t *testing.T) {
	loop := startLoop(t)
	c := NewCompletion(loop)

	done := make(chan any, 1)
	c.Then(func(value any, _ error) { done <- value })

	// Settle off-loop; the callback must still arrive.
	c.Resolve("v")
	select {
	case v := <-done:
		if v != "v" {
			t.Errorf("got %v, want v", v)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("callback never delivered")
	}
}

func TestCompletion_ConcurrentSettle(t *testing.T) {
	c := NewCompletion(nil)
	var wins int
	var mu sync.Mutex
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if c.Resolve(i) {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()
	if wins != 1 {
		t.Errorf("exactly one settlement must win, got %d", wins)
	}
}

func TestCompletion_Await(t *testing.T) {
	loop := startLoop(t)
	c := NewCompletion(loop)

	go func() {
		time.Sleep(5 * time.Millisecond)
		c.Resolve("late")
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	v, err := c.Await(ctx)
	if err != nil {
		t.Fatalf("Await failed: %v", err)
	}
	if v != "late" {
		t.Errorf("got %v, want late", v)
	}
}

func TestCompletion_AwaitContextCancelled(t *testing.T) {
	c := NewCompletion(nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := c.Await(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("got %v, want context.Canceled", err)
	}
}

func TestCompletion_DeliveryAfterShutdown(t *testing.T) {
	loop := startLoop(t)
	c := NewCompletion(loop)

	var got any
	c.Then(func(value any, _ error) { got = value })

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := loop.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown failed: %v", err)
	}
	c.Resolve("fallback")
	if got != "fallback" {
		t.Errorf("synchronous fallback delivery expected, got %v", got)
	}
}
