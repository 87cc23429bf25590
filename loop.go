package interact

import (
	"container/heap"
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/joeycumines/logiface"
)

// Task is a unit of work executed on the loop goroutine.
type Task func()

// TimerID uniquely identifies a scheduled timer for cancellation purposes.
type TimerID uint64

// FrameFunc is a callback invoked at a frame boundary. The now parameter is
// the loop's notion of the frame's timestamp.
type FrameFunc func(now time.Time)

// TimerScheduler is the timer capability consumed by [Debounce], [Throttle],
// [HoldPress], [LongPress], and [Probe]. *[Loop] satisfies it.
type TimerScheduler interface {
	// ScheduleTimer schedules fn to run on the loop goroutine after delay.
	ScheduleTimer(delay time.Duration, fn func()) (TimerID, error)
	// CancelTimer cancels a pending timer. Returns [ErrTimerNotFound] if the
	// timer does not exist or has already fired; safe to call more than once.
	CancelTimer(id TimerID) error
}

// FrameScheduler is the frame-scheduling capability consumed by [Coalesce].
// *[Loop] satisfies it.
type FrameScheduler interface {
	// RequestFrame schedules fn to run at the next frame boundary. Callbacks
	// requested within the same frame window run together, once, when the
	// window closes.
	RequestFrame(fn FrameFunc) error
}

var (
	_ TimerScheduler = (*Loop)(nil)
	_ FrameScheduler = (*Loop)(nil)
)

// Loop is a single-threaded cooperative event loop.
//
// All callbacks (tasks, timers, frame callbacks, event handlers reached from
// them) execute on the goroutine that called [Loop.Run]. Scheduling methods
// ([Loop.Submit], [Loop.ScheduleTimer], [Loop.RequestFrame]) are safe to call
// from any goroutine.
//
// Within each tick, expired timers run first (earliest deadline first), then
// due frame callbacks, then submitted tasks.
type Loop struct {
	// Prevent copying
	_ [0]func()

	state *lifecycle

	logger *logiface.Logger[logiface.Event]
	now    func() time.Time

	tasks chan Task
	wake  chan struct{}
	stop  chan struct{}
	done  chan struct{}

	timersMu  sync.Mutex
	timers    timerHeap
	timerByID map[TimerID]*loopTimer

	frameMu       sync.Mutex
	frameQueue    []FrameFunc
	frameDeadline time.Time

	frameInterval time.Duration

	nextTimerID atomic.Uint64

	stopOnce sync.Once
}

// loopTimer is a single scheduled timer.
type loopTimer struct {
	fn    func()
	when  time.Time
	id    TimerID
	index int
}

// timerHeap is a min-heap of timers ordered by deadline.
type timerHeap []*loopTimer

func (h timerHeap) Len() int           { return len(h) }
func (h timerHeap) Less(i, j int) bool { return h[i].when.Before(h[j].when) }
func (h timerHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *timerHeap) Push(x any) {
	t := x.(*loopTimer)
	t.index = len(*h)
	*h = append(*h, t)
}

func (h *timerHeap) Pop() any {
	old := *h
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.index = -1
	*h = old[:n-1]
	return t
}

// New creates a new [Loop].
//
// The loop does not process work until [Loop.Run] is called.
func New(opts ...LoopOption) (*Loop, error) {
	cfg, err := resolveLoopOptions(opts)
	if err != nil {
		return nil, err
	}
	return &Loop{
		state:         newLifecycle(),
		logger:        cfg.logger,
		now:           cfg.clock,
		tasks:         make(chan Task, cfg.taskBuffer),
		wake:          make(chan struct{}, 1),
		stop:          make(chan struct{}),
		done:          make(chan struct{}),
		timerByID:     make(map[TimerID]*loopTimer),
		frameInterval: cfg.frameInterval,
	}, nil
}

// Run processes tasks, timers, and frame callbacks until ctx is cancelled or
// [Loop.Shutdown] is called. It must be called at most once.
//
// Returns [ErrLoopAlreadyRunning] if the loop is already running,
// [ErrLoopTerminated] if it has already stopped, or the context's error if
// ctx ended the run.
func (l *Loop) Run(ctx context.Context) error {
	if !l.state.tryTransition(StateAwake, StateRunning) {
		switch l.state.load() {
		case StateRunning, StateTerminating:
			return ErrLoopAlreadyRunning
		default:
			return ErrLoopTerminated
		}
	}
	defer close(l.done)
	defer l.state.store(StateTerminated)

	l.logger.Debug().
		Dur("frame_interval", l.frameInterval).
		Log("interact: loop started")

	timer := time.NewTimer(time.Hour)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		l.runExpired()

		var timerC <-chan time.Time
		if deadline, ok := l.nextDeadline(); ok {
			d := deadline.Sub(l.now())
			if d < 0 {
				d = 0
			}
			timer.Reset(d)
			timerC = timer.C
		}

		select {
		case <-ctx.Done():
			l.logger.Debug().Log("interact: loop context done")
			return ctx.Err()
		case <-l.stop:
			l.logger.Debug().Log("interact: loop stopped")
			return nil
		case task := <-l.tasks:
			l.safeExecuteFn(task)
		case <-l.wake:
		case <-timerC:
		}

		// Reset hygiene: ensure the shared timer is stopped and drained
		// before the next iteration rearms it.
		if timerC != nil && !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
	}
}

// Shutdown requests the loop to stop and waits for it to finish, up to ctx.
// It is safe to call from any goroutine, more than once, and before Run.
func (l *Loop) Shutdown(ctx context.Context) error {
	l.stopOnce.Do(func() {
		if l.state.tryTransition(StateAwake, StateTerminated) {
			// Run was never started; nothing to wait for.
			close(l.stop)
			close(l.done)
			return
		}
		l.state.tryTransition(StateRunning, StateTerminating)
		close(l.stop)
	})
	select {
	case <-l.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Submit enqueues a task for execution on the loop goroutine.
//
// Returns [ErrLoopTerminated] if the loop has stopped, or
// [ErrLoopOverloaded] if the task queue is full. A nil task is a no-op.
func (l *Loop) Submit(task Task) error {
	if task == nil {
		return nil
	}
	if !l.state.canAcceptWork() {
		return ErrLoopTerminated
	}
	select {
	case l.tasks <- task:
		return nil
	default:
		return ErrLoopOverloaded
	}
}

// ScheduleTimer schedules fn to run on the loop goroutine after delay.
// Negative delays are treated as zero.
func (l *Loop) ScheduleTimer(delay time.Duration, fn func()) (TimerID, error) {
	if fn == nil {
		return 0, ErrNilHandler
	}
	if !l.state.canAcceptWork() {
		return 0, ErrLoopTerminated
	}
	if delay < 0 {
		delay = 0
	}
	t := &loopTimer{
		fn:   fn,
		when: l.now().Add(delay),
		id:   TimerID(l.nextTimerID.Add(1)),
	}
	l.timersMu.Lock()
	heap.Push(&l.timers, t)
	l.timerByID[t.id] = t
	l.timersMu.Unlock()
	l.wakeLoop()
	return t.id, nil
}

// CancelTimer cancels a pending timer.
//
// Returns [ErrTimerNotFound] if the timer ID is invalid or has already
// fired. Safe to call multiple times for the same ID.
func (l *Loop) CancelTimer(id TimerID) error {
	l.timersMu.Lock()
	t, ok := l.timerByID[id]
	if ok {
		heap.Remove(&l.timers, t.index)
		delete(l.timerByID, id)
	}
	l.timersMu.Unlock()
	if !ok {
		return ErrTimerNotFound
	}
	return nil
}

// RequestFrame schedules fn to run at the next frame boundary.
//
// The first request of a coalescing window opens the window; the window
// closes one frame interval later, running every callback requested during
// it. Callbacks requested while a frame callback is executing land in the
// following window.
func (l *Loop) RequestFrame(fn FrameFunc) error {
	if fn == nil {
		return ErrNilHandler
	}
	if !l.state.canAcceptWork() {
		return ErrLoopTerminated
	}
	l.frameMu.Lock()
	if l.frameDeadline.IsZero() {
		l.frameDeadline = l.now().Add(l.frameInterval)
	}
	l.frameQueue = append(l.frameQueue, fn)
	l.frameMu.Unlock()
	l.wakeLoop()
	return nil
}

// State returns the loop's current lifecycle state.
func (l *Loop) State() LoopState {
	return l.state.load()
}

// FrameInterval returns the configured frame interval.
func (l *Loop) FrameInterval() time.Duration {
	return l.frameInterval
}

// wakeLoop nudges Run out of its wait so it recomputes the next deadline.
func (l *Loop) wakeLoop() {
	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// runExpired executes all timers whose deadline has passed, then any due
// frame callbacks.
func (l *Loop) runExpired() {
	now := l.now()
	for {
		l.timersMu.Lock()
		if len(l.timers) == 0 || l.timers[0].when.After(now) {
			l.timersMu.Unlock()
			break
		}
		t := heap.Pop(&l.timers).(*loopTimer)
		delete(l.timerByID, t.id)
		l.timersMu.Unlock()
		l.safeExecuteFn(t.fn)
	}
	l.runFrame(now)
}

// runFrame closes the current frame window, if due, and runs its callbacks.
func (l *Loop) runFrame(now time.Time) {
	l.frameMu.Lock()
	if l.frameDeadline.IsZero() || l.frameDeadline.After(now) {
		l.frameMu.Unlock()
		return
	}
	queue := l.frameQueue
	l.frameQueue = nil
	l.frameDeadline = time.Time{}
	l.frameMu.Unlock()
	for _, fn := range queue {
		l.safeExecuteFrame(fn, now)
	}
}

func (l *Loop) nextDeadline() (time.Time, bool) {
	var deadline time.Time
	l.timersMu.Lock()
	if len(l.timers) > 0 {
		deadline = l.timers[0].when
	}
	l.timersMu.Unlock()
	l.frameMu.Lock()
	if !l.frameDeadline.IsZero() && (deadline.IsZero() || l.frameDeadline.Before(deadline)) {
		deadline = l.frameDeadline
	}
	l.frameMu.Unlock()
	return deadline, !deadline.IsZero()
}

// safeExecuteFn runs fn, recovering and logging any panic so a misbehaving
// callback cannot take down the loop.
func (l *Loop) safeExecuteFn(fn func()) {
	defer l.recoverCallbackPanic()
	fn()
}

func (l *Loop) safeExecuteFrame(fn FrameFunc, now time.Time) {
	defer l.recoverCallbackPanic()
	fn(now)
}

func (l *Loop) recoverCallbackPanic() {
	if r := recover(); r != nil {
		b := l.logger.Err()
		if err, ok := r.(error); ok {
			b = b.Err(err)
		} else {
			b = b.Field("panic", r)
		}
		b.Log("interact: recovered panic in loop callback")
	}
}
