// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package interact

import (
	"fmt"
	"time"

	"github.com/joeycumines/logiface"
)

const (
	// DefaultFrameInterval is the default rendering-frame cadence (~60 FPS).
	DefaultFrameInterval = 16667 * time.Microsecond

	// defaultTaskBuffer is the default capacity of the external task queue.
	defaultTaskBuffer = 1024
)

// loopOptions holds configuration options for Loop creation.
type loopOptions struct {
	logger        *logiface.Logger[logiface.Event]
	clock         func() time.Time
	frameInterval time.Duration
	taskBuffer    int
}

// LoopOption configures a Loop instance.
type LoopOption interface {
	applyLoop(*loopOptions) error
}

// loopOptionImpl implements LoopOption.
type loopOptionImpl struct {
	applyLoopFunc func(*loopOptions) error
}

func (l *loopOptionImpl) applyLoop(opts *loopOptions) error {
	return l.applyLoopFunc(opts)
}

// WithLogger attaches a structured logger to the loop. Loop lifecycle
// transitions and recovered callback panics are logged through it.
//
// A nil logger disables logging (the default).
func WithLogger(logger *logiface.Logger[logiface.Event]) LoopOption {
	return &loopOptionImpl{func(opts *loopOptions) error {
		opts.logger = logger
		return nil
	}}
}

// WithClock overrides the loop's time source. Timer deadlines and frame
// windows are computed against it. The default is [time.Now]; the override
// exists for deterministic tests.
func WithClock(clock func() time.Time) LoopOption {
	return &loopOptionImpl{func(opts *loopOptions) error {
		if clock == nil {
			return fmt.Errorf("interact: clock must not be nil")
		}
		opts.clock = clock
		return nil
	}}
}

// WithFrameInterval sets the rendering-frame cadence used by
// [Loop.RequestFrame]. The default is [DefaultFrameInterval].
func WithFrameInterval(d time.Duration) LoopOption {
	return &loopOptionImpl{func(opts *loopOptions) error {
		if d <= 0 {
			return fmt.Errorf("interact: frame interval must be positive, got %v", d)
		}
		opts.frameInterval = d
		return nil
	}}
}

// WithTaskBuffer sets the capacity of the external task queue consumed by
// [Loop.Submit]. Submissions beyond capacity fail with [ErrLoopOverloaded].
func WithTaskBuffer(n int) LoopOption {
	return &loopOptionImpl{func(opts *loopOptions) error {
		if n <= 0 {
			return fmt.Errorf("interact: task buffer must be positive, got %d", n)
		}
		opts.taskBuffer = n
		return nil
	}}
}

// resolveLoopOptions applies LoopOption instances to loopOptions.
func resolveLoopOptions(opts []LoopOption) (*loopOptions, error) {
	cfg := &loopOptions{
		clock:         time.Now,
		frameInterval: DefaultFrameInterval,
		taskBuffer:    defaultTaskBuffer,
	}
	for _, opt := range opts {
		if opt == nil {
			continue // Skip nil options gracefully
		}
		if err := opt.applyLoop(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}
