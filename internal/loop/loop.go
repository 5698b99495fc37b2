// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package loop provides the single-threaded callback queue that every
// asynchronous component in trackbets reports back through.
//
// Timer and network goroutines never touch UI or orchestrator state directly.
// They Post a closure; the owning goroutine (the Bubble Tea update loop, or the
// line-mode pump) pulls closures with Next and runs them one at a time.
package loop

import (
	"context"
	"errors"
	"sync"
)

// ErrClosed is returned by RunUntil when the loop is closed before the
// condition becomes true.
var ErrClosed = errors.New("loop: closed")

// DefaultBuffer is the queue capacity used when NewLoop is given zero.
const DefaultBuffer = 64

// Loop is a FIFO of callbacks with a single consumer.
type Loop struct {
	queue     chan func()
	done      chan struct{}
	closeOnce sync.Once
}

// NewLoop creates a loop with the given queue capacity.
func NewLoop(buffer int) *Loop {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	return &Loop{
		queue: make(chan func(), buffer),
		done:  make(chan struct{}),
	}
}

// Post enqueues fn. It blocks while the queue is full and returns false if
// the loop was closed first.
func (l *Loop) Post(fn func()) bool {
	return l.PostContext(context.Background(), fn)
}

// PostContext is Post, but gives up when ctx is cancelled. A producer whose
// work has been superseded uses its own context here so it never blocks on a
// consumer that stopped listening.
func (l *Loop) PostContext(ctx context.Context, fn func()) bool {
	if fn == nil {
		return false
	}
	select {
	case <-l.done:
		return false
	case <-ctx.Done():
		return false
	default:
	}
	select {
	case l.queue <- fn:
		return true
	case <-l.done:
		return false
	case <-ctx.Done():
		return false
	}
}

// Next blocks until a callback is available. ok is false when the loop is
// closed or ctx is cancelled.
func (l *Loop) Next(ctx context.Context) (fn func(), ok bool) {
	select {
	case fn = <-l.queue:
		return fn, true
	case <-l.done:
		return nil, false
	case <-ctx.Done():
		return nil, false
	}
}

// Drain runs every callback that is already queued without blocking and
// reports how many ran.
func (l *Loop) Drain() int {
	n := 0
	for {
		select {
		case fn := <-l.queue:
			fn()
			n++
		default:
			return n
		}
	}
}

// Len returns the number of queued callbacks.
func (l *Loop) Len() int {
	return len(l.queue)
}

// RunUntil runs callbacks until cond reports true. cond is checked before
// the first wait and after every callback.
func (l *Loop) RunUntil(ctx context.Context, cond func() bool) error {
	for !cond() {
		fn, ok := l.Next(ctx)
		if !ok {
			if err := ctx.Err(); err != nil {
				return err
			}
			return ErrClosed
		}
		fn()
	}
	return nil
}

// Close stops the loop. Pending callbacks are discarded and blocked
// producers are released. Safe to call more than once.
func (l *Loop) Close() {
	l.closeOnce.Do(func() { close(l.done) })
}

// Closed reports whether Close has been called.
func (l *Loop) Closed() bool {
	select {
	case <-l.done:
		return true
	default:
		return false
	}
}
