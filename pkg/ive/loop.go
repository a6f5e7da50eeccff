package ive

import (
	"context"
	"sync"
)

// Loop is a single-threaded task queue standing in for a host event loop.
// Post may be called from any goroutine; tasks run one at a time on the
// goroutine calling Run, RunUntil or Drain.
type Loop struct {
	mu    sync.Mutex
	queue []func()
	wake  chan struct{}
}

// NewLoop creates an empty loop.
func NewLoop() *Loop {
	return &Loop{wake: make(chan struct{}, 1)}
}

// Post queues fn to run after every task queued before it.
func (l *Loop) Post(fn func()) {
	if fn == nil {
		return
	}
	l.mu.Lock()
	l.queue = append(l.queue, fn)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Pending returns the number of queued tasks.
func (l *Loop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.queue)
}

// RunOnce runs the oldest queued task. It reports whether a task ran.
func (l *Loop) RunOnce() bool {
	l.mu.Lock()
	if len(l.queue) == 0 {
		l.mu.Unlock()
		return false
	}
	fn := l.queue[0]
	l.queue[0] = nil
	l.queue = l.queue[1:]
	l.mu.Unlock()

	fn()
	return true
}

// Drain runs tasks until the queue is empty, including tasks queued by the
// tasks it runs. It returns the number of tasks run.
func (l *Loop) Drain() int {
	n := 0
	for l.RunOnce() {
		n++
	}
	return n
}

// RunUntil runs tasks, waiting for new ones when idle, until done reports
// true or ctx is cancelled. done is checked before every task.
func (l *Loop) RunUntil(ctx context.Context, done func() bool) error {
	for {
		if done != nil && done() {
			return nil
		}
		if l.RunOnce() {
			continue
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.wake:
		}
	}
}

// Run serves tasks until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) error {
	return l.RunUntil(ctx, nil)
}

// Do runs fn on the loop and waits for it to finish. It must not be called
// from the loop goroutine.
func (l *Loop) Do(ctx context.Context, fn func()) error {
	done := make(chan struct{})
	l.Post(func() {
		defer close(done)
		fn()
	})
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
