package ive

import (
	"context"
	"errors"
	"sync"
)

// ErrNilRejection replaces a nil error passed to a reject function, so a
// rejected future never looks resolved.
var ErrNilRejection = errors.New("ive: future rejected with nil error")

// Future is a value that settles once, with either a result or an error.
// Continuations registered with Then always run as tasks on the future's
// loop, never synchronously inside Then or inside the settling call.
type Future[T any] struct {
	loop *Loop

	mu        sync.Mutex
	settled   bool
	value     T
	err       error
	callbacks []func()
}

// NewPromise returns a pending future and the functions that settle it.
// Only the first call to either function has an effect.
func NewPromise[T any](loop *Loop) (fut *Future[T], resolve func(T), reject func(error)) {
	f := &Future[T]{loop: loop}
	return f, func(v T) { f.settle(v, nil) }, func(err error) {
		if err == nil {
			err = ErrNilRejection
		}
		var zero T
		f.settle(zero, err)
	}
}

// Resolved returns a future already settled with v.
func Resolved[T any](loop *Loop, v T) *Future[T] {
	f, resolve, _ := NewPromise[T](loop)
	resolve(v)
	return f
}

// Rejected returns a future already settled with err, or with
// ErrNilRejection if err is nil.
func Rejected[T any](loop *Loop, err error) *Future[T] {
	f, _, reject := NewPromise[T](loop)
	reject(err)
	return f
}

// Go runs fn on a new goroutine and settles the returned future with its
// result. A nil error from fn resolves the future.
func Go[T any](loop *Loop, ctx context.Context, fn func(context.Context) (T, error)) *Future[T] {
	f, resolve, reject := NewPromise[T](loop)
	go func() {
		v, err := fn(ctx)
		if err != nil {
			reject(err)
			return
		}
		resolve(v)
	}()
	return f
}

func (f *Future[T]) settle(v T, err error) {
	f.mu.Lock()
	if f.settled {
		f.mu.Unlock()
		return
	}
	f.settled = true
	f.value = v
	f.err = err
	callbacks := f.callbacks
	f.callbacks = nil
	f.mu.Unlock()

	for _, cb := range callbacks {
		f.loop.Post(cb)
	}
}

// Then registers continuations for the settled value. Exactly one of
// onValue and onError runs, once. Either may be nil.
func (f *Future[T]) Then(onValue func(T), onError func(error)) {
	cb := func() {
		f.mu.Lock()
		v, err := f.value, f.err
		f.mu.Unlock()
		if err != nil {
			if onError != nil {
				onError(err)
			}
			return
		}
		if onValue != nil {
			onValue(v)
		}
	}

	f.mu.Lock()
	if !f.settled {
		f.callbacks = append(f.callbacks, cb)
		f.mu.Unlock()
		return
	}
	f.mu.Unlock()
	f.loop.Post(cb)
}

// Settled reports whether the future has a result.
func (f *Future[T]) Settled() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.settled
}

// Value returns the resolved value. ok is false while pending or rejected.
func (f *Future[T]) Value() (value T, ok bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.value, f.settled && f.err == nil
}

// Err returns the rejection error, or nil.
func (f *Future[T]) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}
