package workerpool

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// Promise is the producer half of a completion cell. It accepts exactly one
// outcome: a value or an error.
type Promise[T any] struct {
	f *Future[T]
}

// Future is the consumer half of a completion cell. Any number of
// goroutines may wait on it; all of them observe the same outcome.
type Future[T any] struct {
	done chan struct{}
	set  atomic.Bool
	val  T
	err  error

	// lazy, when set, runs the computation on the first Get or GetContext.
	lazy        func()
	lazyOnce    sync.Once
	lazyStarted atomic.Bool
}

// NewPromise returns an unsatisfied promise.
func NewPromise[T any]() *Promise[T] {
	return &Promise[T]{f: &Future[T]{done: make(chan struct{})}}
}

// Future returns the consumer half bound to p.
func (p *Promise[T]) Future() *Future[T] { return p.f }

// SetValue completes the future with v.
func (p *Promise[T]) SetValue(v T) error { return p.f.complete(v, nil) }

// SetError completes the future with err.
func (p *Promise[T]) SetError(err error) error {
	var zero T
	return p.f.complete(zero, err)
}

func (f *Future[T]) complete(v T, err error) error {
	if !f.set.CompareAndSwap(false, true) {
		return ErrPromiseAlreadySatisfied
	}
	f.val, f.err = v, err
	close(f.done)
	return nil
}

func (f *Future[T]) start() {
	if f.lazy != nil {
		f.lazyOnce.Do(func() {
			f.lazyStarted.Store(true)
			f.lazy()
		})
	}
}

// Get blocks until the outcome is available and returns it.
func (f *Future[T]) Get() (T, error) {
	f.start()
	<-f.done
	return f.val, f.err
}

// GetContext is Get bounded by ctx. It returns ctx.Err() when ctx ends
// first; the outcome stays retrievable afterwards.
//
// On a Deferred future that has not started, GetContext runs the
// computation inline and ctx does not bound it.
func (f *Future[T]) GetContext(ctx context.Context) (T, error) {
	f.start()
	select {
	case <-f.done:
		return f.val, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// WaitFor waits up to d for the outcome and reports whether it is ready.
// It never starts a Deferred computation: on one nobody has started it
// returns false at once.
func (f *Future[T]) WaitFor(d time.Duration) bool {
	if f.lazy != nil && !f.lazyStarted.Load() {
		return f.Ready()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-f.done:
		return true
	case <-timer.C:
		return false
	}
}

// Done returns a channel closed once the outcome is available.
// It does not trigger a deferred computation.
func (f *Future[T]) Done() <-chan struct{} { return f.done }

// Ready reports whether the outcome is available without blocking.
func (f *Future[T]) Ready() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// run executes fn and stores its outcome, turning a panic into *PanicError.
func (p *Promise[T]) run(fn func() (T, error)) (err error) {
	var v T
	func() {
		defer func() {
			if r := recover(); r != nil {
				err = newPanicError(r)
			}
		}()
		v, err = fn()
	}()
	_ = p.f.complete(v, err)
	return err
}
