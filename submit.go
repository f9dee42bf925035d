package workerpool

import (
	"context"
	"time"

	boff "github.com/Andrej220/go-utils/backoff"
	lg "github.com/Andrej220/go-utils/zlog"
	"go.uber.org/multierr"
)

// Submit queues fn on p and returns its future without blocking.
//
// The value and error fn returns are delivered through the future; a panic
// in fn is delivered as *PanicError. A failing task never affects the
// worker running it or any other task. Submitting to a stopping or stopped
// pool yields a future completed with ErrPoolClosed.
func Submit[R any](p *Pool, fn func() (R, error)) *Future[R] {
	pr := NewPromise[R]()
	if fn == nil {
		_ = pr.SetError(ErrNilFunc)
		return pr.Future()
	}

	t := newTask(
		func() { p.taskDone(pr.run(fn)) },
		func(err error) { _ = pr.SetError(err) },
	)
	if !p.enqueue(t) {
		_ = pr.SetError(ErrPoolClosed)
	}
	return pr.Future()
}

// Submit1 binds a copy of a to fn and submits the call. Pass a pointer to
// let the task work on the caller's value instead; the caller then keeps it
// alive and untouched until the future completes.
func Submit1[A, R any](p *Pool, fn func(A) (R, error), a A) *Future[R] {
	if fn == nil {
		return Submit[R](p, nil)
	}
	return Submit(p, func() (R, error) { return fn(a) })
}

// Submit2 is Submit1 for two arguments.
func Submit2[A, B, R any](p *Pool, fn func(A, B) (R, error), a A, b B) *Future[R] {
	if fn == nil {
		return Submit[R](p, nil)
	}
	return Submit(p, func() (R, error) { return fn(a, b) })
}

// Go submits a function without a result. The future completes with nil
// once fn returns, or with *PanicError.
func Go(p *Pool, fn func()) *Future[struct{}] {
	if fn == nil {
		return Submit[struct{}](p, nil)
	}
	return Submit(p, func() (struct{}, error) {
		fn()
		return struct{}{}, nil
	})
}

// SubmitErr submits a function that only reports an error.
func SubmitErr(p *Pool, fn func() error) *Future[struct{}] {
	if fn == nil {
		return Submit[struct{}](p, nil)
	}
	return Submit(p, func() (struct{}, error) {
		return struct{}{}, fn()
	})
}

// SubmitRetry submits fn and retries failed attempts with exponential
// backoff. Non-zero fields of rp override the pool's Options.Retry.
//
// The backoff sleep happens on the worker. Cancelling ctx ends the wait
// and completes the future with the last attempt's error combined with
// ctx.Err().
func SubmitRetry[R any](p *Pool, ctx context.Context, rp *RetryPolicy, fn func(context.Context) (R, error)) *Future[R] {
	if fn == nil {
		return Submit[R](p, nil)
	}
	if ctx == nil {
		ctx = context.Background()
	}
	pol := rp.merge(p.opts.Retry)

	return Submit(p, func() (R, error) {
		var zero R
		bo := boff.New(pol.Initial, pol.Max, time.Now().UnixNano())

		for attempt := 1; ; attempt++ {
			v, err := fn(ctx)
			if err == nil {
				return v, nil
			}
			if attempt >= pol.Attempts {
				return zero, err
			}

			delay := bo.Next()
			lg.FromContext(p.opts.Ctx).Warn("task attempt failed; backing off",
				lg.String("pool", p.opts.Name),
				lg.Int("attempt", attempt),
				lg.String("sleep", delay.String()),
				lg.Any("error", err),
			)
			timer := time.NewTimer(delay)
			select {
			case <-timer.C:
			case <-ctx.Done():
				timer.Stop()
				return zero, multierr.Append(err, ctx.Err())
			}
		}
	})
}
