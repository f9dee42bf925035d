package workerpool

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/Andrej220/go-utils/tpool/syncx"
	"go.uber.org/multierr"
)

var (
	// ErrEmpty is returned by non-waiting pops on an empty Queue.
	ErrEmpty = syncx.ErrEmpty

	// ErrPoolClosed completes the future of a task submitted to a pool
	// that is stopping or stopped.
	ErrPoolClosed = errors.New("workerpool: pool closed")

	// ErrAlreadyStarted is returned by Start on a pool that was started
	// before.
	ErrAlreadyStarted = errors.New("workerpool: pool already started")

	// ErrNotRunning is returned by Stop and Terminate on a pool that is
	// not running.
	ErrNotRunning = errors.New("workerpool: pool not running")

	// ErrBrokenPromise completes the future of a task that was discarded
	// without being run.
	ErrBrokenPromise = errors.New("workerpool: broken promise")

	// ErrPromiseAlreadySatisfied is returned on a second write to a Promise.
	ErrPromiseAlreadySatisfied = errors.New("workerpool: promise already satisfied")

	// ErrNotJoinable is returned by Join and Detach on a Guard that was
	// already joined or detached.
	ErrNotJoinable = errors.New("workerpool: guard not joinable")

	// ErrNilFunc is returned when a nil task function is submitted.
	ErrNilFunc = errors.New("workerpool: task func is nil")
)

// PanicError wraps a value recovered from a panicking task together with
// the stack of the worker goroutine at the point of the panic.
type PanicError struct {
	// Value is the original value passed to panic().
	Value any

	// Stack is the goroutine stack trace at the point of panic.
	Stack string
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("task panicked: %v\n\n%s", e.Value, e.Stack)
}

// Unwrap exposes the panic value when it was itself an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

func newPanicError(v any) *PanicError {
	buf := make([]byte, 8192)
	n := runtime.Stack(buf, false)
	return &PanicError{
		Value: v,
		Stack: string(buf[:n]),
	}
}

// WorkerError is the setup failure of a single worker.
type WorkerError struct {
	Worker int
	Err    error
}

func (e *WorkerError) Error() string {
	return fmt.Sprintf("worker %d: %v", e.Worker, e.Err)
}

func (e *WorkerError) Unwrap() error { return e.Err }

// StartupError is returned by Start when one or more workers failed to
// come up. By the time it is returned the pool has been terminated and
// every spawned worker joined.
type StartupError struct {
	Err error
}

func (e *StartupError) Error() string {
	return "workerpool: start failed: " + e.Err.Error()
}

func (e *StartupError) Unwrap() error { return e.Err }

// Failures lists every worker failure carried by the error.
func (e *StartupError) Failures() []*WorkerError {
	var out []*WorkerError
	for _, err := range multierr.Errors(e.Err) {
		var we *WorkerError
		if errors.As(err, &we) {
			out = append(out, we)
		}
	}
	return out
}
