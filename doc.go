// Package workerpool provides a bounded worker pool with per-task futures
// and two shutdown modes, built on a condition-notified FIFO queue.
//
// Architecture overview
//
// The pool is composed of four small layers:
//
//  1. Queue
//     A blocking FIFO guarded by one mutex and one condition variable.
//     Push wakes exactly one waiting consumer; WaitPop re-checks emptiness
//     after every wakeup. Values leave in the global order they entered.
//
//  2. Task
//     A sum type over "run this type-erased body" and "exit marker".
//     Typed callables, their bound arguments and their results live in the
//     closure and the Promise it completes, so tasks of any signature share
//     one queue.
//
//  3. Future / Promise
//     A write-once completion cell. Errors returned by a task and panics
//     raised in it are captured here and surface on Get; they never reach
//     the worker.
//
//  4. Pool and Guard
//     Start spawns N workers, each held by a Guard that joins it exactly
//     once. Workers loop on WaitPop until they pop an exit marker or see the
//     termination flag between two tasks.
//
// Shutdown
//
// Stop queues one exit marker per worker behind all submitted work, so
// every task submitted before Stop runs before the workers exit.
//
// Terminate sets the termination flag first. Each worker finishes the task
// it is running and exits at its next loop boundary; tasks it never reached
// complete with ErrBrokenPromise. At most the submitted number of tasks run,
// and which queued tasks are skipped is not specified.
//
// Submitting
//
//	p, _ := workerpool.New(workerpool.Options{Workers: 4})
//	defer p.Close()
//
//	f := workerpool.Submit(p, func() (int, error) { return 6 * 7, nil })
//	v, err := f.Get()
//
// Submit1 and Submit2 bind copies of their arguments at submission time;
// pass a pointer to share the caller's value instead. SubmitRetry retries a
// failing task with exponential backoff.
//
// Non-goals
//
// This is not a scheduler: there are no priorities, no task dependencies
// and no work stealing. A task cannot be cancelled once queued.
package workerpool
