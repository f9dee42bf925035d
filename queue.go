package workerpool

import (
	"sync"

	"github.com/Andrej220/go-utils/tpool/syncx"
)

// Queue is a blocking FIFO queue safe for any number of producers and
// consumers.
//
// Every method is atomic under a single mutex. Push wakes exactly one
// goroutine blocked in WaitPop or WaitPopAll. Values are handed out in the
// global order they were pushed, across all producers.
type Queue[T any] struct {
	mu    sync.Mutex
	cond  sync.Cond
	items *fifoQueue[T]
}

// NewQueue returns an empty queue.
func NewQueue[T any]() *Queue[T] {
	q := &Queue[T]{items: newFifoQueue[T](initialFifoCapacity)}
	q.cond.L = &q.mu
	return q
}

// Push appends v at the tail. It never blocks on consumers.
func (q *Queue[T]) Push(v T) {
	q.mu.Lock()
	q.items.Push(v)
	q.mu.Unlock()
	q.cond.Signal()
}

// TryPop removes the head without blocking.
// It reports false when the queue is empty.
func (q *Queue[T]) TryPop() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.items.Pop()
}

// Pop removes the head without blocking, returning ErrEmpty when there is
// nothing to take.
func (q *Queue[T]) Pop() (T, error) {
	v, ok := q.TryPop()
	if !ok {
		return v, ErrEmpty
	}
	return v, nil
}

// WaitPop blocks until the queue is non-empty and removes the head.
func (q *Queue[T]) WaitPop() T {
	q.mu.Lock()
	defer q.mu.Unlock()

	// Wait may return without a matching Signal; re-check before popping.
	for q.items.Len() == 0 {
		q.cond.Wait()
	}
	v, _ := q.items.Pop()
	return v
}

// TryPopAll removes every queued value, oldest first.
// It returns nil when the queue is empty.
func (q *Queue[T]) TryPopAll() []T {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.items.Drain()
}

// PopAll is TryPopAll returning ErrEmpty instead of an empty result.
func (q *Queue[T]) PopAll() ([]T, error) {
	out := q.TryPopAll()
	if len(out) == 0 {
		return nil, ErrEmpty
	}
	return out, nil
}

// WaitPopAll blocks until the queue is non-empty and then drains it.
func (q *Queue[T]) WaitPopAll() []T {
	q.mu.Lock()
	defer q.mu.Unlock()

	for q.items.Len() == 0 {
		q.cond.Wait()
	}
	return q.items.Drain()
}

// Swap exchanges the contents of q and other.
//
// Both locks are taken together through syncx.LockPair so that a.Swap(b)
// racing with b.Swap(a) cannot deadlock.
func (q *Queue[T]) Swap(other *Queue[T]) {
	if q == other {
		return
	}
	unlock := syncx.LockPair(&q.mu, &other.mu)
	q.items, other.items = other.items, q.items
	unlock()

	q.cond.Broadcast()
	other.cond.Broadcast()
}

// Exchange replaces the contents of q with items and returns the previous
// contents, oldest first. The queue takes ownership of items.
func (q *Queue[T]) Exchange(items []T) []T {
	q.mu.Lock()
	old := q.items.Drain()
	q.items = fifoFromSlice(items)
	q.mu.Unlock()

	q.cond.Broadcast()
	return old
}

// Len returns the number of queued values.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.items.Len()
}

// Empty reports whether a pop would fail right now.
func (q *Queue[T]) Empty() bool { return q.Len() == 0 }
