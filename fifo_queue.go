package workerpool

const (
	initialFifoCapacity = 64
)

// fifoQueue is a growable circular buffer holding values in strict
// first-in-first-out order.
//
// It is not safe for concurrent use on its own; Queue guards it with a
// mutex. Unlike a fixed ring it never drops a value: a full buffer is
// doubled and the live window is unrolled into the new one.
type fifoQueue[T any] struct {
	buf        []T // circular buffer
	head, tail int // read/write indices
	size       int // number of values currently buffered
	capacity   int
}

// newFifoQueue creates a FIFO buffer with the given initial capacity.
func newFifoQueue[T any](cap int) *fifoQueue[T] {
	if cap <= 0 {
		cap = initialFifoCapacity
	}
	return &fifoQueue[T]{
		buf:      make([]T, cap),
		capacity: cap,
	}
}

// fifoFromSlice builds a buffer that takes ownership of items.
func fifoFromSlice[T any](items []T) *fifoQueue[T] {
	if len(items) == 0 {
		return newFifoQueue[T](initialFifoCapacity)
	}
	return &fifoQueue[T]{
		buf:      items,
		tail:     0,
		size:     len(items),
		capacity: len(items),
	}
}

// Len returns the number of values currently buffered.
func (q *fifoQueue[T]) Len() int { return q.size }

// Push appends v at the tail, growing the buffer when it is full.
func (q *fifoQueue[T]) Push(v T) {
	if q.size == q.capacity {
		q.grow()
	}
	q.buf[q.tail] = v
	q.tail++
	if q.tail == q.capacity {
		q.tail = 0
	}
	q.size++
}

// Pop removes and returns the oldest value.
//
// If the buffer is empty, returns the zero value and false.
func (q *fifoQueue[T]) Pop() (T, bool) {
	var zero T
	if q.size == 0 {
		return zero, false
	}
	v := q.buf[q.head]
	q.buf[q.head] = zero // release references held by the slot
	q.head++
	if q.head == q.capacity {
		q.head = 0
	}
	q.size--
	return v, true
}

// Drain removes every value and returns them oldest first.
func (q *fifoQueue[T]) Drain() []T {
	if q.size == 0 {
		return nil
	}
	out := make([]T, 0, q.size)
	for q.size > 0 {
		v, _ := q.Pop()
		out = append(out, v)
	}
	q.head, q.tail = 0, 0
	return out
}

func (q *fifoQueue[T]) grow() {
	newCap := q.capacity * 2
	if newCap < initialFifoCapacity {
		newCap = initialFifoCapacity
	}
	buf := make([]T, newCap)

	// unroll [head..end) and [0..tail) into the new buffer
	n := copy(buf, q.buf[q.head:q.capacity])
	copy(buf[n:], q.buf[:q.head])

	q.buf = buf
	q.head = 0
	q.tail = q.size
	q.capacity = newCap
}
