package workerpool

import (
	"testing"
)

func TestFifoGrow_NoWrap(t *testing.T) {
	capacity := 4
	newSize := 5
	q := newFifoQueue[int](capacity)

	for i := 1; i <= capacity; i++ {
		q.Push(i)
	}

	if q.size != capacity {
		t.Fatalf("expected size=4, got %d", q.size)
	}

	q.Push(5)

	if q.capacity <= capacity {
		t.Fatalf("grow() didn't increase capacity, got %d", q.capacity)
	}

	if q.size != newSize {
		t.Fatalf("after grow: expected size=%d, got %d", newSize, q.size)
	}

	for expected := 1; expected <= newSize; expected++ {
		v, ok := q.Pop()
		if !ok {
			t.Fatalf("Pop returned false, expected %d", expected)
		}
		if v != expected {
			t.Fatalf("FIFO order broken: expected %d, got %d", expected, v)
		}
	}
}

func TestFifoGrow_WithWrap(t *testing.T) {
	capacity := 4
	q := newFifoQueue[int](capacity)

	q.Push(1)
	q.Push(2)
	q.Push(3)

	// wrap around: head=1
	v, _ := q.Pop()
	if v != 1 {
		t.Fatalf("expected to pop 1, got %d", v)
	}

	q.Push(4)
	q.Push(5)

	// buffer: [5,2,3,4], head=1 tail=1 size=4
	q.Push(6)

	if q.capacity <= capacity {
		t.Fatalf("grow() didn't increase capacity")
	}

	if q.size != capacity+1 {
		t.Fatalf("expected size=%d after grow, got %d", capacity+1, q.size)
	}

	expected := []int{2, 3, 4, 5, 6}
	for i, exp := range expected {
		v, ok := q.Pop()
		if !ok {
			t.Fatalf("Pop %d returned false", i)
		}
		if v != exp {
			t.Fatalf("FIFO order broken at %d: expected %d, got %d", i, exp, v)
		}
	}
}

func TestFifoGrow_MultipleGrows(t *testing.T) {
	capacity := 4
	size := 500
	q := newFifoQueue[int](capacity)
	for i := 1; i <= size; i++ {
		q.Push(i)
	}

	if q.size != size {
		t.Fatalf("expected size %d, got %d", size, q.size)
	}

	for i := 1; i <= size; i++ {
		v, ok := q.Pop()
		if !ok {
			t.Fatalf("Pop returned false at %d", i)
		}
		if v != i {
			t.Fatalf("FIFO mismatch at %d: expected %d, got %d", i, i, v)
		}
	}
	if _, ok := q.Pop(); ok {
		t.Fatal("Pop on empty buffer returned true")
	}
}

func TestFifoDrainAndFromSlice(t *testing.T) {
	q := newFifoQueue[int](2)
	q.Push(1)
	q.Push(2)
	q.Pop()
	q.Push(3)
	q.Push(4)

	got := q.Drain()
	want := []int{2, 3, 4}
	if len(got) != len(want) {
		t.Fatalf("Drain len = %d; want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Drain[%d] = %d; want %d", i, got[i], want[i])
		}
	}
	if q.Len() != 0 || q.Drain() != nil {
		t.Fatal("buffer not empty after Drain")
	}

	q = fifoFromSlice([]int{7, 8})
	q.Push(9)
	for _, exp := range []int{7, 8, 9} {
		if v, _ := q.Pop(); v != exp {
			t.Fatalf("fifoFromSlice order: got %d; want %d", v, exp)
		}
	}
}
