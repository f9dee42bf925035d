package syncx

import "sync"

// Stack is a LIFO container where every method is atomic.
// The zero value is ready to use.
type Stack[T any] struct {
	mu    sync.Mutex
	items []T
}

func (s *Stack[T]) Push(v T) {
	s.mu.Lock()
	s.items = append(s.items, v)
	s.mu.Unlock()
}

// Pop removes the top element or returns ErrEmpty.
func (s *Stack[T]) Pop() (T, error) {
	v, ok := s.TryPop()
	if !ok {
		return v, ErrEmpty
	}
	return v, nil
}

// TryPop removes the top element, reporting false when the stack is empty.
func (s *Stack[T]) TryPop() (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var zero T
	n := len(s.items)
	if n == 0 {
		return zero, false
	}
	v := s.items[n-1]
	s.items[n-1] = zero
	s.items = s.items[:n-1]
	return v, true
}

// PopAll empties the stack and returns its contents, top element first.
func (s *Stack[T]) PopAll() []T {
	s.mu.Lock()
	items := s.items
	s.items = nil
	s.mu.Unlock()

	for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
		items[i], items[j] = items[j], items[i]
	}
	return items
}

// Swap exchanges the contents of s and other.
func (s *Stack[T]) Swap(other *Stack[T]) {
	if s == other {
		return
	}
	unlock := LockPair(&s.mu, &other.mu)
	defer unlock()
	s.items, other.items = other.items, s.items
}

func (s *Stack[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

func (s *Stack[T]) Empty() bool { return s.Len() == 0 }
