package syncx

import (
	"fmt"
	"math"
	"sync"
)

// ViolationPolicy selects what a HierarchicalMutex does when a lock would
// break the hierarchy.
type ViolationPolicy int

const (
	// ReturnError makes Lock and TryLock return *HierarchyViolationError.
	ReturnError ViolationPolicy = iota

	// PanicOnViolation panics with *HierarchyViolationError.
	PanicOnViolation
)

// HierarchyViolationError reports an attempt to lock a mutex whose level is
// not strictly below the level of the lowest lock currently held.
type HierarchyViolationError struct {
	Current   uint64
	Requested uint64
}

func (e *HierarchyViolationError) Error() string {
	return fmt.Sprintf("syncx: mutex hierarchy violation: holding level %d, requested level %d",
		e.Current, e.Requested)
}

// Owner is the lock-hierarchy state of one goroutine.
//
// Go has no goroutine-local storage, so the state a lock hierarchy needs
// is carried explicitly: every goroutine that takes hierarchical locks owns
// exactly one Owner and passes it to Lock/Unlock. An Owner must not be
// shared between goroutines. The zero value holds no locks.
type Owner struct {
	held []uint64
}

// Level returns the level of the most recently acquired lock still held,
// or math.MaxUint64 when nothing is held.
func (o *Owner) Level() uint64 {
	if len(o.held) == 0 {
		return math.MaxUint64
	}
	return o.held[len(o.held)-1]
}

func (o *Owner) push(level uint64) { o.held = append(o.held, level) }

func (o *Owner) release(level uint64) {
	for i := len(o.held) - 1; i >= 0; i-- {
		if o.held[i] == level {
			o.held = append(o.held[:i], o.held[i+1:]...)
			return
		}
	}
}

// HierarchicalMutex is a mutex with a fixed layer number. A goroutine may
// only lock it while every lock it already holds has a strictly higher
// level, which rules out lock-order inversions between goroutines that
// follow the same hierarchy.
type HierarchicalMutex struct {
	mu     sync.Mutex
	level  uint64
	policy ViolationPolicy
}

// NewHierarchicalMutex returns a mutex at the given level.
func NewHierarchicalMutex(level uint64, policy ViolationPolicy) *HierarchicalMutex {
	return &HierarchicalMutex{level: level, policy: policy}
}

// Level returns the mutex's layer number.
func (m *HierarchicalMutex) Level() uint64 { return m.level }

// Lock acquires the mutex on behalf of o.
func (m *HierarchicalMutex) Lock(o *Owner) error {
	if err := m.check(o); err != nil {
		return err
	}
	m.mu.Lock()
	o.push(m.level)
	return nil
}

// TryLock acquires the mutex on behalf of o without blocking.
// The hierarchy is checked before the attempt.
func (m *HierarchicalMutex) TryLock(o *Owner) (bool, error) {
	if err := m.check(o); err != nil {
		return false, err
	}
	if !m.mu.TryLock() {
		return false, nil
	}
	o.push(m.level)
	return true, nil
}

// Unlock releases the mutex and restores o's previous level.
func (m *HierarchicalMutex) Unlock(o *Owner) {
	o.release(m.level)
	m.mu.Unlock()
}

func (m *HierarchicalMutex) check(o *Owner) error {
	if cur := o.Level(); cur <= m.level {
		err := &HierarchyViolationError{Current: cur, Requested: m.level}
		if m.policy == PanicOnViolation {
			panic(err)
		}
		return err
	}
	return nil
}
