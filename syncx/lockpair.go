package syncx

import (
	"runtime"
	"sync"
)

// TryLocker is a sync.Locker that also supports a non-blocking attempt.
// *sync.Mutex and *sync.RWMutex both satisfy it.
type TryLocker interface {
	sync.Locker
	TryLock() bool
}

// LockPair locks a and b together and returns a function releasing both.
//
// Locking two instances of the same type in argument order deadlocks as
// soon as two goroutines call the same operation with the arguments
// swapped. LockPair never holds one lock while blocking on the other: it
// blocks on the first, tries the second, and on failure releases the first
// and retries with the order flipped.
func LockPair(a, b TryLocker) (unlock func()) {
	if a == b {
		a.Lock()
		return a.Unlock
	}

	first, second := a, b
	for {
		first.Lock()
		if second.TryLock() {
			return func() {
				second.Unlock()
				first.Unlock()
			}
		}
		first.Unlock()
		runtime.Gosched()
		first, second = second, first
	}
}
