// Package syncx holds small synchronization helpers used alongside the
// worker pool: a pairwise deadlock-free lock helper, a runtime-checked lock
// hierarchy, and a mutex-guarded stack.
//
// None of the types here spawn goroutines. They are meant to be embedded in
// larger structures that need to lock two instances of the same type at
// once (LockPair), or that want lock-ordering mistakes reported at runtime
// instead of surfacing as a deadlock in production (HierarchicalMutex).
package syncx

import "errors"

// ErrEmpty is returned by non-waiting pops on an empty container.
var ErrEmpty = errors.New("syncx: container is empty")
