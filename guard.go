package workerpool

import (
	"context"
	"sync/atomic"
)

// Policy decides what Guard.Close does with a goroutine that is still
// joinable.
type Policy int

const (
	// JoinOnClose makes Close block until the goroutine returns.
	JoinOnClose Policy = iota

	// DetachOnClose makes Close release the goroutine and return at once.
	DetachOnClose
)

const (
	guardJoinable int32 = iota
	guardJoining
	guardJoined
	guardDetached
)

// Guard owns one goroutine and makes sure it is joined (or explicitly
// detached) exactly once, whichever way its owner is torn down.
type Guard struct {
	done   chan struct{}
	policy Policy
	state  atomic.Int32
}

// Spawn starts fn on a new goroutine held by a Guard.
func Spawn(policy Policy, fn func()) *Guard {
	g := &Guard{
		done:   make(chan struct{}),
		policy: policy,
	}
	go func() {
		defer close(g.done)
		fn()
	}()
	return g
}

// Joinable reports whether the goroutine was neither joined nor detached.
func (g *Guard) Joinable() bool { return g.state.Load() == guardJoinable }

// Done returns a channel closed when the goroutine returns.
func (g *Guard) Done() <-chan struct{} { return g.done }

// Join blocks until the goroutine returns.
func (g *Guard) Join() error {
	return g.JoinContext(context.Background())
}

// JoinContext is Join bounded by ctx. When ctx ends first the guard stays
// joinable and ctx.Err() is returned.
func (g *Guard) JoinContext(ctx context.Context) error {
	if !g.state.CompareAndSwap(guardJoinable, guardJoining) {
		return ErrNotJoinable
	}
	select {
	case <-g.done:
		g.state.Store(guardJoined)
		return nil
	case <-ctx.Done():
		g.state.Store(guardJoinable)
		return ctx.Err()
	}
}

// Detach lets the goroutine run on its own; the guard stops tracking it.
func (g *Guard) Detach() error {
	if !g.state.CompareAndSwap(guardJoinable, guardDetached) {
		return ErrNotJoinable
	}
	return nil
}

// Close applies the guard's policy if the goroutine is still joinable and
// is a no-op once it was joined or detached. Under JoinOnClose it also
// waits out a Join in progress elsewhere, even if that Join gives up.
func (g *Guard) Close() error {
	for {
		switch g.state.Load() {
		case guardJoinable:
			var err error
			if g.policy == DetachOnClose {
				err = g.Detach()
			} else {
				err = g.Join()
			}
			if err != ErrNotJoinable {
				return err
			}
			// lost a race with another Join/Detach; look again
		case guardJoining:
			if g.policy == JoinOnClose {
				<-g.done
			}
			return nil
		default:
			return nil
		}
	}
}
