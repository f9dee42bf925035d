package workerpool

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestGuard_JoinOnce(t *testing.T) {
	var ran atomic.Bool
	g := Spawn(JoinOnClose, func() {
		time.Sleep(10 * time.Millisecond)
		ran.Store(true)
	})

	if !g.Joinable() {
		t.Fatal("new guard not joinable")
	}
	if err := g.Join(); err != nil {
		t.Fatalf("Join: %v", err)
	}
	if !ran.Load() {
		t.Fatal("Join returned before the goroutine finished")
	}
	if g.Joinable() {
		t.Fatal("guard still joinable after Join")
	}
	if err := g.Join(); !errors.Is(err, ErrNotJoinable) {
		t.Fatalf("second Join err = %v; want ErrNotJoinable", err)
	}
	if err := g.Close(); err != nil {
		t.Fatalf("Close after Join: %v", err)
	}
}

func TestGuard_CloseJoins(t *testing.T) {
	var ran atomic.Bool
	g := Spawn(JoinOnClose, func() {
		time.Sleep(10 * time.Millisecond)
		ran.Store(true)
	})

	if err := g.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !ran.Load() {
		t.Fatal("Close returned before the goroutine finished")
	}
	if err := g.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}

func TestGuard_DetachPolicy(t *testing.T) {
	release := make(chan struct{})
	g := Spawn(DetachOnClose, func() { <-release })

	if err := g.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if g.Joinable() {
		t.Fatal("detached guard still joinable")
	}
	if err := g.Join(); !errors.Is(err, ErrNotJoinable) {
		t.Fatalf("Join after detach err = %v; want ErrNotJoinable", err)
	}

	close(release)
	select {
	case <-g.Done():
	case <-time.After(time.Second):
		t.Fatal("detached goroutine did not finish")
	}
}

func TestGuard_JoinContextTimeout(t *testing.T) {
	release := make(chan struct{})
	g := Spawn(JoinOnClose, func() { <-release })

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if err := g.JoinContext(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("JoinContext err = %v; want deadline exceeded", err)
	}
	if !g.Joinable() {
		t.Fatal("guard must stay joinable after a timed-out join")
	}

	close(release)
	if err := g.Join(); err != nil {
		t.Fatalf("Join: %v", err)
	}
}

func TestGuard_CloseWaitsForPendingJoin(t *testing.T) {
	release := make(chan struct{})
	g := Spawn(JoinOnClose, func() { <-release })

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	joinErr := make(chan error, 1)
	go func() { joinErr <- g.JoinContext(ctx) }()

	deadline := time.Now().Add(time.Second)
	for g.state.Load() != guardJoining {
		if time.Now().After(deadline) {
			t.Fatal("JoinContext never started")
		}
		time.Sleep(time.Millisecond)
	}

	closed := make(chan error, 1)
	go func() { closed <- g.Close() }()

	if err := <-joinErr; !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("JoinContext err = %v; want deadline exceeded", err)
	}
	select {
	case err := <-closed:
		t.Fatalf("Close returned %v before the goroutine finished", err)
	case <-time.After(30 * time.Millisecond):
	}

	close(release)
	select {
	case err := <-closed:
		if err != nil {
			t.Fatalf("Close: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Close did not return after the goroutine finished")
	}
}
