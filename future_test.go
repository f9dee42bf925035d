package workerpool

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestPromise_SetOnce(t *testing.T) {
	p := NewPromise[int]()
	f := p.Future()

	if f.Ready() {
		t.Fatal("future ready before being set")
	}
	if err := p.SetValue(7); err != nil {
		t.Fatalf("SetValue: %v", err)
	}
	if err := p.SetValue(8); !errors.Is(err, ErrPromiseAlreadySatisfied) {
		t.Fatalf("second SetValue err = %v; want ErrPromiseAlreadySatisfied", err)
	}
	if err := p.SetError(errors.New("late")); !errors.Is(err, ErrPromiseAlreadySatisfied) {
		t.Fatalf("SetError after SetValue err = %v; want ErrPromiseAlreadySatisfied", err)
	}

	v, err := f.Get()
	if err != nil || v != 7 {
		t.Fatalf("Get = (%d, %v); want (7, nil)", v, err)
	}
	if !f.Ready() {
		t.Fatal("future not ready after Get")
	}
}

func TestPromise_ErrorKeepsIdentity(t *testing.T) {
	boom := errors.New("boom")
	p := NewPromise[string]()
	_ = p.SetError(boom)

	_, err := p.Future().Get()
	if err != boom {
		t.Fatalf("Get err = %v; want the original error", err)
	}
}

func TestFuture_WaitForAndContext(t *testing.T) {
	p := NewPromise[int]()
	f := p.Future()

	if f.WaitFor(10 * time.Millisecond) {
		t.Fatal("WaitFor reported ready on an unset future")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if _, err := f.GetContext(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("GetContext err = %v; want deadline exceeded", err)
	}

	go func() {
		time.Sleep(10 * time.Millisecond)
		_ = p.SetValue(3)
	}()
	if !f.WaitFor(time.Second) {
		t.Fatal("WaitFor timed out after value was set")
	}
	if v, err := f.GetContext(context.Background()); err != nil || v != 3 {
		t.Fatalf("GetContext = (%d, %v); want (3, nil)", v, err)
	}
}

func TestPromise_RunRecoversPanic(t *testing.T) {
	p := NewPromise[int]()
	err := p.run(func() (int, error) { panic("kaboom") })

	var pe *PanicError
	if !errors.As(err, &pe) {
		t.Fatalf("run err = %v; want *PanicError", err)
	}
	if pe.Value != "kaboom" {
		t.Fatalf("panic value = %v; want kaboom", pe.Value)
	}
	if pe.Stack == "" {
		t.Fatal("panic stack not captured")
	}
	if _, ferr := p.Future().Get(); ferr != err {
		t.Fatalf("future err = %v; want %v", ferr, err)
	}
}

func TestAsync(t *testing.T) {
	f := Async(func() (int, error) { return 21 * 2, nil })
	v, err := f.Get()
	if err != nil || v != 42 {
		t.Fatalf("Async Get = (%d, %v); want (42, nil)", v, err)
	}
}

func TestDeferredRunsOnFirstWait(t *testing.T) {
	var runs atomic.Int32
	f := Deferred(func() (string, error) {
		runs.Add(1)
		return "lazy", nil
	})

	time.Sleep(10 * time.Millisecond)
	if runs.Load() != 0 {
		t.Fatal("deferred computation ran before anyone waited")
	}
	if f.Ready() {
		t.Fatal("deferred future ready before Get")
	}

	v, err := f.Get()
	if err != nil || v != "lazy" {
		t.Fatalf("Get = (%q, %v); want (lazy, nil)", v, err)
	}
	_, _ = f.Get()
	if runs.Load() != 1 {
		t.Fatalf("deferred computation ran %d times; want 1", runs.Load())
	}
}

func TestDeferredWaitForDoesNotStart(t *testing.T) {
	var runs atomic.Int32
	f := Deferred(func() (int, error) {
		runs.Add(1)
		time.Sleep(200 * time.Millisecond)
		return 1, nil
	})

	begin := time.Now()
	if f.WaitFor(time.Second) {
		t.Fatal("WaitFor reported a deferred future ready before it ran")
	}
	if d := time.Since(begin); d > 100*time.Millisecond {
		t.Fatalf("WaitFor on an unstarted deferred future took %v", d)
	}
	if runs.Load() != 0 {
		t.Fatal("WaitFor started the deferred computation")
	}

	if v, err := f.Get(); err != nil || v != 1 {
		t.Fatalf("Get = (%d, %v); want (1, nil)", v, err)
	}
	if !f.WaitFor(time.Millisecond) {
		t.Fatal("WaitFor not ready after Get")
	}
}
