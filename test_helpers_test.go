package workerpool_test

import (
	"os"
	"runtime"
	"strconv"
	"testing"
	"time"

	wp "github.com/Andrej220/go-utils/tpool"
)

func newTestOptions(workers int) wp.Options {
	return wp.Options{
		Workers: workers,
		Name:    "test",
		Retry:   wp.RetryPolicy{Attempts: 3, Initial: 5 * time.Millisecond, Max: 10 * time.Millisecond},
	}
}

func newTestPool(t *testing.T, workers int) *wp.Pool {
	t.Helper()

	p, err := wp.New(newTestOptions(workers))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = p.Close() })
	return p
}

func waitUntil(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		runtime.Gosched()
	}
	t.Fatal("condition not satisfied before timeout")
}

func getenvInt(name string, def int) int {
	if v := os.Getenv(name); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}
