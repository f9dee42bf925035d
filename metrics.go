package workerpool

import (
	"sync/atomic"
)

// MetricsPolicy defines hooks used by the worker pool to report
// queueing and execution activity.
//
// Implementations must be safe for concurrent use.
// All methods are expected to be lightweight and non-blocking.
type MetricsPolicy interface {

	// IncQueued increments the queued tasks counter.
	IncQueued()

	// BatchDecQueued decrements the queued counter by n.
	//
	// Workers report one at a time; shutdown reports every task it
	// discards at once.
	BatchDecQueued(n int64)

	// IncExecuted increments the executed tasks counter.
	IncExecuted()

	// IncFailed increments the counter of tasks that returned an error
	// or panicked.
	IncFailed()
}

// AtomicMetrics is a lock-free metrics implementation backed by atomics.
//
// Writes are optimized for hot paths.
// Reads are intended for cold-path observation.
type AtomicMetrics struct {
	// executed is the total number of tasks processed.
	executed atomic.Uint64

	_ [56]byte // padding to avoid false sharing

	// queued is the current number of tasks enqueued.
	queued atomic.Int64

	_ [56]byte

	failed atomic.Uint64
}

// Executed returns the total number of executed tasks.
func (m *AtomicMetrics) Executed() uint64 {
	return m.executed.Load()
}

// Queued returns the current number of queued tasks.
func (m *AtomicMetrics) Queued() int64 {
	return m.queued.Load()
}

// Failed returns the number of tasks that ended with an error.
func (m *AtomicMetrics) Failed() uint64 {
	return m.failed.Load()
}

func (m *AtomicMetrics) IncExecuted() {
	m.executed.Add(1)
}

func (m *AtomicMetrics) IncQueued() {
	m.queued.Add(1)
}

func (m *AtomicMetrics) BatchDecQueued(n int64) {
	m.queued.Add(-n)
}

func (m *AtomicMetrics) IncFailed() {
	m.failed.Add(1)
}

//------------- NoopMetrics ----------------------------------

// NoopMetrics is a MetricsPolicy implementation that discards
// all metric updates.
type NoopMetrics struct{}

func (m *NoopMetrics) IncExecuted()           {}
func (m *NoopMetrics) IncQueued()             {}
func (m *NoopMetrics) BatchDecQueued(n int64) {}
func (m *NoopMetrics) IncFailed()             {}
