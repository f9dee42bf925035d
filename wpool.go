package workerpool

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	lg "github.com/Andrej220/go-utils/zlog"
	"go.uber.org/multierr"
)

type poolState int

const (
	stateIdle poolState = iota
	stateStarting
	stateRunning
	stateStopping
	stateStopped
)

// Pool runs submitted tasks on a fixed set of worker goroutines fed by a
// single FIFO queue.
//
// Lifecycle: constructed -> Start(n) -> Submit... -> Stop (drains the
// queue) or Terminate (abandons what the workers have not reached) ->
// stopped. A Pool cannot be restarted.
type Pool struct {
	opts  Options
	queue *Queue[Task]

	mu       sync.RWMutex // guards state; held for reading while enqueueing
	state    poolState
	workers  int
	guards   []*Guard
	joinOnce sync.Once
	joined   chan struct{}

	terminating atomic.Bool

	submitted atomic.Int64
	executed  atomic.Int64
	failed    atomic.Int64
	inFlight  atomic.Int64
	queued    atomic.Int64
}

// PoolStats is a point-in-time snapshot of pool activity.
type PoolStats struct {
	Submitted int64 // tasks accepted by Submit
	Executed  int64 // tasks that ran to completion, failed ones included
	Failed    int64 // tasks that returned an error or panicked
	InFlight  int64 // tasks currently executing
	Queued    int64 // tasks waiting in the queue
	Workers   int   // worker count fixed at Start
}

// New creates a pool from opts and starts opts.Workers workers
// (one per CPU when unset).
func New(opts Options) (*Pool, error) {
	p := NewDeferred(opts)
	if err := p.Start(p.opts.Workers); err != nil {
		return nil, err
	}
	return p, nil
}

// NewDeferred creates a pool without starting it. Tasks submitted before
// Start wait in the queue.
func NewDeferred(opts Options) *Pool {
	opts.FillDefaults()
	return &Pool{
		opts:   opts,
		queue:  NewQueue[Task](),
		joined: make(chan struct{}),
	}
}

// Start spawns n workers; n <= 0 means HardwareConcurrency().
//
// A pool starts at most once; later calls return ErrAlreadyStarted. Workers
// take no task until every one of them has finished its setup. If any
// worker fails, none of them runs a task: the pool is terminated, every
// spawned worker joined, the queue abandoned with ErrBrokenPromise and a
// *StartupError returned. Submit does not wait for Start.
func (p *Pool) Start(n int) error {
	p.mu.Lock()
	if p.state != stateIdle {
		p.mu.Unlock()
		return ErrAlreadyStarted
	}
	if n <= 0 {
		n = HardwareConcurrency()
	}

	ready := make(chan error, n)
	release := make(chan struct{})
	p.state = stateStarting
	p.workers = n
	p.guards = make([]*Guard, 0, n)
	for i := range n {
		p.guards = append(p.guards, Spawn(JoinOnClose, func() { p.worker(i, ready, release) }))
	}
	p.mu.Unlock()

	var errs error
	for range n {
		if err := <-ready; err != nil {
			errs = multierr.Append(errs, err)
		}
	}

	p.mu.Lock()
	if errs == nil {
		p.state = stateRunning
		p.mu.Unlock()
		close(release)
		lg.FromContext(p.opts.Ctx).Info("Pool started",
			lg.String("pool", p.opts.Name),
			lg.Int("workers", n),
			lg.Int("queued", p.queue.Len()),
		)
		return nil
	}

	// terminating is set before the workers are released
	p.beginStopLocked(true)
	p.mu.Unlock()
	close(release)

	lg.FromContext(p.opts.Ctx).Error("Pool start failed; rolled back",
		lg.String("pool", p.opts.Name),
		lg.Any("error", errs),
	)
	_ = p.awaitStop(context.Background())
	return &StartupError{Err: errs}
}

// Stop shuts the pool down gracefully: every task queued before the call
// runs, then the workers exit and are joined.
func (p *Pool) Stop() error { return p.Shutdown(context.Background()) }

// Shutdown is Stop bounded by ctx. When ctx ends first it returns ctx.Err()
// and the pool keeps stopping in the background; calling Shutdown or Close
// again waits for the same workers.
func (p *Pool) Shutdown(ctx context.Context) error {
	if err := p.beginStop(false); err != nil {
		return err
	}
	return p.awaitStop(ctx)
}

// Terminate shuts the pool down without draining the queue. Each worker
// finishes its current task and exits; tasks it did not reach complete
// with ErrBrokenPromise. Running tasks are not interrupted.
func (p *Pool) Terminate() error {
	if err := p.beginStop(true); err != nil {
		return err
	}
	return p.awaitStop(context.Background())
}

// Close releases the pool: it stops a running pool gracefully, discards
// the queue of a never-started one and is a no-op afterwards.
func (p *Pool) Close() error {
	p.mu.Lock()
	if p.state == stateIdle {
		p.state = stateStopped
		p.mu.Unlock()
		p.joinOnce.Do(func() { close(p.joined) })
		p.abandonQueued(ErrPoolClosed)
		return nil
	}
	p.mu.Unlock()

	if err := p.Stop(); err != nil && !errors.Is(err, ErrNotRunning) {
		return err
	}
	return nil
}

func (p *Pool) beginStop(terminate bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch p.state {
	case stateRunning:
		p.beginStopLocked(terminate)
		return nil
	case stateStopping:
		if terminate {
			p.terminating.Store(true)
		}
		return nil
	default:
		return ErrNotRunning
	}
}

// beginStopLocked queues one exit marker per worker. Markers queue behind
// all work already submitted; no task can be queued after them because
// enqueue rejects every state but idle and running.
func (p *Pool) beginStopLocked(terminate bool) {
	if terminate {
		p.terminating.Store(true)
	}
	p.state = stateStopping
	for range p.workers {
		p.queue.Push(exitTask())
	}
	lg.FromContext(p.opts.Ctx).Info("Pool stopping",
		lg.String("pool", p.opts.Name),
		lg.Any("terminate", terminate),
	)
}

func (p *Pool) awaitStop(ctx context.Context) error {
	p.joinOnce.Do(func() {
		go func() {
			for _, g := range p.guards {
				_ = g.Close()
			}
			p.mu.Lock()
			p.state = stateStopped
			p.mu.Unlock()

			p.abandonQueued(ErrBrokenPromise)
			lg.FromContext(p.opts.Ctx).Info("Pool stopped",
				lg.String("pool", p.opts.Name),
				lg.Int("executed", int(p.executed.Load())),
			)
			close(p.joined)
		}()
	})

	select {
	case <-p.joined:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// abandonQueued drains the queue and completes every regular task left in
// it with err. Leftover exit markers are dropped.
func (p *Pool) abandonQueued(err error) {
	var n int64
	for _, t := range p.queue.TryPopAll() {
		if t.IsExit() {
			continue
		}
		t.Abandon(err)
		n++
	}
	if n == 0 {
		return
	}
	p.queued.Add(-n)
	p.opts.Metrics.BatchDecQueued(n)
	lg.FromContext(p.opts.Ctx).Warn("Queued tasks abandoned",
		lg.String("pool", p.opts.Name),
		lg.Int("tasks", int(n)),
		lg.Any("reason", err),
	)
}

// enqueue queues t unless the pool is stopping or stopped.
func (p *Pool) enqueue(t Task) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.state >= stateStopping {
		return false
	}
	p.submitted.Add(1)
	p.queued.Add(1)
	p.opts.Metrics.IncQueued()
	p.queue.Push(t)
	return true
}

// ThreadCount returns the number of workers chosen at Start, or 0 before.
func (p *Pool) ThreadCount() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.workers
}

// Name returns the pool name used in logs and metrics.
func (p *Pool) Name() string { return p.opts.Name }

// Stats returns a point-in-time snapshot of pool activity.
// Safe to call concurrently.
func (p *Pool) Stats() PoolStats {
	return PoolStats{
		Submitted: p.submitted.Load(),
		Executed:  p.executed.Load(),
		Failed:    p.failed.Load(),
		InFlight:  p.inFlight.Load(),
		Queued:    p.queued.Load(),
		Workers:   p.ThreadCount(),
	}
}

func (p *Pool) ActiveWorkers() int64 { return p.inFlight.Load() }
func (p *Pool) QueueLength() int64   { return p.queued.Load() }
