package workerpool

import (
	"fmt"
	"runtime"
)

// worker is the loop run by every pool goroutine:
//
//	WaitingForTask -> Executing -> WaitingForTask
//	WaitingForTask -> exit marker or termination flag -> return
//
// The termination flag is only read between tasks; a running task is
// never interrupted.
func (p *Pool) worker(id int, ready chan<- error, release <-chan struct{}) {
	if err := p.setupWorker(id); err != nil {
		werr := &WorkerError{Worker: id, Err: err}
		p.reportInternalError(werr)
		ready <- werr
		return
	}
	ready <- nil
	<-release

	for {
		if p.terminating.Load() {
			return
		}
		t := p.queue.WaitPop()
		if t.IsExit() {
			return
		}
		p.execute(t)
	}
}

func (p *Pool) execute(t Task) {
	p.queued.Add(-1)
	p.opts.Metrics.BatchDecQueued(1)

	p.inFlight.Add(1)
	defer p.inFlight.Add(-1)
	t.Invoke()
}

// setupWorker prepares the calling goroutine before it takes tasks.
// A panicking WorkerInit is reported as an error.
func (p *Pool) setupWorker(id int) (err error) {
	if p.opts.PinWorkers {
		runtime.LockOSThread()
		if err := PinToCPU(id % runtime.NumCPU()); err != nil {
			return fmt.Errorf("pin to cpu: %w", err)
		}
	}
	if p.opts.WorkerInit == nil {
		return nil
	}

	defer func() {
		if r := recover(); r != nil {
			err = newPanicError(r)
		}
	}()
	return p.opts.WorkerInit(id)
}

// taskDone records the outcome of one executed task.
func (p *Pool) taskDone(err error) {
	p.executed.Add(1)
	p.opts.Metrics.IncExecuted()
	if err != nil {
		p.failed.Add(1)
		p.opts.Metrics.IncFailed()
		p.reportTaskError(err)
	}
}
