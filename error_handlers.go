package workerpool

import (
	"errors"

	lg "github.com/Andrej220/go-utils/zlog"
)

// reportInternalError reports an internal pool error.
//
// Internal errors are non-task failures such as worker setup issues.
// They are logged and passed to Options.OnInternalError when set.
func (p *Pool) reportInternalError(e error) {
	lg.FromContext(p.opts.Ctx).Error("Pool internal error",
		lg.String("pool", p.opts.Name),
		lg.Any("error", e),
	)
	if p.opts.OnInternalError != nil {
		p.opts.OnInternalError(e)
	}
}

// reportTaskError reports an error returned by a task or produced by
// panic recovery. The error has already been stored in the task's future;
// reporting it does not affect the worker.
func (p *Pool) reportTaskError(err error) {
	var pe *PanicError
	if errors.As(err, &pe) {
		lg.FromContext(p.opts.Ctx).Error("Task panicked",
			lg.String("pool", p.opts.Name),
			lg.Any("panic", pe.Value),
		)
	} else {
		lg.FromContext(p.opts.Ctx).Warn("Task failed",
			lg.String("pool", p.opts.Name),
			lg.Any("error", err),
		)
	}
	if p.opts.OnTaskError != nil {
		p.opts.OnTaskError(err)
	}
}
