package workerpool

// Task is one entry of the pool's queue: either a regular unit of work or
// an exit marker that tells the worker popping it to leave its loop.
//
// Regular tasks own a type-erased body. The typed callable, its bound
// arguments and its result live in the closure together with the Promise
// the body completes, so every task fits in one homogeneous FIFO.
type Task struct {
	body    func()
	abandon func(error)
	exit    bool
}

func newTask(body func(), abandon func(error)) Task {
	return Task{body: body, abandon: abandon}
}

func exitTask() Task { return Task{exit: true} }

// IsExit reports whether t is an exit marker.
func (t Task) IsExit() bool { return t.exit }

// Invoke runs the task body. It reports true for an exit marker, which
// does no work.
func (t Task) Invoke() (exit bool) {
	if t.exit {
		return true
	}
	t.body()
	return false
}

// Abandon completes the task's future with err without running the body.
func (t Task) Abandon(err error) {
	if t.abandon != nil {
		t.abandon(err)
	}
}
