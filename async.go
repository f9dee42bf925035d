package workerpool

// Async runs fn on a goroutine of its own and returns its future.
func Async[T any](fn func() (T, error)) *Future[T] {
	p := NewPromise[T]()
	go func() { _ = p.run(fn) }()
	return p.Future()
}

// Deferred returns a future whose computation runs on the goroutine that
// first calls Get or GetContext on it. Nothing runs until then; WaitFor
// does not start it.
func Deferred[T any](fn func() (T, error)) *Future[T] {
	p := NewPromise[T]()
	f := p.Future()
	f.lazy = func() { _ = p.run(fn) }
	return f
}
