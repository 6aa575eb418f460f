// Package future defines the pollable computation model used by the runtime:
// a Future is advanced by calling Poll until it reports a ready value.
package future

// Unit is the output of futures that only signal completion.
type Unit = struct{}

// Poll is the outcome of advancing a Future once.
type Poll[T any] struct {
	value T
	ready bool
}

func Ready[T any](v T) Poll[T] {
	return Poll[T]{value: v, ready: true}
}

func Pending[T any]() Poll[T] {
	return Poll[T]{}
}

func (p Poll[T]) IsReady() bool {
	return p.ready
}

func (p Poll[T]) IsPending() bool {
	return !p.ready
}

// Get returns the value and whether it is ready.
func (p Poll[T]) Get() (T, bool) {
	return p.value, p.ready
}

// Value returns the ready value, or the zero value while pending.
func (p Poll[T]) Value() T {
	return p.value
}

// Future is a suspendable computation. Poll must not block: a future that
// cannot make progress returns Pending and relies on the caller polling it
// again, optionally after arranging for cx.Waker() to be called.
//
// A future must not be polled again after it returned Ready.
type Future[T any] interface {
	Poll(cx *Context) Poll[T]
}

// Func adapts a closure to the Future interface.
type Func[T any] func(cx *Context) Poll[T]

func (f Func[T]) Poll(cx *Context) Poll[T] {
	return f(cx)
}
