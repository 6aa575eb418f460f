package future

import (
	"time"
)

// Waker tells the scheduler that the task it belongs to may be able to make
// progress. It is safe to copy and to call from any goroutine; calling it
// more than once, or after the task finished, is harmless.
type Waker interface {
	Wake()
}

// WakerFunc adapts a function to the Waker interface.
type WakerFunc func()

func (f WakerFunc) Wake() {
	f()
}

type noopWaker struct{}

func (noopWaker) Wake() {}

// NoopWaker returns a waker that does nothing. It fits schedulers that re-poll
// every pending task on each cycle anyway.
func NoopWaker() Waker {
	return noopWaker{}
}

// Timers accepts wake-up requests at an absolute time.
type Timers interface {
	Register(deadline time.Time, w Waker)
}

// Context is handed to every Poll call.
type Context struct {
	waker  Waker
	timers Timers
}

// NewContext builds a context. A nil waker is replaced with NoopWaker;
// timers may be nil when the scheduler re-polls on its own cadence.
func NewContext(w Waker, timers Timers) *Context {
	if w == nil {
		w = NoopWaker()
	}
	return &Context{waker: w, timers: timers}
}

func (cx *Context) Waker() Waker {
	return cx.waker
}

// Timers returns the timer registrar, or nil if the scheduler has none.
func (cx *Context) Timers() Timers {
	return cx.timers
}
