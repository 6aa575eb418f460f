package future

// Value returns a future that is ready on its first poll.
func Value[T any](v T) Future[T] {
	return Func[T](func(*Context) Poll[T] {
		return Ready(v)
	})
}

type lazy[T any] struct {
	build func() Future[T]
	inner Future[T]
}

// Lazy defers building the inner future until the first poll.
func Lazy[T any](build func() Future[T]) Future[T] {
	return &lazy[T]{build: build}
}

func (l *lazy[T]) Poll(cx *Context) Poll[T] {
	if l.inner == nil {
		l.inner = l.build()
		l.build = nil
	}
	return l.inner.Poll(cx)
}

type yieldNow struct {
	yielded bool
}

// YieldNow is pending exactly once. It wakes its own task before returning
// Pending so wake-driven schedulers put it straight back on the queue.
func YieldNow() Future[Unit] {
	return &yieldNow{}
}

func (y *yieldNow) Poll(cx *Context) Poll[Unit] {
	if y.yielded {
		return Ready(Unit{})
	}
	y.yielded = true
	cx.Waker().Wake()
	return Pending[Unit]()
}

type then[A, B any] struct {
	first  Future[A]
	next   func(A) Future[B]
	second Future[B]
}

// Then runs first, feeds its output to next and continues with the
// returned future.
func Then[A, B any](first Future[A], next func(A) Future[B]) Future[B] {
	return &then[A, B]{first: first, next: next}
}

func (t *then[A, B]) Poll(cx *Context) Poll[B] {
	if t.second == nil {
		a, ok := t.first.Poll(cx).Get()
		if !ok {
			return Pending[B]()
		}
		t.second = t.next(a)
		t.first, t.next = nil, nil
	}
	return t.second.Poll(cx)
}

// Map transforms the output of f.
func Map[A, B any](f Future[A], fn func(A) B) Future[B] {
	return Func[B](func(cx *Context) Poll[B] {
		a, ok := f.Poll(cx).Get()
		if !ok {
			return Pending[B]()
		}
		return Ready(fn(a))
	})
}

// Seq runs the futures one after another and discards their outputs.
func Seq(steps ...Future[Unit]) Future[Unit] {
	i := 0
	return Func[Unit](func(cx *Context) Poll[Unit] {
		for i < len(steps) {
			if steps[i].Poll(cx).IsPending() {
				return Pending[Unit]()
			}
			steps[i] = nil
			i++
		}
		return Ready(Unit{})
	})
}
