package future

type Pair[A, B any] struct {
	First  A
	Second B
}

type Triple[A, B, C any] struct {
	First  A
	Second B
	Third  C
}

// slot remembers the output of a member once it completed so the member is
// never polled again.
type slot[T any] struct {
	f    Future[T]
	val  T
	done bool
}

func (s *slot[T]) poll(cx *Context) bool {
	if s.done {
		return true
	}
	if v, ok := s.f.Poll(cx).Get(); ok {
		s.val, s.done, s.f = v, true, nil
	}
	return s.done
}

// Join2 polls both futures on every poll and completes once both have.
func Join2[A, B any](a Future[A], b Future[B]) Future[Pair[A, B]] {
	sa, sb := &slot[A]{f: a}, &slot[B]{f: b}
	return Func[Pair[A, B]](func(cx *Context) Poll[Pair[A, B]] {
		da := sa.poll(cx)
		db := sb.poll(cx)
		if !da || !db {
			return Pending[Pair[A, B]]()
		}
		return Ready(Pair[A, B]{First: sa.val, Second: sb.val})
	})
}

func Join3[A, B, C any](a Future[A], b Future[B], c Future[C]) Future[Triple[A, B, C]] {
	sa, sb, sc := &slot[A]{f: a}, &slot[B]{f: b}, &slot[C]{f: c}
	return Func[Triple[A, B, C]](func(cx *Context) Poll[Triple[A, B, C]] {
		da := sa.poll(cx)
		db := sb.poll(cx)
		dc := sc.poll(cx)
		if !da || !db || !dc {
			return Pending[Triple[A, B, C]]()
		}
		return Ready(Triple[A, B, C]{First: sa.val, Second: sb.val, Third: sc.val})
	})
}

// JoinAll is Join2 for any number of futures with the same output type.
// Outputs keep the order of fs.
func JoinAll[T any](fs ...Future[T]) Future[[]T] {
	slots := make([]slot[T], len(fs))
	for i := range fs {
		slots[i].f = fs[i]
	}
	return Func[[]T](func(cx *Context) Poll[[]T] {
		all := true
		for i := range slots {
			if !slots[i].poll(cx) {
				all = false
			}
		}
		if !all {
			return Pending[[]T]()
		}
		out := make([]T, len(slots))
		for i := range slots {
			out[i] = slots[i].val
		}
		return Ready(out)
	})
}
