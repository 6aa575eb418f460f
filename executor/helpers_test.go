package executor_test

import (
	"context"
	"testing"
	"time"

	"github.com/saweima12/minirt/future"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// ticks is ready with v on its n-th poll and wakes itself while pending.
func ticks[T any](n int, v T) future.Future[T] {
	return future.Func[T](func(cx *future.Context) future.Poll[T] {
		n--
		if n > 0 {
			cx.Waker().Wake()
			return future.Pending[T]()
		}
		return future.Ready(v)
	})
}

// recorder appends name to log on every poll and finishes on the n-th.
func recorder(log *[]string, name string, n int) future.Future[future.Unit] {
	return future.Func[future.Unit](func(cx *future.Context) future.Poll[future.Unit] {
		*log = append(*log, name)
		n--
		if n > 0 {
			cx.Waker().Wake()
			return future.Pending[future.Unit]()
		}
		return future.Ready(future.Unit{})
	})
}

func forever[T any]() future.Future[T] {
	return future.Func[T](func(*future.Context) future.Poll[T] {
		return future.Pending[T]()
	})
}

func testContext(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}
