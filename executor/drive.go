package executor

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/saweima12/minirt/future"
	"github.com/saweima12/minirt/slab"
)

// BlockOn drives root to completion on the calling goroutine, polling queued
// tasks in between, and returns its output. Tasks still pending when root
// completes stay queued for a later BlockOn or Run.
func BlockOn[T any](ctx context.Context, rt *Runtime, root future.Future[T]) (T, error) {
	var out T
	err := rt.drive(ctx, func(cx *future.Context) bool {
		v, ok := root.Poll(cx).Get()
		if ok {
			out = v
		}
		return ok
	})
	return out, err
}

// Run drives queued tasks until none is left.
func (rt *Runtime) Run(ctx context.Context) error {
	return rt.drive(ctx, nil)
}

// Main creates a runtime, drives the future built by build to completion and
// closes the runtime.
func Main[T any](ctx context.Context, build func(rt *Runtime) future.Future[T], opts ...Option) (T, error) {
	rt := New(opts...)
	out, err := BlockOn(ctx, rt, build(rt))
	if cerr := rt.Close(); err == nil {
		err = cerr
	}
	return out, err
}

func (rt *Runtime) acquire() error {
	rt.lifecycle.Lock()
	defer rt.lifecycle.Unlock()

	if rt.closed.Load() {
		return ErrRuntimeClosed
	}
	if !rt.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	return nil
}

func (rt *Runtime) release() {
	rt.running.Store(false)
}

// drive is the scheduling loop shared by BlockOn and Run. Without a root it
// returns once the slab is empty.
func (rt *Runtime) drive(ctx context.Context, root func(cx *future.Context) bool) error {
	if err := rt.acquire(); err != nil {
		return err
	}
	defer rt.release()

	var rootWoken atomic.Bool
	rootWoken.Store(true)

	rootCx := future.NewContext(future.NoopWaker(), nil)
	if rt.mode == ModeParked {
		rootCx = future.NewContext(future.WakerFunc(func() {
			rootWoken.Store(true)
			rt.notify()
		}), rt.timers)
	}

	var pass uint64
	start := rt.clock.Now()
	defer func() {
		rt.log.Debugw("drive finished", "passes", pass, "elapsed", rt.clock.Since(start))
	}()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		if root != nil && (rt.mode == ModeBusyPoll || rootWoken.Swap(false)) {
			if root(rootCx) {
				return nil
			}
		}
		if root == nil && rt.tasks.Len() == 0 {
			return nil
		}

		if rt.mode == ModeParked {
			rt.timers.Expire(rt.clock.Now())
		}

		batch := rt.queue.PopAll()
		if len(batch) == 0 {
			if rt.mode == ModeBusyPoll {
				rt.log.Warnw("nothing runnable while root is pending", "live", rt.tasks.Len())
				return ErrNeverCompleted
			}
			if rootWoken.Load() {
				continue
			}
			if err := rt.park(ctx, &rootWoken); err != nil {
				return err
			}
			continue
		}

		pass++
		if rt.maxPasses > 0 && pass > rt.maxPasses {
			// Put the batch back so a later drive still sees these tasks.
			rt.queue.PushBack(batch...)
			rt.log.Warnw("drain pass limit reached", "max_passes", rt.maxPasses, "queued", len(batch))
			return fmt.Errorf("%w: gave up after %d drain passes", ErrNeverCompleted, rt.maxPasses)
		}

		rt.passes.Add(1)
		rt.metrics.pass(len(batch))
		if rt.beforePass != nil {
			rt.beforePass(pass)
		}

		for _, key := range batch {
			rt.runTask(key)
		}
	}
}

// runTask polls one task once. The queue lock is not held here.
func (rt *Runtime) runTask(key slab.Key) {
	t := rt.tasks.Get(key)
	if t == nil {
		return
	}

	t.setState(stateRunning)
	t.polls.Add(1)
	rt.polls.Add(1)
	rt.metrics.taskPolled()

	if t.body.advance(t.cx) {
		t.setState(stateDone)
		rt.index.Remove(t.id)
		rt.log.Debugw("task completed", "task_id", t.id, "task", t.name, "polls", t.polls.Load())
		rt.tasks.Remove(key)
		rt.completed.Add(1)
		rt.metrics.taskCompleted()
		return
	}

	if rt.mode == ModeBusyPoll {
		t.setState(stateQueued)
		rt.queue.PushBack(key)
		return
	}
	if t.cas(stateRunning, stateIdle) {
		return
	}
	// Woken during its own poll.
	t.setState(stateQueued)
	rt.queue.PushBack(key)
}

// park blocks until a wake, the next timer deadline, the idle timeout or ctx.
func (rt *Runtime) park(ctx context.Context, rootWoken *atomic.Bool) error {
	rt.setParked(rt.loopWaker)
	defer rt.setParked(nil)

	// A wake that raced with setParked left work behind without signalling.
	if rt.queue.Len() > 0 || rootWoken.Load() {
		return nil
	}

	var (
		wait time.Duration
		idle bool
	)
	if next, ok := rt.timers.Next(); ok {
		wait = next.Sub(rt.clock.Now())
		if wait <= 0 {
			return nil
		}
	} else {
		if rt.idleTimeout <= 0 {
			rt.log.Warnw("nothing runnable and no timer pending", "live", rt.tasks.Len())
			return ErrNeverCompleted
		}
		wait, idle = rt.idleTimeout, true
	}

	tm := rt.clock.NewTimer(wait)
	defer tm.Stop()

	select {
	case <-rt.signal:
		return nil
	case <-tm.C():
		if idle {
			return fmt.Errorf("%w: idle for %s", ErrNeverCompleted, rt.idleTimeout)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
