package executor

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/saweima12/minirt/future"
	"github.com/saweima12/minirt/oneshot"
	"github.com/saweima12/minirt/slab"
)

// JoinHandle is the awaitable result of a spawned task. It is itself a
// future: polling it returns Pending until the task completes, then the
// task's output exactly once.
type JoinHandle[T any] struct {
	id string
	rx *oneshot.Receiver[T]
}

// Spawn queues f on rt and returns a handle to its output. f is first polled
// on the next drain pass, never during Spawn. Spawning on a closed runtime
// discards f; the handle then reports ErrTaskDiscarded.
func Spawn[T any](rt *Runtime, f future.Future[T], opts ...SpawnOption) *JoinHandle[T] {
	var cfg spawnConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	tx, rx := oneshot.New[T]()
	h := &JoinHandle[T]{id: uuid.NewString(), rx: rx}

	rt.lifecycle.RLock()
	defer rt.lifecycle.RUnlock()

	if rt.closed.Load() {
		rt.log.Warnw("spawn on closed runtime", "task_id", h.id, "task", cfg.name)
		tx.Close()
		return h
	}

	body := &spawned[T]{fut: f, tx: tx, id: h.id, log: rt.log}
	key := rt.tasks.Insert(func(k slab.Key, t *task) {
		t.id = h.id
		t.name = cfg.name
		t.key = k
		t.body = body
		t.cx = rt.taskContext(k)
		t.spawnedAt = rt.clock.Now()
		t.setState(stateQueued)
	})
	rt.index.Set(h.id, key)
	rt.spawned.Add(1)
	rt.metrics.taskSpawned()
	rt.queue.PushBack(key)

	rt.log.Debugw("task spawned", "task_id", h.id, "task", cfg.name, "slot", key.Index())
	rt.notify()
	return h
}

// ID identifies the task; it is the key accepted by Runtime.Inspect.
func (h *JoinHandle[T]) ID() string {
	return h.id
}

// TryPoll is Poll that reports misuse as an error instead of panicking.
func (h *JoinHandle[T]) TryPoll(cx *future.Context) (future.Poll[T], error) {
	p, err := h.rx.TryPoll(cx)
	switch {
	case err == nil:
		return p, nil
	case errors.Is(err, oneshot.ErrConsumed):
		return p, fmt.Errorf("task %s: %w", h.id, ErrResultConsumed)
	case errors.Is(err, oneshot.ErrReceiverClosed):
		return p, fmt.Errorf("task %s: %w", h.id, ErrHandleDetached)
	case errors.Is(err, oneshot.ErrSenderClosed):
		return p, fmt.Errorf("task %s: %w", h.id, ErrTaskDiscarded)
	default:
		return p, fmt.Errorf("task %s: %w", h.id, err)
	}
}

// Poll panics if the result was already taken or the task was discarded.
func (h *JoinHandle[T]) Poll(cx *future.Context) future.Poll[T] {
	p, err := h.TryPoll(cx)
	if err != nil {
		panic(err)
	}
	return p
}

// Detach gives up the result. The task keeps running and its output is
// dropped when it completes. Polling the handle afterwards reports
// ErrHandleDetached.
func (h *JoinHandle[T]) Detach() {
	h.rx.Close()
}
