package executor

import (
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/saweima12/minirt/future"
	"github.com/saweima12/minirt/oneshot"
	"github.com/saweima12/minirt/slab"
)

type taskState int32

const (
	stateIdle taskState = iota
	stateQueued
	stateRunning
	stateNotified
	stateDone
)

func (s taskState) String() string {
	switch s {
	case stateIdle:
		return "idle"
	case stateQueued:
		return "queued"
	case stateRunning:
		return "running"
	case stateNotified:
		return "notified"
	case stateDone:
		return "done"
	default:
		return "unknown"
	}
}

// pollable erases the output type of a spawned future.
type pollable interface {
	// advance polls once and reports whether the future finished.
	advance(cx *future.Context) bool
	discard()
}

type spawned[T any] struct {
	fut future.Future[T]
	tx  *oneshot.Sender[T]
	id  string
	log *zap.SugaredLogger
}

func (s *spawned[T]) advance(cx *future.Context) bool {
	v, ok := s.fut.Poll(cx).Get()
	if !ok {
		return false
	}
	s.fut = nil
	if err := s.tx.Send(v); err != nil {
		s.log.Debugw("task result dropped", "task_id", s.id, "error", err)
	}
	return true
}

func (s *spawned[T]) discard() {
	s.fut = nil
	s.tx.Close()
}

// task lives in the runtime's slab and is addressed by its key. Fields other
// than state and polls are written once at spawn.
type task struct {
	id        string
	name      string
	key       slab.Key
	body      pollable
	cx        *future.Context
	spawnedAt time.Time

	state atomic.Int32
	polls atomic.Uint64
}

func (t *task) loadState() taskState {
	return taskState(t.state.Load())
}

func (t *task) cas(from, to taskState) bool {
	return t.state.CompareAndSwap(int32(from), int32(to))
}

func (t *task) setState(s taskState) {
	t.state.Store(int32(s))
}

func (t *task) info() TaskInfo {
	return TaskInfo{
		ID:        t.id,
		Name:      t.name,
		State:     t.loadState().String(),
		Polls:     t.polls.Load(),
		SpawnedAt: t.spawnedAt,
	}
}

// taskWaker requeues one task of a parked runtime.
type taskWaker struct {
	rt  *Runtime
	key slab.Key
}

func (w taskWaker) Wake() {
	w.rt.wake(w.key)
}

// TaskInfo is a point-in-time view of a live task.
type TaskInfo struct {
	ID        string
	Name      string
	State     string
	Polls     uint64
	SpawnedAt time.Time
}
