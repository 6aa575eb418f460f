package executor

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"k8s.io/utils/clock"

	"github.com/saweima12/minirt/future"
	"github.com/saweima12/minirt/list"
	"github.com/saweima12/minirt/shardmap"
	"github.com/saweima12/minirt/slab"
	"github.com/saweima12/minirt/timer"
)

// Runtime schedules spawned tasks. A *Runtime is a shared handle: every copy
// of the pointer spawns onto the same queue.
type Runtime struct {
	id          string
	mode        Mode
	clock       clock.Clock
	baseLog     *zap.Logger
	log         *zap.SugaredLogger
	maxPasses   uint64
	idleTimeout time.Duration
	beforePass  func(pass uint64)
	registerer  prometheus.Registerer
	metrics     *metrics

	tasks  *slab.Slab[task]
	queue  *list.SyncList[slab.Key]
	index  *shardmap.ShardMap[slab.Key]
	timers *timer.Queue

	// lifecycle orders Spawn against Close and drive start.
	lifecycle sync.RWMutex
	running   atomic.Bool
	closed    atomic.Bool

	parkMu    sync.Mutex
	parked    future.Waker
	signal    chan struct{}
	loopWaker future.Waker

	spawned   atomic.Uint64
	completed atomic.Uint64
	polls     atomic.Uint64
	passes    atomic.Uint64
}

func New(opts ...Option) *Runtime {
	rt := &Runtime{
		id:      uuid.NewString(),
		mode:    ModeBusyPoll,
		clock:   clock.RealClock{},
		baseLog: zap.NewNop(),
		tasks:   slab.New[task](0),
		queue:   list.NewSync[slab.Key](),
		index:   shardmap.New[slab.Key](),
		timers:  timer.NewQueue(),
		signal:  make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(rt)
	}

	rt.log = rt.baseLog.Sugar().With("runtime", rt.id)
	rt.metrics = newMetrics(rt.registerer, rt.id)
	rt.loopWaker = future.WakerFunc(func() {
		select {
		case rt.signal <- struct{}{}:
		default:
		}
	})

	rt.log.Debugw("runtime created", "mode", rt.mode.String())
	return rt
}

func (rt *Runtime) ID() string {
	return rt.id
}

func (rt *Runtime) Mode() Mode {
	return rt.mode
}

func (rt *Runtime) Clock() clock.Clock {
	return rt.clock
}

// Sleep returns a future that completes once d has elapsed on the runtime's
// clock. The deadline is fixed now, not at first poll.
func (rt *Runtime) Sleep(d time.Duration) *timer.Sleep {
	return timer.New(rt.clock, d)
}

// Close discards every task that has not completed. Their join handles
// report ErrTaskDiscarded and no completion is delivered. Close fails with
// ErrAlreadyRunning while the runtime is being driven.
func (rt *Runtime) Close() error {
	rt.lifecycle.Lock()
	defer rt.lifecycle.Unlock()

	if rt.running.Load() {
		return ErrAlreadyRunning
	}
	if !rt.closed.CompareAndSwap(false, true) {
		return nil
	}

	rt.queue.PopAll()
	n := rt.tasks.Drain(func(_ slab.Key, t *task) {
		t.setState(stateDone)
		if t.body != nil {
			t.body.discard()
		}
	})
	rt.index.Clear()
	rt.timers.Clear()
	rt.metrics.discarded(n)

	rt.log.Infow("runtime closed", "discarded", n)
	return nil
}

type Stats struct {
	Spawned   uint64
	Completed uint64
	Polls     uint64
	Passes    uint64
	Queued    int
	Live      int
	Timers    int
}

func (rt *Runtime) Stats() Stats {
	return Stats{
		Spawned:   rt.spawned.Load(),
		Completed: rt.completed.Load(),
		Polls:     rt.polls.Load(),
		Passes:    rt.passes.Load(),
		Queued:    rt.queue.Len(),
		Live:      rt.tasks.Len(),
		Timers:    rt.timers.Len(),
	}
}

// Inspect looks up a live task by the ID of its join handle.
func (rt *Runtime) Inspect(id string) (TaskInfo, bool) {
	key, ok := rt.index.Get(id)
	if !ok {
		return TaskInfo{}, false
	}

	var info TaskInfo
	found := rt.tasks.Do(key, func(t *task) {
		info = t.info()
	})
	return info, found
}

// Tasks lists every live task, in no particular order.
func (rt *Runtime) Tasks() []TaskInfo {
	infos := make([]TaskInfo, 0, rt.index.Length())
	rt.index.Range(func(_ string, key slab.Key) bool {
		rt.tasks.Do(key, func(t *task) {
			infos = append(infos, t.info())
		})
		return true
	})
	return infos
}

func (rt *Runtime) taskContext(key slab.Key) *future.Context {
	if rt.mode == ModeBusyPoll {
		return future.NewContext(future.NoopWaker(), nil)
	}
	return future.NewContext(taskWaker{rt: rt, key: key}, rt.timers)
}

// wake moves an idle task back onto the queue, or flags a running one so it
// is requeued after its current poll. Wakes on finished or queued tasks are
// dropped.
func (rt *Runtime) wake(key slab.Key) {
	enqueue := false
	rt.tasks.Do(key, func(t *task) {
		for {
			switch t.loadState() {
			case stateIdle:
				if t.cas(stateIdle, stateQueued) {
					enqueue = true
					return
				}
			case stateRunning:
				if t.cas(stateRunning, stateNotified) {
					return
				}
			default:
				return
			}
		}
	})
	if enqueue {
		rt.queue.PushBack(key)
		rt.notify()
	}
}

// notify unparks the driving loop if it is waiting.
func (rt *Runtime) notify() {
	rt.parkMu.Lock()
	w := rt.parked
	rt.parked = nil
	rt.parkMu.Unlock()

	if w != nil {
		w.Wake()
	}
}

func (rt *Runtime) setParked(w future.Waker) {
	rt.parkMu.Lock()
	rt.parked = w
	rt.parkMu.Unlock()
}
