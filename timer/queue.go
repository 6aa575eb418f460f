package timer

import (
	"sync"
	"time"

	"github.com/saweima12/minirt/future"
	"github.com/saweima12/minirt/pqueue"
)

type entry struct {
	expiration int64
	waker      future.Waker
}

func (e *entry) Expiration() int64 {
	return e.expiration
}

// Queue collects wakers keyed by deadline. It is safe for concurrent use.
type Queue struct {
	mu sync.Mutex
	dq *pqueue.DeadlineQueue[*entry]
}

func NewQueue() *Queue {
	return &Queue{
		dq: pqueue.NewDeadlineQueue[*entry](16),
	}
}

// Register arranges for w to be woken by the first Expire at or after deadline.
func (q *Queue) Register(deadline time.Time, w future.Waker) {
	exp := pqueue.Never
	if !deadline.After(latest) {
		exp = deadline.UnixNano()
	}
	q.mu.Lock()
	q.dq.Offer(&entry{expiration: exp, waker: w})
	q.mu.Unlock()
}

// Expire wakes every waker whose deadline is not after now and returns how
// many were woken. Wakers run without the lock held.
func (q *Queue) Expire(now time.Time) int {
	q.mu.Lock()
	due := q.dq.PopExpired(now.UnixNano())
	q.mu.Unlock()

	for _, e := range due {
		e.waker.Wake()
	}
	return len(due)
}

// Next reports the earliest registered deadline.
func (q *Queue) Next() (time.Time, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	exp, ok := q.dq.NextExpiration()
	if !ok {
		return time.Time{}, false
	}
	return time.Unix(0, exp), true
}

func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.dq.Len()
}

// Clear drops every registration without waking it.
func (q *Queue) Clear() {
	q.mu.Lock()
	q.dq.Clear()
	q.mu.Unlock()
}
