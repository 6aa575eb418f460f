package pqueue

import "math"

// Never is the expiration of an item that must never expire.
const Never = int64(math.MaxInt64)

type Delayer interface {
	Expiration() int64
}

// DeadlineQueue orders Delayers by expiration and hands back the ones that
// are due. Unlike a timer-driven queue it owns no goroutine: the caller
// decides when to look at the clock.
type DeadlineQueue[T Delayer] struct {
	pq *PriorityQueue[T]
}

func delayerLess[T Delayer](i, j T) bool {
	return i.Expiration() < j.Expiration()
}

func NewDeadlineQueue[T Delayer](size int) *DeadlineQueue[T] {
	return &DeadlineQueue[T]{
		pq: NewPriorityQueue[T](delayerLess[T], size),
	}
}

// Offer adds an item. Items expiring at Never are dropped.
func (dq *DeadlineQueue[T]) Offer(item T) bool {
	if item.Expiration() == Never {
		return false
	}
	dq.pq.Push(item)
	return true
}

// PopExpired removes and returns every item whose expiration is <= now,
// earliest first.
func (dq *DeadlineQueue[T]) PopExpired(now int64) []T {
	var expired []T
	for dq.pq.Len() > 0 && dq.pq.Peek().Expiration() <= now {
		expired = append(expired, dq.pq.Pop())
	}
	return expired
}

// NextExpiration reports the earliest pending expiration.
func (dq *DeadlineQueue[T]) NextExpiration() (int64, bool) {
	if dq.pq.Len() == 0 {
		return 0, false
	}
	return dq.pq.Peek().Expiration(), true
}

func (dq *DeadlineQueue[T]) Len() int {
	return dq.pq.Len()
}

func (dq *DeadlineQueue[T]) Clear() {
	dq.pq.Reset()
}
