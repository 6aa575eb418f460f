package pqueue

import (
	"container/heap"
)

// PriorityQueue is a min-heap ordered by the supplied LessFunc.
// It is not safe for concurrent use.
type PriorityQueue[T any] struct {
	h *baseHeap[T]
}

func NewPriorityQueue[T any](f LessFunc[T], size int, data ...T) *PriorityQueue[T] {
	h := data

	if h == nil {
		h = make([]T, 0, size)
	}

	pq := &PriorityQueue[T]{
		h: newHeap[T](f, h),
	}
	heap.Init(pq.h)
	return pq
}

func (pq *PriorityQueue[T]) Push(item T) {
	heap.Push(pq.h, item)
}

func (pq *PriorityQueue[T]) Pop() T {
	return heap.Pop(pq.h).(T)
}

// Peek returns the smallest item. It panics on an empty queue.
func (pq *PriorityQueue[T]) Peek() T {
	return pq.h.peek()
}

func (pq *PriorityQueue[T]) Len() int {
	return pq.h.Len()
}

// Reset drops every item but keeps the backing storage.
func (pq *PriorityQueue[T]) Reset() {
	var zero T
	for i := range pq.h.list {
		pq.h.list[i] = zero
	}
	pq.h.list = pq.h.list[:0]
}
