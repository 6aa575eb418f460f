package pqueue

type LessFunc[T any] func(i, j T) bool

// baseHeap implements container/heap.Interface over a slice.
type baseHeap[T any] struct {
	lessFunc LessFunc[T]
	list     []T
}

func newHeap[T any](lessFunc LessFunc[T], data []T) *baseHeap[T] {
	return &baseHeap[T]{
		lessFunc: lessFunc,
		list:     data,
	}
}

func (bh *baseHeap[T]) Len() int {
	return len(bh.list)
}

func (bh *baseHeap[T]) Less(i int, j int) bool {
	return bh.lessFunc(bh.list[i], bh.list[j])
}

func (bh *baseHeap[T]) Swap(i int, j int) {
	bh.list[i], bh.list[j] = bh.list[j], bh.list[i]
}

func (bh *baseHeap[T]) Push(x any) {
	bh.list = append(bh.list, x.(T))
}

func (bh *baseHeap[T]) Pop() any {
	var zero T
	n := len(bh.list)
	rtn := bh.list[n-1] // get tail element.
	bh.list[n-1] = zero
	bh.list = bh.list[0 : n-1]
	return rtn
}

func (bh *baseHeap[T]) peek() T {
	return bh.list[0]
}
