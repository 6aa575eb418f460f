package list

import clist "container/list"

// GenericList is a FIFO of values backed by container/list.
// It is not safe for concurrent use, see SyncList.
type GenericList[T comparable] struct {
	list *clist.List
}

func NewGeneric[T comparable]() *GenericList[T] {
	return &GenericList[T]{
		list: clist.New(),
	}
}

func (gl *GenericList[T]) PushBack(values ...T) {
	for i := range values {
		gl.list.PushBack(values[i])
	}
}

// PopAll removes every element and returns them in insertion order.
func (gl *GenericList[T]) PopAll() []T {
	result := make([]T, 0, gl.list.Len())

	for {
		node := gl.remove(gl.list.Front())
		if node == nil {
			break
		}

		data, ok := node.Value.(T)
		if !ok {
			continue
		}
		result = append(result, data)
	}
	return result
}

func (gl *GenericList[T]) Len() int {
	return gl.list.Len()
}

func (gl *GenericList[T]) remove(node *clist.Element) *clist.Element {
	if node == nil {
		return nil
	}
	gl.list.Remove(node)
	return node
}
