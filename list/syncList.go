package list

import (
	"sync"
)

// SyncList guards a GenericList with a mutex. The lock is only held for the
// duration of a single call.
type SyncList[T comparable] struct {
	gl    *GenericList[T]
	mutex sync.Mutex
}

func NewSync[T comparable]() *SyncList[T] {
	return &SyncList[T]{
		gl: NewGeneric[T](),
	}
}

func (tl *SyncList[T]) PushBack(values ...T) {
	tl.mutex.Lock()
	tl.gl.PushBack(values...)
	tl.mutex.Unlock()
}

func (tl *SyncList[T]) PopAll() []T {
	tl.mutex.Lock()
	defer tl.mutex.Unlock()
	return tl.gl.PopAll()
}

func (tl *SyncList[T]) Len() int {
	tl.mutex.Lock()
	defer tl.mutex.Unlock()
	return tl.gl.Len()
}
