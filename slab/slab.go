// Package slab is a paged arena with stable slots. A value inserted into a
// slab stays at the same address until it is removed: pages are allocated
// once and never resized or copied.
package slab

import (
	"sync"
)

const defaultPageSize = 64

// Key addresses a slot. The generation makes keys of removed values stale,
// so a slot reused by a later Insert is not reachable through an old key.
type Key struct {
	index uint32
	gen   uint32
}

func (k Key) Index() uint32 {
	return k.index
}

type entry[T any] struct {
	value    T
	gen      uint32
	occupied bool
}

// Slab is safe for concurrent use. Pointers returned by Get stay
// valid until the key is removed; synchronising access to the pointed-to
// value is up to the caller.
type Slab[T any] struct {
	mu       sync.Mutex
	pageSize uint32
	pages    [][]entry[T]
	free     []uint32
	next     uint32
	length   int
}

// New creates a slab whose pages hold pageSize slots; pageSize <= 0 picks a default.
func New[T any](pageSize int) *Slab[T] {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	return &Slab[T]{pageSize: uint32(pageSize)}
}

// Insert reserves a zeroed slot, lets init fill it in place under the slab
// lock and returns its key. init may be nil.
func (s *Slab[T]) Insert(init func(k Key, v *T)) Key {
	s.mu.Lock()
	defer s.mu.Unlock()

	var idx uint32
	if n := len(s.free); n > 0 {
		idx = s.free[n-1]
		s.free = s.free[:n-1]
	} else {
		idx = s.next
		s.next++
		if int(idx/s.pageSize) == len(s.pages) {
			s.pages = append(s.pages, make([]entry[T], s.pageSize))
		}
	}

	e := s.at(idx)
	e.occupied = true
	s.length++
	k := Key{index: idx, gen: e.gen}
	if init != nil {
		init(k, &e.value)
	}
	return k
}

// Get returns the value for k, or nil if k is stale.
func (s *Slab[T]) Get(k Key) *T {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.lookup(k)
	if e == nil {
		return nil
	}
	return &e.value
}

// Do calls fn with the value for k while holding the slab lock. It reports
// false if k is stale. fn must not call back into the slab.
func (s *Slab[T]) Do(k Key, fn func(v *T)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.lookup(k)
	if e == nil {
		return false
	}
	fn(&e.value)
	return true
}

// Remove frees the slot for k and reports whether it was occupied.
func (s *Slab[T]) Remove(k Key) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.lookup(k)
	if e == nil {
		return false
	}
	s.release(k.index, e)
	return true
}

// Drain removes every value, calling fn on each before its slot is freed.
func (s *Slab[T]) Drain(fn func(k Key, v *T)) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for idx := uint32(0); idx < s.next; idx++ {
		e := s.at(idx)
		if !e.occupied {
			continue
		}
		if fn != nil {
			fn(Key{index: idx, gen: e.gen}, &e.value)
		}
		s.release(idx, e)
		n++
	}
	return n
}

func (s *Slab[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.length
}

func (s *Slab[T]) at(idx uint32) *entry[T] {
	return &s.pages[idx/s.pageSize][idx%s.pageSize]
}

func (s *Slab[T]) lookup(k Key) *entry[T] {
	if k.index >= s.next {
		return nil
	}
	e := s.at(k.index)
	if !e.occupied || e.gen != k.gen {
		return nil
	}
	return e
}

func (s *Slab[T]) release(idx uint32, e *entry[T]) {
	var zero T
	e.value = zero
	e.occupied = false
	e.gen++
	s.free = append(s.free, idx)
	s.length--
}
