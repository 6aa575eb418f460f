// Package oneshot is a single-producer single-consumer slot that carries
// exactly one value from a Sender to a Receiver.
package oneshot

import (
	"errors"
	"sync"

	"github.com/saweima12/minirt/future"
)

var (
	ErrConsumed       = errors.New("oneshot: value already consumed")
	ErrSenderClosed   = errors.New("oneshot: sender closed without a value")
	ErrReceiverClosed = errors.New("oneshot: receiver closed")
	ErrAlreadySent    = errors.New("oneshot: value already sent")
)

type state uint8

const (
	stateEmpty state = iota
	stateFull
	stateTaken
	stateSenderClosed
)

type shared[T any] struct {
	mu             sync.Mutex
	value          T
	state          state
	receiverClosed bool
	waker          future.Waker
}

type Sender[T any] struct {
	s *shared[T]
}

type Receiver[T any] struct {
	s *shared[T]
}

func New[T any]() (*Sender[T], *Receiver[T]) {
	s := &shared[T]{}
	return &Sender[T]{s: s}, &Receiver[T]{s: s}
}

// Send stores v and wakes the receiver if it is waiting.
func (tx *Sender[T]) Send(v T) error {
	s := tx.s
	s.mu.Lock()
	if s.receiverClosed {
		s.mu.Unlock()
		return ErrReceiverClosed
	}
	if s.state != stateEmpty {
		s.mu.Unlock()
		return ErrAlreadySent
	}
	s.value = v
	s.state = stateFull
	w := s.waker
	s.waker = nil
	s.mu.Unlock()

	if w != nil {
		w.Wake()
	}
	return nil
}

// Close drops the sender without a value. The receiver is not woken; it
// observes ErrSenderClosed on its next poll.
func (tx *Sender[T]) Close() {
	s := tx.s
	s.mu.Lock()
	if s.state == stateEmpty {
		s.state = stateSenderClosed
	}
	s.waker = nil
	s.mu.Unlock()
}

// TryPoll is Poll with the contract violations returned as errors.
func (rx *Receiver[T]) TryPoll(cx *future.Context) (future.Poll[T], error) {
	s := rx.s
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.receiverClosed {
		return future.Pending[T](), ErrReceiverClosed
	}
	switch s.state {
	case stateFull:
		var zero T
		v := s.value
		s.value = zero
		s.state = stateTaken
		return future.Ready(v), nil
	case stateTaken:
		return future.Pending[T](), ErrConsumed
	case stateSenderClosed:
		return future.Pending[T](), ErrSenderClosed
	}
	s.waker = cx.Waker()
	return future.Pending[T](), nil
}

// Poll returns the value exactly once. Polling again after that, after the
// sender was closed, or after Close, panics.
func (rx *Receiver[T]) Poll(cx *future.Context) future.Poll[T] {
	p, err := rx.TryPoll(cx)
	if err != nil {
		panic(err)
	}
	return p
}

// Close gives up interest in the value. Any value already sent is dropped
// and later polls report ErrReceiverClosed.
func (rx *Receiver[T]) Close() {
	s := rx.s
	s.mu.Lock()
	var zero T
	s.receiverClosed = true
	s.value = zero
	s.waker = nil
	s.mu.Unlock()
}
