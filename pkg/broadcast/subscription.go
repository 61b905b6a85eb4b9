package broadcast

import (
	"context"
	"sync"
)

// Stats is a point-in-time view of one subscription.
type Stats struct {
	ID       uint64
	Buffered int
	Capacity int
	Dropped  uint64
	// Attached marks subscriptions created by Hub.Attach for a local observer.
	Attached bool
}

// Subscription is an independent delivery handle with its own bounded buffer.
type Subscription[T any] struct {
	hub     *Hub[T]
	wake    chan struct{}
	done    chan struct{}
	buf     []T
	head    int
	count   int
	dropped uint64
	id      uint64
	mu       sync.Mutex
	closed   bool
	attached bool
}

func newSubscription[T any](h *Hub[T], id uint64, capacity int) *Subscription[T] {
	return &Subscription[T]{
		hub:  h,
		id:   id,
		buf:  make([]T, capacity),
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
}

// ID identifies the subscription within its hub.
func (s *Subscription[T]) ID() uint64 { return s.id }

// Done is closed once the subscription stops receiving new events.
func (s *Subscription[T]) Done() <-chan struct{} { return s.done }

// Ready receives a signal after new events were buffered. Drain with TryNext.
func (s *Subscription[T]) Ready() <-chan struct{} { return s.wake }

func (s *Subscription[T]) push(evt T) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	if s.count == len(s.buf) {
		s.buf[s.head] = evt
		s.head = (s.head + 1) % len(s.buf)
		s.dropped++
	} else {
		s.buf[(s.head+s.count)%len(s.buf)] = evt
		s.count++
	}
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// TryNext pops the oldest buffered event without waiting.
func (s *Subscription[T]) TryNext() (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.popLocked()
}

func (s *Subscription[T]) popLocked() (T, bool) {
	var zero T
	if s.count == 0 {
		return zero, false
	}
	evt := s.buf[s.head]
	s.buf[s.head] = zero
	s.head = (s.head + 1) % len(s.buf)
	s.count--
	return evt, true
}

// Next blocks until an event is buffered, ctx ends or the subscription is closed
// and drained (ErrClosed).
func (s *Subscription[T]) Next(ctx context.Context) (T, error) {
	var zero T
	for {
		s.mu.Lock()
		if evt, ok := s.popLocked(); ok {
			s.mu.Unlock()
			return evt, nil
		}
		closed := s.closed
		s.mu.Unlock()
		if closed {
			return zero, ErrClosed
		}

		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-s.wake:
		case <-s.done:
		}
	}
}

// Close detaches the subscription from its hub.
func (s *Subscription[T]) Close() {
	s.hub.Unsubscribe(s)
}

// Stats reports buffer usage and the number of events overwritten so far.
func (s *Subscription[T]) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Stats{ID: s.id, Buffered: s.count, Capacity: len(s.buf), Dropped: s.dropped, Attached: s.attached}
}

func (s *Subscription[T]) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	close(s.done)
}
