// Package broadcast fans events out to independent subscribers.
//
// Every subscriber owns a fixed-capacity ring buffer. Publishing never blocks:
// when a buffer is full its oldest entry is overwritten and counted as dropped,
// so a slow consumer loses old data instead of stalling the producer.
package broadcast

import (
	"context"
	"errors"
	"sort"
	"sync"
	"sync/atomic"
)

// DefaultCapacity is the per-subscriber buffer size used when none is given.
const DefaultCapacity = 100

// ErrClosed is returned once a hub or subscription stopped delivering.
var ErrClosed = errors.New("broadcast: closed")

// Hub coordinates subscriptions and event fan-out.
type Hub[T any] struct {
	subs      map[uint64]*Subscription[T]
	onError   func(error)
	capacity  int
	nextID    uint64
	published atomic.Uint64
	mu        sync.RWMutex
	closed    bool
}

// NewHub constructs a Hub whose subscriptions buffer up to capacity events.
func NewHub[T any](capacity int) *Hub[T] {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Hub[T]{subs: make(map[uint64]*Subscription[T]), capacity: capacity}
}

// Publish hands evt to every current subscriber. It never blocks.
func (h *Hub[T]) Publish(_ context.Context, evt T) {
	if h == nil {
		return
	}
	h.mu.RLock()
	if h.closed {
		h.mu.RUnlock()
		return
	}
	subs := make([]*Subscription[T], 0, len(h.subs))
	for _, s := range h.subs {
		subs = append(subs, s)
	}
	h.published.Add(1)
	h.mu.RUnlock()

	for _, s := range subs {
		s.push(evt)
	}
}

// Subscribe registers a new subscription that receives events published from now on.
func (h *Hub[T]) Subscribe() (*Subscription[T], error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil, ErrClosed
	}
	h.nextID++
	s := newSubscription(h, h.nextID, h.capacity)
	h.subs[s.id] = s
	return s, nil
}

// Unsubscribe removes sub from the hub and wakes its consumer. Safe to call twice.
func (h *Hub[T]) Unsubscribe(sub *Subscription[T]) {
	if sub == nil {
		return
	}
	h.mu.Lock()
	delete(h.subs, sub.id)
	h.mu.Unlock()
	sub.close()
}

// Close stops accepting subscriptions and closes every live one.
// Consumers still drain what was buffered before getting ErrClosed.
func (h *Hub[T]) Close() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	subs := h.subs
	h.subs = make(map[uint64]*Subscription[T])
	h.mu.Unlock()

	for _, s := range subs {
		s.close()
	}
}

// SubscriberCount reports the number of live subscriptions.
func (h *Hub[T]) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Published reports how many events were accepted since the hub was created.
func (h *Hub[T]) Published() uint64 {
	return h.published.Load()
}

// Stats returns per-subscription counters ordered by subscription id.
func (h *Hub[T]) Stats() []Stats {
	h.mu.RLock()
	out := make([]Stats, 0, len(h.subs))
	for _, s := range h.subs {
		out = append(out, s.Stats())
	}
	h.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// SetErrorHandler configures a callback for observer failures in Attach.
func (h *Hub[T]) SetErrorHandler(fn func(error)) {
	h.mu.Lock()
	h.onError = fn
	h.mu.Unlock()
}

// Attach subscribes obs and feeds it from its own goroutine until ctx ends or
// the hub closes. The returned channel is closed when the forwarder exits.
func (h *Hub[T]) Attach(ctx context.Context, obs Observer[T]) (<-chan struct{}, error) {
	sub, err := h.Subscribe()
	if err != nil {
		return nil, err
	}
	sub.mu.Lock()
	sub.attached = true
	sub.mu.Unlock()

	done := make(chan struct{})
	go func() {
		defer close(done)
		defer h.Unsubscribe(sub)
		for {
			evt, err := sub.Next(ctx)
			if err != nil {
				return
			}
			if err := obs.Notify(ctx, evt); err != nil {
				h.reportError(err)
			}
		}
	}()
	return done, nil
}

func (h *Hub[T]) reportError(err error) {
	h.mu.RLock()
	fn := h.onError
	h.mu.RUnlock()
	if fn != nil {
		fn(err)
	}
}
