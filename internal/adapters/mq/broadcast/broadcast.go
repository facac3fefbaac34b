// Package broadcast fans published values out to subscribers.
//
// Publishing never blocks: a subscriber whose buffer is full loses its oldest
// pending value so that the newest one is always delivered.
package broadcast

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/okian/healthui/pkg/metrics"
)

const defaultBufferSize = 8

// Subscription receives published values on C until it is unsubscribed or the
// hub is closed, at which point C is closed.
type Subscription[T any] struct {
	ID string
	C  <-chan T

	ch chan T
}

// Hub is a set of subscriptions sharing one publisher.
type Hub[T any] struct {
	bufferSize int

	mu     sync.RWMutex
	subs   map[string]*Subscription[T]
	closed bool
}

// New creates a Hub with configuration options.
func New[T any](opts ...Option) *Hub[T] {
	cfg := config{bufferSize: defaultBufferSize}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Hub[T]{
		bufferSize: cfg.bufferSize,
		subs:       make(map[string]*Subscription[T]),
	}
}

// Subscribe registers a new subscriber.
func (h *Hub[T]) Subscribe() (*Subscription[T], error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil, ErrClosed
	}

	ch := make(chan T, h.bufferSize)
	sub := &Subscription[T]{ID: uuid.NewString(), C: ch, ch: ch}
	h.subs[sub.ID] = sub
	metrics.UpdateStreamClients(len(h.subs))
	return sub, nil
}

// Unsubscribe removes sub and closes its channel. It is safe to call more
// than once.
func (h *Hub[T]) Unsubscribe(sub *Subscription[T]) {
	if sub == nil {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.subs[sub.ID]; !ok {
		return
	}
	delete(h.subs, sub.ID)
	close(sub.ch)
	metrics.UpdateStreamClients(len(h.subs))
}

// Publish delivers v to every subscriber and returns how many received it.
func (h *Hub[T]) Publish(ctx context.Context, v T) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return 0
	}

	delivered := 0
	for _, sub := range h.subs {
		if ctx.Err() != nil {
			break
		}
		if h.send(sub.ch, v) {
			delivered++
		}
	}
	return delivered
}

func (h *Hub[T]) send(ch chan T, v T) bool {
	select {
	case ch <- v:
		return true
	default:
	}

	// Full: drop the oldest pending value and retry once.
	select {
	case <-ch:
		metrics.RecordBroadcastDropped()
	default:
	}

	select {
	case ch <- v:
		return true
	default:
		metrics.RecordBroadcastDropped()
		return false
	}
}

// Len returns the number of active subscribers.
func (h *Hub[T]) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Close unsubscribes everyone. Later subscriptions fail with ErrClosed.
func (h *Hub[T]) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil
	}
	h.closed = true
	for id, sub := range h.subs {
		close(sub.ch)
		delete(h.subs, id)
	}
	metrics.UpdateStreamClients(0)
	return nil
}

// IsClosed reports whether Close has been called.
func (h *Hub[T]) IsClosed() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.closed
}
