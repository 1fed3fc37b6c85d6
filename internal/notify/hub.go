package notify

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/betbot/gobet-dashboard/internal/metrics"
	"github.com/betbot/gobet-dashboard/pkg/logger"
)

// subscriberBuffer is the number of toasts a subscriber may lag behind
// before further toasts are dropped for it.
const subscriberBuffer = 16

// Hub fans published toasts out to every connected notification surface.
type Hub struct {
	store Store
	log   *logrus.Entry

	mu     sync.RWMutex
	subs   map[*Subscription]struct{}
	closed bool
}

// Subscription receives toasts published after it was created.
type Subscription struct {
	hub  *Hub
	c    chan Toast
	once sync.Once
}

// C returns the toast channel. It is closed by Close or when the hub closes.
func (s *Subscription) C() <-chan Toast {
	return s.c
}

// Close unsubscribes. Safe to call more than once.
func (s *Subscription) Close() {
	s.hub.remove(s)
}

// NewHub returns a hub persisting toasts to store. A nil store keeps no
// history.
func NewHub(store Store) *Hub {
	return &Hub{
		store: store,
		log:   logger.WithField("component", "notify_hub"),
		subs:  make(map[*Subscription]struct{}),
	}
}

// Publish stores t and delivers it to all subscribers. Delivery never blocks:
// a subscriber whose buffer is full misses the toast.
func (h *Hub) Publish(ctx context.Context, t Toast) error {
	if h.store != nil {
		if err := h.store.Save(ctx, t); err != nil {
			return fmt.Errorf("save toast: %w", err)
		}
	}

	metrics.ToastsPublished.Add(1)

	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.closed {
		return nil
	}
	for s := range h.subs {
		select {
		case s.c <- t:
		default:
			metrics.ToastsDropped.Add(1)
			h.log.WithField("toast", t.ID).Warn("subscriber lagging, toast dropped")
		}
	}
	h.log.WithFields(logrus.Fields{"toast": t.ID, "level": t.Level, "subscribers": len(h.subs)}).Debug("toast published")
	return nil
}

// Subscribe registers a new subscriber.
func (h *Hub) Subscribe() *Subscription {
	s := &Subscription{hub: h, c: make(chan Toast, subscriberBuffer)}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		close(s.c)
		s.once.Do(func() {})
		return s
	}
	h.subs[s] = struct{}{}
	return s
}

// Recent returns the stored history, newest first.
func (h *Hub) Recent(ctx context.Context, limit int) ([]Toast, error) {
	if h.store == nil {
		return []Toast{}, nil
	}
	return h.store.Recent(ctx, limit)
}

// Subscribers returns the number of live subscriptions.
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Close ends every subscription. The store is not closed.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for s := range h.subs {
		s.once.Do(func() { close(s.c) })
		delete(h.subs, s)
	}
}

func (h *Hub) remove(s *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.subs, s)
	s.once.Do(func() { close(s.c) })
}
