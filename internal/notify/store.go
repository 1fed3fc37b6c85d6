package notify

import (
	"context"
	"sync"
	"time"
)

// Store keeps recently published toasts so that pages opened later can show
// what they missed.
type Store interface {
	// Save stores t until the retention window passes.
	Save(ctx context.Context, t Toast) error

	// Recent returns up to limit unexpired toasts, newest first.
	Recent(ctx context.Context, limit int) ([]Toast, error)

	Close() error
}

// MemoryStore 内存存储（有容量上限的环形缓冲）
type MemoryStore struct {
	mu        sync.Mutex
	items     []Toast
	capacity  int
	retention time.Duration
	now       func() time.Time
}

// NewMemoryStore returns a store holding at most capacity toasts, each for
// retention. A non-positive capacity defaults to 100.
func NewMemoryStore(capacity int, retention time.Duration) *MemoryStore {
	if capacity <= 0 {
		capacity = 100
	}
	return &MemoryStore{
		items:     make([]Toast, 0, capacity),
		capacity:  capacity,
		retention: retention,
		now:       time.Now,
	}
}

func (s *MemoryStore) Save(_ context.Context, t Toast) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.items) == s.capacity {
		copy(s.items, s.items[1:])
		s.items = s.items[:len(s.items)-1]
	}
	s.items = append(s.items, t)
	return nil
}

func (s *MemoryStore) Recent(_ context.Context, limit int) ([]Toast, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Toast, 0)
	now := s.now()
	for i := len(s.items) - 1; i >= 0; i-- {
		if limit > 0 && len(out) == limit {
			break
		}
		t := s.items[i]
		if s.retention > 0 && now.Sub(t.CreatedAt) > s.retention {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func (s *MemoryStore) Close() error { return nil }
