package limiter

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps counters in a process-local map. Suitable for a single
// instance only: counters are lost on restart and not shared between
// replicas.
type MemoryStore struct {
	mu      sync.Mutex
	windows map[string]*window
}

type window struct {
	count   int64
	resetAt time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{windows: make(map[string]*window)}
}

// Incr bumps the counter under a single lock, so the increment and the
// window rollover are one atomic step.
func (s *MemoryStore) Incr(_ context.Context, key string, win time.Duration) (int64, time.Duration, error) {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.windows[key]
	if !ok || !now.Before(w.resetAt) {
		w = &window{resetAt: now.Add(win)}
		s.windows[key] = w
	}
	w.count++
	return w.count, w.resetAt.Sub(now), nil
}

// Sweep drops expired windows. Called periodically so idle keys do not
// accumulate.
func (s *MemoryStore) Sweep() {
	now := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, w := range s.windows {
		if !now.Before(w.resetAt) {
			delete(s.windows, key)
		}
	}
}
