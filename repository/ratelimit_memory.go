package repository

import (
	"context"
	"sync"
	"time"

	"chat-gate-service/domain"
)

type rateLimitEntry struct {
	count   int
	resetAt time.Time
}

// InMemoryRateLimit is a fixed window limiter for a single instance
// deployment. Entries whose window has passed are replaced lazily on the
// next request and swept periodically to bound memory growth.
type InMemoryRateLimit struct {
	lock    sync.Mutex
	entries map[string]*rateLimitEntry
	now     func() time.Time
	stop    chan struct{}
}

func NewInMemoryRateLimit(sweepInterval time.Duration) *InMemoryRateLimit {
	store := &InMemoryRateLimit{
		entries: make(map[string]*rateLimitEntry),
		now:     time.Now,
		stop:    make(chan struct{}),
	}
	if sweepInterval > 0 {
		go store.sweepLoop(sweepInterval)
	}
	return store
}

func (s *InMemoryRateLimit) Allow(
	ctx context.Context,
	clientKey string,
	maxRequests int,
	window time.Duration,
) (*domain.RateLimitResult, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	now := s.now()
	entry, ok := s.entries[clientKey]
	if !ok || now.After(entry.resetAt) {
		entry = &rateLimitEntry{
			count:   0,
			resetAt: now.Add(window),
		}
		s.entries[clientKey] = entry
	}

	if entry.count >= maxRequests {
		return &domain.RateLimitResult{
			Allow:     false,
			Remaining: 0,
			ResetAt:   entry.resetAt,
		}, nil
	}

	entry.count++
	return &domain.RateLimitResult{
		Allow:     true,
		Remaining: maxRequests - entry.count,
		ResetAt:   entry.resetAt,
	}, nil
}

func (s *InMemoryRateLimit) Close() error {
	close(s.stop)
	return nil
}

func (s *InMemoryRateLimit) sweepLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-s.stop:
			return
		}
	}
}

func (s *InMemoryRateLimit) sweep() {
	s.lock.Lock()
	defer s.lock.Unlock()

	now := s.now()
	for clientKey, entry := range s.entries {
		if now.After(entry.resetAt) {
			delete(s.entries, clientKey)
		}
	}
}
