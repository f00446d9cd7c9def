package cache

import (
	"context"
	"sync"
	"time"

	"github.com/fairwayclub/league-engine/internal/platform/resilience"
)

type entry[T any] struct {
	value     T
	expiresAt time.Time
}

// Store is an in-process TTL cache. A zero TTL means entries never expire.
type Store[T any] struct {
	mu      sync.RWMutex
	entries map[string]entry[T]
	ttl     time.Duration
	flight  resilience.Group
	now     func() time.Time
}

func NewStore[T any](ttl time.Duration) *Store[T] {
	return &Store[T]{
		entries: make(map[string]entry[T]),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (s *Store[T]) Get(_ context.Context, key string) (T, bool) {
	var zero T
	if key == "" {
		return zero, false
	}

	now := s.now()
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return zero, false
	}
	if s.ttl > 0 && !e.expiresAt.After(now) {
		s.mu.Lock()
		delete(s.entries, key)
		s.mu.Unlock()
		return zero, false
	}

	return e.value, true
}

func (s *Store[T]) Set(_ context.Context, key string, value T) {
	if key == "" {
		return
	}

	e := entry[T]{value: value}
	if s.ttl > 0 {
		e.expiresAt = s.now().Add(s.ttl)
	}

	s.mu.Lock()
	s.entries[key] = e
	s.mu.Unlock()
}

func (s *Store[T]) Delete(_ context.Context, key string) {
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
}

// GetOrLoad returns the cached value for key, invoking loader on a miss.
// Concurrent loads for the same key are collapsed into one call.
func (s *Store[T]) GetOrLoad(ctx context.Context, key string, loader func() (T, error)) (T, error) {
	if value, ok := s.Get(ctx, key); ok {
		return value, nil
	}

	var zero T
	value, err, _ := s.flight.Do("cache:"+key, func() (any, error) {
		if cached, ok := s.Get(ctx, key); ok {
			return cached, nil
		}
		loaded, err := loader()
		if err != nil {
			return zero, err
		}
		s.Set(ctx, key, loaded)
		return loaded, nil
	})
	if err != nil {
		return zero, err
	}

	typed, ok := value.(T)
	if !ok {
		return zero, nil
	}
	return typed, nil
}

func (s *Store[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
