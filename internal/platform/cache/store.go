package cache

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

type entry struct {
	value     any
	expiresAt time.Time
}

// Loader produces a value for a missing key together with how long it may be
// cached. A non-positive ttl falls back to the store default.
type Loader func(ctx context.Context) (value any, ttl time.Duration, err error)

// Store is an in-process TTL cache. Concurrent loads of the same key are
// collapsed into one call.
type Store struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration
	flight  singleflight.Group
	now     func() time.Time
}

func NewStore(ttl time.Duration) *Store {
	return &Store{
		entries: make(map[string]entry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (s *Store) Get(_ context.Context, key string) (any, bool) {
	if key == "" {
		return nil, false
	}

	now := s.now()
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if !e.expiresAt.IsZero() && !e.expiresAt.After(now) {
		s.mu.Lock()
		if current, still := s.entries[key]; still && current.expiresAt.Equal(e.expiresAt) {
			delete(s.entries, key)
		}
		s.mu.Unlock()
		return nil, false
	}

	return e.value, true
}

func (s *Store) Set(ctx context.Context, key string, value any) {
	s.SetWithTTL(ctx, key, value, 0)
}

// SetWithTTL stores value for ttl; a non-positive ttl uses the store default,
// and a store without a default keeps the value until deleted.
func (s *Store) SetWithTTL(_ context.Context, key string, value any, ttl time.Duration) {
	if key == "" {
		return
	}
	if ttl <= 0 {
		ttl = s.ttl
	}

	expiresAt := time.Time{}
	if ttl > 0 {
		expiresAt = s.now().Add(ttl)
	}

	s.mu.Lock()
	s.entries[key] = entry{
		value:     value,
		expiresAt: expiresAt,
	}
	s.mu.Unlock()
}

func (s *Store) Delete(_ context.Context, key string) {
	if key == "" {
		return
	}

	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
}

func (s *Store) DeletePrefix(_ context.Context, prefix string) {
	if prefix == "" {
		return
	}

	s.mu.Lock()
	for key := range s.entries {
		if strings.HasPrefix(key, prefix) {
			delete(s.entries, key)
		}
	}
	s.mu.Unlock()
}

// GetOrLoad returns the cached value for key or runs loader once for all
// concurrent callers. Loader errors are returned and never cached. The loader
// is not cancelled with the caller's context, so it must bound its own work.
func (s *Store) GetOrLoad(ctx context.Context, key string, loader Loader) (any, error) {
	if loader == nil {
		return nil, fmt.Errorf("loader is required")
	}
	if key == "" {
		value, _, err := loader(ctx)
		return value, err
	}

	if value, ok := s.Get(ctx, key); ok {
		return value, nil
	}

	loadCtx := context.WithoutCancel(ctx)
	ch := s.flight.DoChan(key, func() (any, error) {
		if cached, ok := s.Get(loadCtx, key); ok {
			return cached, nil
		}

		loaded, ttl, loadErr := loader(loadCtx)
		if loadErr != nil {
			return nil, loadErr
		}
		s.SetWithTTL(loadCtx, key, loaded, ttl)
		return loaded, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val, nil
	}
}
