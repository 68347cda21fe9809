package cache

import (
	"context"
	"sync"

	"github.com/proserv/backend/internal/application/sales"
)

// InMemoryInvalidationSink is a process-local invalidation sink. It is used
// in development and in single-instance deployments where Redis is not
// available; the version counters behave exactly like the Redis variant.
type InMemoryInvalidationSink struct {
	mu       sync.RWMutex
	versions map[string]int64
}

// NewInMemoryInvalidationSink creates a new in-memory sink
func NewInMemoryInvalidationSink() *InMemoryInvalidationSink {
	return &InMemoryInvalidationSink{
		versions: make(map[string]int64),
	}
}

// Invalidate bumps the version counter of the given namespace
func (s *InMemoryInvalidationSink) Invalidate(ctx context.Context, namespace string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.versions[namespace]++
	return nil
}

// Version returns the current version counter of the given namespace
func (s *InMemoryInvalidationSink) Version(ctx context.Context, namespace string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.versions[namespace], nil
}

// Ensure InMemoryInvalidationSink implements the InvalidationSink interface
var _ sales.InvalidationSink = (*InMemoryInvalidationSink)(nil)
