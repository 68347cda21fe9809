package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/proserv/backend/internal/application/sales"
)

// defaultKeyPrefix namespaces invalidation version keys in Redis
const defaultKeyPrefix = "cache:ns:"

// RedisInvalidationSink implements namespace-version invalidation on Redis.
// Every invalidation bumps a per-namespace version counter; readers embed
// the current version in their cache keys, so a bump orphans all entries
// of that namespace at once without scanning or deleting keys.
type RedisInvalidationSink struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisInvalidationSink creates a sink connected to the given Redis
// address. The connection is verified before the sink is returned.
func NewRedisInvalidationSink(addr, password string, db int) (*RedisInvalidationSink, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisInvalidationSinkWithClient(client), nil
}

// NewRedisInvalidationSinkWithClient creates a sink sharing an existing
// Redis client
func NewRedisInvalidationSinkWithClient(client *redis.Client) *RedisInvalidationSink {
	return &RedisInvalidationSink{
		client:    client,
		keyPrefix: defaultKeyPrefix,
	}
}

// Invalidate bumps the version counter of the given namespace
func (s *RedisInvalidationSink) Invalidate(ctx context.Context, namespace string) error {
	if err := s.client.Incr(ctx, s.keyPrefix+namespace).Err(); err != nil {
		return fmt.Errorf("failed to bump cache version for namespace %s: %w", namespace, err)
	}
	return nil
}

// Version returns the current version counter of the given namespace.
// A namespace that was never invalidated reports version 0.
func (s *RedisInvalidationSink) Version(ctx context.Context, namespace string) (int64, error) {
	version, err := s.client.Get(ctx, s.keyPrefix+namespace).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read cache version for namespace %s: %w", namespace, err)
	}
	return version, nil
}

// Close closes the underlying Redis client
func (s *RedisInvalidationSink) Close() error {
	return s.client.Close()
}

// Ensure RedisInvalidationSink implements the InvalidationSink interface
var _ sales.InvalidationSink = (*RedisInvalidationSink)(nil)
