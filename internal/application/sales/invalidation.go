package sales

import "context"

// Cache namespaces, one per document kind
const (
	NamespaceQuotes = "quotes"
	NamespaceOrders = "orders"
)

// InvalidationSink receives cache-invalidation signals. The services call it
// exactly once per successful mutation, keyed by document kind, so tests can
// assert invalidation without a real cache behind it.
type InvalidationSink interface {
	// Invalidate bumps the version of the given cache namespace
	Invalidate(ctx context.Context, namespace string) error
}

// NoopInvalidationSink discards invalidation signals
type NoopInvalidationSink struct{}

// Invalidate implements InvalidationSink
func (NoopInvalidationSink) Invalidate(ctx context.Context, namespace string) error {
	return nil
}
