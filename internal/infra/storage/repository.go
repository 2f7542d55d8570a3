// Package storage defines the durable key-value contract the collection
// store persists through.
package storage

import (
	"context"
)

// KV is a durable key-value backing store. A value is a single opaque string;
// Set must be atomic from a concurrent reader's point of view.
type KV interface {
	// Get returns the value under key; the bool reports key existence.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set replaces the value under key.
	Set(ctx context.Context, key, value string) error
}

// Pinger is implemented by backends that can report reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}
