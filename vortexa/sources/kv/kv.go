// Package kv provides the string key-value persistence surface backing the
// session and reminder stores.
package kv

import "context"

// Store is a minimal string-valued key-value surface. Every write replaces
// the full value for its key; callers serialize complete snapshots.
type Store interface {
	// Get returns the value for key. The second result is false when the
	// key has never been written.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set inserts or replaces the value for key.
	Set(ctx context.Context, key, value string) error

	Close() error
}
