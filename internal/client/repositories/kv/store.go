// Package kv is the client instance's local key/value storage. It holds the
// persisted auth tokens and the search cache, scoped to one state file the
// way browser storage is scoped to one tab.
package kv

import "context"

// Store reads and writes opaque values by key. Get returns (nil, nil) for
// a missing key.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
