// Package cache stores computed results (diagrams, decompositions, covers,
// speed estimates) keyed by their inputs.
//
// Backends:
//   - FileCache: one JSON file per entry, for the CLI
//   - MemoryCache: bounded LRU inside one process
//   - RedisCache: shared between server instances
//   - NullCache: caching disabled
//
// Values are opaque bytes; callers serialize with pkg/io. Keys come from a
// [Keyer] so that the CLI and the server agree on them.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with optional expiry.
type Cache interface {
	// Get returns the value and true on a hit. A miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data. A zero ttl means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the backend.
	Close() error
}

// Time-to-live per result kind. All results are deterministic functions of
// their key; the TTLs only bound disk and memory use.
const (
	TTLDiagram       = 30 * 24 * time.Hour
	TTLDecomposition = 7 * 24 * time.Hour
	TTLCover         = 30 * 24 * time.Hour
	TTLSpeed         = 24 * time.Hour
)

// NullCache never stores anything; every Get misses. It backs runners with
// caching disabled (--no-cache, [cache] backend = "none").
type NullCache struct{}

// NewNullCache returns a NullCache.
func NewNullCache() Cache { return NullCache{} }

func (NullCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }
func (NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (NullCache) Delete(context.Context, string) error { return nil }
func (NullCache) Close() error { return nil }
