// Package store defines the primitive-operation abstraction the remote
// backends are written against.
//
// Implementations MUST be byte-for-byte transparent: Get must return exactly
// the same []byte that was previously passed to Set for a key (no prepended
// or appended metadata, no re-encoding, no mutation). Connection management,
// retries and discovery are the implementation's concern; the cache layer
// never retries.
//
// Important: under a cache's prefix, the keyspaces "<prefix>tag:" and
// "<prefix>key_tags:" hold the tag index and are owned by the cache.
// External code MUST NOT write values under these prefixes.
package store

import (
	"context"
	"time"
)

// Store is the minimal operation set a remote key/value medium must expose:
// plain byte entries with optional TTL, a prefix scan, and unordered string
// sets for the tag index. Must be safe for concurrent use.
//
// A missing key is a normal result: Get returns (nil, false, nil), set reads
// return empty results. Errors are reserved for connectivity failures and
// are never used to signal absence.
type Store interface {
	// Get returns (value, true, nil) on hit; (nil, false, nil) on miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores value. ttl > 0 expires the key after that duration;
	// ttl <= 0 stores without expiry.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Del removes a key, reporting whether it existed.
	Del(ctx context.Context, key string) (bool, error)

	// Exists reports whether key is present.
	Exists(ctx context.Context, key string) (bool, error)

	// Expire sets a TTL on an existing key. Missing keys are a no-op.
	Expire(ctx context.Context, key string, ttl time.Duration) error

	// Keys returns every key starting with prefix. Order is unspecified.
	Keys(ctx context.Context, prefix string) ([]string, error)

	// SAdd adds members to the set at key, creating it if absent.
	SAdd(ctx context.Context, key string, members ...string) error

	// SRem removes member from the set at key. Missing set or member is a
	// no-op.
	SRem(ctx context.Context, key, member string) error

	// SMembers returns the members of the set at key; empty when absent.
	SMembers(ctx context.Context, key string) ([]string, error)

	// SCard returns the cardinality of the set at key; 0 when absent.
	SCard(ctx context.Context, key string) (int64, error)

	// Close releases resources.
	Close(ctx context.Context) error
}
