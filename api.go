package nicolascache

import (
	"context"
	"fmt"
	"time"

	c "github.com/wickeddoc/nicolas-cache/codec"
	"github.com/wickeddoc/nicolas-cache/store"
	redisstore "github.com/wickeddoc/nicolas-cache/store/redis"
	sentinelstore "github.com/wickeddoc/nicolas-cache/store/sentinel"
)

// Backend names one concrete storage-medium implementation of the contract.
type Backend string

const (
	// Memory keeps entries and the tag index in process memory. No TTL:
	// entries live until deleted. Index mutations are atomic with data
	// mutations under one lock.
	Memory Backend = "memory"
	// Redis stores entries and index sets on a single Redis instance.
	Redis Backend = "redis"
	// RedisSentinel stores entries on a Sentinel-managed replica set,
	// routing writes to the current master and reads to a replica.
	RedisSentinel Backend = "redis-sentinel"
)

// Cache is the uniform, backend-agnostic contract. V is the caller's value
// type; remote backends serialize V through the configured Codec.
//
// A missing key or unknown tag is a normal result, never an error. Errors
// signal connectivity or serialization failures only.
type Cache[V any] interface {
	// Get returns (value, true, nil) on hit; (zero, false, nil) on miss.
	Get(ctx context.Context, key string) (V, bool, error)

	// GetByTag returns every live entry associated with tag. Unknown tag
	// yields an empty map. Entries whose value expired on its own are
	// silently excluded.
	GetByTag(ctx context.Context, tag string) (map[string]V, error)

	// GetAll returns every live entry in this cache's namespace.
	GetAll(ctx context.Context) (map[string]V, error)

	// Set stores or overwrites key, detaches it from any tags it previously
	// held, and attaches it to exactly the given tags (nil or empty clears
	// all associations). Duplicate tags collapse. ttl > 0 expires the entry
	// on remote backends; the memory backend ignores it.
	Set(ctx context.Context, key string, value V, tags []string, ttl time.Duration) error

	// Delete removes the entry and its tag associations, reporting whether
	// the key existed. A tag whose key set becomes empty is pruned.
	Delete(ctx context.Context, key string) (bool, error)

	// DeleteByTag deletes every key currently under tag via the same path
	// as Delete and returns how many entries were actually removed.
	DeleteByTag(ctx context.Context, tag string) (int, error)

	// Exists reports whether key holds a live entry.
	Exists(ctx context.Context, key string) (bool, error)

	// Close releases backend resources.
	Close(ctx context.Context) error
}

// Options configure a cache instance.
// Only Backend selection inputs are required; others have sensible defaults.
type Options[V any] struct {
	Backend Backend // default Memory

	// Codec serializes values for the remote backends. Required for Redis,
	// RedisSentinel and custom Store media; unused by Memory.
	Codec c.Codec[V]

	// Prefix namespaces this cache's keys on a shared remote medium.
	// Default "cache:". The auxiliary namespaces "tag:" and "key_tags:"
	// nest under it.
	Prefix string

	Logger Logger // if nil, NopLogger is used
	Hooks  Hooks  // if nil, NopHooks is used

	Redis    redisstore.Config    // when Backend == Redis
	Sentinel sentinelstore.Config // when Backend == RedisSentinel

	// Store plugs in a custom primitive medium. When set it overrides
	// Backend/Redis/Sentinel wiring and the remote index protocol runs
	// against it directly.
	Store store.Store
}

// New builds a cache for the selected backend. Construction fails fast on an
// unknown backend, missing codec, missing connection parameters, or (for
// RedisSentinel) an unresolvable master.
func New[V any](ctx context.Context, opts Options[V]) (Cache[V], error) {
	log := coalesce[Logger](opts.Logger, NopLogger{})
	hooks := coalesce[Hooks](opts.Hooks, NopHooks{})
	prefix := coalesce(opts.Prefix, "cache:")

	if opts.Store != nil {
		if opts.Codec == nil {
			return nil, ErrNilCodec
		}
		return newRemote[V](opts.Store, opts.Codec, prefix, log, hooks), nil
	}

	switch coalesce(opts.Backend, Memory) {
	case Memory:
		return newMemory[V](log, hooks), nil

	case Redis:
		if opts.Codec == nil {
			return nil, ErrNilCodec
		}
		st, err := redisstore.New(opts.Redis)
		if err != nil {
			return nil, err
		}
		return newRemote[V](st, opts.Codec, prefix, log, hooks), nil

	case RedisSentinel:
		if opts.Codec == nil {
			return nil, ErrNilCodec
		}
		st, err := sentinelstore.New(ctx, opts.Sentinel)
		if err != nil {
			return nil, err
		}
		return newRemote[V](st, opts.Codec, prefix, log, hooks), nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, opts.Backend)
	}
}
