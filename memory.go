package nicolascache

import (
	"context"
	"sync"
	"time"
)

// memoryCache keeps entries and both directions of the tag index as plain
// maps guarded by one mutex, so a Set's detach-then-attach and a Delete's
// prune are each observed atomically by concurrent callers. No TTL: entries
// live until deleted. Each instance owns its maps; nothing is process-global.
type memoryCache[V any] struct {
	log   Logger
	hooks Hooks

	mu       sync.RWMutex
	entries  map[string]V
	tagIndex map[string]map[string]struct{} // tag -> keys
	keyTags  map[string]map[string]struct{} // key -> tags
}

var _ Cache[any] = (*memoryCache[any])(nil)

func newMemory[V any](log Logger, hooks Hooks) *memoryCache[V] {
	return &memoryCache[V]{
		log:      log,
		hooks:    hooks,
		entries:  make(map[string]V),
		tagIndex: make(map[string]map[string]struct{}),
		keyTags:  make(map[string]map[string]struct{}),
	}
}

func (m *memoryCache[V]) Get(_ context.Context, key string) (V, bool, error) {
	m.mu.RLock()
	v, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok {
		var zero V
		return zero, false, nil
	}
	return v, true, nil
}

func (m *memoryCache[V]) GetByTag(_ context.Context, tag string) (map[string]V, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]V, len(m.tagIndex[tag]))
	for key := range m.tagIndex[tag] {
		if v, ok := m.entries[key]; ok {
			out[key] = v
		}
	}
	return out, nil
}

func (m *memoryCache[V]) GetAll(_ context.Context) (map[string]V, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]V, len(m.entries))
	for k, v := range m.entries {
		out[k] = v
	}
	return out, nil
}

// Set ignores ttl: the memory backend has no expiry concept.
func (m *memoryCache[V]) Set(_ context.Context, key string, value V, tags []string, _ time.Duration) error {
	tagSet := dedupe(tags)

	m.mu.Lock()
	defer m.mu.Unlock()

	// Detach first so the key is never attached to two tag generations.
	m.detachLocked(key)
	m.entries[key] = value
	if len(tagSet) == 0 {
		return nil
	}
	m.keyTags[key] = tagSet
	for tag := range tagSet {
		keys, ok := m.tagIndex[tag]
		if !ok {
			keys = make(map[string]struct{})
			m.tagIndex[tag] = keys
		}
		keys[key] = struct{}{}
	}
	return nil
}

func (m *memoryCache[V]) Delete(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.deleteLocked(key), nil
}

func (m *memoryCache[V]) DeleteByTag(_ context.Context, tag string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	keys := make([]string, 0, len(m.tagIndex[tag]))
	for key := range m.tagIndex[tag] {
		keys = append(keys, key)
	}

	count := 0
	for _, key := range keys {
		if m.deleteLocked(key) {
			count++
		}
	}
	if count > 0 {
		m.log.Debug("deleted entries by tag", Fields{"tag": tag, "count": count})
	}
	return count, nil
}

func (m *memoryCache[V]) Exists(_ context.Context, key string) (bool, error) {
	m.mu.RLock()
	_, ok := m.entries[key]
	m.mu.RUnlock()
	return ok, nil
}

func (m *memoryCache[V]) Close(context.Context) error { return nil }

func (m *memoryCache[V]) deleteLocked(key string) bool {
	if _, ok := m.entries[key]; !ok {
		return false
	}
	delete(m.entries, key)
	m.detachLocked(key)
	return true
}

// detachLocked removes key from every tag it holds, pruning tags whose key
// set becomes empty. Caller holds mu.
func (m *memoryCache[V]) detachLocked(key string) {
	for tag := range m.keyTags[key] {
		keys := m.tagIndex[tag]
		delete(keys, key)
		if len(keys) == 0 {
			delete(m.tagIndex, tag)
			m.hooks.TagPruned(tag)
		}
	}
	delete(m.keyTags, key)
}
