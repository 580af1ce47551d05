// Package keys builds the storage-key namespaces of one cache instance.
package keys

import "strings"

const (
	tagNS     = "tag:"
	keyTagsNS = "key_tags:"
)

// Builder maps cache keys and tags onto a shared remote keyspace:
//
//	<prefix><key>           - entry value
//	<prefix>tag:<tag>       - keys carrying <tag>
//	<prefix>key_tags:<key>  - tags carried by <key>
type Builder struct {
	prefix string
}

func New(prefix string) Builder { return Builder{prefix: prefix} }

func (b Builder) Prefix() string { return b.prefix }

// Data returns the storage key holding key's value.
func (b Builder) Data(key string) string { return b.prefix + key }

// Tag returns the storage key of tag's member set.
func (b Builder) Tag(tag string) string { return b.prefix + tagNS + tag }

// KeyTags returns the storage key of key's own tag set.
func (b Builder) KeyTags(key string) string { return b.prefix + keyTagsNS + key }

// IsIndex reports whether storageKey lives in one of the two auxiliary
// index namespaces. Prefix scans use it to keep index entries out of
// entry enumeration.
func (b Builder) IsIndex(storageKey string) bool {
	rest, ok := strings.CutPrefix(storageKey, b.prefix)
	if !ok {
		return false
	}
	return strings.HasPrefix(rest, tagNS) || strings.HasPrefix(rest, keyTagsNS)
}

// TrimData strips the prefix off a data storage key, recovering the cache
// key. Returns ("", false) when storageKey is outside this cache's
// namespace or inside an index namespace.
func (b Builder) TrimData(storageKey string) (string, bool) {
	rest, ok := strings.CutPrefix(storageKey, b.prefix)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(rest, tagNS) || strings.HasPrefix(rest, keyTagsNS) {
		return "", false
	}
	return rest, true
}
