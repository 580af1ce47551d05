// Package nicolascache implements a tag-aware key/value cache behind a single
// contract with three interchangeable backends: in-process memory, a single
// Redis instance, and Redis Sentinel with read/write splitting.
//
// Every entry may carry a set of tags. Tags support secondary lookup
// (GetByTag) and bulk invalidation (DeleteByTag). The cache maintains a
// bidirectional index (tag -> keys, key -> tags) that is resynchronized from
// scratch on every Set/Delete of a key, never diffed incrementally.
//
// Components:
//   - Cache[V]: the uniform contract. V is the caller's value type.
//   - codec.Codec[V]: (de)serializes V <-> []byte for the remote backends
//     (Msgpack, JSON, CBOR, Protobuf, ...).
//   - store.Store: the minimal primitive set a remote medium must expose
//     (get/set/del/expire/scan plus set operations for the tag index).
//
// Remote keyspaces, under the configured prefix:
//
//	<prefix><key>           - entry value (codec bytes)
//	<prefix>tag:<tag>       - set of keys carrying <tag>
//	<prefix>key_tags:<key>  - set of tags carried by <key>
//
// Index writes against a remote medium are not transactional. Reads by tag
// tolerate dangling references by checking entry existence per member (lazy
// reconciliation), so an entry that expired on its own is filtered out, not
// surfaced as stale. Concurrent Set calls on the same key may interleave
// their index steps; the last value write wins, and tag membership may mix
// both writers until the next Set or Delete of that key resyncs it.
package nicolascache
