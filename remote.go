package nicolascache

import (
	"context"
	"time"

	c "github.com/wickeddoc/nicolas-cache/codec"
	"github.com/wickeddoc/nicolas-cache/internal/keys"
	"github.com/wickeddoc/nicolas-cache/store"
)

// remoteCache implements the contract against any store.Store. The tag index
// lives in the medium itself as set entries next to the data entries, so no
// step of an operation is transactional with the others. The discipline:
//
//   - Set and Delete resync the key's whole index from its stored key_tags
//     set instead of diffing against what the caller believes is current.
//   - Reads by tag check each member's entry before including it, filtering
//     references whose value expired or never landed.
//
// Crash or interleaving between steps can leave a tag set naming a dead key
// or a key_tags set naming stale tags until the next write of that key; both
// are bounded and tolerated, not prevented.
type remoteCache[V any] struct {
	st    store.Store
	codec c.Codec[V]
	keys  keys.Builder
	log   Logger
	hooks Hooks
}

var _ Cache[any] = (*remoteCache[any])(nil)

func newRemote[V any](st store.Store, cod c.Codec[V], prefix string, log Logger, hooks Hooks) *remoteCache[V] {
	return &remoteCache[V]{
		st:    st,
		codec: cod,
		keys:  keys.New(prefix),
		log:   log,
		hooks: hooks,
	}
}

func (r *remoteCache[V]) Get(ctx context.Context, key string) (V, bool, error) {
	var zero V
	raw, ok, err := r.st.Get(ctx, r.keys.Data(key))
	if err != nil || !ok {
		return zero, false, err
	}
	v, err := r.codec.Decode(raw)
	if err != nil {
		r.hooks.DecodeError(key, err)
		return zero, false, &CodecError{Key: key, Op: "decode", Err: err}
	}
	return v, true, nil
}

func (r *remoteCache[V]) GetByTag(ctx context.Context, tag string) (map[string]V, error) {
	members, err := r.st.SMembers(ctx, r.keys.Tag(tag))
	if err != nil {
		return nil, err
	}
	out := make(map[string]V, len(members))
	for _, key := range members {
		v, ok, err := r.Get(ctx, key)
		if err != nil {
			return nil, err
		}
		if !ok {
			// dangling reference: entry expired under the tag set
			r.hooks.StaleTagMember(tag, key, "get_by_tag")
			continue
		}
		out[key] = v
	}
	return out, nil
}

func (r *remoteCache[V]) GetAll(ctx context.Context) (map[string]V, error) {
	storageKeys, err := r.st.Keys(ctx, r.keys.Prefix())
	if err != nil {
		return nil, err
	}
	out := make(map[string]V, len(storageKeys))
	for _, sk := range storageKeys {
		key, ok := r.keys.TrimData(sk)
		if !ok {
			continue // index entry
		}
		raw, ok, err := r.st.Get(ctx, sk)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue // expired between scan and read
		}
		v, err := r.codec.Decode(raw)
		if err != nil {
			r.hooks.DecodeError(key, err)
			return nil, &CodecError{Key: key, Op: "decode", Err: err}
		}
		out[key] = v
	}
	return out, nil
}

// Set runs the five-step protocol: read the key's current tag set, detach
// the key from each of those tags (pruning emptied tags), drop the key_tags
// entry, write the value, then attach the new tags. The value and the
// key_tags set share the TTL; tag sets carry none and are pruned reactively.
func (r *remoteCache[V]) Set(ctx context.Context, key string, value V, tags []string, ttl time.Duration) error {
	// Encode before touching the index so an unencodable value mutates
	// nothing.
	payload, err := r.codec.Encode(value)
	if err != nil {
		return &CodecError{Key: key, Op: "encode", Err: err}
	}

	if err := r.detach(ctx, key); err != nil {
		return err
	}
	if err := r.st.Set(ctx, r.keys.Data(key), payload, ttl); err != nil {
		return err
	}

	tagSet := dedupe(tags)
	if len(tagSet) == 0 {
		return nil
	}
	members := make([]string, 0, len(tagSet))
	for tag := range tagSet {
		members = append(members, tag)
	}

	keyTagsKey := r.keys.KeyTags(key)
	if err := r.st.SAdd(ctx, keyTagsKey, members...); err != nil {
		return err
	}
	if ttl > 0 {
		if err := r.st.Expire(ctx, keyTagsKey, ttl); err != nil {
			return err
		}
	}
	for _, tag := range members {
		if err := r.st.SAdd(ctx, r.keys.Tag(tag), key); err != nil {
			return err
		}
	}
	return nil
}

func (r *remoteCache[V]) Delete(ctx context.Context, key string) (bool, error) {
	ok, err := r.st.Exists(ctx, r.keys.Data(key))
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}
	if err := r.detach(ctx, key); err != nil {
		return false, err
	}
	if _, err := r.st.Del(ctx, r.keys.Data(key)); err != nil {
		return false, err
	}
	return true, nil
}

func (r *remoteCache[V]) DeleteByTag(ctx context.Context, tag string) (int, error) {
	members, err := r.st.SMembers(ctx, r.keys.Tag(tag))
	if err != nil {
		return 0, err
	}
	count := 0
	for _, key := range members {
		ok, err := r.Delete(ctx, key)
		if err != nil {
			return count, err
		}
		if !ok {
			// already gone (expired); does not count
			r.hooks.StaleTagMember(tag, key, "delete_by_tag")
			continue
		}
		count++
	}
	if count > 0 {
		r.log.Debug("deleted entries by tag", Fields{"tag": tag, "count": count})
	}
	return count, nil
}

func (r *remoteCache[V]) Exists(ctx context.Context, key string) (bool, error) {
	return r.st.Exists(ctx, r.keys.Data(key))
}

func (r *remoteCache[V]) Close(ctx context.Context) error {
	return r.st.Close(ctx)
}

// detach removes key from every tag named by its key_tags set and deletes
// the set itself. Tags whose member set empties are pruned. The stored set
// is the source of truth here, which is what makes Set/Delete a resync
// rather than a diff.
func (r *remoteCache[V]) detach(ctx context.Context, key string) error {
	keyTagsKey := r.keys.KeyTags(key)
	prev, err := r.st.SMembers(ctx, keyTagsKey)
	if err != nil {
		return err
	}
	for _, tag := range prev {
		tagKey := r.keys.Tag(tag)
		if err := r.st.SRem(ctx, tagKey, key); err != nil {
			return err
		}
		n, err := r.st.SCard(ctx, tagKey)
		if err != nil {
			return err
		}
		if n == 0 {
			if _, err := r.st.Del(ctx, tagKey); err != nil {
				return err
			}
			r.hooks.TagPruned(tag)
		}
	}
	if len(prev) == 0 {
		return nil
	}
	_, err = r.st.Del(ctx, keyTagsKey)
	return err
}
