package nicolascache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"

	c "github.com/wickeddoc/nicolas-cache/codec"
	redisstore "github.com/wickeddoc/nicolas-cache/store/redis"
)

func TestNewUnknownBackend(t *testing.T) {
	_, err := New[string](context.Background(), Options[string]{Backend: "bogus"})
	if !errors.Is(err, ErrUnknownBackend) {
		t.Fatalf("want ErrUnknownBackend, got %v", err)
	}
}

func TestNewRedisRequiresCodec(t *testing.T) {
	_, err := New[string](context.Background(), Options[string]{Backend: Redis})
	if !errors.Is(err, ErrNilCodec) {
		t.Fatalf("want ErrNilCodec, got %v", err)
	}
}

func TestNewRedisRequiresAddr(t *testing.T) {
	_, err := New[string](context.Background(), Options[string]{
		Backend: Redis,
		Codec:   c.JSON[string]{},
	})
	if !errors.Is(err, redisstore.ErrNoAddr) {
		t.Fatalf("want ErrNoAddr, got %v", err)
	}
}

func TestNewDefaultsToMemory(t *testing.T) {
	ctx := context.Background()
	cc, err := New[string](ctx, Options[string]{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer cc.Close(ctx)
	if _, ok := cc.(*memoryCache[string]); !ok {
		t.Fatalf("zero Options should select the memory backend, got %T", cc)
	}
}

func newRedisCache(t *testing.T) (*miniredis.Miniredis, Cache[string]) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	cc, err := New[string](context.Background(), Options[string]{
		Backend: Redis,
		Codec:   c.JSON[string]{},
		Prefix:  "t:",
		Redis:   redisstore.Config{Client: client, CloseClient: true},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = cc.Close(context.Background()) })
	return mr, cc
}

func TestRedisBackendContract(t *testing.T) {
	ctx := context.Background()
	_, cc := newRedisCache(t)

	mustSet(t, cc, "k1", "v1", []string{"t1", "t2"})
	mustSet(t, cc, "k2", "v2", []string{"t1", "t3"})
	mustSet(t, cc, "k3", "v3", []string{"t2", "t3"})

	got, err := cc.GetByTag(ctx, "t1")
	if err != nil {
		t.Fatalf("GetByTag: %v", err)
	}
	if len(got) != 2 || got["k1"] != "v1" || got["k2"] != "v2" {
		t.Fatalf("GetByTag(t1)=%v", got)
	}

	all, err := cc.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("GetAll leaked index keys or lost entries: %v", all)
	}

	if n, _ := cc.DeleteByTag(ctx, "t1"); n != 2 {
		t.Fatalf("DeleteByTag(t1)=%d, want 2", n)
	}
	if ok, _ := cc.Exists(ctx, "k1"); ok {
		t.Fatalf("k1 should be gone")
	}
	if ok, _ := cc.Exists(ctx, "k3"); !ok {
		t.Fatalf("k3 must survive")
	}
}

func TestRedisBackendTTL(t *testing.T) {
	ctx := context.Background()
	mr, cc := newRedisCache(t)

	mustSetTTL(t, cc, "ttl_key", "v", []string{"tg"}, 2*time.Second)

	if v, ok, _ := cc.Get(ctx, "ttl_key"); !ok || v != "v" {
		t.Fatalf("entry must be live before TTL")
	}
	if got, _ := cc.GetByTag(ctx, "tg"); len(got) != 1 {
		t.Fatalf("GetByTag before TTL: %v", got)
	}

	mr.FastForward(3 * time.Second)

	if _, ok, _ := cc.Get(ctx, "ttl_key"); ok {
		t.Fatalf("entry must have expired")
	}
	if got, err := cc.GetByTag(ctx, "tg"); err != nil || len(got) != 0 {
		t.Fatalf("GetByTag after TTL: got=%v err=%v", got, err)
	}
}

// The entry and its key_tags set expire together; the tag set carries no
// TTL and keeps the stale member until a write touches the key again.
func TestRedisBackendKeyTagsExpireWithEntry(t *testing.T) {
	ctx := context.Background()
	mr, cc := newRedisCache(t)

	mustSetTTL(t, cc, "k", "v", []string{"tg"}, time.Second)
	mr.FastForward(2 * time.Second)

	if mr.Exists("t:key_tags:k") {
		t.Fatalf("key_tags entry must expire with the value")
	}
	if !mr.Exists("t:tag:tg") {
		t.Fatalf("tag set is pruned reactively, not expired")
	}

	// A rewrite of the key cannot see the expired key_tags set, so the old
	// tg membership survives and now resolves the fresh value: the accepted
	// staleness window of expiring the index bookkeeping independently.
	mustSet(t, cc, "k", "v2", []string{"other"})
	got, err := cc.GetByTag(ctx, "tg")
	if err != nil {
		t.Fatalf("GetByTag: %v", err)
	}
	if got["k"] != "v2" {
		t.Fatalf("expected stale tg membership to resolve the live entry, got %v", got)
	}
}
