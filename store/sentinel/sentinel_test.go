package sentinel

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRequiresSentinels(t *testing.T) {
	_, err := New(context.Background(), Config{MasterName: "mymaster"})
	assert.ErrorIs(t, err, ErrNoSentinels)
}

func TestNewRequiresMasterName(t *testing.T) {
	_, err := New(context.Background(), Config{Addrs: []string{"127.0.0.1:26379"}})
	assert.ErrorIs(t, err, ErrNoMaster)
}

// Discovery is exercised through injected clients: one miniredis plays the
// master, another the replica, and each primitive must hit the right one.
func newSplitStore(t *testing.T) (master, replica *miniredis.Miniredis, st *Sentinel) {
	t.Helper()
	master = miniredis.RunT(t)
	replica = miniredis.RunT(t)

	mc := goredis.NewClient(&goredis.Options{Addr: master.Addr()})
	rc := goredis.NewClient(&goredis.Options{Addr: replica.Addr()})
	t.Cleanup(func() { _ = mc.Close(); _ = rc.Close() })

	st, err := New(context.Background(), Config{Primary: mc, Replica: rc})
	require.NoError(t, err)
	return master, replica, st
}

func TestWritesRouteToPrimary(t *testing.T) {
	ctx := context.Background()
	master, replica, st := newSplitStore(t)

	require.NoError(t, st.Set(ctx, "k", []byte("v"), 0))
	require.NoError(t, st.SAdd(ctx, "s", "m"))

	assert.True(t, master.Exists("k"))
	assert.True(t, master.Exists("s"))
	assert.False(t, replica.Exists("k"))
	assert.False(t, replica.Exists("s"))
}

func TestReadsRouteToReplica(t *testing.T) {
	ctx := context.Background()
	_, replica, st := newSplitStore(t)

	// Seed the replica directly, as replication would.
	require.NoError(t, replica.Set("k", "v"))
	_, err := replica.SetAdd("s", "a", "b")
	require.NoError(t, err)

	v, ok, err := st.Get(ctx, "k")
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("v"), v)

	ok, err = st.Exists(ctx, "k")
	assert.NoError(t, err)
	assert.True(t, ok)

	members, err := st.SMembers(ctx, "s")
	assert.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "b"}, members)

	n, err := st.SCard(ctx, "s")
	assert.NoError(t, err)
	assert.EqualValues(t, 2, n)

	keys, err := st.Keys(ctx, "")
	assert.NoError(t, err)
	assert.ElementsMatch(t, []string{"k", "s"}, keys)
}

func TestGetMissFromReplicaIsNotAnError(t *testing.T) {
	ctx := context.Background()
	master, _, st := newSplitStore(t)

	// Present on the master but not yet replicated: reads see a miss.
	require.NoError(t, master.Set("k", "v"))

	_, ok, err := st.Get(ctx, "k")
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestDelRoutesToPrimary(t *testing.T) {
	ctx := context.Background()
	master, _, st := newSplitStore(t)

	require.NoError(t, master.Set("k", "v"))
	existed, err := st.Del(ctx, "k")
	assert.NoError(t, err)
	assert.True(t, existed)
	assert.False(t, master.Exists("k"))
}

func TestCloseLeavesInjectedClientsOpen(t *testing.T) {
	ctx := context.Background()
	master, _, st := newSplitStore(t)

	require.NoError(t, st.Close(ctx))
	// Injected clients are caller-owned; the store must not close them.
	require.NoError(t, master.Set("still", "alive"))
	existed, err := st.Del(ctx, "still")
	assert.NoError(t, err)
	assert.True(t, existed)
}
