// Package sentinel implements store.Store on a Redis replica set managed by
// Sentinel, splitting traffic: write primitives go to the current master,
// read primitives go to a replica.
//
// Master/replica discovery is delegated to go-redis failover clients, which
// track Sentinel topology and re-resolve per command. A failover between two
// primitive calls is therefore tolerated; the multi-call index protocol above
// this store simply uses whatever connection is current at each step.
package sentinel

import (
	"context"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/wickeddoc/nicolas-cache/store"
)

var (
	ErrNoSentinels = errors.New("sentinel store: at least one sentinel address is required")
	ErrNoMaster    = errors.New("sentinel store: master name is required")
)

const defaultSocketTimeout = 100 * time.Millisecond

// Config connects the store. Addrs and MasterName are required unless both
// Primary and Replica clients are supplied (custom discovery or tests).
type Config struct {
	Addrs            []string // sentinel host:port addresses
	MasterName       string   // service name as configured in Sentinel
	DB               int
	Password         string // password for master/replica instances
	SentinelPassword string // password for the sentinel tier, if any

	// SocketTimeout bounds each read/write on a data connection.
	// DialTimeout bounds connection establishment. Both default to 100ms.
	SocketTimeout time.Duration
	DialTimeout   time.Duration

	// Primary and Replica override discovery entirely. The store does not
	// take ownership of injected clients.
	Primary goredis.UniversalClient
	Replica goredis.UniversalClient
}

type Sentinel struct {
	primary      goredis.UniversalClient
	replica      goredis.UniversalClient
	closeClients bool
}

var _ store.Store = (*Sentinel)(nil)

// New builds the store and fails fast when the initial master cannot be
// resolved: the first write would fail anyway, better to learn at startup.
func New(ctx context.Context, cfg Config) (*Sentinel, error) {
	if cfg.Primary != nil && cfg.Replica != nil {
		return &Sentinel{primary: cfg.Primary, replica: cfg.Replica}, nil
	}
	if len(cfg.Addrs) == 0 {
		return nil, ErrNoSentinels
	}
	if cfg.MasterName == "" {
		return nil, ErrNoMaster
	}

	sockt := cfg.SocketTimeout
	if sockt <= 0 {
		sockt = defaultSocketTimeout
	}
	dialt := cfg.DialTimeout
	if dialt <= 0 {
		dialt = defaultSocketTimeout
	}

	fo := func(replicaOnly bool) *goredis.FailoverOptions {
		return &goredis.FailoverOptions{
			MasterName:       cfg.MasterName,
			SentinelAddrs:    cfg.Addrs,
			SentinelPassword: cfg.SentinelPassword,
			Password:         cfg.Password,
			DB:               cfg.DB,
			DialTimeout:      dialt,
			ReadTimeout:      sockt,
			WriteTimeout:     sockt,
			ReplicaOnly:      replicaOnly,
		}
	}

	s := &Sentinel{
		primary:      goredis.NewFailoverClient(fo(false)),
		replica:      goredis.NewFailoverClient(fo(true)),
		closeClients: true,
	}
	if err := s.primary.Ping(ctx).Err(); err != nil {
		_ = s.Close(ctx)
		return nil, err
	}
	return s, nil
}

// write resolves the connection for a mutating primitive: current master.
func (s *Sentinel) write() goredis.UniversalClient { return s.primary }

// read resolves the connection for a read-only primitive: a replica.
func (s *Sentinel) read() goredis.UniversalClient { return s.replica }

func (s *Sentinel) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := s.read().Get(ctx, key).Bytes()
	if err == goredis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

func (s *Sentinel) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = 0
	}
	return s.write().Set(ctx, key, value, ttl).Err()
}

func (s *Sentinel) Del(ctx context.Context, key string) (bool, error) {
	n, err := s.write().Del(ctx, key).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *Sentinel) Exists(ctx context.Context, key string) (bool, error) {
	n, err := s.read().Exists(ctx, key).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *Sentinel) Expire(ctx context.Context, key string, ttl time.Duration) error {
	return s.write().Expire(ctx, key, ttl).Err()
}

func (s *Sentinel) Keys(ctx context.Context, prefix string) ([]string, error) {
	var out []string
	iter := s.read().Scan(ctx, 0, prefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		out = append(out, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Sentinel) SAdd(ctx context.Context, key string, members ...string) error {
	if len(members) == 0 {
		return nil
	}
	args := make([]any, len(members))
	for i, m := range members {
		args[i] = m
	}
	return s.write().SAdd(ctx, key, args...).Err()
}

func (s *Sentinel) SRem(ctx context.Context, key, member string) error {
	return s.write().SRem(ctx, key, member).Err()
}

func (s *Sentinel) SMembers(ctx context.Context, key string) ([]string, error) {
	return s.read().SMembers(ctx, key).Result()
}

func (s *Sentinel) SCard(ctx context.Context, key string) (int64, error) {
	return s.read().SCard(ctx, key).Result()
}

// Close releases both failover clients when this store owns them.
func (s *Sentinel) Close(context.Context) error {
	if !s.closeClients {
		return nil
	}
	var errs []error
	for _, c := range []goredis.UniversalClient{s.primary, s.replica} {
		if c == nil {
			continue
		}
		if err := c.Close(); err != nil && !errors.Is(err, goredis.ErrClosed) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
