// usage:
//
// import (
//
//	"log/slog"
//
//	nicolascache "github.com/wickeddoc/nicolas-cache"
//	"github.com/wickeddoc/nicolas-cache/codec"
//	asynchook "github.com/wickeddoc/nicolas-cache/hooks/async"
//	"github.com/wickeddoc/nicolas-cache/sloghooks"
//
// )
//
//	raw := sloghooks.New(slog.Default(), sloghooks.Options{
//	    StaleMemberEvery: 10, // sample logs: ~every 10th stale member
//	})
//
// hooks := asynchook.New(raw, 1, 1000) // 1 worker; queue 1000 events
// defer hooks.Close()
//
//	cache, _ := nicolascache.New[User](ctx, nicolascache.Options[User]{
//	    Backend: nicolascache.Redis,
//	    Codec:   codec.Msgpack[User]{},
//	    Hooks:   hooks, // or `raw` if you don't want async
//	})
package asynchook

import (
	"sync"

	nicolascache "github.com/wickeddoc/nicolas-cache"
)

type Hooks struct {
	inner nicolascache.Hooks
	q     chan func()
	wg    sync.WaitGroup
	once  sync.Once
}

var _ nicolascache.Hooks = (*Hooks)(nil)

func New(inner nicolascache.Hooks, workers, qlen int) *Hooks {
	if workers <= 0 {
		workers = 1
	}
	if qlen <= 0 {
		qlen = 1024
	}

	h := &Hooks{inner: inner, q: make(chan func(), qlen)}
	h.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer h.wg.Done()
			for f := range h.q {
				f()
			}
		}()
	}
	return h
}

func (h *Hooks) Close() {
	h.once.Do(func() {
		close(h.q)
		h.wg.Wait()
	})
}

func (h *Hooks) try(f func()) {
	select {
	case h.q <- f:
	default: // drop
	}
}

func (h *Hooks) StaleTagMember(tag, key, op string) {
	h.try(func() { h.inner.StaleTagMember(tag, key, op) })
}
func (h *Hooks) TagPruned(tag string) { h.try(func() { h.inner.TagPruned(tag) }) }
func (h *Hooks) DecodeError(key string, err error) {
	h.try(func() { h.inner.DecodeError(key, err) })
}
