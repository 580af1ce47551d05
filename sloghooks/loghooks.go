package sloghooks

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"sync/atomic"

	nicolascache "github.com/wickeddoc/nicolas-cache"
)

type Options struct {
	// Sampling to avoid floods; 0/1 = log all. Stale members show up on
	// every tag read until the next write of the affected key, so these
	// can be noisy on hot tags.
	StaleMemberEvery uint64
	// Optional key redactor. Defaults to SHA-256 prefix.
	Redact func(string) string
}

type Hooks struct {
	l    *slog.Logger
	opts Options

	staleCtr atomic.Uint64
}

var _ nicolascache.Hooks = (*Hooks)(nil)

func New(l *slog.Logger, opts Options) *Hooks {
	return &Hooks{l: l, opts: opts}
}

func (h *Hooks) redact(k string) string {
	if h.opts.Redact != nil {
		return h.opts.Redact(k)
	}
	sum := sha256.Sum256([]byte(k))
	return hex.EncodeToString(sum[:8])
}

func sample(n uint64, ctr *atomic.Uint64) bool {
	if n == 0 || n == 1 {
		return true
	}
	return ctr.Add(1)%n == 0
}

func (h *Hooks) StaleTagMember(tag, key, op string) {
	if h.l == nil || !sample(h.opts.StaleMemberEvery, &h.staleCtr) {
		return
	}
	h.l.Debug("nicolascache.stale_tag_member",
		"tag", tag,
		"key", h.redact(key),
		"op", op)
}

func (h *Hooks) TagPruned(tag string) {
	if h.l == nil {
		return
	}
	h.l.Debug("nicolascache.tag_pruned",
		"tag", tag)
}

func (h *Hooks) DecodeError(key string, err error) {
	if h.l == nil {
		return
	}
	h.l.Warn("nicolascache.decode_error",
		"key", h.redact(key),
		"err", err)
}
