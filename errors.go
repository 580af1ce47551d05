package nicolascache

import (
	"errors"
	"fmt"
)

// Configuration errors are raised at construction and never retried.
// Missing connection parameters surface as the store subpackages' own
// sentinels (store/redis.ErrNoAddr, store/sentinel.ErrNoSentinels, ...).
var (
	ErrUnknownBackend = errors.New("nicolascache: unknown backend")
	ErrNilCodec       = errors.New("nicolascache: codec is required")
)

// CodecError reports an entry whose value could not be encoded or decoded.
// A decode failure means the stored bytes are corrupt or were written by an
// incompatible codec; the entry is left in place so it can be inspected.
type CodecError struct {
	Key string
	Op  string // "encode" or "decode"
	Err error
}

func (e *CodecError) Error() string {
	return fmt.Sprintf("nicolascache: %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *CodecError) Unwrap() error { return e.Err }
