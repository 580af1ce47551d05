// Package codec provides the serialization boundary for the remote cache
// backends: encode a value V to bytes on write, decode it back on read.
// The contract is round-trip exactness for the supported value universe,
// including nested containers and nil.
package codec

// Codec encodes/decodes values V to []byte for storage.
type Codec[V any] interface {
	Encode(V) ([]byte, error)
	Decode([]byte) (V, error)
}
