package nicolascache

// Hooks are lightweight callbacks for high-signal events.
// Implementations MUST be cheap and non-blocking.
// The cache calls them on hot paths.
type Hooks interface {
	// A tag set referenced a key whose entry no longer exists (expired or
	// lost to a partial write). The member was skipped, not surfaced.
	// op ∈ {"get_by_tag", "delete_by_tag"}
	StaleTagMember(tag, key, op string)

	// A tag's key set became empty and the tag was removed from the index.
	TagPruned(tag string)

	// Stored bytes for key failed to decode. The read returns a CodecError;
	// this hook exists so operators can watch corruption rates.
	DecodeError(key string, err error)
}

// NopHooks is the default no-op
type NopHooks struct{}

func (NopHooks) StaleTagMember(string, string, string) {}
func (NopHooks) TagPruned(string)                      {}
func (NopHooks) DecodeError(string, error)             {}
