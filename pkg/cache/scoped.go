package cache

// ScopedKeyer wraps a Keyer with a prefix for namespace isolation.
// This is useful when several projects share one Redis instance and
// need separate cache namespaces.
//
// Example usage:
//
//	// Project-specific keys on a shared backend
//	projectKeyer := NewScopedKeyer(NewDefaultKeyer(), "acme:")
//
//	// Unprefixed keys for local file caches
//	localKeyer := NewDefaultKeyer()
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// LayoutKey generates a prefixed key for layout set caching.
func (k *ScopedKeyer) LayoutKey(elementsHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(elementsHash, opts)
}

var _ Keyer = (*ScopedKeyer)(nil)
