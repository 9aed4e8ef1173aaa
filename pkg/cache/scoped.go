package cache

// ScopedKeyer wraps a Keyer with a prefix for isolating deployments that
// share one backend.
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "museum:staging:")
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

// SnapshotKey generates a prefixed snapshot key.
func (k *ScopedKeyer) SnapshotKey(source string) string {
	return k.prefix + k.inner.SnapshotKey(source)
}

// SceneKey generates a prefixed scene key.
func (k *ScopedKeyer) SceneKey(snapshotHash string, opts SceneKeyOpts) string {
	return k.prefix + k.inner.SceneKey(snapshotHash, opts)
}

// DescribeKey generates a prefixed enrichment key.
func (k *ScopedKeyer) DescribeKey(message string) string {
	return k.prefix + k.inner.DescribeKey(message)
}
