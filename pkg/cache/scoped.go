package cache

// ScopedKeyer wraps a Keyer with a prefix so several clouds can share one
// backend without colliding, e.g. one Redis instance behind several servers
// each serving a different topic source.
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "cloud:news:")
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
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// SourceKey generates a prefixed key for topic snapshots.
func (k *ScopedKeyer) SourceKey(kind, location string) string {
	return k.prefix + k.inner.SourceKey(kind, location)
}

// SceneKey generates a prefixed key for scene caching.
func (k *ScopedKeyer) SceneKey(topicsHash string, opts SceneKeyOpts) string {
	return k.prefix + k.inner.SceneKey(topicsHash, opts)
}

// ArtifactKey generates a prefixed key for artifact caching.
func (k *ScopedKeyer) ArtifactKey(sceneHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(sceneHash, opts)
}
