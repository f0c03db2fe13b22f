package cache

// ScopedKeyer wraps a Keyer with a prefix so that several deployments, or
// several users of one server, can share a backend without colliding.
//
//	userKeyer := NewScopedKeyer(NewDefaultKeyer(), "user:alice:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix. A nil inner keyer means
// [DefaultKeyer].
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// HTTPKey generates a prefixed key for fetched HTTP resources.
func (k *ScopedKeyer) HTTPKey(namespace, key string) string {
	return k.prefix + k.inner.HTTPKey(namespace, key)
}

// PageKey generates a prefixed key for a rendered page.
func (k *ScopedKeyer) PageKey(pageHash string, opts PageKeyOpts) string {
	return k.prefix + k.inner.PageKey(pageHash, opts)
}

// ArtifactKey generates a prefixed key for an export artifact.
func (k *ScopedKeyer) ArtifactKey(docHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(docHash, opts)
}
