package cache

// ScopedKeyer wraps a Keyer with a prefix so several callers can share one
// backend without colliding, for example a Redis instance used by more than
// one project.
//
// Example usage:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "project:knots:")
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

// ShortenKey generates a prefixed key for shortening results.
func (k *ScopedKeyer) ShortenKey(lamination string) string {
	return k.prefix + k.inner.ShortenKey(lamination)
}

// ComponentsKey generates a prefixed key for component decompositions.
func (k *ScopedKeyer) ComponentsKey(lamination string) string {
	return k.prefix + k.inner.ComponentsKey(lamination)
}

// ClassifyKey generates a prefixed key for classification results.
func (k *ScopedKeyer) ClassifyKey(signature, encoding string, opts ClassifyKeyOpts) string {
	return k.prefix + k.inner.ClassifyKey(signature, encoding, opts)
}

// IntersectKey generates a prefixed key for intersection numbers.
func (k *ScopedKeyer) IntersectKey(a, b string) string {
	return k.prefix + k.inner.IntersectKey(a, b)
}
