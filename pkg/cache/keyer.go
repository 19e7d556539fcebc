package cache

import "time"

// TTLs per result type. Results are exact, so the TTLs only bound how long
// unused entries linger on disk.
const (
	TTLShorten    = 30 * 24 * time.Hour
	TTLComponents = 30 * 24 * time.Hour
	TTLClassify   = 30 * 24 * time.Hour
	TTLIntersect  = 7 * 24 * time.Hour
)

// Key prefixes, one per cached operation.
const (
	PrefixShorten    = "shorten"
	PrefixComponents = "components"
	PrefixClassify   = "classify"
	PrefixIntersect  = "intersect"
)

// Keyer builds cache keys for lamina operations.
//
// Lamination inputs are the string returned by kernel.Lamination.Key, which
// already identifies the triangulation. Encoding inputs are a triangulation
// signature plus a stable rendering of the packaged moves.
type Keyer interface {
	ShortenKey(lamination string) string
	ComponentsKey(lamination string) string
	ClassifyKey(signature, encoding string, opts ClassifyKeyOpts) string
	IntersectKey(a, b string) string
}

// ClassifyKeyOpts holds the options that change a classification result.
type ClassifyKeyOpts struct {
	MaxOrder int `msgpack:"max_order"`
}

// DefaultKeyer hashes its inputs behind an operation prefix.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default Keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ShortenKey keys the short form and conjugator of a lamination.
func (DefaultKeyer) ShortenKey(lamination string) string {
	return hashKey(PrefixShorten, lamination)
}

// ComponentsKey keys the component decomposition of a lamination.
func (DefaultKeyer) ComponentsKey(lamination string) string {
	return hashKey(PrefixComponents, lamination)
}

// ClassifyKey keys the Nielsen-Thurston type and order of a mapping class.
func (DefaultKeyer) ClassifyKey(signature, encoding string, opts ClassifyKeyOpts) string {
	return hashKey(PrefixClassify, signature, encoding, opts)
}

// IntersectKey keys the geometric intersection number of a and b. The
// number is not symmetric for arcs, so order matters.
func (DefaultKeyer) IntersectKey(a, b string) string {
	return hashKey(PrefixIntersect, a, b)
}

var _ Keyer = DefaultKeyer{}
