package kernel

import (
	"slices"
	"strings"
)

// Encoding is a non-empty sequence of moves, applied right to left.
//
// Its source is the source of the last move and its target is the target of
// the first. When the two triangulations are equal the encoding is a mapping
// class, and the MappingClass methods (Power, Order, ...) apply.
type Encoding struct {
	moves []Move
}

func newEncoding(moves []Move) *Encoding { return &Encoding{moves: moves} }

// IDEncoding returns the identity mapping class of t.
func (t *Triangulation) IDEncoding() *Encoding {
	image := make([]int, 2*t.zeta)
	for _, l := range t.Labels() {
		image[t.slot(l)] = l
	}
	return newEncoding([]Move{&Isometry{source: t, target: t, image: image}})
}

// EncodeFlip returns the encoding of the flip of label e.
func (t *Triangulation) EncodeFlip(e int) (*Encoding, error) {
	f, err := newEdgeFlip(t, e)
	if err != nil {
		return nil, err
	}
	return newEncoding([]Move{f}), nil
}

// EncodeIsometry returns the isometry sending each key of labelMap to its
// value. The map needs an entry for every edge, keyed by either label; the
// target is t relabelled.
func (t *Triangulation) EncodeIsometry(labelMap map[int]int) (*Encoding, error) {
	images := make([]int, t.zeta)
	for i := range t.zeta {
		if m, ok := labelMap[i]; ok {
			images[i] = m
		} else if m, ok := labelMap[Tilde(i)]; ok {
			images[i] = Tilde(m)
		} else {
			return nil, invalidInputf("isometry has no image for edge %d", i)
		}
	}
	m, err := newIsometry(t, images)
	if err != nil {
		return nil, err
	}
	return newEncoding([]Move{m}), nil
}

// Encode rebuilds an encoding from the output of Encoding.Package, starting
// at t. Packages are listed in sequence order, so the last is applied first.
func (t *Triangulation) Encode(pkgs []MovePackage) (*Encoding, error) {
	if len(pkgs) == 0 {
		return t.IDEncoding(), nil
	}
	moves := make([]Move, len(pkgs))
	cur := t
	for i := len(pkgs) - 1; i >= 0; i-- {
		var (
			m   Move
			err error
		)
		switch p := pkgs[i]; p.Kind {
		case MoveFlip:
			m, err = newEdgeFlip(cur, p.Label)
		case MoveIsometry:
			m, err = newIsometry(cur, p.Map)
		default:
			err = invalidInputf("unknown move kind %q", p.Kind)
		}
		if err != nil {
			return nil, err
		}
		moves[i] = m
		cur = m.Target()
	}
	return newEncoding(moves), nil
}

// Source returns the triangulation the encoding starts on.
func (e *Encoding) Source() *Triangulation { return e.moves[len(e.moves)-1].Source() }

// Target returns the triangulation the encoding ends on.
func (e *Encoding) Target() *Triangulation { return e.moves[0].Target() }

// Len returns the number of moves.
func (e *Encoding) Len() int { return len(e.moves) }

// Move returns the i-th move, where move 0 is applied last.
func (e *Encoding) Move(i int) Move { return e.moves[i] }

// Moves returns a copy of the move sequence.
func (e *Encoding) Moves() []Move { return slices.Clone(e.moves) }

// IsMappingClass reports whether the source and target are equal.
func (e *Encoding) IsMappingClass() bool { return e.Source().Equal(e.Target()) }

func (e *Encoding) String() string {
	parts := make([]string, len(e.moves))
	for i, m := range e.moves {
		parts[i] = m.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Compose returns e * other, which applies other first. A nil other is the
// identity.
func (e *Encoding) Compose(other *Encoding) (*Encoding, error) {
	if other == nil {
		return e, nil
	}
	if !e.Source().Equal(other.Target()) {
		return nil, mismatchf("cannot compose encodings over different triangulations")
	}
	moves := make([]Move, 0, len(e.moves)+len(other.moves))
	moves = append(moves, e.moves...)
	moves = append(moves, other.moves...)
	return newEncoding(moves), nil
}

// Apply returns the image of l, which must live on the source.
func (e *Encoding) Apply(l *Lamination) (*Lamination, error) {
	if !l.tri.Equal(e.Source()) {
		return nil, mismatchf("cannot apply an encoding to a lamination on another triangulation")
	}
	var err error
	for i := len(e.moves) - 1; i >= 0; i-- {
		if l, err = e.moves[i].ApplyLamination(l); err != nil {
			return nil, err
		}
	}
	return l, nil
}

// Inverse returns the encoding undoing e.
func (e *Encoding) Inverse() *Encoding {
	moves := make([]Move, len(e.moves))
	for i, m := range e.moves {
		moves[len(e.moves)-1-i] = m.Inverse()
	}
	return newEncoding(moves)
}

// Slice returns the moves i..j-1 as an encoding. An empty slice is the
// identity on the triangulation between moves i-1 and i, so that
// e == e.Slice(0,i) * e.Slice(i,j) * e.Slice(j,Len) for all i <= j.
func (e *Encoding) Slice(i, j int) (*Encoding, error) {
	n := len(e.moves)
	switch {
	case i < 0 || j > n || i > j:
		return nil, invalidInputf("slice [%d:%d] out of range for %d moves", i, j, n)
	case i == j && i < n:
		return e.moves[i].Target().IDEncoding(), nil
	case i == j:
		return e.Source().IDEncoding(), nil
	}
	return newEncoding(slices.Clone(e.moves[i:j])), nil
}

// Package returns the serializable form of each move, in sequence order.
func (e *Encoding) Package() []MovePackage {
	out := make([]MovePackage, len(e.moves))
	for i, m := range e.moves {
		out[i] = m.Package()
	}
	return out
}

// Equal reports whether e and other act identically on every edge arc and
// every homology generator of their source. Encodings between different
// triangulations are never equal.
func (e *Encoding) Equal(other *Encoding) bool {
	if !e.Source().Equal(other.Source()) || !e.Target().Equal(other.Target()) {
		return false
	}
	for _, arc := range e.Source().EdgeArcs() {
		a, err := e.Apply(arc)
		if err != nil {
			return false
		}
		b, err := other.Apply(arc)
		if err != nil || !a.Equal(b) {
			return false
		}
	}
	for _, h := range e.Source().HomologyGenerators() {
		a, err := e.ApplyHomology(h)
		if err != nil {
			return false
		}
		b, err := other.ApplyHomology(h)
		if err != nil || !a.Equal(b) {
			return false
		}
	}
	return true
}

// IntersectionMatrix returns the images of the edge arcs of the source, one
// row per edge. Away from the once-punctured torus it determines e.
func (e *Encoding) IntersectionMatrix() ([][]int, error) {
	arcs := e.Source().EdgeArcs()
	rows := make([][]int, len(arcs))
	for i, arc := range arcs {
		img, err := e.Apply(arc)
		if err != nil {
			return nil, err
		}
		rows[i] = img.Weights()
	}
	return rows, nil
}

// VertexMap returns, for each vertex of the source, the vertex of the target
// that e sends it to.
func (e *Encoding) VertexMap() ([]int, error) {
	src, dst := e.Source(), e.Target()
	targets := make(map[string]int, dst.NumVertices())
	for v := range dst.NumVertices() {
		c, err := dst.PeripheralCurve(v)
		if err != nil {
			return nil, err
		}
		targets[c.String()] = v
	}
	out := make([]int, src.NumVertices())
	for v := range src.NumVertices() {
		c, err := src.PeripheralCurve(v)
		if err != nil {
			return nil, err
		}
		img, err := e.Apply(c)
		if err != nil {
			return nil, err
		}
		w, ok := targets[img.String()]
		if !ok {
			return nil, assumptionf("image of vertex %d is not peripheral", v)
		}
		out[v] = w
	}
	return out, nil
}
