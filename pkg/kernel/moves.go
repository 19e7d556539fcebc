package kernel

import (
	"fmt"
	"slices"
)

// Move is an invertible map between two triangulations.
type Move interface {
	Source() *Triangulation
	Target() *Triangulation
	// ApplyLamination returns the image on Target of a lamination on Source.
	ApplyLamination(*Lamination) (*Lamination, error)
	// ApplyHomology returns the image on Target of a class on Source.
	ApplyHomology(HomologyClass) (HomologyClass, error)
	Inverse() Move
	// Package returns enough data for Source to rebuild the move.
	Package() MovePackage
	String() string
}

// Move kinds used in MovePackage.
const (
	MoveFlip     = "flip"
	MoveIsometry = "isometry"
)

// MovePackage is the serializable form of a Move.
type MovePackage struct {
	Kind  string `json:"kind" msgpack:"kind"`
	Label int    `json:"label,omitempty" msgpack:"label,omitempty"`
	// Map lists the image label of each edge index, for isometries.
	Map []int `json:"map,omitempty" msgpack:"map,omitempty"`
}

// =============================================================================
// EdgeFlip
// =============================================================================

// EdgeFlip replaces the diagonal of the square around an edge with the
// other diagonal.
//
// With corner(e) = (e, a, b) and corner(~e) = (~e, c, d), flipping a label
// e >= 0 produces triangles (e, d, a) and (~e, b, c). Flipping e < 0
// produces (e, b, c) and (~e, d, a). Either way the inverse is the flip of
// ~e on the target.
type EdgeFlip struct {
	source, target *Triangulation
	label          int
}

func newEdgeFlip(t *Triangulation, e int) (*EdgeFlip, error) {
	if !t.hasLabel(e) {
		return nil, invalidInputf("label %s out of range", FormatLabel(e))
	}
	if !t.IsFlippable(e) {
		return nil, assumptionf("edge %s is not flippable", FormatLabel(e))
	}
	sq := t.Square(e)
	a, b, c, d := sq[0], sq[1], sq[2], sq[3]
	triangles := slices.Clone(t.triangles)
	if e >= 0 {
		triangles[t.triangleOf(e)] = [3]int{e, d, a}
		triangles[t.triangleOf(Tilde(e))] = [3]int{Tilde(e), b, c}
	} else {
		triangles[t.triangleOf(e)] = [3]int{e, b, c}
		triangles[t.triangleOf(Tilde(e))] = [3]int{Tilde(e), d, a}
	}
	target, err := NewTriangulation(triangles)
	if err != nil {
		return nil, err
	}
	return &EdgeFlip{source: t, target: target, label: e}, nil
}

// Source returns the triangulation before the flip.
func (f *EdgeFlip) Source() *Triangulation { return f.source }

// Target returns the triangulation after the flip.
func (f *EdgeFlip) Target() *Triangulation { return f.target }

// Label returns the flipped label.
func (f *EdgeFlip) Label() int { return f.label }

// Inverse returns the flip of ~label on the target.
func (f *EdgeFlip) Inverse() Move {
	return &EdgeFlip{source: f.target, target: f.source, label: Tilde(f.label)}
}

// Package returns the flipped label.
func (f *EdgeFlip) Package() MovePackage { return MovePackage{Kind: MoveFlip, Label: f.label} }

func (f *EdgeFlip) String() string { return "Flip " + FormatLabel(f.label) }

// ApplyLamination only changes the weight of the flipped edge.
func (f *EdgeFlip) ApplyLamination(l *Lamination) (*Lamination, error) {
	if !l.tri.Equal(f.source) {
		return nil, mismatchf("lamination is not on the source of %s", f)
	}
	w := slices.Clone(l.w)
	w[Norm(f.label)] = flipWeight(l, f.label)
	out, err := newLamination(f.target, w)
	if err != nil {
		return nil, err
	}
	if k, done := l.knownKind(); done {
		out.setKind(k)
	}
	return out, nil
}

// flipWeight returns the weight of the new diagonal after flipping e.
//
// Label the square so that e runs P->Q, corner(e) = (e, a, b) has apex R and
// corner(~e) = (~e, c, d) has apex S. The new diagonal runs between R and S.
// Strands are laid out along e from P: in triangle A those turning to b,
// those ending at R, then those turning to a. In triangle B those turning to
// c, those ending at S, then those turning to d.
func flipWeight(l *Lamination, e int) int {
	sq := l.tri.Square(e)
	a, b, c, d := sq[0], sq[1], sq[2], sq[3]
	ne := Tilde(e)
	E := pos(l.At(e))

	nAP := pos(l.DualWeight(a))
	nAR, tAR := pos(l.DualWeight(e)), pos(-l.DualWeight(e))
	tAP, tAQ := pos(-l.DualWeight(a)), pos(-l.DualWeight(b))

	nBP := pos(l.DualWeight(d))
	nBS, tBS := pos(l.DualWeight(ne)), pos(-l.DualWeight(ne))
	tBP, tBQ := pos(-l.DualWeight(d)), pos(-l.DualWeight(c))

	// Intervals along e, measured from P.
	bLo, bHi := 0, nAP
	rLo, rHi := nAP, nAP+tAR
	aLo, aHi := rHi, E
	cLo, cHi := 0, nBP
	sLo, sHi := nBP, nBP+tBS
	dLo, dHi := sHi, E

	if rs := overlap(rLo, rHi, sLo, sHi); rs > 0 {
		return -rs
	}

	w := nAR + nBS
	w += overlap(bLo, bHi, dLo, dHi) + overlap(aLo, aHi, cLo, cHi)
	w += tAP + tAQ + tBP + tBQ
	if x := l.At(e); x < 0 {
		w += -x
	}
	return w
}

// ApplyHomology recomputes the flipped edge from the triangle it now lies in.
func (f *EdgeFlip) ApplyHomology(h HomologyClass) (HomologyClass, error) {
	if !h.tri.Equal(f.source) {
		return HomologyClass{}, mismatchf("homology class is not on the source of %s", f)
	}
	alg := slices.Clone(h.alg)
	c := f.target.Corner(f.label)
	flow := -(h.flow(c[1]) + h.flow(c[2]))
	alg[Norm(f.label)] = Sign(f.label) * flow
	return HomologyClass{tri: f.target, alg: alg}, nil
}

// =============================================================================
// Isometry
// =============================================================================

// Isometry relabels the edges of a triangulation, taking every triangle of
// the source to a triangle of the target.
type Isometry struct {
	source, target *Triangulation
	image          []int // source.slot(label) -> target label
}

// newIsometry builds the isometry with the given images of the edge indices,
// taking the target to be the relabelled source.
func newIsometry(t *Triangulation, indexImages []int) (*Isometry, error) {
	if len(indexImages) != t.zeta {
		return nil, invalidInputf("isometry needs %d images, got %d", t.zeta, len(indexImages))
	}
	image := make([]int, 2*t.zeta)
	used := make([]bool, t.zeta)
	for i, m := range indexImages {
		if !t.hasLabel(m) {
			return nil, invalidInputf("image %s of edge %d out of range", FormatLabel(m), i)
		}
		if used[Norm(m)] {
			return nil, invalidInputf("edge %d is the image of two edges", Norm(m))
		}
		used[Norm(m)] = true
		image[t.slot(i)] = m
		image[t.slot(Tilde(i))] = Tilde(m)
	}
	triangles := make([][3]int, len(t.triangles))
	for i, tri := range t.triangles {
		triangles[i] = [3]int{image[t.slot(tri[0])], image[t.slot(tri[1])], image[t.slot(tri[2])]}
	}
	target, err := NewTriangulation(triangles)
	if err != nil {
		return nil, err
	}
	return &Isometry{source: t, target: target, image: image}, nil
}

// Source returns the domain triangulation.
func (m *Isometry) Source() *Triangulation { return m.source }

// Target returns the codomain triangulation.
func (m *Isometry) Target() *Triangulation { return m.target }

// Image returns the target label that label l maps to.
func (m *Isometry) Image(l int) int { return m.image[m.source.slot(l)] }

// IndexMap returns the image label of each edge index.
func (m *Isometry) IndexMap() []int {
	out := make([]int, m.source.zeta)
	for i := range out {
		out[i] = m.Image(i)
	}
	return out
}

// IsIdentity reports whether every label maps to itself.
func (m *Isometry) IsIdentity() bool {
	for i := range m.source.zeta {
		if m.Image(i) != i {
			return false
		}
	}
	return true
}

// Inverse returns the reverse relabelling.
func (m *Isometry) Inverse() Move {
	image := make([]int, len(m.image))
	for _, l := range m.source.Labels() {
		image[m.target.slot(m.Image(l))] = l
	}
	return &Isometry{source: m.target, target: m.source, image: image}
}

// Package returns the index map.
func (m *Isometry) Package() MovePackage {
	return MovePackage{Kind: MoveIsometry, Map: m.IndexMap()}
}

func (m *Isometry) String() string {
	return fmt.Sprintf("Isometry %v", m.IndexMap())
}

// ApplyLamination moves each weight to the image edge.
func (m *Isometry) ApplyLamination(l *Lamination) (*Lamination, error) {
	if !l.tri.Equal(m.source) {
		return nil, mismatchf("lamination is not on the source of %s", m)
	}
	w := make([]int, len(l.w))
	for i, x := range l.w {
		w[Norm(m.Image(i))] = x
	}
	out, err := newLamination(m.target, w)
	if err != nil {
		return nil, err
	}
	if k, done := l.knownKind(); done {
		out.setKind(k)
	}
	return out, nil
}

// ApplyHomology moves each algebraic intersection to the image edge.
func (m *Isometry) ApplyHomology(h HomologyClass) (HomologyClass, error) {
	if !h.tri.Equal(m.source) {
		return HomologyClass{}, mismatchf("homology class is not on the source of %s", m)
	}
	alg := make([]int, len(h.alg))
	for i, x := range h.alg {
		img := m.Image(i)
		alg[Norm(img)] = Sign(img) * x
	}
	return HomologyClass{tri: m.target, alg: alg}, nil
}
