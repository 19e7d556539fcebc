package kernel

import (
	"slices"
	"strings"
)

// Triangulation is an ideal triangulation of a punctured surface.
//
// Each triangle lists three labels counter-clockwise, and every label in
// [-zeta, zeta) occurs in exactly one triangle. Label l and ~l are glued
// together, which orients each edge counter-clockwise around its triangle.
//
// The zero value is not usable - use NewTriangulation. A Triangulation is
// immutable and safe for concurrent use.
type Triangulation struct {
	zeta      int
	triangles [][3]int
	cornerOf  []cornerRef // slot(label) -> position in triangles
	vertexOf  []int       // slot(label) -> vertex class of the label's tail
	vertices  [][]int
	signature string
}

type cornerRef struct {
	tri, side int
}

// NewTriangulation builds a triangulation from counter-clockwise triples of
// labels. It returns an INVALID_TRIANGULATION error when a label is missing,
// repeated or out of range.
func NewTriangulation(triangles [][3]int) (*Triangulation, error) {
	if len(triangles) == 0 {
		return nil, invalidTriangulationf("no triangles")
	}
	if len(triangles)%2 != 0 {
		return nil, invalidTriangulationf("odd number of triangles (%d)", len(triangles))
	}
	zeta := 3 * len(triangles) / 2
	t := &Triangulation{
		zeta:      zeta,
		triangles: slices.Clone(triangles),
		cornerOf:  make([]cornerRef, 2*zeta),
		vertexOf:  make([]int, 2*zeta),
	}

	seen := make([]bool, 2*zeta)
	for i, tri := range t.triangles {
		for side, l := range tri {
			if l < -zeta || l >= zeta {
				return nil, invalidTriangulationf("label %s out of range for %d edges", FormatLabel(l), zeta)
			}
			s := t.slot(l)
			if seen[s] {
				return nil, invalidTriangulationf("label %s appears more than once", FormatLabel(l))
			}
			seen[s] = true
			t.cornerOf[s] = cornerRef{tri: i, side: side}
		}
	}

	t.buildVertices()
	t.signature = signature(t.triangles)
	return t, nil
}

func (t *Triangulation) slot(l int) int { return l + t.zeta }

func (t *Triangulation) hasLabel(l int) bool { return l >= -t.zeta && l < t.zeta }

func (t *Triangulation) hasIndex(i int) bool { return i >= 0 && i < t.zeta }

// buildVertices groups labels into the orbits of l -> ~corner(l)[2]. Each
// orbit is the set of labels leaving one puncture.
func (t *Triangulation) buildVertices() {
	for i := range t.vertexOf {
		t.vertexOf[i] = -1
	}
	for _, l := range t.Labels() {
		if t.vertexOf[t.slot(l)] >= 0 {
			continue
		}
		v := len(t.vertices)
		var class []int
		for x := l; t.vertexOf[t.slot(x)] < 0; x = Tilde(t.Corner(x)[2]) {
			t.vertexOf[t.slot(x)] = v
			class = append(class, x)
		}
		t.vertices = append(t.vertices, class)
	}
}

// signature renders the triangles with each rotated to its smallest form and
// the list sorted, so structurally equal triangulations share a signature.
func signature(triangles [][3]int) string {
	canon := make([][3]int, len(triangles))
	for i, tri := range triangles {
		best := tri
		for r := 1; r < 3; r++ {
			rot := [3]int{tri[r], tri[(r+1)%3], tri[(r+2)%3]}
			if compareTriple(rot, best) < 0 {
				best = rot
			}
		}
		canon[i] = best
	}
	slices.SortFunc(canon, compareTriple)
	return formatTriangles(canon)
}

func compareTriple(a, b [3]int) int {
	for i := range 3 {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}

func formatTriangles(triangles [][3]int) string {
	var sb strings.Builder
	for i, tri := range triangles {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteByte('(')
		for j, l := range tri {
			if j > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(FormatLabel(l))
		}
		sb.WriteByte(')')
	}
	return sb.String()
}

// String returns the triangles in the order they were given.
func (t *Triangulation) String() string { return formatTriangles(t.triangles) }

// Signature returns a canonical text form. Two triangulations are Equal
// exactly when their signatures match.
func (t *Triangulation) Signature() string { return t.signature }

// Equal reports whether t and other have the same labelled triangles up to
// rotation of each triangle.
func (t *Triangulation) Equal(other *Triangulation) bool {
	if t == other {
		return true
	}
	if t == nil || other == nil {
		return false
	}
	return t.zeta == other.zeta && t.signature == other.signature
}

// Zeta returns the number of edges.
func (t *Triangulation) Zeta() int { return t.zeta }

// Labels returns 0..zeta-1 followed by ~0..~(zeta-1).
func (t *Triangulation) Labels() []int {
	labels := make([]int, 0, 2*t.zeta)
	for i := range t.zeta {
		labels = append(labels, i)
	}
	for i := range t.zeta {
		labels = append(labels, Tilde(i))
	}
	return labels
}

// Triangles returns a copy of the triangles.
func (t *Triangulation) Triangles() [][3]int { return slices.Clone(t.triangles) }

// Corner returns the triangle containing l, rotated so that l comes first.
// It panics if l is not a label of t.
func (t *Triangulation) Corner(l int) [3]int {
	ref := t.cornerOf[t.slot(l)]
	tri := t.triangles[ref.tri]
	return [3]int{tri[ref.side], tri[(ref.side+1)%3], tri[(ref.side+2)%3]}
}

func (t *Triangulation) triangleOf(l int) int { return t.cornerOf[t.slot(l)].tri }

// IsFlippable reports whether the two sides of edge l lie in different
// triangles.
func (t *Triangulation) IsFlippable(l int) bool {
	if !t.hasLabel(l) {
		return false
	}
	return t.triangleOf(l) != t.triangleOf(Tilde(l))
}

// Square returns [a, b, c, d, e] where corner(e) = (e, a, b) and
// corner(~e) = (~e, c, d). Going counter-clockwise around the square the
// boundary reads c, d, a, b.
func (t *Triangulation) Square(e int) [5]int {
	ca, cb := t.Corner(e), t.Corner(Tilde(e))
	return [5]int{ca[1], ca[2], cb[1], cb[2], e}
}

// Vertices returns the vertex classes. Each class lists the labels whose
// tail is that puncture.
func (t *Triangulation) Vertices() [][]int {
	out := make([][]int, len(t.vertices))
	for i, v := range t.vertices {
		out[i] = slices.Clone(v)
	}
	return out
}

// VertexOf returns the index into Vertices of the tail of l.
func (t *Triangulation) VertexOf(l int) int { return t.vertexOf[t.slot(l)] }

// NumVertices returns the number of punctures.
func (t *Triangulation) NumVertices() int { return len(t.vertices) }

// EulerCharacteristic returns the Euler characteristic of the punctured
// surface, which is -zeta/3.
func (t *Triangulation) EulerCharacteristic() int { return len(t.triangles) - t.zeta }

// Genus returns the genus of the underlying closed surface, assuming t is
// connected.
func (t *Triangulation) Genus() int {
	closed := t.EulerCharacteristic() + t.NumVertices()
	return (2 - closed) / 2
}

// MaxOrder returns an upper bound on the order of a periodic mapping class.
func (t *Triangulation) MaxOrder() int {
	g, n := t.Genus(), t.NumVertices()
	if g == 0 {
		return max(n, 2)
	}
	return max(4*g+2, n)
}

// Components returns the labels of each connected component, in order of
// their smallest edge index.
func (t *Triangulation) Components() [][]int {
	comp := make([]int, len(t.triangles))
	for i := range comp {
		comp[i] = -1
	}
	var out [][]int
	for i := range t.zeta {
		root := t.triangleOf(i)
		if comp[root] >= 0 {
			continue
		}
		c := len(out)
		var labels []int
		queue := []int{root}
		comp[root] = c
		for len(queue) > 0 {
			tri := t.triangles[queue[0]]
			queue = queue[1:]
			for _, l := range tri {
				labels = append(labels, l)
				next := t.triangleOf(Tilde(l))
				if comp[next] < 0 {
					comp[next] = c
					queue = append(queue, next)
				}
			}
		}
		slices.Sort(labels)
		out = append(out, labels)
	}
	return out
}

// DualTree returns the edge indices of a spanning forest of the dual graph,
// found by breadth-first search from the lowest numbered triangle of each
// component.
func (t *Triangulation) DualTree() []int {
	tree, _ := t.dualTree()
	return tree
}

// dualTree also returns, for each triangle, the label inside it that leads
// to its parent, or zeta when the triangle is a root.
func (t *Triangulation) dualTree() ([]int, []int) {
	parent := make([]int, len(t.triangles))
	visited := make([]bool, len(t.triangles))
	var tree []int
	for root := range t.triangles {
		if visited[root] {
			continue
		}
		visited[root] = true
		parent[root] = t.zeta
		queue := []int{root}
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			for _, l := range t.triangles[cur] {
				next := t.triangleOf(Tilde(l))
				if visited[next] {
					continue
				}
				visited[next] = true
				parent[next] = Tilde(l)
				tree = append(tree, Norm(l))
				queue = append(queue, next)
			}
		}
	}
	slices.Sort(tree)
	return tree, parent
}

// IsometriesTo returns every isometry from t to other that agrees with the
// partial label map fixed. A nil or empty fixed imposes no constraint. The
// result is ordered by the images of 0, 1, ... so it is deterministic.
func (t *Triangulation) IsometriesTo(other *Triangulation, fixed map[int]int) []*Isometry {
	if t.zeta != other.zeta || len(t.triangles) != len(other.triangles) || t.NumVertices() != other.NumVertices() {
		return nil
	}
	pm := newPartialMap(t.zeta)
	keys := make([]int, 0, len(fixed))
	for l := range fixed {
		keys = append(keys, l)
	}
	slices.Sort(keys)
	for _, l := range keys {
		m := fixed[l]
		if !t.hasLabel(l) || !other.hasLabel(m) || !pm.extend(t, other, l, m) {
			return nil
		}
	}

	var out []*Isometry
	var search func(pm *partialMap)
	search = func(pm *partialMap) {
		free := pm.firstUnset(t)
		if free != t.zeta {
			for _, m := range other.Labels() {
				if pm.isUsed(other, m) {
					continue
				}
				next := pm.clone()
				if next.extend(t, other, free, m) {
					search(next)
				}
			}
			return
		}
		out = append(out, &Isometry{source: t, target: other, image: pm.fwd})
	}
	search(pm)
	return out
}

const unset = 1 << 62

// partialMap is a label map being built up by IsometriesTo.
type partialMap struct {
	fwd, inv []int
}

func newPartialMap(zeta int) *partialMap {
	pm := &partialMap{fwd: make([]int, 2*zeta), inv: make([]int, 2*zeta)}
	for i := range pm.fwd {
		pm.fwd[i] = unset
		pm.inv[i] = unset
	}
	return pm
}

func (pm *partialMap) clone() *partialMap {
	return &partialMap{fwd: slices.Clone(pm.fwd), inv: slices.Clone(pm.inv)}
}

func (pm *partialMap) isUsed(t *Triangulation, m int) bool {
	return pm.inv[t.slot(m)] != unset
}

// firstUnset returns the first label of t without an image, or zeta when the
// map is complete.
func (pm *partialMap) firstUnset(t *Triangulation) int {
	for _, l := range t.Labels() {
		if pm.fwd[t.slot(l)] == unset {
			return l
		}
	}
	return t.zeta
}

// extend sets l -> m and propagates it through corners. It reports false on
// any conflict, leaving pm in an undefined state.
func (pm *partialMap) extend(src, dst *Triangulation, l, m int) bool {
	type pair struct{ l, m int }
	queue := []pair{{l, m}}
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		s, d := src.slot(p.l), dst.slot(p.m)
		if pm.fwd[s] != unset {
			if pm.fwd[s] != p.m {
				return false
			}
			continue
		}
		if pm.inv[d] != unset {
			return false
		}
		pm.fwd[s], pm.inv[d] = p.m, p.l
		cs, cd := src.Corner(p.l), dst.Corner(p.m)
		queue = append(queue,
			pair{Tilde(p.l), Tilde(p.m)},
			pair{cs[1], cd[1]},
			pair{cs[2], cd[2]},
		)
	}
	return true
}
