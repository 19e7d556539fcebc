package kernel

import (
	"slices"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
)

// Kind is the topological classification of a lamination.
type Kind int

const (
	// Generic is a lamination with both curve and arc components, or none.
	Generic Kind = iota
	// MultiCurve is a union of two or more closed curves (counted with multiplicity).
	MultiCurve
	// Curve is a single essential or peripheral closed curve.
	Curve
	// MultiArc is a union of two or more arcs (counted with multiplicity).
	MultiArc
	// Arc is a single arc between punctures.
	Arc
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case MultiCurve:
		return "multicurve"
	case Curve:
		return "curve"
	case MultiArc:
		return "multiarc"
	case Arc:
		return "arc"
	default:
		return "lamination"
	}
}

// IsCurveKind reports whether k is Curve or MultiCurve.
func (k Kind) IsCurveKind() bool { return k == Curve || k == MultiCurve }

// IsArcKind reports whether k is Arc or MultiArc.
func (k Kind) IsArcKind() bool { return k == Arc || k == MultiArc }

// Lamination is an integral lamination on a Triangulation.
//
// Weights are indexed by edge index. A weight of -k on an edge means k
// parallel copies of the arc running along that edge. Dual and side weights
// are derived per corner at construction: DualWeight(x) counts the arcs
// cutting the corner opposite x in x's triangle, negative when that many
// arcs enter through x and end at the opposite vertex.
//
// Laminations are immutable. Derived data (kind, components, shortening) is
// computed at most once and shared by concurrent readers.
type Lamination struct {
	tri  *Triangulation
	w    []int
	dual []int // slot(label)
	side []int // slot(label)
	memo *laminationMemo
}

type laminationMemo struct {
	kindOnce   sync.Once
	kind       Kind
	kindErr    error
	classified atomic.Bool

	compOnce sync.Once
	comps    []Component
	compErr  error

	shortOnce sync.Once
	short     *Lamination
	conj      *Encoding
	shortErr  error
}

// Component is one connected piece of a lamination with its multiplicity.
type Component struct {
	Lamination   *Lamination
	Multiplicity int
}

// newLamination validates weights against the triangle parity condition
// and fills in dual and side weights. The kind is left to be classified.
func newLamination(t *Triangulation, weights []int) (*Lamination, error) {
	if len(weights) != t.zeta {
		return nil, invalidLaminationf("expected %d weights, got %d", t.zeta, len(weights))
	}
	l := &Lamination{
		tri:  t,
		w:    slices.Clone(weights),
		dual: make([]int, 2*t.zeta),
		side: make([]int, 2*t.zeta),
		memo: &laminationMemo{},
	}
	for _, tri := range t.triangles {
		i, j, k := tri[0], tri[1], tri[2]
		a, b, c := pos(l.At(i)), pos(l.At(j)), pos(l.At(k))
		corr := min(a+b-c, b+c-a, c+a-b, 0)
		if (a+b+c+corr)%2 != 0 {
			return nil, invalidLaminationf("weights %v have odd parity around triangle %s", weights, formatTriangles([][3]int{tri}))
		}
		l.dual[t.slot(i)] = (b + c - a + corr) / 2
		l.dual[t.slot(j)] = (c + a - b + corr) / 2
		l.dual[t.slot(k)] = (a + b - c + corr) / 2
		l.side[t.slot(k)] = l.dual[t.slot(i)]
		l.side[t.slot(i)] = l.dual[t.slot(j)]
		l.side[t.slot(j)] = l.dual[t.slot(k)]
	}
	return l, nil
}

// newLaminationOfKind is newLamination with the classification already known.
func newLaminationOfKind(t *Triangulation, weights []int, kind Kind) (*Lamination, error) {
	l, err := newLamination(t, weights)
	if err != nil {
		return nil, err
	}
	l.setKind(kind)
	return l, nil
}

func (l *Lamination) setKind(k Kind) {
	l.memo.kindOnce.Do(func() {
		l.memo.kind = k
		l.memo.classified.Store(true)
	})
}

// knownKind returns the kind if classification has already happened.
func (l *Lamination) knownKind() (Kind, bool) {
	if l.memo.classified.Load() {
		return l.memo.kind, true
	}
	return Generic, false
}

// Lamination validates weights and classifies the result.
func (t *Triangulation) Lamination(weights []int) (*Lamination, error) {
	l, err := newLamination(t, weights)
	if err != nil {
		return nil, err
	}
	if _, err := l.classify(); err != nil {
		return nil, err
	}
	return l, nil
}

// EmptyLamination returns the lamination with all weights zero.
func (t *Triangulation) EmptyLamination() *Lamination {
	l, _ := newLaminationOfKind(t, make([]int, t.zeta), Generic)
	return l
}

// EdgeArc returns the arc running along edge index i.
func (t *Triangulation) EdgeArc(i int) (*Lamination, error) {
	if !t.hasIndex(i) {
		return nil, invalidInputf("edge index %d out of range [0, %d)", i, t.zeta)
	}
	w := make([]int, t.zeta)
	w[i] = -1
	return newLaminationOfKind(t, w, Arc)
}

// EdgeArcs returns EdgeArc(i) for every edge index.
func (t *Triangulation) EdgeArcs() []*Lamination {
	arcs := make([]*Lamination, t.zeta)
	for i := range t.zeta {
		arcs[i], _ = t.EdgeArc(i)
	}
	return arcs
}

// PeripheralCurve returns the curve around vertex v.
func (t *Triangulation) PeripheralCurve(v int) (*Lamination, error) {
	if v < 0 || v >= len(t.vertices) {
		return nil, invalidInputf("vertex %d out of range [0, %d)", v, len(t.vertices))
	}
	w := make([]int, t.zeta)
	for _, l := range t.vertices[v] {
		w[Norm(l)]++
	}
	return newLaminationOfKind(t, w, Curve)
}

// Sum returns the Haken sum of laminations, which must all live on t.
func (t *Triangulation) Sum(laminations []*Lamination) (*Lamination, error) {
	w := make([]int, t.zeta)
	for _, l := range laminations {
		if !l.tri.Equal(t) {
			return nil, mismatchf("cannot sum laminations on different triangulations")
		}
		for i, x := range l.w {
			w[i] += x
		}
	}
	return newLamination(t, w)
}

// LaminationFromCutSequence builds the curve that crosses the given labels
// in order, closing up after the last. Adjacent l, ~l pairs are cancelled
// cyclically first, since they cross the same edge back and forth.
func (t *Triangulation) LaminationFromCutSequence(labels []int) (*Lamination, error) {
	reduced := reduceCyclic(labels)
	w := make([]int, t.zeta)
	for _, l := range reduced {
		if !t.hasLabel(l) {
			return nil, invalidInputf("label %s out of range", FormatLabel(l))
		}
		w[Norm(l)]++
	}
	return newLamination(t, w)
}

func reduceCyclic(labels []int) []int {
	stack := make([]int, 0, len(labels))
	for _, l := range labels {
		if n := len(stack); n > 0 && stack[n-1] == Tilde(l) {
			stack = stack[:n-1]
			continue
		}
		stack = append(stack, l)
	}
	for len(stack) >= 2 && stack[0] == Tilde(stack[len(stack)-1]) {
		stack = stack[1 : len(stack)-1]
	}
	return stack
}

// Triangulation returns the triangulation l lives on.
func (l *Lamination) Triangulation() *Triangulation { return l.tri }

// Weights returns a copy of the weights.
func (l *Lamination) Weights() []int { return slices.Clone(l.w) }

// At returns the weight on the edge of label x.
func (l *Lamination) At(x int) int { return l.w[Norm(x)] }

// DualWeight returns the number of arcs cutting the corner opposite x.
func (l *Lamination) DualWeight(x int) int { return l.dual[l.tri.slot(x)] }

// SideWeight returns the number of arcs cutting the corner at the tail of x.
func (l *Lamination) SideWeight(x int) int { return l.side[l.tri.slot(x)] }

// Weight returns the number of intersections with the triangulation.
// Edge arcs contribute nothing.
func (l *Lamination) Weight() int {
	total := 0
	for _, x := range l.w {
		total += pos(x)
	}
	return total
}

// IsEmpty reports whether every weight is zero.
func (l *Lamination) IsEmpty() bool {
	for _, x := range l.w {
		if x != 0 {
			return false
		}
	}
	return true
}

// Equal reports whether l and other have the same weights on equal
// triangulations.
func (l *Lamination) Equal(other *Lamination) bool {
	if other == nil {
		return false
	}
	return l.tri.Equal(other.tri) && slices.Equal(l.w, other.w)
}

// String renders the weights as "[w0,w1,...]".
func (l *Lamination) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, x := range l.w {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.Itoa(x))
	}
	sb.WriteByte(']')
	return sb.String()
}

// Key identifies l structurally. It is stable across processes and is used
// as cache key material.
func (l *Lamination) Key() string { return l.tri.signature + "|" + l.String() }

// Add returns the Haken sum of l and other.
func (l *Lamination) Add(other *Lamination) (*Lamination, error) {
	return l.tri.Sum([]*Lamination{l, other})
}

// Scale returns k parallel copies of l. A single curve or arc becomes a
// multicurve or multiarc for k > 1.
func (l *Lamination) Scale(k int) (*Lamination, error) {
	if k < 0 {
		return nil, invalidInputf("cannot scale a lamination by %d", k)
	}
	w := make([]int, len(l.w))
	for i, x := range l.w {
		w[i] = k * x
	}
	if k == 0 {
		return newLaminationOfKind(l.tri, w, Generic)
	}
	kind, err := l.classify()
	if err != nil {
		return nil, err
	}
	if k > 1 {
		switch kind {
		case Curve:
			kind = MultiCurve
		case Arc:
			kind = MultiArc
		}
	}
	return newLaminationOfKind(l.tri, w, kind)
}

// strandPoint is the point-th intersection of a lamination with edge label,
// counted from the label's tail.
type strandPoint struct {
	label, point int
}

// walk follows the strand through (label, point) across label for at most
// length steps. It returns the points reached after the start, whether the
// strand returned to the start and whether it ended at a puncture.
func (l *Lamination) walk(label, point, length int) (pts []strandPoint, closed, terminated bool) {
	start := strandPoint{label, point}
	cur := start
	for range length {
		c := l.tri.Corner(Tilde(cur.label))
		x, y, z := c[0], c[1], c[2]
		dx, dz := l.DualWeight(x), l.DualWeight(z)
		switch {
		case cur.point < dz:
			cur = strandPoint{y, cur.point}
		case dx < 0 && dz <= cur.point && cur.point < dz-dx:
			return pts, false, true
		default:
			cur = strandPoint{z, pos(l.At(z)) - pos(l.At(x)) + cur.point}
		}
		if cur == start {
			return pts, true, false
		}
		pts = append(pts, cur)
	}
	return pts, false, false
}

// Trace returns the labels crossed by following l from the point-th
// intersection with label, counted from its tail. It stops after length
// steps, when the strand closes up or when it ends at a puncture.
func (l *Lamination) Trace(label, point, length int) ([]int, error) {
	if !l.tri.hasLabel(label) {
		return nil, invalidInputf("label %s out of range", FormatLabel(label))
	}
	if point < 0 || point >= pos(l.At(label)) {
		return nil, invalidInputf("point %d out of range for weight %d", point, l.At(label))
	}
	pts, _, _ := l.walk(label, point, length)
	labels := make([]int, len(pts))
	for i, p := range pts {
		labels[i] = p.label
	}
	return labels, nil
}

// RemovePeripheral returns l with every peripheral component removed.
func (l *Lamination) RemovePeripheral() (*Lamination, error) {
	w := slices.Clone(l.w)
	for _, class := range l.tri.vertices {
		m := l.SideWeight(class[0])
		for _, x := range class[1:] {
			m = min(m, l.SideWeight(x))
		}
		if m <= 0 {
			continue
		}
		for _, x := range class {
			w[Norm(x)] -= m
		}
	}
	return newLamination(l.tri, w)
}
