package kernel

// maxHalftwistFlips bounds the flip sequences tried by EncodeHalftwist.
const maxHalftwistFlips = 4

// Boundary returns the boundary of a regular neighbourhood of l, with
// peripheral components removed. Each curve component contributes two
// parallel copies of itself.
func (l *Lamination) Boundary() (*Lamination, error) {
	curves, err := l.MultiCurvePart()
	if err != nil {
		return nil, err
	}
	arcs, err := l.MultiArcPart()
	if err != nil {
		return nil, err
	}
	var parts []*Lamination
	if !curves.IsEmpty() {
		sk, err := curves.Skeleton()
		if err != nil {
			return nil, err
		}
		twice, err := sk.Scale(2)
		if err != nil {
			return nil, err
		}
		parts = append(parts, twice)
	}
	if !arcs.IsEmpty() {
		b, err := arcs.arcBoundary()
		if err != nil {
			return nil, err
		}
		parts = append(parts, b)
	}
	return l.tri.Sum(parts)
}

// arcBoundary shortens the multiarc l to edges, walks around them there and
// pulls the result back.
func (l *Lamination) arcBoundary() (*Lamination, error) {
	short, conj, err := l.Shorten()
	if err != nil {
		return nil, err
	}
	edges := make(map[int]bool)
	for i, w := range short.w {
		if w > 0 {
			return nil, assumptionf("%s does not shorten to edge arcs", l)
		}
		if w < 0 {
			edges[i] = true
		}
	}
	b, err := short.tri.edgeBoundary(edges)
	if err != nil {
		return nil, err
	}
	return conj.Inverse().Apply(b)
}

// edgeBoundary returns the boundary of a neighbourhood of the given edges
// and their endpoints.
//
// The walk visits the labels leaving a vertex of the neighbourhood. From l
// it looks at c, the side ending where l starts. If c is not one of the
// edges the boundary crosses it into the next triangle around the vertex,
// otherwise it follows c to its other end.
func (t *Triangulation) edgeBoundary(edges map[int]bool) (*Lamination, error) {
	inside := make(map[int]bool)
	for i := range edges {
		inside[t.VertexOf(i)] = true
		inside[t.VertexOf(Tilde(i))] = true
	}
	visited := make([]bool, 2*t.zeta)
	var orbits []*Lamination
	for _, start := range t.Labels() {
		if visited[t.slot(start)] || !inside[t.VertexOf(start)] {
			continue
		}
		var crossed []int
		cur := start
		for {
			visited[t.slot(cur)] = true
			c := t.Corner(cur)[2]
			if edges[Norm(c)] {
				cur = c
			} else {
				crossed = append(crossed, c)
				cur = Tilde(c)
			}
			if cur == start {
				break
			}
		}
		orbit, err := t.LaminationFromCutSequence(crossed)
		if err != nil {
			return nil, err
		}
		orbits = append(orbits, orbit)
	}
	sum, err := t.Sum(orbits)
	if err != nil {
		return nil, err
	}
	return sum.RemovePeripheral()
}

// IsFilling reports whether every complementary region of l is a disc or a
// once-punctured disc. Components that are thrice-punctured spheres are
// filled by anything.
func (l *Lamination) IsFilling() (bool, error) {
	for _, labels := range l.tri.Components() {
		verts := make(map[int]bool)
		idx := make(map[int]bool)
		for _, x := range labels {
			verts[l.tri.VertexOf(x)] = true
			idx[Norm(x)] = true
		}
		if len(verts) == 3 && len(idx) == 3 {
			continue
		}
		empty := true
		for i := range idx {
			if l.w[i] != 0 {
				empty = false
				break
			}
		}
		if empty {
			return false, nil
		}
	}
	b, err := l.Boundary()
	if err != nil {
		return false, err
	}
	return b.IsEmpty(), nil
}

// arcIntersection counts how often other crosses the multiarc l, by moving
// l onto edges and reading off other's weights there.
func (l *Lamination) arcIntersection(other *Lamination) (int, error) {
	short, conj, err := l.Shorten()
	if err != nil {
		return 0, err
	}
	img, err := conj.Apply(other)
	if err != nil {
		return 0, err
	}
	total := 0
	for i, w := range short.w {
		if w > 0 {
			return 0, assumptionf("%s does not shorten to edge arcs", l)
		}
		if w < 0 {
			total += -w * pos(img.w[i])
		}
	}
	return total, nil
}

// ConnectsDistinctVertices reports whether the arc l has two different
// punctures as endpoints.
func (l *Lamination) ConnectsDistinctVertices() (bool, error) {
	if l.Kind() != Arc {
		return false, invalidInputf("ConnectsDistinctVertices needs an arc, got a %s", l.Kind())
	}
	short, _, err := l.Shorten()
	if err != nil {
		return false, err
	}
	for i, w := range short.w {
		if w < 0 {
			return short.tri.VertexOf(i) != short.tri.VertexOf(Tilde(i)), nil
		}
	}
	return false, assumptionf("%s does not shorten to an edge arc", l)
}

// EncodeHalftwist returns the k-th power of the half twist about the arc l,
// which swaps its two endpoints. Its square is the twist about the boundary
// of l.
//
// The boundary curve is shortened first. At weight 2 the arc is the loop
// edge of a once-punctured monogon next to the twist square, and a short
// flip sequence over those edges, followed by an isometry, gives the half
// twist. Otherwise the arc is an edge whose neighbourhood the boundary
// bounds, and the half twist is built from the disc around it.
func (l *Lamination) EncodeHalftwist(k int) (*Encoding, error) {
	distinct, err := l.ConnectsDistinctVertices()
	if err != nil {
		return nil, err
	}
	if !distinct {
		return nil, invalidInputf("half twist needs an arc between distinct punctures")
	}
	if k == 0 {
		return l.tri.IDEncoding(), nil
	}
	gamma, err := l.Boundary()
	if err != nil {
		return nil, err
	}
	if gamma.Kind() != Curve {
		return nil, assumptionf("boundary of %s is a %s, not a curve", l, gamma.Kind())
	}
	short, conj, err := gamma.Shorten()
	if err != nil {
		return nil, err
	}
	arc, err := conj.Apply(l)
	if err != nil {
		return nil, err
	}
	var h *Encoding
	if short.Weight() == 2 {
		h, err = annulusHalftwist(short, arc)
	} else {
		h, conj, err = discHalftwist(short, arc, conj)
	}
	if err != nil {
		return nil, err
	}
	hk, err := h.Power(k)
	if err != nil {
		return nil, err
	}
	return conjugate(hk, conj)
}

func annulusHalftwist(short, arc *Lamination) (*Encoding, error) {
	a, err := findAnnulus(short)
	if err != nil {
		return nil, err
	}
	m, ok := a.monogon(arc)
	if !ok {
		return nil, assumptionf("arc %s is not in a monogon beside its boundary", arc)
	}
	twist, err := a.twist()
	if err != nil {
		return nil, err
	}
	return a.searchHalftwist(arc, m, twist)
}

// discHalftwist returns the half twist about arc, which must be an edge of
// short's triangulation, along with conj extended by the flips that built
// its disc.
func discHalftwist(short, arc *Lamination, conj *Encoding) (*Encoding, *Encoding, error) {
	i, ok := arc.singleEdge()
	if !ok {
		return nil, nil, assumptionf("arc %s is not an edge inside its boundary %s", arc, short)
	}
	d, flips, err := newDisc(short.tri, i)
	if err != nil {
		return nil, nil, err
	}
	if flips != nil {
		if conj, err = flips.Compose(conj); err != nil {
			return nil, nil, err
		}
	}
	h, err := d.halftwist()
	if err != nil {
		return nil, nil, err
	}
	return h, conj, nil
}

// monogon finds the side of the annulus whose far triangle is a
// self-folded monogon with arc as its inner edge. It returns the edges a
// half twist about arc may flip: x, y, that side and the inner edge.
func (a annulus) monogon(arc *Lamination) ([]int, bool) {
	for _, side := range []int{a.lq, a.lp} {
		c := a.tri.Corner(Tilde(side))
		if c[2] != Tilde(c[1]) {
			continue
		}
		m := Norm(c[1])
		edge, err := a.tri.EdgeArc(m)
		if err == nil && arc.Equal(edge) {
			return []int{Norm(a.lx), Norm(a.ly), Norm(side), m}, true
		}
	}
	return nil, false
}

// searchHalftwist tries flip sequences over edges, shortest first, each
// closed up by the first isometry back to a.tri that fixes every other
// edge. It accepts one that fixes arc and squares to twist or its inverse.
func (a annulus) searchHalftwist(arc *Lamination, edges []int, twist *Encoding) (*Encoding, error) {
	inMonogon := make(map[int]bool, len(edges))
	for _, i := range edges {
		inMonogon[i] = true
	}
	fixed := make(map[int]int)
	for i := range a.tri.zeta {
		if !inMonogon[i] {
			fixed[i] = i
		}
	}
	untwist := twist.Inverse()

	check := func(flips *Encoding) *Encoding {
		isos := flips.Target().IsometriesTo(a.tri, fixed)
		if len(isos) == 0 {
			return nil
		}
		h, err := newEncoding([]Move{isos[0]}).Compose(flips)
		if err != nil {
			return nil
		}
		img, err := h.Apply(arc)
		if err != nil || !img.Equal(arc) {
			return nil
		}
		sq, err := h.Compose(h)
		if err != nil {
			return nil
		}
		switch {
		case sq.Equal(twist):
			return h
		case sq.Equal(untwist):
			return h.Inverse()
		}
		return nil
	}

	var search func(flips *Encoding, last, depth int) *Encoding
	search = func(flips *Encoding, last, depth int) *Encoding {
		if depth == 0 {
			return check(flips)
		}
		cur := a.tri
		if flips != nil {
			cur = flips.Target()
		}
		for _, i := range edges {
			if i == last || !cur.IsFlippable(i) {
				continue
			}
			f, err := cur.EncodeFlip(i)
			if err != nil {
				continue
			}
			next, err := f.Compose(flips)
			if err != nil {
				continue
			}
			if h := search(next, i, depth-1); h != nil {
				return h
			}
		}
		return nil
	}

	for n := 1; n <= maxHalftwistFlips; n++ {
		if h := search(nil, -1, n); h != nil {
			return h, nil
		}
	}
	return nil, assumptionf("no half twist found over edges %v", edges)
}
