package kernel

// disc is the twice-punctured disc around edge e, which runs from p to q.
// The puncture q has degree one, so e sits in a self-folded triangle whose
// outer side s is a loop at p around q:
//
//	corner(~s) = (~s, e, ~e)
//
// The boundary of the disc runs around p and that triangle, crossing every
// side at p once per end except e and s.
type disc struct {
	tri  *Triangulation
	e, s int
	p, q int
}

// newDiscFrame builds the disc around edge i of t and folds the flips it
// took into conj.
func newDiscFrame(t *Triangulation, i int, conj *Encoding) (twistFrame, *Encoding, error) {
	d, flips, err := newDisc(t, i)
	if err != nil {
		return nil, nil, err
	}
	if flips != nil {
		if conj, err = flips.Compose(conj); err != nil {
			return nil, nil, err
		}
	}
	return d, conj, nil
}

// newDisc flips edges at the end of i with fewer sides until that end has
// degree one. Edge i is never flipped. The returned encoding is nil when no
// flip was needed.
func newDisc(t *Triangulation, i int) (disc, *Encoding, error) {
	if t.VertexOf(i) == t.VertexOf(Tilde(i)) {
		return disc{}, nil, invalidInputf("edge %d is a loop", Norm(i))
	}
	e := i
	if degree(t, e) < degree(t, Tilde(e)) {
		e = Tilde(e)
	}
	var flips *Encoding
	for deg := degree(t, Tilde(e)); deg > 1; deg = degree(t, Tilde(e)) {
		var next *Encoding
		for _, x := range t.vertices[t.VertexOf(Tilde(e))] {
			if Norm(x) == Norm(e) || !t.IsFlippable(x) {
				continue
			}
			f, err := t.EncodeFlip(x)
			if err != nil {
				return disc{}, nil, err
			}
			if degree(f.Target(), Tilde(e)) < deg {
				next = f
				break
			}
		}
		if next == nil {
			return disc{}, nil, assumptionf("no flip lowers the degree at the end of edge %d", Norm(e))
		}
		var err error
		if flips, err = next.Compose(flips); err != nil {
			return disc{}, nil, err
		}
		t = next.Target()
	}
	c := t.Corner(e)
	if c[1] != Tilde(e) {
		return disc{}, nil, assumptionf("edge %d is not folded after isolating its end", Norm(e))
	}
	d := disc{tri: t, e: e, s: Tilde(c[2]), p: t.VertexOf(e), q: t.VertexOf(Tilde(e))}
	return d, flips, nil
}

// degree returns the number of sides at the tail of l.
func degree(t *Triangulation, l int) int { return len(t.vertices[t.VertexOf(l)]) }

// prev returns the label before x counter-clockwise around its tail.
func (d disc) prev(x int) int { return d.tri.Corner(Tilde(x))[1] }

// aroundP counts each side at p outside the self-folded triangle, on top of
// w[s] = ws.
func (d disc) aroundP(ws int) []int {
	w := make([]int, d.tri.zeta)
	w[Norm(d.s)] = ws
	for _, x := range d.tri.vertices[d.p] {
		if x != d.e && x != d.s && x != Tilde(d.s) {
			w[Norm(x)]++
		}
	}
	return w
}

// loop returns the image of s under the half twist: the loop at q around p.
func (d disc) loop() (*Lamination, error) {
	return newLaminationOfKind(d.tri, d.aroundP(2), Arc)
}

// image returns the image of edge i under the half twist. An end of i at p
// moves to q, crossing every side met turning clockwise from it to e.
func (d disc) image(i int) (*Lamination, error) {
	t := d.tri
	switch i {
	case Norm(d.e):
		return t.EdgeArc(i)
	case Norm(d.s):
		return d.loop()
	}
	w := make([]int, t.zeta)
	ends := 0
	for _, x := range []int{i, Tilde(i)} {
		if t.VertexOf(x) != d.p {
			continue
		}
		ends++
		for y := d.prev(x); y != d.e; y = d.prev(y) {
			w[Norm(y)]++
		}
	}
	switch ends {
	case 0:
		return t.EdgeArc(i)
	case 2:
		// The second end comes back on the other side of i.
		w[i]++
	}
	return newLaminationOfKind(t, w, Arc)
}

// halftwist returns the half twist about e that swaps p and q. The images of
// the edges form a triangulation; shortening it lands on a copy of d.tri,
// and the isometry matching each edge with its image closes the loop.
func (d disc) halftwist() (*Encoding, error) {
	t := d.tri
	images := make([]*Lamination, t.zeta)
	for i := range t.zeta {
		img, err := d.image(i)
		if err != nil {
			return nil, err
		}
		images[i] = img
	}
	sum, err := t.Sum(images)
	if err != nil {
		return nil, err
	}
	_, conj, err := sum.Shorten()
	if err != nil {
		return nil, err
	}
	source := make(map[int]int, t.zeta) // edge of conj.Target() -> edge of t
	for i, img := range images {
		edge, err := conj.Apply(img)
		if err != nil {
			return nil, err
		}
		j, ok := edge.singleEdge()
		if !ok {
			return nil, assumptionf("image of edge %d does not shorten to an edge", i)
		}
		source[j] = i
	}
	for _, iso := range conj.Target().IsometriesTo(t, nil) {
		if !matchesIndices(iso, source) {
			continue
		}
		back, err := newEncoding([]Move{iso}).Compose(conj)
		if err != nil {
			return nil, err
		}
		h := back.Inverse()
		vm, err := h.VertexMap()
		if err != nil {
			return nil, err
		}
		if vm[d.p] == d.q && vm[d.q] == d.p {
			return h, nil
		}
	}
	return nil, assumptionf("no isometry closes the half twist about edge %d", Norm(d.e))
}

func matchesIndices(iso *Isometry, want map[int]int) bool {
	for j, i := range want {
		if Norm(iso.Image(j)) != i {
			return false
		}
	}
	return true
}

// singleEdge returns i when l is EdgeArc(i).
func (l *Lamination) singleEdge() (int, bool) {
	edge := -1
	for i, x := range l.w {
		switch {
		case x == 0:
		case x == -1 && edge < 0:
			edge = i
		default:
			return 0, false
		}
	}
	return edge, edge >= 0
}

// twist is the right Dehn twist about the boundary of d.
func (d disc) twist() (*Encoding, error) {
	h, err := d.halftwist()
	if err != nil {
		return nil, err
	}
	return h.Compose(h)
}

// intersection returns the geometric intersection of the boundary of d with
// l, which must live on d.tri. A component meets the boundary each time it
// crosses s and once more for each end at p outside the self-folded
// triangle. Components inside the disc meet nothing.
func (d disc) intersection(l *Lamination) (int, error) {
	comps, err := l.Components()
	if err != nil {
		return 0, err
	}
	t := d.tri
	inside := make([]*Lamination, 0, 3)
	for _, i := range []int{Norm(d.e), Norm(d.s)} {
		arc, err := t.EdgeArc(i)
		if err != nil {
			return 0, err
		}
		inside = append(inside, arc)
	}
	loop, err := d.loop()
	if err != nil {
		return 0, err
	}
	inside = append(inside, loop)

	folded := t.triangleOf(Tilde(d.s))
	total := 0
	for _, c := range comps {
		cl := c.Lamination
		if periph, err := cl.IsPeripheral(); err != nil {
			return 0, err
		} else if periph {
			continue
		}
		n := pos(cl.At(d.s))
		if cl.Kind() == Arc {
			if containsLamination(inside, cl) {
				continue
			}
			for _, x := range t.vertices[d.p] {
				if t.triangleOf(x) == folded {
					continue
				}
				if cl.At(x) < 0 {
					n += -cl.At(x)
				}
				n += pos(-cl.SideWeight(x))
			}
		}
		total += c.Multiplicity * n
	}
	return total, nil
}

func containsLamination(ls []*Lamination, l *Lamination) bool {
	for _, x := range ls {
		if x.Equal(l) {
			return true
		}
	}
	return false
}
