package kernel

import (
	"cmp"
	"slices"
)

// TrainTrack returns l carried on a subdivision of its triangulation.
//
// Every triangle (p, q, r) in which l cuts all three corners is split into
// three triangles (p, ~u, t), (q, ~s, u) and (r, ~t, s) around a new central
// puncture, where s, t and u are new edges numbered after the existing ones.
// Afterwards every complementary region of l reaches a puncture, so each
// strand can be traced to a single curve or arc. The new edges carry the
// dual weights of p, q and r.
func (l *Lamination) TrainTrack() (*Lamination, error) {
	t := l.tri
	weights := slices.Clone(l.w)
	var triangles [][3]int
	n := 0
	for _, tri := range t.triangles {
		p, q, r := tri[0], tri[1], tri[2]
		dp, dq, dr := l.DualWeight(p), l.DualWeight(q), l.DualWeight(r)
		if dp <= 0 || dq <= 0 || dr <= 0 {
			triangles = append(triangles, tri)
			continue
		}
		s, tt, u := t.zeta+3*n, t.zeta+3*n+1, t.zeta+3*n+2
		triangles = append(triangles,
			[3]int{p, Tilde(u), tt},
			[3]int{q, Tilde(s), u},
			[3]int{r, Tilde(tt), s},
		)
		weights = append(weights, dp, dq, dr)
		n++
	}
	if n == 0 {
		return l, nil
	}
	// Existing negative labels ~i = -i-1 stay valid in the larger range.
	sub, err := NewTriangulation(triangles)
	if err != nil {
		return nil, err
	}
	return newLamination(sub, weights)
}

// Components returns the curves and arcs making up l with their
// multiplicities. Curves come first, then arcs, each group ordered by
// weights. The Haken sum of Multiplicity copies of each component is l.
func (l *Lamination) Components() ([]Component, error) {
	l.memo.compOnce.Do(func() {
		l.memo.comps, l.memo.compErr = l.components()
	})
	if l.memo.compErr != nil {
		return nil, l.memo.compErr
	}
	return slices.Clone(l.memo.comps), nil
}

type tracedComponent struct {
	weights []int
	kind    Kind
}

func (l *Lamination) components() ([]Component, error) {
	tt, err := l.TrainTrack()
	if err != nil {
		return nil, err
	}
	T := tt.tri
	limit := tt.Weight() + 1

	visited := make([][]bool, T.zeta)
	for i := range T.zeta {
		visited[i] = make([]bool, pos(tt.w[i]))
	}
	mark := func(p strandPoint) {
		i, point := Norm(p.label), p.point
		if p.label < 0 {
			point = pos(tt.w[i]) - 1 - point
		}
		visited[i][point] = true
	}

	var found []tracedComponent
	for i := range T.zeta {
		for point := range pos(tt.w[i]) {
			if visited[i][point] {
				continue
			}
			start := strandPoint{i, point}
			mark(start)
			counts := make([]int, T.zeta)
			counts[i]++

			forward, closed, _ := tt.walk(i, point, limit)
			for _, p := range forward {
				mark(p)
				counts[Norm(p.label)]++
			}
			kind := Curve
			if !closed {
				kind = Arc
				back, _, _ := tt.walk(Tilde(i), pos(tt.w[i])-1-point, limit)
				for _, p := range back {
					mark(p)
					counts[Norm(p.label)]++
				}
			}
			found = append(found, tracedComponent{weights: counts[:l.tri.zeta], kind: kind})
		}
	}
	for i, x := range l.w {
		for range max(-x, 0) {
			w := make([]int, l.tri.zeta)
			w[i] = -1
			found = append(found, tracedComponent{weights: w, kind: Arc})
		}
	}

	slices.SortStableFunc(found, func(a, b tracedComponent) int {
		if a.kind != b.kind {
			return cmp.Compare(a.kind, b.kind) // Curve before Arc
		}
		return slices.Compare(a.weights, b.weights)
	})

	var comps []Component
	for _, f := range found {
		if n := len(comps); n > 0 && comps[n-1].Lamination.memo.kind == f.kind && slices.Equal(comps[n-1].Lamination.w, f.weights) {
			comps[n-1].Multiplicity++
			continue
		}
		c, err := newLaminationOfKind(l.tri, f.weights, f.kind)
		if err != nil {
			return nil, err
		}
		c.memo.compOnce.Do(func() { c.memo.comps = []Component{{Lamination: c, Multiplicity: 1}} })
		comps = append(comps, Component{Lamination: c, Multiplicity: 1})
	}
	return comps, nil
}

// Kind returns the classification of l.
func (l *Lamination) Kind() Kind {
	k, _ := l.classify()
	return k
}

func (l *Lamination) classify() (Kind, error) {
	l.memo.kindOnce.Do(func() {
		comps, err := l.Components()
		if err != nil {
			l.memo.kindErr = err
			return
		}
		l.memo.kind = kindOf(comps)
		l.memo.classified.Store(true)
	})
	return l.memo.kind, l.memo.kindErr
}

func kindOf(comps []Component) Kind {
	if len(comps) == 0 {
		return Generic
	}
	curves, arcs, total := 0, 0, 0
	for _, c := range comps {
		switch c.Lamination.memo.kind {
		case Curve:
			curves++
		case Arc:
			arcs++
		}
		total += c.Multiplicity
	}
	switch {
	case curves == len(comps) && total == 1:
		return Curve
	case curves == len(comps):
		return MultiCurve
	case arcs == len(comps) && total == 1:
		return Arc
	case arcs == len(comps):
		return MultiArc
	default:
		return Generic
	}
}

// Promote returns l, classified. Kind() is available on every lamination,
// so this only surfaces classification errors early.
func (l *Lamination) Promote() (*Lamination, error) {
	if _, err := l.classify(); err != nil {
		return nil, err
	}
	return l, nil
}

// IsMultiCurve reports whether l is a non-empty union of curves.
func (l *Lamination) IsMultiCurve() bool { return l.Kind().IsCurveKind() }

// IsCurve reports whether l is a single curve.
func (l *Lamination) IsCurve() bool { return l.Kind() == Curve }

// IsMultiArc reports whether l is a non-empty union of arcs.
func (l *Lamination) IsMultiArc() bool { return l.Kind().IsArcKind() }

// IsArc reports whether l is a single arc.
func (l *Lamination) IsArc() bool { return l.Kind() == Arc }

// NumComponents returns the number of components counted with multiplicity.
func (l *Lamination) NumComponents() (int, error) {
	comps, err := l.Components()
	if err != nil {
		return 0, err
	}
	n := 0
	for _, c := range comps {
		n += c.Multiplicity
	}
	return n, nil
}

// PeekComponent returns the first component of l.
func (l *Lamination) PeekComponent() (*Lamination, error) {
	comps, err := l.Components()
	if err != nil {
		return nil, err
	}
	if len(comps) == 0 {
		return nil, invalidLaminationf("empty lamination has no components")
	}
	return comps[0].Lamination, nil
}

// Skeleton returns l with parallel components collapsed to one.
func (l *Lamination) Skeleton() (*Lamination, error) {
	return l.part(func(Kind) bool { return true }, false)
}

// MultiCurvePart returns the union of the curve components of l.
func (l *Lamination) MultiCurvePart() (*Lamination, error) {
	return l.part(func(k Kind) bool { return k == Curve }, true)
}

// MultiArcPart returns the union of the arc components of l.
func (l *Lamination) MultiArcPart() (*Lamination, error) {
	return l.part(func(k Kind) bool { return k == Arc }, true)
}

func (l *Lamination) part(keep func(Kind) bool, withMultiplicity bool) (*Lamination, error) {
	comps, err := l.Components()
	if err != nil {
		return nil, err
	}
	w := make([]int, l.tri.zeta)
	for _, c := range comps {
		if !keep(c.Lamination.memo.kind) {
			continue
		}
		m := 1
		if withMultiplicity {
			m = c.Multiplicity
		}
		for i, x := range c.Lamination.w {
			w[i] += m * x
		}
	}
	return newLamination(l.tri, w)
}

// Sublaminations returns every non-empty sub-multiset of the components of
// l, as laminations. The result grows exponentially with the number of
// distinct components.
func (l *Lamination) Sublaminations() ([]*Lamination, error) {
	comps, err := l.Components()
	if err != nil {
		return nil, err
	}
	var out []*Lamination
	counts := make([]int, len(comps))
	var rec func(i int) error
	rec = func(i int) error {
		if i == len(comps) {
			w := make([]int, l.tri.zeta)
			empty := true
			for j, c := range comps {
				if counts[j] == 0 {
					continue
				}
				empty = false
				for k, x := range c.Lamination.w {
					w[k] += counts[j] * x
				}
			}
			if empty {
				return nil
			}
			sub, err := newLamination(l.tri, w)
			if err != nil {
				return err
			}
			out = append(out, sub)
			return nil
		}
		for m := 0; m <= comps[i].Multiplicity; m++ {
			counts[i] = m
			if err := rec(i + 1); err != nil {
				return err
			}
		}
		return nil
	}
	if err := rec(0); err != nil {
		return nil, err
	}
	return out, nil
}

// NoCommonComponent reports whether l and other share no component.
func (l *Lamination) NoCommonComponent(other *Lamination) (bool, error) {
	if !l.tri.Equal(other.tri) {
		return false, mismatchf("laminations live on different triangulations")
	}
	mine, err := l.Components()
	if err != nil {
		return false, err
	}
	theirs, err := other.Components()
	if err != nil {
		return false, err
	}
	for _, a := range mine {
		for _, b := range theirs {
			if slices.Equal(a.Lamination.w, b.Lamination.w) {
				return false, nil
			}
		}
	}
	return true, nil
}

// FillsWith would report whether l and other together fill the surface.
func (l *Lamination) FillsWith(other *Lamination) (bool, error) {
	return false, unsupported("FillsWith")
}

// TopologicalType would return the mapping class orbit invariant of l.
func (l *Lamination) TopologicalType() (string, error) {
	return "", unsupported("TopologicalType")
}
