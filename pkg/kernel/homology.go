package kernel

import "slices"

// HomologyClass records the algebraic intersection of a closed, oriented
// cycle with each edge, oriented as its non-negative label.
//
// Only what encoding equality needs is implemented: on the once-punctured
// torus the actions on arcs cannot tell a mapping class from its composite
// with the hyperelliptic involution, but the action on homology can.
type HomologyClass struct {
	tri *Triangulation
	alg []int
}

// Triangulation returns the triangulation the class is recorded on.
func (h HomologyClass) Triangulation() *Triangulation { return h.tri }

// Algebraic returns a copy of the per-edge intersections.
func (h HomologyClass) Algebraic() []int { return slices.Clone(h.alg) }

// Equal reports whether h and other agree on equal triangulations.
func (h HomologyClass) Equal(other HomologyClass) bool {
	return h.tri.Equal(other.tri) && slices.Equal(h.alg, other.alg)
}

// flow returns the net number of times the cycle leaves the triangle of l
// through l.
func (h HomologyClass) flow(l int) int { return Sign(l) * h.alg[Norm(l)] }

// HomologyGenerators returns one cycle for each edge outside DualTree. The
// cycle crosses that edge once and returns through the tree. Together they
// span the first homology of the surface.
func (t *Triangulation) HomologyGenerators() []HomologyClass {
	tree, parent := t.dualTree()
	inTree := make([]bool, t.zeta)
	for _, i := range tree {
		inTree[i] = true
	}

	// toRoot adds the crossings from triangle u up to its root.
	toRoot := func(alg []int, u, sign int) {
		for parent[u] != t.zeta {
			l := parent[u]
			alg[Norm(l)] += sign * Sign(l)
			u = t.triangleOf(Tilde(l))
		}
	}

	var out []HomologyClass
	for i := range t.zeta {
		if inTree[i] {
			continue
		}
		alg := make([]int, t.zeta)
		alg[i]++
		toRoot(alg, t.triangleOf(Tilde(i)), 1)
		toRoot(alg, t.triangleOf(i), -1)
		out = append(out, HomologyClass{tri: t, alg: alg})
	}
	return out
}

// ApplyHomology returns the image of h under e.
func (e *Encoding) ApplyHomology(h HomologyClass) (HomologyClass, error) {
	if !h.tri.Equal(e.Source()) {
		return HomologyClass{}, mismatchf("homology class is not on the source triangulation")
	}
	var err error
	for i := len(e.moves) - 1; i >= 0; i-- {
		if h, err = e.moves[i].ApplyHomology(h); err != nil {
			return HomologyClass{}, err
		}
	}
	return h, nil
}
