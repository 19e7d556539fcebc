package kernel

import "slices"

// NTType is the Nielsen-Thurston type of a mapping class.
type NTType string

const (
	Periodic     NTType = "Periodic"
	Reducible    NTType = "Reducible" // reducible and not periodic
	PseudoAnosov NTType = "Pseudo-Anosov"
)

// pushIterations bounds how far a curve is pushed when classifying.
const pushIterations = 24

// weightLimit is the weight beyond which growth counts as exponential. A
// single move at most doubles a weight, so checking after every move keeps
// the weights far from overflow.
const weightLimit = 1 << 40

func (e *Encoding) requireMappingClass(op string) error {
	if !e.IsMappingClass() {
		return mismatchf("%s needs a mapping class, but source and target differ", op)
	}
	return nil
}

// Power returns e composed with itself k times. Power(0) is the identity
// and negative powers invert first.
func (e *Encoding) Power(k int) (*Encoding, error) {
	if err := e.requireMappingClass("Power"); err != nil {
		return nil, err
	}
	if k == 0 {
		return e.Source().IDEncoding(), nil
	}
	base := e
	if k < 0 {
		base, k = e.Inverse(), -k
	}
	moves := make([]Move, 0, k*len(base.moves))
	for range k {
		moves = append(moves, base.moves...)
	}
	return newEncoding(moves), nil
}

// Order returns the least n > 0 with e^n the identity, searching up to the
// source's MaxOrder. It returns 0 when e has infinite order, which includes
// every power pushing an edge arc past weightLimit.
func (e *Encoding) Order() (int, error) {
	if err := e.requireMappingClass("Order"); err != nil {
		return 0, err
	}
	id := e.Source().IDEncoding()
	arcs := e.Source().EdgeArcs()
	imgs := slices.Clone(arcs)
	cur := e
	for i := 1; i <= e.Source().MaxOrder(); i++ {
		fixed := true
		for j := range imgs {
			img, over, err := e.push(imgs[j])
			if err != nil {
				return 0, err
			}
			if over {
				return 0, nil
			}
			imgs[j] = img
			fixed = fixed && img.Equal(arcs[j])
		}
		if fixed && cur.Equal(id) {
			return i, nil
		}
		next, err := e.Compose(cur)
		if err != nil {
			return 0, err
		}
		cur = next
	}
	return 0, nil
}

// IsIdentity reports whether e acts as the identity.
func (e *Encoding) IsIdentity() bool {
	return e.IsMappingClass() && e.Equal(e.Source().IDEncoding())
}

// IsPeriodic reports whether e has finite order.
func (e *Encoding) IsPeriodic() (bool, error) {
	n, err := e.Order()
	return n > 0, err
}

// IsReducible reports whether e is reducible and not periodic.
func (e *Encoding) IsReducible() (bool, error) {
	t, err := e.NielsenThurstonType()
	return t == Reducible, err
}

// IsPseudoAnosov reports whether e is pseudo-Anosov.
func (e *Encoding) IsPseudoAnosov() (bool, error) {
	t, err := e.NielsenThurstonType()
	return t == PseudoAnosov, err
}

// NielsenThurstonType classifies e.
//
// Finite order means periodic. Otherwise a witness curve, the boundary of an
// edge arc with peripheral parts removed, is pushed forward repeatedly. If
// it returns to an earlier position e fixes a multicurve and is reducible.
// If its weight grows exponentially e is taken to be pseudo-Anosov, and
// otherwise reducible. Exponential growth can also come from a
// pseudo-Anosov piece of a reducible map, which this test does not detect
// on surfaces large enough to contain one.
func (e *Encoding) NielsenThurstonType() (NTType, error) {
	n, err := e.Order()
	if err != nil {
		return "", err
	}
	if n > 0 {
		return Periodic, nil
	}

	witness, err := e.witnessCurve()
	if err != nil {
		return "", err
	}

	seen := map[string]bool{witness.String(): true}
	weights := []int{witness.Weight()}
	cur := witness
	for range pushIterations {
		var over bool
		if cur, over, err = e.push(cur); err != nil {
			return "", err
		}
		if over {
			return PseudoAnosov, nil
		}
		key := cur.String()
		if seen[key] {
			return Reducible, nil
		}
		seen[key] = true
		weights = append(weights, cur.Weight())
	}
	if growsExponentially(weights) {
		return PseudoAnosov, nil
	}
	return Reducible, nil
}

// push applies e to l one move at a time. It stops early, reporting over,
// once the weight passes weightLimit.
func (e *Encoding) push(l *Lamination) (*Lamination, bool, error) {
	var err error
	for i := len(e.moves) - 1; i >= 0; i-- {
		if l, err = e.moves[i].ApplyLamination(l); err != nil {
			return nil, false, err
		}
		if l.Weight() > weightLimit {
			return l, true, nil
		}
	}
	return l, false, nil
}

// witnessCurve returns the first non-empty edge arc boundary.
func (e *Encoding) witnessCurve() (*Lamination, error) {
	for _, arc := range e.Source().EdgeArcs() {
		b, err := arc.Boundary()
		if err != nil {
			return nil, err
		}
		if !b.IsEmpty() {
			return b, nil
		}
	}
	return nil, assumptionf("surface has no essential curve to push")
}

// growsExponentially compares successive differences of a weight sequence.
// Differences stay bounded under twisting but double repeatedly under a
// pseudo-Anosov.
func growsExponentially(weights []int) bool {
	n := len(weights)
	if n < 8 {
		return false
	}
	diff := func(i int) int { return weights[i+1] - weights[i] }
	q, h, l := diff(n/4-1), diff(n/2-1), diff(n-2)
	return q > 0 && h >= 2*q && l >= 2*h
}
