package kernel

import "math/big"

// annulus describes a short curve: it crosses edges x and y once each, and
// those two edges bound the square around the twist edge lx.
//
//	corner(lx)  = (lx, ly, lq)
//	corner(~lx) = (~lx, ~ly, lp)
type annulus struct {
	tri            *Triangulation
	lx, ly, lq, lp int
}

// findAnnulus locates the square of a weight 2 curve. Candidates are tried
// in the order x, ~x, y, ~y for the two weighted indices x < y.
func findAnnulus(short *Lamination) (annulus, error) {
	t := short.tri
	var idx []int
	for i, w := range short.w {
		if w > 0 {
			idx = append(idx, i)
		}
	}
	if len(idx) != 2 || short.w[idx[0]] != 1 || short.w[idx[1]] != 1 {
		return annulus{}, assumptionf("%s is not a short curve", short)
	}
	x, y := idx[0], idx[1]
	for _, lx := range []int{x, Tilde(x), y, Tilde(y)} {
		c, cc := t.Corner(lx), t.Corner(Tilde(lx))
		ly := c[1]
		if Norm(ly) == Norm(lx) || (Norm(ly) != x && Norm(ly) != y) {
			continue
		}
		if cc[1] != Tilde(ly) {
			continue
		}
		return annulus{tri: t, lx: lx, ly: ly, lq: c[2], lp: cc[2]}, nil
	}
	return annulus{}, assumptionf("no twist square for short curve %s", short)
}

// twist is the right Dehn twist about the core of a on a.tri: flip lx, then
// relabel back to a.tri leaving every edge but x and y where it was.
func (a annulus) twist() (*Encoding, error) {
	flip, err := a.tri.EncodeFlip(a.lx)
	if err != nil {
		return nil, err
	}
	fixed := make(map[int]int)
	for i := range a.tri.zeta {
		if i != Norm(a.lx) && i != Norm(a.ly) {
			fixed[i] = i
		}
	}
	isos := flip.Target().IsometriesTo(a.tri, fixed)
	if len(isos) == 0 {
		return nil, assumptionf("flipping %s does not return to the same triangulation", FormatLabel(a.lx))
	}
	return newEncoding([]Move{isos[0]}).Compose(flip)
}

// intersection returns the geometric intersection of the core of a with l,
// which must live on a.tri.
func (a annulus) intersection(l *Lamination) (int, error) {
	comps, err := l.Components()
	if err != nil {
		return 0, err
	}
	core, err := a.tri.Lamination(a.coreWeights())
	if err != nil {
		return 0, err
	}
	total := 0
	for _, c := range comps {
		cl := c.Lamination
		if cl.Kind() == Arc {
			n, err := cl.arcIntersection(core)
			if err != nil {
				return 0, err
			}
			total += c.Multiplicity * n
			continue
		}
		n := cl.At(a.lq) - 2*min(cl.DualWeight(a.ly), cl.DualWeight(a.lx), cl.DualWeight(a.lp))
		total += c.Multiplicity * n
	}
	return total, nil
}

func (a annulus) coreWeights() []int {
	w := make([]int, a.tri.zeta)
	w[Norm(a.lx)], w[Norm(a.ly)] = 1, 1
	return w
}

// twistFrame is a short curve with the means to twist about it and to
// measure against it.
type twistFrame interface {
	twist() (*Encoding, error)
	intersection(l *Lamination) (int, error)
}

// frame shortens the curve l. A weight 2 result gives its annulus, and a
// twice-punctured disc boundary gives the disc around its edge. The
// returned encoding takes l's triangulation to the frame's.
func (l *Lamination) frame(op string) (twistFrame, *Encoding, error) {
	if l.Kind() != Curve {
		return nil, nil, invalidInputf("%s needs a curve, got a %s", op, l.Kind())
	}
	short, conj, err := l.Shorten()
	if err != nil {
		return nil, nil, err
	}
	if short.Weight() == 2 {
		a, err := findAnnulus(short)
		if err != nil {
			return nil, nil, err
		}
		return a, conj, nil
	}
	i, ok := short.discEdge()
	if !ok {
		return nil, nil, assumptionf("%s is not a short curve", short)
	}
	return newDiscFrame(short.tri, i, conj)
}

// curveFrame shortens the curve l and finds its annulus.
func (l *Lamination) curveFrame(op string) (annulus, *Encoding, error) {
	if l.Kind() != Curve {
		return annulus{}, nil, invalidInputf("%s needs a curve, got a %s", op, l.Kind())
	}
	short, conj, err := l.Shorten()
	if err != nil {
		return annulus{}, nil, err
	}
	a, err := findAnnulus(short)
	if err != nil {
		return annulus{}, nil, err
	}
	return a, conj, nil
}

// IsPeripheral reports whether every component of l bounds a puncture.
func (l *Lamination) IsPeripheral() (bool, error) {
	if l.IsEmpty() {
		return false, nil
	}
	r, err := l.RemovePeripheral()
	if err != nil {
		return false, err
	}
	return r.IsEmpty(), nil
}

// EncodeTwist returns the k-th power of the right Dehn twist about the curve
// l. The twist about a peripheral curve is the identity.
func (l *Lamination) EncodeTwist(k int) (*Encoding, error) {
	if l.Kind() != Curve {
		return nil, invalidInputf("EncodeTwist needs a curve, got a %s", l.Kind())
	}
	if periph, err := l.IsPeripheral(); err != nil {
		return nil, err
	} else if periph || k == 0 {
		return l.tri.IDEncoding(), nil
	}
	f, conj, err := l.frame("EncodeTwist")
	if err != nil {
		return nil, err
	}
	t, err := f.twist()
	if err != nil {
		return nil, err
	}
	tk, err := t.Power(k)
	if err != nil {
		return nil, err
	}
	return conjugate(tk, conj)
}

// conjugate returns conj⁻¹ * e * conj.
func conjugate(e, conj *Encoding) (*Encoding, error) {
	inner, err := e.Compose(conj)
	if err != nil {
		return nil, err
	}
	return conj.Inverse().Compose(inner)
}

// Intersection returns the geometric intersection number of l with other.
// Curve components of l are measured through their annuli and arc
// components by shortening them to edges. Peripheral curves meet nothing.
func (l *Lamination) Intersection(other *Lamination) (int, error) {
	if !l.tri.Equal(other.tri) {
		return 0, mismatchf("laminations live on different triangulations")
	}
	comps, err := l.Components()
	if err != nil {
		return 0, err
	}
	total := 0
	for _, c := range comps {
		var n int
		if c.Lamination.Kind() == Arc {
			n, err = c.Lamination.arcIntersection(other)
		} else {
			n, err = c.Lamination.curveIntersection(other)
		}
		if err != nil {
			return 0, err
		}
		total += c.Multiplicity * n
	}
	return total, nil
}

func (l *Lamination) curveIntersection(other *Lamination) (int, error) {
	if periph, err := l.IsPeripheral(); err != nil || periph {
		return 0, err
	}
	f, conj, err := l.frame("Intersection")
	if err != nil {
		return 0, err
	}
	img, err := conj.Apply(other)
	if err != nil {
		return 0, err
	}
	return f.intersection(img)
}

// IsIsolating reports whether the curve l cannot be shortened, neither to
// weight 2 nor to the boundary of a twice-punctured disc. That happens when
// every curve disjoint from it is parallel to it. Peripheral curves are
// never isolating.
func (l *Lamination) IsIsolating() (bool, error) {
	if l.Kind() != Curve {
		return false, invalidInputf("IsIsolating needs a curve, got a %s", l.Kind())
	}
	if periph, err := l.IsPeripheral(); err != nil || periph {
		return false, err
	}
	_, _, err := l.Shorten()
	if IsAssumption(err) {
		return true, nil
	}
	return false, err
}

// Slope returns the slope of other relative to the curve l: the number of
// times other winds around l per crossing, signed by direction. Twisting
// other once about l adds one to the slope. l must shorten to weight 2.
func (l *Lamination) Slope(other *Lamination) (*big.Rat, error) {
	a, conj, err := l.curveFrame("Slope")
	if err != nil {
		return nil, err
	}
	img, err := conj.Apply(other)
	if err != nil {
		return nil, err
	}
	n, err := a.intersection(img)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, assumptionf("slope of %s is undefined, it is disjoint from %s", other, l)
	}
	sign := int64(1)
	if img.At(a.ly) < img.At(a.lx) {
		sign = -1
	}
	num := int64(img.At(a.lx) + img.At(a.ly) - img.At(a.lq) - img.At(a.lp) + n)
	return big.NewRat(sign*num, int64(2*n)), nil
}

// Crush would collapse the curve l and return the lift of other to the
// crushed surface.
func (l *Lamination) Crush(other *Lamination) (*Encoding, error) {
	return nil, unsupported("Crush")
}

// Geodesic would return the geodesic between l and other in the curve complex.
func (l *Lamination) Geodesic(other *Lamination) ([]*Lamination, error) {
	return nil, unsupported("Geodesic")
}

// Quasiconvex would return a quasiconvex subset of the curve complex
// containing l and other.
func (l *Lamination) Quasiconvex(other *Lamination) ([]*Lamination, error) {
	return nil, unsupported("Quasiconvex")
}
