package kernel

import (
	"math/big"

	"github.com/emirpasic/gods/sets/treeset"
	"github.com/emirpasic/gods/utils"
)

// Shorten returns a short lamination S and an encoding C with C(l) = S.
//
// The coarse phase flips edges chosen by the generic strategy until no
// candidate edge has a negative dual weight and no triangle has exactly two
// positive dual weights. When the strand through the chosen edge closes up
// into a curve that l winds around many times, a power of the twist about
// that curve replaces the run of flips it would take to unwind it. The fine
// phase then flips by the generic strategy until IsShort holds. Curves
// instead descend by weight-lowering flips to weight 2, falling back to the
// last boundary of a twice-punctured disc met on the way.
//
// Shorten returns an ASSUMPTION error if the weight stops making progress,
// which happens for isolating multicurves. An already short l comes back
// with the identity. The result is computed once.
func (l *Lamination) Shorten() (*Lamination, *Encoding, error) {
	l.memo.shortOnce.Do(func() {
		l.memo.short, l.memo.conj, l.memo.shortErr = l.shorten()
	})
	return l.memo.short, l.memo.conj, l.memo.shortErr
}

// IsShort reports whether l is in the canonical form Shorten produces.
//
// A curve is short at weight 2 and a peripheral curve is always short. A
// curve that bounds a twice-punctured disc around an edge is short when the
// weight-lowering descent from it never reaches weight 2 and never meets
// another such disc. Other laminations are short when no edge scores under
// the generic strategy.
func (l *Lamination) IsShort() bool {
	if l.Kind() == Curve {
		return l.isShortCurve()
	}
	for _, e := range l.tri.Labels() {
		if l.genericStrategy(e) > 0 {
			return false
		}
	}
	return true
}

func (l *Lamination) isShortCurve() bool {
	if l.Weight() == 2 {
		return true
	}
	if periph, err := l.IsPeripheral(); err == nil && periph {
		return true
	}
	if _, ok := l.discEdge(); !ok {
		return false
	}
	steps, err := l.descend()
	if err != nil {
		return false
	}
	i, ok := settle(steps)
	return ok && i == 0
}

// hasArcs reports whether some component of l ends at a puncture.
func (l *Lamination) hasArcs() bool {
	for _, x := range l.w {
		if x < 0 {
			return true
		}
	}
	for _, x := range l.dual {
		if x < 0 {
			return true
		}
	}
	return false
}

// genericStrategy scores flipping e: 1 if it helps, else 0.
func (l *Lamination) genericStrategy(e int) int {
	if !l.tri.IsFlippable(e) {
		return 0
	}
	sq := l.tri.Square(e)
	ad, bd, ed := l.DualWeight(sq[0]), l.DualWeight(sq[1]), l.DualWeight(e)
	if ed < 0 || (ed == 0 && ad > 0 && bd > 0) {
		return 1
	}
	return 0
}

// curveStrategy scores flipping e: 1 if it strictly lowers the weight.
func (l *Lamination) curveStrategy(e int) int {
	if !l.tri.IsFlippable(e) || l.At(e) <= 0 {
		return 0
	}
	if flipWeight(l, e) < l.At(e) {
		return 1
	}
	return 0
}

// needsCoarse reports whether the coarse phase has more work to do.
func (l *Lamination) needsCoarse(edges *treeset.Set) bool {
	for _, v := range edges.Values() {
		if l.DualWeight(v.(int)) < 0 {
			return true
		}
	}
	for _, tri := range l.tri.triangles {
		n := 0
		for _, x := range tri {
			if l.DualWeight(x) > 0 {
				n++
			}
		}
		if n == 2 {
			return true
		}
	}
	return false
}

// pickEdge scans extra then edges for the highest score, stopping at the
// first edge scoring 1. Only flippable edges are considered.
func pickEdge(t *Triangulation, extra []int, edges *treeset.Set, score func(int) int) (int, bool) {
	best, bestScore, found := 0, -1, false
	consider := func(e int) bool {
		if !t.IsFlippable(e) {
			return false
		}
		s := score(e)
		if s > bestScore {
			best, bestScore, found = e, s, true
		}
		return s >= 1
	}
	for _, e := range extra {
		if consider(e) {
			return best, true
		}
	}
	for _, v := range edges.Values() {
		if consider(v.(int)) {
			return best, true
		}
	}
	return best, found
}

// shortener carries the state of one Shorten run.
type shortener struct {
	start   *Lamination
	lam     *Lamination
	conj    *Encoding
	edges   *treeset.Set
	extra   []int
	best    int
	stalled int
	limit   int
}

func (l *Lamination) shorten() (*Lamination, *Encoding, error) {
	kind, err := l.classify()
	if err != nil {
		return nil, nil, err
	}
	if l.IsShort() {
		return l, l.tri.IDEncoding(), nil
	}
	s := newShortener(l)
	for s.lam.needsCoarse(s.edges) {
		if _, err := s.coarseStep(); err != nil {
			return nil, nil, err
		}
	}

	s.extra = nil
	if kind == Curve {
		if err := s.settleCurve(); err != nil {
			return nil, nil, err
		}
	} else {
		for !s.lam.IsShort() {
			if err := s.genericStep(); err != nil {
				return nil, nil, err
			}
		}
	}

	if s.conj == nil {
		s.conj = l.tri.IDEncoding()
	}
	return s.lam, s.conj, nil
}

func newShortener(l *Lamination) *shortener {
	s := &shortener{
		start: l,
		lam:   l,
		edges: treeset.NewWith(utils.IntComparator),
		best:  l.Weight(),
		limit: 10*l.tri.zeta + 10,
	}
	s.resetEdges()
	return s
}

// coarseStep flips the best edge under the generic strategy, or twists
// instead when acceleration applies. It reports whether it twisted.
func (s *shortener) coarseStep() (bool, error) {
	e, ok := pickEdge(s.lam.tri, s.extra, s.edges, s.lam.genericStrategy)
	if !ok {
		return false, assumptionf("no flippable edge meets %s", s.start)
	}
	if twist := s.lam.accelerate(e); twist != nil {
		return true, s.apply(twist, e, true)
	}
	sq := s.lam.tri.Square(e)
	if err := s.flip(e); err != nil {
		return false, err
	}
	s.extra = []int{sq[2], sq[3]}
	return false, nil
}

// settleCurve runs the curve descent and keeps the step settle picks.
func (s *shortener) settleCurve() error {
	steps, err := s.lam.descend()
	if err != nil {
		return err
	}
	i, ok := settle(steps)
	if !ok {
		return assumptionf("curve %s cannot be shortened to weight 2, it may be isolating", s.start)
	}
	if steps[i].conj == nil {
		return nil
	}
	conj, err := steps[i].conj.Compose(s.conj)
	if err != nil {
		return err
	}
	s.conj, s.lam = conj, steps[i].lam
	return nil
}

func (s *shortener) resetEdges() {
	s.edges.Clear()
	for _, e := range s.lam.tri.Labels() {
		if s.lam.At(e) > 0 {
			s.edges.Add(e)
		}
	}
}

func (s *shortener) flip(e int) error {
	move, err := s.lam.tri.EncodeFlip(e)
	if err != nil {
		return err
	}
	return s.apply(move, e, false)
}

// apply records move, which was chosen for edge e, and checks for stalls.
func (s *shortener) apply(move *Encoding, e int, wide bool) error {
	conj, err := move.Compose(s.conj)
	if err != nil {
		return err
	}
	lam, err := move.Apply(s.lam)
	if err != nil {
		return err
	}
	s.conj, s.lam = conj, lam

	if wide {
		s.resetEdges()
	} else if lam.At(e) <= 0 {
		s.edges.Remove(e, Tilde(e))
	} else {
		s.edges.Add(e, Tilde(e))
	}

	if w := lam.Weight(); w < s.best {
		s.best, s.stalled = w, 0
	} else if s.stalled++; s.stalled > s.limit {
		return assumptionf("shortening %s made no progress in %d moves", s.start, s.limit)
	}
	return nil
}

func (s *shortener) genericStep() error {
	e, ok := pickEdge(s.lam.tri, s.extra, s.edges, s.lam.genericStrategy)
	if !ok || s.lam.genericStrategy(e) == 0 {
		// The scoring edge may carry no weight, so look everywhere.
		for _, x := range s.lam.tri.Labels() {
			if s.lam.genericStrategy(x) > 0 {
				e, ok = x, true
				break
			}
		}
	}
	if !ok {
		return assumptionf("no flippable edge shortens %s", s.start)
	}
	sq := s.lam.tri.Square(e)
	if err := s.flip(e); err != nil {
		return err
	}
	s.extra = []int{sq[2], sq[3]}
	return nil
}

// descentStep is one state of a curve descent. conj takes the start of the
// descent to lam and is nil for the start itself.
type descentStep struct {
	lam  *Lamination
	conj *Encoding
}

// descend lowers the weight of the curve l one move at a time until it
// reaches weight 2 or no move helps. The first step is l itself. Moves
// depend only on the current curve, so a descent from any step repeats the
// rest of this one.
func (l *Lamination) descend() ([]descentStep, error) {
	steps := []descentStep{{lam: l}}
	for cur := steps[0]; cur.lam.Weight() > 2; {
		move, err := cur.lam.lowerWeight()
		if err != nil {
			return nil, err
		}
		if move == nil {
			break
		}
		lam, err := move.Apply(cur.lam)
		if err != nil {
			return nil, err
		}
		conj, err := move.Compose(cur.conj)
		if err != nil {
			return nil, err
		}
		cur = descentStep{lam: lam, conj: conj}
		steps = append(steps, cur)
	}
	return steps, nil
}

// settle picks where a descent stops: its end if that has weight 2, else
// the last step bounding a twice-punctured disc around an edge.
func settle(steps []descentStep) (int, bool) {
	last := len(steps) - 1
	if steps[last].lam.Weight() == 2 {
		return last, true
	}
	for i := last; i >= 0; i-- {
		if _, ok := steps[i].lam.discEdge(); ok {
			return i, true
		}
	}
	return 0, false
}

// lowerWeight returns a flip that lowers the weight of the curve l, or a
// pair of flips when no single one does. It returns nil when neither
// exists.
func (l *Lamination) lowerWeight() (*Encoding, error) {
	t := l.tri
	for i := range t.zeta {
		if l.curveStrategy(i) > 0 {
			return t.EncodeFlip(i)
		}
	}

	w := l.Weight()
	for e1 := range t.zeta {
		if !t.IsFlippable(e1) {
			continue
		}
		f1, err := t.EncodeFlip(e1)
		if err != nil {
			return nil, err
		}
		lam1, err := f1.Apply(l)
		if err != nil {
			return nil, err
		}
		for e2 := range t.zeta {
			if e2 == e1 || !lam1.tri.IsFlippable(e2) {
				continue
			}
			if lam1.Weight()-lam1.At(e2)+pos(flipWeight(lam1, e2)) >= w {
				continue
			}
			f2, err := lam1.tri.EncodeFlip(e2)
			if err != nil {
				return nil, err
			}
			return f2.Compose(f1)
		}
	}
	return nil, nil
}

// discEdge finds an edge between distinct punctures whose neighbourhood
// has boundary l.
func (l *Lamination) discEdge() (int, bool) {
	t := l.tri
	for i := range t.zeta {
		if l.w[i] != 0 || t.VertexOf(i) == t.VertexOf(Tilde(i)) {
			continue
		}
		b, err := t.edgeBoundary(map[int]bool{i: true})
		if err == nil && b.Equal(l) {
			return i, true
		}
	}
	return 0, false
}

// accelerate looks for a curve carrying the strand through e. If l winds
// around it with slope beyond +-1 it returns the twist power that unwinds
// the most, or nil when a plain flip should be used.
//
// Laminations with arc components are never accelerated: measuring the slope
// would shorten those arcs, which lands back here.
func (l *Lamination) accelerate(e int) *Encoding {
	if l.hasArcs() {
		return nil
	}
	sq := l.tri.Square(e)
	point := l.SideWeight(e)
	if point <= 0 {
		point = -l.DualWeight(sq[0])
	}
	if point < 0 || point >= pos(l.At(e)) {
		return nil
	}
	trace, err := l.Trace(e, point, 2*l.tri.zeta)
	if err != nil {
		return nil
	}
	end := -1
	for i, x := range trace {
		if x == e {
			end = i
			break
		}
	}
	if end < 0 {
		return nil
	}
	curve, err := l.tri.LaminationFromCutSequence(trace[:end+1])
	if err != nil || curve.Kind() != Curve || curve.Weight() >= l.Weight() {
		return nil
	}
	slope, err := curve.Slope(l)
	if err != nil {
		return nil
	}
	if slope.Cmp(big.NewRat(1, 1)) <= 0 && slope.Cmp(big.NewRat(-1, 1)) >= 0 {
		return nil
	}
	k := truncate(slope)
	for _, power := range []int{-k, k} {
		twist, err := curve.EncodeTwist(power)
		if err != nil {
			return nil
		}
		img, err := twist.Apply(l)
		if err == nil && img.Weight() < l.Weight() {
			return twist
		}
	}
	return nil
}

// truncate rounds r toward zero.
func truncate(r *big.Rat) int {
	q := new(big.Int).Quo(r.Num(), r.Denom())
	return int(q.Int64())
}
