package kernel

import (
	"slices"
	"testing"
)

func mustLamination(t *testing.T, tri *Triangulation, weights ...int) *Lamination {
	t.Helper()
	l, err := tri.Lamination(weights)
	if err != nil {
		t.Fatalf("Lamination(%v) error: %v", weights, err)
	}
	return l
}

func TestLamination_Parity(t *testing.T) {
	tri := torus(t)
	if _, err := tri.Lamination([]int{1, 1, 1}); err == nil {
		t.Error("Lamination([1,1,1]) succeeded, want parity error")
	}
	if _, err := tri.Lamination([]int{1, 0}); err == nil {
		t.Error("Lamination([1,0]) succeeded, want length error")
	}
}

func TestLamination_Kind(t *testing.T) {
	tri := torus(t)
	arc, err := tri.EdgeArc(1)
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		name    string
		weights []int
		want    Kind
	}{
		{"curve a", []int{1, 0, 1}, Curve},
		{"curve b", []int{1, 1, 0}, Curve},
		{"two copies", []int{2, 0, 2}, MultiCurve},
		{"edge arc", arc.Weights(), Arc},
		{"two edge arcs", []int{-1, -1, 0}, MultiArc},
		{"curve beside arc", []int{1, -1, 1}, Generic},
		{"empty", []int{0, 0, 0}, Generic},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := mustLamination(t, tri, tt.weights...)
			if got := l.Kind(); got != tt.want {
				t.Errorf("Kind(%v) = %s, want %s", tt.weights, got, tt.want)
			}
		})
	}
}

func TestLamination_DualWeights(t *testing.T) {
	l := mustLamination(t, torus(t), 1, 0, 1)
	want := map[int]int{0: 0, 1: 1, 2: 0, -1: 0, -2: 1, -3: 0}
	for label, w := range want {
		if got := l.DualWeight(label); got != w {
			t.Errorf("DualWeight(%s) = %d, want %d", FormatLabel(label), got, w)
		}
	}
	if got := l.Weight(); got != 2 {
		t.Errorf("Weight() = %d, want 2", got)
	}
	if got := l.String(); got != "[1,0,1]" {
		t.Errorf("String() = %q, want %q", got, "[1,0,1]")
	}
}

func TestLamination_Components(t *testing.T) {
	tri := torus(t)
	l := mustLamination(t, tri, 2, -1, 2)
	comps, err := l.Components()
	if err != nil {
		t.Fatal(err)
	}
	if len(comps) != 2 {
		t.Fatalf("len(Components()) = %d, want 2", len(comps))
	}
	if got := comps[0].Lamination.Weights(); !slices.Equal(got, []int{1, 0, 1}) {
		t.Errorf("Components()[0] = %v, want [1 0 1]", got)
	}
	if comps[0].Multiplicity != 2 || comps[0].Lamination.Kind() != Curve {
		t.Errorf("Components()[0] = %d x %s, want 2 x curve", comps[0].Multiplicity, comps[0].Lamination.Kind())
	}
	if got := comps[1].Lamination.Weights(); !slices.Equal(got, []int{0, -1, 0}) {
		t.Errorf("Components()[1] = %v, want [0 -1 0]", got)
	}

	n, err := l.NumComponents()
	if err != nil || n != 3 {
		t.Errorf("NumComponents() = %d, %v, want 3", n, err)
	}

	curves, err := l.MultiCurvePart()
	if err != nil {
		t.Fatal(err)
	}
	if got := curves.Weights(); !slices.Equal(got, []int{2, 0, 2}) {
		t.Errorf("MultiCurvePart() = %v, want [2 0 2]", got)
	}
	skel, err := l.Skeleton()
	if err != nil {
		t.Fatal(err)
	}
	if got := skel.Weights(); !slices.Equal(got, []int{1, -1, 1}) {
		t.Errorf("Skeleton() = %v, want [1 -1 1]", got)
	}

	subs, err := l.Sublaminations()
	if err != nil {
		t.Fatal(err)
	}
	// (0..2 copies of the curve) x (0..1 arcs), minus the empty one.
	if len(subs) != 5 {
		t.Errorf("len(Sublaminations()) = %d, want 5", len(subs))
	}
}

func TestLamination_ComponentsSumBack(t *testing.T) {
	tri := sphere4(t)
	// Two copies of the curve around edge 4, plus the arc along it.
	l := mustLamination(t, tri, 2, 2, 0, 0, -1, 0)
	comps, err := l.Components()
	if err != nil {
		t.Fatal(err)
	}
	if len(comps) != 2 || comps[0].Multiplicity != 2 {
		t.Fatalf("Components() = %v, want a double curve and an arc", comps)
	}
	var parts []*Lamination
	for _, c := range comps {
		scaled, err := c.Lamination.Scale(c.Multiplicity)
		if err != nil {
			t.Fatal(err)
		}
		parts = append(parts, scaled)
	}
	sum, err := tri.Sum(parts)
	if err != nil {
		t.Fatal(err)
	}
	if !sum.Equal(l) {
		t.Errorf("sum of components = %s, want %s", sum, l)
	}
}

func TestLamination_TrainTrack(t *testing.T) {
	tri := torus(t)
	// A curve never cuts all three corners of a triangle of the torus.
	a := mustLamination(t, tri, 1, 0, 1)
	tt, err := a.TrainTrack()
	if err != nil {
		t.Fatal(err)
	}
	if tt != a {
		t.Errorf("TrainTrack() of %s subdivided, want unchanged", a)
	}

	// The peripheral curve cuts every corner, so both triangles split.
	p, err := tri.PeripheralCurve(0)
	if err != nil {
		t.Fatal(err)
	}
	tt, err = p.TrainTrack()
	if err != nil {
		t.Fatal(err)
	}
	if got := tt.Triangulation().Zeta(); got != 9 {
		t.Errorf("TrainTrack().Zeta() = %d, want 9", got)
	}
	if got := tt.Weights(); !slices.Equal(got, []int{2, 2, 2, 1, 1, 1, 1, 1, 1}) {
		t.Errorf("TrainTrack() = %v, want [2 2 2 1 1 1 1 1 1]", got)
	}
}

func TestLamination_Trace(t *testing.T) {
	a := mustLamination(t, torus(t), 1, 0, 1)
	got, err := a.Trace(0, 0, 10)
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(got, []int{-3}) {
		t.Errorf("Trace(0, 0, 10) = %v, want [-3]", got)
	}
	if _, err := a.Trace(1, 0, 10); err == nil {
		t.Error("Trace(1, 0, 10) succeeded on a weight 0 edge, want error")
	}
}

func TestLaminationFromCutSequence(t *testing.T) {
	tri := torus(t)
	tests := []struct {
		name   string
		labels []int
		want   []int
	}{
		{"plain", []int{0, 2}, []int{1, 0, 1}},
		{"backtrack", []int{0, 1, -2, 2}, []int{1, 0, 1}},
		{"cyclic", []int{1, 0, 2, -2}, []int{1, 0, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := tri.LaminationFromCutSequence(tt.labels)
			if err != nil {
				t.Fatal(err)
			}
			if got := l.Weights(); !slices.Equal(got, tt.want) {
				t.Errorf("LaminationFromCutSequence(%v) = %v, want %v", tt.labels, got, tt.want)
			}
		})
	}
}

func TestReduceCyclic(t *testing.T) {
	if got := reduceCyclic([]int{0, 2, -3, -1}); len(got) != 0 {
		t.Errorf("reduceCyclic() = %v, want empty", got)
	}
}

func TestLamination_RemovePeripheral(t *testing.T) {
	tri := sphere4(t)
	p, err := tri.PeripheralCurve(tri.VertexOf(-5))
	if err != nil {
		t.Fatal(err)
	}
	if got := p.Weights(); !slices.Equal(got, []int{0, 0, 0, 0, 1, 0}) {
		t.Errorf("PeripheralCurve() = %v, want [0 0 0 0 1 0]", got)
	}
	r, err := p.RemovePeripheral()
	if err != nil {
		t.Fatal(err)
	}
	if !r.IsEmpty() {
		t.Errorf("RemovePeripheral() = %s, want empty", r)
	}
}

func TestLamination_Scale(t *testing.T) {
	a := mustLamination(t, torus(t), 1, 0, 1)
	tests := []struct {
		k    int
		want Kind
	}{
		{0, Generic},
		{1, Curve},
		{3, MultiCurve},
	}
	for _, tt := range tests {
		s, err := a.Scale(tt.k)
		if err != nil {
			t.Fatal(err)
		}
		if s.Kind() != tt.want {
			t.Errorf("Scale(%d).Kind() = %s, want %s", tt.k, s.Kind(), tt.want)
		}
	}
	if _, err := a.Scale(-1); err == nil {
		t.Error("Scale(-1) succeeded, want error")
	}
}

func TestLamination_AddMismatch(t *testing.T) {
	a := mustLamination(t, torus(t), 1, 0, 1)
	b := mustLamination(t, sphere4(t), 1, 1, 0, 0, 0, 0)
	if _, err := a.Add(b); !IsMismatch(err) {
		t.Errorf("Add() error = %v, want mismatch", err)
	}
}

func TestLamination_Unsupported(t *testing.T) {
	a := mustLamination(t, torus(t), 1, 0, 1)
	if _, err := a.FillsWith(a); !IsUnsupported(err) {
		t.Errorf("FillsWith() error = %v, want unsupported", err)
	}
	if _, err := a.TopologicalType(); !IsUnsupported(err) {
		t.Errorf("TopologicalType() error = %v, want unsupported", err)
	}
}
