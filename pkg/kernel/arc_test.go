package kernel

import (
	"slices"
	"testing"
)

func TestBoundary_EdgeArc(t *testing.T) {
	tests := []struct {
		name string
		tri  func(*testing.T) *Triangulation
		edge int
		want []int
	}{
		{"sphere4 inner edge", sphere4, 4, []int{1, 1, 0, 0, 0, 0}},
		{"torus edge", torus, 0, []int{0, 2, 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			arc, err := tt.tri(t).EdgeArc(tt.edge)
			if err != nil {
				t.Fatal(err)
			}
			b, err := arc.Boundary()
			if err != nil {
				t.Fatal(err)
			}
			if got := b.Weights(); !slices.Equal(got, tt.want) {
				t.Errorf("EdgeArc(%d).Boundary() = %v, want %v", tt.edge, got, tt.want)
			}
		})
	}
}

func TestBoundary_Curve(t *testing.T) {
	a := mustLamination(t, torus(t), 2, 0, 2)
	b, err := a.Boundary()
	if err != nil {
		t.Fatal(err)
	}
	if got := b.Weights(); !slices.Equal(got, []int{2, 0, 2}) {
		t.Errorf("Boundary() = %v, want [2 0 2]", got)
	}
}

func TestConnectsDistinctVertices(t *testing.T) {
	tests := []struct {
		name string
		tri  func(*testing.T) *Triangulation
		edge int
		want bool
	}{
		{"sphere4 inner edge", sphere4, 4, true},
		{"sphere4 loop", sphere4, 2, false},
		{"torus", torus, 1, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			arc, err := tt.tri(t).EdgeArc(tt.edge)
			if err != nil {
				t.Fatal(err)
			}
			got, err := arc.ConnectsDistinctVertices()
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("ConnectsDistinctVertices() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestArcIntersection(t *testing.T) {
	tri := sphere4(t)
	arc, err := tri.EdgeArc(4)
	if err != nil {
		t.Fatal(err)
	}
	gamma := mustLamination(t, tri, 1, 1, 0, 0, 0, 0)
	through := mustLamination(t, tri, 0, 0, 0, 0, 1, 0)

	got, err := arc.Intersection(gamma)
	if err != nil {
		t.Fatal(err)
	}
	if got != 0 {
		t.Errorf("Intersection(arc, boundary) = %d, want 0", got)
	}
	got, err = arc.Intersection(through)
	if err != nil {
		t.Fatal(err)
	}
	if got != 1 {
		t.Errorf("Intersection(arc, %s) = %d, want 1", through, got)
	}
}

func TestIsFilling(t *testing.T) {
	tri := sphere4(t)
	arc, err := tri.EdgeArc(4)
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		name string
		l    *Lamination
		want bool
	}{
		{"empty", tri.EmptyLamination(), false},
		{"single arc", arc, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.l.IsFilling()
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("IsFilling(%s) = %v, want %v", tt.l, got, tt.want)
			}
		})
	}
}

func TestEncodeHalftwist(t *testing.T) {
	tri := sphere4(t)
	arc, err := tri.EdgeArc(4)
	if err != nil {
		t.Fatal(err)
	}
	half, err := arc.EncodeHalftwist(1)
	if err != nil {
		t.Fatal(err)
	}
	if !half.IsMappingClass() {
		t.Fatal("EncodeHalftwist(1) is not a mapping class")
	}

	img, err := half.Apply(arc)
	if err != nil {
		t.Fatal(err)
	}
	if !img.Equal(arc) {
		t.Errorf("H(arc) = %s, want %s", img, arc)
	}

	gamma, err := arc.Boundary()
	if err != nil {
		t.Fatal(err)
	}
	twist, err := gamma.EncodeTwist(1)
	if err != nil {
		t.Fatal(err)
	}
	sq, err := half.Power(2)
	if err != nil {
		t.Fatal(err)
	}
	if !sq.Equal(twist) {
		t.Error("H^2 != twist about the boundary")
	}

	// A half twist swaps the endpoints of the arc.
	vm, err := half.VertexMap()
	if err != nil {
		t.Fatal(err)
	}
	a, b := tri.VertexOf(4), tri.VertexOf(-5)
	if vm[a] != b || vm[b] != a {
		t.Errorf("VertexMap() = %v, want %d and %d swapped", vm, a, b)
	}
}

func TestEncodeHalftwist_Loop(t *testing.T) {
	arc, err := sphere4(t).EdgeArc(2)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := arc.EncodeHalftwist(1); err == nil {
		t.Error("EncodeHalftwist() on a loop succeeded, want error")
	}
}

func TestShorten_ArcsOnGenusTwo(t *testing.T) {
	tests := []struct {
		name    string
		tri     *Triangulation
		weights []int
	}{
		{"once punctured", genus2(t), []int{0, 0, 0, 0, 0, 2, 1, 0, 2}},
		{"twice punctured", genus2Twice(t), []int{4, 2, 6, 2, 4, 1, 2, 1, 0, 1, 0, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := mustLamination(t, tt.tri, tt.weights...)
			short, conj, err := l.Shorten()
			if err != nil {
				t.Fatal(err)
			}
			if !short.IsShort() {
				t.Errorf("Shorten() = %s, which is not short", short)
			}
			img, err := conj.Apply(l)
			if err != nil {
				t.Fatal(err)
			}
			if !img.Equal(short) {
				t.Errorf("conj(%s) = %s, want %s", l, img, short)
			}
		})
	}
}

func TestEncodeHalftwist_Disc(t *testing.T) {
	tri := genus2Twice(t)
	for _, edge := range []int{9, 10} {
		arc, err := tri.EdgeArc(edge)
		if err != nil {
			t.Fatal(err)
		}
		half, err := arc.EncodeHalftwist(1)
		if err != nil {
			t.Fatalf("EncodeHalftwist() on edge %d: %v", edge, err)
		}
		if !half.IsMappingClass() {
			t.Fatalf("half twist about edge %d is not a mapping class", edge)
		}

		img, err := half.Apply(arc)
		if err != nil {
			t.Fatal(err)
		}
		if !img.Equal(arc) {
			t.Errorf("H(%s) = %s, want it fixed", arc, img)
		}

		gamma, err := arc.Boundary()
		if err != nil {
			t.Fatal(err)
		}
		twist, err := gamma.EncodeTwist(1)
		if err != nil {
			t.Fatal(err)
		}
		sq, err := half.Compose(half)
		if err != nil {
			t.Fatal(err)
		}
		if !sq.Equal(twist) {
			t.Errorf("H^2 != twist about the boundary of edge %d", edge)
		}

		vm, err := half.VertexMap()
		if err != nil {
			t.Fatal(err)
		}
		a, b := tri.VertexOf(edge), tri.VertexOf(Tilde(edge))
		if vm[a] != b || vm[b] != a {
			t.Errorf("VertexMap() = %v, want %d and %d swapped", vm, a, b)
		}
	}
}
