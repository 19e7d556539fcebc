package io

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestToDOT(t *testing.T) {
	s := readSurface(t, torusSurface)
	dot := ToDOT(s.Triangulation, DOTOptions{Name: s.Name})

	for _, want := range []string{
		"graph G {",
		`label="S_1_1";`,
		`t0 [label="(0,1,2)"];`,
		`t1 [label="(~0,~1,~2)"];`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() missing %q:\n%s", want, dot)
		}
	}
	// Two triangles: one tree edge, two dashed.
	if got := strings.Count(dot, " -- "); got != 3 {
		t.Errorf("ToDOT() has %d edges, want 3", got)
	}
	if got := strings.Count(dot, "style=dashed"); got != 2 {
		t.Errorf("ToDOT() has %d dashed edges, want 2", got)
	}
}

func TestToDOT_Lamination(t *testing.T) {
	s := readSurface(t, torusSurface)
	dot := ToDOT(s.Triangulation, DOTOptions{Lamination: s.Laminations["a"]})
	for _, want := range []string{`label="0: 1"`, `label="1: 0"`, `label="2: 1"`} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() missing %q:\n%s", want, dot)
		}
	}
	if got := strings.Count(dot, "penwidth=2"); got != 2 {
		t.Errorf("ToDOT() has %d bold edges, want 2", got)
	}
}

func TestRenderSVG(t *testing.T) {
	if testing.Short() {
		t.Skip("graphviz rendering is slow")
	}
	s := readSurface(t, torusSurface)
	svg, err := RenderSVG(context.Background(), ToDOT(s.Triangulation, DOTOptions{}))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(svg, []byte("<svg")) {
		t.Errorf("RenderSVG() output is not SVG: %.100s", svg)
	}
}
