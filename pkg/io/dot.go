package io

import (
	"bytes"
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/lamina/pkg/kernel"
)

// DOTOptions configures dual graph export.
type DOTOptions struct {
	// Lamination, when set, adds its weight to every edge label and draws
	// edges it crosses in bold.
	Lamination *kernel.Lamination
	// Name is used as the graph label.
	Name string
}

// ToDOT converts the dual graph of t to Graphviz DOT format. Each triangle
// is a node and each edge index joins the two triangles it borders. Edges
// of the dual spanning tree are solid and the remaining edges are dashed.
func ToDOT(t *kernel.Triangulation, opts DOTOptions) string {
	owner := make(map[int]int, 2*t.Zeta())
	for i, tri := range t.Triangles() {
		for _, l := range tri {
			owner[l] = i
		}
	}
	tree := t.DualTree()

	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	if opts.Name != "" {
		fmt.Fprintf(&buf, "  label=%q;\n", opts.Name)
	}
	buf.WriteString("  node [shape=triangle, style=filled, fillcolor=white, fontsize=12];\n")
	buf.WriteString("\n")

	for i, tri := range t.Triangles() {
		fmt.Fprintf(&buf, "  t%d [label=%q];\n", i, fmt.Sprintf("(%s,%s,%s)",
			kernel.FormatLabel(tri[0]), kernel.FormatLabel(tri[1]), kernel.FormatLabel(tri[2])))
	}

	buf.WriteString("\n")
	for i := range t.Zeta() {
		label := fmt.Sprint(i)
		attrs := []string{}
		if opts.Lamination != nil {
			w := opts.Lamination.At(i)
			label = fmt.Sprintf("%d: %d", i, w)
			if w != 0 {
				attrs = append(attrs, "penwidth=2")
			}
		}
		if !slices.Contains(tree, i) {
			attrs = append(attrs, "style=dashed")
		}
		attrs = append([]string{fmt.Sprintf("label=%q", label)}, attrs...)
		fmt.Fprintf(&buf, "  t%d -- t%d [%s];\n", owner[i], owner[kernel.Tilde(i)], strings.Join(attrs, ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
