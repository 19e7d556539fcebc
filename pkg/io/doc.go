// Package io reads and writes the text formats lamina works with.
//
// # Text grammar
//
// Triangulations are lists of counter-clockwise label triples, where ~i is
// the reverse orientation of edge i:
//
//	(0,1,2),(~0,~1,~2)
//
// Laminations are weight vectors with one entry per edge index:
//
//	[1,0,1]
//
// Mapping classes are words. Terms compose like functions, so the rightmost
// acts first:
//
//	a b^-1 A h.c^3
//
// A lowercase name is a mapping class or the Dehn twist about a named
// curve. The uppercase name is its inverse. "h.c" is the half-twist about
// the arc c, and "^k" takes a power. Use [ParseTriangulation],
// [ParseLamination] and [ParseWord].
//
// # Surface files
//
// A TOML surface file names a triangulation together with laminations and
// mapping classes on it:
//
//	name = "S_1_1"
//	triangulation = "(0,1,2),(~0,~1,~2)"
//
//	[laminations]
//	a = [1, 0, 1]
//	b = [1, 1, 0]
//
//	[mapping_classes]
//	anosov = "a B"
//
// [LoadSurface] reads such a file and [Surface.MappingClass] evaluates words
// against it.
//
// # Packaged encodings
//
// [WriteEncoding] stores an encoding as JSON: the source triangulation and
// the packaged moves. [ReadEncoding] replays the moves to rebuild it.
//
//	{
//	  "source": "(0,1,2),(~0,~1,~2)",
//	  "moves": [{"kind": "flip", "label": 2}]
//	}
//
// # Graphviz
//
// [ToDOT] draws the dual graph of a triangulation, optionally labelled with
// lamination weights, and [RenderSVG] renders it with Graphviz.
package io
