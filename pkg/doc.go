// Package pkg provides the core libraries for lamina, a toolkit for
// integral laminations on ideally triangulated surfaces.
//
// # Overview
//
// A surface is given by an ideal triangulation with labelled edges. A
// lamination is a vector of edge weights; positive weights count crossings,
// negative weights mark arcs running along an edge. The pkg directory is
// organized into these areas:
//
//  1. [kernel] - Triangulations, laminations, moves and encodings
//  2. [io] - Text grammar, TOML surface files, packaged encodings, Graphviz
//  3. [cache] - Result caches (file, Badger, Redis) and content-addressed keys
//  4. [pipeline] - Orchestration of kernel operations with caching and hooks
//  5. [observability] - Hook interfaces and Prometheus collectors
//
// # Architecture
//
// The typical data flow:
//
//	surface.toml
//	     ↓
//	[io] package (parse triangulation, laminations, words)
//	     ↓
//	[pipeline] package (cache lookup, logging, hooks)
//	     ↓
//	[kernel] package (shorten, components, classify, intersect)
//	     ↓
//	text, JSON encoding, DOT or SVG output
//
// # Quick Start
//
// Shorten a curve on the once-punctured torus:
//
//	import "github.com/matzehuels/lamina/pkg/kernel"
//
//	t, _ := kernel.NewTriangulation([][3]int{{0, 1, 2}, {-1, -2, -3}})
//	c, _ := t.Lamination([]int{6, 1, 5})
//	short, conj, _ := c.Shorten()
//	fmt.Println(short, conj.Len())
//
// # Error Handling
//
// Errors carry a code from [errors]. Assumption failures, mismatched
// triangulations and unsupported operations can be told apart with
// errors.Is or the kernel helpers IsAssumption, IsMismatch and IsUnsupported.
package pkg
