// Package kernel implements exact combinatorics of laminations on ideally
// triangulated punctured surfaces.
//
// # Overview
//
// A [Triangulation] is a gluing of ideal triangles along oriented edges. Each
// edge has an index i >= 0 and two labels: i and ~i = -i-1, one per
// orientation. Triangles list their labels counter-clockwise.
//
// A [Lamination] is a vector of integer weights, one per edge index. A
// non-negative weight counts transverse intersections. A weight of -k records
// k parallel copies of the arc running along that edge. Laminations are
// classified by their components into curves, arcs and mixtures of both.
//
// # Moves and Encodings
//
// Triangulations are related by two kinds of [Move]:
//
//   - [EdgeFlip] replaces the diagonal of the square around an edge
//   - [Isometry] relabels edges while preserving the gluing
//
// An [Encoding] is a sequence of moves applied right to left. When its source
// and target triangulations agree it is a mapping class, and supports powers,
// order and Nielsen-Thurston classification.
//
// # Shortening
//
// [Lamination.Shorten] finds an Encoding taking a lamination to a canonical
// low-weight form. Twisting about curves found along the way makes the
// number of moves grow with the logarithm of the weight rather than the
// weight itself. Short curves give Dehn twists ([Lamination.EncodeTwist]) and
// short arcs give half-twists ([Lamination.EncodeHalftwist]).
//
// # Errors
//
// Kernel functions return errors from pkg/errors. [IsAssumption] reports
// whether an error means a routine hit a case it cannot resolve, such as
// twisting about a curve that cannot be made short.
package kernel
