package io

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"

	lerrors "github.com/matzehuels/lamina/pkg/errors"
	"github.com/matzehuels/lamina/pkg/kernel"
)

// =============================================================================
// Grammar
// =============================================================================

type triangulationExpr struct {
	Triangles []*triangleExpr `@@ ( "," @@ )*`
}

type triangleExpr struct {
	Labels []*labelExpr `"(" @@ "," @@ "," @@ ")"`
}

type labelExpr struct {
	Tilde bool     `@"~"?`
	Index *intExpr `@@`
}

type laminationExpr struct {
	Weights []*intExpr `"[" ( @@ ( "," @@ )* )? "]"`
}

type intExpr struct {
	Neg   bool `@"-"?`
	Value int  `@Int`
}

func (e *intExpr) int() int {
	if e.Neg {
		return -e.Value
	}
	return e.Value
}

type wordExpr struct {
	Terms []*termExpr `@@*`
}

type termExpr struct {
	Name  string   `@Ident`
	Arc   string   `( "." @Ident )?`
	Power *intExpr `( "^" @@ )?`
}

var (
	parseTriangulation = participle.MustBuild[triangulationExpr]()
	parseLamination    = participle.MustBuild[laminationExpr]()
	parseWord          = participle.MustBuild[wordExpr]()
)

// =============================================================================
// Triangulations and laminations
// =============================================================================

// ParseTriangulation reads a triangulation written as counter-clockwise
// label triples, for example "(0,1,2),(~0,~1,~2)". A label may also be
// written as a negative number, so ~0 and -1 are the same label.
func ParseTriangulation(s string) (*kernel.Triangulation, error) {
	expr, err := parseTriangulation.ParseString("", s)
	if err != nil {
		return nil, lerrors.Wrap(lerrors.ErrCodeInvalidFormat, err, "parse triangulation %q", s)
	}
	triangles := make([][3]int, len(expr.Triangles))
	for i, tri := range expr.Triangles {
		for j, l := range tri.Labels {
			label := l.Index.int()
			if l.Tilde {
				if label < 0 {
					return nil, lerrors.New(lerrors.ErrCodeInvalidFormat, "label ~%d: cannot negate a negative index", label)
				}
				label = kernel.Tilde(label)
			}
			triangles[i][j] = label
		}
	}
	return kernel.NewTriangulation(triangles)
}

// ParseWeights reads a weight vector such as "[1,0,-1]".
func ParseWeights(s string) ([]int, error) {
	expr, err := parseLamination.ParseString("", s)
	if err != nil {
		return nil, lerrors.Wrap(lerrors.ErrCodeInvalidFormat, err, "parse lamination %q", s)
	}
	weights := make([]int, len(expr.Weights))
	for i, w := range expr.Weights {
		weights[i] = w.int()
	}
	return weights, nil
}

// ParseLamination reads a weight vector and builds the lamination on t.
func ParseLamination(t *kernel.Triangulation, s string) (*kernel.Lamination, error) {
	weights, err := ParseWeights(s)
	if err != nil {
		return nil, err
	}
	return t.Lamination(weights)
}

// =============================================================================
// Words
// =============================================================================

// Term is one factor of a Word.
type Term struct {
	// Name is a mapping class or lamination name. An all-uppercase name
	// that is not itself defined means the inverse of its lowercase form.
	Name string
	// Halftwist is set for "h.x", a half-twist about the arc x.
	Halftwist bool
	Power     int
}

// String renders t back into word syntax.
func (t Term) String() string {
	s := t.Name
	if t.Halftwist {
		s = "h." + t.Name
	}
	if t.Power != 1 {
		s += fmt.Sprintf("^%d", t.Power)
	}
	return s
}

// Word is a product of generators. Terms compose like functions, so the
// rightmost term acts first.
type Word []Term

// String renders w in the syntax ParseWord accepts.
func (w Word) String() string {
	parts := make([]string, len(w))
	for i, t := range w {
		parts[i] = t.String()
	}
	return strings.Join(parts, " ")
}

// ParseWord reads a word such as "a b^-1 A h.c^3". Uppercase names invert
// the matching lowercase generator, "h.x" is a half-twist about x and "^k"
// raises a term to the power k.
func ParseWord(s string) (Word, error) {
	expr, err := parseWord.ParseString("", s)
	if err != nil {
		return nil, lerrors.Wrap(lerrors.ErrCodeInvalidFormat, err, "parse word %q", s)
	}
	word := make(Word, 0, len(expr.Terms))
	for _, te := range expr.Terms {
		t := Term{Name: te.Name, Power: 1}
		if te.Power != nil {
			t.Power = te.Power.int()
		}
		if te.Arc != "" {
			switch te.Name {
			case "h":
			case "H":
				t.Power = -t.Power
			default:
				return nil, lerrors.New(lerrors.ErrCodeInvalidFormat, "unknown operator %q in %q, want h", te.Name, te.Name+"."+te.Arc)
			}
			t.Name, t.Halftwist = te.Arc, true
		}
		word = append(word, t)
	}
	return word, nil
}
