package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/lamina/pkg/cache"
	lerrors "github.com/matzehuels/lamina/pkg/errors"
	lio "github.com/matzehuels/lamina/pkg/io"
	"github.com/matzehuels/lamina/pkg/kernel"
	"github.com/matzehuels/lamina/pkg/observability"
)

// Operation names used for hooks and log lines.
const (
	OpShorten    = "shorten"
	OpComponents = "components"
	OpTwist      = "twist"
	OpClassify   = "classify"
	OpIntersect  = "intersect"
	OpDot        = "dot"
)

// =============================================================================
// Results
// =============================================================================

// ShortenResult is the short form of a lamination and the encoding that
// reaches it.
type ShortenResult struct {
	Lamination []int  `msgpack:"lamination"`
	Kind       string `msgpack:"kind"`
	Short      []int  `msgpack:"short"`
	// Target is the triangulation the short form lives on.
	Target string `msgpack:"target"`
	// Moves is the packaged conjugator, applied last to first.
	Moves []kernel.MovePackage `msgpack:"moves"`

	Run RunInfo `msgpack:"-"`
}

// Conjugator rebuilds the shortening encoding starting at t, the
// triangulation of the original lamination.
func (r *ShortenResult) Conjugator(t *kernel.Triangulation) (*kernel.Encoding, error) {
	return t.Encode(r.Moves)
}

// ComponentResult is one component with its multiplicity.
type ComponentResult struct {
	Weights      []int  `msgpack:"weights"`
	Kind         string `msgpack:"kind"`
	Multiplicity int    `msgpack:"multiplicity"`
}

// ComponentsResult is the decomposition of a lamination.
type ComponentsResult struct {
	Lamination []int             `msgpack:"lamination"`
	Kind       string            `msgpack:"kind"`
	Components []ComponentResult `msgpack:"components"`

	Run RunInfo `msgpack:"-"`
}

// TwistResult is the image of a lamination under a mapping class.
type TwistResult struct {
	Word  string
	Image []int
	Kind  string

	Run RunInfo
}

// ClassifyResult is the Nielsen-Thurston type and order of a mapping class.
type ClassifyResult struct {
	Word string `msgpack:"word"`
	Type string `msgpack:"type"`
	// Order is 0 for infinite order.
	Order int `msgpack:"order"`
	Moves int `msgpack:"moves"`

	Run RunInfo `msgpack:"-"`
}

// IntersectResult is the geometric intersection number of two laminations.
type IntersectResult struct {
	A, B   []int
	Number int

	Run RunInfo
}

// =============================================================================
// Operations
// =============================================================================

// resolveLamination loads the surface and resolves ref on it.
func resolveLamination(opts *Options, ref string) (*kernel.Lamination, error) {
	s, err := opts.LoadSurface()
	if err != nil {
		return nil, err
	}
	return s.Lamination(ref)
}

// Shorten finds the short form of opts.Lamination.
func (r *Runner) Shorten(ctx context.Context, opts Options) (*ShortenResult, error) {
	if err := opts.ValidateForLamination(); err != nil {
		return nil, err
	}
	var res *ShortenResult
	info, err := r.run(ctx, OpShorten, func(logger *log.Logger) (bool, error) {
		l, err := resolveLamination(&opts, opts.Lamination)
		if err != nil {
			return false, err
		}
		logger.Info("shortening", "surface", opts.surfaceName(), "lamination", l, "weight", l.Weight())

		v, hit, err := cached(ctx, r, logger, cache.PrefixShorten, r.Keyer.ShortenKey(l.Key()), cache.TTLShorten, opts.Refresh,
			func() (ShortenResult, error) {
				short, conj, err := l.Shorten()
				if err != nil {
					return ShortenResult{}, err
				}
				return ShortenResult{
					Lamination: l.Weights(),
					Kind:       l.Kind().String(),
					Short:      short.Weights(),
					Target:     short.Triangulation().String(),
					Moves:      conj.Package(),
				}, nil
			})
		if err != nil {
			return false, err
		}
		res = &v
		observability.Kernel().OnShorten(ctx, l.Weight(), weight(v.Short), len(v.Moves))
		logger.Info("shortened", "short", FormatWeights(v.Short), "moves", len(v.Moves), "cache_hit", hit)
		return hit, nil
	})
	if err != nil {
		return nil, fmt.Errorf("shorten: %w", err)
	}
	res.Run = info
	return res, nil
}

// Components splits opts.Lamination into its components.
func (r *Runner) Components(ctx context.Context, opts Options) (*ComponentsResult, error) {
	if err := opts.ValidateForLamination(); err != nil {
		return nil, err
	}
	var res *ComponentsResult
	info, err := r.run(ctx, OpComponents, func(logger *log.Logger) (bool, error) {
		l, err := resolveLamination(&opts, opts.Lamination)
		if err != nil {
			return false, err
		}
		v, hit, err := cached(ctx, r, logger, cache.PrefixComponents, r.Keyer.ComponentsKey(l.Key()), cache.TTLComponents, opts.Refresh,
			func() (ComponentsResult, error) {
				comps, err := l.Components()
				if err != nil {
					return ComponentsResult{}, err
				}
				out := ComponentsResult{
					Lamination: l.Weights(),
					Kind:       l.Kind().String(),
					Components: make([]ComponentResult, len(comps)),
				}
				for i, c := range comps {
					out.Components[i] = ComponentResult{
						Weights:      c.Lamination.Weights(),
						Kind:         c.Lamination.Kind().String(),
						Multiplicity: c.Multiplicity,
					}
				}
				return out, nil
			})
		if err != nil {
			return false, err
		}
		res = &v
		logger.Info("split lamination", "lamination", l, "components", len(v.Components), "cache_hit", hit)
		return hit, nil
	})
	if err != nil {
		return nil, fmt.Errorf("components: %w", err)
	}
	res.Run = info
	return res, nil
}

// Twist applies the mapping class opts.Word to opts.Lamination.
func (r *Runner) Twist(ctx context.Context, opts Options) (*TwistResult, error) {
	if err := opts.ValidateForTwist(); err != nil {
		return nil, err
	}
	var res *TwistResult
	info, err := r.run(ctx, OpTwist, func(logger *log.Logger) (bool, error) {
		l, err := resolveLamination(&opts, opts.Lamination)
		if err != nil {
			return false, err
		}
		e, err := opts.Surface.MappingClass(opts.Word)
		if err != nil {
			return false, err
		}
		img, err := e.Apply(l)
		if err != nil {
			return false, err
		}
		res = &TwistResult{Word: opts.Word, Image: img.Weights(), Kind: img.Kind().String()}
		logger.Info("applied mapping class", "word", opts.Word, "moves", e.Len(), "image", img)
		return false, nil
	})
	if err != nil {
		return nil, fmt.Errorf("twist: %w", err)
	}
	res.Run = info
	return res, nil
}

// Classify computes the Nielsen-Thurston type and order of opts.Word.
func (r *Runner) Classify(ctx context.Context, opts Options) (*ClassifyResult, error) {
	if err := opts.ValidateForClassify(); err != nil {
		return nil, err
	}
	var res *ClassifyResult
	info, err := r.run(ctx, OpClassify, func(logger *log.Logger) (bool, error) {
		s, err := opts.LoadSurface()
		if err != nil {
			return false, err
		}
		e, err := s.MappingClass(opts.Word)
		if err != nil {
			return false, err
		}
		if !e.IsMappingClass() {
			return false, lerrors.New(lerrors.ErrCodeMismatch, "%q does not return to its source triangulation", opts.Word)
		}
		packed, err := cache.Marshal(e.Package())
		if err != nil {
			return false, err
		}
		t := e.Source()
		key := r.Keyer.ClassifyKey(t.Signature(), cache.Hash(packed), cache.ClassifyKeyOpts{MaxOrder: t.MaxOrder()})

		v, hit, err := cached(ctx, r, logger, cache.PrefixClassify, key, cache.TTLClassify, opts.Refresh,
			func() (ClassifyResult, error) {
				nt, err := e.NielsenThurstonType()
				if err != nil {
					return ClassifyResult{}, err
				}
				order, err := e.Order()
				if err != nil {
					return ClassifyResult{}, err
				}
				return ClassifyResult{Word: opts.Word, Type: string(nt), Order: order, Moves: e.Len()}, nil
			})
		if err != nil {
			return false, err
		}
		// Equal mapping classes share an entry, so the word is the caller's.
		v.Word = opts.Word
		res = &v
		logger.Info("classified", "word", opts.Word, "type", v.Type, "order", v.Order, "cache_hit", hit)
		return hit, nil
	})
	if err != nil {
		return nil, fmt.Errorf("classify: %w", err)
	}
	res.Run = info
	return res, nil
}

// Intersect computes the geometric intersection number of opts.Lamination
// with opts.Other.
func (r *Runner) Intersect(ctx context.Context, opts Options) (*IntersectResult, error) {
	if err := opts.ValidateForIntersect(); err != nil {
		return nil, err
	}
	var res *IntersectResult
	info, err := r.run(ctx, OpIntersect, func(logger *log.Logger) (bool, error) {
		a, err := resolveLamination(&opts, opts.Lamination)
		if err != nil {
			return false, err
		}
		b, err := resolveLamination(&opts, opts.Other)
		if err != nil {
			return false, err
		}
		n, hit, err := cached(ctx, r, logger, cache.PrefixIntersect, r.Keyer.IntersectKey(a.Key(), b.Key()), cache.TTLIntersect, opts.Refresh,
			func() (int, error) { return a.Intersection(b) })
		if err != nil {
			return false, err
		}
		res = &IntersectResult{A: a.Weights(), B: b.Weights(), Number: n}
		logger.Info("intersected", "a", a, "b", b, "number", n, "cache_hit", hit)
		return hit, nil
	})
	if err != nil {
		return nil, fmt.Errorf("intersect: %w", err)
	}
	res.Run = info
	return res, nil
}

// Dot exports the dual graph of the surface, labelled with opts.Lamination
// when it is set, as DOT text or rendered SVG.
func (r *Runner) Dot(ctx context.Context, opts Options) ([]byte, error) {
	if err := opts.ValidateForDot(); err != nil {
		return nil, err
	}
	var out []byte
	_, err := r.run(ctx, OpDot, func(logger *log.Logger) (bool, error) {
		s, err := opts.LoadSurface()
		if err != nil {
			return false, err
		}
		dotOpts := lio.DOTOptions{Name: s.Name}
		if opts.Lamination != "" {
			if dotOpts.Lamination, err = s.Lamination(opts.Lamination); err != nil {
				return false, err
			}
		}
		dot := lio.ToDOT(s.Triangulation, dotOpts)
		if opts.Format == FormatSVG {
			svg, err := lio.RenderSVG(ctx, dot)
			if err != nil {
				return false, err
			}
			out = svg
		} else {
			out = []byte(dot)
		}
		logger.Info("exported dual graph", "format", opts.Format, "bytes", len(out))
		return false, nil
	})
	if err != nil {
		return nil, fmt.Errorf("dot: %w", err)
	}
	return out, nil
}

// =============================================================================
// Helpers
// =============================================================================

// weight matches kernel.Lamination.Weight: arcs along edges count zero.
func weight(weights []int) int {
	n := 0
	for _, w := range weights {
		n += max(w, 0)
	}
	return n
}

// FormatWeights renders weights the way kernel.Lamination.String does.
func FormatWeights(weights []int) string {
	parts := make([]string, len(weights))
	for i, w := range weights {
		parts[i] = fmt.Sprint(w)
	}
	return "[" + strings.Join(parts, ",") + "]"
}
