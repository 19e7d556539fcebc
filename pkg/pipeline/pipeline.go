// Package pipeline runs kernel operations for the CLI with caching, logging
// and instrumentation.
//
// The kernel itself is pure and synchronous. This package adds everything
// around it: loading a surface, resolving lamination and word arguments,
// looking results up in a [cache.Cache] and reporting to observability hooks.
//
// # Operations
//
//   - Shorten: short form and conjugator of a lamination (cached)
//   - Components: component decomposition of a lamination (cached)
//   - Twist: image of a lamination under a mapping class word
//   - Classify: Nielsen-Thurston type and order of a word (cached)
//   - Intersect: geometric intersection number of two laminations (cached)
//   - Dot: Graphviz export of the dual graph
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	res, err := runner.Shorten(ctx, pipeline.Options{
//	    SurfacePath: "torus.toml",
//	    Lamination:  "[6,1,5]",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(res.Short)
package pipeline

import (
	"io"

	"github.com/charmbracelet/log"

	lerrors "github.com/matzehuels/lamina/pkg/errors"
	lio "github.com/matzehuels/lamina/pkg/io"
)

// =============================================================================
// Default Values
// =============================================================================

// Output formats for the Dot operation.
const (
	FormatDOT = "dot"
	FormatSVG = "svg"
)

// DefaultFormat is the default output format for Dot.
const DefaultFormat = FormatDOT

// ValidFormats is the set of supported Dot output formats.
var ValidFormats = map[string]bool{
	FormatDOT: true,
	FormatSVG: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains the inputs of a pipeline operation. Each operation reads
// only the fields it needs.
type Options struct {
	// SurfacePath is a TOML surface file. It is ignored when Surface is set.
	SurfacePath string `json:"surface,omitempty"`

	// Lamination and Other are lamination names or literal weight vectors.
	Lamination string `json:"lamination,omitempty"`
	Other      string `json:"other,omitempty"`

	// Word is a mapping class word such as "a B".
	Word string `json:"word,omitempty"`

	// Format selects the Dot output.
	Format string `json:"format,omitempty"`

	// Refresh skips cache reads. Results are still written back.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Surface *lio.Surface `json:"-"`
	Logger  *log.Logger  `json:"-"`
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return lerrors.New(lerrors.ErrCodeInvalidInput, "invalid format: %q (must be one of: dot, svg)", format)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// SetDefaults fills in the logger and output format.
func (o *Options) SetDefaults() {
	if o.Format == "" {
		o.Format = DefaultFormat
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// LoadSurface reads SurfacePath unless a surface is already attached.
func (o *Options) LoadSurface() (*lio.Surface, error) {
	if o.Surface != nil {
		return o.Surface, nil
	}
	if o.SurfacePath == "" {
		return nil, lerrors.New(lerrors.ErrCodeInvalidInput, "surface is required")
	}
	s, err := lio.LoadSurface(o.SurfacePath)
	if err != nil {
		return nil, err
	}
	o.Surface = s
	return s, nil
}

// ValidateForLamination checks the fields of single-lamination operations.
func (o *Options) ValidateForLamination() error {
	o.SetDefaults()
	if o.Lamination == "" {
		return lerrors.New(lerrors.ErrCodeInvalidInput, "lamination is required")
	}
	return nil
}

// ValidateForTwist checks the fields of Twist.
func (o *Options) ValidateForTwist() error {
	if err := o.ValidateForLamination(); err != nil {
		return err
	}
	if o.Word == "" {
		return lerrors.New(lerrors.ErrCodeInvalidInput, "word is required")
	}
	return nil
}

// ValidateForClassify checks the fields of Classify.
func (o *Options) ValidateForClassify() error {
	o.SetDefaults()
	if o.Word == "" {
		return lerrors.New(lerrors.ErrCodeInvalidInput, "word is required")
	}
	return nil
}

// ValidateForIntersect checks the fields of Intersect.
func (o *Options) ValidateForIntersect() error {
	if err := o.ValidateForLamination(); err != nil {
		return err
	}
	if o.Other == "" {
		return lerrors.New(lerrors.ErrCodeInvalidInput, "second lamination is required")
	}
	return nil
}

// ValidateForDot checks the fields of Dot. The lamination is optional.
func (o *Options) ValidateForDot() error {
	o.SetDefaults()
	return ValidateFormat(o.Format)
}

// surfaceName returns a display name for log lines.
func (o *Options) surfaceName() string {
	switch {
	case o.Surface != nil && o.Surface.Name != "":
		return o.Surface.Name
	case o.SurfacePath != "":
		return o.SurfacePath
	case o.Surface != nil:
		return o.Surface.Triangulation.String()
	}
	return ""
}
