package io

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	lerrors "github.com/matzehuels/lamina/pkg/errors"
	"github.com/matzehuels/lamina/pkg/kernel"
)

// surfaceFile is the TOML layout of a surface description.
type surfaceFile struct {
	Name           string            `toml:"name"`
	Triangulation  string            `toml:"triangulation"`
	Laminations    map[string][]int  `toml:"laminations"`
	MappingClasses map[string]string `toml:"mapping_classes"`
}

// Surface is a triangulation together with named laminations and mapping
// classes, as loaded from a surface file.
type Surface struct {
	Name           string
	Triangulation  *kernel.Triangulation
	Laminations    map[string]*kernel.Lamination
	MappingClasses map[string]Word
}

// LoadSurface reads a surface file from path.
func LoadSurface(path string) (*Surface, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, lerrors.Wrap(lerrors.ErrCodeFileNotFound, err, "surface file %s not found", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	s, err := ReadSurface(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// ReadSurface decodes a TOML surface description:
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
// Unknown keys are rejected so typos do not silently drop data.
func ReadSurface(r io.Reader) (*Surface, error) {
	var raw surfaceFile
	md, err := toml.NewDecoder(r).Decode(&raw)
	if err != nil {
		return nil, lerrors.Wrap(lerrors.ErrCodeInvalidFormat, err, "decode surface")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, lerrors.New(lerrors.ErrCodeInvalidFormat, "unknown keys: %s", strings.Join(keys, ", "))
	}
	if raw.Triangulation == "" {
		return nil, lerrors.New(lerrors.ErrCodeInvalidFormat, "missing triangulation")
	}

	t, err := ParseTriangulation(raw.Triangulation)
	if err != nil {
		return nil, err
	}
	s := &Surface{
		Name:           raw.Name,
		Triangulation:  t,
		Laminations:    make(map[string]*kernel.Lamination, len(raw.Laminations)),
		MappingClasses: make(map[string]Word, len(raw.MappingClasses)),
	}
	for name, weights := range raw.Laminations {
		if err := lerrors.ValidateName(name); err != nil {
			return nil, err
		}
		l, err := t.Lamination(weights)
		if err != nil {
			return nil, fmt.Errorf("lamination %s: %w", name, err)
		}
		s.Laminations[name] = l
	}
	for name, text := range raw.MappingClasses {
		if err := lerrors.ValidateName(name); err != nil {
			return nil, err
		}
		if _, ok := s.Laminations[name]; ok {
			return nil, lerrors.New(lerrors.ErrCodeInvalidInput, "%s names both a lamination and a mapping class", name)
		}
		w, err := ParseWord(text)
		if err != nil {
			return nil, fmt.Errorf("mapping class %s: %w", name, err)
		}
		s.MappingClasses[name] = w
	}
	return s, nil
}

// NewSurface wraps a bare triangulation with no named objects.
func NewSurface(t *kernel.Triangulation) *Surface {
	return &Surface{
		Triangulation:  t,
		Laminations:    map[string]*kernel.Lamination{},
		MappingClasses: map[string]Word{},
	}
}

// LaminationNames returns the lamination names in sorted order.
func (s *Surface) LaminationNames() []string {
	names := make([]string, 0, len(s.Laminations))
	for n := range s.Laminations {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// Lamination resolves ref, which is either a lamination name or a literal
// weight vector such as "[1,0,1]".
func (s *Surface) Lamination(ref string) (*kernel.Lamination, error) {
	ref = strings.TrimSpace(ref)
	if strings.HasPrefix(ref, "[") {
		return ParseLamination(s.Triangulation, ref)
	}
	if l, ok := s.Laminations[ref]; ok {
		return l, nil
	}
	return nil, lerrors.New(lerrors.ErrCodeNotFound, "no lamination named %q", ref)
}

// MappingClass parses text as a word and evaluates it.
func (s *Surface) MappingClass(text string) (*kernel.Encoding, error) {
	w, err := ParseWord(text)
	if err != nil {
		return nil, err
	}
	return s.Encode(w)
}

// Encode evaluates w. Names resolve first to mapping classes, then to
// curves, which stand for the left Dehn twist about them.
func (s *Surface) Encode(w Word) (*kernel.Encoding, error) {
	return s.encode(w, nil)
}

func (s *Surface) encode(w Word, stack []string) (*kernel.Encoding, error) {
	result := s.Triangulation.IDEncoding()
	for i := len(w) - 1; i >= 0; i-- {
		e, err := s.term(w[i], stack)
		if err != nil {
			return nil, err
		}
		if result, err = e.Compose(result); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func (s *Surface) term(t Term, stack []string) (*kernel.Encoding, error) {
	if t.Halftwist {
		arc, err := s.Lamination(t.Name)
		if err != nil {
			return nil, err
		}
		return arc.EncodeHalftwist(t.Power)
	}

	name, power := t.Name, t.Power
	if !s.defines(name) && name == strings.ToUpper(name) && s.defines(strings.ToLower(name)) {
		name, power = strings.ToLower(name), -power
	}

	if w, ok := s.MappingClasses[name]; ok {
		if slices.Contains(stack, name) {
			return nil, lerrors.New(lerrors.ErrCodeInvalidInput, "mapping class %s refers to itself", name)
		}
		e, err := s.encode(w, append(stack, name))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		return e.Power(power)
	}
	if l, ok := s.Laminations[name]; ok {
		return l.EncodeTwist(power)
	}
	return nil, lerrors.New(lerrors.ErrCodeNotFound, "no mapping class or curve named %q", t.Name)
}

func (s *Surface) defines(name string) bool {
	_, isWord := s.MappingClasses[name]
	_, isLam := s.Laminations[name]
	return isWord || isLam
}
