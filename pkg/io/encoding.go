package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	lerrors "github.com/matzehuels/lamina/pkg/errors"
	"github.com/matzehuels/lamina/pkg/kernel"
)

// encodingDoc is the JSON form of a packaged encoding. Moves are listed in
// sequence order, as Encoding.Package returns them, so the last is applied
// first.
type encodingDoc struct {
	Source string               `json:"source"`
	Moves  []kernel.MovePackage `json:"moves"`
}

// WriteEncoding encodes e as JSON and writes it to w. The output can be
// read back with [ReadEncoding].
func WriteEncoding(e *kernel.Encoding, w io.Writer) error {
	doc := encodingDoc{
		Source: e.Source().String(),
		Moves:  e.Package(),
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ReadEncoding decodes a JSON packaged encoding and replays its moves from
// the recorded source triangulation.
//
// ReadEncoding does not close r.
func ReadEncoding(r io.Reader) (*kernel.Encoding, error) {
	var doc encodingDoc
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, lerrors.Wrap(lerrors.ErrCodeInvalidFormat, err, "decode encoding")
	}
	if doc.Source == "" {
		return nil, lerrors.New(lerrors.ErrCodeInvalidFormat, "encoding has no source triangulation")
	}
	t, err := ParseTriangulation(doc.Source)
	if err != nil {
		return nil, fmt.Errorf("source: %w", err)
	}
	return t.Encode(doc.Moves)
}

// ExportEncoding writes e to a JSON file at path.
// This is a convenience wrapper around [WriteEncoding] for file-based output.
func ExportEncoding(e *kernel.Encoding, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteEncoding(e, f)
}

// ImportEncoding reads an encoding from a JSON file at path.
// This is a convenience wrapper around [ReadEncoding] for file-based input.
func ImportEncoding(path string) (*kernel.Encoding, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadEncoding(f)
}
