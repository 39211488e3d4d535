// Package parser dispatches uploaded translation files to the format parser
// able to read them.
package parser

import (
	"fmt"
	"io"
	"os"

	"github.com/emrgen/happix/internal/parser/apple"
	"github.com/emrgen/happix/internal/parser/po"
	"github.com/emrgen/happix/internal/parser/properties"
	"github.com/emrgen/happix/internal/parser/qt"
	"github.com/emrgen/happix/internal/stringset"
)

// Parser turns the bytes of one file format into a Stringset.
type Parser interface {
	// MimeType is the type advertised for dispatch.
	MimeType() string
	// Accept reports whether the parser handles the file name.
	Accept(filename string) bool
	Parse(r io.Reader) (*stringset.Stringset, error)
}

// ParseFile opens path and parses it with p.
func ParseFile(p Parser, path string) (*stringset.Stringset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	set, err := p.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	return set, nil
}

type Registry struct {
	parsers []Parser
	byMime  map[string]Parser
}

func NewRegistry(parsers ...Parser) *Registry {
	r := &Registry{byMime: make(map[string]Parser)}
	for _, p := range parsers {
		r.Register(p)
	}

	return r
}

// Default returns a registry with every bundled format, in lookup order.
func Default() *Registry {
	return NewRegistry(po.New(), qt.New(), properties.New(), apple.New())
}

func (r *Registry) Register(p Parser) {
	r.parsers = append(r.parsers, p)
	r.byMime[p.MimeType()] = p
}

func (r *Registry) ForMimeType(mimeType string) (Parser, bool) {
	p, ok := r.byMime[mimeType]
	return p, ok
}

// ForFilename returns the first registered parser accepting the name.
func (r *Registry) ForFilename(name string) (Parser, bool) {
	for _, p := range r.parsers {
		if p.Accept(name) {
			return p, true
		}
	}

	return nil, false
}
