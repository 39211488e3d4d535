// Package properties reads Java .properties files. The key is the source string
// and the value its translation.
package properties

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/emrgen/happix/internal/stringset"
	"github.com/magiconair/properties"
)

const MimeType = "text/x-java-properties"

type Parser struct {
	encoding properties.Encoding
}

func New() *Parser {
	return &Parser{encoding: properties.UTF8}
}

// NewISO88591 returns a parser for the legacy Latin-1 encoding of older Java tooling.
func NewISO88591() *Parser {
	return &Parser{encoding: properties.ISO_8859_1}
}

func (p *Parser) MimeType() string {
	return MimeType
}

func (p *Parser) Accept(filename string) bool {
	return strings.EqualFold(filepath.Ext(filename), ".properties")
}

func (p *Parser) Parse(r io.Reader) (*stringset.Stringset, error) {
	buf, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	loader := &properties.Loader{Encoding: p.encoding, DisableExpansion: true}
	props, err := loader.LoadBytes(buf)
	if err != nil {
		return nil, err
	}

	set := stringset.New()
	for _, key := range props.Keys() {
		value, _ := props.Get(key)
		set.Add(&stringset.Entry{
			SourceText:       key,
			Translation:      value,
			DeveloperComment: strings.Join(props.GetComments(key), "\n"),
		})
	}

	return set, nil
}
