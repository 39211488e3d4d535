// Package qt reads Qt Linguist .ts files.
package qt

import (
	"encoding/xml"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/emrgen/happix/internal/stringset"
)

const MimeType = "application/x-linguist"

type Parser struct{}

func New() *Parser {
	return &Parser{}
}

func (p *Parser) MimeType() string {
	return MimeType
}

func (p *Parser) Accept(filename string) bool {
	return strings.EqualFold(filepath.Ext(filename), ".ts")
}

type tsFile struct {
	XMLName  xml.Name    `xml:"TS"`
	Language string      `xml:"language,attr"`
	Contexts []tsContext `xml:"context"`
}

type tsContext struct {
	Name     string      `xml:"name"`
	Messages []tsMessage `xml:"message"`
}

type tsMessage struct {
	Numerus     string        `xml:"numerus,attr"`
	Locations   []tsLocation  `xml:"location"`
	Source      string        `xml:"source"`
	Comment     string        `xml:"comment"`
	Extra       string        `xml:"extracomment"`
	Translation tsTranslation `xml:"translation"`
}

type tsLocation struct {
	Filename string `xml:"filename,attr"`
	Line     int    `xml:"line,attr"`
}

type tsTranslation struct {
	Type         string   `xml:"type,attr"`
	Text         string   `xml:",chardata"`
	NumerusForms []string `xml:"numerusform"`
}

func (p *Parser) Parse(r io.Reader) (*stringset.Stringset, error) {
	var ts tsFile
	if err := xml.NewDecoder(r).Decode(&ts); err != nil {
		return nil, fmt.Errorf("decoding ts file: %w", err)
	}

	set := stringset.New()
	set.TargetLanguage = ts.Language

	for _, ctx := range ts.Contexts {
		for _, msg := range ctx.Messages {
			if msg.Translation.Type == "obsolete" || msg.Translation.Type == "vanished" {
				continue
			}

			context := ctx.Name
			if msg.Comment != "" {
				context = ctx.Name + "|" + msg.Comment
			}

			locations := make([]string, 0, len(msg.Locations))
			for _, loc := range msg.Locations {
				locations = append(locations, loc.Filename+":"+strconv.Itoa(loc.Line))
			}

			entry := stringset.Entry{
				SourceText:       msg.Source,
				Context:          context,
				Occurrences:      strings.Join(locations, " "),
				DeveloperComment: msg.Extra,
			}
			if msg.Translation.Type == "unfinished" {
				entry.Flags = "fuzzy"
			}

			if msg.Numerus != "yes" {
				e := entry
				e.Translation = msg.Translation.Text
				set.Add(&e)
				continue
			}

			forms := msg.Translation.NumerusForms
			if len(forms) == 0 {
				forms = []string{""}
			}
			for i, form := range forms {
				e := entry
				e.Number = i
				e.Translation = form
				set.Add(&e)
			}
		}
	}

	return set, nil
}
