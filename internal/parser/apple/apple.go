// Package apple reads Apple .strings files:
//
//	/* comment */
//	"key" = "value";
package apple

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf16"

	"github.com/emrgen/happix/internal/stringset"
)

const MimeType = "text/x-apple-strings"

var ErrMalformed = errors.New("malformed strings file")

type Parser struct{}

func New() *Parser {
	return &Parser{}
}

func (p *Parser) MimeType() string {
	return MimeType
}

func (p *Parser) Accept(filename string) bool {
	return strings.EqualFold(filepath.Ext(filename), ".strings")
}

func (p *Parser) Parse(r io.Reader) (*stringset.Stringset, error) {
	buf, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	s := &scanner{src: []rune(decode(buf))}
	set := stringset.New()
	for {
		comment, err := s.skipSpaceAndComments()
		if err != nil {
			return nil, err
		}
		if s.eof() {
			return set, nil
		}

		key, err := s.quoted()
		if err != nil {
			return nil, err
		}
		if err := s.expect('='); err != nil {
			return nil, err
		}
		value, err := s.quoted()
		if err != nil {
			return nil, err
		}
		if err := s.expect(';'); err != nil {
			return nil, err
		}

		set.Add(&stringset.Entry{
			SourceText:       key,
			Translation:      value,
			DeveloperComment: comment,
		})
	}
}

// decode handles the UTF-16 files Xcode historically wrote, falling back to UTF-8.
func decode(buf []byte) string {
	if len(buf) >= 2 && (buf[0] == 0xFF && buf[1] == 0xFE || buf[0] == 0xFE && buf[1] == 0xFF) {
		little := buf[0] == 0xFF
		units := make([]uint16, 0, len(buf)/2)
		for i := 2; i+1 < len(buf); i += 2 {
			if little {
				units = append(units, uint16(buf[i])|uint16(buf[i+1])<<8)
			} else {
				units = append(units, uint16(buf[i])<<8|uint16(buf[i+1]))
			}
		}
		return string(utf16.Decode(units))
	}

	return strings.TrimPrefix(string(buf), "\ufeff")
}

type scanner struct {
	src  []rune
	pos  int
	line int
}

func (s *scanner) eof() bool {
	return s.pos >= len(s.src)
}

func (s *scanner) errorf(format string, args ...any) error {
	return fmt.Errorf("%w: line %d: %s", ErrMalformed, s.line+1, fmt.Sprintf(format, args...))
}

// skipSpaceAndComments returns the text of the last comment before the next entry.
func (s *scanner) skipSpaceAndComments() (string, error) {
	var comment string
	for !s.eof() {
		r := s.src[s.pos]
		switch {
		case r == '\n':
			s.line++
			s.pos++
		case unicode.IsSpace(r):
			s.pos++
		case r == '/' && s.pos+1 < len(s.src) && s.src[s.pos+1] == '*':
			end := strings.Index(string(s.src[s.pos+2:]), "*/")
			if end < 0 {
				return "", s.errorf("unterminated comment")
			}
			body := string(s.src[s.pos+2:])[:end]
			s.line += strings.Count(body, "\n")
			s.pos += 2 + len([]rune(body)) + 2
			comment = strings.TrimSpace(body)
		case r == '/' && s.pos+1 < len(s.src) && s.src[s.pos+1] == '/':
			start := s.pos + 2
			for !s.eof() && s.src[s.pos] != '\n' {
				s.pos++
			}
			comment = strings.TrimSpace(string(s.src[start:s.pos]))
		default:
			return comment, nil
		}
	}

	return comment, nil
}

func (s *scanner) expect(want rune) error {
	if _, err := s.skipSpaceAndComments(); err != nil {
		return err
	}
	if s.eof() || s.src[s.pos] != want {
		return s.errorf("expected %q", want)
	}
	s.pos++

	return nil
}

func (s *scanner) quoted() (string, error) {
	if _, err := s.skipSpaceAndComments(); err != nil {
		return "", err
	}
	if s.eof() || s.src[s.pos] != '"' {
		return "", s.errorf("expected quoted string")
	}
	s.pos++

	var b strings.Builder
	for !s.eof() {
		r := s.src[s.pos]
		s.pos++
		switch r {
		case '"':
			return b.String(), nil
		case '\n':
			s.line++
			b.WriteRune(r)
		case '\\':
			if s.eof() {
				return "", s.errorf("unterminated escape")
			}
			esc := s.src[s.pos]
			s.pos++
			switch esc {
			case 'n':
				b.WriteRune('\n')
			case 't':
				b.WriteRune('\t')
			case 'r':
				b.WriteRune('\r')
			default:
				b.WriteRune(esc)
			}
		default:
			b.WriteRune(r)
		}
	}

	return "", s.errorf("unterminated string")
}
