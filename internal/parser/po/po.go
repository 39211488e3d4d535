// Package po reads GNU gettext PO and POT files into a Stringset.
package po

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/emrgen/happix/internal/stringset"
)

const MimeType = "text/x-po"

var ErrMalformed = errors.New("malformed po file")

type Parser struct{}

func New() *Parser {
	return &Parser{}
}

func (p *Parser) MimeType() string {
	return MimeType
}

func (p *Parser) Accept(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return ext == ".po" || ext == ".pot"
}

// message is a PO entry as written in the file, before it is split into plural forms.
type message struct {
	references []string
	flags      []string
	extracted  []string
	msgctxt    string
	msgid      string
	msgidPl    string
	msgstr     string
	msgstrPl   map[int]*string
	obsolete   bool
	hasMsgid   bool
	hasMsgstr  bool
}

func newMessage() *message {
	return &message{msgstrPl: make(map[int]*string)}
}

func (p *Parser) Parse(r io.Reader) (*stringset.Stringset, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var header *message
	var messages []*message
	var current *message
	var last *string // field receiving continuation lines
	lineNum := 0

	flush := func() {
		if current != nil && current.hasMsgid && !current.obsolete {
			if current.msgid == "" && header == nil {
				header = current
			} else {
				messages = append(messages, current)
			}
		}
		current = nil
		last = nil
	}

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			flush()
			continue
		}

		// a keyword after a complete msgstr starts a new entry even without a blank line,
		// and so does any live line after obsolete ones
		if current != nil && current.hasMsgstr && (strings.HasPrefix(line, "#") || strings.HasPrefix(line, "msgid ") || strings.HasPrefix(line, "msgctxt ")) {
			flush()
		} else if current != nil && current.obsolete && !strings.HasPrefix(line, "#~") {
			flush()
		}
		if current == nil {
			current = newMessage()
		}

		if strings.HasPrefix(line, "#~") {
			current.obsolete = true
			continue
		}

		if strings.HasPrefix(line, "#") {
			switch {
			case strings.HasPrefix(line, "#:"):
				current.references = append(current.references, strings.TrimSpace(line[2:]))
			case strings.HasPrefix(line, "#,"):
				for _, flag := range strings.Split(line[2:], ",") {
					if flag = strings.TrimSpace(flag); flag != "" {
						current.flags = append(current.flags, flag)
					}
				}
			case strings.HasPrefix(line, "#."):
				current.extracted = append(current.extracted, strings.TrimSpace(line[2:]))
			}
			continue
		}

		var err error
		switch {
		case strings.HasPrefix(line, "msgctxt "):
			current.msgctxt, err = unquote(line[len("msgctxt "):])
			last = &current.msgctxt
		case strings.HasPrefix(line, "msgid_plural "):
			current.msgidPl, err = unquote(line[len("msgid_plural "):])
			last = &current.msgidPl
		case strings.HasPrefix(line, "msgid "):
			current.msgid, err = unquote(line[len("msgid "):])
			current.hasMsgid = true
			last = &current.msgid
		case strings.HasPrefix(line, "msgstr["):
			end := strings.Index(line, "]")
			if end < 0 {
				return nil, fmt.Errorf("%w: line %d: invalid msgstr index", ErrMalformed, lineNum)
			}
			idx, convErr := strconv.Atoi(line[len("msgstr["):end])
			if convErr != nil || idx < 0 {
				return nil, fmt.Errorf("%w: line %d: invalid msgstr index", ErrMalformed, lineNum)
			}
			var value string
			value, err = unquote(line[end+1:])
			current.msgstrPl[idx] = &value
			current.hasMsgstr = true
			last = &value
		case strings.HasPrefix(line, "msgstr "):
			current.msgstr, err = unquote(line[len("msgstr "):])
			current.hasMsgstr = true
			last = &current.msgstr
		case strings.HasPrefix(line, "\""):
			if last == nil {
				return nil, fmt.Errorf("%w: line %d: continuation without keyword", ErrMalformed, lineNum)
			}
			var value string
			value, err = unquote(line)
			*last += value
		default:
			return nil, fmt.Errorf("%w: line %d: unexpected %q", ErrMalformed, lineNum, line)
		}
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrMalformed, lineNum, err)
		}
	}
	flush()

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading po file: %w", err)
	}

	set := toStringset(messages)
	if header != nil {
		set.TargetLanguage = headerField(header.msgstr, "Language")
	}

	return set, nil
}

// toStringset splits plural messages into one entry per plural form. Form 0 keeps
// msgid as its source, the other forms use msgid_plural.
func toStringset(messages []*message) *stringset.Stringset {
	set := stringset.New()
	for _, m := range messages {
		occurrences := strings.Join(m.references, " ")
		flags := strings.Join(m.flags, ", ")
		comment := strings.Join(m.extracted, "\n")

		if m.msgidPl == "" {
			set.Add(&stringset.Entry{
				SourceText:       m.msgid,
				Context:          m.msgctxt,
				Translation:      m.msgstr,
				Occurrences:      occurrences,
				Flags:            flags,
				DeveloperComment: comment,
			})
			continue
		}

		forms := make([]int, 0, len(m.msgstrPl))
		for idx := range m.msgstrPl {
			forms = append(forms, idx)
		}
		if len(forms) == 0 {
			empty0, empty1 := "", ""
			m.msgstrPl[0], m.msgstrPl[1] = &empty0, &empty1
			forms = append(forms, 0, 1)
		}
		sort.Ints(forms)

		for _, idx := range forms {
			source := m.msgidPl
			if idx == 0 {
				source = m.msgid
			}
			set.Add(&stringset.Entry{
				SourceText:       source,
				Context:          m.msgctxt,
				Number:           idx,
				Translation:      *m.msgstrPl[idx],
				Occurrences:      occurrences,
				Flags:            flags,
				DeveloperComment: comment,
			})
		}
	}

	return set
}

func headerField(header, name string) string {
	for _, line := range strings.Split(header, "\n") {
		if idx := strings.Index(line, ":"); idx > 0 {
			if strings.EqualFold(strings.TrimSpace(line[:idx]), name) {
				return strings.TrimSpace(line[idx+1:])
			}
		}
	}

	return ""
}

func unquote(s string) (string, error) {
	s = strings.TrimSpace(s)
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return "", fmt.Errorf("expected quoted string, got %s", s)
	}
	s = s[1 : len(s)-1]

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i+1 == len(s) {
			b.WriteByte(s[i])
			continue
		}
		i++
		switch s[i] {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case '\\', '"':
			b.WriteByte(s[i])
		default:
			b.WriteByte('\\')
			b.WriteByte(s[i])
		}
	}

	return b.String(), nil
}
