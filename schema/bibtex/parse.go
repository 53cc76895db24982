package bibtex

import (
	"fmt"
	"io"
	"strings"
	"unicode"
)

// Parse reads a .bib stream and returns its entries in document order.
// @comment, @preamble and @string blocks are skipped; string macros are
// not resolved, a bare macro name passes through as its literal text.
// A malformed entry aborts the parse with a positional error, so a
// caller can surface the whole file as one failed source.
func Parse(r io.Reader) ([]Entry, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	p := &parser{input: []rune(string(b)), line: 1}
	return p.parse()
}

// ParseString is a convenience wrapper around Parse.
func ParseString(s string) ([]Entry, error) {
	return Parse(strings.NewReader(s))
}

type parser struct {
	input []rune
	pos   int
	line  int
}

func (p *parser) errf(format string, args ...interface{}) error {
	return fmt.Errorf("bibtex: line %d: %s", p.line, fmt.Sprintf(format, args...))
}

func (p *parser) peek() rune {
	if p.pos >= len(p.input) {
		return 0
	}
	return p.input[p.pos]
}

func (p *parser) next() rune {
	c := p.peek()
	p.pos++
	if c == '\n' {
		p.line++
	}
	return c
}

func (p *parser) skipSpace() {
	for p.pos < len(p.input) && unicode.IsSpace(p.peek()) {
		p.next()
	}
}

func (p *parser) parse() ([]Entry, error) {
	var entries []Entry
	for p.pos < len(p.input) {
		if p.next() != '@' {
			continue // free text between entries is ignored
		}
		kind := strings.ToLower(p.readIdent())
		switch kind {
		case "comment", "preamble", "string":
			if err := p.skipBlock(); err != nil {
				return nil, err
			}
		case "":
			return nil, p.errf("missing entry type after @")
		default:
			entry, err := p.readEntry(kind)
			if err != nil {
				return nil, err
			}
			entries = append(entries, entry)
		}
	}
	return entries, nil
}

func (p *parser) readIdent() string {
	var sb strings.Builder
	for p.pos < len(p.input) {
		c := p.peek()
		if unicode.IsLetter(c) || unicode.IsDigit(c) || c == '-' || c == '_' {
			sb.WriteRune(p.next())
			continue
		}
		break
	}
	return sb.String()
}

// skipBlock consumes a balanced { ... } or ( ... ) group.
func (p *parser) skipBlock() error {
	p.skipSpace()
	open := p.next()
	var close rune
	switch open {
	case '{':
		close = '}'
	case '(':
		close = ')'
	default:
		return p.errf("expected block after @directive, got %q", open)
	}
	depth := 1
	for p.pos < len(p.input) {
		switch p.next() {
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return nil
			}
		}
	}
	return p.errf("unterminated block")
}

func (p *parser) readEntry(kind string) (Entry, error) {
	entry := Entry{Type: kind, Fields: make(map[string]string)}
	p.skipSpace()
	if c := p.next(); c != '{' && c != '(' {
		return entry, p.errf("expected { after @%s", kind)
	}
	// citation key runs up to the first comma
	var key strings.Builder
	for {
		c := p.peek()
		if c == 0 {
			return entry, p.errf("unterminated entry %q", key.String())
		}
		if c == ',' || c == '}' || c == ')' {
			break
		}
		key.WriteRune(p.next())
	}
	entry.Key = strings.TrimSpace(key.String())
	for {
		p.skipSpace()
		switch p.peek() {
		case ',':
			p.next()
			continue
		case '}', ')':
			p.next()
			return entry, nil
		case 0:
			return entry, p.errf("unterminated entry %q", entry.Key)
		}
		name := strings.ToLower(strings.TrimSpace(p.readIdent()))
		if name == "" {
			return entry, p.errf("entry %q: expected field name", entry.Key)
		}
		p.skipSpace()
		if p.next() != '=' {
			return entry, p.errf("entry %q: expected = after field %q", entry.Key, name)
		}
		value, err := p.readValue(entry.Key, name)
		if err != nil {
			return entry, err
		}
		entry.Fields[name] = value
	}
}

// readValue reads one field value: a braced group, a quoted string, or
// a bare word (number or macro name). Parts joined with # concatenate.
func (p *parser) readValue(key, field string) (string, error) {
	var parts []string
	for {
		p.skipSpace()
		switch c := p.peek(); {
		case c == '{':
			part, err := p.readBraced()
			if err != nil {
				return "", err
			}
			parts = append(parts, part)
		case c == '"':
			part, err := p.readQuoted()
			if err != nil {
				return "", err
			}
			parts = append(parts, part)
		case unicode.IsLetter(c) || unicode.IsDigit(c):
			parts = append(parts, p.readBareWord())
		default:
			return "", p.errf("entry %q: malformed value for field %q", key, field)
		}
		p.skipSpace()
		if p.peek() == '#' {
			p.next()
			continue
		}
		return strings.Join(parts, ""), nil
	}
}

func (p *parser) readBraced() (string, error) {
	p.next() // opening brace
	var sb strings.Builder
	depth := 1
	for p.pos < len(p.input) {
		c := p.next()
		switch c {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return sb.String(), nil
			}
		}
		sb.WriteRune(c)
	}
	return "", p.errf("unterminated braced value")
}

func (p *parser) readQuoted() (string, error) {
	p.next() // opening quote
	var sb strings.Builder
	depth := 0 // braces protect quotes inside quoted values
	for p.pos < len(p.input) {
		c := p.next()
		switch c {
		case '{':
			depth++
		case '}':
			depth--
		case '"':
			if depth == 0 {
				return sb.String(), nil
			}
		}
		sb.WriteRune(c)
	}
	return "", p.errf("unterminated quoted value")
}

func (p *parser) readBareWord() string {
	var sb strings.Builder
	for p.pos < len(p.input) {
		c := p.peek()
		if unicode.IsLetter(c) || unicode.IsDigit(c) || c == '-' || c == '_' || c == '.' || c == ':' || c == '/' {
			sb.WriteRune(p.next())
			continue
		}
		break
	}
	return sb.String()
}
