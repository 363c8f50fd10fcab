package pylit

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// ParseError describes a failure to parse a literal, with the byte offset
// at which parsing stopped.
type ParseError struct {
	Offset int
	Msg    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("pylit: %s at offset %d", e.Msg, e.Offset)
}

// Parse parses a single Python literal from s. Trailing whitespace is
// permitted; any other trailing input is an error.
func Parse(s string) (Value, error) {
	p := &parser{src: s}
	v, err := p.parseValue()
	if err != nil {
		return Value{}, err
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return Value{}, p.errorf("trailing input after literal")
	}
	return v, nil
}

type parser struct {
	src string
	pos int
}

func (p *parser) errorf(format string, args ...any) error {
	return &ParseError{Offset: p.pos, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) skipSpace() {
	for p.pos < len(p.src) {
		switch p.src[p.pos] {
		case ' ', '\t', '\n', '\r':
			p.pos++
		default:
			return
		}
	}
}

func (p *parser) peek() (byte, bool) {
	if p.pos >= len(p.src) {
		return 0, false
	}
	return p.src[p.pos], true
}

func (p *parser) parseValue() (Value, error) {
	p.skipSpace()
	c, ok := p.peek()
	if !ok {
		return Value{}, p.errorf("unexpected end of input")
	}
	switch {
	case c == '\'' || c == '"':
		return p.parseString()
	case c == '(':
		return p.parseTuple()
	case c == '{':
		return p.parseDict()
	case c == 'T' || c == 'F':
		return p.parseBool()
	case c == '+' || c == '-' || (c >= '0' && c <= '9'):
		return p.parseInt()
	default:
		return Value{}, p.errorf("unexpected character %q", c)
	}
}

func (p *parser) parseBool() (Value, error) {
	if strings.HasPrefix(p.src[p.pos:], "True") {
		p.pos += len("True")
		return Bool(true), nil
	}
	if strings.HasPrefix(p.src[p.pos:], "False") {
		p.pos += len("False")
		return Bool(false), nil
	}
	return Value{}, p.errorf("expected True or False")
}

func (p *parser) parseInt() (Value, error) {
	start := p.pos
	if c, ok := p.peek(); ok && (c == '+' || c == '-') {
		p.pos++
	}
	digits := 0
	for p.pos < len(p.src) && p.src[p.pos] >= '0' && p.src[p.pos] <= '9' {
		p.pos++
		digits++
	}
	if digits == 0 {
		return Value{}, p.errorf("expected digits")
	}
	i, err := strconv.ParseInt(p.src[start:p.pos], 10, 64)
	if err != nil {
		p.pos = start
		return Value{}, p.errorf("integer out of range: %s", p.src[start:])
	}
	return Int(i), nil
}

func (p *parser) parseString() (Value, error) {
	quote := p.src[p.pos]
	p.pos++
	var sb strings.Builder
	for {
		if p.pos >= len(p.src) {
			return Value{}, p.errorf("unterminated string")
		}
		c := p.src[p.pos]
		switch {
		case c == quote:
			p.pos++
			return String(sb.String()), nil
		case c == '\\':
			p.pos++
			if err := p.parseEscape(&sb); err != nil {
				return Value{}, err
			}
		case c < 0x80:
			sb.WriteByte(c)
			p.pos++
		default:
			r, size := utf8.DecodeRuneInString(p.src[p.pos:])
			if r == utf8.RuneError && size == 1 {
				return Value{}, p.errorf("invalid UTF-8 in string")
			}
			sb.WriteRune(r)
			p.pos += size
		}
	}
}

func (p *parser) parseEscape(sb *strings.Builder) error {
	if p.pos >= len(p.src) {
		return p.errorf("unterminated escape sequence")
	}
	c := p.src[p.pos]
	p.pos++
	switch c {
	case '\\', '\'', '"':
		sb.WriteByte(c)
	case 'n':
		sb.WriteByte('\n')
	case 't':
		sb.WriteByte('\t')
	case 'r':
		sb.WriteByte('\r')
	case '0':
		sb.WriteByte(0)
	case 'x':
		r, err := p.parseHex(2)
		if err != nil {
			return err
		}
		// \xHH is a byte escape in Python str literals but values below
		// 0x80 are all we ever emit; decode as a rune for symmetry.
		sb.WriteRune(r)
	case 'u':
		r, err := p.parseHex(4)
		if err != nil {
			return err
		}
		sb.WriteRune(r)
	case 'U':
		r, err := p.parseHex(8)
		if err != nil {
			return err
		}
		sb.WriteRune(r)
	default:
		return p.errorf("unsupported escape sequence \\%c", c)
	}
	return nil
}

func (p *parser) parseHex(n int) (rune, error) {
	if p.pos+n > len(p.src) {
		return 0, p.errorf("truncated hex escape")
	}
	v, err := strconv.ParseUint(p.src[p.pos:p.pos+n], 16, 32)
	if err != nil {
		return 0, p.errorf("invalid hex escape")
	}
	p.pos += n
	if v > utf8.MaxRune {
		return 0, p.errorf("escape out of range")
	}
	return rune(v), nil
}

func (p *parser) expect(c byte) error {
	got, ok := p.peek()
	if !ok {
		return p.errorf("unexpected end of input, expected %q", c)
	}
	if got != c {
		return p.errorf("expected %q, found %q", c, got)
	}
	p.pos++
	return nil
}

func (p *parser) parseTuple() (Value, error) {
	if err := p.expect('('); err != nil {
		return Value{}, err
	}
	var items []Value
	for {
		p.skipSpace()
		if c, ok := p.peek(); ok && c == ')' {
			p.pos++
			return Tuple(items...), nil
		}
		v, err := p.parseValue()
		if err != nil {
			return Value{}, err
		}
		items = append(items, v)
		p.skipSpace()
		c, ok := p.peek()
		if !ok {
			return Value{}, p.errorf("unterminated tuple")
		}
		switch c {
		case ',':
			p.pos++
		case ')':
			p.pos++
			return Tuple(items...), nil
		default:
			return Value{}, p.errorf("expected ',' or ')' in tuple, found %q", c)
		}
	}
}

func (p *parser) parseDict() (Value, error) {
	if err := p.expect('{'); err != nil {
		return Value{}, err
	}
	var entries []DictEntry
	for {
		p.skipSpace()
		if c, ok := p.peek(); ok && c == '}' {
			p.pos++
			return Dict(entries...), nil
		}
		key, err := p.parseValue()
		if err != nil {
			return Value{}, err
		}
		p.skipSpace()
		if err := p.expect(':'); err != nil {
			return Value{}, err
		}
		val, err := p.parseValue()
		if err != nil {
			return Value{}, err
		}
		entries = append(entries, DictEntry{Key: key, Value: val})
		p.skipSpace()
		c, ok := p.peek()
		if !ok {
			return Value{}, p.errorf("unterminated dict")
		}
		switch c {
		case ',':
			p.pos++
		case '}':
			p.pos++
			return Dict(entries...), nil
		default:
			return Value{}, p.errorf("expected ',' or '}' in dict, found %q", c)
		}
	}
}
