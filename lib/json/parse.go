// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package json

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/tidwall/jsonc"

	"github.com/bureau-foundation/conval/lib/stringtable"
	"github.com/bureau-foundation/conval/lib/value"
)

// Options carries optional collaborators and the strictness flag for a
// load.
type Options struct {
	// Strict disables comments, trailing commas, bare keys, and the
	// float specials.
	Strict bool
	// Strings, when non-nil, interns object keys and string values.
	Strings *stringtable.Table
}

// LoadText parses JSON text into a value tree.
func LoadText(text []byte, opts *Options) (value.Value, error) {
	p := &parser{opts: opts}
	if opts == nil {
		p.opts = &Options{}
	}
	if !p.opts.Strict {
		// Comments and trailing commas are stripped up front; the
		// replacement preserves offsets for error positions.
		text = jsonc.ToJSONInPlace(append([]byte(nil), text...))
	}
	p.src = text

	p.skipSpace()
	v, err := p.parseValue(0)
	if err != nil {
		return value.Null(), err
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return value.Null(), p.errorf("unexpected trailing characters")
	}
	return v, nil
}

// LoadFile parses the JSON file at path into a value tree.
func LoadFile(path string, opts *Options) (value.Value, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return value.Null(), fmt.Errorf("couldn't read %s: %w", path, err)
	}
	v, lerr := LoadText(data, opts)
	if lerr != nil {
		return value.Null(), fmt.Errorf("%s: %w", path, lerr)
	}
	return v, nil
}

const maxDepth = 200

type parser struct {
	src  []byte
	pos  int
	opts *Options
}

func (p *parser) errorf(format string, args ...any) error {
	line, col := 1, 1
	for i := 0; i < p.pos && i < len(p.src); i++ {
		if p.src[i] == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return fmt.Errorf("%s in line %d, col %d", fmt.Sprintf(format, args...), line, col)
}

func (p *parser) intern(s string) string {
	if p.opts.Strings != nil {
		return p.opts.Strings.Get(s)
	}
	return s
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

func (p *parser) peek() byte {
	if p.pos < len(p.src) {
		return p.src[p.pos]
	}
	return 0
}

func (p *parser) parseValue(depth int) (value.Value, error) {
	if depth > maxDepth {
		return value.Null(), p.errorf("value nesting is too deep")
	}
	switch c := p.peek(); {
	case c == '{':
		return p.parseObject(depth)
	case c == '[':
		return p.parseArray(depth)
	case c == '"':
		s, err := p.parseString()
		if err != nil {
			return value.Null(), err
		}
		return value.String(p.intern(s)), nil
	case c == '-' || c == '+' || c >= '0' && c <= '9' || c == '.':
		return p.parseNumber()
	default:
		return p.parseLiteral()
	}
}

func (p *parser) parseObject(depth int) (value.Value, error) {
	p.pos++ // '{'
	v := value.NewObject()
	obj := v.Object()

	p.skipSpace()
	if p.peek() == '}' {
		p.pos++
		return v, nil
	}

	for {
		p.skipSpace()
		var key string
		var err error
		switch {
		case p.peek() == '"':
			key, err = p.parseString()
		case !p.opts.Strict && isTokenStart(p.peek()):
			key = p.parseBareKey()
		default:
			err = p.errorf("expected object key")
		}
		if err != nil {
			return value.Null(), err
		}

		p.skipSpace()
		if p.peek() != ':' {
			return value.Null(), p.errorf("expected ':' after object key")
		}
		p.pos++
		p.skipSpace()

		member, err := p.parseValue(depth + 1)
		if err != nil {
			return value.Null(), err
		}
		obj.SetMember(p.intern(key), member)

		p.skipSpace()
		switch p.peek() {
		case ',':
			p.pos++
		case '}':
			p.pos++
			return v, nil
		default:
			return value.Null(), p.errorf("expected ',' or '}' in object")
		}
	}
}

func (p *parser) parseArray(depth int) (value.Value, error) {
	p.pos++ // '['
	var elts []value.Value

	p.skipSpace()
	if p.peek() == ']' {
		p.pos++
		return value.NewArray(nil), nil
	}

	for {
		p.skipSpace()
		elt, err := p.parseValue(depth + 1)
		if err != nil {
			return value.Null(), err
		}
		elts = append(elts, elt)

		p.skipSpace()
		switch p.peek() {
		case ',':
			p.pos++
		case ']':
			p.pos++
			return value.NewArray(elts), nil
		default:
			return value.Null(), p.errorf("expected ',' or ']' in array")
		}
	}
}

func (p *parser) parseString() (string, error) {
	p.pos++ // '"'
	var sb strings.Builder
	for {
		if p.pos >= len(p.src) {
			return "", p.errorf("unterminated string")
		}
		c := p.src[p.pos]
		switch {
		case c == '"':
			p.pos++
			return sb.String(), nil
		case c == '\\':
			p.pos++
			if p.pos >= len(p.src) {
				return "", p.errorf("unterminated string escape")
			}
			switch e := p.src[p.pos]; e {
			case '"', '\\', '/':
				sb.WriteByte(e)
				p.pos++
			case 'b':
				sb.WriteByte('\b')
				p.pos++
			case 'f':
				sb.WriteByte('\f')
				p.pos++
			case 'n':
				sb.WriteByte('\n')
				p.pos++
			case 'r':
				sb.WriteByte('\r')
				p.pos++
			case 't':
				sb.WriteByte('\t')
				p.pos++
			case 'u':
				if p.pos+5 > len(p.src) {
					return "", p.errorf("truncated \\u escape")
				}
				n, err := strconv.ParseUint(string(p.src[p.pos+1:p.pos+5]), 16, 32)
				if err != nil {
					return "", p.errorf("invalid \\u escape")
				}
				r := rune(n)
				p.pos += 5
				// A high surrogate pairs with a following \u escape.
				if r >= 0xD800 && r <= 0xDBFF && p.pos+6 <= len(p.src) &&
					p.src[p.pos] == '\\' && p.src[p.pos+1] == 'u' {
					n2, err := strconv.ParseUint(string(p.src[p.pos+2:p.pos+6]), 16, 32)
					if err == nil && n2 >= 0xDC00 && n2 <= 0xDFFF {
						r = 0x10000 + (r-0xD800)<<10 + (rune(n2) - 0xDC00)
						p.pos += 6
					}
				}
				sb.WriteRune(r)
			default:
				return "", p.errorf("unknown string escape '\\%c'", e)
			}
		case c < 0x20:
			return "", p.errorf("control character in string")
		default:
			p.pos++
			sb.WriteByte(c)
		}
	}
}

func (p *parser) parseBareKey() string {
	start := p.pos
	for p.pos < len(p.src) && isTokenChar(p.src[p.pos]) {
		p.pos++
	}
	return string(p.src[start:p.pos])
}

func (p *parser) parseNumber() (value.Value, error) {
	start := p.pos
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if c >= '0' && c <= '9' || c == '+' || c == '-' || c == '.' ||
			c == 'e' || c == 'E' || c == 'x' || c == 'X' ||
			c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F' {
			p.pos++
			continue
		}
		break
	}
	text := string(p.src[start:p.pos])

	// Signed float specials: the digits loop stops at the first
	// letter, so pick up the rest of the word here.
	if !p.opts.Strict && (text == "-" || text == "+") {
		word := start
		for p.pos < len(p.src) && isTokenChar(p.src[p.pos]) {
			p.pos++
		}
		switch string(p.src[word:p.pos]) {
		case "-Infinity", "-inf":
			return value.Double(math.Inf(-1)), nil
		case "+Infinity", "+inf":
			return value.Double(math.Inf(1)), nil
		}
		return value.Null(), p.errorf("invalid number '%s'", string(p.src[word:p.pos]))
	}

	if !strings.ContainsAny(text, ".eE") || strings.HasPrefix(text, "0x") || strings.HasPrefix(text, "0X") {
		if i, err := strconv.ParseInt(text, 0, 64); err == nil {
			if i >= math.MinInt32 && i <= math.MaxInt32 {
				return value.Int(int32(i)), nil
			}
			return value.Int64(i), nil
		}
		if u, err := strconv.ParseUint(text, 0, 64); err == nil {
			return value.Uint64(u), nil
		}
	}
	if f, err := strconv.ParseFloat(text, 64); err == nil {
		return value.Double(f), nil
	}
	return value.Null(), p.errorf("invalid number '%s'", text)
}

func (p *parser) parseLiteral() (value.Value, error) {
	start := p.pos
	for p.pos < len(p.src) && isTokenChar(p.src[p.pos]) {
		p.pos++
	}
	lit := string(p.src[start:p.pos])
	switch lit {
	case "null":
		return value.Null(), nil
	case "true":
		return value.Bool(true), nil
	case "false":
		return value.Bool(false), nil
	}
	if !p.opts.Strict {
		switch lit {
		case "Infinity", "inf":
			return value.Double(math.Inf(1)), nil
		case "NaN", "nan":
			return value.Double(math.NaN()), nil
		}
	}
	if lit == "" {
		if p.pos >= len(p.src) {
			return value.Null(), p.errorf("unexpected end of input")
		}
		return value.Null(), p.errorf("unexpected character '%c'", p.peek())
	}
	return value.Null(), p.errorf("unknown literal '%s'", lit)
}

// isTokenStart and isTokenChar define the bare-key character class:
// an identifier as JavaScript would accept it.
func isTokenStart(c byte) bool {
	return c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z' || c == '_' || c == '$' || c >= utf8.RuneSelf
}

func isTokenChar(c byte) bool {
	return isTokenStart(c) || c >= '0' && c <= '9'
}
