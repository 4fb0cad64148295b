// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package yaml

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/bureau-foundation/conval/lib/stringtable"
	"github.com/bureau-foundation/conval/lib/value"
)

// LoadOptions carries optional collaborators for a load.
type LoadOptions struct {
	// Strings, when non-nil, interns mapping keys and string scalars.
	Strings *stringtable.Table
}

// LoadText parses a YAML document from text into a value tree.
func LoadText(text []byte, opts *LoadOptions) (value.Value, error) {
	return Load(bytes.NewReader(text), opts)
}

// Load parses a YAML document from r into a value tree.
func Load(r io.Reader, opts *LoadOptions) (value.Value, error) {
	d := &decoder{parser: NewParser(r), anchors: map[string]value.Value{}}
	if opts != nil {
		d.strings = opts.Strings
	}
	var v value.Value
	if d.parseValue(&v) == resultError {
		if err := d.err(); err != nil {
			return value.Null(), err
		}
		return value.Null(), &Error{Kind: ErrParser, Problem: "unexpected end of stream", Value: -1}
	}
	return v, nil
}

// LoadFile parses the YAML file at path into a value tree.
func LoadFile(path string, opts *LoadOptions) (value.Value, error) {
	f, err := os.Open(path)
	if err != nil {
		return value.Null(), fmt.Errorf("couldn't read %s: %w", path, err)
	}
	defer f.Close()
	v, lerr := Load(f, opts)
	if lerr != nil {
		return value.Null(), fmt.Errorf("%s: %w", path, lerr)
	}
	return v, nil
}

type parseResult int8

const (
	resultOK parseResult = iota
	resultEnd
	resultError
)

// decoder binds the parser's event stream to value trees, resolving
// anchors and merge keys along the way.
type decoder struct {
	parser  *Parser
	strings *stringtable.Table
	anchors map[string]value.Value
	binderr *Error
}

func (d *decoder) err() error {
	if d.binderr != nil {
		return d.binderr
	}
	if e := d.parser.Err(); e != nil {
		return e
	}
	return nil
}

func (d *decoder) fail(format string, args ...any) parseResult {
	d.binderr = &Error{
		Kind:        ErrBinder,
		Problem:     fmt.Sprintf(format, args...),
		ProblemMark: d.parser.Mark(),
		Value:       -1,
	}
	return resultError
}

func (d *decoder) intern(s string) string {
	if d.strings != nil {
		return d.strings.Get(s)
	}
	return s
}

// parseValue consumes events until one value is complete. Stream and
// document framing events are skipped; a collection end yields
// resultEnd so that the enclosing collection parser can stop.
func (d *decoder) parseValue(v *value.Value) parseResult {
	for {
		var e event
		if !d.parser.Parse(&e) {
			if d.parser.Err() != nil {
				return resultError
			}
			return resultOK
		}

		switch e.typ {
		case eventNone, eventStreamStart, eventDocumentStart:
			continue

		case eventStreamEnd, eventDocumentEnd:
			return resultOK

		case eventSequenceStart:
			var elts []value.Value
			if r := d.parseSequence(&elts); r == resultError {
				return r
			}
			*v = value.NewArray(elts)
			if len(e.anchor) > 0 {
				d.anchors[string(e.anchor)] = v.Clone()
			}
			return resultOK

		case eventMappingStart:
			obj := v.MakeObject()
			if r := d.parseMapping(obj); r == resultError {
				return r
			}
			if len(e.anchor) > 0 {
				d.anchors[string(e.anchor)] = v.Clone()
			}
			return resultOK

		case eventSequenceEnd, eventMappingEnd:
			return resultEnd

		case eventAlias:
			anchored, ok := d.anchors[string(e.anchor)]
			if !ok {
				return d.fail("unknown anchor '%s'", e.anchor)
			}
			*v = anchored.Clone()
			return resultOK

		case eventScalar:
			*v = d.bindScalar(&e)
			if len(e.anchor) > 0 {
				d.anchors[string(e.anchor)] = v.Clone()
			}
			return resultOK
		}
	}
}

func (d *decoder) parseSequence(elts *[]value.Value) parseResult {
	for {
		var item value.Value
		switch d.parseValue(&item) {
		case resultEnd:
			return resultOK
		case resultError:
			return resultError
		}
		*elts = append(*elts, item)
	}
}

func (d *decoder) parseMapping(obj *value.Object) parseResult {
	for {
		var e event
		if !d.parser.Parse(&e) {
			return resultError
		}

		switch e.typ {
		case eventMappingEnd:
			return resultOK

		case eventScalar:
			key := string(e.value)
			if key == "<<" {
				var mergeValue value.Value
				if r := d.parseValue(&mergeValue); r != resultOK {
					return resultError
				}
				if r := d.mergeInto(obj, mergeValue); r != resultOK {
					return r
				}
				continue
			}
			member := obj.UpdateMember(d.intern(key))
			if r := d.parseValue(member); r != resultOK {
				return resultError
			}

		default:
			return d.fail("expecting scalar value for key")
		}
	}
}

// mergeInto applies "<<" merge-key semantics: the source must be a
// mapping or a sequence of mappings (the [*a, *b] idiom), and keys
// already present in the target win over merged defaults.
func (d *decoder) mergeInto(obj *value.Object, src value.Value) parseResult {
	mergeOne := func(from value.Value) bool {
		o := from.Object()
		if o == nil {
			return false
		}
		for i := 0; i < o.NumMembers(); i++ {
			key := o.MemberName(i)
			if !obj.HasMember(key) {
				obj.SetMember(d.intern(key), *o.MemberValue(i))
			}
		}
		return true
	}

	switch {
	case src.IsObject():
		mergeOne(src)
	case src.IsArray():
		for _, elt := range src.Array().Elts() {
			if !mergeOne(elt) {
				return d.fail("can't merge non-mapping")
			}
		}
	default:
		return d.fail("can't merge non-mapping")
	}
	return resultOK
}

// bindScalar classifies a scalar event into a typed value. Only plain
// scalars are classified; any quoted or block style is a string.
func (d *decoder) bindScalar(e *event) value.Value {
	text := string(e.value)

	if e.style == StylePlain {
		switch {
		case text == "" || strings.EqualFold(text, "null") || text == "~":
			return value.Null()
		case strings.EqualFold(text, "true"):
			return value.Bool(true)
		case strings.EqualFold(text, "false"):
			return value.Bool(false)
		case text == "-.inf":
			return value.Double(math.Inf(-1))
		case text == ".inf":
			return value.Double(math.Inf(1))
		case text == ".nan":
			return value.Double(math.NaN())
		}

		// Digit separators are stripped, and the 0o octal prefix is
		// rewritten to a bare leading zero before base detection.
		num := strings.ReplaceAll(text, "_", "")
		if strings.HasPrefix(num, "0o") {
			num = "0" + num[2:]
		}

		if i, err := strconv.ParseInt(num, 0, 64); err == nil {
			if i >= math.MinInt32 && i <= math.MaxInt32 {
				return value.Int(int32(i))
			}
			return value.Int64(i)
		}
		if f, err := strconv.ParseFloat(num, 64); err == nil {
			return value.Double(f)
		}
	}

	return value.String(d.intern(text))
}
