// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package json

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/bureau-foundation/conval/lib/value"
)

// InfNaN selects how floating point specials are emitted.
type InfNaN uint8

const (
	InfNaNC    InfNaN = iota // inf / nan, as C's printf renders them
	InfNaNJS                 // Infinity / NaN, as JavaScript accepts
	InfNaNNull               // a null value
)

// Format controls JSON output.
type Format struct {
	// Indent is the per-level indent width. -1 renders a single line
	// with spaces, -2 a single line with spaces removed.
	Indent int
	// QuoteKeys quotes every object key; when false, keys that are
	// valid identifiers are left bare.
	QuoteKeys bool
	// ArrayMargin is the right margin for array wrapping; 0 puts each
	// element on its own line.
	ArrayMargin int
	// MaxPrecision bounds the digits used for reals.
	MaxPrecision int
	// TrimZeroes removes trailing zeroes from reals.
	TrimZeroes bool
	// InfNaN selects the float specials rendering.
	InfNaN InfNaN
}

// DefaultFormat is json5-compatible output with bare keys.
var DefaultFormat = Format{Indent: 2, QuoteKeys: false, ArrayMargin: 74, MaxPrecision: 6, TrimZeroes: true, InfNaN: InfNaNJS}

// StrictFormat can be read back by a strict JSON parser.
var StrictFormat = Format{Indent: 2, QuoteKeys: true, ArrayMargin: 0, MaxPrecision: 6, TrimZeroes: true, InfNaN: InfNaNNull}

// ConfigFormat is the style used when saving composed configurations.
var ConfigFormat = Format{Indent: 4, QuoteKeys: false, ArrayMargin: 74, MaxPrecision: 6, TrimZeroes: true, InfNaN: InfNaNC}

// AsJson renders a value tree as JSON text. indent overrides the
// format's indent field; pass format.Indent to keep it.
func AsJson(v value.Value, indent int, format Format) string {
	format.Indent = indent
	w := &writer{format: format}
	w.writeValue(v, 0)
	return w.sb.String()
}

type writer struct {
	sb     strings.Builder
	format Format
}

func (w *writer) writeValue(v value.Value, level int) {
	switch v.Kind() {
	case value.KindNull:
		w.sb.WriteString("null")
	case value.KindBool:
		w.sb.WriteString(v.AsString(""))
	case value.KindInt, value.KindInt64:
		w.sb.WriteString(strconv.FormatInt(v.AsInt64(0), 10))
	case value.KindUint, value.KindUint64:
		w.sb.WriteString(strconv.FormatUint(v.AsUint64(0), 10))
	case value.KindDouble:
		w.sb.WriteString(w.formatDouble(v.AsDouble(0)))
	case value.KindString:
		s, _ := v.StringValue()
		w.sb.WriteString(quoteString(s))
	case value.KindArray:
		w.writeArray(v, level)
	case value.KindObject:
		w.writeObject(v, level)
	}
}

func (w *writer) writeObject(v value.Value, level int) {
	n := v.NumMembers()
	if n == 0 {
		w.sb.WriteString("{}")
		return
	}

	w.open('{')
	for i := 0; i < n; i++ {
		w.entrySeparator(i, level+1)

		name := v.MemberName(i)
		if w.format.QuoteKeys || !isToken(name) {
			w.sb.WriteString(quoteString(name))
		} else {
			w.sb.WriteString(name)
		}
		if w.format.Indent < -1 {
			w.sb.WriteByte(':')
		} else {
			w.sb.WriteString(": ")
		}
		w.writeValue(v.MemberValue(i), level+1)
	}
	w.close('}', level)
}

func (w *writer) writeArray(v value.Value, level int) {
	n := v.NumElts()
	if n == 0 {
		w.sb.WriteString("[]")
		return
	}

	if w.format.Indent >= 0 && w.isMultiLineArray(v) {
		w.open('[')
		for i := 0; i < n; i++ {
			w.entrySeparator(i, level+1)
			w.writeValue(v.Elt(i), level+1)
		}
		w.close(']', level)
		return
	}

	w.sb.WriteByte('[')
	for i := 0; i < n; i++ {
		if i > 0 {
			if w.format.Indent < -1 {
				w.sb.WriteByte(',')
			} else {
				w.sb.WriteString(", ")
			}
		}
		w.writeValue(v.Elt(i), level)
	}
	w.sb.WriteByte(']')
}

// isMultiLineArray decides whether an array wraps: always when the
// margin is disabled, when any element is a non-empty container, or
// when the single-line rendering would run past the margin.
func (w *writer) isMultiLineArray(v value.Value) bool {
	if w.format.ArrayMargin == 0 {
		return true
	}
	n := v.NumElts()
	if n*3 >= w.format.ArrayMargin {
		return true
	}
	for i := 0; i < n; i++ {
		elt := v.Elt(i)
		if (elt.IsArray() || elt.IsObject()) && !elt.Empty() {
			return true
		}
	}

	lineLength := 2 + (n-1)*2
	for i := 0; i < n; i++ {
		sub := &writer{format: w.format}
		sub.format.Indent = -1
		sub.writeValue(v.Elt(i), 0)
		lineLength += sub.sb.Len()
	}
	return lineLength >= w.format.ArrayMargin
}

func (w *writer) open(c byte) {
	w.sb.WriteByte(c)
}

// entrySeparator writes the separator and indentation before the i'th
// entry of a container.
func (w *writer) entrySeparator(i, level int) {
	if i > 0 {
		w.sb.WriteByte(',')
	}
	switch {
	case w.format.Indent >= 0:
		w.sb.WriteByte('\n')
		w.writeIndent(level)
	case w.format.Indent == -1:
		w.sb.WriteByte(' ')
	}
}

func (w *writer) close(c byte, level int) {
	switch {
	case w.format.Indent >= 0:
		w.sb.WriteByte('\n')
		w.writeIndent(level)
	case w.format.Indent == -1:
		w.sb.WriteByte(' ')
	}
	w.sb.WriteByte(c)
}

func (w *writer) writeIndent(level int) {
	for i := 0; i < level*w.format.Indent; i++ {
		w.sb.WriteByte(' ')
	}
}

func (w *writer) formatDouble(f float64) string {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		switch w.format.InfNaN {
		case InfNaNJS:
			if math.IsNaN(f) {
				return "NaN"
			}
			if f < 0 {
				return "-Infinity"
			}
			return "Infinity"
		case InfNaNNull:
			return "null"
		default:
			if math.IsNaN(f) {
				return "nan"
			}
			if f < 0 {
				return "-inf"
			}
			return "inf"
		}
	}

	prec := w.format.MaxPrecision
	if prec <= 0 {
		prec = 6
	}
	s := fmt.Sprintf("%#.*g", prec, f)
	if !w.format.TrimZeroes {
		return s
	}

	dot := strings.IndexByte(s, '.')
	if dot < 0 {
		return s
	}
	// Leave exponent suffixes alone.
	if strings.ContainsAny(s, "eE") {
		return s
	}
	end := len(s)
	for end > dot+1 && s[end-1] == '0' {
		end--
	}
	if end == dot+1 {
		end = dot
	}
	return s[:end]
}

// quoteString renders a quoted JSON string with the standard escapes.
func quoteString(s string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\b':
			sb.WriteString(`\b`)
		case '\f':
			sb.WriteString(`\f`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			if c < 0x20 {
				fmt.Fprintf(&sb, `\u%04x`, c)
			} else {
				sb.WriteByte(c)
			}
		}
	}
	sb.WriteByte('"')
	return sb.String()
}

// isToken reports whether a key can be written bare: an identifier as
// JavaScript would accept it.
func isToken(s string) bool {
	if s == "" {
		return false
	}
	if !isTokenStart(s[0]) {
		return false
	}
	for i := 1; i < len(s); i++ {
		if !isTokenChar(s[i]) {
			return false
		}
	}
	return true
}
