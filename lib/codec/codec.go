// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec serialises composed configuration values as CBOR for
// machine-facing consumers.
//
// Encoding uses Core Deterministic Encoding (RFC 8949 §4.2): sorted
// map keys, smallest integer encoding, no indefinite-length items.
// The same configuration tree always produces identical bytes, so
// consumers can fingerprint or cache composed configs by content.
//
// The CBOR data model is narrower than the value model: integer kinds
// canonicalise on decode (a uint32 value round-trips as the smallest
// signed kind that holds it), and map ordering follows the
// deterministic key order rather than insertion order.
package codec

import (
	"fmt"
	"math"

	"github.com/fxamacker/cbor/v2"

	"github.com/bureau-foundation/conval/lib/value"
)

// encMode is the CBOR encoder configured with Core Deterministic
// Encoding.
var encMode cbor.EncMode

// decMode is the CBOR decoder configured to accept standard CBOR with
// string map keys.
var decMode cbor.DecMode

func init() {
	var err error
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("codec: CBOR encoder initialization failed: " + err.Error())
	}
	decMode, err = cbor.DecOptions{}.DecMode()
	if err != nil {
		panic("codec: CBOR decoder initialization failed: " + err.Error())
	}
}

// Marshal encodes a value tree to deterministic CBOR.
func Marshal(v value.Value) ([]byte, error) {
	return encMode.Marshal(toAny(v))
}

// Unmarshal decodes CBOR data into a value tree.
func Unmarshal(data []byte) (value.Value, error) {
	var raw any
	if err := decMode.Unmarshal(data, &raw); err != nil {
		return value.Null(), err
	}
	return fromAny(raw)
}

func toAny(v value.Value) any {
	switch v.Kind() {
	case value.KindBool:
		return v.AsBool(false)
	case value.KindInt, value.KindInt64:
		return v.AsInt64(0)
	case value.KindUint, value.KindUint64:
		return v.AsUint64(0)
	case value.KindDouble:
		return v.AsDouble(0)
	case value.KindString:
		s, _ := v.StringValue()
		return s
	case value.KindArray:
		elts := v.Array().Elts()
		out := make([]any, len(elts))
		for i, elt := range elts {
			out[i] = toAny(elt)
		}
		return out
	case value.KindObject:
		out := make(map[string]any, v.NumMembers())
		for i := 0; i < v.NumMembers(); i++ {
			out[v.MemberName(i)] = toAny(v.MemberValue(i))
		}
		return out
	}
	return nil
}

func fromAny(raw any) (value.Value, error) {
	switch x := raw.(type) {
	case nil:
		return value.Null(), nil
	case bool:
		return value.Bool(x), nil
	case int64:
		if x >= math.MinInt32 && x <= math.MaxInt32 {
			return value.Int(int32(x)), nil
		}
		return value.Int64(x), nil
	case uint64:
		if x <= math.MaxInt32 {
			return value.Int(int32(x)), nil
		}
		if x <= math.MaxInt64 {
			return value.Int64(int64(x)), nil
		}
		return value.Uint64(x), nil
	case float64:
		return value.Double(x), nil
	case float32:
		return value.Double(float64(x)), nil
	case string:
		return value.String(x), nil
	case []any:
		elts := make([]value.Value, len(x))
		for i, elt := range x {
			ev, err := fromAny(elt)
			if err != nil {
				return value.Null(), err
			}
			elts[i] = ev
		}
		return value.NewArray(elts), nil
	case map[any]any:
		v := value.NewObject()
		obj := v.Object()
		for key, member := range x {
			name, ok := key.(string)
			if !ok {
				return value.Null(), fmt.Errorf("codec: non-string map key %T", key)
			}
			mv, err := fromAny(member)
			if err != nil {
				return value.Null(), err
			}
			obj.SetMember(name, mv)
		}
		return v, nil
	case map[string]any:
		v := value.NewObject()
		obj := v.Object()
		for name, member := range x {
			mv, err := fromAny(member)
			if err != nil {
				return value.Null(), err
			}
			obj.SetMember(name, mv)
		}
		return v, nil
	}
	return value.Null(), fmt.Errorf("codec: unsupported CBOR value %T", raw)
}
