// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"bytes"
	"math"
	"testing"

	"github.com/bureau-foundation/conval/lib/value"
)

func buildConfig() value.Value {
	v := value.NewObject()
	v.SetMember("name", value.String("model"))
	v.SetMember("count", value.Int(3))
	v.SetMember("scale", value.Double(1.5))
	v.SetMember("big", value.Uint64(math.MaxUint64))
	v.SetMember("flags", value.NewArray([]value.Value{
		value.Bool(true), value.Null(), value.Int(-7),
	}))
	nested := value.NewObject()
	nested.SetMember("leaf", value.String("x"))
	v.SetMember("nested", nested)
	return v
}

func TestRoundTrip(t *testing.T) {
	v := buildConfig()

	data, err := Marshal(v)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	back, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	// Integer kinds canonicalise, so compare member by member using
	// coercions rather than exact kinds.
	if got := back.Member("name").AsString(""); got != "model" {
		t.Errorf("name = %q", got)
	}
	if got := back.Member("count").AsInt(0); got != 3 {
		t.Errorf("count = %d", got)
	}
	if got := back.Member("scale").AsDouble(0); got != 1.5 {
		t.Errorf("scale = %v", got)
	}
	if got := back.Member("big").AsUint64(0); got != math.MaxUint64 {
		t.Errorf("big = %d", got)
	}
	flags := back.Member("flags")
	if !flags.Elt(0).AsBool(false) || !flags.Elt(1).IsNull() || flags.Elt(2).AsInt(0) != -7 {
		t.Error("flags array malformed")
	}
	if got := back.Member("nested").Member("leaf").AsString(""); got != "x" {
		t.Errorf("nested.leaf = %q", got)
	}
}

func TestDeterministicEncoding(t *testing.T) {
	// The same logical tree always produces identical bytes, even
	// when built in a different member order.
	a := value.NewObject()
	a.SetMember("one", value.Int(1))
	a.SetMember("two", value.Int(2))

	b := value.NewObject()
	b.SetMember("two", value.Int(2))
	b.SetMember("one", value.Int(1))

	encA, err := Marshal(a)
	if err != nil {
		t.Fatal(err)
	}
	encB, err := Marshal(b)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(encA, encB) {
		t.Error("encoding is not deterministic across insertion orders")
	}
}

func TestScalarRoundTrips(t *testing.T) {
	samples := []value.Value{
		value.Null(),
		value.Bool(true),
		value.Int(-42),
		value.Int64(1 << 40),
		value.Double(3.25),
		value.String("text"),
	}
	for _, v := range samples {
		data, err := Marshal(v)
		if err != nil {
			t.Fatalf("Marshal(%v): %v", v.Kind(), err)
		}
		back, err := Unmarshal(data)
		if err != nil {
			t.Fatalf("Unmarshal(%v): %v", v.Kind(), err)
		}
		if back.Compare(v) != 0 {
			t.Errorf("%v round-tripped to %v", v.Kind(), back.Kind())
		}
	}
}
