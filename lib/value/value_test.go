// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package value

import (
	"math"
	"testing"
)

func TestNumericRoundtrip(t *testing.T) {
	ints := []int32{0, 1, -1, math.MaxInt32, math.MinInt32}
	for _, v := range ints {
		if got := Int(v).AsInt(99); got != v {
			t.Errorf("Int(%d).AsInt() = %d", v, got)
		}
	}

	uints := []uint32{0, 1, math.MaxUint32}
	for _, v := range uints {
		if got := Uint(v).AsUint(99); got != v {
			t.Errorf("Uint(%d).AsUint() = %d", v, got)
		}
	}

	int64s := []int64{0, math.MaxInt64, math.MinInt64}
	for _, v := range int64s {
		if got := Int64(v).AsInt64(99); got != v {
			t.Errorf("Int64(%d).AsInt64() = %d", v, got)
		}
	}

	doubles := []float64{0, 1.5, -2.25, math.Inf(1), math.Inf(-1), math.MaxFloat64}
	for _, v := range doubles {
		if got := Double(v).AsDouble(99); got != v {
			t.Errorf("Double(%v).AsDouble() = %v", v, got)
		}
	}

	nan := Double(math.NaN())
	if !nan.IsDouble() {
		t.Error("Double(NaN) is not a double")
	}
	if !math.IsNaN(nan.AsDouble(0)) {
		t.Error("Double(NaN).AsDouble() is not NaN")
	}
}

func TestSaturatingCoercions(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		want int32
	}{
		{"uint32 max to int", Uint(math.MaxUint32), math.MaxInt32},
		{"int64 max to int", Int64(math.MaxInt64), math.MaxInt32},
		{"int64 min to int", Int64(math.MinInt64), math.MinInt32},
		{"large double to int", Double(1e300), math.MaxInt32},
		{"negative double to int", Double(-1e300), math.MinInt32},
		{"plain double to int", Double(12.75), 12},
	}
	for _, test := range tests {
		if got := test.v.AsInt(0); got != test.want {
			t.Errorf("%s: got %d, want %d", test.name, got, test.want)
		}
	}

	if got := Int(-5).AsUint(99); got != 0 {
		t.Errorf("Int(-5).AsUint() = %d, want 0", got)
	}
	if got := Double(-0.5).AsUint64(99); got != 0 {
		t.Errorf("Double(-0.5).AsUint64() = %d, want 0", got)
	}
	if got := Uint64(math.MaxUint64).AsInt64(0); got != math.MaxInt64 {
		t.Errorf("Uint64(max).AsInt64() = %d, want MaxInt64", got)
	}
}

func TestConvertibleTo(t *testing.T) {
	// Spot checks straight from the conversion table.
	checks := []struct {
		v    Value
		kind Kind
		want bool
	}{
		{Bool(true), KindInt, true},
		{Bool(true), KindDouble, true},
		{Int(-1), KindUint, false},
		{Int(1), KindUint, true},
		{Uint(math.MaxUint32), KindInt, false},
		{Uint(math.MaxInt32), KindInt, true},
		{Int64(1 << 40), KindInt, false},
		{Int64(-1), KindUint64, false},
		{Uint64(math.MaxUint64), KindInt64, false},
		{Uint64(7), KindInt, true},
		{Double(2.5), KindDouble, true},
		{Double(1e300), KindInt64, false},
		{String("true"), KindBool, true},
		{String("x"), KindInt, false},
		{Null(), KindObject, true},
	}
	for _, check := range checks {
		if got := check.v.ConvertibleTo(check.kind); got != check.want {
			t.Errorf("ConvertibleTo(%v -> %v) = %v, want %v",
				check.v.Kind(), check.kind, got, check.want)
		}
	}
}

func TestAsBool(t *testing.T) {
	tests := []struct {
		v    Value
		want bool
	}{
		{Bool(true), true},
		{Int(0), false},
		{Int(3), true},
		{Double(0.0), false},
		{Double(0.1), true},
		{String("true"), true},
		{String("TRUE"), true},
		{String("yes"), false},
		{NewArray(nil), false},
		{NewArray([]Value{Int(1)}), true},
		{NewObject(), false},
	}
	for _, test := range tests {
		if got := test.v.AsBool(false); got != test.want {
			t.Errorf("AsBool(%v) = %v, want %v", test.v.Kind(), got, test.want)
		}
	}
}

func TestAsString(t *testing.T) {
	if got := String("hi").AsString("d"); got != "hi" {
		t.Errorf("AsString = %q", got)
	}
	if got := Bool(true).AsString("d"); got != "true" {
		t.Errorf("AsString(bool) = %q", got)
	}
	if got := Int(3).AsString("d"); got != "d" {
		t.Errorf("AsString(int) = %q, want default", got)
	}
}

func TestObjectCloneIsolation(t *testing.T) {
	u := NewObject()
	u.SetMember("a", Int(1))
	u.SetMember("nested", NewObject())
	u.UpdateMember("nested").SetMember("x", String("deep"))

	baseMod := u.Object().ModCount()

	v := u.Clone()
	v.SetMember("a", Int(2))
	v.UpdateMember("nested").SetMember("x", String("changed"))

	if got := u.Member("a").AsInt(0); got != 1 {
		t.Errorf("mutating clone changed original: a = %d", got)
	}
	if got := u.Member("nested").Member("x").AsString(""); got != "deep" {
		t.Errorf("mutating clone changed nested original: x = %q", got)
	}
	if u.Object().ModCount() != baseMod {
		t.Errorf("original modCount moved from %d to %d", baseMod, u.Object().ModCount())
	}
	if v.Object().ModCount() == baseMod {
		t.Error("clone modCount did not advance on mutation")
	}
}

func TestModCountAdvances(t *testing.T) {
	v := NewObject()
	obj := v.Object()

	before := obj.ModCount()
	obj.SetMember("k", Int(1))
	if obj.ModCount() == before {
		t.Error("SetMember did not advance modCount")
	}

	before = obj.ModCount()
	obj.RemoveMember("k")
	if obj.ModCount() == before {
		t.Error("RemoveMember did not advance modCount")
	}

	before = obj.ModCount()
	if obj.RemoveMember("missing") {
		t.Error("RemoveMember reported success for a missing key")
	}
	if obj.ModCount() != before {
		t.Error("failed RemoveMember advanced modCount")
	}
}

func TestMergeSemantics(t *testing.T) {
	a := NewObject()
	a.SetMember("keep", Int(1))
	a.SetMember("replace", String("old"))
	a.SetMember("remove", Int(9))
	nested := NewObject()
	nested.SetMember("x", Int(1))
	nested.SetMember("y", Int(2))
	a.SetMember("nested", nested)

	b := NewObject()
	b.SetMember("replace", String("new"))
	b.SetMember("remove", Null())
	b.SetMember("added", Bool(true))
	bNested := NewObject()
	bNested.SetMember("y", Int(20))
	b.SetMember("nested", bNested)

	a.Merge(b)

	if got := a.Member("keep").AsInt(0); got != 1 {
		t.Errorf("keep = %d, want 1", got)
	}
	if got := a.Member("replace").AsString(""); got != "new" {
		t.Errorf("replace = %q, want new", got)
	}
	if a.HasMember("remove") {
		t.Error("null override did not remove the key")
	}
	if got := a.Member("added").AsBool(false); !got {
		t.Error("added key missing after merge")
	}
	if got := a.Member("nested").Member("x").AsInt(0); got != 1 {
		t.Errorf("nested.x = %d, want 1 (recursive merge lost sibling)", got)
	}
	if got := a.Member("nested").Member("y").AsInt(0); got != 20 {
		t.Errorf("nested.y = %d, want 20", got)
	}
}

func TestMergeNonObjectReplaces(t *testing.T) {
	v := Int(5)
	v.Merge(String("s"))
	if got := v.AsString(""); got != "s" {
		t.Errorf("merge of non-objects did not replace: %v", v.Kind())
	}

	v = Int(5)
	v.Merge(Null())
	if !v.IsInt() || v.AsInt(0) != 5 {
		t.Error("merge of null was not a no-op")
	}
}

func TestCompareTotalOrder(t *testing.T) {
	if Int(0).Equal(Double(0)) {
		t.Error("int 0 must not equal double 0")
	}
	if Int(0).Compare(Double(0)) == 0 {
		t.Error("Compare(int 0, double 0) must not be 0")
	}

	ordered := []Value{
		Null(),
		Bool(false),
		Bool(true),
		Int(-3),
		Int(7),
	}
	for i := 0; i < len(ordered)-1; i++ {
		if ordered[i].Compare(ordered[i+1]) >= 0 {
			t.Errorf("ordering violated between index %d and %d", i, i+1)
		}
	}

	a := NewArray([]Value{Int(1), Int(2)})
	b := NewArray([]Value{Int(1), Int(3)})
	if a.Compare(b) >= 0 {
		t.Error("array compare is not elementwise")
	}
	shorter := NewArray([]Value{Int(9)})
	if shorter.Compare(a) >= 0 {
		t.Error("shorter array must order first")
	}

	o1 := NewObject()
	o1.SetMember("a", Int(1))
	o2 := NewObject()
	o2.SetMember("a", Int(1))
	if o1.Compare(o2) != 0 || !o1.Equal(o2) {
		t.Error("equal objects compare unequal")
	}
	o2.SetMember("a", Int(2))
	if o1.Compare(o2) >= 0 {
		t.Error("object value comparison lost")
	}
}

func TestEltClamping(t *testing.T) {
	arr := NewArray([]Value{Int(10), Int(20)})
	if got := arr.Elt(1).AsInt(0); got != 20 {
		t.Errorf("Elt(1) = %d", got)
	}
	if !arr.Elt(5).IsNull() {
		t.Error("out-of-range Elt is not null")
	}
	if !arr.Elt(-1).IsNull() {
		t.Error("negative Elt is not null")
	}
	if !Int(3).Elt(0).IsNull() {
		t.Error("Elt on non-array is not null")
	}
}

func TestUpdateMemberAutoConvert(t *testing.T) {
	var v Value
	v.UpdateMember("a").UpdateMember("b")
	if !v.IsObject() || !v.Member("a").IsObject() {
		t.Error("UpdateMember did not auto-convert null to object")
	}

	// Wrong-kind update is silently dropped.
	i := Int(3)
	*i.UpdateMember("x") = Int(9)
	if !i.IsInt() || i.AsInt(0) != 3 {
		t.Error("UpdateMember on int corrupted the value")
	}
}

func TestMemberPath(t *testing.T) {
	root := NewObject()
	root.UpdateMember("a").SetMember("b", NewArray([]Value{
		Int(0),
		func() Value {
			o := NewObject()
			o.SetMember("c", String("found"))
			return o
		}(),
	}))

	if got := MemberPath(root, "a.b[1].c").AsString(""); got != "found" {
		t.Errorf("MemberPath(a.b[1].c) = %q", got)
	}
	if !MemberPath(root, "a.b[7].c").IsNull() {
		t.Error("out-of-range index did not yield null")
	}
	if !MemberPath(root, "a.missing.c").IsNull() {
		t.Error("missing segment did not yield null")
	}

	*UpdateMemberPath(&root, "x.y.z") = Int(42)
	if got := MemberPath(root, "x.y.z").AsInt(0); got != 42 {
		t.Errorf("UpdateMemberPath did not create intermediates: %d", got)
	}

	// Array holes are not created.
	*UpdateMemberPath(&root, "a.b[9]") = Int(1)
	if got := root.Member("a").Member("b").NumElts(); got != 2 {
		t.Errorf("UpdateMemberPath grew an array: %d elements", got)
	}
}

func TestSwapObjectsAdvancesModCounts(t *testing.T) {
	a := NewObject()
	a.SetMember("x", Int(1))
	b := NewObject()
	b.SetMember("y", Int(2))

	am, bm := a.Object().ModCount(), b.Object().ModCount()
	a.Swap(&b)

	if !a.HasMember("y") || !b.HasMember("x") {
		t.Error("swap did not exchange contents")
	}
	if a.Object().ModCount() == am || b.Object().ModCount() == bm {
		t.Error("object swap did not advance both modCounts")
	}
}

func TestAsID(t *testing.T) {
	id := IDFromString("Colour")
	if id != IDFromString("colour") {
		t.Error("IDFromString is not case-insensitive")
	}
	if id&0x80000000 == 0 {
		t.Error("string ID high bit not set")
	}
	if got := String("Colour").AsID(0); got != id {
		t.Errorf("AsID(string) = %#x, want %#x", got, id)
	}
	if got := Int(-3).AsID(7); got != 0 {
		t.Errorf("AsID(negative int) = %d, want 0", got)
	}
	if got := Uint64(math.MaxUint64).AsID(0); got != math.MaxUint32 {
		t.Errorf("AsID(uint64 max) = %#x, want saturation", got)
	}
	if got := Null().AsID(1234); got != 1234 {
		t.Errorf("AsID(null) = %d, want default", got)
	}
}

func TestKindNames(t *testing.T) {
	names := map[Kind]string{
		KindNull: "null", KindBool: "bool", KindInt: "int", KindUint: "uint",
		KindInt64: "int64", KindUint64: "uint64", KindDouble: "double",
		KindString: "string", KindArray: "array", KindObject: "object",
	}
	for kind, want := range names {
		if got := kind.String(); got != want {
			t.Errorf("Kind(%d).String() = %q, want %q", kind, got, want)
		}
	}
}
