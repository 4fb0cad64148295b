// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package value

import "strconv"

// MemberPath resolves a dotted path with optional bracketed array
// indices, e.g. "a.b[2].c". Any missing segment, wrong-kind access, or
// out-of-range index yields null.
func MemberPath(v Value, path string) Value {
	for _, seg := range splitPath(path) {
		v = pathField(v, seg)
	}
	return v
}

// UpdateMemberPath resolves the path for writing, creating
// intermediate objects for object keys. Array indices must already
// exist; creating array holes is not supported, and a failed index
// segment yields a fresh discardable value.
func UpdateMemberPath(v *Value, path string) *Value {
	for _, seg := range splitPath(path) {
		v = updatePathField(v, seg)
	}
	return v
}

// splitPath cuts "a.b[2].c" into segments "a", "b", "[2]", "c".
// Bracketed segments keep the brackets so the field resolvers can tell
// indices from keys.
func splitPath(path string) []string {
	var segs []string
	start := 0
	for i := 0; i < len(path); i++ {
		switch path[i] {
		case '.':
			if i > start {
				segs = append(segs, path[start:i])
			}
			start = i + 1
		case '[':
			if i > start {
				segs = append(segs, path[start:i])
			}
			start = i
		}
	}
	if start < len(path) {
		segs = append(segs, path[start:])
	}
	return segs
}

func pathField(v Value, seg string) Value {
	if idx, ok := bracketIndex(seg); ok {
		if v.IsArray() {
			return v.Elt(idx)
		}
		return Value{}
	}
	return v.Member(seg)
}

func updatePathField(v *Value, seg string) *Value {
	if idx, ok := bracketIndex(seg); ok {
		if arr := v.Array(); arr != nil && idx >= 0 && idx < arr.Len() {
			return &arr.elts[idx]
		}
		return new(Value)
	}
	return v.UpdateMember(seg)
}

// bracketIndex parses a "[N]" segment. A malformed bracket segment is
// treated as a plain key, matching the lookup behaviour for objects.
func bracketIndex(seg string) (int, bool) {
	if len(seg) < 3 || seg[0] != '[' || seg[len(seg)-1] != ']' {
		return 0, false
	}
	n, err := strconv.Atoi(seg[1 : len(seg)-1])
	if err != nil {
		return 0, false
	}
	return n, true
}
