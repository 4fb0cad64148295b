// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package value

import "sort"

// Object is a mutable mapping from string keys to Values, held in
// byte-wise key order. Duplicate insertion replaces the existing value
// without changing its position.
type Object struct {
	members  []member
	modCount uint32
}

type member struct {
	key string
	val Value
}

// NewObject returns a value holding a fresh empty object.
func NewObject() Value {
	return Value{kind: KindObject, obj: &Object{}}
}

// ObjectOf returns the object payload as a value, sharing the payload.
func ObjectOf(obj *Object) Value {
	if obj == nil {
		obj = &Object{}
	}
	return Value{kind: KindObject, obj: obj}
}

// clone deep-copies the object, including the current modification
// count.
func (o *Object) clone() *Object {
	no := &Object{
		members:  make([]member, len(o.members)),
		modCount: o.modCount,
	}
	for i, m := range o.members {
		no.members[i] = member{key: m.key, val: m.val.Clone()}
	}
	return no
}

// index returns the insertion position for key and whether a member
// with that key is already present there.
func (o *Object) index(key string) (int, bool) {
	i := sort.Search(len(o.members), func(i int) bool { return o.members[i].key >= key })
	return i, i < len(o.members) && o.members[i].key == key
}

func (o *Object) find(key string) *member {
	if i, ok := o.index(key); ok {
		return &o.members[i]
	}
	return nil
}

// NumMembers returns the number of members.
func (o *Object) NumMembers() int { return len(o.members) }

// IsEmpty reports whether the object has no members.
func (o *Object) IsEmpty() bool { return len(o.members) == 0 }

// Member returns the value for key, or null if absent.
func (o *Object) Member(key string) Value {
	if m := o.find(key); m != nil {
		return m.val
	}
	return Value{}
}

// HasMember reports whether a member named key exists.
func (o *Object) HasMember(key string) bool {
	_, ok := o.index(key)
	return ok
}

// UpdateMember returns a pointer to the value for key, inserting a
// null member if absent. The modification counter advances.
func (o *Object) UpdateMember(key string) *Value {
	o.modCount++
	i, ok := o.index(key)
	if !ok {
		o.members = append(o.members, member{})
		copy(o.members[i+1:], o.members[i:])
		o.members[i] = member{key: key}
	}
	return &o.members[i].val
}

// MemberPtr returns a pointer to the value for key without inserting,
// or nil if absent. The modification counter advances only when the
// member exists, since the caller receives it for writing.
func (o *Object) MemberPtr(key string) *Value {
	if i, ok := o.index(key); ok {
		o.modCount++
		return &o.members[i].val
	}
	return nil
}

// SetMember sets key to a clone of val.
func (o *Object) SetMember(key string, val Value) {
	*o.UpdateMember(key) = val.Clone()
	o.modCount++
}

// RemoveMember removes the named member, reporting whether it existed.
func (o *Object) RemoveMember(key string) bool {
	i, ok := o.index(key)
	if !ok {
		return false
	}
	o.members = append(o.members[:i], o.members[i+1:]...)
	o.modCount++
	return true
}

// RemoveMembers removes all members.
func (o *Object) RemoveMembers() {
	if len(o.members) > 0 {
		o.modCount++
		o.members = nil
	}
}

// MemberIndex returns the index of the member with the given key, or
// -1 if absent.
func (o *Object) MemberIndex(key string) int {
	if i, ok := o.index(key); ok {
		return i
	}
	return -1
}

// MemberName returns the i'th member name.
func (o *Object) MemberName(i int) string { return o.members[i].key }

// MemberValue returns a pointer to the i'th member value.
func (o *Object) MemberValue(i int) *Value { return &o.members[i].val }

// ModCount returns the modification counter. It advances on every
// structural change and is not part of equality.
func (o *Object) ModCount() uint32 { return o.modCount }

// Merge merges overrides into o: a null member removes the key, object
// members merge recursively, anything else replaces.
func (o *Object) Merge(overrides *Object) {
	for i := range overrides.members {
		m := &overrides.members[i]
		if m.val.IsNull() {
			o.RemoveMember(m.key)
		} else {
			o.UpdateMember(m.key).Merge(m.val)
		}
	}
}

// swap exchanges the contents of two objects, advancing both
// modification counters.
func (o *Object) swap(other *Object) {
	o.members, other.members = other.members, o.members
	o.modCount++
	other.modCount++
}

// Compare orders two objects: by size first, then by the i'th key and
// i'th value for each index in turn.
func (o *Object) Compare(other *Object) int {
	n1, n2 := len(o.members), len(other.members)
	if n1 != n2 {
		if n1 < n2 {
			return -1
		}
		return 1
	}
	for i := 0; i < n1; i++ {
		if c := compareStrings(o.members[i].key, other.members[i].key); c != 0 {
			return c
		}
		if c := o.members[i].val.Compare(other.members[i].val); c != 0 {
			return c
		}
	}
	return 0
}
