// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package yaml

import (
	"reflect"
	"testing"

	yamlv3 "gopkg.in/yaml.v3"

	"github.com/bureau-foundation/conval/lib/value"
)

// TestAgainstYamlV3 cross-checks the loader against gopkg.in/yaml.v3
// on documents where YAML 1.1 and 1.2 agree. Divergent constructs
// (yes/no booleans, bare-zero octals, sexagesimals) are deliberately
// absent from the corpus.
func TestAgainstYamlV3(t *testing.T) {
	docs := []string{
		"a: 1\nb: two\nc: 3.5\nd: true\ne: null\n",
		"list:\n  - 1\n  - 2\n  - three\n",
		"nested:\n  inner:\n    leaf: value\n",
		"flow: {a: [1, 2], b: {c: d}}\n",
		"defaults: &d\n  colour: red\nitem:\n  <<: *d\n  size: 2\n",
		"text: \"quoted \\\"string\\\"\"\n",
		"block: |\n  line one\n  line two\n",
		"folded: >\n  joined\n  text\n",
		"hex: 0x10\noct: 0o17\n",
		"empty: {}\nnone: []\n",
	}

	for _, doc := range docs {
		mine, err := LoadText([]byte(doc), nil)
		if err != nil {
			t.Errorf("our loader failed on %q: %v", doc, err)
			continue
		}

		var theirs any
		if err := yamlv3.Unmarshal([]byte(doc), &theirs); err != nil {
			t.Errorf("yaml.v3 failed on %q: %v", doc, err)
			continue
		}

		got := toPlain(mine)
		want := normalise(theirs)
		if !reflect.DeepEqual(got, want) {
			t.Errorf("divergence on %q:\n  ours:   %#v\n  theirs: %#v", doc, got, want)
		}
	}
}

// toPlain converts a value tree to the generic Go shape yaml.v3
// produces, with all integers widened to int64.
func toPlain(v value.Value) any {
	switch v.Kind() {
	case value.KindNull:
		return nil
	case value.KindBool:
		return v.AsBool(false)
	case value.KindInt, value.KindUint, value.KindInt64, value.KindUint64:
		return v.AsInt64(0)
	case value.KindDouble:
		return v.AsDouble(0)
	case value.KindString:
		s, _ := v.StringValue()
		return s
	case value.KindArray:
		out := make([]any, v.NumElts())
		for i := range out {
			out[i] = toPlain(v.Elt(i))
		}
		return out
	case value.KindObject:
		out := make(map[string]any, v.NumMembers())
		for i := 0; i < v.NumMembers(); i++ {
			out[v.MemberName(i)] = toPlain(v.MemberValue(i))
		}
		return out
	}
	return nil
}

// normalise rewrites yaml.v3 output into the same generic shape.
func normalise(x any) any {
	switch t := x.(type) {
	case int:
		return int64(t)
	case int64:
		return t
	case uint64:
		return int64(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = normalise(e)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, v := range t {
			out[k] = normalise(v)
		}
		return out
	}
	return x
}
