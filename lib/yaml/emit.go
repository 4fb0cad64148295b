// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package yaml

import (
	"fmt"
	"strings"

	"github.com/bureau-foundation/conval/lib/json"
	"github.com/bureau-foundation/conval/lib/value"
)

// AsYaml renders a value tree as block-style YAML with the given
// indent step. Non-collection leaves are emitted as JSON scalars,
// which is a valid YAML flow subset. Root-level members are separated
// by one blank line.
func AsYaml(v value.Value, indent int) string {
	var sb strings.Builder
	emitYaml(&sb, v, indent, 0)
	return sb.String()
}

func emitYaml(sb *strings.Builder, v value.Value, tab, indent int) {
	switch v.Kind() {
	case value.KindObject:
		if indent > 0 {
			sb.WriteByte('\n')
		}
		for i := 0; i < v.NumMembers(); i++ {
			if indent == 0 && i > 0 {
				sb.WriteByte('\n')
			}
			fmt.Fprintf(sb, "%*s%s: ", indent, "", v.MemberName(i))
			emitYaml(sb, v.MemberValue(i), tab, indent+tab)
		}
	case value.KindArray:
		if indent > 0 {
			sb.WriteByte('\n')
		}
		for _, elt := range v.Array().Elts() {
			fmt.Fprintf(sb, "%*s", indent+tab, "- ")
			emitYaml(sb, elt, tab, indent+tab)
		}
	default:
		sb.WriteString(json.AsJson(v, -1, json.DefaultFormat))
		sb.WriteByte('\n')
	}
}
