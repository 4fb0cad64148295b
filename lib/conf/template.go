// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package conf

import (
	"fmt"

	"github.com/bureau-foundation/conval/lib/value"
)

// applyTemplates expands "template" directives through the whole tree.
// Expansion is applied at each level before recursing so that children
// can template on an object brought in by the parent's own template,
// at the cost of the occasional redundant re-expansion below.
func applyTemplates(v *value.Value, errs *[]error) bool {
	success := true

	if obj := v.Object(); obj != nil {
		for i := 0; i < obj.NumMembers(); i++ {
			member := obj.MemberValue(i)
			if member.IsObject() && !applyTemplateTo(v, member, errs) {
				success = false
			}
		}
		for i := 0; i < obj.NumMembers(); i++ {
			if !applyTemplates(obj.MemberValue(i), errs) {
				success = false
			}
		}
	}

	if arr := v.Array(); arr != nil {
		elts := arr.MutableElts()
		for i := range elts {
			if !applyTemplates(&elts[i], errs) {
				success = false
			}
		}
	}

	return success
}

// maxTemplateDepth bounds template chains so that a directive cycle
// surfaces as an error instead of unbounded recursion.
const maxTemplateDepth = 64

// applyTemplateTo expands target's "template" directive against its
// siblings in objects. The named sibling is expanded first, then
// copied, and target merges over the copy.
func applyTemplateTo(objects *value.Value, target *value.Value, errs *[]error) bool {
	return applyTemplateDepth(objects, target, errs, 0)
}

func applyTemplateDepth(objects *value.Value, target *value.Value, errs *[]error, depth int) bool {
	templateValue := target.Member("template")
	if templateValue.IsNull() {
		return true
	}

	templateKey := templateValue.AsString("")
	if depth >= maxTemplateDepth {
		*errs = append(*errs, fmt.Errorf("template chain too deep at '%s' (cycle?)", templateKey))
		return false
	}
	templateTarget := objects.Object().MemberPtr(templateKey)
	if templateTarget == nil {
		*errs = append(*errs, fmt.Errorf("unknown template key: %s", templateKey))
		return false
	}

	if !applyTemplateDepth(objects, templateTarget, errs, depth+1) {
		return false
	}

	target.RemoveMember("template")

	merged := templateTarget.Clone()
	merged.Merge(*target)
	target.Swap(&merged)
	return true
}
