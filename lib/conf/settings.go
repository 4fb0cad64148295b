// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package conf

import (
	"fmt"
	"strings"

	"github.com/bureau-foundation/conval/lib/json"
	"github.com/bureau-foundation/conval/lib/value"
)

// ApplySettings applies command-line style overrides to a composed
// configuration. Each entry is "path[=jsonValue]" with a dotted path;
// ':' is accepted in place of '='. A bare path sets true. A value that
// does not look like a JSON literal is treated as a bare string and
// quoted before parsing.
func ApplySettings(settings []string, config *value.Value) error {
	for _, setting := range settings {
		path := setting
		valueStr := ""
		hasValue := false

		i := strings.IndexByte(setting, '=')
		if i < 0 {
			i = strings.IndexByte(setting, ':')
		}
		if i >= 0 {
			path = setting[:i]
			valueStr = strings.TrimLeft(setting[i+1:], " ")
			hasValue = true
		}

		target := config
		for _, name := range strings.Split(path, ".") {
			target = target.UpdateMember(name)
		}

		if !hasValue {
			*target = value.Bool(true)
			continue
		}
		if valueStr == "" {
			*target = value.Null()
			continue
		}

		if !looksLikeJSON(valueStr) {
			valueStr = `"` + valueStr + `"`
		}

		parsed, err := json.LoadText([]byte(valueStr), nil)
		if err != nil {
			return fmt.Errorf("parse error in value for %s: %w", path, err)
		}
		*target = parsed
	}
	return nil
}

// looksLikeJSON reports whether s starts like a JSON literal rather
// than a bare word.
func looksLikeJSON(s string) bool {
	switch s[0] {
	case '[', '{', '-', '"':
		return true
	}
	if s[0] >= '0' && s[0] <= '9' {
		return true
	}
	return strings.EqualFold(s, "null") ||
		strings.EqualFold(s, "true") ||
		strings.EqualFold(s, "false")
}
