// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package conf composes configuration files into a single value tree.
//
// A configuration is a YAML or JSON file whose objects may carry two
// special members:
//
//   - "import": a path (or list of paths) to other configuration
//     files, resolved relative to the importing file. The import forms
//     the base; the importing object's own members override it. When a
//     variant is set, a sibling file with "_variant" appended before
//     the extension merges on top of the primary import.
//
//   - "template": the name of a sibling member in the enclosing
//     object. The sibling is expanded first, then copied, and the
//     local object merges over the copy, giving inheritance-with-
//     override within a document.
//
// Composition is best-effort: a missing import is recorded as an error
// but the remaining imports still apply.
package conf
