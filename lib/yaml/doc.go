// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package yaml implements a streaming YAML 1.1 loader for value trees.
//
// The pipeline is layered: an input reader decodes UTF-8/UTF-16 bytes
// into a character buffer, a scanner turns characters into tokens, a
// parser turns tokens into events, and a binder materialises events
// into [value.Value] trees. Each layer is pure with respect to the
// layers above it and the whole ingest runs synchronously to
// completion within one call.
//
// The dialect is YAML 1.1 as fixed by the %YAML directive check.
// Anchors, aliases, tags, flow and block styles, block scalars with
// chomping, and "<<" merge keys are all supported. Comments are not
// preserved.
package yaml
