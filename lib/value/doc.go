// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package value implements a polymorphic configuration value: a tagged
// union over null, bool, four integer widths, double, string, array,
// and object.
//
// The model is designed to fail gracefully rather than panic. Queries
// against the wrong kind return the null value; writes to the wrong
// kind are silently discarded. Callers therefore do not need to guard
// every access with a kind check.
//
// String and array payloads are immutable once constructed and are
// shared between Values on assignment. Object payloads are mutable and
// exclusively owned: [Value.Clone] deep-copies objects so that
// mutations never leak between trees. A plain Go assignment of an
// object-typed Value copies the handle, not the object — use Clone
// when an independent tree is required.
//
// Each object carries a modification counter, incremented on every
// structural change, that external observers can poll for change
// detection. The counter is not part of equality.
package value
