// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package json reads and writes configuration value trees as JSON.
//
// The reader accepts a relaxed json5-ish dialect by default: // and
// /* */ comments, trailing commas, bare object keys, and the
// JavaScript float specials. Strict mode disables all of these. The
// writer is format-driven: indent width, key quoting, array wrapping
// margin, float precision and zero trimming, and the rendering of
// Inf/NaN are all configurable.
package json
