// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package pathutil is a mini path library for configuration loading:
// extension probes, variant suffix insertion, and base-relative
// resolution with "." and ".." normalisation. Windows drive letters
// and UNC roots are recognised when normalising.
package pathutil

import (
	"os"
	"path/filepath"
	"strings"
)

// Location returns the directory containing path.
func Location(path string) string {
	return filepath.Dir(path)
}

// WithSuffix inserts suffix before the path's extension:
// WithSuffix("conf/base.yml", "_test") is "conf/base_test.yml".
func WithSuffix(path, suffix string) string {
	ext := filepath.Ext(path)
	return path[:len(path)-len(ext)] + suffix + ext
}

// HasExtension reports whether path ends with the given extension
// (case-insensitive, leading dot included).
func HasExtension(path, ext string) bool {
	return strings.EqualFold(filepath.Ext(path), ext)
}

// HasExtensions reports whether path ends with any of the given
// extensions.
func HasExtensions(path string, exts []string) bool {
	for _, ext := range exts {
		if HasExtension(path, ext) {
			return true
		}
	}
	return false
}

// IsAbsolute reports whether path is absolute on the host platform.
func IsAbsolute(path string) bool {
	return filepath.IsAbs(path)
}

// Full resolves path against basePath when relative and normalises
// the result.
func Full(path, basePath string) string {
	if filepath.IsAbs(path) {
		return Normalise(path)
	}
	return Normalise(filepath.Join(basePath, path))
}

// Normalise resolves "." and ".." segments and collapses separators
// using the host's separator convention. Drive letters and UNC roots
// survive normalisation via the platform path rules.
func Normalise(path string) string {
	return filepath.Clean(filepath.FromSlash(path))
}

// FileExists reports whether path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
