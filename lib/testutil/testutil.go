// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers for conval packages.
//
// [WriteTree] lays out a configuration fixture on disk: a map from
// relative path to file content, rooted in a fresh temporary
// directory. Composer and CLI tests use it to build multi-file
// import/template scenarios without checking fixtures into the repo.
//
// All helpers call t.Fatalf on failure rather than returning errors,
// since test setup failures are not recoverable.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteTree writes the given files under a fresh temporary directory
// and returns its path. Keys are slash-separated relative paths;
// intermediate directories are created as needed. The directory is
// removed when the test completes.
func WriteTree(t *testing.T, files map[string]string) string {
	t.Helper()

	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("creating %s: %v", filepath.Dir(path), err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("writing %s: %v", path, err)
		}
	}
	return root
}
