// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package conf

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/bureau-foundation/conval/lib/json"
	"github.com/bureau-foundation/conval/lib/pathutil"
	"github.com/bureau-foundation/conval/lib/stringtable"
	"github.com/bureau-foundation/conval/lib/value"
	"github.com/bureau-foundation/conval/lib/yaml"
)

var (
	jsonExtensions = []string{".json", ".jsn", ".json5"}
	yamlExtensions = []string{".yaml", ".yml"}
)

// Info carries options into a load and reports what was read.
type Info struct {
	// Variant selects "_variant" sibling files for imports.
	Variant string
	// Strings, when non-nil, interns keys and string values across
	// every file of the composition.
	Strings *stringtable.Table

	// Main is the normalised path of the entry file.
	Main string
	// Imports lists every import file that was loaded, sorted.
	Imports []string
}

func (info *Info) recordImport(path string) {
	i := sort.SearchStrings(info.Imports, path)
	if i < len(info.Imports) && info.Imports[i] == path {
		return
	}
	info.Imports = append(info.Imports, "")
	copy(info.Imports[i+1:], info.Imports[i:])
	info.Imports[i] = path
}

// fileLoader reads one file into a value tree without composing it.
type fileLoader func(path string, info *Info) (value.Value, error)

// LoadConfig loads the configuration at path, dispatching on the file
// extension, and applies import and template expansion. On error the
// returned value is the best-effort composition.
func LoadConfig(path string, info *Info) (value.Value, error) {
	return loadConfigInternal(loadConfigFile, path, info)
}

// LoadJSONConfig is LoadConfig restricted to the JSON loader.
func LoadJSONConfig(path string, info *Info) (value.Value, error) {
	return loadConfigInternal(loadJSONFile, path, info)
}

// LoadYAMLConfig is LoadConfig restricted to the YAML loader.
func LoadYAMLConfig(path string, info *Info) (value.Value, error) {
	return loadConfigInternal(loadYAMLFile, path, info)
}

func loadJSONFile(path string, info *Info) (value.Value, error) {
	var opts json.Options
	if info != nil {
		opts.Strings = info.Strings
	}
	return json.LoadFile(path, &opts)
}

func loadYAMLFile(path string, info *Info) (value.Value, error) {
	var opts yaml.LoadOptions
	if info != nil {
		opts.Strings = info.Strings
	}
	return yaml.LoadFile(path, &opts)
}

func loadConfigFile(path string, info *Info) (value.Value, error) {
	switch {
	case pathutil.HasExtensions(path, jsonExtensions):
		return loadJSONFile(path, info)
	case pathutil.HasExtensions(path, yamlExtensions):
		return loadYAMLFile(path, info)
	}
	return value.Null(), fmt.Errorf("unsupported file format: '%s'", path)
}

func loadConfigInternal(loader fileLoader, path string, info *Info) (value.Value, error) {
	var errs []error

	config, err := loader(path, info)
	if err != nil {
		errs = append(errs, err)
	} else {
		if info != nil {
			info.Main = pathutil.Normalise(path)
			path = info.Main
			info.Imports = nil
		}
		addImports(loader, pathutil.Location(path), &config, &errs, info)
	}

	applyTemplates(&config, &errs)

	if len(errs) > 0 {
		return config, fmt.Errorf("%w\n  in %s", errors.Join(errs...), path)
	}
	return config, nil
}

// addImports walks the tree depth-first, post-order, expanding every
// "import" member. The loaded import forms the base and the local
// object overrides it. Reports whether the imports applied cleanly:
// for an object with its own "import" member the result reflects that
// import alone, and failures inside its members are only recorded in
// errs.
func addImports(loader fileLoader, basePath string, v *value.Value, errs *[]error, info *Info) bool {
	success := true

	if arr := v.Array(); arr != nil {
		elts := arr.MutableElts()
		for i := range elts {
			if !addImports(loader, basePath, &elts[i], errs, info) {
				success = false
			}
		}
		return success
	}

	obj := v.Object()
	if obj == nil {
		return success
	}

	for i := 0; i < obj.NumMembers(); i++ {
		if !addImports(loader, basePath, obj.MemberValue(i), errs, info) {
			success = false
		}
	}

	importValues := v.Member("import")
	if importValues.IsNull() {
		return success
	}

	var importValue value.Value
	oneSuccess := false

	if importValues.IsArray() {
		success = true
		for _, importPathValue := range importValues.Array().Elts() {
			if loaded, ok := loadImport(importPathValue, loader, basePath, errs, info); ok {
				importValue.Merge(loaded)
				oneSuccess = true
			} else {
				// Keep going: the composition is best-effort even
				// when one of several imports is missing.
				success = false
			}
		}
	} else {
		var loaded value.Value
		loaded, success = loadImport(importValues, loader, basePath, errs, info)
		if success {
			importValue = loaded
			oneSuccess = true
		}
	}

	if oneSuccess {
		// The import becomes the base and the local members (minus
		// the import directive itself) override it.
		v.RemoveMember("import")
		v.Swap(&importValue)
		v.Merge(importValue)
	}

	return success
}

func loadImport(importPathValue value.Value, loader fileLoader, basePath string, errs *[]error, info *Info) (value.Value, bool) {
	relativeImportPath, ok := importPathValue.StringValue()
	if !ok {
		*errs = append(*errs, fmt.Errorf("expecting import path in '%s'",
			json.AsJson(importPathValue, -1, json.DefaultFormat)))
		return value.Null(), false
	}

	importPath := pathutil.Full(relativeImportPath, basePath)

	var v value.Value
	success := false
	importExists := false

	if pathutil.FileExists(importPath) {
		importExists = true
		loaded, err := loader(importPath, info)
		if err == nil {
			v = loaded
			if info != nil {
				info.recordImport(importPath)
			}
			success = addImports(loader, pathutil.Location(importPath), &v, errs, info)
		} else {
			*errs = append(*errs, err)
		}
		if !success {
			*errs = append(*errs, fmt.Errorf("  in %s", importPath))
		}
	}

	// A variant sibling (file_variant.ext) merges on top of the
	// primary import.
	if info != nil && info.Variant != "" {
		variantImportPath := pathutil.WithSuffix(importPath, "_"+info.Variant)
		if pathutil.FileExists(variantImportPath) {
			importExists = true
			variantValue, err := loader(variantImportPath, info)
			if err == nil {
				success = true
				info.recordImport(variantImportPath)
				if !addImports(loader, pathutil.Location(variantImportPath), &variantValue, errs, info) {
					success = false
				}
			} else {
				*errs = append(*errs, err)
				success = false
			}
			if !success {
				*errs = append(*errs, fmt.Errorf("  in %s", variantImportPath))
			} else {
				if v.IsNull() {
					v.Swap(&variantValue)
				} else {
					v.Merge(variantValue)
				}
			}
		}
	}

	if !importExists {
		*errs = append(*errs, fmt.Errorf("couldn't find %s", importPath))
	}

	return v, success
}

// SaveConfig writes a composed configuration to path, dispatching on
// the extension.
func SaveConfig(path string, config value.Value) error {
	var text string
	switch {
	case pathutil.HasExtensions(path, jsonExtensions):
		text = json.AsJson(config, json.ConfigFormat.Indent, json.ConfigFormat)
	case pathutil.HasExtensions(path, yamlExtensions):
		text = yaml.AsYaml(config, json.ConfigFormat.Indent)
	default:
		return errors.New("unrecognised config type")
	}
	return os.WriteFile(path, []byte(text), 0644)
}

// WriteConfig writes a composed configuration to w as the named type,
// "json" (default) or "yaml".
func WriteConfig(w io.Writer, config value.Value, typ string) error {
	switch {
	case typ == "" || strings.EqualFold(typ, "json"):
		_, err := io.WriteString(w, json.AsJson(config, json.ConfigFormat.Indent, json.ConfigFormat))
		return err
	case strings.EqualFold(typ, "yaml"):
		_, err := io.WriteString(w, yaml.AsYaml(config, json.ConfigFormat.Indent))
		return err
	}
	return errors.New("unrecognised config type")
}
