// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package conf

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/bureau-foundation/conval/lib/testutil"
	"github.com/bureau-foundation/conval/lib/value"
)

func TestLoadConfigDispatch(t *testing.T) {
	root := testutil.WriteTree(t, map[string]string{
		"conf.yaml": "a: 1\n",
		"conf.json": `{"a": 2}`,
	})

	v, err := LoadConfig(filepath.Join(root, "conf.yaml"), nil)
	if err != nil {
		t.Fatal(err)
	}
	if got := v.Member("a").AsInt(0); got != 1 {
		t.Errorf("yaml a = %d", got)
	}

	v, err = LoadConfig(filepath.Join(root, "conf.json"), nil)
	if err != nil {
		t.Fatal(err)
	}
	if got := v.Member("a").AsInt(0); got != 2 {
		t.Errorf("json a = %d", got)
	}

	if _, err = LoadConfig(filepath.Join(root, "conf.toml"), nil); err == nil {
		t.Error("unknown extension accepted")
	}
}

func TestImportOverride(t *testing.T) {
	root := testutil.WriteTree(t, map[string]string{
		"base.yml": "model:\n  mesh: a\n  colour: red\n",
		"main.yml": "import: base.yml\nmodel:\n  colour: blue\n",
	})

	var info Info
	v, err := LoadConfig(filepath.Join(root, "main.yml"), &info)
	if err != nil {
		t.Fatal(err)
	}

	model := v.Member("model")
	if got := model.Member("mesh").AsString(""); got != "a" {
		t.Errorf("mesh = %q, want a (from import)", got)
	}
	if got := model.Member("colour").AsString(""); got != "blue" {
		t.Errorf("colour = %q, want blue (local override)", got)
	}
	if v.HasMember("import") {
		t.Error("import key survived expansion")
	}
	if len(info.Imports) != 1 || !strings.HasSuffix(info.Imports[0], "base.yml") {
		t.Errorf("imports = %v", info.Imports)
	}
	if info.Main == "" {
		t.Error("info.Main not set")
	}
}

func TestImportList(t *testing.T) {
	root := testutil.WriteTree(t, map[string]string{
		"one.yml":  "a: 1\nshared: one\n",
		"two.yml":  "b: 2\nshared: two\n",
		"main.yml": "import: [one.yml, two.yml]\nc: 3\n",
	})

	v, err := LoadConfig(filepath.Join(root, "main.yml"), nil)
	if err != nil {
		t.Fatal(err)
	}
	if v.Member("a").AsInt(0) != 1 || v.Member("b").AsInt(0) != 2 || v.Member("c").AsInt(0) != 3 {
		t.Error("import list did not merge all members")
	}
	// Later imports merge over earlier ones.
	if got := v.Member("shared").AsString(""); got != "two" {
		t.Errorf("shared = %q, want two", got)
	}
}

func TestImportRecursesAndNests(t *testing.T) {
	root := testutil.WriteTree(t, map[string]string{
		"leaf.yml":      "deep: true\n",
		"mid.yml":       "import: leaf.yml\nmid: yes\n",
		"main.yml":      "sub:\n  import: sub/inner.yml\nimport: mid.yml\n",
		"sub/inner.yml": "inner: 1\n",
	})

	v, err := LoadConfig(filepath.Join(root, "main.yml"), nil)
	if err != nil {
		t.Fatal(err)
	}
	if !v.Member("deep").AsBool(false) {
		t.Error("transitive import missing")
	}
	if got := v.Member("sub").Member("inner").AsInt(0); got != 1 {
		t.Errorf("nested object import: inner = %d", got)
	}
}

func TestImportMissingIsBestEffort(t *testing.T) {
	root := testutil.WriteTree(t, map[string]string{
		"one.yml":  "a: 1\n",
		"main.yml": "import: [one.yml, gone.yml]\n",
	})

	v, err := LoadConfig(filepath.Join(root, "main.yml"), nil)
	if err == nil {
		t.Fatal("missing import did not report an error")
	}
	if !strings.Contains(err.Error(), "couldn't find") {
		t.Errorf("error = %v", err)
	}
	// The present import still applied.
	if got := v.Member("a").AsInt(0); got != 1 {
		t.Errorf("best effort value lost a = %d", got)
	}
}

func TestImportVariant(t *testing.T) {
	root := testutil.WriteTree(t, map[string]string{
		"base.yml":      "a: 1\nb: base\n",
		"base_test.yml": "b: variant\n",
		"main.yml":      "import: base.yml\n",
	})

	info := Info{Variant: "test"}
	v, err := LoadConfig(filepath.Join(root, "main.yml"), &info)
	if err != nil {
		t.Fatal(err)
	}
	if got := v.Member("a").AsInt(0); got != 1 {
		t.Errorf("a = %d", got)
	}
	if got := v.Member("b").AsString(""); got != "variant" {
		t.Errorf("b = %q, want variant override", got)
	}
	if len(info.Imports) != 2 {
		t.Errorf("imports = %v, want base and variant", info.Imports)
	}
}

func TestTemplateExpansion(t *testing.T) {
	root := testutil.WriteTree(t, map[string]string{
		"main.yml": `
base:
  colour: red
  size: 1
thing:
  template: base
  size: 2
`,
	})

	v, err := LoadConfig(filepath.Join(root, "main.yml"), nil)
	if err != nil {
		t.Fatal(err)
	}
	thing := v.Member("thing")
	if got := thing.Member("colour").AsString(""); got != "red" {
		t.Errorf("colour = %q", got)
	}
	if got := thing.Member("size").AsInt(0); got != 2 {
		t.Errorf("size = %d, want local override", got)
	}
	if thing.HasMember("template") {
		t.Error("template key survived expansion")
	}
}

func TestTemplateChains(t *testing.T) {
	root := testutil.WriteTree(t, map[string]string{
		"main.yml": `
a:
  x: 1
b:
  template: a
  y: 2
c:
  template: b
  z: 3
`,
	})

	v, err := LoadConfig(filepath.Join(root, "main.yml"), nil)
	if err != nil {
		t.Fatal(err)
	}
	c := v.Member("c")
	for key, want := range map[string]int32{"x": 1, "y": 2, "z": 3} {
		if got := c.Member(key).AsInt(0); got != want {
			t.Errorf("c.%s = %d, want %d", key, got, want)
		}
	}
}

func TestTemplateUnknownKey(t *testing.T) {
	root := testutil.WriteTree(t, map[string]string{
		"main.yml": "thing:\n  template: nonesuch\n",
	})
	_, err := LoadConfig(filepath.Join(root, "main.yml"), nil)
	if err == nil || !strings.Contains(err.Error(), "unknown template key: nonesuch") {
		t.Errorf("error = %v", err)
	}
}

func TestTemplateCycleIsReported(t *testing.T) {
	root := testutil.WriteTree(t, map[string]string{
		"main.yml": "a:\n  template: b\nb:\n  template: a\n",
	})
	_, err := LoadConfig(filepath.Join(root, "main.yml"), nil)
	if err == nil || !strings.Contains(err.Error(), "template chain too deep") {
		t.Errorf("error = %v", err)
	}
}

func TestTemplateIdempotence(t *testing.T) {
	root := testutil.WriteTree(t, map[string]string{
		"main.yml": "base:\n  x: 1\nthing:\n  template: base\n  y: 2\n",
	})
	v, err := LoadConfig(filepath.Join(root, "main.yml"), nil)
	if err != nil {
		t.Fatal(err)
	}

	// Re-applying template expansion to an already-expanded tree must
	// change nothing.
	before := v.Clone()
	var errs []error
	applyTemplates(&v, &errs)
	if len(errs) != 0 {
		t.Fatalf("re-expansion errors: %v", errs)
	}
	if before.Compare(v) != 0 {
		t.Error("template expansion is not idempotent")
	}
}

func TestImportTemplateComposition(t *testing.T) {
	// Combined scenario: import provides the base document, the local
	// document overrides one nested member.
	root := testutil.WriteTree(t, map[string]string{
		"base.yml": "model:\n  mesh: a\n  colour: red\n",
		"main.yml": "import: base.yml\nmodel:\n  colour: blue\n",
	})

	v, err := LoadConfig(filepath.Join(root, "main.yml"), nil)
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]string{"mesh": "a", "colour": "blue"}
	model := v.Member("model")
	for key, expect := range want {
		if got := model.Member(key).AsString(""); got != expect {
			t.Errorf("model.%s = %q, want %q", key, got, expect)
		}
	}
}

func TestApplySettings(t *testing.T) {
	v := value.NewObject()

	err := ApplySettings([]string{
		"debug",
		"render.width=1920",
		"render.title=main window",
		"render.scale=1.5",
		"flags=[1, 2]",
		"name=bob",
		"explicit:true",
	}, &v)
	if err != nil {
		t.Fatal(err)
	}

	if !v.Member("debug").AsBool(false) {
		t.Error("bare path did not set true")
	}
	if got := v.Member("render").Member("width").AsInt(0); got != 1920 {
		t.Errorf("width = %d", got)
	}
	if got := v.Member("render").Member("title").AsString(""); got != "main window" {
		t.Errorf("title = %q (bare string should be auto-quoted)", got)
	}
	if got := v.Member("render").Member("scale").AsDouble(0); got != 1.5 {
		t.Errorf("scale = %v", got)
	}
	if got := v.Member("flags").NumElts(); got != 2 {
		t.Errorf("flags elements = %d", got)
	}
	if got := v.Member("name").AsString(""); got != "bob" {
		t.Errorf("name = %q", got)
	}
	if !v.Member("explicit").AsBool(false) {
		t.Error("colon separator not accepted")
	}
}

func TestApplySettingsParseError(t *testing.T) {
	v := value.NewObject()
	err := ApplySettings([]string{`k={broken`}, &v)
	if err == nil {
		t.Error("malformed JSON value accepted")
	}
}
