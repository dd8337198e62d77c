package project

import (
	"os"
	"path/filepath"
	"testing"

	"ksc/internal/diag"
	"ksc/internal/source"
)

func parseManifest(t *testing.T, data string) (*Manifest, *diag.Bag, bool) {
	t.Helper()
	fs := source.NewFileSet()
	bag := diag.NewBag(16)
	m, ok := ParseManifest(fs, "ks.toml", []byte(data), diag.BagReporter{Bag: bag})
	return m, bag, ok
}

func TestParseManifest(t *testing.T) {
	m, bag, ok := parseManifest(t, `
[package]
name = "acme_events"
version = "1.2.0"

[dependencies]
base_types = "0.3.1"
`)
	if !ok || bag.HasErrors() {
		t.Fatalf("parse failed: %v", bag.Items())
	}
	if m.Name != "acme_events" || m.Version != "1.2.0" {
		t.Errorf("package: %q %q", m.Name, m.Version)
	}
	if m.Dependencies["base_types"] != "0.3.1" {
		t.Errorf("dependencies: %v", m.Dependencies)
	}
}

func TestParseManifestErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"bad toml", `[package`},
		{"no package section", `[dependencies]` + "\n" + `x = "1"`},
		{"empty name", "[package]\nname = \"\""},
		{"bad name", "[package]\nname = \"9lives\""},
		{"bad dep name", "[package]\nname = \"ok\"\n[dependencies]\n\"a-b\" = \"1\""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, bag, ok := parseManifest(t, tt.data)
			if ok {
				t.Fatal("want failure")
			}
			if bag.Len() != 1 || bag.Items()[0].Code != diag.PkgBadManifest {
				t.Errorf("diagnostics: %v", bag.Items())
			}
		})
	}
}

func TestIsValidPackageName(t *testing.T) {
	valid := []string{"a", "_x", "acme_events", "pkg2"}
	invalid := []string{"", "2pkg", "a-b", "пакет", "a.b"}
	for _, n := range valid {
		if !IsValidPackageName(n) {
			t.Errorf("%q should be valid", n)
		}
	}
	for _, n := range invalid {
		if IsValidPackageName(n) {
			t.Errorf("%q should be invalid", n)
		}
	}
}

func makeManifests(t *testing.T, deps map[string][]string) map[string]*Manifest {
	t.Helper()
	fs := source.NewFileSet()
	out := make(map[string]*Manifest, len(deps))
	for name, ds := range deps {
		m := &Manifest{Name: name, Dependencies: map[string]string{}}
		for _, d := range ds {
			m.Dependencies[d] = "*"
		}
		id := fs.AddVirtual(name+"/ks.toml", []byte("[package]\nname = \""+name+"\"\n"))
		m.File = id
		m.Span = fs.Get(id).FullSpan()
		out[name] = m
	}
	return out
}

func TestPlanOrderChain(t *testing.T) {
	manifests := makeManifests(t, map[string][]string{
		"app":  {"core", "util"},
		"util": {"core"},
		"core": nil,
	})
	bag := diag.NewBag(16)
	ord := PlanOrder(manifests, diag.BagReporter{Bag: bag})
	if bag.HasErrors() {
		t.Fatalf("diagnostics: %v", bag.Items())
	}
	want := []string{"core", "util", "app"}
	if len(ord.Names) != 3 {
		t.Fatalf("order: %v", ord.Names)
	}
	for i := range want {
		if ord.Names[i] != want[i] {
			t.Fatalf("order: %v, want %v", ord.Names, want)
		}
	}
	if len(ord.Batches) != 3 {
		t.Errorf("batches: %v", ord.Batches)
	}
}

func TestPlanOrderIndependentBatch(t *testing.T) {
	manifests := makeManifests(t, map[string][]string{
		"b": nil,
		"a": nil,
	})
	ord := PlanOrder(manifests, diag.NopReporter{})
	if len(ord.Batches) != 1 || len(ord.Batches[0]) != 2 {
		t.Fatalf("batches: %v", ord.Batches)
	}
	if ord.Batches[0][0] != "a" || ord.Batches[0][1] != "b" {
		t.Errorf("batch order not alphabetical: %v", ord.Batches[0])
	}
}

func TestPlanOrderCycle(t *testing.T) {
	manifests := makeManifests(t, map[string][]string{
		"a":    {"b"},
		"b":    {"a"},
		"free": nil,
	})
	bag := diag.NewBag(16)
	ord := PlanOrder(manifests, diag.BagReporter{Bag: bag})
	cycles := 0
	for _, d := range bag.Items() {
		if d.Code == diag.NsImportCycle {
			cycles++
		}
	}
	if cycles != 2 {
		t.Fatalf("want a diagnostic per cycle member, got %v", bag.Items())
	}
	if !ord.Failed["a"] || !ord.Failed["b"] || ord.Failed["free"] {
		t.Errorf("failed set: %v", ord.Failed)
	}
	if len(ord.Names) != 1 || ord.Names[0] != "free" {
		t.Errorf("order: %v", ord.Names)
	}
}

func TestPlanOrderMissingDep(t *testing.T) {
	manifests := makeManifests(t, map[string][]string{
		"app": {"ghost"},
	})
	bag := diag.NewBag(16)
	ord := PlanOrder(manifests, diag.BagReporter{Bag: bag})
	if bag.Len() != 1 || bag.Items()[0].Code != diag.PkgMissingDep {
		t.Fatalf("diagnostics: %v", bag.Items())
	}
	if !ord.Failed["app"] {
		t.Error("app should be marked failed")
	}
}

func TestFindManifest(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "schemas", "deep")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	manifest := filepath.Join(root, ManifestName)
	if err := os.WriteFile(manifest, []byte("[package]\nname = \"x\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	path, ok, err := FindManifest(nested)
	if err != nil || !ok {
		t.Fatalf("ok=%v err=%v", ok, err)
	}
	if path != manifest {
		t.Errorf("path: %q, want %q", path, manifest)
	}

	pkgRoot, ok, err := FindPackageRoot(nested)
	if err != nil || !ok || pkgRoot != root {
		t.Errorf("root: %q ok=%v err=%v", pkgRoot, ok, err)
	}
}

func TestSchemaFiles(t *testing.T) {
	root := t.TempDir()
	files := []string{"b.ks", "a.ks", "sub/c.ks", "deps/vendor.ks", ".hidden/d.ks", "notes.txt"}
	for _, f := range files {
		path := filepath.Join(root, filepath.FromSlash(f))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("namespace x;\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	got, err := SchemaFiles(root)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"a.ks", "b.ks", "sub/c.ks"}
	if len(got) != len(want) {
		t.Fatalf("files: %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("files: %v, want %v", got, want)
		}
	}
}
