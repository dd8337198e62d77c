package assemble_test

import (
	"testing"

	"ksc/internal/assemble"
	"ksc/internal/ast"
	"ksc/internal/diag"
	"ksc/internal/lexer"
	"ksc/internal/parser"
	"ksc/internal/source"
)

func parseFiles(t *testing.T, bag *diag.Bag, srcs ...string) []assemble.FileAST {
	t.Helper()
	fs := source.NewFileSet()
	rep := diag.BagReporter{Bag: bag}
	var files []assemble.FileAST
	for i, src := range srcs {
		fileID := fs.AddVirtual("test"+string(rune('a'+i))+".ks", []byte(src))
		builder := ast.NewBuilder(ast.Hints{})
		lx := lexer.New(fs.Get(fileID), lexer.Options{Reporter: rep})
		res := parser.ParseFile(fs, lx, builder, parser.Options{Reporter: rep})
		files = append(files, assemble.FileAST{Builder: builder, File: res.File})
	}
	return files
}

func codes(bag *diag.Bag) []diag.Code {
	var out []diag.Code
	for _, d := range bag.Items() {
		out = append(out, d.Code)
	}
	return out
}

func hasCode(bag *diag.Bag, code diag.Code) bool {
	for _, d := range bag.Items() {
		if d.Code == code {
			return true
		}
	}
	return false
}

func TestAssembleGroupsAcrossFiles(t *testing.T) {
	bag := diag.NewBag(64)
	files := parseFiles(t, bag,
		`namespace acme.users; struct User { id: i64 };`,
		`namespace acme.users; struct Session { token: str };`,
	)
	pkg := assemble.Assemble("acme", files, diag.BagReporter{Bag: bag})
	if bag.HasErrors() {
		t.Fatalf("diagnostics: %v", codes(bag))
	}
	ns := pkg.Namespaces["acme.users"]
	if ns == nil || len(ns.Decls) != 2 {
		t.Fatalf("namespace: %+v", ns)
	}
	if _, ok := ns.ByName["User"]; !ok {
		t.Error("User missing")
	}
	if _, ok := ns.ByName["Session"]; !ok {
		t.Error("Session missing")
	}
}

func TestAssembleNestedBlocks(t *testing.T) {
	bag := diag.NewBag(64)
	files := parseFiles(t, bag, `
namespace acme;
namespace billing {
    struct Invoice { total: i64 };
};
struct Root { x: i32 };
`)
	pkg := assemble.Assemble("acme", files, diag.BagReporter{Bag: bag})
	if bag.HasErrors() {
		t.Fatalf("diagnostics: %v", codes(bag))
	}
	if _, ok := pkg.Namespaces["acme.billing"].ByName["Invoice"]; !ok {
		t.Error("Invoice should land in acme.billing")
	}
	if _, ok := pkg.Namespaces["acme"].ByName["Root"]; !ok {
		t.Error("Root should land in acme")
	}
}

func TestAssembleDuplicateDeclaration(t *testing.T) {
	bag := diag.NewBag(64)
	files := parseFiles(t, bag,
		`namespace acme; struct User { id: i64 };`,
		`namespace acme; struct User { id: i64 };`,
	)
	pkg := assemble.Assemble("acme", files, diag.BagReporter{Bag: bag})
	if !hasCode(bag, diag.NsDuplicate) {
		t.Fatalf("want duplicate diagnostic, got %v", codes(bag))
	}
	if len(pkg.Namespaces["acme"].Decls) != 1 {
		t.Error("duplicate should be dropped")
	}
}

func TestAssembleDeclOutsideNamespace(t *testing.T) {
	bag := diag.NewBag(64)
	files := parseFiles(t, bag, `struct Orphan { x: i32 };`)
	assemble.Assemble("acme", files, diag.BagReporter{Bag: bag})
	if !hasCode(bag, diag.NsNotDeclared) {
		t.Fatalf("want not-declared diagnostic, got %v", codes(bag))
	}
}

func TestAssembleVersionAttr(t *testing.T) {
	bag := diag.NewBag(64)
	files := parseFiles(t, bag, `namespace acme;
#![version(3)]
#![err(ApiError)]
error ApiError { Internal };`)
	pkg := assemble.Assemble("acme", files, diag.BagReporter{Bag: bag})
	if bag.HasErrors() {
		t.Fatalf("diagnostics: %v", codes(bag))
	}
	ns := pkg.Namespaces["acme"]
	if !ns.HasVersion || ns.Version != 3 {
		t.Errorf("version: %v %d", ns.HasVersion, ns.Version)
	}
	if ns.ErrName != "ApiError" {
		t.Errorf("err attr: %q", ns.ErrName)
	}
}

func TestAssembleVersionConflict(t *testing.T) {
	bag := diag.NewBag(64)
	files := parseFiles(t, bag,
		`namespace acme; #![version(1)] struct A { x: i32 };`,
		`namespace acme; #![version(2)] struct B { x: i32 };`,
	)
	pkg := assemble.Assemble("acme", files, diag.BagReporter{Bag: bag})
	if !hasCode(bag, diag.MetaVersionConflict) {
		t.Fatalf("want version conflict, got %v", codes(bag))
	}
	if !pkg.Namespaces["acme"].Failed {
		t.Error("conflicting namespace should be marked failed")
	}
}

func TestAssembleInvalidVersion(t *testing.T) {
	bag := diag.NewBag(64)
	files := parseFiles(t, bag, `namespace acme; #![version("two")] struct A { x: i32 };`)
	assemble.Assemble("acme", files, diag.BagReporter{Bag: bag})
	if !hasCode(bag, diag.MetaInvalidVersion) {
		t.Fatalf("want invalid version, got %v", codes(bag))
	}
}

func TestAssembleDuplicateField(t *testing.T) {
	bag := diag.NewBag(64)
	files := parseFiles(t, bag, `namespace acme; struct S { x: i32, x: str };`)
	assemble.Assemble("acme", files, diag.BagReporter{Bag: bag})
	if !hasCode(bag, diag.TyDuplicateField) {
		t.Fatalf("want duplicate field, got %v", codes(bag))
	}
}

func TestAssembleEnumDiscriminants(t *testing.T) {
	bag := diag.NewBag(64)
	files := parseFiles(t, bag, `namespace acme; enum E { A, B = 0 };`)
	assemble.Assemble("acme", files, diag.BagReporter{Bag: bag})
	// A auto-increments to 0, B repeats it
	if !hasCode(bag, diag.TyDuplicateDiscrim) {
		t.Fatalf("want duplicate discriminant, got %v", codes(bag))
	}
}

func TestAssembleStringEnumDefaults(t *testing.T) {
	bag := diag.NewBag(64)
	files := parseFiles(t, bag, `namespace acme; enum E { A = "x", B };`)
	assemble.Assemble("acme", files, diag.BagReporter{Bag: bag})
	if bag.HasErrors() {
		t.Fatalf("unadorned variant in a string enum should default to its name: %v", codes(bag))
	}
}

func TestLinkImports(t *testing.T) {
	bag := diag.NewBag(64)
	rep := diag.BagReporter{Bag: bag}

	baseFiles := parseFiles(t, bag, `namespace base.types; struct UserID { value: u64 };`)
	base := assemble.Assemble("base", baseFiles, rep)

	appFiles := parseFiles(t, bag, `namespace app;
use base.types::{UserID};
use base.missing;
struct Account { id: i64 };`)
	app := assemble.Assemble("app", appFiles, rep)

	assemble.Link([]*assemble.Package{base, app}, map[string][]string{"app": {"base"}}, rep)

	if !hasCode(bag, diag.NsUnknownImport) {
		t.Fatalf("want unknown import for base.missing, got %v", codes(bag))
	}
	if !app.Namespaces["app"].Failed {
		t.Error("namespace with unknown import should be failed")
	}
}

func TestLinkUndeclaredDependency(t *testing.T) {
	bag := diag.NewBag(64)
	rep := diag.BagReporter{Bag: bag}

	baseFiles := parseFiles(t, bag, `namespace base.types; struct UserID { value: u64 };`)
	base := assemble.Assemble("base", baseFiles, rep)

	appFiles := parseFiles(t, bag, `namespace app; use base.types; struct A { x: i32 };`)
	app := assemble.Assemble("app", appFiles, rep)

	// app does not declare base as a dependency
	assemble.Link([]*assemble.Package{base, app}, nil, rep)

	if !hasCode(bag, diag.NsUnresolvedDep) {
		t.Fatalf("want undeclared dependency diagnostic, got %v", codes(bag))
	}
}

func TestLinkSelectiveImportUnknownName(t *testing.T) {
	bag := diag.NewBag(64)
	rep := diag.BagReporter{Bag: bag}

	baseFiles := parseFiles(t, bag, `namespace base.types; struct UserID { value: u64 };`)
	base := assemble.Assemble("base", baseFiles, rep)

	appFiles := parseFiles(t, bag, `namespace app; use base.types::{Nope}; struct A { x: i32 };`)
	app := assemble.Assemble("app", appFiles, rep)

	assemble.Link([]*assemble.Package{base, app}, map[string][]string{"app": {"base"}}, rep)

	if !hasCode(bag, diag.NsUnknownImport) {
		t.Fatalf("want unknown name diagnostic, got %v", codes(bag))
	}
}
