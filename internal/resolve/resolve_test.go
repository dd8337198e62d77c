package resolve_test

import (
	"testing"

	"ksc/internal/assemble"
	"ksc/internal/ast"
	"ksc/internal/catalog"
	"ksc/internal/diag"
	"ksc/internal/lexer"
	"ksc/internal/parser"
	"ksc/internal/resolve"
	"ksc/internal/source"
)

func compile(t *testing.T, srcs ...string) (*resolve.Graph, *diag.Bag) {
	t.Helper()
	return compileWith(t, catalog.Default(), srcs...)
}

func compileWith(t *testing.T, cat *catalog.Catalog, srcs ...string) (*resolve.Graph, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	bag := diag.NewBag(128)
	rep := diag.BagReporter{Bag: bag}

	var files []assemble.FileAST
	for i, src := range srcs {
		fileID := fs.AddVirtual("test"+string(rune('a'+i))+".ks", []byte(src))
		builder := ast.NewBuilder(ast.Hints{})
		lx := lexer.New(fs.Get(fileID), lexer.Options{Reporter: rep})
		res := parser.ParseFile(fs, lx, builder, parser.Options{Reporter: rep})
		files = append(files, assemble.FileAST{Builder: builder, File: res.File})
	}
	pkg := assemble.Assemble("main", files, rep)
	assemble.Link([]*assemble.Package{pkg}, nil, rep)
	return resolve.Resolve([]*assemble.Package{pkg}, cat, rep), bag
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

func countCode(bag *diag.Bag, code diag.Code) int {
	n := 0
	for _, d := range bag.Items() {
		if d.Code == code {
			n++
		}
	}
	return n
}

// mustDecl resolves a named declaration or fails the test.
func mustDecl(t *testing.T, g *resolve.Graph, ns, name string) *resolve.Decl {
	t.Helper()
	id, ok := g.Lookup(ns, name)
	if !ok {
		t.Fatalf("declaration %s.%s not in graph", ns, name)
	}
	return g.Decl(id)
}

// aliasTarget follows an alias declaration to its synthesized result.
func aliasTarget(t *testing.T, g *resolve.Graph, ns, name string) *resolve.Decl {
	t.Helper()
	d := mustDecl(t, g, ns, name)
	if d.Kind != resolve.KindAlias {
		t.Fatalf("%s is %v, want alias", name, d.Kind)
	}
	if d.Alias.Kind != resolve.TypeDecl {
		t.Fatalf("%s target kind %v, want declaration", name, d.Alias.Kind)
	}
	return g.Decl(d.Alias.Decl)
}

func fieldNames(d *resolve.Decl) []string {
	out := make([]string, 0, len(d.Fields))
	for _, f := range d.Fields {
		out = append(out, f.Name)
	}
	return out
}

func variantNames(d *resolve.Decl) []string {
	out := make([]string, 0, len(d.Variants))
	for _, v := range d.Variants {
		out = append(out, v.Name)
	}
	return out
}

func sameStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestResolvePrimitivesAndDecls(t *testing.T) {
	g, bag := compile(t, `
namespace acme;
struct User { id: u64, name: str, tags: str[], friend: User };
`)
	if bag.HasErrors() {
		t.Fatalf("diagnostics: %v", codes(bag))
	}
	user := mustDecl(t, g, "acme", "User")
	if user.Fields[0].Type.Kind != resolve.TypePrimitive || user.Fields[0].Type.Prim != "u64" {
		t.Errorf("id type: %+v", user.Fields[0].Type)
	}
	if user.Fields[2].Type.Kind != resolve.TypeArray {
		t.Errorf("tags type: %+v", user.Fields[2].Type)
	}
	friend := user.Fields[3].Type
	if friend.Kind != resolve.TypeDecl || g.Decl(friend.Decl).Name != "User" {
		t.Errorf("self reference: %+v", friend)
	}
}

func TestResolveCatalogIsExplicit(t *testing.T) {
	tiny := catalog.New([]catalog.Primitive{
		{Name: "i32", Class: catalog.ClassInt, Width: 32, Signed: true},
	})
	_, bag := compileWith(t, tiny, `
namespace acme;
struct S { a: i32, b: str };
`)
	// str is not in the reduced catalog, so it cannot resolve
	if !hasCode(bag, diag.ResUnknownType) {
		t.Fatalf("want unknown type for str, got %v", codes(bag))
	}
}

func TestResolveDeclShadowsPrimitive(t *testing.T) {
	g, bag := compile(t, `
namespace acme;
struct str { value: u32 };
struct User { name: str };
`)
	if countCode(bag, diag.TyDeclConflict) != 1 {
		t.Fatalf("want one conflict for str, got %v", codes(bag))
	}
	// the bare name still resolves to the primitive
	u := mustDecl(t, g, "acme", "User")
	if ft := u.Fields[0].Type; ft.Kind != resolve.TypePrimitive || ft.Prim != "str" {
		t.Fatalf("name field resolved to %+v, want primitive str", ft)
	}
}

func TestResolveNoConflictForOrdinaryNames(t *testing.T) {
	_, bag := compile(t, `
namespace acme;
struct User { id: u64 };
`)
	if hasCode(bag, diag.TyDeclConflict) {
		t.Fatalf("unexpected conflict: %v", codes(bag))
	}
}

func TestResolveImportScoping(t *testing.T) {
	_, bag := compile(t,
		`namespace lib; struct Secret { value: str };`,
		`namespace app; struct Holder { s: Secret };`,
	)
	// Secret exists in lib, but app never imports it
	if !hasCode(bag, diag.ResUnknownType) {
		t.Fatalf("unimported declaration must not resolve, got %v", codes(bag))
	}
}

func TestResolveSelectiveImport(t *testing.T) {
	g, bag := compile(t,
		`namespace lib; struct Token { value: str };`,
		`namespace app; use lib::{Token}; struct S { t: Token };`,
	)
	if bag.HasErrors() {
		t.Fatalf("diagnostics: %v", codes(bag))
	}
	s := mustDecl(t, g, "app", "S")
	if g.Decl(s.Fields[0].Type.Decl).Namespace != "lib" {
		t.Error("Token should resolve into lib")
	}
}

func TestResolveQualifiedImport(t *testing.T) {
	g, bag := compile(t,
		`namespace lib; struct Token { value: str };`,
		`namespace app; use lib; struct S { t: lib.Token };`,
	)
	if bag.HasErrors() {
		t.Fatalf("diagnostics: %v", codes(bag))
	}
	s := mustDecl(t, g, "app", "S")
	if g.Decl(s.Fields[0].Type.Decl).Name != "Token" {
		t.Error("qualified reference should resolve")
	}
}

func TestResolveImportCycle(t *testing.T) {
	_, bag := compile(t,
		`namespace a; use b; struct A { x: i32 };`,
		`namespace b; use a; struct B { x: i32 };`,
	)
	if countCode(bag, diag.ResImportCycle) != 2 {
		t.Fatalf("want a cycle diagnostic per namespace, got %v", codes(bag))
	}
}

func TestOmitScenario(t *testing.T) {
	g, bag := compile(t, `
namespace acme;
struct User { id: i64, name: str, password_hash?: str };
type PublicUser = Omit[User, password_hash];
`)
	if bag.HasErrors() {
		t.Fatalf("diagnostics: %v", codes(bag))
	}
	pub := aliasTarget(t, g, "acme", "PublicUser")
	if !sameStrings(fieldNames(pub), []string{"id", "name"}) {
		t.Fatalf("fields: %v", fieldNames(pub))
	}
	for _, f := range pub.Fields {
		if f.Optional {
			t.Errorf("field %s should be required", f.Name)
		}
	}
}

func TestPickOmitComplement(t *testing.T) {
	g, bag := compile(t, `
namespace acme;
struct T { a: i32, b: str, c: bool, d: f64 };
type P = Pick[T, b|d];
type O = Omit[T, b|d];
`)
	if bag.HasErrors() {
		t.Fatalf("diagnostics: %v", codes(bag))
	}
	p := aliasTarget(t, g, "acme", "P")
	o := aliasTarget(t, g, "acme", "O")
	if !sameStrings(fieldNames(p), []string{"b", "d"}) {
		t.Errorf("Pick fields: %v", fieldNames(p))
	}
	if !sameStrings(fieldNames(o), []string{"a", "c"}) {
		t.Errorf("Omit fields: %v", fieldNames(o))
	}
	union := append(fieldNames(o), fieldNames(p)...)
	if len(union) != 4 {
		t.Errorf("Pick and Omit must partition the field set: %v", union)
	}
}

func TestPartialRequiredIdempotence(t *testing.T) {
	g, bag := compile(t, `
namespace acme;
struct T { a: i32, b?: str };
type PR = Partial[Required[T]];
type P = Partial[T];
`)
	if bag.HasErrors() {
		t.Fatalf("diagnostics: %v", codes(bag))
	}
	pr := aliasTarget(t, g, "acme", "PR")
	p := aliasTarget(t, g, "acme", "P")
	if !sameStrings(fieldNames(pr), fieldNames(p)) {
		t.Fatalf("field sets differ: %v vs %v", fieldNames(pr), fieldNames(p))
	}
	for i := range pr.Fields {
		if !pr.Fields[i].Optional || !p.Fields[i].Optional {
			t.Errorf("field %s should be optional on both", pr.Fields[i].Name)
		}
	}
}

func TestPartialSelected(t *testing.T) {
	g, bag := compile(t, `
namespace acme;
struct T { a: i32, b: str };
type P = Partial[T, a];
`)
	if bag.HasErrors() {
		t.Fatalf("diagnostics: %v", codes(bag))
	}
	p := aliasTarget(t, g, "acme", "P")
	if !p.Fields[0].Optional || p.Fields[1].Optional {
		t.Errorf("only a should become optional: %+v", p.Fields)
	}
}

func TestExtractExcludePartition(t *testing.T) {
	g, bag := compile(t, `
namespace acme;
oneof Status { Pending, Active, Suspended, Deleted };
type Gone = Extract[Status, Suspended|Deleted];
type Kept = Exclude[Status, Suspended|Deleted];
`)
	if bag.HasErrors() {
		t.Fatalf("diagnostics: %v", codes(bag))
	}
	gone := aliasTarget(t, g, "acme", "Gone")
	kept := aliasTarget(t, g, "acme", "Kept")
	if !sameStrings(variantNames(gone), []string{"Suspended", "Deleted"}) {
		t.Errorf("Extract variants: %v", variantNames(gone))
	}
	if !sameStrings(variantNames(kept), []string{"Pending", "Active"}) {
		t.Errorf("Exclude variants: %v", variantNames(kept))
	}
	if gone.Kind != resolve.KindOneof {
		t.Errorf("Extract result should stay a oneof")
	}
}

func TestTypeExprUnknownSelector(t *testing.T) {
	_, bag := compile(t, `
namespace acme;
struct T { a: i32 };
type P = Pick[T, nope];
`)
	if !hasCode(bag, diag.TexprUnknownField) {
		t.Fatalf("want unknown field, got %v", codes(bag))
	}
}

func TestTypeExprKindMismatch(t *testing.T) {
	_, bag := compile(t, `
namespace acme;
enum E { A, B };
type P = Pick[E, a];
`)
	if !hasCode(bag, diag.TexprKindMismatch) {
		t.Fatalf("want kind mismatch, got %v", codes(bag))
	}
}

func TestTypeExprEmptySelectors(t *testing.T) {
	_, bag := compile(t, `
namespace acme;
struct T { a: i32 };
type P = Pick[T];
`)
	if !hasCode(bag, diag.TexprEmptySelectors) {
		t.Fatalf("want empty selector diagnostic, got %v", codes(bag))
	}
}

func TestArrayItem(t *testing.T) {
	g, bag := compile(t, `
namespace acme;
type Names = str[];
type Name = ArrayItem[Names];
type Grid = i32[][];
type Row = ArrayItem[Grid];
`)
	if bag.HasErrors() {
		t.Fatalf("diagnostics: %v", codes(bag))
	}
	name := mustDecl(t, g, "acme", "Name")
	if name.Alias.Kind != resolve.TypePrimitive || name.Alias.Prim != "str" {
		t.Errorf("ArrayItem[Names]: %+v", name.Alias)
	}
	// exactly one level unwrapped
	row := mustDecl(t, g, "acme", "Row")
	if row.Alias.Kind != resolve.TypeArray {
		t.Errorf("ArrayItem[Grid] should still be an array: %+v", row.Alias)
	}
}

func TestArrayItemOnNonArray(t *testing.T) {
	_, bag := compile(t, `
namespace acme;
struct S { a: i32 };
type X = ArrayItem[S];
`)
	if !hasCode(bag, diag.TexprKindMismatch) {
		t.Fatalf("want kind mismatch, got %v", codes(bag))
	}
}

func TestAliasCycles(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"len1", `namespace acme; type A = A;`},
		{"len2", `namespace acme; type A = B; type B = A;`},
		{"len3", `namespace acme; type A = B; type B = C; type C = A;`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, bag := compile(t, tt.src)
			if !hasCode(bag, diag.ResAliasCycle) {
				t.Fatalf("want alias cycle, got %v", codes(bag))
			}
		})
	}
}

func TestUnionOrDisjoint(t *testing.T) {
	g, bag := compile(t, `
namespace acme;
struct Base { id: i64, name: str };
struct Extra { email: str };
type Merged = Base &| Extra;
`)
	if bag.HasErrors() || bag.HasWarnings() {
		t.Fatalf("diagnostics: %v", codes(bag))
	}
	m := aliasTarget(t, g, "acme", "Merged")
	if !sameStrings(fieldNames(m), []string{"id", "name", "email"}) {
		t.Fatalf("fields: %v", fieldNames(m))
	}
}

func TestUnionOrConflictBecomesOneof(t *testing.T) {
	g, bag := compile(t, `
namespace acme;
struct Success { message: str };
struct Failure { message: i32 };
type Result = Success &| Failure;
`)
	if bag.HasErrors() {
		t.Fatalf("diagnostics: %v", codes(bag))
	}
	if countCode(bag, diag.UnionImplicitField) != 1 {
		t.Fatalf("want one implicit-field warning, got %v", codes(bag))
	}
	res := aliasTarget(t, g, "acme", "Result")
	if !sameStrings(fieldNames(res), []string{"message"}) {
		t.Fatalf("fields: %v", fieldNames(res))
	}
	msg := res.Fields[0].Type
	if msg.Kind != resolve.TypeInlineOneof || len(msg.Arms) != 2 {
		t.Fatalf("message type: %+v", msg)
	}
}

func TestUnionOrDedupesIdenticalTypes(t *testing.T) {
	g, bag := compile(t, `
namespace acme;
struct A { id: i64, note?: str };
struct B { id: i64, extra: bool };
type M = A &| B;
`)
	if bag.HasErrors() || bag.HasWarnings() {
		t.Fatalf("diagnostics: %v", codes(bag))
	}
	m := aliasTarget(t, g, "acme", "M")
	if !sameStrings(fieldNames(m), []string{"id", "note", "extra"}) {
		t.Fatalf("fields: %v", fieldNames(m))
	}
}

func TestUnionOrFieldSetCommutative(t *testing.T) {
	g, bag := compile(t, `
namespace acme;
struct A { x: i32, y: str };
struct B { y: str, z: bool };
type AB = A &| B;
type BA = B &| A;
`)
	if bag.HasErrors() {
		t.Fatalf("diagnostics: %v", codes(bag))
	}
	ab := aliasTarget(t, g, "acme", "AB")
	ba := aliasTarget(t, g, "acme", "BA")
	set := func(names []string) map[string]bool {
		m := make(map[string]bool, len(names))
		for _, n := range names {
			m[n] = true
		}
		return m
	}
	abSet, baSet := set(fieldNames(ab)), set(fieldNames(ba))
	if len(abSet) != len(baSet) {
		t.Fatalf("field sets differ: %v vs %v", fieldNames(ab), fieldNames(ba))
	}
	for n := range abSet {
		if !baSet[n] {
			t.Fatalf("field sets differ on %s", n)
		}
	}
	// order is deterministic per the left-first rule
	if !sameStrings(fieldNames(ab), []string{"x", "y", "z"}) {
		t.Errorf("AB order: %v", fieldNames(ab))
	}
	if !sameStrings(fieldNames(ba), []string{"y", "z", "x"}) {
		t.Errorf("BA order: %v", fieldNames(ba))
	}
}

func TestUnionOrOptionalEitherSide(t *testing.T) {
	g, bag := compile(t, `
namespace acme;
struct A { v?: str };
struct B { v: str };
type M = A &| B;
`)
	if bag.HasErrors() {
		t.Fatalf("diagnostics: %v", codes(bag))
	}
	m := aliasTarget(t, g, "acme", "M")
	if !m.Fields[0].Optional {
		t.Error("field optional on one side must stay optional")
	}
}

func TestUnionOrNonStruct(t *testing.T) {
	_, bag := compile(t, `
namespace acme;
enum E { A };
struct S { x: i32 };
type M = S &| E;
`)
	if !hasCode(bag, diag.UnionOperandNotStruct) {
		t.Fatalf("want operand-not-struct, got %v", codes(bag))
	}
}

func TestTaggingDefaultExternal(t *testing.T) {
	g, bag := compile(t, `
namespace acme;
oneof Event { Ping, Data(str) };
`)
	if bag.HasErrors() {
		t.Fatalf("diagnostics: %v", codes(bag))
	}
	ev := mustDecl(t, g, "acme", "Event")
	if ev.Tagging.Mode != resolve.TagExternal {
		t.Errorf("default tagging: %v", ev.Tagging.Mode)
	}
}

func TestTaggingInternalAndAdjacent(t *testing.T) {
	g, bag := compile(t, `
namespace acme;
#[tag(name = "kind")]
oneof A { X { v: str } };
#[tag(name = "kind", content = "data")]
oneof B { Y(str) };
`)
	if bag.HasErrors() {
		t.Fatalf("diagnostics: %v", codes(bag))
	}
	a := mustDecl(t, g, "acme", "A")
	if a.Tagging.Mode != resolve.TagInternal || a.Tagging.Key != "kind" {
		t.Errorf("A tagging: %+v", a.Tagging)
	}
	b := mustDecl(t, g, "acme", "B")
	if b.Tagging.Mode != resolve.TagAdjacent || b.Tagging.ContentKey != "data" {
		t.Errorf("B tagging: %+v", b.Tagging)
	}
}

func TestTaggingKeyCollision(t *testing.T) {
	g, bag := compile(t, `
namespace acme;
#[tag(name = "kind")]
oneof Event { UserJoined { user_id: i64, kind: str } };
`)
	if !hasCode(bag, diag.TagKeyCollision) {
		t.Fatalf("want key collision, got %v", codes(bag))
	}
	if _, ok := g.Lookup("acme", "Event"); ok {
		t.Error("rejected declaration must not stay in the graph")
	}
}

func TestTaggingInternalOnTuple(t *testing.T) {
	_, bag := compile(t, `
namespace acme;
#[tag(name = "kind")]
oneof Event { Data(str) };
`)
	if !hasCode(bag, diag.TagInternalOnTuple) {
		t.Fatalf("want internal-on-tuple, got %v", codes(bag))
	}
}

func TestTaggingAdjacentKeyClash(t *testing.T) {
	_, bag := compile(t, `
namespace acme;
#[tag(name = "k", content = "k")]
oneof Event { Ping };
`)
	if !hasCode(bag, diag.TagAdjacentKeyClash) {
		t.Fatalf("want adjacent key clash, got %v", codes(bag))
	}
}

func TestTaggingMisplaced(t *testing.T) {
	_, bag := compile(t, `
namespace acme;
#[tag(name = "k")]
struct S { x: i32 };
`)
	if !hasCode(bag, diag.TagMisplacedAttr) {
		t.Fatalf("want misplaced attr, got %v", codes(bag))
	}
}

func TestTaggingNonStringParam(t *testing.T) {
	_, bag := compile(t, `
namespace acme;
#[tag(name = 5)]
oneof Event { Ping };
`)
	if !hasCode(bag, diag.TagParamNotString) {
		t.Fatalf("want non-string param, got %v", codes(bag))
	}
}

func TestOperationErrorBinding(t *testing.T) {
	g, bag := compile(t, `
namespace acme;
error ApiError { Internal };
struct User { id: i64 };
operation get_user(id: i64) -> User!;
`)
	if bag.HasErrors() {
		t.Fatalf("diagnostics: %v", codes(bag))
	}
	op := mustDecl(t, g, "acme", "get_user")
	if !op.Fallible || !op.ErrDecl.IsValid() {
		t.Fatalf("operation: %+v", op)
	}
	if g.Decl(op.ErrDecl).Name != "ApiError" {
		t.Error("wrong error binding")
	}
}

func TestOperationMissingErrorType(t *testing.T) {
	_, bag := compile(t, `
namespace acme;
struct User { id: i64 };
operation get_user(id: i64) -> User!;
`)
	if !hasCode(bag, diag.TyMissingErrorType) {
		t.Fatalf("want missing error type, got %v", codes(bag))
	}
}

func TestOperationMultipleErrorTypes(t *testing.T) {
	_, bag := compile(t, `
namespace acme;
error E1 { A };
error E2 { B };
operation op(x: i32) -> i32!;
`)
	if !hasCode(bag, diag.TyMultipleErrorType) {
		t.Fatalf("want multiple error types, got %v", codes(bag))
	}
}

func TestOperationErrAttrDisambiguates(t *testing.T) {
	g, bag := compile(t, `
namespace acme;
#![err(E2)]
error E1 { A };
error E2 { B };
operation op(x: i32) -> i32!;
`)
	if bag.HasErrors() {
		t.Fatalf("diagnostics: %v", codes(bag))
	}
	op := mustDecl(t, g, "acme", "op")
	if g.Decl(op.ErrDecl).Name != "E2" {
		t.Error("#![err] should pick E2")
	}
}

func TestPlaceholderStopsCascade(t *testing.T) {
	_, bag := compile(t, `
namespace acme;
struct S { bad: Missing };
type P = Pick[S, bad];
struct Uses { s: S, p: P };
`)
	if countCode(bag, diag.ResUnknownType) != 1 {
		t.Fatalf("want a single root-cause diagnostic, got %v", codes(bag))
	}
}

func TestInlineStructBecomesAnonymousDecl(t *testing.T) {
	g, bag := compile(t, `
namespace acme;
struct S { meta: { created: datetime, by: str } };
`)
	if bag.HasErrors() {
		t.Fatalf("diagnostics: %v", codes(bag))
	}
	s := mustDecl(t, g, "acme", "S")
	meta := s.Fields[0].Type
	if meta.Kind != resolve.TypeDecl {
		t.Fatalf("meta type: %+v", meta)
	}
	anon := g.Decl(meta.Decl)
	if anon.Name != "" || anon.Kind != resolve.KindStruct || len(anon.Fields) != 2 {
		t.Fatalf("anonymous struct: %+v", anon)
	}
}

func TestSynthesizedUnionInheritsTagging(t *testing.T) {
	g, bag := compile(t, `
namespace acme;
#[tag(name = "kind", content = "data")]
oneof Status { Pending, Active, Deleted };
type Closed = Extract[Status, Deleted];
`)
	if bag.HasErrors() {
		t.Fatalf("diagnostics: %v", codes(bag))
	}
	closed := aliasTarget(t, g, "acme", "Closed")
	if closed.Tagging.Mode != resolve.TagAdjacent {
		t.Errorf("synthesized union tagging: %+v", closed.Tagging)
	}
}

func TestEvaluationCacheReusesResults(t *testing.T) {
	g, bag := compile(t, `
namespace acme;
struct T { a: i32, b: str };
type P1 = Pick[T, a];
type P2 = Pick[T, a];
`)
	if bag.HasErrors() {
		t.Fatalf("diagnostics: %v", codes(bag))
	}
	p1 := mustDecl(t, g, "acme", "P1")
	p2 := mustDecl(t, g, "acme", "P2")
	if p1.Alias.Decl != p2.Alias.Decl {
		t.Error("identical applications should share the synthesized declaration")
	}
}
