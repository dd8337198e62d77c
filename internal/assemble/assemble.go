// Package assemble merges per-file ASTs into namespaces.
//
// Files of one package may contribute declarations to the same namespace;
// nested namespace blocks concatenate their paths. A namespace that fails
// assembly is marked and excluded from resolution, its siblings continue.
package assemble

import (
	"ksc/internal/ast"
	"ksc/internal/diag"
	"ksc/internal/source"
)

// FileAST is one parsed file together with the builder that owns its arenas.
type FileAST struct {
	Builder *ast.Builder
	File    ast.FileID
}

// DeclRef addresses a declaration inside its owning builder.
type DeclRef struct {
	Builder *ast.Builder
	ID      ast.DeclID
}

func (r DeclRef) Decl() *ast.Decl {
	return r.Builder.Items.Decls.Get(uint32(r.ID))
}

type ImportName struct {
	Name string
	Span source.Span
}

// Import is one `use` edge out of a namespace. Empty Names imports the
// whole target namespace.
type Import struct {
	Path  string
	Span  source.Span
	Names []ImportName
}

type Namespace struct {
	Path    string
	Decls   []DeclRef
	ByName  map[string]DeclRef
	Imports []Import

	HasVersion  bool
	Version     int64
	VersionSpan source.Span

	ErrName string
	ErrSpan source.Span

	// Failed namespaces are excluded from the resolved graph.
	Failed bool
}

type Package struct {
	Name       string
	Namespaces map[string]*Namespace
	// Order preserves first-contribution order for deterministic output.
	Order []string
}

func (p *Package) namespace(path string) *Namespace {
	if ns, ok := p.Namespaces[path]; ok {
		return ns
	}
	ns := &Namespace{Path: path, ByName: make(map[string]DeclRef)}
	p.Namespaces[path] = ns
	p.Order = append(p.Order, path)
	return ns
}

// Assemble groups the declarations of one package's files by namespace.
func Assemble(name string, files []FileAST, rep diag.Reporter) *Package {
	pkg := &Package{Name: name, Namespaces: make(map[string]*Namespace)}
	a := assembler{pkg: pkg, rep: rep}
	for _, f := range files {
		file := f.Builder.Files.Get(f.File)
		if file == nil {
			continue
		}
		a.b = f.Builder
		a.walkItems(file.Items, "")
	}
	a.validateDecls()
	return pkg
}

type assembler struct {
	pkg *Package
	b   *ast.Builder
	rep diag.Reporter
}

// walkItems processes one item list. scope is the namespace path in effect;
// a statement-form namespace declaration rebinds it for the remaining
// siblings, a block form scopes only its own items.
func (a *assembler) walkItems(items []ast.ItemID, scope string) {
	for _, itemID := range items {
		item := a.b.Items.Get(itemID)
		switch item.Kind {
		case ast.ItemNamespace:
			ns := a.b.Items.Namespace(itemID)
			path := a.b.PathString(ns.Path)
			if scope != "" {
				path = scope + "." + path
			}
			if ns.Block {
				a.walkItems(ns.Items, path)
			} else {
				scope = path
				a.pkg.namespace(scope)
			}
		case ast.ItemUse:
			use := a.b.Items.Use(itemID)
			if scope == "" {
				diag.ReportError(a.rep, diag.NsNotDeclared, item.Span,
					"use import before any namespace declaration")
				continue
			}
			imp := Import{Path: a.b.PathString(use.Path), Span: use.PathSpan}
			for _, n := range use.Names {
				imp.Names = append(imp.Names, ImportName{Name: a.b.Name(n.Name), Span: n.Span})
			}
			ns := a.pkg.namespace(scope)
			ns.Imports = append(ns.Imports, imp)
		case ast.ItemAttr:
			attr := a.b.Items.InnerAttr(itemID)
			if scope == "" {
				diag.ReportError(a.rep, diag.NsNotDeclared, attr.Span,
					"namespace attribute before any namespace declaration")
				continue
			}
			a.applyAttr(a.pkg.namespace(scope), attr)
		case ast.ItemDecl:
			declID, decl := a.b.Items.Decl(itemID)
			if scope == "" {
				diag.ReportError(a.rep, diag.NsNotDeclared, decl.NameSpan,
					"declaration before any namespace declaration")
				continue
			}
			a.addDecl(a.pkg.namespace(scope), DeclRef{Builder: a.b, ID: declID})
		}
	}
}

func (a *assembler) addDecl(ns *Namespace, ref DeclRef) {
	decl := ref.Decl()
	name := ref.Builder.Name(decl.Name)
	if prev, ok := ns.ByName[name]; ok {
		prevDecl := prev.Decl()
		a.rep.Report(diag.NsDuplicate, diag.SevError, decl.NameSpan,
			"duplicate declaration '"+name+"' in namespace '"+ns.Path+"'",
			[]diag.Note{{Span: prevDecl.NameSpan, Msg: "first declared here"}})
		return
	}
	ns.ByName[name] = ref
	ns.Decls = append(ns.Decls, ref)
}

// applyAttr handles `#![version(n)]` and `#![err(Name)]`.
func (a *assembler) applyAttr(ns *Namespace, attr *ast.Attr) {
	switch a.b.Name(attr.Name) {
	case "version":
		if len(attr.Args) != 1 || attr.Args[0].Kind != ast.ArgInt || attr.Args[0].IntVal < 0 {
			diag.ReportError(a.rep, diag.MetaInvalidVersion, attr.Span,
				"#![version] takes a single non-negative integer")
			return
		}
		v := attr.Args[0].IntVal
		if ns.HasVersion {
			if ns.Version != v {
				a.rep.Report(diag.MetaVersionConflict, diag.SevError, attr.Span,
					"conflicting #![version] values for namespace '"+ns.Path+"'",
					[]diag.Note{{Span: ns.VersionSpan, Msg: "previously set here"}})
				ns.Failed = true
			}
			return
		}
		ns.HasVersion = true
		ns.Version = v
		ns.VersionSpan = attr.Span
	case "err":
		if len(attr.Args) != 1 || attr.Args[0].Kind != ast.ArgIdent {
			diag.ReportError(a.rep, diag.MetaInvalidErrAttr, attr.Span,
				"#![err] takes a single error type name")
			return
		}
		name := a.b.Name(attr.Args[0].StrVal)
		if ns.ErrName != "" {
			if ns.ErrName != name {
				a.rep.Report(diag.MetaDuplicateAttr, diag.SevError, attr.Span,
					"conflicting #![err] attributes for namespace '"+ns.Path+"'",
					[]diag.Note{{Span: ns.ErrSpan, Msg: "previously set here"}})
			}
			return
		}
		ns.ErrName = name
		ns.ErrSpan = attr.Span
	}
}
