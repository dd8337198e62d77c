package resolve

import (
	"ksc/internal/assemble"
	"ksc/internal/ast"
	"ksc/internal/catalog"
	"ksc/internal/diag"
)

type fillState uint8

const (
	fillPending fillState = iota
	fillInProgress
	fillDone
)

// scope is the name-resolution environment of one namespace: its own
// declarations, the names pulled in by selective imports, and the
// namespaces usable for qualified references.
type scope struct {
	path      string
	local     map[string]DeclID
	selective map[string]DeclID
	qualified map[string]bool // whole-namespace imports
}

type resolver struct {
	graph *Graph
	cat   *catalog.Catalog
	rep   diag.Reporter

	namespaces map[string]*assemble.Namespace
	order      []string

	ids    map[string]map[string]DeclID // ns path -> decl name -> id
	refs   map[DeclID]assemble.DeclRef  // back-edges into the ASTs
	scopes map[string]*scope

	state map[DeclID]fillState
	cache map[string]DeclID // evaluation cache for synthesized decls
}

// Resolve builds the resolved graph for the given packages. The catalog is
// an explicit dependency so tests can swap in a smaller one.
func Resolve(pkgs []*assemble.Package, cat *catalog.Catalog, rep diag.Reporter) *Graph {
	r := &resolver{
		graph:      NewGraph(),
		cat:        cat,
		rep:        rep,
		namespaces: make(map[string]*assemble.Namespace),
		ids:        make(map[string]map[string]DeclID),
		refs:       make(map[DeclID]assemble.DeclRef),
		scopes:     make(map[string]*scope),
		state:      make(map[DeclID]fillState),
		cache:      make(map[string]DeclID),
	}

	for _, pkg := range pkgs {
		for _, path := range pkg.Order {
			ns := pkg.Namespaces[path]
			if ns.Failed {
				continue
			}
			r.namespaces[path] = ns
			r.order = append(r.order, path)
		}
	}

	detectImportCycles(r.namespaces, rep)
	for _, path := range r.order {
		if r.namespaces[path].Failed {
			delete(r.namespaces, path)
		}
	}

	r.declareAll()
	r.buildScopes()
	for _, path := range r.order {
		ns, ok := r.namespaces[path]
		if !ok {
			continue
		}
		for _, ref := range ns.Decls {
			name := ref.Builder.Name(ref.Decl().Name)
			r.fillDecl(r.ids[path][name])
		}
	}
	r.checkAliasCycles()
	r.resolveOperationErrors()
	r.resolveTagging()
	return r.graph
}

// declareAll is pass 1: every surviving declaration gets its stable id and
// graph shell before any reference is resolved.
func (r *resolver) declareAll() {
	for _, path := range r.order {
		ns, ok := r.namespaces[path]
		if !ok {
			continue
		}
		gns := &Namespace{
			Path:       path,
			HasVersion: ns.HasVersion,
			Version:    ns.Version,
			Names:      make(map[string]DeclID, len(ns.Decls)),
		}
		r.graph.Namespaces[path] = gns
		r.graph.NsOrder = append(r.graph.NsOrder, path)
		r.ids[path] = make(map[string]DeclID, len(ns.Decls))

		for _, ref := range ns.Decls {
			decl := ref.Decl()
			name := ref.Builder.Name(decl.Name)
			if r.cat.Has(name) {
				// single-segment lookup is catalog-first, so the decl
				// would be unreachable by its bare name
				diag.ReportError(r.rep, diag.TyDeclConflict, decl.NameSpan,
					"declaration '"+name+"' conflicts with built-in type")
			}
			id := r.graph.add(&Decl{
				Kind:      declKind(decl.Kind),
				Name:      name,
				Namespace: path,
				Span:      decl.NameSpan,
				Doc:       decl.Doc,
			})
			r.ids[path][name] = id
			r.refs[id] = ref
			r.state[id] = fillPending
			gns.Names[name] = id
			gns.Order = append(gns.Order, name)
		}
	}
}

func declKind(k ast.DeclKind) DeclKind {
	switch k {
	case ast.DeclStruct:
		return KindStruct
	case ast.DeclEnum:
		return KindEnum
	case ast.DeclOneof:
		return KindOneof
	case ast.DeclError:
		return KindError
	case ast.DeclAlias:
		return KindAlias
	case ast.DeclOperation:
		return KindOperation
	}
	return KindPlaceholder
}

func (r *resolver) buildScopes() {
	for _, path := range r.order {
		ns, ok := r.namespaces[path]
		if !ok {
			continue
		}
		sc := &scope{
			path:      path,
			local:     r.ids[path],
			selective: make(map[string]DeclID),
			qualified: map[string]bool{path: true},
		}
		for _, imp := range ns.Imports {
			target, ok := r.ids[imp.Path]
			if !ok {
				continue // reported by Link or cycle detection
			}
			if len(imp.Names) == 0 {
				sc.qualified[imp.Path] = true
				continue
			}
			for _, n := range imp.Names {
				if id, ok := target[n.Name]; ok {
					sc.selective[n.Name] = id
				}
			}
		}
		r.scopes[path] = sc
	}
}

// fillDecl resolves one declaration's body on demand. Structural operators
// pull in their operands through here, so evaluation order follows the
// dependency structure; a re-entrant fill is a true expansion cycle.
func (r *resolver) fillDecl(id DeclID) bool {
	switch r.state[id] {
	case fillDone:
		return r.graph.Decl(id).Kind != KindPlaceholder
	case fillInProgress:
		d := r.graph.Decl(id)
		diag.ReportError(r.rep, diag.ResAliasCycle, d.Span,
			"type expansion cycle through '"+d.Name+"'")
		r.demote(id)
		return false
	}
	r.state[id] = fillInProgress

	ref := r.refs[id]
	b := ref.Builder
	decl := ref.Decl()
	out := r.graph.Decl(id)
	sc := r.scopes[out.Namespace]

	switch decl.Kind {
	case ast.DeclStruct:
		body := b.Items.Structs.Get(decl.Payload)
		out.Fields = r.resolveFields(b, sc, body.Fields)
	case ast.DeclEnum:
		body := b.Items.Enums.Get(decl.Payload)
		out.EnumVariants = resolveEnumVariants(b, body)
	case ast.DeclOneof, ast.DeclError:
		body := b.Items.Oneofs.Get(decl.Payload)
		out.Variants = r.resolveVariants(b, sc, body.Variants)
	case ast.DeclAlias:
		body := b.Items.Aliases.Get(decl.Payload)
		out.Alias = r.resolveType(b, sc, body.Type)
	case ast.DeclOperation:
		body := b.Items.Operations.Get(decl.Payload)
		for _, pid := range body.Params {
			p := b.Items.Params.Get(uint32(pid))
			out.Params = append(out.Params, Param{
				Name: b.Name(p.Name),
				Type: r.resolveType(b, sc, p.Type),
				Span: p.Span,
			})
		}
		out.Ret = r.resolveType(b, sc, body.Ret)
		out.Fallible = body.Fallible
	}

	if r.state[id] == fillInProgress {
		r.state[id] = fillDone
	}
	return r.graph.Decl(id).Kind != KindPlaceholder
}

// demote replaces a failed declaration with a placeholder so later
// references bind without re-reporting.
func (r *resolver) demote(id DeclID) {
	d := r.graph.Decl(id)
	*d = Decl{
		Kind:      KindPlaceholder,
		Name:      d.Name,
		Namespace: d.Namespace,
		Span:      d.Span,
	}
	r.state[id] = fillDone
}

func (r *resolver) resolveFields(b *ast.Builder, sc *scope, fields []ast.FieldID) []Field {
	out := make([]Field, 0, len(fields))
	seen := make(map[string]bool, len(fields))
	for _, fid := range fields {
		f := b.Items.Fields.Get(uint32(fid))
		name := b.Name(f.Name)
		if seen[name] {
			continue // duplicate, reported during assembly
		}
		seen[name] = true
		out = append(out, Field{
			Name:     name,
			Optional: f.Optional,
			Type:     r.resolveType(b, sc, f.Type),
			Span:     f.Span,
		})
	}
	return out
}

func (r *resolver) resolveVariants(b *ast.Builder, sc *scope, variants []ast.VariantID) []Variant {
	out := make([]Variant, 0, len(variants))
	seen := make(map[string]bool, len(variants))
	for _, vid := range variants {
		v := b.Items.Variants.Get(uint32(vid))
		name := b.Name(v.Name)
		if seen[name] {
			continue
		}
		seen[name] = true
		rv := Variant{Name: name, Span: v.Span}
		switch v.Kind {
		case ast.VariantTuple:
			rv.Kind = VariantTuple
			rv.Tuple = r.resolveType(b, sc, v.Tuple)
		case ast.VariantStruct:
			rv.Kind = VariantStruct
			rv.Fields = r.resolveFields(b, sc, v.Fields)
		default:
			rv.Kind = VariantUnit
		}
		out = append(out, rv)
	}
	return out
}

// resolveEnumVariants applies the discriminant defaulting rules: integer
// enums auto-increment, string enums fall back to the variant name.
func resolveEnumVariants(b *ast.Builder, body *ast.EnumBody) []EnumVariant {
	stringEnum := false
	for _, vid := range body.Variants {
		if b.Items.Variants.Get(uint32(vid)).Discrim == ast.DiscrimString {
			stringEnum = true
			break
		}
	}
	out := make([]EnumVariant, 0, len(body.Variants))
	next := int64(0)
	for _, vid := range body.Variants {
		v := b.Items.Variants.Get(uint32(vid))
		ev := EnumVariant{Name: b.Name(v.Name), Span: v.Span, IsString: stringEnum}
		if stringEnum {
			ev.StrVal = ev.Name
			if v.Discrim == ast.DiscrimString {
				ev.StrVal = b.Name(v.StrVal)
			}
		} else {
			ev.IntVal = next
			if v.Discrim == ast.DiscrimInt {
				ev.IntVal = v.IntVal
			}
			next = ev.IntVal + 1
		}
		out = append(out, ev)
	}
	return out
}

// checkAliasCycles verifies every alias chain terminates. fillDecl already
// catches cycles that pass through structural operators; plain alias
// chains (`type A = B; type B = A;`) resolve without re-entering fillDecl,
// so they are walked explicitly here.
func (r *resolver) checkAliasCycles() {
	for _, path := range r.graph.NsOrder {
		ns := r.graph.Namespaces[path]
		for _, name := range ns.Order {
			id := ns.Names[name]
			d := r.graph.Decl(id)
			if d.Kind != KindAlias {
				continue
			}
			visited := map[DeclID]bool{id: true}
			cur := d.Alias
			for cur.Kind == TypeDecl {
				next := r.graph.Decl(cur.Decl)
				if next.Kind != KindAlias {
					break
				}
				if visited[cur.Decl] {
					diag.ReportError(r.rep, diag.ResAliasCycle, d.Span,
						"type alias cycle through '"+d.Name+"'")
					r.demote(id)
					break
				}
				visited[cur.Decl] = true
				cur = next.Alias
			}
		}
	}
}

// resolveOperationErrors binds fallible operations to their namespace's
// error declaration: the #![err] attribute wins, a namespace with exactly
// one error declaration binds implicitly.
func (r *resolver) resolveOperationErrors() {
	for _, path := range r.graph.NsOrder {
		ans, ok := r.namespaces[path]
		if !ok {
			continue
		}
		ns := r.graph.Namespaces[path]

		errDecl := NoDeclID
		errCount := 0
		for _, name := range ns.Order {
			if r.graph.Decl(ns.Names[name]).Kind == KindError {
				errDecl = ns.Names[name]
				errCount++
			}
		}

		declared := NoDeclID
		if ans.ErrName != "" {
			id, ok := ns.Names[ans.ErrName]
			if !ok || r.graph.Decl(id).Kind != KindError {
				diag.ReportError(r.rep, diag.MetaInvalidErrAttr, ans.ErrSpan,
					"#![err] does not name an error declaration in namespace '"+path+"'")
			} else {
				declared = id
			}
		}

		for _, name := range ns.Order {
			id := ns.Names[name]
			op := r.graph.Decl(id)
			if op.Kind != KindOperation || !op.Fallible {
				continue
			}
			switch {
			case declared.IsValid():
				op.ErrDecl = declared
			case errCount == 1:
				op.ErrDecl = errDecl
			case errCount == 0:
				diag.ReportError(r.rep, diag.TyMissingErrorType, op.Span,
					"fallible operation '"+name+"' needs an error type in namespace '"+path+"'")
			default:
				diag.ReportError(r.rep, diag.TyMultipleErrorType, op.Span,
					"namespace '"+path+"' has multiple error types; disambiguate with #![err]")
			}
		}
	}
}
