package resolve

import (
	"ksc/internal/ast"
	"ksc/internal/diag"
)

// resolveType binds one AST type reference in the given scope. Failures
// report once and return TypeInvalid; dependents stay quiet.
func (r *resolver) resolveType(b *ast.Builder, sc *scope, id ast.TypeID) Type {
	ref := b.Types.Get(id)
	if ref == nil {
		return Type{Kind: TypeInvalid}
	}

	switch ref.Kind {
	case ast.TypeName:
		return r.resolveName(b, sc, ref)

	case ast.TypeArray:
		elem := r.resolveType(b, sc, ref.Elem)
		return Type{Kind: TypeArray, Elem: &elem, HasSize: ref.HasSize, Size: ref.Size}

	case ast.TypeInlineOneof:
		arms := make([]Type, 0, len(ref.Arms))
		for _, arm := range ref.Arms {
			arms = append(arms, r.resolveType(b, sc, arm))
		}
		return Type{Kind: TypeInlineOneof, Arms: arms}

	case ast.TypeInlineStruct:
		// inline structs become separate anonymous declarations
		id := r.graph.add(&Decl{
			Kind:      KindStruct,
			Namespace: sc.path,
			Span:      ref.Span,
			Fields:    r.resolveFields(b, sc, ref.Fields),
		})
		r.state[id] = fillDone
		return Type{Kind: TypeDecl, Decl: id}

	case ast.TypeExpr:
		return r.evalTypeExpr(b, sc, ref)

	case ast.TypeUnionOr:
		return r.evalUnionOr(b, sc, ref)
	}
	return Type{Kind: TypeInvalid}
}

// resolveName resolves a possibly dotted path. Single segments try the
// primitive catalog first, then the namespace's own declarations, then
// selectively imported names. Qualified paths resolve only through the
// namespace itself or a whole-namespace import; an unimported namespace
// does not resolve even when it exists.
func (r *resolver) resolveName(b *ast.Builder, sc *scope, ref *ast.TypeRef) Type {
	if len(ref.Path) == 1 {
		name := b.Name(ref.Path[0])
		if r.cat.Has(name) {
			return Type{Kind: TypePrimitive, Prim: name}
		}
		if id, ok := sc.local[name]; ok {
			return Type{Kind: TypeDecl, Decl: id}
		}
		if id, ok := sc.selective[name]; ok {
			return Type{Kind: TypeDecl, Decl: id}
		}
		diag.ReportError(r.rep, diag.ResUnknownType, ref.PathSpan,
			"unknown type '"+name+"'")
		return Type{Kind: TypeInvalid}
	}

	full := b.PathString(ref.Path)
	name := b.Name(ref.Path[len(ref.Path)-1])
	nsPath := full[:len(full)-len(name)-1]

	if !sc.qualified[nsPath] {
		diag.ReportError(r.rep, diag.ResUnknownType, ref.PathSpan,
			"unknown type '"+full+"' (namespace '"+nsPath+"' is not imported)")
		return Type{Kind: TypeInvalid}
	}
	target, ok := r.ids[nsPath]
	if !ok {
		diag.ReportError(r.rep, diag.ResUnknownType, ref.PathSpan,
			"unknown type '"+full+"'")
		return Type{Kind: TypeInvalid}
	}
	id, ok := target[name]
	if !ok {
		diag.ReportError(r.rep, diag.ResUnknownType, ref.PathSpan,
			"namespace '"+nsPath+"' has no declaration '"+name+"'")
		return Type{Kind: TypeInvalid}
	}
	return Type{Kind: TypeDecl, Decl: id}
}

// expandAlias follows alias targets until it reaches a non-alias. The
// visited set bounds arbitrary-length cycles; a cycle reports once and
// yields TypeInvalid.
func (r *resolver) expandAlias(t Type) Type {
	visited := make(map[DeclID]bool)
	for t.Kind == TypeDecl {
		if visited[t.Decl] {
			return Type{Kind: TypeInvalid}
		}
		visited[t.Decl] = true
		if !r.fillDecl(t.Decl) {
			return Type{Kind: TypeInvalid}
		}
		d := r.graph.Decl(t.Decl)
		if d.Kind != KindAlias {
			return t
		}
		t = d.Alias
	}
	return t
}
