package resolve

import (
	"strconv"

	"ksc/internal/ast"
	"ksc/internal/diag"
	"ksc/internal/source"
)

// evalUnionOr folds an `A &| B &| C` chain left-associatively into a
// synthesized struct declaration.
func (r *resolver) evalUnionOr(b *ast.Builder, sc *scope, ref *ast.TypeRef) Type {
	acc := r.resolveType(b, sc, ref.Arms[0])
	for _, armID := range ref.Arms[1:] {
		next := r.resolveType(b, sc, armID)
		acc = r.mergeStructs(acc, next, ref.Span, sc.path)
	}
	return acc
}

// unionOperand expands aliases and requires a struct declaration.
func (r *resolver) unionOperand(t Type, span source.Span) (DeclID, *Decl, bool) {
	t = r.expandAlias(t)
	if t.Kind == TypeInvalid {
		return NoDeclID, nil, false
	}
	if t.Kind != TypeDecl {
		diag.ReportError(r.rep, diag.UnionOperandNotStruct, span,
			"'&|' operands must be structs")
		return NoDeclID, nil, false
	}
	d := r.graph.Decl(t.Decl)
	if d.Kind == KindPlaceholder {
		return NoDeclID, nil, false
	}
	if d.Kind != KindStruct {
		diag.ReportError(r.rep, diag.UnionOperandNotStruct, span,
			"'&|' operands must be structs, got "+d.Kind.String())
		return NoDeclID, nil, false
	}
	return t.Decl, d, true
}

// mergeStructs merges two struct declarations field-wise: left's fields
// first in left's order, then right-only fields in right's order. Same
// name with the same resolved type deduplicates; a type mismatch turns the
// field into an implicit two-arm oneof with a warning. A field optional on
// either side stays optional.
func (r *resolver) mergeStructs(left, right Type, span source.Span, nsPath string) Type {
	leftID, l, ok := r.unionOperand(left, span)
	if !ok {
		return Type{Kind: TypeInvalid}
	}
	rightID, rt, ok := r.unionOperand(right, span)
	if !ok {
		return Type{Kind: TypeInvalid}
	}

	key := "unionor|" + strconv.FormatUint(uint64(leftID), 10) +
		"|" + strconv.FormatUint(uint64(rightID), 10)
	if id, ok := r.cache[key]; ok {
		return Type{Kind: TypeDecl, Decl: id}
	}

	rightByName := make(map[string]Field, len(rt.Fields))
	for _, f := range rt.Fields {
		rightByName[f.Name] = f
	}

	var fields []Field
	for _, lf := range l.Fields {
		rf, both := rightByName[lf.Name]
		if !both {
			fields = append(fields, lf)
			continue
		}
		merged := lf
		merged.Optional = lf.Optional || rf.Optional
		if !lf.Type.Equal(rf.Type) {
			merged.Type = Type{Kind: TypeInlineOneof, Arms: []Type{lf.Type, rf.Type}}
			r.rep.Report(diag.UnionImplicitField, diag.SevWarning, span,
				"field '"+lf.Name+"' has different types on the two sides of '&|'; it becomes an implicit oneof", nil)
		}
		fields = append(fields, merged)
	}
	leftNames := make(map[string]bool, len(l.Fields))
	for _, lf := range l.Fields {
		leftNames[lf.Name] = true
	}
	for _, rf := range rt.Fields {
		if !leftNames[rf.Name] {
			fields = append(fields, rf)
		}
	}

	id := r.graph.add(&Decl{
		Kind:      KindStruct,
		Namespace: nsPath,
		Span:      span,
		Fields:    fields,
	})
	r.state[id] = fillDone
	r.cache[key] = id
	return Type{Kind: TypeDecl, Decl: id}
}
