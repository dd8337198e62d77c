package resolve

import (
	"sort"
	"strconv"

	"ksc/internal/ast"
	"ksc/internal/diag"
	"ksc/internal/source"
)

// evalTypeExpr evaluates one structural operator application. The result
// is a synthesized anonymous declaration (or, for ArrayItem, the unwrapped
// element type). Evaluation is deterministic and cached by
// (operator, operand id, selector set).
func (r *resolver) evalTypeExpr(b *ast.Builder, sc *scope, ref *ast.TypeRef) Type {
	operand := r.resolveType(b, sc, ref.Elem)
	if operand.Kind == TypeInvalid {
		return operand
	}
	operand = r.expandAlias(operand)
	if operand.Kind == TypeInvalid {
		return operand
	}

	if ref.Op == ast.OpArrayItem {
		return r.evalArrayItem(operand, ref.Span)
	}

	if operand.Kind != TypeDecl {
		diag.ReportError(r.rep, diag.TexprKindMismatch, ref.Span,
			ref.Op.String()+" operand must be a declaration")
		return Type{Kind: TypeInvalid}
	}
	op := r.graph.Decl(operand.Decl)
	if op.Kind == KindPlaceholder {
		return Type{Kind: TypeInvalid}
	}

	selectors, selSpans := collectSelectors(b, ref)

	switch ref.Op {
	case ast.OpPick, ast.OpOmit, ast.OpPartial, ast.OpRequired:
		if op.Kind != KindStruct {
			diag.ReportError(r.rep, diag.TexprKindMismatch, ref.Span,
				ref.Op.String()+" operand must be a struct, got "+op.Kind.String())
			return Type{Kind: TypeInvalid}
		}
		return r.evalStructOp(ref.Op, operand.Decl, op, selectors, selSpans, ref.Span, sc.path)
	case ast.OpExclude, ast.OpExtract:
		if op.Kind != KindOneof && op.Kind != KindError {
			diag.ReportError(r.rep, diag.TexprKindMismatch, ref.Span,
				ref.Op.String()+" operand must be a oneof or error, got "+op.Kind.String())
			return Type{Kind: TypeInvalid}
		}
		return r.evalVariantOp(ref.Op, operand.Decl, op, selectors, selSpans, ref.Span, sc.path)
	}
	return Type{Kind: TypeInvalid}
}

func (r *resolver) evalArrayItem(operand Type, span source.Span) Type {
	if operand.Kind == TypeDecl {
		// a declaration is never an array
		d := r.graph.Decl(operand.Decl)
		if d.Kind == KindPlaceholder {
			return Type{Kind: TypeInvalid}
		}
	}
	if operand.Kind != TypeArray {
		diag.ReportError(r.rep, diag.TexprKindMismatch, span,
			"ArrayItem operand must be an array")
		return Type{Kind: TypeInvalid}
	}
	// unwraps exactly one level per application
	return *operand.Elem
}

func collectSelectors(b *ast.Builder, ref *ast.TypeRef) ([]string, map[string]source.Span) {
	names := make([]string, 0, len(ref.Selectors))
	spans := make(map[string]source.Span, len(ref.Selectors))
	for _, sel := range ref.Selectors {
		name := b.Name(sel.Name)
		if _, dup := spans[name]; dup {
			continue
		}
		spans[name] = sel.Span
		names = append(names, name)
	}
	return names, spans
}

func cacheKey(op ast.TypeExprOp, operand DeclID, selectors []string) string {
	sorted := append([]string(nil), selectors...)
	sort.Strings(sorted)
	key := op.String() + "|" + strconv.FormatUint(uint64(operand), 10)
	for _, s := range sorted {
		key += "|" + s
	}
	return key
}

func (r *resolver) evalStructOp(
	op ast.TypeExprOp, operandID DeclID, operand *Decl,
	selectors []string, selSpans map[string]source.Span,
	span source.Span, nsPath string,
) Type {
	needSelectors := op == ast.OpPick || op == ast.OpOmit
	if needSelectors && len(selectors) == 0 {
		diag.ReportError(r.rep, diag.TexprEmptySelectors, span,
			op.String()+" needs at least one field selector")
		return Type{Kind: TypeInvalid}
	}

	key := cacheKey(op, operandID, selectors)
	if id, ok := r.cache[key]; ok {
		return Type{Kind: TypeDecl, Decl: id}
	}

	selected := make(map[string]bool, len(selectors))
	for _, s := range selectors {
		if !hasField(operand.Fields, s) {
			diag.ReportError(r.rep, diag.TexprUnknownField, selSpans[s],
				"struct '"+operand.Name+"' has no field '"+s+"'")
			continue
		}
		selected[s] = true
	}

	var fields []Field
	for _, f := range operand.Fields {
		switch op {
		case ast.OpPick:
			if selected[f.Name] {
				fields = append(fields, f)
			}
		case ast.OpOmit:
			if !selected[f.Name] {
				fields = append(fields, f)
			}
		case ast.OpPartial:
			nf := f
			if len(selectors) == 0 || selected[f.Name] {
				nf.Optional = true
			}
			fields = append(fields, nf)
		case ast.OpRequired:
			nf := f
			if len(selectors) == 0 || selected[f.Name] {
				nf.Optional = false
			}
			fields = append(fields, nf)
		}
	}
	if op == ast.OpOmit && len(fields) == 0 {
		r.rep.Report(diag.TexprNoFieldsRemain, diag.SevWarning, span,
			"Omit removes every field of '"+operand.Name+"'", nil)
	}

	id := r.graph.add(&Decl{
		Kind:      KindStruct,
		Namespace: nsPath,
		Span:      span,
		Fields:    fields,
		SynthFrom: operandID,
	})
	r.state[id] = fillDone
	r.cache[key] = id
	return Type{Kind: TypeDecl, Decl: id}
}

func (r *resolver) evalVariantOp(
	op ast.TypeExprOp, operandID DeclID, operand *Decl,
	selectors []string, selSpans map[string]source.Span,
	span source.Span, nsPath string,
) Type {
	if len(selectors) == 0 {
		diag.ReportError(r.rep, diag.TexprEmptySelectors, span,
			op.String()+" needs at least one variant selector")
		return Type{Kind: TypeInvalid}
	}
	if id, ok := r.cache[cacheKey(op, operandID, selectors)]; ok {
		return Type{Kind: TypeDecl, Decl: id}
	}

	selected := make(map[string]bool, len(selectors))
	for _, s := range selectors {
		if !hasVariant(operand.Variants, s) {
			diag.ReportError(r.rep, diag.TexprUnknownVariant, selSpans[s],
				operand.Kind.String()+" '"+operand.Name+"' has no variant '"+s+"'")
			continue
		}
		selected[s] = true
	}

	var variants []Variant
	for _, v := range operand.Variants {
		keep := selected[v.Name]
		if op == ast.OpExclude {
			keep = !keep
		}
		if keep {
			variants = append(variants, v)
		}
	}

	id := r.graph.add(&Decl{
		Kind:      operand.Kind,
		Namespace: nsPath,
		Span:      span,
		Variants:  variants,
		SynthFrom: operandID,
	})
	r.state[id] = fillDone
	r.cache[cacheKey(op, operandID, selectors)] = id
	return Type{Kind: TypeDecl, Decl: id}
}

func hasField(fields []Field, name string) bool {
	for _, f := range fields {
		if f.Name == name {
			return true
		}
	}
	return false
}

func hasVariant(variants []Variant, name string) bool {
	for _, v := range variants {
		if v.Name == name {
			return true
		}
	}
	return false
}
