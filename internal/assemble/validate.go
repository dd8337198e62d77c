package assemble

import (
	"strconv"

	"ksc/internal/ast"
	"ksc/internal/diag"
)

// validateDecls runs the structural checks that need no cross-namespace
// information: duplicate field names (including inline structs), duplicate
// variant names, duplicate enum discriminants.
func (a *assembler) validateDecls() {
	for _, path := range a.pkg.Order {
		ns := a.pkg.Namespaces[path]
		for _, ref := range ns.Decls {
			a.validateDecl(ref)
		}
	}
}

func (a *assembler) validateDecl(ref DeclRef) {
	b := ref.Builder
	decl := ref.Decl()
	switch decl.Kind {
	case ast.DeclStruct:
		body := b.Items.Structs.Get(decl.Payload)
		a.checkFields(b, body.Fields)
	case ast.DeclEnum:
		a.checkEnum(b, b.Items.Enums.Get(decl.Payload))
	case ast.DeclOneof, ast.DeclError:
		a.checkUnionVariants(b, b.Items.Oneofs.Get(decl.Payload).Variants)
	case ast.DeclAlias:
		a.checkType(b, b.Items.Aliases.Get(decl.Payload).Type)
	case ast.DeclOperation:
		body := b.Items.Operations.Get(decl.Payload)
		for _, pid := range body.Params {
			a.checkType(b, b.Items.Params.Get(uint32(pid)).Type)
		}
		a.checkType(b, body.Ret)
	}
}

func (a *assembler) checkFields(b *ast.Builder, fields []ast.FieldID) {
	seen := make(map[string]ast.FieldID, len(fields))
	for _, fid := range fields {
		f := b.Items.Fields.Get(uint32(fid))
		name := b.Name(f.Name)
		if prevID, ok := seen[name]; ok {
			prev := b.Items.Fields.Get(uint32(prevID))
			a.rep.Report(diag.TyDuplicateField, diag.SevError, f.NameSpan,
				"duplicate field '"+name+"'",
				[]diag.Note{{Span: prev.NameSpan, Msg: "first declared here"}})
			continue
		}
		seen[name] = fid
		a.checkType(b, f.Type)
	}
}

func (a *assembler) checkUnionVariants(b *ast.Builder, variants []ast.VariantID) {
	seen := make(map[string]ast.VariantID, len(variants))
	for _, vid := range variants {
		v := b.Items.Variants.Get(uint32(vid))
		name := b.Name(v.Name)
		if prevID, ok := seen[name]; ok {
			prev := b.Items.Variants.Get(uint32(prevID))
			a.rep.Report(diag.TyDuplicateVariant, diag.SevError, v.NameSpan,
				"duplicate variant '"+name+"'",
				[]diag.Note{{Span: prev.NameSpan, Msg: "first declared here"}})
			continue
		}
		seen[name] = vid
		switch v.Kind {
		case ast.VariantTuple:
			a.checkType(b, v.Tuple)
		case ast.VariantStruct:
			a.checkFields(b, v.Fields)
		}
	}
}

// checkEnum verifies variant name uniqueness and discriminant uniqueness.
// Integer enums auto-increment from 0 (or from the last explicit value);
// in a string enum an unadorned variant uses its own name as the value.
func (a *assembler) checkEnum(b *ast.Builder, body *ast.EnumBody) {
	names := make(map[string]bool, len(body.Variants))
	stringEnum := false
	for _, vid := range body.Variants {
		if b.Items.Variants.Get(uint32(vid)).Discrim == ast.DiscrimString {
			stringEnum = true
			break
		}
	}

	seenInt := make(map[int64]ast.VariantID)
	seenStr := make(map[string]ast.VariantID)
	next := int64(0)
	for _, vid := range body.Variants {
		v := b.Items.Variants.Get(uint32(vid))
		name := b.Name(v.Name)
		if names[name] {
			diag.ReportError(a.rep, diag.TyDuplicateVariant, v.NameSpan,
				"duplicate enum variant '"+name+"'")
			continue
		}
		names[name] = true

		if stringEnum {
			val := name
			if v.Discrim == ast.DiscrimString {
				val = b.Name(v.StrVal)
			} else if v.Discrim == ast.DiscrimInt {
				diag.ReportError(a.rep, diag.TyDuplicateDiscrim, v.Span,
					"integer discriminant in a string enum")
				continue
			}
			if prev, ok := seenStr[val]; ok {
				p := b.Items.Variants.Get(uint32(prev))
				a.rep.Report(diag.TyDuplicateDiscrim, diag.SevError, v.Span,
					"duplicate discriminant \""+val+"\"",
					[]diag.Note{{Span: p.Span, Msg: "first used here"}})
			} else {
				seenStr[val] = vid
			}
			continue
		}

		val := next
		if v.Discrim == ast.DiscrimInt {
			val = v.IntVal
		}
		next = val + 1
		if prev, ok := seenInt[val]; ok {
			p := b.Items.Variants.Get(uint32(prev))
			a.rep.Report(diag.TyDuplicateDiscrim, diag.SevError, v.Span,
				"duplicate discriminant "+strconv.FormatInt(val, 10),
				[]diag.Note{{Span: p.Span, Msg: "first used here"}})
		} else {
			seenInt[val] = vid
		}
	}
}

// checkType recurses into inline structs so their field sets obey the same
// uniqueness rule as named structs.
func (a *assembler) checkType(b *ast.Builder, id ast.TypeID) {
	ref := b.Types.Get(id)
	if ref == nil {
		return
	}
	switch ref.Kind {
	case ast.TypeArray:
		a.checkType(b, ref.Elem)
	case ast.TypeInlineOneof, ast.TypeUnionOr:
		for _, arm := range ref.Arms {
			a.checkType(b, arm)
		}
	case ast.TypeInlineStruct:
		a.checkFields(b, ref.Fields)
	case ast.TypeExpr:
		a.checkType(b, ref.Elem)
	}
}
