package resolve

import (
	"ksc/internal/assemble"
	"ksc/internal/ast"
	"ksc/internal/diag"
	"ksc/internal/source"
)

type tagState uint8

const (
	tagUnattributed tagState = iota
	tagSchemeParsed
	tagSchemeValidated
	tagSchemeRejected
)

// resolveTagging attaches a serialization scheme to every resolved
// oneof/error declaration. Declarations without an attribute use external
// tagging. A rejected scheme removes the declaration from its namespace.
func (r *resolver) resolveTagging() {
	// named declarations carry the attributes
	for _, path := range r.graph.NsOrder {
		ns := r.graph.Namespaces[path]
		for _, name := range ns.Order {
			id := ns.Names[name]
			d := r.graph.Decl(id)
			ref, ok := r.refs[id]
			if !ok {
				continue
			}
			switch d.Kind {
			case KindOneof, KindError:
				if r.tagDecl(d, ref) == tagSchemeRejected {
					r.demote(id)
					delete(ns.Names, name)
				}
			default:
				r.rejectMisplacedTags(d, ref)
			}
		}
	}

	// synthesized unions inherit the scheme of their source declaration
	for i := 1; i <= r.graph.Len(); i++ {
		d := r.graph.Decl(DeclID(i))
		if d.Name != "" || !d.SynthFrom.IsValid() {
			continue
		}
		if d.Kind == KindOneof || d.Kind == KindError {
			d.Tagging = r.graph.Decl(d.SynthFrom).Tagging
		}
	}
}

// rejectMisplacedTags reports #[tag] on declarations that cannot carry a
// tagging scheme.
func (r *resolver) rejectMisplacedTags(d *Decl, ref assemble.DeclRef) {
	b := ref.Builder
	for _, aid := range ref.Decl().Attrs {
		attr := b.Items.Attrs.Get(uint32(aid))
		if b.Name(attr.Name) == "tag" {
			diag.ReportError(r.rep, diag.TagMisplacedAttr, attr.Span,
				"#[tag] applies only to oneof and error declarations, not "+d.Kind.String())
		}
	}
}

// tagDecl walks the per-declaration state machine:
// Unattributed -> SchemeParsed -> SchemeValidated | SchemeRejected.
func (r *resolver) tagDecl(d *Decl, ref assemble.DeclRef) tagState {
	b := ref.Builder

	var tagAttr *ast.Attr
	for _, aid := range ref.Decl().Attrs {
		attr := b.Items.Attrs.Get(uint32(aid))
		if b.Name(attr.Name) != "tag" {
			continue
		}
		if tagAttr != nil {
			r.rep.Report(diag.MetaDuplicateAttr, diag.SevError, attr.Span,
				"duplicate #[tag] attribute",
				[]diag.Note{{Span: tagAttr.Span, Msg: "first attribute here"}})
			return tagSchemeRejected
		}
		tagAttr = attr
	}

	if tagAttr == nil {
		d.Tagging = Tagging{Mode: TagExternal}
		return tagSchemeValidated
	}

	scheme, ok := r.parseScheme(b, tagAttr)
	if !ok {
		return tagSchemeRejected
	}
	if !r.validateScheme(d, scheme, tagAttr) {
		return tagSchemeRejected
	}
	d.Tagging = scheme
	return tagSchemeValidated
}

// parseScheme reads the attribute arguments: `external`, `name = "k"`, or
// `name = "k", content = "c"`.
func (r *resolver) parseScheme(b *ast.Builder, attr *ast.Attr) (Tagging, bool) {
	var name, content string
	var haveName, haveContent, external bool

	for i := range attr.Args {
		arg := &attr.Args[i]
		if arg.Name == source.NoStringID {
			if arg.Kind == ast.ArgIdent && b.Name(arg.StrVal) == "external" {
				external = true
				continue
			}
			diag.ReportError(r.rep, diag.TagParamNotString, arg.Span,
				"unexpected #[tag] argument")
			return Tagging{}, false
		}
		switch b.Name(arg.Name) {
		case "name":
			if arg.Kind != ast.ArgString {
				diag.ReportError(r.rep, diag.TagParamNotString, arg.Span,
					"#[tag] name must be a string")
				return Tagging{}, false
			}
			name = b.Name(arg.StrVal)
			haveName = true
		case "content":
			if arg.Kind != ast.ArgString {
				diag.ReportError(r.rep, diag.TagParamNotString, arg.Span,
					"#[tag] content must be a string")
				return Tagging{}, false
			}
			content = b.Name(arg.StrVal)
			haveContent = true
		default:
			diag.ReportError(r.rep, diag.TagParamNotString, arg.Span,
				"unknown #[tag] parameter '"+b.Name(arg.Name)+"'")
			return Tagging{}, false
		}
	}

	switch {
	case external && (haveName || haveContent):
		diag.ReportError(r.rep, diag.TagParamNotString, attr.Span,
			"#[tag(external)] takes no keys")
		return Tagging{}, false
	case external:
		return Tagging{Mode: TagExternal}, true
	case haveContent && !haveName:
		diag.ReportError(r.rep, diag.TagParamNotString, attr.Span,
			"#[tag] content requires name")
		return Tagging{}, false
	case haveName && haveContent:
		return Tagging{Mode: TagAdjacent, Key: name, ContentKey: content}, true
	case haveName:
		return Tagging{Mode: TagInternal, Key: name}, true
	default:
		return Tagging{Mode: TagExternal}, true
	}
}

func (r *resolver) validateScheme(d *Decl, scheme Tagging, attr *ast.Attr) bool {
	if scheme.Mode == TagExternal {
		return true
	}

	if scheme.Mode == TagAdjacent && scheme.Key == scheme.ContentKey {
		diag.ReportError(r.rep, diag.TagAdjacentKeyClash, attr.Span,
			"adjacent tagging needs distinct name and content keys")
		return false
	}

	if scheme.Mode == TagInternal {
		// a scalar payload cannot hold a sibling discriminant key
		for _, v := range d.Variants {
			if v.Kind == VariantTuple {
				diag.ReportError(r.rep, diag.TagInternalOnTuple, v.Span,
					"internal tagging is incompatible with tuple variant '"+v.Name+"'; use external or adjacent")
				return false
			}
		}
	}

	for _, v := range d.Variants {
		if v.Kind != VariantStruct {
			continue
		}
		for _, f := range v.Fields {
			if f.Name == scheme.Key {
				diag.ReportError(r.rep, diag.TagKeyCollision, f.Span,
					"variant '"+v.Name+"' already has a field named '"+scheme.Key+"'")
				return false
			}
			if scheme.Mode == TagAdjacent && f.Name == scheme.ContentKey {
				diag.ReportError(r.rep, diag.TagKeyCollision, f.Span,
					"variant '"+v.Name+"' already has a field named '"+scheme.ContentKey+"'")
				return false
			}
		}
	}
	return true
}
