package ast

import (
	"ksc/internal/source"
)

type Hints struct{ Files, Items, Types uint }

// Builder owns the arenas and the identifier interner for one parse unit.
// A builder is not safe for concurrent use; parallel parsing gives each
// file its own builder and merges afterwards.
type Builder struct {
	Files   *Files
	Items   *Items
	Types   *Types
	Strings *source.Interner
}

func NewBuilder(hints Hints) *Builder {
	if hints.Files == 0 {
		hints.Files = 1 << 2
	}
	if hints.Items == 0 {
		hints.Items = 1 << 7
	}
	if hints.Types == 0 {
		hints.Types = 1 << 8
	}
	return &Builder{
		Files:   NewFiles(hints.Files),
		Items:   NewItems(hints.Items),
		Types:   NewTypes(hints.Types),
		Strings: source.NewInterner(),
	}
}

func (b *Builder) NewFile(src source.FileID, sp source.Span) FileID {
	return b.Files.New(src, sp)
}

func (b *Builder) PushItem(file FileID, item ItemID) {
	f := b.Files.Get(file)
	f.Items = append(f.Items, item)
}

func (b *Builder) NewNamespace(sp source.Span, ns NamespaceItem) ItemID {
	payload := b.Items.Namespaces.Allocate(ns)
	return b.Items.New(ItemNamespace, sp, payload)
}

func (b *Builder) NewUse(sp source.Span, use UseItem) ItemID {
	payload := b.Items.Uses.Allocate(use)
	return b.Items.New(ItemUse, sp, payload)
}

func (b *Builder) NewInnerAttr(attr Attr) ItemID {
	payload := b.Items.Attrs.Allocate(attr)
	return b.Items.New(ItemAttr, attr.Span, payload)
}

// NewDecl allocates the declaration and wraps it in an item.
func (b *Builder) NewDecl(decl Decl) (ItemID, DeclID) {
	declID := b.Items.Decls.Allocate(decl)
	itemID := b.Items.New(ItemDecl, decl.Span, declID)
	return itemID, DeclID(declID)
}

func (b *Builder) NewType(ref TypeRef) TypeID {
	return b.Types.New(ref)
}

func (b *Builder) Intern(s string) source.StringID {
	return b.Strings.Intern(s)
}

// Name resolves an interned identifier back to its text.
func (b *Builder) Name(id source.StringID) string {
	return b.Strings.MustLookup(id)
}

// PathString joins interned path segments with dots.
func (b *Builder) PathString(path []source.StringID) string {
	out := ""
	for i, seg := range path {
		if i > 0 {
			out += "."
		}
		out += b.Strings.MustLookup(seg)
	}
	return out
}
