package ast

import (
	"ksc/internal/source"
)

type ItemKind uint8

const (
	ItemNamespace ItemKind = iota
	ItemUse
	ItemDecl
	// ItemAttr is a free-standing inner attribute (`#![...]`); it applies
	// to the namespace in scope at its position.
	ItemAttr
)

// Item is a top-level entry of a file or namespace block. Payload indexes
// the arena matching Kind (Namespaces, Uses, Decls, or Attrs).
type Item struct {
	Kind    ItemKind
	Span    source.Span
	Payload uint32
}

// NamespaceItem is either the statement form `namespace a.b;`, which scopes
// the remaining sibling items, or the block form `namespace a.b { ... }`.
type NamespaceItem struct {
	Path     []source.StringID
	PathSpan source.Span
	Block    bool
	Items    []ItemID // block form only
	Attrs    []AttrID // inner attributes written inside the block
}

// UseName is one entry of the selective form `use a.b::{A, B};`.
type UseName struct {
	Name source.StringID
	Span source.Span
}

// UseItem imports a namespace, either wholesale (`use a.b;`) or a selected
// subset of its declarations. Empty Names means the whole namespace.
type UseItem struct {
	Path     []source.StringID
	PathSpan source.Span
	Names    []UseName
}

type Items struct {
	Arena      *Arena[Item]
	Namespaces *Arena[NamespaceItem]
	Uses       *Arena[UseItem]
	Decls      *Arena[Decl]

	Structs    *Arena[StructBody]
	Enums      *Arena[EnumBody]
	Oneofs     *Arena[OneofBody]
	Aliases    *Arena[AliasBody]
	Operations *Arena[OperationBody]

	Fields   *Arena[Field]
	Variants *Arena[Variant]
	Params   *Arena[Param]
	Attrs    *Arena[Attr]
}

func NewItems(capHint uint) *Items {
	if capHint == 0 {
		capHint = 1 << 8
	}
	return &Items{
		Arena:      NewArena[Item](capHint),
		Namespaces: NewArena[NamespaceItem](capHint),
		Uses:       NewArena[UseItem](capHint),
		Decls:      NewArena[Decl](capHint),
		Structs:    NewArena[StructBody](capHint),
		Enums:      NewArena[EnumBody](capHint),
		Oneofs:     NewArena[OneofBody](capHint),
		Aliases:    NewArena[AliasBody](capHint),
		Operations: NewArena[OperationBody](capHint),
		Fields:     NewArena[Field](capHint),
		Variants:   NewArena[Variant](capHint),
		Params:     NewArena[Param](capHint),
		Attrs:      NewArena[Attr](capHint),
	}
}

func (i *Items) New(kind ItemKind, span source.Span, payload uint32) ItemID {
	return ItemID(i.Arena.Allocate(Item{
		Kind:    kind,
		Span:    span,
		Payload: payload,
	}))
}

func (i *Items) Get(id ItemID) *Item {
	return i.Arena.Get(uint32(id))
}

// Namespace returns the payload of a namespace item, or nil.
func (i *Items) Namespace(id ItemID) *NamespaceItem {
	item := i.Get(id)
	if item == nil || item.Kind != ItemNamespace {
		return nil
	}
	return i.Namespaces.Get(item.Payload)
}

// Use returns the payload of a use item, or nil.
func (i *Items) Use(id ItemID) *UseItem {
	item := i.Get(id)
	if item == nil || item.Kind != ItemUse {
		return nil
	}
	return i.Uses.Get(item.Payload)
}

// InnerAttr returns the payload of a free-standing attribute item, or nil.
func (i *Items) InnerAttr(id ItemID) *Attr {
	item := i.Get(id)
	if item == nil || item.Kind != ItemAttr {
		return nil
	}
	return i.Attrs.Get(item.Payload)
}

// Decl returns the declaration payload of a decl item, or (0, nil).
func (i *Items) Decl(id ItemID) (DeclID, *Decl) {
	item := i.Get(id)
	if item == nil || item.Kind != ItemDecl {
		return NoDeclID, nil
	}
	return DeclID(item.Payload), i.Decls.Get(item.Payload)
}
