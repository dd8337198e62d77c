package ast

import (
	"ksc/internal/source"
)

type TypeRefKind uint8

const (
	// TypeName is a possibly dotted path. A single-segment path may name a
	// primitive; the catalog decides during resolution.
	TypeName TypeRefKind = iota
	TypeArray
	TypeInlineOneof
	TypeInlineStruct
	TypeExpr
	TypeUnionOr
)

type TypeExprOp uint8

const (
	OpPick TypeExprOp = iota
	OpOmit
	OpPartial
	OpRequired
	OpExclude
	OpExtract
	OpArrayItem
)

func (op TypeExprOp) String() string {
	switch op {
	case OpPick:
		return "Pick"
	case OpOmit:
		return "Omit"
	case OpPartial:
		return "Partial"
	case OpRequired:
		return "Required"
	case OpExclude:
		return "Exclude"
	case OpExtract:
		return "Extract"
	case OpArrayItem:
		return "ArrayItem"
	}
	return "unknown"
}

var typeExprOps = map[string]TypeExprOp{
	"Pick":      OpPick,
	"Omit":      OpOmit,
	"Partial":   OpPartial,
	"Required":  OpRequired,
	"Exclude":   OpExclude,
	"Extract":   OpExtract,
	"ArrayItem": OpArrayItem,
}

// LookupTypeExprOp recognizes structural operator names in type position.
func LookupTypeExprOp(name string) (TypeExprOp, bool) {
	op, ok := typeExprOps[name]
	return op, ok
}

// Selector names a field or variant inside a type expression.
type Selector struct {
	Name source.StringID
	Span source.Span
}

// TypeRef is one node of a type annotation. The populated fields depend on
// Kind:
//
//	TypeName         Path, PathSpan
//	TypeArray        Elem, HasSize, Size
//	TypeInlineOneof  Arms (the | alternatives)
//	TypeInlineStruct Fields
//	TypeExpr         Op, Elem (operand), Selectors
//	TypeUnionOr      Arms (the &| chain, in source order)
type TypeRef struct {
	Kind TypeRefKind
	Span source.Span

	Path     []source.StringID
	PathSpan source.Span

	Elem    TypeID
	HasSize bool
	Size    uint32

	Arms   []TypeID
	Fields []FieldID

	Op        TypeExprOp
	Selectors []Selector
}

type Types struct {
	Arena *Arena[TypeRef]
}

func NewTypes(capHint uint) *Types {
	return &Types{
		Arena: NewArena[TypeRef](capHint),
	}
}

func (t *Types) New(ref TypeRef) TypeID {
	return TypeID(t.Arena.Allocate(ref))
}

func (t *Types) Get(id TypeID) *TypeRef {
	return t.Arena.Get(uint32(id))
}
