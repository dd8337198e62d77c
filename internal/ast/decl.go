package ast

import (
	"ksc/internal/source"
)

type DeclKind uint8

const (
	DeclStruct DeclKind = iota
	DeclEnum
	DeclOneof
	DeclError
	DeclAlias
	DeclOperation
)

func (k DeclKind) String() string {
	switch k {
	case DeclStruct:
		return "struct"
	case DeclEnum:
		return "enum"
	case DeclOneof:
		return "oneof"
	case DeclError:
		return "error"
	case DeclAlias:
		return "type alias"
	case DeclOperation:
		return "operation"
	}
	return "unknown"
}

// Decl is a named declaration. Payload indexes the arena matching Kind;
// DeclOneof and DeclError share the Oneofs arena.
type Decl struct {
	Kind     DeclKind
	Span     source.Span
	Name     source.StringID
	NameSpan source.Span
	Doc      string
	Attrs    []AttrID
	Payload  uint32
}

type StructBody struct {
	Fields []FieldID
}

type Field struct {
	Name     source.StringID
	NameSpan source.Span
	Span     source.Span
	Optional bool
	Type     TypeID
}

type DiscrimKind uint8

const (
	DiscrimNone DiscrimKind = iota
	DiscrimInt
	DiscrimString
)

type EnumBody struct {
	Variants []VariantID
}

type VariantKind uint8

const (
	VariantUnit VariantKind = iota
	VariantTuple
	VariantStruct
	// VariantEnum is an enum case; Discrim/IntVal/StrVal carry the
	// discriminant, the payload fields are unused.
	VariantEnum
)

// Variant is one case of an enum, oneof, or error declaration.
type Variant struct {
	Kind     VariantKind
	Name     source.StringID
	NameSpan source.Span
	Span     source.Span

	// tuple payload
	Tuple TypeID
	// struct payload
	Fields []FieldID

	// enum discriminant
	Discrim DiscrimKind
	IntVal  int64
	StrVal  source.StringID
}

type OneofBody struct {
	Variants []VariantID
}

type AliasBody struct {
	Type TypeID
}

type OperationBody struct {
	Params   []ParamID
	Ret      TypeID
	Fallible bool
}

type Param struct {
	Name     source.StringID
	NameSpan source.Span
	Span     source.Span
	Type     TypeID
}
