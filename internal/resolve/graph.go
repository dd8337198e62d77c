// Package resolve turns assembled namespaces into the resolved graph:
// every type reference bound to a primitive, a declaration id, or a
// synthesized declaration produced by the structural operators.
package resolve

import (
	"ksc/internal/source"
)

// DeclID is a stable 1-based index into the graph's declaration arena.
type DeclID uint32

const NoDeclID DeclID = 0

func (id DeclID) IsValid() bool { return id != NoDeclID }

type DeclKind uint8

const (
	KindStruct DeclKind = iota
	KindEnum
	KindOneof
	KindError
	KindAlias
	KindOperation
	// KindPlaceholder replaces a declaration that failed to resolve, so
	// dependents bind to something and only the root cause is reported.
	KindPlaceholder
)

func (k DeclKind) String() string {
	switch k {
	case KindStruct:
		return "struct"
	case KindEnum:
		return "enum"
	case KindOneof:
		return "oneof"
	case KindError:
		return "error"
	case KindAlias:
		return "type alias"
	case KindOperation:
		return "operation"
	case KindPlaceholder:
		return "unresolved declaration"
	}
	return "unknown"
}

type TypeKind uint8

const (
	// TypeInvalid marks a reference that failed to resolve; the failure
	// was already reported, dependents stay silent.
	TypeInvalid TypeKind = iota
	TypePrimitive
	TypeDecl
	TypeArray
	TypeInlineOneof
)

// Type is a fully resolved type reference.
type Type struct {
	Kind TypeKind

	Prim string // TypePrimitive
	Decl DeclID // TypeDecl

	Elem    *Type // TypeArray
	HasSize bool
	Size    uint32

	Arms []Type // TypeInlineOneof
}

// Equal reports structural equality, used for union-or deduplication and
// evaluation caching.
func (t Type) Equal(o Type) bool {
	if t.Kind != o.Kind {
		return false
	}
	switch t.Kind {
	case TypePrimitive:
		return t.Prim == o.Prim
	case TypeDecl:
		return t.Decl == o.Decl
	case TypeArray:
		if t.HasSize != o.HasSize || t.Size != o.Size {
			return false
		}
		return t.Elem.Equal(*o.Elem)
	case TypeInlineOneof:
		if len(t.Arms) != len(o.Arms) {
			return false
		}
		for i := range t.Arms {
			if !t.Arms[i].Equal(o.Arms[i]) {
				return false
			}
		}
		return true
	}
	return true
}

type Field struct {
	Name     string
	Optional bool
	Type     Type
	Span     source.Span
}

type VariantKind uint8

const (
	VariantUnit VariantKind = iota
	VariantTuple
	VariantStruct
)

type Variant struct {
	Kind   VariantKind
	Name   string
	Span   source.Span
	Tuple  Type    // VariantTuple
	Fields []Field // VariantStruct
}

type EnumVariant struct {
	Name     string
	Span     source.Span
	IsString bool
	IntVal   int64
	StrVal   string
}

type Param struct {
	Name string
	Type Type
	Span source.Span
}

type TagMode uint8

const (
	TagExternal TagMode = iota
	TagInternal
	TagAdjacent
)

type Tagging struct {
	Mode       TagMode
	Key        string // TagInternal, TagAdjacent
	ContentKey string // TagAdjacent
}

// Decl is one resolved declaration. Synthesized declarations (structural
// operator results, union-or merges, inline structs) have an empty Name and
// are addressable only through the references that produced them.
type Decl struct {
	Kind      DeclKind
	Name      string
	Namespace string
	Span      source.Span
	Doc       string

	Fields       []Field       // KindStruct
	Variants     []Variant     // KindOneof, KindError
	EnumVariants []EnumVariant // KindEnum
	Alias        Type          // KindAlias

	Params   []Param // KindOperation
	Ret      Type
	Fallible bool
	ErrDecl  DeclID

	Tagging Tagging // KindOneof, KindError

	// SynthFrom links a synthesized declaration to the declaration it was
	// derived from; synthesized unions inherit its tagging scheme.
	SynthFrom DeclID
}

// Namespace is the resolved view of one namespace: name to declaration id,
// in declaration order.
type Namespace struct {
	Path       string
	HasVersion bool
	Version    int64
	Names      map[string]DeclID
	Order      []string
}

// Graph is the output artifact handed to code generation.
type Graph struct {
	decls      []*Decl
	Namespaces map[string]*Namespace
	// NsOrder preserves input order for deterministic iteration.
	NsOrder []string
}

func NewGraph() *Graph {
	return &Graph{Namespaces: make(map[string]*Namespace)}
}

func (g *Graph) add(d *Decl) DeclID {
	g.decls = append(g.decls, d)
	return DeclID(len(g.decls))
}

// Decl resolves an id; returns nil for NoDeclID.
func (g *Graph) Decl(id DeclID) *Decl {
	if id == NoDeclID || uint32(id) > uint32(len(g.decls)) {
		return nil
	}
	return g.decls[id-1]
}

func (g *Graph) Len() int { return len(g.decls) }

// Lookup finds a named declaration in a namespace.
func (g *Graph) Lookup(nsPath, name string) (DeclID, bool) {
	ns, ok := g.Namespaces[nsPath]
	if !ok {
		return NoDeclID, false
	}
	id, ok := ns.Names[name]
	return id, ok
}
