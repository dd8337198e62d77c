package ast

import (
	"ksc/internal/source"
)

type AttrArgKind uint8

const (
	ArgInt AttrArgKind = iota
	ArgString
	ArgIdent
)

// AttrArg is one argument of an attribute: positional (`version(1)`,
// `err(Name)`) or named (`tag(name = "k")`). Name is NoStringID for
// positional arguments.
type AttrArg struct {
	Name   source.StringID
	Span   source.Span
	Kind   AttrArgKind
	IntVal int64
	StrVal source.StringID // ArgString and ArgIdent
}

// Attr is `#[name(args)]` or, with Inner set, `#![name(args)]`.
type Attr struct {
	Inner bool
	Name  source.StringID
	Span  source.Span
	Args  []AttrArg
}

// Arg returns the named argument, or nil.
func (a *Attr) Arg(name source.StringID) *AttrArg {
	for i := range a.Args {
		if a.Args[i].Name == name {
			return &a.Args[i]
		}
	}
	return nil
}
