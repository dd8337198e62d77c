package parser

import (
	"strconv"

	"ksc/internal/ast"
	"ksc/internal/diag"
	"ksc/internal/source"
	"ksc/internal/token"
)

// Inner attributes (`#![...]`) configure the enclosing namespace; outer
// attributes (`#[...]`) decorate the next declaration.
var innerAttrNames = map[string]bool{"version": true, "err": true}
var outerAttrNames = map[string]bool{"tag": true}

// parseAttr parses `#[name(args)]` / `#![name(args)]`.
func (p *Parser) parseAttr() (ast.Attr, bool, bool) {
	hash := p.advance() // '#'

	attr := ast.Attr{}
	if p.at(token.Bang) {
		p.advance()
		attr.Inner = true
	}

	if _, ok := p.expect(token.LBracket, "expected '[' in attribute"); !ok {
		return attr, attr.Inner, false
	}
	nameTok, ok := p.expect(token.Ident, "expected attribute name")
	if !ok {
		return attr, attr.Inner, false
	}
	attr.Name = p.arenas.Intern(nameTok.Text)

	known := outerAttrNames
	if attr.Inner {
		known = innerAttrNames
	}
	if !known[nameTok.Text] {
		form := "#[...]"
		if attr.Inner {
			form = "#![...]"
		}
		p.report(diag.ParseUnknownAttr, diag.SevError, nameTok.Span,
			"unknown "+form+" attribute '"+nameTok.Text+"'")
	}

	if p.at(token.LParen) {
		p.advance()
		for !p.at(token.RParen) {
			arg, ok := p.parseAttrArg()
			if !ok {
				return attr, attr.Inner, false
			}
			attr.Args = append(attr.Args, arg)
			if p.at(token.Comma) {
				p.advance()
				continue
			}
			break
		}
		if _, ok := p.expect(token.RParen, "expected ')' to close attribute arguments"); !ok {
			return attr, attr.Inner, false
		}
	}

	end, ok := p.expect(token.RBracket, "expected ']' to close attribute")
	if !ok {
		return attr, attr.Inner, false
	}
	attr.Span = hash.Span.Cover(end.Span)
	return attr, attr.Inner, true
}

// parseAttrArg parses `value` or `name = value`; values are integer
// literals, string literals, or bare identifiers.
func (p *Parser) parseAttrArg() (ast.AttrArg, bool) {
	arg := ast.AttrArg{Name: source.NoStringID}

	if p.at(token.Ident) {
		first := p.advance()
		if p.at(token.Assign) {
			p.advance()
			arg.Name = p.arenas.Intern(first.Text)
			return p.parseAttrValue(arg, first.Span)
		}
		arg.Kind = ast.ArgIdent
		arg.StrVal = p.arenas.Intern(first.Text)
		arg.Span = first.Span
		return arg, true
	}
	return p.parseAttrValue(arg, p.diagSpan())
}

func (p *Parser) parseAttrValue(arg ast.AttrArg, start source.Span) (ast.AttrArg, bool) {
	tok := p.lx.Peek()
	switch tok.Kind {
	case token.IntLit:
		p.advance()
		v, err := strconv.ParseInt(tok.Text, 10, 64)
		if err != nil {
			p.report(diag.ParseUnexpectedToken, diag.SevError, tok.Span,
				"integer attribute argument out of range")
			return arg, false
		}
		arg.Kind = ast.ArgInt
		arg.IntVal = v
	case token.StringLit:
		p.advance()
		arg.Kind = ast.ArgString
		arg.StrVal = p.arenas.Intern(token.Unquote(tok.Text))
	case token.Ident:
		p.advance()
		arg.Kind = ast.ArgIdent
		arg.StrVal = p.arenas.Intern(tok.Text)
	default:
		p.err(diag.ParseUnexpectedToken, "expected an attribute argument value")
		return arg, false
	}
	arg.Span = start.Cover(tok.Span)
	return arg, true
}
