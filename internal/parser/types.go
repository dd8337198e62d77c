package parser

import (
	"strconv"

	"ksc/internal/ast"
	"ksc/internal/diag"
	"ksc/internal/source"
	"ksc/internal/token"
)

// parseType parses a full type annotation. `&|` binds loosest and chains
// left-associatively; the chain is stored flattened in source order.
func (p *Parser) parseType() (ast.TypeID, bool) {
	first, ok := p.parsePrimaryType()
	if !ok {
		return ast.NoTypeID, false
	}
	if !p.at(token.AmpPipe) {
		return first, true
	}

	start := p.arenas.Types.Get(first).Span
	arms := []ast.TypeID{first}
	for p.at(token.AmpPipe) {
		p.advance()
		next, ok := p.parsePrimaryType()
		if !ok {
			return ast.NoTypeID, false
		}
		arms = append(arms, next)
	}
	return p.arenas.NewType(ast.TypeRef{
		Kind: ast.TypeUnionOr,
		Span: start.Cover(p.lastSpan),
		Arms: arms,
	}), true
}

// parsePrimaryType parses a type without `&|`, then any `[]` / `[n]` array
// suffixes.
func (p *Parser) parsePrimaryType() (ast.TypeID, bool) {
	var base ast.TypeID
	var ok bool

	switch p.lx.Peek().Kind {
	case token.LParen:
		p.advance()
		base, ok = p.parseType()
		if !ok {
			return ast.NoTypeID, false
		}
		if _, ok := p.expect(token.RParen, "expected ')' to close type group"); !ok {
			return ast.NoTypeID, false
		}
	case token.KwOneof:
		base, ok = p.parseInlineOneof()
		if !ok {
			return ast.NoTypeID, false
		}
	case token.LBrace:
		base, ok = p.parseInlineStruct()
		if !ok {
			return ast.NoTypeID, false
		}
	case token.Ident:
		base, ok = p.parseNamedOrTypeExpr()
		if !ok {
			return ast.NoTypeID, false
		}
	default:
		p.err(diag.ParseUnexpectedToken, "expected a type")
		return ast.NoTypeID, false
	}

	return p.parseArraySuffixes(base)
}

// parseArraySuffixes wraps base in one TypeArray per `[]` or `[n]` suffix.
func (p *Parser) parseArraySuffixes(base ast.TypeID) (ast.TypeID, bool) {
	for p.at(token.LBracket) {
		open := p.advance()
		ref := ast.TypeRef{Kind: ast.TypeArray, Elem: base}
		if p.at(token.IntLit) {
			sizeTok := p.advance()
			n, err := strconv.ParseUint(sizeTok.Text, 10, 32)
			if err != nil {
				p.report(diag.ParseUnexpectedToken, diag.SevError, sizeTok.Span,
					"array size out of range")
				return ast.NoTypeID, false
			}
			ref.HasSize = true
			ref.Size = uint32(n)
		}
		end, ok := p.expect(token.RBracket, "expected ']' to close array size")
		if !ok {
			return ast.NoTypeID, false
		}
		elemSpan := p.arenas.Types.Get(base).Span
		ref.Span = elemSpan.Cover(open.Span).Cover(end.Span)
		base = p.arenas.NewType(ref)
	}
	return base, true
}

// parseInlineOneof parses `oneof A | B | C` in type position.
func (p *Parser) parseInlineOneof() (ast.TypeID, bool) {
	kw := p.advance() // oneof
	var arms []ast.TypeID
	for {
		arm, ok := p.parsePrimaryType()
		if !ok {
			return ast.NoTypeID, false
		}
		arms = append(arms, arm)
		if p.at(token.Pipe) {
			p.advance()
			continue
		}
		break
	}
	return p.arenas.NewType(ast.TypeRef{
		Kind: ast.TypeInlineOneof,
		Span: kw.Span.Cover(p.lastSpan),
		Arms: arms,
	}), true
}

// parseInlineStruct parses `{ field: Type, ... }` in type position.
func (p *Parser) parseInlineStruct() (ast.TypeID, bool) {
	open := p.advance() // '{'
	fields, ok := p.parseFieldList(token.RBrace)
	if !ok {
		return ast.NoTypeID, false
	}
	end, ok := p.expect(token.RBrace, "expected '}' to close inline struct")
	if !ok {
		return ast.NoTypeID, false
	}
	return p.arenas.NewType(ast.TypeRef{
		Kind:   ast.TypeInlineStruct,
		Span:   open.Span.Cover(end.Span),
		Fields: fields,
	}), true
}

// parseNamedOrTypeExpr parses a dotted path, or a structural operator
// application when the leading identifier is an operator name followed
// by '['.
func (p *Parser) parseNamedOrTypeExpr() (ast.TypeID, bool) {
	first := p.advance() // Ident

	if op, isOp := ast.LookupTypeExprOp(first.Text); isOp {
		if p.at(token.LBracket) {
			return p.parseTypeExprTail(op, first.Span)
		}
		// operator name used as a plain type name; fall through
	}

	path := []source.StringID{p.arenas.Intern(first.Text)}
	span := first.Span
	for p.at(token.Dot) {
		p.advance()
		seg, segSpan, ok := p.ident("expected a path segment after '.'")
		if !ok {
			p.report(diag.ParseInvalidPath, diag.SevError, span.Cover(p.diagSpan()),
				"incomplete type path")
			return ast.NoTypeID, false
		}
		path = append(path, seg)
		span = span.Cover(segSpan)
	}
	return p.arenas.NewType(ast.TypeRef{
		Kind:     ast.TypeName,
		Span:     span,
		Path:     path,
		PathSpan: span,
	}), true
}

// parseTypeExprTail parses `[Operand]` or `[Operand, sel|sel|...]` after an
// operator name.
func (p *Parser) parseTypeExprTail(op ast.TypeExprOp, opSpan source.Span) (ast.TypeID, bool) {
	if !p.at(token.LBracket) {
		p.report(diag.TexprMissingBracket, diag.SevError, p.diagSpan(),
			"expected '[' after "+op.String())
		return ast.NoTypeID, false
	}
	p.advance()

	operand, ok := p.parseType()
	if !ok {
		return ast.NoTypeID, false
	}

	var selectors []ast.Selector
	if p.at(token.Comma) {
		p.advance()
		for {
			tok := p.lx.Peek()
			if tok.Kind != token.Ident {
				p.report(diag.TexprInvalidSelector, diag.SevError, p.diagSpan(),
					"expected a field or variant name")
				return ast.NoTypeID, false
			}
			p.advance()
			selectors = append(selectors, ast.Selector{
				Name: p.arenas.Intern(tok.Text),
				Span: tok.Span,
			})
			if p.at(token.Pipe) {
				p.advance()
				continue
			}
			break
		}
	}

	if !p.at(token.RBracket) {
		p.report(diag.TexprUnclosedBracket, diag.SevError, p.diagSpan(),
			"expected ']' to close "+op.String())
		return ast.NoTypeID, false
	}
	end := p.advance()

	return p.arenas.NewType(ast.TypeRef{
		Kind:      ast.TypeExpr,
		Span:      opSpan.Cover(end.Span),
		Op:        op,
		Elem:      operand,
		Selectors: selectors,
	}), true
}
