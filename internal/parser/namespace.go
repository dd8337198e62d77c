package parser

import (
	"ksc/internal/ast"
	"ksc/internal/token"
)

// parseNamespaceItem handles both forms:
//
//	namespace a.b;            scopes the remaining sibling items
//	namespace a.b { ... };    scopes only the block, paths concatenate
func (p *Parser) parseNamespaceItem() (ast.ItemID, bool) {
	kw := p.advance() // namespace
	path, pathSpan, ok := p.dottedPath()
	if !ok {
		return ast.NoItemID, false
	}

	ns := ast.NamespaceItem{Path: path, PathSpan: pathSpan}
	span := kw.Span.Cover(pathSpan)

	switch p.lx.Peek().Kind {
	case token.Semicolon:
		end := p.advance()
		span = span.Cover(end.Span)
	case token.LBrace:
		p.advance()
		ns.Block = true
		ns.Items = p.parseItemsUntil(token.RBrace)
		rbrace, ok := p.expect(token.RBrace, "expected '}' to close namespace block")
		if !ok {
			return ast.NoItemID, false
		}
		span = span.Cover(rbrace.Span)
		if p.at(token.Semicolon) {
			span = span.Cover(p.advance().Span)
		}
	default:
		_, _ = p.expect(token.Semicolon, "expected ';' or '{' after namespace path")
		return ast.NoItemID, false
	}

	return p.arenas.NewNamespace(span, ns), true
}

// parseUseItem handles `use a.b;` and `use a.b::{A, B};`.
func (p *Parser) parseUseItem() (ast.ItemID, bool) {
	kw := p.advance() // use
	path, pathSpan, ok := p.dottedPath()
	if !ok {
		return ast.NoItemID, false
	}
	use := ast.UseItem{Path: path, PathSpan: pathSpan}

	if p.at(token.ColonColon) {
		p.advance()
		if _, ok := p.expect(token.LBrace, "expected '{' after '::' in use import"); !ok {
			return ast.NoItemID, false
		}
		for {
			name, nameSpan, ok := p.ident("expected an imported name")
			if !ok {
				return ast.NoItemID, false
			}
			use.Names = append(use.Names, ast.UseName{Name: name, Span: nameSpan})
			if p.at(token.Comma) {
				p.advance()
				if p.at(token.RBrace) { // trailing comma
					break
				}
				continue
			}
			break
		}
		if _, ok := p.expect(token.RBrace, "expected '}' to close import list"); !ok {
			return ast.NoItemID, false
		}
	}

	end, ok := p.expect(token.Semicolon, "expected ';' after use import")
	if !ok {
		return ast.NoItemID, false
	}
	return p.arenas.NewUse(kw.Span.Cover(end.Span), use), true
}
