package parser

import (
	"strconv"

	"ksc/internal/ast"
	"ksc/internal/diag"
	"ksc/internal/token"
)

func (p *Parser) parseDecl(doc string, attrs []ast.AttrID) (ast.ItemID, bool) {
	kw := p.lx.Peek()
	switch kw.Kind {
	case token.KwStruct:
		return p.parseStructDecl(doc, attrs)
	case token.KwEnum:
		return p.parseEnumDecl(doc, attrs)
	case token.KwOneof:
		return p.parseVariantDecl(ast.DeclOneof, doc, attrs)
	case token.KwError:
		return p.parseVariantDecl(ast.DeclError, doc, attrs)
	case token.KwType:
		return p.parseAliasDecl(doc, attrs)
	case token.KwOperation:
		return p.parseOperationDecl(doc, attrs)
	}
	p.err(diag.ParseUnexpectedToken, "expected a declaration")
	return ast.NoItemID, false
}

func (p *Parser) parseStructDecl(doc string, attrs []ast.AttrID) (ast.ItemID, bool) {
	kw := p.advance() // struct
	name, nameSpan, ok := p.ident("expected struct name")
	if !ok {
		return ast.NoItemID, false
	}
	if _, ok := p.expect(token.LBrace, "expected '{' to open struct body"); !ok {
		return ast.NoItemID, false
	}
	fields, ok := p.parseFieldList(token.RBrace)
	if !ok {
		return ast.NoItemID, false
	}
	if _, ok := p.expect(token.RBrace, "expected '}' to close struct body"); !ok {
		return ast.NoItemID, false
	}
	end, ok := p.expect(token.Semicolon, "expected ';' after struct declaration")
	if !ok {
		return ast.NoItemID, false
	}

	payload := p.arenas.Items.Structs.Allocate(ast.StructBody{Fields: fields})
	itemID, _ := p.arenas.NewDecl(ast.Decl{
		Kind: ast.DeclStruct, Span: kw.Span.Cover(end.Span),
		Name: name, NameSpan: nameSpan, Doc: doc, Attrs: attrs, Payload: payload,
	})
	return itemID, true
}

// parseFieldList parses `name ?? : type` entries separated by commas, with
// an optional trailing comma, up to (not consuming) term.
func (p *Parser) parseFieldList(term token.Kind) ([]ast.FieldID, bool) {
	var fields []ast.FieldID
	for !p.at(term) && !p.at(token.EOF) {
		name, nameSpan, ok := p.ident("expected field name")
		if !ok {
			return nil, false
		}
		optional := false
		if p.at(token.Question) {
			p.advance()
			optional = true
		}
		if _, ok := p.expect(token.Colon, "expected ':' after field name"); !ok {
			return nil, false
		}
		ty, ok := p.parseType()
		if !ok {
			return nil, false
		}
		span := nameSpan.Cover(p.lastSpan)
		fields = append(fields, ast.FieldID(p.arenas.Items.Fields.Allocate(ast.Field{
			Name: name, NameSpan: nameSpan, Span: span, Optional: optional, Type: ty,
		})))
		if p.at(token.Comma) {
			p.advance()
			continue
		}
		break
	}
	return fields, true
}

func (p *Parser) parseEnumDecl(doc string, attrs []ast.AttrID) (ast.ItemID, bool) {
	kw := p.advance() // enum
	name, nameSpan, ok := p.ident("expected enum name")
	if !ok {
		return ast.NoItemID, false
	}
	if _, ok := p.expect(token.LBrace, "expected '{' to open enum body"); !ok {
		return ast.NoItemID, false
	}

	var variants []ast.VariantID
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		v, ok := p.parseEnumVariant()
		if !ok {
			return ast.NoItemID, false
		}
		variants = append(variants, v)
		if p.at(token.Comma) {
			p.advance()
			continue
		}
		break
	}
	if len(variants) == 0 {
		p.report(diag.ParseEmptyBody, diag.SevError, nameSpan, "enum has no variants")
	}

	if _, ok := p.expect(token.RBrace, "expected '}' to close enum body"); !ok {
		return ast.NoItemID, false
	}
	end, ok := p.expect(token.Semicolon, "expected ';' after enum declaration")
	if !ok {
		return ast.NoItemID, false
	}

	payload := p.arenas.Items.Enums.Allocate(ast.EnumBody{Variants: variants})
	itemID, _ := p.arenas.NewDecl(ast.Decl{
		Kind: ast.DeclEnum, Span: kw.Span.Cover(end.Span),
		Name: name, NameSpan: nameSpan, Doc: doc, Attrs: attrs, Payload: payload,
	})
	return itemID, true
}

func (p *Parser) parseEnumVariant() (ast.VariantID, bool) {
	name, nameSpan, ok := p.ident("expected enum variant name")
	if !ok {
		return ast.NoVariantID, false
	}
	v := ast.Variant{Kind: ast.VariantEnum, Name: name, NameSpan: nameSpan, Span: nameSpan}

	if p.at(token.Assign) {
		p.advance()
		tok := p.lx.Peek()
		switch tok.Kind {
		case token.IntLit:
			p.advance()
			n, err := strconv.ParseInt(tok.Text, 10, 64)
			if err != nil {
				p.report(diag.ParseUnexpectedToken, diag.SevError, tok.Span,
					"enum discriminant out of range")
				return ast.NoVariantID, false
			}
			v.Discrim = ast.DiscrimInt
			v.IntVal = n
		case token.StringLit:
			p.advance()
			v.Discrim = ast.DiscrimString
			v.StrVal = p.arenas.Intern(token.Unquote(tok.Text))
		default:
			p.err(diag.ParseUnexpectedToken, "expected an integer or string discriminant")
			return ast.NoVariantID, false
		}
		v.Span = nameSpan.Cover(tok.Span)
	}
	return ast.VariantID(p.arenas.Items.Variants.Allocate(v)), true
}

// parseVariantDecl parses oneof and error declarations; they share the
// body grammar.
func (p *Parser) parseVariantDecl(kind ast.DeclKind, doc string, attrs []ast.AttrID) (ast.ItemID, bool) {
	kw := p.advance() // oneof / error
	name, nameSpan, ok := p.ident("expected " + kind.String() + " name")
	if !ok {
		return ast.NoItemID, false
	}
	if _, ok := p.expect(token.LBrace, "expected '{' to open "+kind.String()+" body"); !ok {
		return ast.NoItemID, false
	}

	var variants []ast.VariantID
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		v, ok := p.parseUnionVariant()
		if !ok {
			return ast.NoItemID, false
		}
		variants = append(variants, v)
		if p.at(token.Comma) {
			p.advance()
			continue
		}
		break
	}
	if len(variants) == 0 {
		p.report(diag.ParseEmptyBody, diag.SevError, nameSpan, kind.String()+" has no variants")
	}

	if _, ok := p.expect(token.RBrace, "expected '}' to close "+kind.String()+" body"); !ok {
		return ast.NoItemID, false
	}
	end, ok := p.expect(token.Semicolon, "expected ';' after "+kind.String()+" declaration")
	if !ok {
		return ast.NoItemID, false
	}

	payload := p.arenas.Items.Oneofs.Allocate(ast.OneofBody{Variants: variants})
	itemID, _ := p.arenas.NewDecl(ast.Decl{
		Kind: kind, Span: kw.Span.Cover(end.Span),
		Name: name, NameSpan: nameSpan, Doc: doc, Attrs: attrs, Payload: payload,
	})
	return itemID, true
}

// parseUnionVariant parses a oneof/error case: `Unit`, `Tuple(Type)`, or
// `Struct { field: Type, ... }`.
func (p *Parser) parseUnionVariant() (ast.VariantID, bool) {
	name, nameSpan, ok := p.ident("expected variant name")
	if !ok {
		return ast.NoVariantID, false
	}
	v := ast.Variant{Kind: ast.VariantUnit, Name: name, NameSpan: nameSpan, Span: nameSpan}

	switch p.lx.Peek().Kind {
	case token.LParen:
		p.advance()
		ty, ok := p.parseType()
		if !ok {
			return ast.NoVariantID, false
		}
		end, ok := p.expect(token.RParen, "expected ')' to close variant payload")
		if !ok {
			return ast.NoVariantID, false
		}
		v.Kind = ast.VariantTuple
		v.Tuple = ty
		v.Span = nameSpan.Cover(end.Span)
	case token.LBrace:
		p.advance()
		fields, ok := p.parseFieldList(token.RBrace)
		if !ok {
			return ast.NoVariantID, false
		}
		end, ok := p.expect(token.RBrace, "expected '}' to close variant fields")
		if !ok {
			return ast.NoVariantID, false
		}
		v.Kind = ast.VariantStruct
		v.Fields = fields
		v.Span = nameSpan.Cover(end.Span)
	}
	return ast.VariantID(p.arenas.Items.Variants.Allocate(v)), true
}

func (p *Parser) parseAliasDecl(doc string, attrs []ast.AttrID) (ast.ItemID, bool) {
	kw := p.advance() // type
	name, nameSpan, ok := p.ident("expected alias name")
	if !ok {
		return ast.NoItemID, false
	}
	if _, ok := p.expect(token.Assign, "expected '=' after alias name"); !ok {
		return ast.NoItemID, false
	}
	ty, ok := p.parseType()
	if !ok {
		return ast.NoItemID, false
	}
	end, ok := p.expect(token.Semicolon, "expected ';' after type alias")
	if !ok {
		return ast.NoItemID, false
	}

	payload := p.arenas.Items.Aliases.Allocate(ast.AliasBody{Type: ty})
	itemID, _ := p.arenas.NewDecl(ast.Decl{
		Kind: ast.DeclAlias, Span: kw.Span.Cover(end.Span),
		Name: name, NameSpan: nameSpan, Doc: doc, Attrs: attrs, Payload: payload,
	})
	return itemID, true
}

func (p *Parser) parseOperationDecl(doc string, attrs []ast.AttrID) (ast.ItemID, bool) {
	kw := p.advance() // operation
	name, nameSpan, ok := p.ident("expected operation name")
	if !ok {
		return ast.NoItemID, false
	}
	if _, ok := p.expect(token.LParen, "expected '(' after operation name"); !ok {
		return ast.NoItemID, false
	}

	var params []ast.ParamID
	for !p.at(token.RParen) && !p.at(token.EOF) {
		pname, pnameSpan, ok := p.ident("expected parameter name")
		if !ok {
			return ast.NoItemID, false
		}
		if _, ok := p.expect(token.Colon, "expected ':' after parameter name"); !ok {
			return ast.NoItemID, false
		}
		ty, ok := p.parseType()
		if !ok {
			return ast.NoItemID, false
		}
		params = append(params, ast.ParamID(p.arenas.Items.Params.Allocate(ast.Param{
			Name: pname, NameSpan: pnameSpan, Span: pnameSpan.Cover(p.lastSpan), Type: ty,
		})))
		if p.at(token.Comma) {
			p.advance()
			continue
		}
		break
	}
	if _, ok := p.expect(token.RParen, "expected ')' to close parameter list"); !ok {
		return ast.NoItemID, false
	}
	if _, ok := p.expect(token.Arrow, "expected '->' before operation return type"); !ok {
		return ast.NoItemID, false
	}
	ret, ok := p.parseType()
	if !ok {
		return ast.NoItemID, false
	}
	fallible := false
	if p.at(token.Bang) {
		p.advance()
		fallible = true
	}
	end, ok := p.expect(token.Semicolon, "expected ';' after operation declaration")
	if !ok {
		return ast.NoItemID, false
	}

	payload := p.arenas.Items.Operations.Allocate(ast.OperationBody{
		Params: params, Ret: ret, Fallible: fallible,
	})
	itemID, _ := p.arenas.NewDecl(ast.Decl{
		Kind: ast.DeclOperation, Span: kw.Span.Cover(end.Span),
		Name: name, NameSpan: nameSpan, Doc: doc, Attrs: attrs, Payload: payload,
	})
	return itemID, true
}
