// Package parser builds a per-file AST from the token stream.
//
// Recovery is statement-granular: a malformed item skips to the next `;` or
// the bracket that closes the enclosing block, reports one KPR diagnostic,
// and parsing resumes, so one typo does not hide the rest of the file.
package parser

import (
	"ksc/internal/ast"
	"ksc/internal/diag"
	"ksc/internal/lexer"
	"ksc/internal/source"
	"ksc/internal/token"
)

type Options struct {
	MaxErrors     uint
	currentErrors uint
	Reporter      diag.Reporter
}

func (o *Options) enough() bool {
	return o.MaxErrors != 0 && o.currentErrors >= o.MaxErrors
}

type Result struct {
	File ast.FileID
}

// Parser holds the state for one file.
type Parser struct {
	lx       *lexer.Lexer
	arenas   *ast.Builder
	file     ast.FileID
	fs       *source.FileSet
	opts     Options
	lastSpan source.Span
}

// ParseFile parses one file into the builder's arenas.
func ParseFile(fs *source.FileSet, lx *lexer.Lexer, arenas *ast.Builder, opts Options) Result {
	srcFile := lx.EmptySpan().File
	p := Parser{
		lx:       lx,
		arenas:   arenas,
		file:     arenas.NewFile(srcFile, lx.EmptySpan()),
		fs:       fs,
		opts:     opts,
		lastSpan: lx.EmptySpan(),
	}

	start := p.lx.Peek().Span
	items := p.parseItemsUntil(token.EOF)
	for _, it := range items {
		p.arenas.PushItem(p.file, it)
	}
	p.arenas.Files.Get(p.file).Span = start.Cover(p.lastSpan)
	return Result{File: p.file}
}

// parseItemsUntil parses items until the terminator (EOF or the RBrace of a
// namespace block). The terminator is not consumed.
func (p *Parser) parseItemsUntil(term token.Kind) []ast.ItemID {
	var items []ast.ItemID
	for !p.at(term) && !p.at(token.EOF) {
		itemID, ok := p.parseItem()
		if !ok {
			p.resyncItem(term)
			continue
		}
		items = append(items, itemID)
	}
	return items
}

func (p *Parser) parseItem() (ast.ItemID, bool) {
	doc := p.lx.Peek().DocComment()

	var attrs []ast.AttrID
	for p.at(token.Hash) {
		attr, inner, ok := p.parseAttr()
		if !ok {
			return ast.NoItemID, false
		}
		if inner {
			if len(attrs) > 0 {
				p.report(diag.ParseUnexpectedToken, diag.SevError, attr.Span,
					"inner attribute may not follow outer attributes")
				return ast.NoItemID, false
			}
			return p.arenas.NewInnerAttr(attr), true
		}
		attrs = append(attrs, ast.AttrID(p.arenas.Items.Attrs.Allocate(attr)))
	}

	switch p.lx.Peek().Kind {
	case token.KwNamespace:
		if len(attrs) > 0 {
			p.report(diag.ParseUnexpectedToken, diag.SevError, p.lx.Peek().Span,
				"attributes may not precede a namespace")
		}
		return p.parseNamespaceItem()
	case token.KwUse:
		if len(attrs) > 0 {
			p.report(diag.ParseUnexpectedToken, diag.SevError, p.lx.Peek().Span,
				"attributes may not precede a use import")
		}
		return p.parseUseItem()
	case token.KwStruct, token.KwEnum, token.KwOneof, token.KwError, token.KwType, token.KwOperation:
		return p.parseDecl(doc, attrs)
	default:
		if len(attrs) > 0 {
			p.err(diag.ParseExpectedOneOf, "expected a declaration after attribute")
			return ast.NoItemID, false
		}
		p.err(diag.ParseUnexpectedToken, "unexpected token "+p.lx.Peek().Kind.String()+" at top level")
		return ast.NoItemID, false
	}
}

// resyncItem skips to the next `;` (consumed), the next item starter, or a
// `}` at the current level. When term is RBrace the brace belongs to the
// enclosing namespace block and is left for the caller; otherwise it is
// part of the failed item and gets consumed so the loop always makes
// progress. Nested braces are balanced.
func (p *Parser) resyncItem(term token.Kind) {
	depth := 0
	for !p.at(token.EOF) {
		switch p.lx.Peek().Kind {
		case token.Semicolon:
			if depth == 0 {
				p.advance()
				return
			}
		case token.LBrace:
			depth++
		case token.RBrace:
			if depth == 0 {
				if term == token.RBrace {
					return
				}
				p.advance()
				if p.at(token.Semicolon) {
					p.advance()
				}
				return
			}
			depth--
		case token.KwNamespace, token.KwUse, token.KwStruct, token.KwEnum,
			token.KwOneof, token.KwError, token.KwType, token.KwOperation:
			if depth == 0 {
				return
			}
		}
		p.advance()
	}
}
