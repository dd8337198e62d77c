package parser

import (
	"ksc/internal/diag"
	"ksc/internal/source"
	"ksc/internal/token"
)

func (p *Parser) at(k token.Kind) bool {
	return p.lx.Peek().Kind == k
}

// advance consumes the next token and remembers its span for diagnostics.
func (p *Parser) advance() token.Token {
	tok := p.lx.Next()
	if tok.Kind != token.EOF && tok.Kind != token.Invalid {
		p.lastSpan = tok.Span
	}
	return tok
}

// diagSpan picks the best span for a diagnostic at the current position.
// At EOF the caret goes just past the last consumed token instead of a
// zero-width span at offset 0.
func (p *Parser) diagSpan() source.Span {
	peek := p.lx.Peek()
	if peek.Kind == token.EOF && p.lastSpan.End > 0 {
		return source.Span{File: p.lastSpan.File, Start: p.lastSpan.End, End: p.lastSpan.End}
	}
	return peek.Span
}

// expect consumes a token of kind k or reports and returns false.
func (p *Parser) expect(k token.Kind, msg string) (token.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	code := diag.ParseUnexpectedToken
	if p.at(token.EOF) {
		code = diag.ParseUnexpectedEOF
	}
	sp := p.diagSpan()
	p.report(code, diag.SevError, sp, msg)
	return token.Token{Kind: token.Invalid, Span: sp}, false
}

func (p *Parser) err(code diag.Code, msg string) {
	p.report(code, diag.SevError, p.diagSpan(), msg)
}

func (p *Parser) report(code diag.Code, sev diag.Severity, sp source.Span, msg string) {
	if p.opts.Reporter == nil {
		return
	}
	if sev == diag.SevError {
		p.opts.currentErrors++
	}
	if !p.opts.enough() {
		p.opts.Reporter.Report(code, sev, sp, msg, nil)
	}
}

// ident consumes an identifier and interns its text.
func (p *Parser) ident(msg string) (source.StringID, source.Span, bool) {
	tok, ok := p.expect(token.Ident, msg)
	if !ok {
		return source.NoStringID, tok.Span, false
	}
	return p.arenas.Intern(tok.Text), tok.Span, true
}

// dottedPath parses ident ("." ident)* and returns the interned segments.
func (p *Parser) dottedPath() ([]source.StringID, source.Span, bool) {
	first, firstSpan, ok := p.ident("expected a path segment")
	if !ok {
		return nil, firstSpan, false
	}
	path := []source.StringID{first}
	span := firstSpan
	for p.at(token.Dot) {
		p.advance()
		seg, segSpan, ok := p.ident("expected a path segment after '.'")
		if !ok {
			p.report(diag.ParseInvalidPath, diag.SevError, span.Cover(p.diagSpan()),
				"incomplete dotted path")
			return nil, span, false
		}
		path = append(path, seg)
		span = span.Cover(segSpan)
	}
	return path, span, true
}
