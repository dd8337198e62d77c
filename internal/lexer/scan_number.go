package lexer

import (
	"ksc/internal/diag"
	"ksc/internal/token"
)

// scanNumber lexes an integer or a float literal. Numbers only occur inside
// attribute arguments and enum discriminants, so the grammar stays simple:
// decimal digits, an optional fraction, no exponent, no sign.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()
	for isDec(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}

	kind := token.IntLit
	if b0, b1, ok := lx.cursor.Peek2(); ok && b0 == '.' && isDec(b1) {
		kind = token.FloatLit
		lx.cursor.Bump()
		for isDec(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
	}

	// 1x, 2.5e -> a literal glued to identifier characters
	if isIdentStartByte(lx.cursor.Peek()) {
		for isIdentContinueByte(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
		sp := lx.cursor.SpanFrom(start)
		text := string(lx.file.Content[sp.Start:sp.End])
		code := diag.LexBadIntLiteral
		what := "integer"
		if kind == token.FloatLit {
			code = diag.LexBadFloatLiteral
			what = "float"
		}
		lx.errLex(code, sp, "malformed "+what+" literal: "+text)
		return token.Token{Kind: token.Invalid, Span: sp, Text: text}
	}

	sp := lx.cursor.SpanFrom(start)
	return token.Token{
		Kind: kind,
		Span: sp,
		Text: string(lx.file.Content[sp.Start:sp.End]),
	}
}
