package lexer

import (
	"ksc/internal/diag"
	"ksc/internal/token"
)

// scanString lexes a quoted literal. Both '"' and '\'' delimit strings;
// the closing quote must match the opening one. Strings are single-line:
// a raw newline before the closing quote terminates the literal with an
// error. Text keeps the quotes; token.Unquote strips them.
func (lx *Lexer) scanString(quote byte) token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // opening quote

	for {
		if lx.cursor.EOF() || lx.cursor.Peek() == '\n' {
			sp := lx.cursor.SpanFrom(start)
			lx.errLex(diag.LexUnterminatedString, sp, "unterminated string literal")
			return token.Token{
				Kind: token.Invalid,
				Span: sp,
				Text: string(lx.file.Content[sp.Start:sp.End]),
			}
		}

		b := lx.cursor.Bump()
		if b == quote {
			break
		}
		if b == '\\' {
			escStart := Mark(lx.cursor.Off - 1)
			if lx.cursor.EOF() || lx.cursor.Peek() == '\n' {
				continue // unterminated path above picks this up
			}
			e := lx.cursor.Bump()
			switch e {
			case '\\', '"', '\'', 'n', 't', 'r', '0':
			default:
				lx.errLex(diag.LexBadEscape, lx.cursor.SpanFrom(escStart),
					"unknown escape sequence '\\"+string(e)+"'")
			}
		}
	}

	sp := lx.cursor.SpanFrom(start)
	return token.Token{
		Kind: token.StringLit,
		Span: sp,
		Text: string(lx.file.Content[sp.Start:sp.End]),
	}
}
