package lexer

import (
	"fmt"

	"ksc/internal/diag"
	"ksc/internal/token"
)

var singlePunct = map[byte]token.Kind{
	'{': token.LBrace,
	'}': token.RBrace,
	'(': token.LParen,
	')': token.RParen,
	'[': token.LBracket,
	']': token.RBracket,
	';': token.Semicolon,
	',': token.Comma,
	'?': token.Question,
	'!': token.Bang,
	'|': token.Pipe,
	'=': token.Assign,
	'#': token.Hash,
	'.': token.Dot,
}

func (lx *Lexer) scanOperatorOrPunct() token.Token {
	start := lx.cursor.Mark()

	mk := func(kind token.Kind) token.Token {
		sp := lx.cursor.SpanFrom(start)
		return token.Token{
			Kind: kind,
			Span: sp,
			Text: string(lx.file.Content[sp.Start:sp.End]),
		}
	}

	switch {
	case lx.try2(':', ':'):
		return mk(token.ColonColon)
	case lx.try2('-', '>'):
		return mk(token.Arrow)
	case lx.try2('&', '|'):
		return mk(token.AmpPipe)
	}

	b := lx.cursor.Bump()
	if b == ':' {
		return mk(token.Colon)
	}
	if kind, ok := singlePunct[b]; ok {
		return mk(kind)
	}

	sp := lx.cursor.SpanFrom(start)
	lx.errLex(diag.LexUnknownChar, sp, fmt.Sprintf("unknown character %q", rune(b)))
	return token.Token{
		Kind: token.Invalid,
		Span: sp,
		Text: string(lx.file.Content[sp.Start:sp.End]),
	}
}
