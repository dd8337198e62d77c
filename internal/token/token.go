package token

import (
	"strings"

	"ksc/internal/source"
)

// Token represents a single schema token with its location and leading trivia.
type Token struct {
	Kind    Kind
	Span    source.Span
	Text    string
	Leading []Trivia
}

// IsLiteral reports whether the token is a numeric, boolean, or string literal.
func (t Token) IsLiteral() bool {
	switch t.Kind {
	case IntLit, FloatLit, StringLit, KwTrue, KwFalse:
		return true
	default:
		return false
	}
}

// IsKeyword reports whether the token is a schema keyword.
func (t Token) IsKeyword() bool {
	switch t.Kind {
	case KwNamespace, KwUse, KwStruct, KwEnum, KwOneof, KwError, KwType, KwOperation, KwTrue, KwFalse:
		return true
	default:
		return false
	}
}

// IsIdent reports whether the token is an identifier.
func (t Token) IsIdent() bool { return t.Kind == Ident }

// DocComment extracts the doc comment attached to the token: the contiguous
// run of line comments at the tail of the leading trivia, joined with
// newlines and stripped of the comment markers.
func (t Token) DocComment() string {
	var lines []string
	newlines := 0
	for i := len(t.Leading) - 1; i >= 0; i-- {
		tr := t.Leading[i]
		switch tr.Kind {
		case TriviaSpace:
			continue
		case TriviaNewline:
			// a blank line separates a standalone comment from the token
			newlines += strings.Count(tr.Text, "\n")
			if newlines > 1 {
				i = -1
			}
		case TriviaLineComment:
			lines = append(lines, trimLineComment(tr.Text))
			newlines = 0
		default:
			i = -1
		}
	}
	if len(lines) == 0 {
		return ""
	}
	// collected bottom-up; restore source order
	out := ""
	for i := len(lines) - 1; i >= 0; i-- {
		if out != "" {
			out += "\n"
		}
		out += lines[i]
	}
	return out
}

// Unquote strips the delimiters from a string literal's raw text and
// decodes its escape sequences. Unknown escapes pass through verbatim;
// the lexer already reported them.
func Unquote(raw string) string {
	if len(raw) < 2 {
		return raw
	}
	q := raw[0]
	if (q != '"' && q != '\'') || raw[len(raw)-1] != q {
		return raw
	}
	body := raw[1 : len(raw)-1]

	var out []byte
	for i := 0; i < len(body); i++ {
		b := body[i]
		if b != '\\' || i+1 >= len(body) {
			out = append(out, b)
			continue
		}
		i++
		switch body[i] {
		case 'n':
			out = append(out, '\n')
		case 't':
			out = append(out, '\t')
		case 'r':
			out = append(out, '\r')
		case '0':
			out = append(out, 0)
		case '\\', '"', '\'':
			out = append(out, body[i])
		default:
			out = append(out, '\\', body[i])
		}
	}
	return string(out)
}

func trimLineComment(text string) string {
	s := text
	if len(s) >= 2 && s[0] == '/' && s[1] == '/' {
		s = s[2:]
	}
	for len(s) > 0 && (s[0] == ' ' || s[0] == '\t') {
		s = s[1:]
	}
	return s
}
