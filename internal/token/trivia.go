package token

import "ksc/internal/source"

type TriviaKind uint8

const (
	TriviaSpace TriviaKind = iota
	TriviaNewline
	TriviaLineComment
	TriviaBlockComment
)

func (k TriviaKind) String() string {
	switch k {
	case TriviaSpace:
		return "space"
	case TriviaNewline:
		return "newline"
	case TriviaLineComment:
		return "line-comment"
	case TriviaBlockComment:
		return "block-comment"
	}
	return "unknown"
}

// Trivia is whitespace or a comment preceding a significant token.
type Trivia struct {
	Kind TriviaKind
	Span source.Span
	Text string
}
