package token

// Kind represents the category of a schema token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF

	// Ident represents an identifier token. Primitive type names (i32, str,
	// ...) also lex as Ident; the type catalog classifies them later.
	Ident

	// KwNamespace represents the 'namespace' keyword.
	KwNamespace // namespace
	// KwUse represents the 'use' keyword.
	KwUse // use
	// KwStruct represents the 'struct' keyword.
	KwStruct // struct
	// KwEnum represents the 'enum' keyword.
	KwEnum // enum
	// KwOneof represents the 'oneof' keyword.
	KwOneof // oneof
	// KwError represents the 'error' keyword.
	KwError // error
	// KwType represents the 'type' keyword.
	KwType // type
	// KwOperation represents the 'operation' keyword.
	KwOperation // operation
	// KwTrue represents the 'true' keyword.
	KwTrue // true
	// KwFalse represents the 'false' keyword.
	KwFalse // false

	// IntLit represents an integer literal token.
	IntLit
	// FloatLit represents a float literal token.
	FloatLit
	// StringLit represents a string literal token.
	StringLit

	// LBrace represents '{'.
	LBrace // {
	// RBrace represents '}'.
	RBrace // }
	// LParen represents '('.
	LParen // (
	// RParen represents ')'.
	RParen // )
	// LBracket represents '['.
	LBracket // [
	// RBracket represents ']'.
	RBracket // ]
	// Semicolon represents ';'.
	Semicolon // ;
	// Colon represents ':'.
	Colon // :
	// ColonColon represents '::'.
	ColonColon // ::
	// Comma represents ','.
	Comma // ,
	// Question represents '?'.
	Question // ?
	// Bang represents '!'.
	Bang // !
	// Pipe represents '|'.
	Pipe // |
	// AmpPipe represents the union-or operator '&|'.
	AmpPipe // &|
	// Assign represents '='.
	Assign // =
	// Arrow represents '->'.
	Arrow // ->
	// Hash represents '#'.
	Hash // #
	// Dot represents '.'.
	Dot // .
)

func (k Kind) String() string {
	switch k {
	case Invalid:
		return "invalid"
	case EOF:
		return "eof"
	case Ident:
		return "identifier"
	case KwNamespace:
		return "namespace"
	case KwUse:
		return "use"
	case KwStruct:
		return "struct"
	case KwEnum:
		return "enum"
	case KwOneof:
		return "oneof"
	case KwError:
		return "error"
	case KwType:
		return "type"
	case KwOperation:
		return "operation"
	case KwTrue:
		return "true"
	case KwFalse:
		return "false"
	case IntLit:
		return "integer"
	case FloatLit:
		return "float"
	case StringLit:
		return "string"
	case LBrace:
		return "'{'"
	case RBrace:
		return "'}'"
	case LParen:
		return "'('"
	case RParen:
		return "')'"
	case LBracket:
		return "'['"
	case RBracket:
		return "']'"
	case Semicolon:
		return "';'"
	case Colon:
		return "':'"
	case ColonColon:
		return "'::'"
	case Comma:
		return "','"
	case Question:
		return "'?'"
	case Bang:
		return "'!'"
	case Pipe:
		return "'|'"
	case AmpPipe:
		return "'&|'"
	case Assign:
		return "'='"
	case Arrow:
		return "'->'"
	case Hash:
		return "'#'"
	case Dot:
		return "'.'"
	}
	return "unknown"
}
