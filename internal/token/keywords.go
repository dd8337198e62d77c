package token

var keywords = map[string]Kind{
	"namespace": KwNamespace,
	"use":       KwUse,
	"struct":    KwStruct,
	"enum":      KwEnum,
	"oneof":     KwOneof,
	"error":     KwError,
	"type":      KwType,
	"operation": KwOperation,
	"true":      KwTrue,
	"false":     KwFalse,
}

// LookupKeyword returns the keyword kind for an identifier, if any.
// Keywords are case-sensitive; only the lowercase forms are recognized.
func LookupKeyword(ident string) (Kind, bool) {
	k, ok := keywords[ident]
	return k, ok
}
