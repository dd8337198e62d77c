package diag

// Diagnostic code catalog. Sequence numbers are stable: new codes are
// appended, never renumbered.
var (
	// Lexical (KLX)
	LexUnknownChar          = Code{DomainLX, CatSyntax, 1}
	LexBadIntLiteral        = Code{DomainLX, CatSyntax, 2}
	LexBadFloatLiteral      = Code{DomainLX, CatSyntax, 3}
	LexUnterminatedString   = Code{DomainLX, CatSyntax, 5}
	LexBadEscape            = Code{DomainLX, CatSyntax, 6}
	LexUnterminatedBlockCmt = Code{DomainLX, CatSyntax, 8}

	// Parsing (KPR)
	ParseUnexpectedToken = Code{DomainPR, CatSyntax, 1}
	ParseUnexpectedEOF   = Code{DomainPR, CatSyntax, 2}
	ParseExpectedOneOf   = Code{DomainPR, CatSyntax, 3}
	ParseInvalidPath     = Code{DomainPR, CatSyntax, 4}
	ParseUnknownAttr     = Code{DomainPR, CatSyntax, 5}
	ParseEmptyBody       = Code{DomainPR, CatMissing, 6}

	// Namespaces and imports (KNS)
	NsNotDeclared   = Code{DomainNS, CatResolution, 1}
	NsUnresolvedDep = Code{DomainNS, CatResolution, 2}
	NsDuplicate     = Code{DomainNS, CatConflict, 4}
	NsUnknownImport = Code{DomainNS, CatMissing, 1}
	NsImportCycle   = Code{DomainNS, CatCycle, 1}

	// Type definitions (KTY)
	TyMissingErrorType  = Code{DomainTY, CatValidation, 1}
	TyMultipleErrorType = Code{DomainTY, CatValidation, 3}
	TyDeclConflict      = Code{DomainTY, CatConflict, 1}
	TyDuplicateField    = Code{DomainTY, CatConflict, 3}
	TyDuplicateVariant  = Code{DomainTY, CatConflict, 4}
	TyDuplicateDiscrim  = Code{DomainTY, CatConflict, 5}

	// Type resolution (KTR)
	ResUnknownType   = Code{DomainTR, CatResolution, 2}
	ResUnresolved    = Code{DomainTR, CatResolution, 3}
	ResImportCycle   = Code{DomainTR, CatCycle, 2}
	ResAliasCycle    = Code{DomainTR, CatCycle, 3}
	ResNotAPrimitive = Code{DomainTR, CatResolution, 4}

	// Union operator (KUN)
	UnionOperandNotStruct = Code{DomainUN, CatValidation, 1}
	UnionImplicitField    = Code{DomainUN, CatWarning, 1}

	// Metadata (KMT)
	MetaInvalidVersion  = Code{DomainMT, CatValidation, 1}
	MetaInvalidErrAttr  = Code{DomainMT, CatValidation, 2}
	MetaVersionConflict = Code{DomainMT, CatConflict, 1}
	MetaDuplicateAttr   = Code{DomainMT, CatConflict, 2}

	// Tagging (KTG)
	TagParamNotString   = Code{DomainTG, CatValidation, 1}
	TagMisplacedAttr    = Code{DomainTG, CatValidation, 2}
	TagInternalOnTuple  = Code{DomainTG, CatValidation, 3}
	TagKeyCollision     = Code{DomainTG, CatConflict, 2}
	TagAdjacentKeyClash = Code{DomainTG, CatConflict, 3}

	// Type expressions (KTE)
	TexprMissingBracket  = Code{DomainTE, CatSyntax, 1}
	TexprUnclosedBracket = Code{DomainTE, CatSyntax, 2}
	TexprInvalidSelector = Code{DomainTE, CatSyntax, 3}
	TexprUnknownField    = Code{DomainTE, CatResolution, 1}
	TexprUnknownVariant  = Code{DomainTE, CatResolution, 2}
	TexprKindMismatch    = Code{DomainTE, CatValidation, 1}
	TexprEmptySelectors  = Code{DomainTE, CatMissing, 1}
	TexprNoFieldsRemain  = Code{DomainTE, CatMissing, 2}

	// Packages (KPK)
	PkgBadManifest = Code{DomainPK, CatSyntax, 1}
	PkgMissingDep  = Code{DomainPK, CatMissing, 1}

	// Internal (KIN)
	InternalError = Code{DomainIN, CatInternal, 1}
)
