package diag

import (
	"fmt"
)

// Domain is the two-letter phase identifier inside a diagnostic code.
type Domain uint8

const (
	DomainUnknown Domain = iota
	// DomainLX covers lexical errors.
	DomainLX
	// DomainPR covers parse errors.
	DomainPR
	// DomainNS covers namespace errors.
	DomainNS
	// DomainTY covers type definition errors.
	DomainTY
	// DomainTR covers type resolution errors.
	DomainTR
	// DomainUN covers union operator errors.
	DomainUN
	// DomainMT covers metadata (version/err attribute) errors.
	DomainMT
	// DomainTG covers variant tagging errors.
	DomainTG
	// DomainTE covers type expression errors.
	DomainTE
	// DomainPK covers package/manifest errors.
	DomainPK
	// DomainIN covers internal compiler errors.
	DomainIN
)

func (d Domain) String() string {
	switch d {
	case DomainLX:
		return "LX"
	case DomainPR:
		return "PR"
	case DomainNS:
		return "NS"
	case DomainTY:
		return "TY"
	case DomainTR:
		return "TR"
	case DomainUN:
		return "UN"
	case DomainMT:
		return "MT"
	case DomainTG:
		return "TG"
	case DomainTE:
		return "TE"
	case DomainPK:
		return "PK"
	case DomainIN:
		return "IN"
	}
	return "??"
}

// Category is the single digit after the domain letters.
type Category uint8

const (
	CatSyntax        Category = 0
	CatResolution    Category = 1
	CatValidation    Category = 2
	CatConflict      Category = 3
	CatMissing       Category = 4
	CatCycle         Category = 5
	CatCompatibility Category = 6
	CatWarning       Category = 8
	CatInternal      Category = 9
)

// Code is a compositional diagnostic code rendered as K<domain><cat><seq>,
// e.g. KTY3003.
type Code struct {
	Domain   Domain
	Category Category
	Seq      uint16
}

func (c Code) String() string {
	return fmt.Sprintf("K%s%d%03d", c.Domain, c.Category, c.Seq)
}

func (c Code) IsZero() bool {
	return c == Code{}
}
