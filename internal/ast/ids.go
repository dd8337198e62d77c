package ast

type (
	FileID    uint32
	ItemID    uint32
	DeclID    uint32
	FieldID   uint32
	VariantID uint32
	ParamID   uint32
	TypeID    uint32
	AttrID    uint32
)

const (
	NoFileID    FileID    = 0
	NoItemID    ItemID    = 0
	NoDeclID    DeclID    = 0
	NoFieldID   FieldID   = 0
	NoVariantID VariantID = 0
	NoParamID   ParamID   = 0
	NoTypeID    TypeID    = 0
	NoAttrID    AttrID    = 0
)

func (id FileID) IsValid() bool    { return id != NoFileID }
func (id ItemID) IsValid() bool    { return id != NoItemID }
func (id DeclID) IsValid() bool    { return id != NoDeclID }
func (id FieldID) IsValid() bool   { return id != NoFieldID }
func (id VariantID) IsValid() bool { return id != NoVariantID }
func (id ParamID) IsValid() bool   { return id != NoParamID }
func (id TypeID) IsValid() bool    { return id != NoTypeID }
func (id AttrID) IsValid() bool    { return id != NoAttrID }
