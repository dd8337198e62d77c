package ast

import (
	"ksc/internal/source"
)

// File is the root node of one parsed `.ks` file.
type File struct {
	Span   source.Span
	Source source.FileID
	Items  []ItemID
}

type Files struct {
	Arena *Arena[File]
}

func NewFiles(capHint uint) *Files {
	return &Files{
		Arena: NewArena[File](capHint),
	}
}

func (f *Files) New(src source.FileID, sp source.Span) FileID {
	return FileID(f.Arena.Allocate(File{
		Span:   sp,
		Source: src,
		Items:  make([]ItemID, 0),
	}))
}

func (f *Files) Get(id FileID) *File {
	return f.Arena.Get(uint32(id))
}
