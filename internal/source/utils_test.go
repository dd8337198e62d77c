package source

import "testing"

func TestToLineCol(t *testing.T) {
	content := []byte("namespace acme;\nstruct User { id: u64 };\n\nenum Role { admin };\n")
	lineIdx := buildLineIndex(content)

	tests := []struct {
		name string
		off  uint32
		want LineCol
	}{
		{"start of file", 0, LineCol{Line: 1, Col: 1}},
		{"middle of first line", 10, LineCol{Line: 1, Col: 11}},
		{"newline ends its own line", 15, LineCol{Line: 1, Col: 16}},
		{"first offset of second line", 16, LineCol{Line: 2, Col: 1}},
		{"ident on second line", 23, LineCol{Line: 2, Col: 8}},
		{"empty third line", 41, LineCol{Line: 3, Col: 1}},
		{"after blank line", 42, LineCol{Line: 4, Col: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := toLineCol(lineIdx, tt.off)
			if got != tt.want {
				t.Fatalf("toLineCol(%d) = %d:%d, want %d:%d",
					tt.off, got.Line, got.Col, tt.want.Line, tt.want.Col)
			}
		})
	}
}

func TestToLineColNoNewlines(t *testing.T) {
	got := toLineCol(nil, 7)
	if got != (LineCol{Line: 1, Col: 8}) {
		t.Fatalf("got %d:%d, want 1:8", got.Line, got.Col)
	}
}

func TestResolveSpanOnSecondLine(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("user.ks", []byte("namespace acme;\nstruct User { id: u64 };\n"))

	start, end := fs.Resolve(Span{File: id, Start: 23, End: 27})
	if start != (LineCol{Line: 2, Col: 8}) {
		t.Fatalf("start = %d:%d, want 2:8", start.Line, start.Col)
	}
	if end != (LineCol{Line: 2, Col: 12}) {
		t.Fatalf("end = %d:%d, want 2:12", end.Line, end.Col)
	}
}

func TestNormalizeCRLF(t *testing.T) {
	out, changed := normalizeCRLF([]byte("a\r\nb\rc\n"))
	if !changed || string(out) != "a\nb\rc\n" {
		t.Fatalf("got %q (changed=%v)", out, changed)
	}

	out, changed = normalizeCRLF([]byte("plain\n"))
	if changed || string(out) != "plain\n" {
		t.Fatalf("got %q (changed=%v)", out, changed)
	}
}
