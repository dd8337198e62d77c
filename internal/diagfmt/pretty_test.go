package diagfmt

import (
	"strings"
	"testing"

	"ksc/internal/diag"
	"ksc/internal/source"
)

func TestPretty(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("schemas/user.ks", []byte("namespace acme;\nstruct User { id: u64 };\n"))

	bag := diag.NewBag(8)
	// span of "User" on line 2
	bag.Add(diag.NewError(diag.NsDuplicate, source.Span{File: id, Start: 23, End: 27},
		`duplicate declaration "User"`).
		WithNote(source.Span{File: id, Start: 23, End: 27}, "first declared here"))

	var sb strings.Builder
	Pretty(&sb, bag, fs, PrettyOpts{ShowNotes: true, ShowContext: true})
	out := sb.String()

	if !strings.Contains(out, `schemas/user.ks:2:8: ERROR KNS3004: duplicate declaration "User"`) {
		t.Errorf("heading missing:\n%s", out)
	}
	if !strings.Contains(out, "struct User { id: u64 };") {
		t.Errorf("context line missing:\n%s", out)
	}
	if !strings.Contains(out, "^~~~") {
		t.Errorf("underline missing:\n%s", out)
	}
	if !strings.Contains(out, "note: first declared here") {
		t.Errorf("note missing:\n%s", out)
	}
}

func TestPrettyZeroSpan(t *testing.T) {
	bag := diag.NewBag(8)
	bag.Add(diag.NewError(diag.PkgBadManifest, source.Span{}, "invalid manifest: missing [package] section"))

	var sb strings.Builder
	Pretty(&sb, bag, nil, PrettyOpts{})
	if !strings.HasPrefix(sb.String(), "ksc: ERROR KPK0001:") {
		t.Errorf("output: %q", sb.String())
	}
}

func TestPrettyUnderlineWidth(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("a.ks", []byte("bad\n"))

	bag := diag.NewBag(8)
	bag.Add(diag.NewError(diag.ParseUnexpectedToken, source.Span{File: id, Start: 0, End: 3}, "unexpected token"))

	var sb strings.Builder
	Pretty(&sb, bag, fs, PrettyOpts{ShowContext: true})
	if !strings.Contains(sb.String(), "\n  ^~~\n") {
		t.Errorf("output: %q", sb.String())
	}
}
