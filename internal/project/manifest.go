package project

import (
	"fmt"
	"slices"
	"strings"
	"unicode"

	"github.com/BurntSushi/toml"

	"ksc/internal/diag"
	"ksc/internal/source"
)

// ManifestName is the file name looked up at the package root.
const ManifestName = "ks.toml"

// Manifest is a parsed ks.toml. Dependencies map package name to the
// version requirement string; version matching itself is out of scope,
// only presence of the dependency is checked.
type Manifest struct {
	Name         string
	Version      string
	Dependencies map[string]string

	// File and Span locate the manifest inside the file set so that
	// package-level diagnostics have somewhere to point.
	File source.FileID
	Span source.Span
}

type rawManifest struct {
	Package struct {
		Name    string `toml:"name"`
		Version string `toml:"version"`
	} `toml:"package"`
	Dependencies map[string]string `toml:"dependencies"`
}

// ParseManifest registers the manifest content under path in the file set
// and decodes it. Problems are reported as package diagnostics; the second
// return is false when the manifest is unusable.
func ParseManifest(fs *source.FileSet, path string, data []byte, rep diag.Reporter) (*Manifest, bool) {
	fileID := fs.AddVirtual(path, data)
	span := fs.Get(fileID).FullSpan()

	var raw rawManifest
	meta, err := toml.Decode(string(data), &raw)
	if err != nil {
		diag.ReportError(rep, diag.PkgBadManifest, span,
			fmt.Sprintf("invalid manifest: %v", err))
		return nil, false
	}
	if !meta.IsDefined("package") {
		diag.ReportError(rep, diag.PkgBadManifest, span,
			"invalid manifest: missing [package] section")
		return nil, false
	}

	name := strings.TrimSpace(raw.Package.Name)
	if !IsValidPackageName(name) {
		diag.ReportError(rep, diag.PkgBadManifest, span,
			fmt.Sprintf("invalid manifest: bad package name %q", name))
		return nil, false
	}

	m := &Manifest{
		Name:         name,
		Version:      strings.TrimSpace(raw.Package.Version),
		Dependencies: raw.Dependencies,
		File:         fileID,
		Span:         span,
	}
	if m.Dependencies == nil {
		m.Dependencies = map[string]string{}
	}
	for dep := range m.Dependencies {
		if !IsValidPackageName(dep) {
			diag.ReportError(rep, diag.PkgBadManifest, span,
				fmt.Sprintf("invalid manifest: bad dependency name %q", dep))
			return nil, false
		}
	}
	return m, true
}

// IsValidPackageName reports whether name is an ASCII identifier
// (letters, digits, underscores, not starting with a digit).
func IsValidPackageName(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		if r > unicode.MaxASCII {
			return false
		}
		if i == 0 && r != '_' && !unicode.IsLetter(r) {
			return false
		}
		if i > 0 && r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// DepPaths returns the sorted dependency names of m for the link step.
func (m *Manifest) DepPaths() []string {
	out := make([]string, 0, len(m.Dependencies))
	for dep := range m.Dependencies {
		out = append(out, dep)
	}
	slices.Sort(out)
	return out
}
