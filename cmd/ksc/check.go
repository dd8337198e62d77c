package main

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"ksc/internal/diag"
	"ksc/internal/diagfmt"
	"ksc/internal/driver"
	"ksc/internal/project"
	"ksc/internal/source"
)

var checkNoCache bool

func init() {
	checkCmd.Flags().BoolVar(&checkNoCache, "no-cache", false, "ignore and do not update the disk cache")
}

var checkCmd = &cobra.Command{
	Use:   "check [dir]",
	Short: "Check a schema package and its dependencies",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		startDir := "."
		if len(args) == 1 {
			startDir = args[0]
		}
		maxDiags, _ := cmd.Flags().GetInt("max-diagnostics")
		jobs, _ := cmd.Flags().GetInt("jobs")

		fileSet := source.NewFileSet()
		bag := diag.NewBag(maxDiags)
		rep := diag.BagReporter{Bag: bag}

		input, ok := loadBuild(startDir, fileSet, rep)
		render := func() {
			diagfmt.Pretty(os.Stderr, bag, fileSet, diagfmt.PrettyOpts{
				Color:       useColor(cmd),
				ShowNotes:   true,
				ShowContext: true,
			})
		}
		if !ok {
			render()
			return fmt.Errorf("check failed")
		}

		var cache *driver.DiskCache
		if !checkNoCache {
			cache, _ = driver.OpenDiskCache("ksc") // cache failures are not fatal
			if skipUnchanged(cache, input) {
				fmt.Fprintln(cmd.OutOrStdout(), "unchanged, nothing to check")
				return nil
			}
		}

		res, err := driver.Compile(cmd.Context(), driver.CompileInput{
			Packages:       input.packages,
			FileSet:        fileSet,
			MaxDiagnostics: maxDiags,
			Jobs:           jobs,
		})
		if err != nil {
			return err
		}
		bag.Merge(res.Bag)
		render()

		storeSnapshots(cache, input, res)
		if !res.Success {
			return fmt.Errorf("check failed")
		}
		return nil
	},
}

// buildInput is the package set for one check run, dependency order first.
type buildInput struct {
	packages []driver.PackageInput
	versions map[string]string
	hashes   map[string]project.Digest // package name -> cache key
}

// loadBuild locates the manifest (falling back to loose files in dir),
// reads every schema file, and arranges packages in dependency order.
// Problems are reported into rep; ok is false when nothing can be compiled.
func loadBuild(startDir string, fileSet *source.FileSet, rep diag.Reporter) (*buildInput, bool) {
	root, found, err := project.FindPackageRoot(startDir)
	if err != nil {
		diag.ReportError(rep, diag.InternalError, source.Span{}, err.Error())
		return nil, false
	}
	if !found {
		// loose mode: every .ks under startDir forms one anonymous package
		files, ok := readSchemaFiles(startDir, rep)
		if !ok {
			return nil, false
		}
		in := &buildInput{
			packages: []driver.PackageInput{{Name: "main", Files: files}},
			versions: map[string]string{"main": ""},
		}
		in.hashes = keyPackages(in)
		return in, true
	}

	manifests := make(map[string]*project.Manifest)
	roots := make(map[string]string)
	if !loadManifestTree(root, fileSet, rep, manifests, roots) {
		return nil, false
	}
	order := project.PlanOrder(manifests, rep)

	in := &buildInput{versions: make(map[string]string)}
	for _, name := range order.Names {
		if order.Failed[name] {
			continue
		}
		files, ok := readSchemaFiles(roots[name], rep)
		if !ok {
			return nil, false
		}
		in.packages = append(in.packages, driver.PackageInput{
			Name:  name,
			Files: files,
			Deps:  manifests[name].DepPaths(),
		})
		in.versions[name] = manifests[name].Version
	}
	if len(order.Failed) > 0 {
		return in, false
	}
	in.hashes = keyPackages(in)
	return in, true
}

// loadManifestTree loads the manifest at root and, recursively, the
// manifests of dependencies expected under <root>/deps/<name>/.
func loadManifestTree(root string, fileSet *source.FileSet, rep diag.Reporter,
	manifests map[string]*project.Manifest, roots map[string]string) bool {
	path := filepath.Join(root, project.ManifestName)
	data, err := os.ReadFile(path)
	if err != nil {
		diag.ReportError(rep, diag.PkgBadManifest, source.Span{},
			fmt.Sprintf("failed to read %s: %v", path, err))
		return false
	}
	m, ok := project.ParseManifest(fileSet, path, data, rep)
	if !ok {
		return false
	}
	if _, seen := manifests[m.Name]; seen {
		return true
	}
	manifests[m.Name] = m
	roots[m.Name] = root

	for _, dep := range m.DepPaths() {
		depRoot := filepath.Join(root, "deps", dep)
		if info, err := os.Stat(depRoot); err != nil || !info.IsDir() {
			diag.ReportError(rep, diag.PkgMissingDep, m.Span,
				fmt.Sprintf("dependency %q is not installed under deps/", dep))
			return false
		}
		if !loadManifestTree(depRoot, fileSet, rep, manifests, roots) {
			return false
		}
	}
	return true
}

func readSchemaFiles(root string, rep diag.Reporter) ([]driver.FileInput, bool) {
	paths, err := project.SchemaFiles(root)
	if err != nil {
		diag.ReportError(rep, diag.InternalError, source.Span{}, err.Error())
		return nil, false
	}
	files := make([]driver.FileInput, 0, len(paths))
	for _, rel := range paths {
		full := filepath.Join(root, filepath.FromSlash(rel))
		data, err := os.ReadFile(full)
		if err != nil {
			diag.ReportError(rep, diag.InternalError, source.Span{},
				fmt.Sprintf("failed to read %s: %v", full, err))
			return nil, false
		}
		files = append(files, driver.FileInput{Path: full, Content: data})
	}
	return files, true
}

func sha256Of(b []byte) [32]byte { return sha256.Sum256(b) }

// keyPackages computes cache keys bottom-up: a package key covers its own
// file contents plus the keys of its dependencies.
func keyPackages(in *buildInput) map[string]project.Digest {
	keys := make(map[string]project.Digest, len(in.packages))
	for _, pkg := range in.packages { // already dependency-ordered
		var fileHashes []project.Digest
		for _, f := range pkg.Files {
			fileHashes = append(fileHashes, project.Digest(sha256Of(f.Content)))
		}
		var depHashes []project.Digest
		for _, dep := range pkg.Deps {
			depHashes = append(depHashes, keys[dep])
		}
		keys[pkg.Name] = driver.PackageHash(pkg.Name, fileHashes, depHashes)
	}
	return keys
}

// skipUnchanged reports whether every package has a clean cached snapshot.
func skipUnchanged(cache *driver.DiskCache, in *buildInput) bool {
	if cache == nil || in.hashes == nil {
		return false
	}
	for _, pkg := range in.packages {
		snap, ok, err := cache.Get(in.hashes[pkg.Name])
		if err != nil || !ok || snap.Broken || snap.Warnings > 0 {
			return false
		}
	}
	return len(in.packages) > 0
}

func storeSnapshots(cache *driver.DiskCache, in *buildInput, res *driver.Result) {
	if cache == nil || in.hashes == nil {
		return
	}
	warnings := 0
	for _, d := range res.Bag.Items() {
		if d.Severity == diag.SevWarning {
			warnings++
		}
	}
	for _, pkg := range in.packages {
		key := in.hashes[pkg.Name]
		paths := make([]string, 0, len(pkg.Files))
		hashes := make([]project.Digest, 0, len(pkg.Files))
		for _, f := range pkg.Files {
			paths = append(paths, f.Path)
			hashes = append(hashes, project.Digest(sha256Of(f.Content)))
		}
		_ = cache.Put(key, &driver.Snapshot{
			Package:     pkg.Name,
			Version:     in.versions[pkg.Name],
			FilePaths:   paths,
			FileHashes:  hashes,
			PackageHash: key,
			Broken:      !res.Success,
			Warnings:    warnings,
		})
	}
}
