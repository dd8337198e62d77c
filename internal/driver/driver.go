// Package driver orchestrates the compile pipeline: parallel lex+parse,
// then assembly, linking, and resolution over the whole input.
package driver

import (
	"context"
	"fmt"
	"runtime"

	"fortio.org/safecast"
	"golang.org/x/sync/errgroup"

	"ksc/internal/assemble"
	"ksc/internal/ast"
	"ksc/internal/catalog"
	"ksc/internal/diag"
	"ksc/internal/lexer"
	"ksc/internal/parser"
	"ksc/internal/resolve"
	"ksc/internal/source"
)

// FileInput names one schema file. Content may be nil, in which case the
// file is read from disk at Path.
type FileInput struct {
	Path    string
	Content []byte
}

// PackageInput groups the files of one package together with the
// dependency names its manifest declares.
type PackageInput struct {
	Name  string
	Files []FileInput
	Deps  []string
}

type CompileInput struct {
	Packages []PackageInput

	// FileSet receives the loaded files; a fresh set is created when nil.
	// Callers share one set so manifest and schema spans resolve together.
	FileSet *source.FileSet

	// Catalog defaults to catalog.Default() when nil.
	Catalog *catalog.Catalog

	// MaxDiagnostics bounds the merged bag; 0 means the bag default.
	MaxDiagnostics int

	// Jobs limits parse parallelism; <= 0 means GOMAXPROCS.
	Jobs int
}

type Result struct {
	FileSet  *source.FileSet
	Bag      *diag.Bag
	Packages []*assemble.Package
	Graph    *resolve.Graph
	Success  bool
}

type parsedFile struct {
	pkg  int
	ast  assemble.FileAST
	bag  *diag.Bag
	err  error // load failure, reported as a diagnostic
	path string
}

// Compile runs the full pipeline. The error return is reserved for
// cancellation and I/O-free internal failures; schema problems land in
// Result.Bag. On cancellation partial results are discarded.
func Compile(ctx context.Context, in CompileInput) (*Result, error) {
	fileSet := in.FileSet
	if fileSet == nil {
		fileSet = source.NewFileSet()
	}
	cat := in.Catalog
	if cat == nil {
		cat = catalog.Default()
	}
	maxDiags := in.MaxDiagnostics
	if maxDiags <= 0 {
		maxDiags = diag.DefaultMaxDiagnostics
	}
	jobs := in.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// Load everything up front; the FileSet is not safe for concurrent
	// mutation, parsing only reads from it.
	type pending struct {
		pkg     int
		path    string
		file    source.FileID
		loadErr error
	}
	var work []pending
	for pi, pkg := range in.Packages {
		for _, f := range pkg.Files {
			p := pending{pkg: pi, path: f.Path}
			if f.Content != nil {
				p.file = fileSet.AddVirtual(f.Path, f.Content)
			} else {
				p.file, p.loadErr = fileSet.Load(f.Path)
			}
			work = append(work, p)
		}
	}

	maxErrors, err := safecast.Conv[uint](maxDiags)
	if err != nil {
		return nil, fmt.Errorf("max diagnostics overflow: %w", err)
	}

	parsed := make([]parsedFile, len(work))
	g, gctx := errgroup.WithContext(ctx)
	if len(work) > 0 {
		g.SetLimit(min(jobs, len(work)))
	}
	for i, p := range work {
		i, p := i, p
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			bag := diag.NewBag(maxDiags)
			if p.loadErr != nil {
				bag.Add(diag.NewError(diag.InternalError, source.Span{},
					"failed to load file: "+p.loadErr.Error()))
				parsed[i] = parsedFile{pkg: p.pkg, bag: bag, err: p.loadErr, path: p.path}
				return nil
			}

			builder := ast.NewBuilder(ast.Hints{})
			lx := lexer.New(fileSet.Get(p.file), lexer.Options{
				Reporter: diag.BagReporter{Bag: bag},
			})
			res := parser.ParseFile(fileSet, lx, builder, parser.Options{
				MaxErrors: maxErrors,
				Reporter:  diag.BagReporter{Bag: bag},
			})
			parsed[i] = parsedFile{
				pkg:  p.pkg,
				ast:  assemble.FileAST{Builder: builder, File: res.File},
				bag:  bag,
				path: p.path,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	bag := diag.NewBag(maxDiags)
	rep := diag.BagReporter{Bag: bag}
	for i := range parsed {
		bag.Merge(parsed[i].bag)
	}

	// Assembly onward is single-threaded; the phases share the bag.
	deps := make(map[string][]string, len(in.Packages))
	pkgs := make([]*assemble.Package, 0, len(in.Packages))
	for pi, pin := range in.Packages {
		var files []assemble.FileAST
		for i := range parsed {
			if parsed[i].pkg == pi && parsed[i].err == nil {
				files = append(files, parsed[i].ast)
			}
		}
		pkgs = append(pkgs, assemble.Assemble(pin.Name, files, rep))
		deps[pin.Name] = pin.Deps
	}
	assemble.Link(pkgs, deps, rep)
	graph := resolve.Resolve(pkgs, cat, rep)

	bag.Sort()
	bag.Dedup()
	return &Result{
		FileSet:  fileSet,
		Bag:      bag,
		Packages: pkgs,
		Graph:    graph,
		Success:  !bag.HasErrors(),
	}, nil
}
