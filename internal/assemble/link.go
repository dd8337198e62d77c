package assemble

import (
	"ksc/internal/diag"
)

// Link resolves every namespace import against the supplied packages.
// deps maps a package name to the packages it declares as dependencies;
// a namespace may import siblings of its own package freely but foreign
// namespaces only through a declared dependency. A namespace with an
// unresolvable import is marked failed and skipped by resolution.
func Link(pkgs []*Package, deps map[string][]string, rep diag.Reporter) {
	owner := make(map[string]string) // namespace path -> package name
	targets := make(map[string]*Namespace)
	for _, pkg := range pkgs {
		for path, ns := range pkg.Namespaces {
			owner[path] = pkg.Name
			targets[path] = ns
		}
	}

	for _, pkg := range pkgs {
		allowed := map[string]bool{pkg.Name: true}
		for _, d := range deps[pkg.Name] {
			allowed[d] = true
		}
		for _, path := range pkg.Order {
			ns := pkg.Namespaces[path]
			for _, imp := range ns.Imports {
				ownerPkg, ok := owner[imp.Path]
				if !ok {
					diag.ReportError(rep, diag.NsUnknownImport, imp.Span,
						"unknown import '"+imp.Path+"'")
					ns.Failed = true
					continue
				}
				if !allowed[ownerPkg] {
					diag.ReportError(rep, diag.NsUnresolvedDep, imp.Span,
						"namespace '"+imp.Path+"' belongs to package '"+ownerPkg+
							"', which is not a declared dependency of '"+pkg.Name+"'")
					ns.Failed = true
					continue
				}
				target := targets[imp.Path]
				for _, n := range imp.Names {
					if _, ok := target.ByName[n.Name]; !ok {
						diag.ReportError(rep, diag.NsUnknownImport, n.Span,
							"namespace '"+imp.Path+"' has no declaration '"+n.Name+"'")
					}
				}
			}
		}
	}
}
