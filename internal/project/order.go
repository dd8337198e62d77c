package project

import (
	"fmt"
	"slices"
	"strings"

	"ksc/internal/diag"
)

// Order arranges packages into a compile order where every dependency
// precedes its dependents. Edges come from manifest [dependencies].
//
// A dependency on a package that is not part of the build is reported and
// the dependent is dropped from the order. Packages caught in a dependency
// cycle are reported per member and dropped as well.
type Order struct {
	Names   []string // compile order, dependencies first
	Batches [][]string
	Failed  map[string]bool
}

// PlanOrder runs Kahn's algorithm over the manifest dependency graph.
// Ties break alphabetically so the order is reproducible.
func PlanOrder(manifests map[string]*Manifest, rep diag.Reporter) *Order {
	names := make([]string, 0, len(manifests))
	for name := range manifests {
		names = append(names, name)
	}
	slices.Sort(names)

	ord := &Order{Failed: make(map[string]bool)}

	// dep -> dependents
	edges := make(map[string][]string, len(names))
	indeg := make(map[string]int, len(names))
	for _, name := range names {
		indeg[name] = 0
	}
	for _, name := range names {
		m := manifests[name]
		for _, dep := range m.DepPaths() {
			if _, ok := manifests[dep]; !ok {
				diag.ReportError(rep, diag.PkgMissingDep, m.Span,
					fmt.Sprintf("package %q depends on %q, which is not part of the build", name, dep))
				ord.Failed[name] = true
				continue
			}
			edges[dep] = append(edges[dep], name)
			indeg[name]++
		}
	}

	current := make([]string, 0, len(names))
	for _, name := range names {
		if indeg[name] == 0 {
			current = append(current, name)
		}
	}
	slices.Sort(current)

	visited := 0
	for len(current) > 0 {
		batch := make([]string, len(current))
		copy(batch, current)
		ord.Batches = append(ord.Batches, batch)

		next := make([]string, 0)
		for _, name := range batch {
			ord.Names = append(ord.Names, name)
			visited++
			for _, to := range edges[name] {
				indeg[to]--
				if indeg[to] == 0 {
					next = append(next, to)
				}
			}
		}
		slices.Sort(next)
		current = next
	}

	if visited != len(names) {
		var cyclic []string
		for _, name := range names {
			if indeg[name] > 0 {
				cyclic = append(cyclic, name)
			}
		}
		msg := "package dependency cycle: " + strings.Join(cyclic, " -> ")
		for _, name := range cyclic {
			diag.ReportError(rep, diag.NsImportCycle, manifests[name].Span, msg)
			ord.Failed[name] = true
		}
	}
	return ord
}
