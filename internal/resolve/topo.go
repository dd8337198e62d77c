package resolve

import (
	"sort"

	"ksc/internal/assemble"
	"ksc/internal/diag"
)

// detectImportCycles finds strongly connected components of the namespace
// import graph. Every member of a component with a cycle (size > 1, or a
// self-import) is reported and marked failed; the rest of the graph still
// resolves.
func detectImportCycles(namespaces map[string]*assemble.Namespace, rep diag.Reporter) {
	paths := make([]string, 0, len(namespaces))
	for p := range namespaces {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	edges := make(map[string][]string, len(namespaces))
	for _, p := range paths {
		for _, imp := range namespaces[p].Imports {
			if _, ok := namespaces[imp.Path]; ok {
				edges[p] = append(edges[p], imp.Path)
			}
		}
	}

	t := &tarjan{
		edges:   edges,
		index:   make(map[string]int, len(paths)),
		lowlink: make(map[string]int, len(paths)),
		onStack: make(map[string]bool, len(paths)),
	}
	for _, p := range paths {
		if _, seen := t.index[p]; !seen {
			t.visit(p)
		}
	}

	for _, scc := range t.sccs {
		cyclic := len(scc) > 1
		if !cyclic {
			for _, to := range edges[scc[0]] {
				if to == scc[0] {
					cyclic = true
				}
			}
		}
		if !cyclic {
			continue
		}
		sort.Strings(scc)
		for _, p := range scc {
			ns := namespaces[p]
			ns.Failed = true
			sp := ns.Imports[0].Span
			for _, imp := range ns.Imports {
				if _, inCycle := t.cycleSet[imp.Path]; inCycle {
					sp = imp.Span
					break
				}
			}
			diag.ReportError(rep, diag.ResImportCycle, sp,
				"namespace '"+p+"' is part of an import cycle: "+joinCycle(scc))
		}
	}
}

func joinCycle(paths []string) string {
	out := ""
	for i, p := range paths {
		if i > 0 {
			out += " -> "
		}
		out += p
	}
	return out
}

type tarjan struct {
	edges   map[string][]string
	index   map[string]int
	lowlink map[string]int
	onStack map[string]bool
	stack   []string
	next    int
	sccs    [][]string
	// members of cyclic components, filled as sccs close
	cycleSet map[string]bool
}

func (t *tarjan) visit(v string) {
	t.index[v] = t.next
	t.lowlink[v] = t.next
	t.next++
	t.stack = append(t.stack, v)
	t.onStack[v] = true

	for _, w := range t.edges[v] {
		if _, seen := t.index[w]; !seen {
			t.visit(w)
			if t.lowlink[w] < t.lowlink[v] {
				t.lowlink[v] = t.lowlink[w]
			}
		} else if t.onStack[w] && t.index[w] < t.lowlink[v] {
			t.lowlink[v] = t.index[w]
		}
	}

	if t.lowlink[v] == t.index[v] {
		var scc []string
		for {
			n := len(t.stack) - 1
			w := t.stack[n]
			t.stack = t.stack[:n]
			t.onStack[w] = false
			scc = append(scc, w)
			if w == v {
				break
			}
		}
		t.sccs = append(t.sccs, scc)
		if len(scc) > 1 {
			if t.cycleSet == nil {
				t.cycleSet = make(map[string]bool)
			}
			for _, w := range scc {
				t.cycleSet[w] = true
			}
		}
	}
}
