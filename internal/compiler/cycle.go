package compiler

import (
	"fmt"
	"slices"
	"strings"
)

// referenceGraph maps a table entry to the entries its union members name.
// order holds entry names in declaration order so that traversal, and
// therefore the reported cycle, is deterministic.
type referenceGraph struct {
	order []string
	edges map[string][]string
}

func newReferenceGraph() *referenceGraph {
	return &referenceGraph{edges: make(map[string][]string)}
}

func (g *referenceGraph) addNode(name string) {
	if _, ok := g.edges[name]; ok {
		return
	}
	g.order = append(g.order, name)
	g.edges[name] = []string{}
}

func (g *referenceGraph) addEdge(from, to string) {
	g.addNode(from)
	g.edges[from] = append(g.edges[from], to)
}

// findReferenceCycles returns one cycle per strongly connected component
// that has one, as paths like ["A", "B", "A"]. An acyclic table returns nil.
// Unions must be finite trees of colors, so every cycle is an error.
func findReferenceCycles(g *referenceGraph) [][]string {
	var cycles [][]string
	for _, scc := range g.components() {
		if len(scc) == 1 && !slices.Contains(g.edges[scc[0]], scc[0]) {
			continue
		}
		cycles = append(cycles, g.cycleThrough(scc))
	}
	return cycles
}

func newCycleError(path []string) *CompileError {
	return &CompileError{
		Field:   "members",
		Message: fmt.Sprintf("union reference cycle: %s", strings.Join(path, " → ")),
	}
}

// sccState is the bookkeeping of Tarjan's algorithm.
type sccState struct {
	g       *referenceGraph
	counter int
	index   map[string]int
	low     map[string]int
	onStack map[string]bool
	stack   []string
	out     [][]string
}

// components returns the strongly connected components of g. Roots are
// visited in declaration order.
func (g *referenceGraph) components() [][]string {
	s := &sccState{
		g:       g,
		index:   make(map[string]int, len(g.order)),
		low:     make(map[string]int, len(g.order)),
		onStack: make(map[string]bool, len(g.order)),
	}
	for _, name := range g.order {
		if _, seen := s.index[name]; !seen {
			s.visit(name)
		}
	}
	return s.out
}

func (s *sccState) visit(v string) {
	s.index[v] = s.counter
	s.low[v] = s.counter
	s.counter++
	s.stack = append(s.stack, v)
	s.onStack[v] = true

	for _, w := range s.g.edges[v] {
		if _, seen := s.index[w]; !seen {
			s.visit(w)
			s.low[v] = min(s.low[v], s.low[w])
		} else if s.onStack[w] {
			s.low[v] = min(s.low[v], s.index[w])
		}
	}

	if s.low[v] != s.index[v] {
		return
	}
	var scc []string
	for {
		w := s.stack[len(s.stack)-1]
		s.stack = s.stack[:len(s.stack)-1]
		s.onStack[w] = false
		scc = append(scc, w)
		if w == v {
			break
		}
	}
	s.out = append(s.out, scc)
}

// cycleThrough returns the shortest closed path inside scc that starts and
// ends at the scc member declared first.
func (g *referenceGraph) cycleThrough(scc []string) []string {
	var start string
	for _, name := range g.order {
		if slices.Contains(scc, name) {
			start = name
			break
		}
	}

	parent := map[string]string{start: ""}
	queue := []string{start}
	for len(queue) > 0 {
		v := queue[0]
		queue = queue[1:]
		for _, w := range g.edges[v] {
			if w == start {
				path := []string{start}
				for n := v; n != start; n = parent[n] {
					path = append(path, n)
				}
				slices.Reverse(path[1:])
				return append(path, start)
			}
			if _, seen := parent[w]; seen || !slices.Contains(scc, w) {
				continue
			}
			parent[w] = v
			queue = append(queue, w)
		}
	}
	return []string{start}
}
