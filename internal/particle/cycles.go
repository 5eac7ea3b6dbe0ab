package particle

import (
	"fmt"
	"strings"
)

// DecayCycle is a closed chain of species that decay into one another.
// Path starts and ends at the same species index.
type DecayCycle struct {
	Path []int
}

// Describe renders the cycle with species names.
func (d DecayCycle) Describe(c *Catalogue) string {
	names := make([]string, len(d.Path))
	for i, idx := range d.Path {
		names[i] = c.Species(idx).Name
	}
	return strings.Join(names, " → ")
}

// Error returns the cycle as an integrity error anchored at its first species.
func (d DecayCycle) Error(c *Catalogue) *IntegrityError {
	return &IntegrityError{
		Code:     ErrCodeDecayCycle,
		Species:  d.Path[0],
		Channel:  -1,
		Daughter: -1,
		Message:  fmt.Sprintf("decay chain loops back on itself: %s", d.Describe(c)),
	}
}

// DecayCycles finds species that can decay, directly or through a chain,
// back into themselves. Such catalogues cannot be resolved.
//
// The decay graph has an edge from each species to every daughter of every
// channel. Strongly connected components are found with Tarjan's algorithm;
// each component with more than one species, or a species listing itself as
// a daughter, is reported once. Species are visited in index order so the
// result is deterministic. An acyclic catalogue returns nil.
func (c *Catalogue) DecayCycles() []DecayCycle {
	graph := c.decayGraph()
	var cycles []DecayCycle
	for _, scc := range tarjanSCC(graph) {
		if len(scc) > 1 || hasSelfLoop(scc[0], graph) {
			cycles = append(cycles, DecayCycle{Path: cyclePath(scc, graph)})
		}
	}
	return cycles
}

// decayGraph lists the distinct daughters of each species.
func (c *Catalogue) decayGraph() [][]int {
	graph := make([][]int, len(c.species))
	for i := range c.species {
		seen := make(map[int]bool)
		for _, ch := range c.species[i].Channels {
			for _, d := range ch.Daughters {
				if d < 0 || d >= len(c.species) || seen[d] {
					continue
				}
				seen[d] = true
				graph[i] = append(graph[i], d)
			}
		}
	}
	return graph
}

func hasSelfLoop(node int, graph [][]int) bool {
	for _, next := range graph[node] {
		if next == node {
			return true
		}
	}
	return false
}

// tarjanSCC returns the strongly connected components of graph.
func tarjanSCC(graph [][]int) [][]int {
	var (
		index   int
		stack   []int
		indices = make([]int, len(graph))
		lowlink = make([]int, len(graph))
		onStack = make([]bool, len(graph))
		sccs    [][]int
	)
	for i := range indices {
		indices[i] = -1
	}

	var strongConnect func(int)
	strongConnect = func(v int) {
		indices[v] = index
		lowlink[v] = index
		index++
		stack = append(stack, v)
		onStack[v] = true

		for _, w := range graph[v] {
			if indices[w] < 0 {
				strongConnect(w)
				lowlink[v] = min(lowlink[v], lowlink[w])
			} else if onStack[w] {
				lowlink[v] = min(lowlink[v], indices[w])
			}
		}

		if lowlink[v] != indices[v] {
			return
		}
		var scc []int
		for {
			w := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			onStack[w] = false
			scc = append(scc, w)
			if w == v {
				break
			}
		}
		sccs = append(sccs, scc)
	}

	for v := range graph {
		if indices[v] < 0 {
			strongConnect(v)
		}
	}
	return sccs
}

// cyclePath walks edges inside scc from its lowest index until it returns
// to the start.
func cyclePath(scc []int, graph [][]int) []int {
	start := scc[0]
	member := make(map[int]bool, len(scc))
	for _, v := range scc {
		member[v] = true
		start = min(start, v)
	}

	path := []int{start}
	visited := map[int]bool{start: true}
	for current := start; ; {
		next := -1
		for _, w := range graph[current] {
			if w == start {
				return append(path, start)
			}
			if member[w] && !visited[w] && next < 0 {
				next = w
			}
		}
		if next < 0 {
			// Dead end inside the component: close the path back to start.
			return append(path, start)
		}
		visited[next] = true
		path = append(path, next)
		current = next
	}
}
