// Package implication builds the implication graph over MIP variables used
// by mipflow to decide which variables must be declared integer. An edge
// (a, b) models the constraint a <= b; whenever one endpoint of such a
// chain is integral, every variable reachable from it is forced integral
// too, so only a small dominating cover needs the explicit declaration.
package implication

import "sort"

// Graph is a directed graph of "a <= b" implications between variable
// indexes, grounded on original_source's ImplicationGraph.
type Graph struct {
	adjacency map[int]map[int]struct{}
}

// New returns an empty implication graph.
func New() *Graph {
	return &Graph{adjacency: make(map[int]map[int]struct{})}
}

// AddImplication records that variable `from` implies variable `to`
// (from <= to).
func (g *Graph) AddImplication(from, to int) {
	if g.adjacency[from] == nil {
		g.adjacency[from] = make(map[int]struct{})
	}
	g.adjacency[from][to] = struct{}{}
	if _, ok := g.adjacency[to]; !ok {
		g.adjacency[to] = make(map[int]struct{})
	}
}

// Implications returns every recorded (from, to) edge, sorted for
// deterministic iteration.
func (g *Graph) Implications() [][2]int {
	var res [][2]int
	for from, tos := range g.adjacency {
		for to := range tos {
			res = append(res, [2]int{from, to})
		}
	}
	sort.Slice(res, func(i, j int) bool {
		if res[i][0] != res[j][0] {
			return res[i][0] < res[j][0]
		}

		return res[i][1] < res[j][1]
	})

	return res
}

// GetIntegerVariables computes a small set of variables that must be
// declared integer so that every other variable is forced integral by
// implication: one representative per non-trivial strongly connected
// component, plus a greedy dominating set over whatever remains open.
func (g *Graph) GetIntegerVariables() map[int]struct{} {
	sccs := g.computeSCCs()
	result := g.dominatingVariables(sccs)

	for _, scc := range sccs {
		for v := range scc {
			result[v] = struct{}{}
			break
		}
	}

	return result
}

type vertexState struct {
	index, lowlink int
	onStack        bool
	visited        bool
}

// frame is one level of the explicit DFS stack replacing the recursive
// Tarjan routine from original_source, so pathologically deep implication
// chains can't blow the goroutine stack.
type frame struct {
	v        int
	children []int
	childIdx int
}

// computeSCCs runs Tarjan's algorithm iteratively and returns every
// non-trivial (size > 1) strongly connected component.
func (g *Graph) computeSCCs() []map[int]struct{} {
	var sccs []map[int]struct{}

	index := 1
	var tstack []int
	state := make(map[int]*vertexState)

	vertices := make([]int, 0, len(g.adjacency))
	for v := range g.adjacency {
		vertices = append(vertices, v)
	}
	sort.Ints(vertices)

	neighborsOf := func(v int) []int {
		ns := make([]int, 0, len(g.adjacency[v]))
		for w := range g.adjacency[v] {
			ns = append(ns, w)
		}
		sort.Ints(ns)

		return ns
	}

	for _, start := range vertices {
		if state[start] != nil && state[start].visited {
			continue
		}

		var callStack []*frame
		sv := &vertexState{index: index, lowlink: index, onStack: true, visited: true}
		state[start] = sv
		index++
		tstack = append(tstack, start)
		callStack = append(callStack, &frame{v: start, children: neighborsOf(start)})

		for len(callStack) > 0 {
			top := callStack[len(callStack)-1]
			sv := state[top.v]

			if top.childIdx < len(top.children) {
				w := top.children[top.childIdx]
				top.childIdx++

				sw := state[w]
				if sw == nil || !sw.visited {
					nsw := &vertexState{index: index, lowlink: index, onStack: true, visited: true}
					state[w] = nsw
					index++
					tstack = append(tstack, w)
					callStack = append(callStack, &frame{v: w, children: neighborsOf(w)})
				} else if sw.onStack {
					if sw.index < sv.lowlink {
						sv.lowlink = sw.index
					}
				}

				continue
			}

			// All children processed: pop and propagate lowlink to parent.
			callStack = callStack[:len(callStack)-1]

			if sv.lowlink == sv.index {
				scc := make(map[int]struct{})
				for {
					n := len(tstack) - 1
					w := tstack[n]
					tstack = tstack[:n]
					state[w].onStack = false
					scc[w] = struct{}{}
					if w == top.v {
						break
					}
				}
				if len(scc) > 1 {
					sccs = append(sccs, scc)
				}
			}

			if len(callStack) > 0 {
				parent := state[callStack[len(callStack)-1].v]
				if sv.lowlink < parent.lowlink {
					parent.lowlink = sv.lowlink
				}
			}
		}
	}

	return sccs
}

func (g *Graph) neighborsInSubset(v int, subset map[int]struct{}) []int {
	var res []int
	for w := range g.adjacency[v] {
		if _, ok := subset[w]; ok {
			res = append(res, w)
		}
	}

	return res
}

// openVariables returns the vertices not already covered by a non-trivial
// SCC that have at least one neighbor which is itself outside every
// non-trivial SCC (isolated vertices need no integer declaration of their
// own).
func (g *Graph) openVariables(sccs []map[int]struct{}) map[int]struct{} {
	candidates := make(map[int]struct{})
	for v := range g.adjacency {
		candidates[v] = struct{}{}
	}
	for _, scc := range sccs {
		for v := range scc {
			delete(candidates, v)
		}
	}

	open := make(map[int]struct{})
	for v := range candidates {
		if len(g.neighborsInSubset(v, candidates)) > 0 {
			open[v] = struct{}{}
		}
	}

	return open
}

// dominatingVariables greedily picks the open vertex with the most open
// neighbors, removes it and its neighbors from consideration, and repeats
// until every open vertex is covered.
func (g *Graph) dominatingVariables(sccs []map[int]struct{}) map[int]struct{} {
	open := g.openVariables(sccs)
	result := make(map[int]struct{})

	for len(open) > 0 {
		best := -1
		bestCount := -1

		ordered := make([]int, 0, len(open))
		for v := range open {
			ordered = append(ordered, v)
		}
		sort.Ints(ordered)

		for _, v := range ordered {
			count := len(g.neighborsInSubset(v, open))
			if count > bestCount {
				best = v
				bestCount = count
			}
		}

		delete(open, best)
		result[best] = struct{}{}
		for _, n := range g.neighborsInSubset(best, open) {
			delete(open, n)
		}
	}

	return result
}
