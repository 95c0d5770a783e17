// Package mipflow models a single assignment problem as a modified
// min-cost-flow instance layered on top of mipsolver: edges carry capacity
// and cost, some may be forced to zero flow (blocked) or tied together
// (implications, edge-equality groups), and the whole thing is solved as a
// MIP where only the variables the implication graph can't infer for free
// are declared integer.
package mipflow

import (
	"github.com/MaximilianAzendorf/wassign-sub000/implication"
	"github.com/MaximilianAzendorf/wassign-sub000/mipsolver"
)

// Flow is a min-cost flow instance with node keys of type N and edge keys
// of type E, both comparable so callers can address nodes/edges by a
// domain key (e.g. a packed chooser/slot/choice id) instead of a bare
// integer index.
type Flow[N comparable, E comparable] struct {
	nodeIndex map[N]int
	edgeIndex map[E]int

	supply   []int
	outgoing [][]int
	incoming [][]int

	edgeMax  []int
	edgeCost []int64

	blocked map[int]struct{}
	impl    *implication.Graph

	solution []int
	solved   bool
}

// New returns an empty flow instance.
func New[N comparable, E comparable]() *Flow[N, E] {
	return &Flow[N, E]{
		nodeIndex: make(map[N]int),
		edgeIndex: make(map[E]int),
		blocked:   make(map[int]struct{}),
		impl:      implication.New(),
	}
}

// AddNode adds an anonymous node and returns its index.
func (f *Flow[N, E]) AddNode() int {
	f.solution = nil
	f.solved = false
	f.outgoing = append(f.outgoing, nil)
	f.incoming = append(f.incoming, nil)
	f.supply = append(f.supply, 0)

	return f.NodeCount() - 1
}

// AddNodeKeyed adds a node addressable by key and returns its index.
func (f *Flow[N, E]) AddNodeKeyed(key N) int {
	n := f.AddNode()
	f.nodeIndex[key] = n

	return n
}

// SetSupply sets the (possibly negative) supply of a node: positive is a
// source, negative a sink.
func (f *Flow[N, E]) SetSupply(node, supply int) {
	f.solution = nil
	f.solved = false
	f.supply[node] = supply
}

// AddEdge adds an anonymous edge from->to with the given capacity and
// per-unit cost, and returns its index.
func (f *Flow[N, E]) AddEdge(from, to, max int, unitCost int64) int {
	f.solution = nil
	f.solved = false
	f.edgeMax = append(f.edgeMax, max)
	f.edgeCost = append(f.edgeCost, unitCost)
	edge := f.EdgeCount() - 1

	f.outgoing[from] = append(f.outgoing[from], edge)
	f.incoming[to] = append(f.incoming[to], edge)

	return edge
}

// AddEdgeKeyed adds an edge addressable by key and returns its index.
func (f *Flow[N, E]) AddEdgeKeyed(key E, from, to, max int, unitCost int64) int {
	edge := f.AddEdge(from, to, max, unitCost)
	f.edgeIndex[key] = edge

	return edge
}

// BlockEdge forces the given edge to carry zero flow in any solution.
func (f *Flow[N, E]) BlockEdge(edge int) {
	f.solution = nil
	f.solved = false
	f.blocked[edge] = struct{}{}
}

// AddImplication posts x_from <= x_to in the final MIP.
func (f *Flow[N, E]) AddImplication(fromEdge, toEdge int) {
	f.solution = nil
	f.solved = false
	f.impl.AddImplication(fromEdge, toEdge)
}

// MakeEdgesEqual mutually implicates every edge keyed by keys so they carry
// identical flow. If any key is missing or one of the resolved edges is
// already blocked, every resolved edge is blocked instead (mirrors
// original_source's create_edge_group_or_block_edges).
func (f *Flow[N, E]) MakeEdgesEqual(keys []E) {
	var edges []int
	blocked := false

	for _, k := range keys {
		e, ok := f.edgeIndex[k]
		if !ok {
			blocked = true
			continue
		}
		edges = append(edges, e)
		if _, isBlocked := f.blocked[e]; isBlocked {
			blocked = true
		}
	}

	if blocked {
		for _, e := range edges {
			f.BlockEdge(e)
		}

		return
	}

	for i := 1; i < len(edges); i++ {
		f.AddImplication(edges[0], edges[i])
		f.AddImplication(edges[i], edges[0])
	}
}

// NodeCount returns the number of nodes.
func (f *Flow[N, E]) NodeCount() int { return len(f.outgoing) }

// EdgeCount returns the number of edges.
func (f *Flow[N, E]) EdgeCount() int { return len(f.edgeMax) }

// NodeOf resolves a node key to its index.
func (f *Flow[N, E]) NodeOf(key N) (int, bool) {
	n, ok := f.nodeIndex[key]

	return n, ok
}

// EdgeOf resolves an edge key to its index.
func (f *Flow[N, E]) EdgeOf(key E) (int, bool) {
	e, ok := f.edgeIndex[key]

	return e, ok
}

// Solve builds the MIP described in spec §4.4 on top of solver and reads
// back the integer solution on success: a variable per edge (bounded
// [0, max]), flow-balance row constraints per node, range [0,1] rows per
// implication, and a pinned-zero row per blocked edge. Edges whose index
// falls in the implication graph's minimal integer cover are declared
// boolean-ranged integer variables ({0,1} is sufficient since flow-balance
// and capacity already bound everything else); all others are continuous.
func (f *Flow[N, E]) Solve(solver *mipsolver.Solver) bool {
	solver.Clear()

	integerCover := f.impl.GetIntegerVariables()

	vars := make([]mipsolver.VarID, f.EdgeCount())
	for e := 0; e < f.EdgeCount(); e++ {
		if _, isInt := integerCover[e]; isInt && f.edgeMax[e] >= 1 {
			vars[e] = solver.MakeBoolVar()
		} else {
			vars[e] = solver.MakeNumVar(0, float64(f.edgeMax[e]))
		}
		solver.SetObjectiveCoefficient(vars[e], float64(f.edgeCost[e]))
	}

	for _, edge := range f.impl.Implications() {
		row := solver.MakeRowConstraint(0, 1)
		row.SetCoefficient(vars[edge[1]], 1)
		row.SetCoefficient(vars[edge[0]], -1)
	}

	for edge := range f.blocked {
		row := solver.MakeRowConstraint(0, 0)
		row.SetCoefficient(vars[edge], 1)
	}

	for node := 0; node < f.NodeCount(); node++ {
		row := solver.MakeRowConstraint(float64(-f.supply[node]), float64(-f.supply[node]))
		for _, in := range f.incoming[node] {
			row.SetCoefficient(vars[in], 1)
		}
		for _, out := range f.outgoing[node] {
			row.SetCoefficient(vars[out], -1)
		}
	}

	status := solver.Solve()
	if status != mipsolver.StatusOptimal {
		f.solved = false

		return false
	}

	f.solution = make([]int, f.EdgeCount())
	for e := 0; e < f.EdgeCount(); e++ {
		f.solution[e] = int(solver.Value(vars[e]) + 0.5)
	}
	f.solved = true

	return true
}

// SolutionValueAt returns the flow on the edge identified by key, or 0 if
// the key is unknown (mirrors original_source's "unknown key -> 0"
// convenience for edges that were never created, e.g. a blocked-out
// chooser/choice pair).
func (f *Flow[N, E]) SolutionValueAt(key E) int {
	e, ok := f.edgeIndex[key]
	if !ok || !f.solved {
		return 0
	}

	return f.solution[e]
}
