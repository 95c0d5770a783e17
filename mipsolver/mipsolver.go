// Package mipsolver implements the small mixed-integer-programming contract
// MipFlow depends on: create variables (continuous or boolean), a linear
// objective, ranged row constraints, and a Solve call that reports OPTIMAL
// or not. Internally it relaxes to an LP solved with gonum's simplex
// implementation and branches on the declared integer variables, since no
// OR-Tools-equivalent MIP package is fetchable from this module's
// dependency set.
package mipsolver

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"
)

// Status is the outcome of a Solve call.
type Status int

const (
	// StatusOptimal means Value is meaningful for every variable.
	StatusOptimal Status = iota
	// StatusInfeasible means no assignment satisfies every row.
	StatusInfeasible
	// StatusError means the underlying LP relaxation failed unexpectedly.
	StatusError
)

// VarID identifies a variable created by MakeNumVar/MakeBoolVar.
type VarID int

type row struct {
	coef map[VarID]float64
	lb   float64
	ub   float64
}

// Solver is a single MIP instance, rebuilt per solve via Clear.
type Solver struct {
	lb      []float64
	ub      []float64
	integer []bool
	objCoef []float64
	rows    []row

	solution []float64
	solved   bool
}

// New returns an empty solver.
func New() *Solver {
	return &Solver{}
}

// Clear discards every variable, row and cached solution, so the instance
// can be reused for the next flow problem (mirrors op::MPSolver::Clear()).
func (s *Solver) Clear() {
	s.lb = nil
	s.ub = nil
	s.integer = nil
	s.objCoef = nil
	s.rows = nil
	s.solution = nil
	s.solved = false
}

// MakeNumVar creates a continuous variable bounded by [lb, ub].
func (s *Solver) MakeNumVar(lb, ub float64) VarID {
	s.lb = append(s.lb, lb)
	s.ub = append(s.ub, ub)
	s.integer = append(s.integer, false)
	s.objCoef = append(s.objCoef, 0)

	return VarID(len(s.lb) - 1)
}

// MakeBoolVar creates an integer variable restricted to {0, 1}.
func (s *Solver) MakeBoolVar() VarID {
	v := s.MakeNumVar(0, 1)
	s.integer[v] = true

	return v
}

// SetObjectiveCoefficient sets the coefficient of v in the (always
// minimised) linear objective.
func (s *Solver) SetObjectiveCoefficient(v VarID, coef float64) {
	s.objCoef[v] = coef
}

// RowConstraint is a linear row bounded by [lb, ub], built incrementally via
// SetCoefficient.
type RowConstraint struct {
	solver *Solver
	index  int
}

// MakeRowConstraint creates a new row bounded by [lb, ub].
func (s *Solver) MakeRowConstraint(lb, ub float64) *RowConstraint {
	s.rows = append(s.rows, row{coef: make(map[VarID]float64), lb: lb, ub: ub})

	return &RowConstraint{solver: s, index: len(s.rows) - 1}
}

// SetCoefficient sets v's coefficient in this row.
func (r *RowConstraint) SetCoefficient(v VarID, coef float64) {
	r.solver.rows[r.index].coef[v] = coef
}

// VarCount returns the number of declared variables.
func (s *Solver) VarCount() int { return len(s.lb) }

// Value returns v's value in the last solved solution. Only meaningful
// after Solve returns StatusOptimal.
func (s *Solver) Value(v VarID) float64 {
	if !s.solved || int(v) >= len(s.solution) {
		return 0
	}

	return s.solution[v]
}

// Solve relaxes the instance to an LP and branches on every declared
// integer variable until an integer-feasible optimum is found or the
// search space is exhausted.
func (s *Solver) Solve() Status {
	s.solved = false

	bounds := make([][2]float64, len(s.lb))
	for i := range bounds {
		bounds[i] = [2]float64{s.lb[i], s.ub[i]}
	}

	best, bestObj, ok := s.branchAndBound(bounds, math.Inf(1))
	if !ok {
		return StatusInfeasible
	}

	_ = bestObj
	s.solution = best
	s.solved = true

	return StatusOptimal
}

// branchAndBound explores the search tree depth-first, pruning any branch
// whose LP relaxation is no better than incumbent. Returns the best
// integer-feasible solution found, its objective value, and whether one
// was found at all.
func (s *Solver) branchAndBound(bounds [][2]float64, incumbent float64) ([]float64, float64, bool) {
	x, obj, feasible := s.solveRelaxation(bounds)
	if !feasible {
		return nil, 0, false
	}
	if obj >= incumbent {
		return nil, 0, false
	}

	branchVar := -1
	for i, isInt := range s.integer {
		if !isInt {
			continue
		}
		frac := x[i] - math.Floor(x[i])
		if frac > 1e-6 && frac < 1-1e-6 {
			branchVar = i
			break
		}
	}

	if branchVar == -1 {
		return x, obj, true
	}

	floorBounds := append([][2]float64(nil), bounds...)
	floorBounds[branchVar] = [2]float64{bounds[branchVar][0], math.Floor(x[branchVar])}
	ceilBounds := append([][2]float64(nil), bounds...)
	ceilBounds[branchVar] = [2]float64{math.Ceil(x[branchVar]), bounds[branchVar][1]}

	bestX, bestObj, found := ([]float64)(nil), incumbent, false

	if xf, of, ok := s.branchAndBound(floorBounds, bestObj); ok {
		bestX, bestObj, found = xf, of, true
	}
	if xc, oc, ok := s.branchAndBound(ceilBounds, bestObj); ok {
		bestX, bestObj, found = xc, oc, true
	}

	return bestX, bestObj, found
}

// solveRelaxation solves the continuous LP for the given per-variable
// bounds (ignoring integrality), returning the solution in original
// variable space and the (un-shifted) objective value.
//
// Every original variable x_i is shifted to y_i = x_i - lb_i >= 0 and given
// an equality row y_i + u_i = span_i pinning its upper bound via a bounded
// slack u_i. Every row constraint sum(coef*x) in [rowLB, rowUB] becomes
// sum(coef*y) + w = rowUB - sum(coef*lb), w in [0, rowUB-rowLB], which in
// turn needs its own bound row w + t = rowUB-rowLB. gonum's simplex only
// solves equality systems with nonnegative variables, so every bound is
// modelled as its own row rather than a native upper-bound facility.
func (s *Solver) solveRelaxation(bounds [][2]float64) ([]float64, float64, bool) {
	n := len(s.lb)

	span := make([]float64, n)
	for i := range span {
		span[i] = bounds[i][1] - bounds[i][0]
		if span[i] < 0 {
			return nil, 0, false
		}
	}

	// Column layout: [0,n) original y's, [n,n+numRows) row slacks w,
	// followed by one bound-enforcing slack per finite-span variable and
	// per row.
	numRows := len(s.rows)
	type boundedSlack struct {
		col  int // column of the slack being bounded
		span float64
	}
	var boundedSlacks []boundedSlack
	for i := 0; i < n; i++ {
		if math.IsInf(span[i], 1) {
			continue
		}
		boundedSlacks = append(boundedSlacks, boundedSlack{col: i, span: span[i]})
	}
	for i, r := range s.rows {
		rowSpan := r.ub - r.lb
		if math.IsInf(rowSpan, 1) {
			continue
		}
		boundedSlacks = append(boundedSlacks, boundedSlack{col: n + i, span: rowSpan})
	}

	totalRows := numRows + len(boundedSlacks)
	totalCols := n + numRows + len(boundedSlacks)

	A := mat.NewDense(totalRows, totalCols, nil)
	b := make([]float64, totalRows)
	c := make([]float64, totalCols)

	for i := 0; i < n; i++ {
		c[i] = s.objCoef[i]
	}

	rIdx := 0
	constOffset := 0.0
	for ri, r := range s.rows {
		rowUBShifted := r.ub
		for v, coef := range r.coef {
			rowUBShifted -= coef * bounds[v][0]
			A.Set(rIdx, int(v), A.At(rIdx, int(v))+coef)
		}
		A.Set(rIdx, n+ri, 1)
		b[rIdx] = rowUBShifted
		rIdx++
	}

	for i, bs := range boundedSlacks {
		A.Set(rIdx, bs.col, 1)
		A.Set(rIdx, n+numRows+i, 1)
		b[rIdx] = bs.span
		rIdx++
	}

	for i := 0; i < n; i++ {
		constOffset += s.objCoef[i] * bounds[i][0]
	}

	zmin, x, err := lp.Simplex(c, A, b, 1e-10, nil)
	if err != nil {
		return nil, 0, false
	}

	result := make([]float64, n)
	for i := 0; i < n; i++ {
		result[i] = bounds[i][0] + x[i]
	}

	return result, zmin + constOffset, true
}
