package mipsolver_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MaximilianAzendorf/wassign-sub000/mipsolver"
)

func TestSolve_SimpleContinuousMinimisation(t *testing.T) {
	s := mipsolver.New()

	x := s.MakeNumVar(0, 10)
	y := s.MakeNumVar(0, 10)

	s.SetObjectiveCoefficient(x, 1)
	s.SetObjectiveCoefficient(y, 1)

	// x + y >= 5
	row := s.MakeRowConstraint(5, 1e9)
	row.SetCoefficient(x, 1)
	row.SetCoefficient(y, 1)

	status := s.Solve()
	require.Equal(t, mipsolver.StatusOptimal, status)
	assert.InDelta(t, 5, s.Value(x)+s.Value(y), 1e-6)
}

func TestSolve_BoolVarPicksIntegerCorner(t *testing.T) {
	s := mipsolver.New()

	b := s.MakeBoolVar()
	s.SetObjectiveCoefficient(b, -1) // maximize b by minimizing -b

	status := s.Solve()
	require.Equal(t, mipsolver.StatusOptimal, status)
	assert.InDelta(t, 1, s.Value(b), 1e-6)
}

func TestSolve_InfeasibleRowReportsInfeasible(t *testing.T) {
	s := mipsolver.New()

	x := s.MakeNumVar(0, 1)
	s.SetObjectiveCoefficient(x, 1)

	row := s.MakeRowConstraint(5, 5)
	row.SetCoefficient(x, 1)

	status := s.Solve()
	assert.Equal(t, mipsolver.StatusInfeasible, status)
}

func TestClear_ResetsState(t *testing.T) {
	s := mipsolver.New()
	s.MakeNumVar(0, 1)
	s.Clear()

	assert.Equal(t, 0, s.VarCount())
}
