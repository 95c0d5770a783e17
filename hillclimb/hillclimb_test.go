package hillclimb_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MaximilianAzendorf/wassign-sub000/assignment"
	"github.com/MaximilianAzendorf/wassign-sub000/critical"
	"github.com/MaximilianAzendorf/wassign-sub000/hillclimb"
	"github.com/MaximilianAzendorf/wassign-sub000/mipflow"
	"github.com/MaximilianAzendorf/wassign-sub000/model"
	"github.com/MaximilianAzendorf/wassign-sub000/rng"
	"github.com/MaximilianAzendorf/wassign-sub000/status"
)

func threeChoiceTwoSlotInput(t *testing.T) *model.InputData {
	t.Helper()

	raw := model.MutableInputData{
		Choices: []model.RawChoice{
			{Name: "a", Min: 1, Max: 2, Parts: 1},
			{Name: "b", Min: 1, Max: 2, Parts: 1},
			{Name: "c", Min: 1, Max: 2, Parts: 1},
		},
		Choosers: []model.RawChooser{
			{Name: "p1", Preferences: []int{0, 1, 2}},
			{Name: "p2", Preferences: []int{2, 0, 1}},
		},
		SlotNames: []string{"s1", "s2"},
	}

	data, err := model.NewInputData(raw)
	require.NoError(t, err)

	return data
}

func newSolver(t *testing.T, data *model.InputData, options model.Options) *hillclimb.Solver {
	t.Helper()

	cs := critical.Analyze(data, true, status.Noop)
	staticData := mipflow.NewStaticData(data)
	asn := assignment.New(data, cs, staticData, options)

	return hillclimb.New(data, asn, options, rng.New(7, 11))
}

func TestSolve_ReturnsFeasibleSolutionForFeasibleStart(t *testing.T) {
	data := threeChoiceTwoSlotInput(t)
	sched := model.NewScheduling(data, []int{0, 0, 1})
	require.True(t, sched.IsFeasible())

	solver := newSolver(t, data, model.DefaultOptions())

	sol := solver.Solve(context.Background(), sched)
	require.False(t, sol.IsInvalid())
	assert.True(t, sol.IsFeasible())
	assert.True(t, solver.AssignmentCount() > 0)
}

func TestSolve_InfeasibleStartingSchedulingReturnsInvalid(t *testing.T) {
	data := threeChoiceTwoSlotInput(t)
	// Every choice crammed into one slot leaves the other slot empty,
	// which is infeasible since every chooser must be assigned to it too.
	sched := model.NewScheduling(data, []int{0, 0, 0})
	require.False(t, sched.IsFeasible())

	solver := newSolver(t, data, model.DefaultOptions())

	sol := solver.Solve(context.Background(), sched)
	assert.True(t, sol.IsInvalid())
}

func TestSolve_CancelledContextReturnsInvalid(t *testing.T) {
	data := threeChoiceTwoSlotInput(t)
	sched := model.NewScheduling(data, []int{0, 0, 1})

	solver := newSolver(t, data, model.DefaultOptions())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sol := solver.Solve(ctx, sched)
	assert.True(t, sol.IsInvalid())
}
