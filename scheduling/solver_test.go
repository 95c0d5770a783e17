package scheduling_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MaximilianAzendorf/wassign-sub000/critical"
	"github.com/MaximilianAzendorf/wassign-sub000/model"
	"github.com/MaximilianAzendorf/wassign-sub000/rng"
	"github.com/MaximilianAzendorf/wassign-sub000/scheduling"
	"github.com/MaximilianAzendorf/wassign-sub000/status"
)

func twoSlotInput(t *testing.T) *model.InputData {
	t.Helper()

	raw := model.MutableInputData{
		Choices: []model.RawChoice{
			{Name: "a", Min: 1, Max: 2, Parts: 1},
			{Name: "b", Min: 1, Max: 2, Parts: 1},
		},
		Choosers: []model.RawChooser{
			{Name: "p1", Preferences: []int{0, 1}},
			{Name: "p2", Preferences: []int{1, 0}},
		},
		SlotNames: []string{"s1", "s2"},
	}

	data, err := model.NewInputData(raw)
	require.NoError(t, err)

	return data
}

func TestNextScheduling_FindsFeasibleScheduling(t *testing.T) {
	data := twoSlotInput(t)
	cs := critical.Analyze(data, true, status.Noop)

	solver := scheduling.New(data, cs, model.DefaultOptions(), rng.New(1, 2))

	ok := solver.NextScheduling(context.Background())
	require.True(t, ok)
	require.True(t, solver.HasSolution())
	assert.True(t, solver.Scheduling().IsFeasible())
}

func TestNextScheduling_RespectsChoiceIsInSlotConstraint(t *testing.T) {
	raw := model.MutableInputData{
		Choices: []model.RawChoice{
			{Name: "a", Min: 1, Max: 2, Parts: 1},
			{Name: "b", Min: 1, Max: 2, Parts: 1},
		},
		Choosers: []model.RawChooser{
			{Name: "p1", Preferences: []int{0, 1}},
		},
		SlotNames:   []string{"s1", "s2"},
		Constraints: []model.Constraint{model.NewConstraint3(model.ChoiceIsInSlot, 0, 1)},
	}
	data, err := model.NewInputData(raw)
	require.NoError(t, err)

	cs := critical.Analyze(data, false, status.Noop)
	solver := scheduling.New(data, cs, model.DefaultOptions(), rng.New(5, 9))

	ok := solver.NextScheduling(context.Background())
	require.True(t, ok)
	assert.Equal(t, 1, solver.Scheduling().SlotOf(0))
}

func TestEnumerator_FindsSchedulingAcrossRelaxationLevels(t *testing.T) {
	data := twoSlotInput(t)
	cs := critical.Analyze(data, true, status.Noop)

	enum := scheduling.NewEnumerator(scheduling.New(data, cs, model.DefaultOptions(), rng.New(3, 4)))

	ok := enum.Next(context.Background())
	require.True(t, ok)
	assert.True(t, enum.HasSolution())
	assert.True(t, enum.Scheduling().IsFeasible())
}

func TestNextScheduling_CancelledContextFails(t *testing.T) {
	data := twoSlotInput(t)
	cs := critical.Analyze(data, false, status.Noop)
	solver := scheduling.New(data, cs, model.DefaultOptions(), rng.New(1, 1))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ok := solver.NextScheduling(ctx)
	assert.False(t, ok)
}
