package shotgun_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MaximilianAzendorf/wassign-sub000/critical"
	"github.com/MaximilianAzendorf/wassign-sub000/mipflow"
	"github.com/MaximilianAzendorf/wassign-sub000/model"
	"github.com/MaximilianAzendorf/wassign-sub000/rng"
	"github.com/MaximilianAzendorf/wassign-sub000/shotgun"
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

func TestIterate_ImprovesOrMaintainsBestScore(t *testing.T) {
	data := twoSlotInput(t)
	cs := critical.Analyze(data, true, status.Noop)
	staticData := mipflow.NewStaticData(data)
	options := model.DefaultOptions()

	solver := shotgun.New(data, cs, staticData, options, rng.New(1, 2))

	done := solver.Iterate(context.Background(), 5)
	require.True(t, done > 0)

	sol := solver.CurrentSolution()
	require.False(t, sol.IsInvalid())
	assert.True(t, sol.IsFeasible())
}

func TestThreadedSolver_ProducesFeasibleSolutionWithinTimeout(t *testing.T) {
	data := twoSlotInput(t)
	cs := critical.Analyze(data, true, status.Noop)
	staticData := mipflow.NewStaticData(data)
	options := model.DefaultOptions()
	options.Timeout = 1
	options.ThreadCount = 2

	pool := shotgun.NewThreaded(data, cs, staticData, options, rng.New(3, 4))
	pool.Start()

	sol := pool.WaitForResult()
	require.False(t, sol.IsInvalid())
	assert.True(t, sol.IsFeasible())
	assert.False(t, pool.IsRunning())
}

func TestThreadedSolver_CancelStopsWorkersPromptly(t *testing.T) {
	data := twoSlotInput(t)
	cs := critical.Analyze(data, true, status.Noop)
	staticData := mipflow.NewStaticData(data)
	options := model.DefaultOptions()
	options.Timeout = 60
	options.ThreadCount = 2

	pool := shotgun.NewThreaded(data, cs, staticData, options, rng.New(5, 6))
	pool.Start()

	time.Sleep(10 * time.Millisecond)
	pool.Cancel()

	assert.False(t, pool.IsRunning())
}
