package critical_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MaximilianAzendorf/wassign-sub000/critical"
	"github.com/MaximilianAzendorf/wassign-sub000/model"
	"github.com/MaximilianAzendorf/wassign-sub000/status"
)

func threeChoiceInput(t *testing.T) *model.InputData {
	t.Helper()

	raw := model.MutableInputData{
		Choices: []model.RawChoice{
			{Name: "a", Min: 1, Max: 1, Parts: 1},
			{Name: "b", Min: 1, Max: 1, Parts: 1},
			{Name: "c", Min: 1, Max: 1, Parts: 1},
		},
		Choosers: []model.RawChooser{
			{Name: "p1", Preferences: []int{0, 0, 2}},
			{Name: "p2", Preferences: []int{0, 0, 2}},
		},
		SlotNames: []string{"s1", "s2"},
	}

	data, err := model.NewInputData(raw)
	require.NoError(t, err)

	return data
}

func TestAnalyze_ProducesCriticalSets(t *testing.T) {
	data := threeChoiceInput(t)

	a := critical.Analyze(data, true, status.Noop)

	require.NotEmpty(t, a.Sets())
	for _, s := range a.Sets() {
		assert.GreaterOrEqual(t, s.Size(), 1)
	}
}

func TestForPreference_DropsStrictSupersetsAndSortsBySize(t *testing.T) {
	data := threeChoiceInput(t)

	a := critical.Analyze(data, false, status.Noop)
	sets := a.ForPreference(0)

	for i := 1; i < len(sets); i++ {
		assert.LessOrEqual(t, sets[i-1].Size(), sets[i].Size())
	}
	for i, s := range sets {
		for j, other := range sets {
			if i == j {
				continue
			}
			assert.False(t, s.IsSupersetOf(other) && s.Size() > other.Size(),
				"set %v should not strictly contain %v in a simplified result", s.Elements(), other.Elements())
		}
	}
}

func TestEmpty_HasZeroPreferenceBound(t *testing.T) {
	data := threeChoiceInput(t)

	a := critical.Empty(data)

	assert.Equal(t, 0, a.PreferenceBound())
	assert.Empty(t, a.Sets())
}

func TestAnalyze_CoveredCandidateIsNotDuplicated(t *testing.T) {
	raw := model.MutableInputData{
		Choices: []model.RawChoice{
			{Name: "a", Min: 0, Max: 1, Parts: 1},
			{Name: "b", Min: 0, Max: 1, Parts: 1},
		},
		Choosers: []model.RawChooser{
			{Name: "p1", Preferences: []int{0, 0}},
			{Name: "p2", Preferences: []int{1, 1}},
		},
		SlotNames: []string{"s1"},
	}
	data, err := model.NewInputData(raw)
	require.NoError(t, err)

	a := critical.Analyze(data, true, status.Noop)

	// p2 adds a second preference level. At level 1 both choosers yield
	// the candidate set {a, b}, and at level 0 p2 yields it again; every
	// copy after the first is covered, so only one should survive.
	count := 0
	for _, s := range a.Sets() {
		if s.Size() == data.ChoiceCount() {
			count++
		}
	}
	assert.LessOrEqual(t, count, 1)
}
