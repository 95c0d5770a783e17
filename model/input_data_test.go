package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MaximilianAzendorf/wassign-sub000/model"
)

// TestNewInputData_Minimal mirrors scenario S1 from spec §8: one slot, one
// choice with capacity 1-1, one chooser.
func TestNewInputData_Minimal(t *testing.T) {
	raw := model.MutableInputData{
		Choices:   []model.RawChoice{{Name: "e", Min: 1, Max: 1, Parts: 1}},
		Choosers:  []model.RawChooser{{Name: "p", Preferences: []int{1}}},
		SlotNames: []string{"s"},
	}

	data, err := model.NewInputData(raw)
	require.NoError(t, err)

	assert.Equal(t, 1, data.ChoiceCount())
	assert.Equal(t, 1, data.ChooserCount())
	assert.Equal(t, 1, data.SlotCount())
	// The single raw preference 1 normalises to 0 (best); MaxPreference is
	// the largest raw preference, 1.
	assert.Equal(t, 1, data.MaxPreference())
	assert.Equal(t, 0, data.Chooser(0).Preferences[0])
}

func TestNewInputData_NormalisesPreferences(t *testing.T) {
	raw := model.MutableInputData{
		Choices: []model.RawChoice{
			{Name: "e1", Min: 3, Max: 3, Parts: 1},
			{Name: "e2", Min: 3, Max: 3, Parts: 1},
		},
		Choosers: []model.RawChooser{
			{Name: "p1", Preferences: []int{1, 0}},
			{Name: "p2", Preferences: []int{0, 1}},
		},
		SlotNames: []string{"s"},
	}

	data, err := model.NewInputData(raw)
	require.NoError(t, err)

	// maxRaw = 1, so raw 1 -> normalised 0 (best), raw 0 -> normalised 1 (worst).
	assert.Equal(t, 1, data.MaxPreference())
	assert.Equal(t, []int{0, 1}, data.Chooser(0).Preferences)
	assert.Equal(t, []int{1, 0}, data.Chooser(1).Preferences)
}

func TestNewInputData_MinPrefPlaceholderNormalisesToZero(t *testing.T) {
	raw := model.MutableInputData{
		Choices: []model.RawChoice{
			{Name: "e1", Min: 1, Max: 1, Parts: 1},
			{Name: "e2", Min: 1, Max: 1, Parts: 1},
		},
		Choosers: []model.RawChooser{
			{Name: "p1", Preferences: []int{5, model.MinPrefPlaceholder}},
		},
		SlotNames: []string{"s"},
	}

	data, err := model.NewInputData(raw)
	require.NoError(t, err)

	assert.Equal(t, 0, data.Chooser(0).Preferences[0])
	assert.Equal(t, 0, data.Chooser(0).Preferences[1])
}

func TestNewInputData_OptionalChoiceGeneratesExtraSlot(t *testing.T) {
	raw := model.MutableInputData{
		Choices: []model.RawChoice{
			{Name: "w", Min: 1, Max: 1, Parts: 1, Optional: true},
		},
		Choosers: []model.RawChooser{
			{Name: "p", Preferences: []int{0}},
		},
	}

	data, err := model.NewInputData(raw)
	require.NoError(t, err)

	// One extra "not scheduled" slot plus the generated placeholder slot.
	require.Equal(t, 2, data.SlotCount())
	require.Equal(t, 2, data.ChoiceCount()) // original + hidden filler

	foundFiller := false
	for _, c := range data.Choices() {
		if c.Name != "w" {
			foundFiller = true
			assert.Equal(t, 0, c.Min)
		}
	}
	assert.True(t, foundFiller)
}

func TestNewInputData_RejectsPreferenceLengthMismatch(t *testing.T) {
	raw := model.MutableInputData{
		Choices:  []model.RawChoice{{Name: "e", Min: 1, Max: 1, Parts: 1}},
		Choosers: []model.RawChooser{{Name: "p", Preferences: []int{1, 2}}},
	}

	_, err := model.NewInputData(raw)
	require.Error(t, err)
}

func TestNewInputData_MultiPartChoiceLinksPartsWithOffset(t *testing.T) {
	raw := model.MutableInputData{
		Choices:   []model.RawChoice{{Name: "e", Min: 1, Max: 1, Parts: 2}},
		Choosers:  []model.RawChooser{{Name: "p", Preferences: []int{0}}},
		SlotNames: []string{"s1", "s2"},
	}

	data, err := model.NewInputData(raw)
	require.NoError(t, err)

	require.Equal(t, 2, data.ChoiceCount())
	assert.Equal(t, 1, data.Choice(0).Continuation)
	assert.Equal(t, -1, data.Choice(1).Continuation)

	foundOffset := false
	for _, c := range data.SchedulingConstraints() {
		if c.Type == model.ChoicesHaveOffset {
			foundOffset = true
			assert.Equal(t, 1, c.Extra)
		}
	}
	assert.True(t, foundOffset)
}
