package ioformat_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MaximilianAzendorf/wassign-sub000/ioformat"
	"github.com/MaximilianAzendorf/wassign-sub000/model"
)

const sampleDoc = `{
	"slots": ["Morning", "Afternoon"],
	"choices": [
		{"name": "Hiking", "min": 1, "max": 2, "parts": 1},
		{"name": "Painting", "min": 1, "max": 2, "parts": 1}
	],
	"choosers": [
		{"name": "Alice", "preferences": [0, 1]},
		{"name": "Bob", "preferences": [1, 0]}
	],
	"constraints": [
		{"type": "ChoiceIsInSlot", "left": 0, "right": 1, "extra": 0}
	]
}`

func TestDecodeInputData_ParsesDocumentIntoMutableInputData(t *testing.T) {
	raw, err := ioformat.DecodeInputData(strings.NewReader(sampleDoc))
	require.NoError(t, err)

	assert.Equal(t, []string{"Morning", "Afternoon"}, raw.SlotNames)
	require.Len(t, raw.Choices, 2)
	assert.Equal(t, "Hiking", raw.Choices[0].Name)
	require.Len(t, raw.Choosers, 2)
	assert.Equal(t, []int{0, 1}, raw.Choosers[0].Preferences)
	require.Len(t, raw.Constraints, 1)
	assert.Equal(t, model.ChoiceIsInSlot, raw.Constraints[0].Type)
}

func TestDecodeInputData_RejectsUnknownConstraintType(t *testing.T) {
	doc := `{"slots":[],"choices":[],"choosers":[],"constraints":[{"type":"NotARealType"}]}`

	_, err := ioformat.DecodeInputData(strings.NewReader(doc))
	assert.Error(t, err)
}

func TestWriteScheduling_SkipsHiddenChoicesAndRendersNotScheduled(t *testing.T) {
	raw := model.MutableInputData{
		Choices: []model.RawChoice{
			{Name: "Hiking", Min: 0, Max: 2, Parts: 1},
			{Name: "Painting", Min: 1, Max: 2, Parts: 1},
		},
		Choosers: []model.RawChooser{
			{Name: "Alice", Preferences: []int{0, 1}},
		},
		SlotNames: []string{"Morning"},
	}
	data, err := model.NewInputData(raw)
	require.NoError(t, err)

	sched := model.NewScheduling(data, []int{model.NotScheduled, 0})

	var buf strings.Builder
	require.NoError(t, ioformat.WriteScheduling(&buf, sched))

	out := buf.String()
	assert.Contains(t, out, "Choice,Slot")
	assert.Contains(t, out, "Hiking,not scheduled")
	assert.Contains(t, out, "Painting,Morning")
}

func TestWriteAssignment_WritesOneColumnPerScheduledSlot(t *testing.T) {
	raw := model.MutableInputData{
		Choices: []model.RawChoice{
			{Name: "Hiking", Min: 1, Max: 1, Parts: 1},
		},
		Choosers: []model.RawChooser{
			{Name: "Alice", Preferences: []int{0}},
		},
		SlotNames: []string{"Morning"},
	}
	data, err := model.NewInputData(raw)
	require.NoError(t, err)

	sched := model.NewScheduling(data, []int{0})
	asn := model.NewAssignment(data, [][]int{{0}})
	require.True(t, asn.IsFeasible(sched))

	var buf strings.Builder
	require.NoError(t, ioformat.WriteAssignment(&buf, asn))

	out := buf.String()
	assert.Contains(t, out, "Chooser,Morning")
	assert.Contains(t, out, "Alice,Hiking")
}
