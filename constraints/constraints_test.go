package constraints_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MaximilianAzendorf/wassign-sub000/constraints"
	"github.com/MaximilianAzendorf/wassign-sub000/model"
)

func TestReduceAndOptimize_SlotsHaveSameChoicesTautology(t *testing.T) {
	cs := []model.Constraint{model.NewConstraint3(model.SlotsHaveSameChoices, 2, 2)}

	out, infeasible := constraints.ReduceAndOptimize(cs, 3)
	require.False(t, infeasible)
	assert.Empty(t, out)
}

func TestReduceAndOptimize_SlotsHaveSameChoicesContradiction(t *testing.T) {
	cs := []model.Constraint{model.NewConstraint3(model.SlotsHaveSameChoices, 0, 1)}

	_, infeasible := constraints.ReduceAndOptimize(cs, 3)
	assert.True(t, infeasible)
}

func TestReduceAndOptimize_ReducesNonCanonicalTypes(t *testing.T) {
	cs := []model.Constraint{
		model.NewConstraint3(model.SlotContainsChoice, 0, 1), // slot=0, choice=1
	}

	out, infeasible := constraints.ReduceAndOptimize(cs, 2)
	require.False(t, infeasible)
	require.Len(t, out, 1)
	assert.Equal(t, model.ChoiceIsInSlot, out[0].Type)
	assert.Equal(t, 1, out[0].Left)  // choice
	assert.Equal(t, 0, out[0].Right) // slot
}

func TestDependentChoiceGroups(t *testing.T) {
	cs := []model.Constraint{
		model.NewConstraint3(model.ChoicesHaveSameChoosers, 0, 2),
		model.NewConstraint3(model.ChoicesHaveSameChoosers, 2, 4),
	}

	groups := constraints.DependentChoiceGroups(cs, 5)
	require.Len(t, groups, 1)
	assert.ElementsMatch(t, []int{0, 2, 4}, groups[0])
}

func TestReduceAndOptimize_ExpandsDependentGroupsIntoNotSameSlot(t *testing.T) {
	cs := []model.Constraint{
		model.NewConstraint3(model.ChoicesHaveSameChoosers, 0, 1),
	}

	out, infeasible := constraints.ReduceAndOptimize(cs, 2)
	require.False(t, infeasible)

	found := false
	for _, c := range out {
		if c.Type == model.ChoicesAreNotInSameSlot && c.Left == 0 && c.Right == 1 {
			found = true
		}
	}
	assert.True(t, found, "expected a ChoicesAreNotInSameSlot(0,1) constraint to be synthesized")
}

func TestReduceAndOptimize_ReplicatesChooserMembershipOverDependentGroup(t *testing.T) {
	cs := []model.Constraint{
		model.NewConstraint3(model.ChoicesHaveSameChoosers, 0, 1),
		model.NewConstraint3(model.ChooserIsInChoice, 7, 0),
	}

	out, infeasible := constraints.ReduceAndOptimize(cs, 2)
	require.False(t, infeasible)

	found := false
	for _, c := range out {
		if c.Type == model.ChooserIsInChoice && c.Left == 7 && c.Right == 1 {
			found = true
		}
	}
	assert.True(t, found, "expected ChooserIsInChoice(7,0) to replicate to choice 1")
}
