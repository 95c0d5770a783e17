// Package constraints canonicalises a raw constraint list: it folds
// non-canonical input constraint types into their canonical form, detects
// trivial contradictions, groups choices that must share a chooser cohort,
// and expands those groups into the pairwise ChoicesAreNotInSameSlot /
// replicated membership constraints the rest of the solver pipeline
// expects to find already present.
//
// This mirrors original_source/src/Constraints.cpp's reduce_and_optimize
// and expand_dependent_constraints, generalised from "workshop"/
// "participant" to the spec's choice/chooser/slot vocabulary.
package constraints

import (
	"sort"

	"github.com/MaximilianAzendorf/wassign-sub000/model"
	"github.com/MaximilianAzendorf/wassign-sub000/unionfind"
)

// DependentChoiceGroups returns, for every connected component induced by
// ChoicesHaveSameChoosers constraints, the sorted slice of choice indexes
// in that component. Singleton components (choices with no such
// constraint) are omitted.
func DependentChoiceGroups(cs []model.Constraint, choiceCount int) [][]int {
	uf := unionfind.New(choiceCount)
	for _, c := range cs {
		if c.Type == model.ChoicesHaveSameChoosers {
			uf.Join(c.Left, c.Right)
		}
	}

	groups := make([][]int, 0)
	for _, g := range uf.Groups() {
		if len(g) > 1 {
			groups = append(groups, g)
		}
	}

	return groups
}

// mandatoryCriticalSets groups ChooserIsInChoice constraints by chooser: the
// result is, per chooser with at least one mandatory choice, the sorted
// list of choices that chooser must attend. These groups can never share a
// slot in any feasible scheduling (the chooser would need to attend two
// choices in the same slot), so they are expanded into
// ChoicesAreNotInSameSlot constraints exactly like dependent choice groups.
func mandatoryCriticalSets(cs []model.Constraint) [][]int {
	byChooser := make(map[int][]int)
	order := make([]int, 0)

	for _, c := range cs {
		if c.Type != model.ChooserIsInChoice {
			continue
		}
		if _, ok := byChooser[c.Left]; !ok {
			order = append(order, c.Left)
		}
		byChooser[c.Left] = append(byChooser[c.Left], c.Right)
	}

	sort.Ints(order)
	groups := make([][]int, 0, len(order))
	for _, p := range order {
		group := append([]int(nil), byChooser[p]...)
		sort.Ints(group)
		groups = append(groups, group)
	}

	return groups
}

// expandDependentConstraints adds, for every dependent-choice group and
// every mandatory-critical-set group, a ChoicesAreNotInSameSlot constraint
// between each pair of members; and replicates every ChooserIsInChoice /
// ChooserIsNotInChoice constraint on a choice inside a dependent group to
// every other choice in that group. The input constraints are carried
// through unchanged, and duplicates are removed.
func expandDependentConstraints(cs []model.Constraint, choiceCount int) []model.Constraint {
	res := make([]model.Constraint, 0, len(cs))

	dependentGroups := DependentChoiceGroups(cs, choiceCount)
	mandatoryGroups := mandatoryCriticalSets(cs)

	for _, groupList := range [][][]int{dependentGroups, mandatoryGroups} {
		for _, group := range groupList {
			for i := 0; i < len(group); i++ {
				for j := i + 1; j < len(group); j++ {
					res = append(res, model.NewConstraint3(model.ChoicesAreNotInSameSlot, group[i], group[j]))
				}
			}
		}
	}

	for _, c := range cs {
		if c.Type != model.ChooserIsInChoice && c.Type != model.ChooserIsNotInChoice {
			continue
		}

		var group []int
		for _, dg := range dependentGroups {
			if containsInt(dg, c.Right) {
				group = dg
				break
			}
		}
		if group == nil {
			continue
		}

		for _, w := range group {
			if w == c.Right {
				continue
			}
			res = append(res, model.NewConstraint3(c.Type, c.Left, w))
		}
	}

	res = append(res, cs...)

	return dedupe(res)
}

// ReduceAndOptimize replaces non-canonical constraint types with their
// canonical dual (e.g. SlotContainsChoice becomes ChoiceIsInSlot) and drops
// constraints that are tautologies. If the input contains a contradiction
// (SlotsHaveSameChoices(a,b) with a != b), infeasible is true and the
// returned slice should not be used. Otherwise the canonical constraints
// are run through expandDependentConstraints before being returned.
func ReduceAndOptimize(cs []model.Constraint, choiceCount int) (out []model.Constraint, infeasible bool) {
	res := make([]model.Constraint, 0, len(cs))

	for _, c := range cs {
		newType := c.Type
		switchSides := true
		add := true

		switch c.Type {
		case model.SlotContainsChoice:
			newType = model.ChoiceIsInSlot
		case model.SlotNotContainsChoice:
			newType = model.ChoiceIsNotInSlot
		case model.ChoiceContainsChooser:
			newType = model.ChooserIsInChoice
		case model.ChoiceNotContainsChooser:
			newType = model.ChooserIsNotInChoice
		case model.SlotsHaveSameChoices:
			add = false
			if c.Left != c.Right {
				infeasible = true
			}
		default:
			switchSides = false
		}

		if !add {
			continue
		}

		left, right := c.Left, c.Right
		if switchSides {
			left, right = c.Right, c.Left
		}

		res = append(res, model.NewConstraint(newType, left, right, c.Extra))
	}

	if infeasible {
		return nil, true
	}

	return expandDependentConstraints(res, choiceCount), false
}

func containsInt(xs []int, x int) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}

	return false
}

func dedupe(cs []model.Constraint) []model.Constraint {
	seen := make(map[model.Constraint]struct{}, len(cs))
	out := make([]model.Constraint, 0, len(cs))
	for _, c := range cs {
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}

	return out
}
