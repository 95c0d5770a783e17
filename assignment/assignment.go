// Package assignment builds, per scheduling, the flow instance described in
// spec §4.6 and binary-searches the tightest preference limit for which a
// feasible assignment exists.
package assignment

import (
	"context"
	"math"
	"sync"

	"github.com/MaximilianAzendorf/wassign-sub000/critical"
	"github.com/MaximilianAzendorf/wassign-sub000/mipflow"
	"github.com/MaximilianAzendorf/wassign-sub000/mipsolver"
	"github.com/MaximilianAzendorf/wassign-sub000/model"
)

// Solver computes an optimal Assignment for a given Scheduling, reusing one
// MIP solver instance and the InputData's static flow skeleton across
// calls. Not safe for concurrent use by multiple goroutines; each worker
// owns its own Solver.
type Solver struct {
	input      *model.InputData
	csAnalysis *critical.Analysis
	staticData *mipflow.StaticData
	options    model.Options
	solver     *mipsolver.Solver

	mu      sync.Mutex
	lpCount int
}

// New builds an AssignmentSolver over the given InputData, critical set
// analysis and static flow skeleton.
func New(input *model.InputData, csAnalysis *critical.Analysis, staticData *mipflow.StaticData, options model.Options) *Solver {
	return &Solver{
		input:      input,
		csAnalysis: csAnalysis,
		staticData: staticData,
		options:    options,
		solver:     mipsolver.New(),
	}
}

// LPCount returns the number of flow instances this Solver has handed to
// the MIP solver so far: one per preference-limit probe, counted whether or
// not the probe turns out feasible.
func (s *Solver) LPCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.lpCount
}

// Solve computes the tightest-preference feasible Assignment for the given
// Scheduling, or nil if none exists or ctx is cancelled.
// With options.Greedy set, the binary search is skipped and a single solve
// at MaxPreference is attempted.
func (s *Solver) Solve(ctx context.Context, scheduling *model.Scheduling) *model.Assignment {
	if s.options.Greedy || s.options.Any {
		return s.solveWithLimit(ctx, scheduling, s.input.MaxPreference())
	}

	levels := s.input.PreferenceLevels()
	lo := indexOf(levels, s.csAnalysis.PreferenceBound())
	hi := len(levels) - 1

	var best *model.Assignment
	for lo <= hi {
		if ctx.Err() != nil {
			return nil
		}

		mid := (lo + hi) / 2
		result := s.solveWithLimit(ctx, scheduling, levels[mid])
		if result != nil {
			best = result
			hi = mid - 1
		} else {
			lo = mid + 1
		}
	}

	return best
}

func indexOf(levels []int, v int) int {
	for i, l := range levels {
		if l >= v {
			return i
		}
	}

	return len(levels) - 1
}

// solveWithLimit builds and solves a single flow instance constrained to
// chooser/choice pairs with preference <= limit.
func (s *Solver) solveWithLimit(ctx context.Context, scheduling *model.Scheduling, limit int) *model.Assignment {
	if ctx.Err() != nil {
		return nil
	}

	flow, instance := s.staticData.NewFlow()

	for w := 0; w < s.input.ChoiceCount(); w++ {
		choice := s.input.Choice(w)
		slot := scheduling.SlotOf(w)
		if slot == model.NotScheduled {
			continue
		}
		flow.SetSupply(instance.ChoiceNodes[w], -choice.Min)
	}

	chooserCount := s.input.ChooserCount()
	for sl := 0; sl < s.input.SlotCount(); sl++ {
		minSum := 0
		for _, w := range scheduling.ChoicesInSlot(sl) {
			minSum += s.input.Choice(w).Min
		}
		flow.SetSupply(instance.SlotNodes[sl], -(chooserCount - minSum))
	}

	for p := 0; p < chooserCount; p++ {
		for sl := 0; sl < s.input.SlotCount(); sl++ {
			flow.SetSupply(instance.ChooserSlotNodes[p][sl], 1)
		}
	}

	edgeOf := make(map[[2]int]int) // (chooser, choice) -> edge index
	for w := 0; w < s.input.ChoiceCount(); w++ {
		sl := scheduling.SlotOf(w)
		if sl == model.NotScheduled {
			continue
		}
		for p := 0; p < chooserCount; p++ {
			pref := s.input.Chooser(p).Preferences[w]
			if pref > limit {
				continue
			}
			cost := int64(math.Round(math.Pow(float64(pref+1), s.options.PrefExp)))
			edge := flow.AddEdgeKeyed(
				mipflow.EdgeID(instance.ChooserSlotNodes[p][sl], instance.ChoiceNodes[w]),
				instance.ChooserSlotNodes[p][sl], instance.ChoiceNodes[w], 1, cost)
			edgeOf[[2]int{p, w}] = edge
		}

		choice := s.input.Choice(w)
		flow.AddEdge(instance.ChoiceNodes[w], instance.SlotNodes[sl], choice.Max-choice.Min, 0)
	}

	s.applyConstraints(scheduling, flow, instance, edgeOf)

	s.mu.Lock()
	s.lpCount++
	s.mu.Unlock()

	if !flow.Solve(s.solver) {
		return nil
	}

	data := make([][]int, chooserCount)
	for p := range data {
		data[p] = make([]int, s.input.SlotCount())
		for sl := range data[p] {
			data[p][sl] = model.NotScheduled
		}
	}

	for w := 0; w < s.input.ChoiceCount(); w++ {
		sl := scheduling.SlotOf(w)
		if sl == model.NotScheduled {
			continue
		}
		for p := 0; p < chooserCount; p++ {
			if _, ok := edgeOf[[2]int{p, w}]; !ok {
				continue
			}
			if flow.SolutionValueAt(mipflow.EdgeID(instance.ChooserSlotNodes[p][sl], instance.ChoiceNodes[w])) > 0 {
				data[p][sl] = w
			}
		}
	}

	return model.NewAssignment(s.input, data)
}

// applyConstraints implements the §4.6 pre-solve constraint handling:
// blocking edges for ChooserIsInChoice/IsNotInChoice, tying edges together
// for ChoosersHaveSameChoices and for dependent-choice groups.
func (s *Solver) applyConstraints(
	scheduling *model.Scheduling,
	flow *mipflow.Flow[mipflow.FlowID, mipflow.FlowID],
	instance *mipflow.StaticData,
	edgeOf map[[2]int]int,
) {
	edgeKey := func(p, w int) (mipflow.FlowID, bool) {
		sl := scheduling.SlotOf(w)
		if sl == model.NotScheduled {
			return 0, false
		}
		if _, ok := edgeOf[[2]int{p, w}]; !ok {
			return 0, false
		}

		return mipflow.EdgeID(instance.ChooserSlotNodes[p][sl], instance.ChoiceNodes[w]), true
	}

	for _, c := range s.input.AssignmentConstraints() {
		switch c.Type {
		case model.ChooserIsInChoice:
			p, keep := c.Left, c.Right
			sl := scheduling.SlotOf(keep)
			if sl == model.NotScheduled {
				continue
			}
			for _, w := range scheduling.ChoicesInSlot(sl) {
				if w == keep {
					continue
				}
				if key, ok := edgeKey(p, w); ok {
					if e, ok2 := flow.EdgeOf(key); ok2 {
						flow.BlockEdge(e)
					}
				}
			}

		case model.ChooserIsNotInChoice:
			p, w := c.Left, c.Right
			if key, ok := edgeKey(p, w); ok {
				if e, ok2 := flow.EdgeOf(key); ok2 {
					flow.BlockEdge(e)
				}
			}

		case model.ChoosersHaveSameChoices:
			p, q := c.Left, c.Right
			for w := 0; w < s.input.ChoiceCount(); w++ {
				sl := scheduling.SlotOf(w)
				if sl == model.NotScheduled {
					continue
				}
				pKey, pOk := edgeKey(p, w)
				qKey, qOk := edgeKey(q, w)
				if !pOk || !qOk {
					continue
				}
				pe, pok := flow.EdgeOf(pKey)
				qe, qok := flow.EdgeOf(qKey)
				if !pok || !qok {
					continue
				}
				switch model.RelationOp(c.Extra) {
				case model.RelSubset:
					flow.AddImplication(pe, qe)
				case model.RelSuperset:
					flow.AddImplication(qe, pe)
				case model.RelEq:
					flow.AddImplication(pe, qe)
					flow.AddImplication(qe, pe)
				}
			}
		}
	}

	for _, group := range s.input.DependentChoiceGroups() {
		for p := 0; p < s.input.ChooserCount(); p++ {
			var keys []mipflow.FlowID
			for _, w := range group {
				if key, ok := edgeKey(p, w); ok {
					keys = append(keys, key)
				}
			}
			if len(keys) > 1 {
				flow.MakeEdgesEqual(keys)
			}
		}
	}
}
