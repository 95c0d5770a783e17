// Package hillclimb implements local search over Schedulings: starting
// from one Scheduling, repeatedly move to the best strictly-improving
// neighbour (single choice move, or cyclic swap of several), scoring each
// candidate via an assignment.Solver, until no neighbour improves.
package hillclimb

import (
	"context"

	"github.com/MaximilianAzendorf/wassign-sub000/assignment"
	"github.com/MaximilianAzendorf/wassign-sub000/model"
	"github.com/MaximilianAzendorf/wassign-sub000/rng"
)

// Solver performs hill-climbing local search using the given assignment
// solver to score every candidate scheduling.
type Solver struct {
	input          *model.InputData
	assignmentSolv *assignment.Solver
	options        model.Options
	rnd            *rng.Source

	assignmentCount int
}

// New builds a HillClimbingSolver over the given assignment solver.
func New(input *model.InputData, assignmentSolver *assignment.Solver, options model.Options, rnd *rng.Source) *Solver {
	return &Solver{input: input, assignmentSolv: assignmentSolver, options: options, rnd: rnd}
}

// AssignmentCount returns the number of assignment solves performed so far.
func (s *Solver) AssignmentCount() int { return s.assignmentCount }

// LPCount returns the number of LP/MIP solves performed by the underlying
// assignment solver.
func (s *Solver) LPCount() int { return s.assignmentSolv.LPCount() }

// Solve runs hill-climbing local search starting from scheduling, returning
// the best Solution found, or an invalid Solution if even the starting
// scheduling has no feasible assignment.
func (s *Solver) Solve(ctx context.Context, scheduling *model.Scheduling) model.Solution {
	best, ok := s.solveAssignment(ctx, scheduling)
	if !ok {
		return model.InvalidSolution()
	}

	bestScore := model.Evaluate(&best, s.options.PrefExp, s.options.Greedy)
	if !bestScore.IsFinite() {
		return model.InvalidSolution()
	}

	for {
		foundBetter := false

		for _, neighbor := range s.pickNeighbors(best.Scheduling()) {
			if ctx.Err() != nil {
				return model.InvalidSolution()
			}

			candidate, ok := s.solveAssignment(ctx, neighbor)
			if !ok {
				continue
			}

			candidateScore := model.Evaluate(&candidate, s.options.PrefExp, s.options.Greedy)
			if candidateScore.Less(bestScore) {
				foundBetter = true
				bestScore = candidateScore
				best = candidate
			}
		}

		if !foundBetter {
			break
		}
	}

	return best
}

func (s *Solver) solveAssignment(ctx context.Context, scheduling *model.Scheduling) (model.Solution, bool) {
	a := s.assignmentSolv.Solve(ctx, scheduling)
	s.assignmentCount++
	if a == nil {
		return model.InvalidSolution(), false
	}

	return model.NewSolution(scheduling, a), true
}

// maxNeighborKey is the exclusive upper bound of the single-move neighbor
// key space: one key per (choice, target-slot-excluding-current) pair,
// packed as slot*choiceCount + choice with the current slot skipped by
// shifting every slot index past it up by one.
func (s *Solver) maxNeighborKey() int {
	return s.input.ChoiceCount() * s.input.SlotCount()
}

// singleMoveNeighbor decodes neighborKey into a scheduling identical to the
// base except one choice moved to a different slot, or nil if the decoded
// key is not a valid move (NotScheduled offered for a non-optional choice).
func (s *Solver) singleMoveNeighbor(base *model.Scheduling, neighborKey int) *model.Scheduling {
	choiceCount := s.input.ChoiceCount()
	slot := neighborKey/choiceCount - 1
	choice := neighborKey % choiceCount

	if slot >= base.SlotOf(choice) {
		slot++
	}

	if slot == model.NotScheduled && !s.input.Choice(choice).Optional {
		return nil
	}

	return base.WithMove(choice, slot)
}

// swapNeighbor picks a random subset of choices (size >= 2, grown with
// geometric probability, bounded by half the choice count) and rotates
// their slot assignments cyclically.
func (s *Solver) swapNeighbor(base *model.Scheduling) *model.Scheduling {
	n := s.input.ChoiceCount()
	data := append([]int(nil), base.RawData()...)

	used := map[int]bool{}
	var idx []int

	first := s.rnd.IntN(n)
	idx = append(idx, first)
	used[first] = true

	for {
		var next int
		for {
			next = s.rnd.IntN(n)
			if !used[next] {
				break
			}
		}
		idx = append(idx, next)
		used[next] = true

		if s.rnd.IntN(4) != 0 || len(idx) >= n/2 {
			break
		}
	}

	carry := data[idx[len(idx)-1]]
	for _, i := range idx {
		carry, data[i] = data[i], carry
	}

	return model.NewScheduling(s.input, data)
}

// pickNeighbors builds up to options.MaxNeighbors feasible neighbour
// schedulings: single-move neighbours (shuffled when the key space exceeds
// MaxNeighbors) each paired with an opportunistic swap neighbour, topped up
// with pure swap neighbours if still short.
func (s *Solver) pickNeighbors(scheduling *model.Scheduling) []*model.Scheduling {
	addSwap := s.input.ChoiceCount() > 1 && s.input.SlotCount() > 1
	maxNeighbors := s.options.MaxNeighbors

	maxKey := s.maxNeighborKey()
	keys := make([]int, maxKey)
	for i := range keys {
		keys[i] = i
	}
	if maxKey > maxNeighbors {
		s.rnd.Shuffle(len(keys), func(i, j int) { keys[i], keys[j] = keys[j], keys[i] })
	}

	var result []*model.Scheduling
	for keyIdx, key := range keys {
		if len(result) >= maxNeighbors {
			break
		}
		if keyIdx > maxNeighbors*32 {
			break
		}

		candidate := s.singleMoveNeighbor(scheduling, key)
		if candidate == nil || !candidate.IsFeasible() {
			continue
		}
		result = append(result, candidate)

		if addSwap && len(result) < maxNeighbors {
			if swap := s.swapNeighbor(scheduling); swap.IsFeasible() {
				result = append(result, swap)
			}
		}
	}

	if addSwap && len(result) < maxNeighbors {
		amount := maxNeighbors - len(result)
		if amount > maxKey {
			amount = maxKey
		}
		for i := 0; i < amount*32 && len(result) < maxNeighbors; i++ {
			if swap := s.swapNeighbor(scheduling); swap.IsFeasible() {
				result = append(result, swap)
			}
		}
	}

	return result
}
