// Package scheduling implements the backtracking search that produces a
// feasible Scheduling: every choice placed into a slot (or left
// NotScheduled, if optional) such that every slot's total capacity can
// cover every chooser, every scheduling constraint holds, and no critical
// set is forced into fewer slots than exist.
package scheduling

import (
	"context"
	"sort"
	"time"

	"github.com/MaximilianAzendorf/wassign-sub000/critical"
	"github.com/MaximilianAzendorf/wassign-sub000/model"
	"github.com/MaximilianAzendorf/wassign-sub000/rng"
)

// prefRelaxation: with probability 1/prefRelaxation, NextScheduling solves
// disregarding critical sets entirely, so a very restrictive (but valid)
// critical set subset can't lock the hill climber into a small region of
// the search space.
const prefRelaxation = 10

// Solver produces successive feasible Schedulings via NextScheduling, each
// attempt bounded by options.CsTimeout.
type Solver struct {
	input      *model.InputData
	csAnalysis *critical.Analysis
	options    model.Options
	rnd        *rng.Source

	current     *model.Scheduling
	hasSolution bool
}

// New builds a SchedulingSolver over the given InputData and critical set
// analysis, using rnd for scramble and preference-relaxation decisions.
func New(input *model.InputData, csAnalysis *critical.Analysis, options model.Options, rnd *rng.Source) *Solver {
	return &Solver{input: input, csAnalysis: csAnalysis, options: options, rnd: rnd}
}

// Scheduling returns the last scheduling found by NextScheduling.
func (s *Solver) Scheduling() *model.Scheduling { return s.current }

// HasSolution reports whether NextScheduling has ever succeeded.
func (s *Solver) HasSolution() bool { return s.hasSolution }

// NextScheduling attempts to find a new feasible scheduling in a single
// attempt. With probability 1/prefRelaxation it searches fully relaxed
// (ignoring critical sets); otherwise it uses the critical sets at the
// analysis's preference bound. Returns false if ctx is cancelled or the
// per-attempt deadline passes without a solution; callers that want the
// preference-level escalation described in spec §4.3 should drive the
// solver through an Enumerator instead of calling this directly in a loop.
func (s *Solver) NextScheduling(ctx context.Context) bool {
	var criticalSets []critical.Set
	if s.rnd.IntN(prefRelaxation) != 0 {
		criticalSets = s.csAnalysis.ForPreference(s.csAnalysis.PreferenceBound())
	}

	return s.attempt(ctx, criticalSets)
}

// attempt runs a single backtracking search using the given critical sets
// and assigns s.current on success.
func (s *Solver) attempt(ctx context.Context, criticalSets []critical.Set) bool {
	deadline := time.Now().Add(time.Duration(s.options.CsTimeout) * time.Second)
	result := s.solveScheduling(ctx, criticalSets, deadline)
	if result == nil {
		return false
	}

	slotOf := make([]int, s.input.ChoiceCount())
	for sl, choices := range result {
		for _, w := range choices {
			slotOf[w] = sl
		}
	}

	s.current = model.NewScheduling(s.input, slotOf)
	s.hasSolution = true

	return true
}

// solveScheduling runs one backtracking attempt and returns per-slot choice
// lists on success, or nil on exhaustion/timeout/cancellation.
func (s *Solver) solveScheduling(ctx context.Context, criticalSets []critical.Set, deadline time.Time) [][]int {
	scramble := s.choiceScramble()
	decisions := make(map[int]int, len(scramble))

	ok := s.backtrack(ctx, scramble, 0, decisions, criticalSets, deadline)
	if !ok {
		return nil
	}

	return s.convertDecisions(decisions)
}

func (s *Solver) backtrack(
	ctx context.Context,
	scramble []int,
	depth int,
	decisions map[int]int,
	criticalSets []critical.Set,
	deadline time.Time,
) bool {
	if depth == len(scramble) {
		return true
	}
	if ctx.Err() != nil || time.Now().After(deadline) {
		return false
	}

	choice := scramble[depth]
	availableMaxPush := s.availableMaxPush(scramble, depth)

	if s.hasImpossibilities(decisions, availableMaxPush) {
		return false
	}
	if !s.satisfiesCriticalSets(decisions, criticalSets) {
		return false
	}

	candidates := s.candidateSlots(decisions, scramble, depth, choice, availableMaxPush)
	for _, slot := range candidates {
		if !s.satisfiesSchedulingConstraints(choice, slot, decisions) {
			continue
		}

		decisions[choice] = slot
		if depth == len(scramble)-1 && !s.satisfiesFinalSlotSizeConstraints(decisions) {
			delete(decisions, choice)
			continue
		}

		if s.backtrack(ctx, scramble, depth+1, decisions, criticalSets, deadline) {
			return true
		}
		delete(decisions, choice)
	}

	return false
}

// candidateSlots implements §4.3 step 3/4: a single forced critical slot if
// exactly one exists, infeasible if more than one does, else every
// feasible slot ordered by ascending current max-sum plus low-priority
// (auto-generated not-scheduled) slots appended last.
func (s *Solver) candidateSlots(decisions map[int]int, scramble []int, depth, choice, availableMaxPush int) []int {
	criticalSlots := s.criticalSlots(decisions, availableMaxPush, choice)
	if len(criticalSlots) > 1 {
		return nil
	}
	if len(criticalSlots) == 1 {
		return criticalSlots
	}

	lowPriority := s.lowPrioritySlots()

	var normal, low []int
	for sl := 0; sl < s.input.SlotCount(); sl++ {
		if !s.feasibleSlot(decisions, choice, sl) {
			continue
		}
		if lowPriority[sl] {
			low = append(low, sl)
		} else {
			normal = append(normal, sl)
		}
	}

	sort.SliceStable(normal, func(i, j int) bool {
		return s.slotOrderScore(decisions, normal[i]) < s.slotOrderScore(decisions, normal[j])
	})
	sort.SliceStable(low, func(i, j int) bool {
		return s.slotOrderScore(decisions, low[i]) < s.slotOrderScore(decisions, low[j])
	})

	result := append(normal, low...)
	if s.input.Choice(choice).Optional {
		result = append(result, model.NotScheduled)
	}

	return result
}

func (s *Solver) feasibleSlot(decisions map[int]int, choice, slot int) bool {
	minSum := s.input.Choice(choice).Min
	for c, sl := range decisions {
		if sl == slot {
			minSum += s.input.Choice(c).Min
		}
	}

	return minSum <= s.input.ChooserCount()
}

func (s *Solver) slotOrderScore(decisions map[int]int, slot int) int {
	sum := 0
	for c, sl := range decisions {
		if sl == slot {
			sum += s.input.Choice(c).Max
		}
	}

	return sum
}

// criticalSlots returns every slot s for which
// availableMaxPush - max(choice) + sum(max already in s) < chooserCount
// (without assigning choice to s right now, s could never reach capacity)
// and which passes feasibleSlot for choice.
func (s *Solver) criticalSlots(decisions map[int]int, availableMaxPush, choice int) []int {
	var result []int
	for sl := 0; sl < s.input.SlotCount(); sl++ {
		maxSum := 0
		for c, dsl := range decisions {
			if dsl == sl {
				maxSum += s.input.Choice(c).Max
			}
		}
		if availableMaxPush-s.input.Choice(choice).Max+maxSum < s.input.ChooserCount() {
			if s.feasibleSlot(decisions, choice, sl) {
				result = append(result, sl)
			}
		}
	}

	return result
}

func (s *Solver) availableMaxPush(scramble []int, depth int) int {
	sum := 0
	for i := depth; i < len(scramble); i++ {
		sum += s.input.Choice(scramble[i]).Max
	}

	return sum
}

func (s *Solver) hasImpossibilities(decisions map[int]int, availableMaxPush int) bool {
	for sl := 0; sl < s.input.SlotCount(); sl++ {
		maxSum := 0
		for c, dsl := range decisions {
			if dsl == sl {
				maxSum += s.input.Choice(c).Max
			}
		}
		if availableMaxPush+maxSum < s.input.ChooserCount() {
			return true
		}
	}

	return false
}

func (s *Solver) satisfiesCriticalSets(decisions map[int]int, criticalSets []critical.Set) bool {
	for _, cset := range criticalSets {
		slotsHit := make(map[int]struct{})
		unassigned := 0
		for _, c := range cset.Elements() {
			if sl, ok := decisions[c]; ok {
				if sl != model.NotScheduled {
					slotsHit[sl] = struct{}{}
				}
			} else {
				unassigned++
			}
		}
		if len(slotsHit)+unassigned < s.input.SlotCount() {
			return false
		}
	}

	return true
}

func (s *Solver) satisfiesSchedulingConstraints(choice, slot int, decisions map[int]int) bool {
	for _, c := range s.input.SchedulingConstraintsFor(choice) {
		switch c.Type {
		case model.ChoiceIsInSlot:
			if c.Left == choice && slot != c.Right {
				return false
			}
		case model.ChoiceIsNotInSlot:
			if c.Left == choice && slot == c.Right {
				return false
			}
		case model.ChoicesAreInSameSlot:
			other := otherOperand(c, choice)
			if dsl, ok := decisions[other]; ok && dsl != slot {
				return false
			}
		case model.ChoicesAreNotInSameSlot:
			other := otherOperand(c, choice)
			if dsl, ok := decisions[other]; ok && dsl == slot && slot != model.NotScheduled {
				return false
			}
		case model.ChoicesHaveOffset:
			if !s.satisfiesOffset(c, choice, slot, decisions) {
				return false
			}
		case model.SlotHasLimitedSize:
			if !s.satisfiesEagerSizeLimit(c, decisions, slot) {
				return false
			}
		}
	}

	// SlotHasLimitedSize constraints are keyed by slot, so
	// SchedulingConstraintsFor never returns them; check them here.
	for _, c := range s.input.SchedulingConstraints() {
		if c.Type == model.SlotHasLimitedSize && !s.satisfiesEagerSizeLimit(c, decisions, slot) {
			return false
		}
	}

	return true
}

func otherOperand(c model.Constraint, choice int) int {
	if c.Left == choice {
		return c.Right
	}

	return c.Left
}

func (s *Solver) satisfiesOffset(c model.Constraint, choice, slot int, decisions map[int]int) bool {
	k := c.Extra
	isLeft := c.Left == choice
	other := otherOperand(c, choice)

	otherSlot, ok := decisions[other]
	if !ok {
		return true
	}

	if (slot == model.NotScheduled) != (otherSlot == model.NotScheduled) {
		return false
	}
	if slot == model.NotScheduled {
		return true
	}

	if isLeft {
		return otherSlot-slot == k
	}

	return slot-otherSlot == k
}

// satisfiesEagerSizeLimit eagerly rejects a slot whose choice count, counting
// the tentative addition of the choice under consideration, already
// violates an upper-bound operator (Eq, Lt, Leq): since a slot's count only
// grows as the backtracker proceeds, a violation now can never be undone.
// Neq/Gt/Geq are lower-bound-ish or exclusionary and are only checked once,
// at the final decision, via satisfiesFinalSlotSizeConstraints.
func (s *Solver) satisfiesEagerSizeLimit(c model.Constraint, decisions map[int]int, slot int) bool {
	if c.Left != slot {
		return true
	}

	op := model.SizeOp(c.Extra)
	if op != model.SizeEq && op != model.SizeLt && op != model.SizeLeq {
		return true
	}

	count := 1
	for _, dsl := range decisions {
		if dsl == slot {
			count++
		}
	}

	switch op {
	case model.SizeLt:
		return count < c.Right
	case model.SizeLeq, model.SizeEq:
		return count <= c.Right
	default:
		return true
	}
}

func (s *Solver) satisfiesFinalSlotSizeConstraints(decisions map[int]int) bool {
	counts := make([]int, s.input.SlotCount())
	for _, sl := range decisions {
		if sl != model.NotScheduled {
			counts[sl]++
		}
	}

	for _, c := range s.input.SchedulingConstraints() {
		if c.Type != model.SlotHasLimitedSize {
			continue
		}
		op := model.SizeOp(c.Extra)
		if !op.Satisfies(counts[c.Left], c.Right) {
			return false
		}
	}

	return true
}

func (s *Solver) convertDecisions(decisions map[int]int) [][]int {
	result := make([][]int, s.input.SlotCount())
	for c, sl := range decisions {
		if sl == model.NotScheduled {
			continue
		}
		result[sl] = append(result[sl], c)
	}

	return result
}

// choiceScramble returns a random permutation of choice indexes,
// stable-sorted afterwards by descending count of scheduling constraints
// touching that choice, so heavily constrained choices get decided first.
func (s *Solver) choiceScramble() []int {
	order := make([]int, s.input.ChoiceCount())
	for i := range order {
		order[i] = i
	}
	s.rnd.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })

	sort.SliceStable(order, func(i, j int) bool {
		return len(s.input.SchedulingConstraintsFor(order[i])) > len(s.input.SchedulingConstraintsFor(order[j]))
	})

	return order
}

// lowPrioritySlots marks every auto-generated "not-scheduled" slot as low
// priority, tried last while backtracking.
func (s *Solver) lowPrioritySlots() []bool {
	result := make([]bool, s.input.SlotCount())
	for i, sl := range s.input.Slots() {
		if len(sl.Name) >= len(model.NotScheduledSlotName) && sl.Name[:len(model.NotScheduledSlotName)] == model.NotScheduledSlotName {
			result[i] = true
		}
	}

	return result
}
