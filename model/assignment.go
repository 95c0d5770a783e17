package model

// Assignment is the total function (chooser, slot) -> choice produced by
// the AssignmentSolver for a given Scheduling. Like Scheduling, it is
// immutable once built.
type Assignment struct {
	input *InputData
	// data[p][s] is the choice chooser p attends in slot s, or -1 if
	// unset (only valid transiently while the solver fills it in).
	data [][]int
}

// NewAssignment builds an Assignment from a chooser x slot matrix. data
// must have ChooserCount() rows of SlotCount() columns each.
func NewAssignment(input *InputData, data [][]int) *Assignment {
	cp := make([][]int, len(data))
	for i, row := range data {
		cp[i] = append([]int(nil), row...)
	}

	return &Assignment{input: input, data: cp}
}

// InputData returns the InputData this Assignment was built from.
func (a *Assignment) InputData() *InputData { return a.input }

// ChoiceOf returns the choice chooser attends in slot.
func (a *Assignment) ChoiceOf(chooser, slot int) int { return a.data[chooser][slot] }

// ChoosersOf returns the sorted list of choosers attending the given
// choice across every slot (a choice only occupies one slot under a
// feasible Scheduling, so this is well defined without a slot argument).
func (a *Assignment) ChoosersOf(choice int) []int {
	var res []int
	for p, row := range a.data {
		for _, w := range row {
			if w == choice {
				res = append(res, p)
				break
			}
		}
	}

	return res
}

// IsFeasible checks the assignment invariants from spec §3 against the
// paired scheduling: every chooser attends exactly one choice per slot
// (guaranteed by construction here), that choice lives in that slot under
// scheduling, and every choice's attendance count is within [Min, Max].
func (a *Assignment) IsFeasible(scheduling *Scheduling) bool {
	counts := make([]int, a.input.ChoiceCount())

	for p := 0; p < a.input.ChooserCount(); p++ {
		for s := 0; s < a.input.SlotCount(); s++ {
			w := a.data[p][s]
			if w < 0 || w >= a.input.ChoiceCount() {
				return false
			}
			if scheduling.SlotOf(w) != s {
				return false
			}
			counts[w]++
		}
	}

	for w, c := range a.input.Choices() {
		if counts[w] < c.Min || counts[w] > c.Max {
			return false
		}
	}

	return true
}
