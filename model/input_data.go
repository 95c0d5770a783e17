package model

import (
	"fmt"
	"math"
	"sort"

	"github.com/MaximilianAzendorf/wassign-sub000/constraints"
)

// InputData is the frozen, immutable problem description shared (read-only)
// by every solver and every worker thread. It is built once per run from a
// MutableInputData and never mutated afterwards; Scheduling, Assignment and
// Solution values all hold a reference to the InputData they were derived
// from instead of duplicating any of its fields.
type InputData struct {
	choices  []Choice
	choosers []Chooser
	slots    []Slot

	schedulingConstraints []Constraint
	assignmentConstraints []Constraint

	dependentChoiceGroups [][]int
	preferenceLevels      []int
	maxPreference         int

	choiceConstraintMap  map[int][]Constraint
	chooserConstraintMap map[int][]Constraint
}

// NewInputData builds an InputData from raw, builds hidden parts and filler
// choices, normalises preferences, reduces constraints, and merges
// dependent-group bounds/preferences, per spec §4.1's nine-step build
// order.
func NewInputData(raw MutableInputData) (*InputData, error) {
	if len(raw.Choosers) == 0 {
		return nil, NewInputError("choosers", ErrNoChoosers)
	}
	if len(raw.Choices) == 0 {
		return nil, NewInputError("choices", ErrNoChoices)
	}
	for _, ch := range raw.Choosers {
		if len(ch.Preferences) != len(raw.Choices) {
			return nil, NewInputError(ch.Name, ErrPreferenceLengthMismatch)
		}
	}
	for _, c := range raw.Choices {
		if c.Min < 0 || c.Min > c.Max {
			return nil, NewInputError(c.Name, ErrInvalidChoiceBounds)
		}
	}

	// Step 2: placeholder slot if none given.
	slotNames := raw.SlotNames
	if len(slotNames) == 0 {
		slotNames = []string{GeneratedSlotBaseName}
	}
	slots := make([]Slot, len(slotNames))
	for i, n := range slotNames {
		slots[i] = Slot{Name: n}
	}

	choices, prefColumns, origIndexOfName := expandParts(raw)

	chooserCount := len(raw.Choosers)
	prefs := make([][]int, chooserCount)
	for p := range prefs {
		prefs[p] = prefColumns[p]
	}

	// Step 4: hidden filler choices / extra "not scheduled" slots.
	extraConstraints := generateExtraSlots(&choices, &slots, &prefs, raw, origIndexOfName)

	// Step 5: normalise preferences (pref <- max_raw - pref; placeholder -> 0).
	maxRaw := 0
	for _, row := range prefs {
		for _, v := range row {
			if v != MinPrefPlaceholder && v > maxRaw {
				maxRaw = v
			}
		}
	}
	for p := range prefs {
		for w, v := range prefs[p] {
			if v == MinPrefPlaceholder {
				prefs[p][w] = 0
			} else {
				prefs[p][w] = maxRaw - v
			}
		}
	}

	choosers := make([]Chooser, chooserCount)
	for p, raw := range raw.Choosers {
		choosers[p] = Chooser{Name: raw.Name, Preferences: prefs[p]}
	}

	// Step 6: preference levels.
	levelSet := map[int]struct{}{0: {}, maxRaw: {}}
	for _, row := range prefs {
		for _, v := range row {
			levelSet[v] = struct{}{}
		}
	}
	preferenceLevels := make([]int, 0, len(levelSet))
	for v := range levelSet {
		preferenceLevels = append(preferenceLevels, v)
	}
	sort.Ints(preferenceLevels)

	// Step 8: multi-part pairwise constraints, then reduce_and_optimize.
	allConstraints := append([]Constraint(nil), raw.Constraints...)
	allConstraints = append(allConstraints, extraConstraints...)
	allConstraints = append(allConstraints, multiPartConstraints(choices)...)

	reduced, infeasible := constraints.ReduceAndOptimize(allConstraints, len(choices))
	if infeasible {
		return nil, NewInputError("constraints", ErrInfeasibleConstraints)
	}

	dependentGroups := constraints.DependentChoiceGroups(reduced, len(choices))
	mergeDependentBounds(choices, dependentGroups)
	mergeDependentPreferences(choosers, dependentGroups)

	var schedulingConstraints, assignmentConstraints []Constraint
	for _, c := range reduced {
		if !c.Type.IsValid() {
			return nil, fmt.Errorf("%w: %v", ErrUnknownConstraintType, c)
		}
		if c.Type.IsSchedulingConstraint() {
			schedulingConstraints = append(schedulingConstraints, c)
		} else {
			assignmentConstraints = append(assignmentConstraints, c)
		}
	}

	data := &InputData{
		choices:               choices,
		choosers:              choosers,
		slots:                 slots,
		schedulingConstraints: schedulingConstraints,
		assignmentConstraints: assignmentConstraints,
		dependentChoiceGroups: dependentGroups,
		preferenceLevels:      preferenceLevels,
		maxPreference:         maxRaw,
	}
	data.buildConstraintMaps()

	return data, nil
}

// expandParts implements step 3: for every raw choice with Parts=k>1, append
// k-1 hidden continuation choices and duplicate every chooser's preference
// for that choice into the new columns. Returns the expanded choice list,
// one preference column slice per chooser (parallel to choices), and a
// lookup from the original choice name to its first-part index (used by
// generateExtraSlots to locate the "real" choice for ChoiceIsNotInSlot).
func expandParts(raw MutableInputData) (choices []Choice, prefColumns [][]int, origIndexOfName map[string]int) {
	origIndexOfName = make(map[string]int, len(raw.Choices))
	prefColumns = make([][]int, len(raw.Choosers))

	for ci, rc := range raw.Choices {
		partFirst := len(choices)
		origIndexOfName[rc.Name] = partFirst

		choices = append(choices, Choice{Name: rc.Name, Min: rc.Min, Max: rc.Max, Optional: rc.Optional, Continuation: -1})
		for p, ch := range raw.Choosers {
			prefColumns[p] = append(prefColumns[p], ch.Preferences[ci])
		}

		if rc.Parts > 1 {
			choices[partFirst].Continuation = partFirst + 1
			for k := 2; k <= rc.Parts; k++ {
				name := fmt.Sprintf("%s[%d] %s", GeneratedPrefix, k, rc.Name)
				next := -1
				if k < rc.Parts {
					next = len(choices) + 1
				}
				choices = append(choices, Choice{Name: name, Min: rc.Min, Max: rc.Max, Optional: false, Continuation: next})
				for p, ch := range raw.Choosers {
					prefColumns[p] = append(prefColumns[p], ch.Preferences[ci])
				}
			}
		}
	}

	return choices, prefColumns, origIndexOfName
}

// generateExtraSlots implements step 4.
func generateExtraSlots(choices *[]Choice, slots *[]Slot, prefs *[][]int, raw MutableInputData, origIndexOfName map[string]int) []Constraint {
	optMin := 0
	for _, rc := range raw.Choices {
		if rc.Optional {
			optMin += rc.Min
		}
	}

	chooserCount := len(raw.Choosers)
	numExtra := 0
	if optMin > 0 {
		numExtra = int(math.Ceil(float64(optMin) / float64(chooserCount)))
	}

	var extra []Constraint
	for i := 0; i < numExtra; i++ {
		slotIdx := len(*slots)
		*slots = append(*slots, Slot{Name: fmt.Sprintf("%s%d", NotScheduledSlotName, i)})

		fillerIdx := len(*choices)
		*choices = append(*choices, Choice{
			Name: fmt.Sprintf("%sunassigned_%d", HiddenChoicePrefix, i),
			Min:  0,
			Max:  chooserCount + 1,
		})
		for p := range *prefs {
			(*prefs)[p] = append((*prefs)[p], MinPrefPlaceholder)
		}

		extra = append(extra, NewConstraint3(ChoiceIsInSlot, fillerIdx, slotIdx))

		for _, rc := range raw.Choices {
			if rc.Optional {
				continue
			}
			w := origIndexOfName[rc.Name]
			extra = append(extra, NewConstraint3(ChoiceIsNotInSlot, w, slotIdx))
		}
	}

	return extra
}

// multiPartConstraints implements step 8: pairwise ChoicesHaveSameChoosers
// and ChoicesHaveOffset constraints between every ordered pair of parts of
// the same multi-part choice.
func multiPartConstraints(choices []Choice) []Constraint {
	var out []Constraint

	for i, c := range choices {
		if c.Continuation < 0 {
			continue
		}

		// Walk the whole chain starting at i.
		chain := []int{i}
		next := c.Continuation
		for next >= 0 {
			chain = append(chain, next)
			next = choices[next].Continuation
		}

		for a := 0; a < len(chain); a++ {
			for b := a + 1; b < len(chain); b++ {
				out = append(out, NewConstraint3(ChoicesHaveSameChoosers, chain[a], chain[b]))
				out = append(out, NewConstraint(ChoicesHaveOffset, chain[a], chain[b], b-a))
			}
		}
	}

	return out
}

func mergeDependentBounds(choices []Choice, groups [][]int) {
	for _, group := range groups {
		min, max := 0, math.MaxInt32
		for _, w := range group {
			if choices[w].Min > min {
				min = choices[w].Min
			}
			if choices[w].Max < max {
				max = choices[w].Max
			}
		}
		for _, w := range group {
			choices[w].Min = min
			choices[w].Max = max
		}
	}
}

func mergeDependentPreferences(choosers []Chooser, groups [][]int) {
	for _, group := range groups {
		for p := range choosers {
			best := math.MaxInt32
			for _, w := range group {
				if choosers[p].Preferences[w] < best {
					best = choosers[p].Preferences[w]
				}
			}
			for _, w := range group {
				choosers[p].Preferences[w] = best
			}
		}
	}
}

func (d *InputData) buildConstraintMaps() {
	d.choiceConstraintMap = make(map[int][]Constraint)
	d.chooserConstraintMap = make(map[int][]Constraint)

	choiceIndexed := func(t ConstraintType) bool {
		switch t {
		case ChoiceIsInSlot, ChoiceIsNotInSlot, ChoicesAreInSameSlot, ChoicesAreNotInSameSlot, ChoicesHaveOffset:
			return true
		default:
			return false
		}
	}

	for _, c := range d.schedulingConstraints {
		if !choiceIndexed(c.Type) {
			continue
		}
		d.choiceConstraintMap[c.Left] = append(d.choiceConstraintMap[c.Left], c)
		if c.Right != c.Left {
			d.choiceConstraintMap[c.Right] = append(d.choiceConstraintMap[c.Right], c)
		}
	}

	for _, c := range d.assignmentConstraints {
		switch c.Type {
		case ChooserIsInChoice, ChooserIsNotInChoice:
			d.chooserConstraintMap[c.Left] = append(d.chooserConstraintMap[c.Left], c)
		case ChoosersHaveSameChoices:
			d.chooserConstraintMap[c.Left] = append(d.chooserConstraintMap[c.Left], c)
			if c.Right != c.Left {
				d.chooserConstraintMap[c.Right] = append(d.chooserConstraintMap[c.Right], c)
			}
		}
	}
}

// Choices returns every choice, including synthesized parts and filler
// choices.
func (d *InputData) Choices() []Choice { return d.choices }

// Choosers returns every chooser with normalised preferences.
func (d *InputData) Choosers() []Chooser { return d.choosers }

// Slots returns every slot, including synthesized "not scheduled" slots.
func (d *InputData) Slots() []Slot { return d.slots }

// Choice returns the choice at index.
func (d *InputData) Choice(index int) Choice { return d.choices[index] }

// Chooser returns the chooser at index.
func (d *InputData) Chooser(index int) Chooser { return d.choosers[index] }

// Slot returns the slot at index.
func (d *InputData) Slot(index int) Slot { return d.slots[index] }

// ChoiceCount returns len(Choices()).
func (d *InputData) ChoiceCount() int { return len(d.choices) }

// ChooserCount returns len(Choosers()).
func (d *InputData) ChooserCount() int { return len(d.choosers) }

// SlotCount returns len(Slots()).
func (d *InputData) SlotCount() int { return len(d.slots) }

// SchedulingConstraints returns every canonical scheduling constraint.
func (d *InputData) SchedulingConstraints() []Constraint { return d.schedulingConstraints }

// SchedulingConstraintsFor returns the canonical scheduling constraints that
// reference the given choice as an operand.
func (d *InputData) SchedulingConstraintsFor(choice int) []Constraint {
	return d.choiceConstraintMap[choice]
}

// AssignmentConstraints returns every canonical assignment constraint.
func (d *InputData) AssignmentConstraints() []Constraint { return d.assignmentConstraints }

// AssignmentConstraintsFor returns the canonical assignment constraints
// that reference the given chooser as an operand.
func (d *InputData) AssignmentConstraintsFor(chooser int) []Constraint {
	return d.chooserConstraintMap[chooser]
}

// DependentChoiceGroups returns every group of choices forced to share an
// identical chooser cohort (and therefore never the same slot).
func (d *InputData) DependentChoiceGroups() [][]int { return d.dependentChoiceGroups }

// PreferenceLevels returns every distinct normalised preference value that
// occurs in the input, sorted ascending, always including 0 and
// MaxPreference().
func (d *InputData) PreferenceLevels() []int { return d.preferenceLevels }

// MaxPreference returns the largest raw (non-placeholder) preference in the
// input, which is the value a raw preference of 0 normalises to. It need
// not occur among the normalised preferences (when no chooser gave a raw
// preference of 0).
func (d *InputData) MaxPreference() int { return d.maxPreference }

// PreferenceAfter returns the smallest preference level strictly greater
// than preference, or MaxInt32 if preference is already the highest level.
func (d *InputData) PreferenceAfter(preference int) int {
	for _, p := range d.preferenceLevels {
		if p > preference {
			return p
		}
	}

	return math.MaxInt32
}
