package critical

import (
	"time"

	"go.uber.org/zap"

	"github.com/MaximilianAzendorf/wassign-sub000/model"
	"github.com/MaximilianAzendorf/wassign-sub000/status"
)

// progressInterval bounds how often Analyze reports progress to its Sink.
const progressInterval = 2 * time.Second

// Analysis holds the critical sets derived from an InputData: one per
// (preference level, chooser) pair whose candidate set survives the
// minimum-capacity prune, deduplicated by CoveredBy. SchedulingSolver uses
// it to reject partial schedulings early, before any assignment is
// attempted.
type Analysis struct {
	input           *model.InputData
	sets            []Set
	preferenceBound int
}

// Empty returns an Analysis with no critical sets and a zero preference
// bound, equivalent to disabling critical set pruning.
func Empty(input *model.InputData) *Analysis {
	return &Analysis{input: input, preferenceBound: 0}
}

// Analyze runs the full critical set derivation described in spec §4.2: for
// each preference level (worst first) and each chooser, build the set of
// choices that chooser rates at or below that level, prune candidates that
// could never be violated by any feasible solution, and keep only sets not
// already covered by one already collected. When simplify is true, a second
// pass removes any collected set that is covered by another.
func Analyze(input *model.InputData, simplify bool, sink status.Sink) *Analysis {
	if sink == nil {
		sink = status.Noop
	}

	a := &Analysis{input: input}
	a.analyze(simplify, sink)

	a.preferenceBound = input.MaxPreference()
	for _, prefLevel := range input.PreferenceLevels() {
		subset := a.ForPreference(prefLevel)
		if len(subset) > 0 && subset[0].Size() >= input.SlotCount() {
			if prefLevel < a.preferenceBound {
				a.preferenceBound = prefLevel
			}
		}
	}

	return a
}

func (a *Analysis) analyze(simplify bool, sink status.Sink) {
	input := a.input
	levels := input.PreferenceLevels()
	throttle := status.NewThrottle(progressInterval)

	for prefIdx := len(levels) - 1; prefIdx >= 0; prefIdx-- {
		pref := levels[prefIdx]

		for p := 0; p < input.ChooserCount(); p++ {
			if throttle.Ready() {
				progress := float64(len(levels)-1-prefIdx)/float64(len(levels)) +
					(1.0/float64(len(levels)))*(float64(p)/float64(input.ChooserCount()))
				sink.Info("critical set analysis progress",
					zap.Float64("percent", 100*progress),
					zap.Int("preference", pref),
					zap.Int("chooser", p),
					zap.Int("setsSoFar", len(a.sets)))
			}

			candidate := make([]int, 0, input.ChoiceCount())
			minCount := 0
			for w := 0; w < input.ChoiceCount(); w++ {
				if input.Chooser(p).Preferences[w] <= pref {
					candidate = append(candidate, w)
					minCount += input.Choice(w).Min
				}
			}

			if minCount > input.ChooserCount()*(input.SlotCount()-1) {
				// No feasible solution could ever be forced to violate this
				// candidate, so it would never prune anything.
				continue
			}

			c := NewSet(pref, candidate)

			covered := false
			for _, other := range a.sets {
				if c.CoveredBy(other) {
					covered = true
					break
				}
			}
			if !covered {
				a.sets = append(a.sets, c)
			}
		}
	}

	if !simplify {
		return
	}
	a.simplify(sink, throttle)
}

// simplify removes every collected set that is covered by another,
// independent of the preference level it was found at.
func (a *Analysis) simplify(sink status.Sink, throttle *status.Throttle) {
	kept := make([]bool, len(a.sets))
	for i := range kept {
		kept[i] = true
	}

	for i, set := range a.sets {
		if !kept[i] {
			continue
		}
		if throttle.Ready() {
			sink.Info("simplifying critical sets", zap.Int("remaining", countTrue(kept)))
		}

		for j, other := range a.sets {
			if i == j || !kept[j] {
				continue
			}
			if other.CoveredBy(set) {
				kept[j] = false
			}
		}
	}

	newSets := make([]Set, 0, countTrue(kept))
	for i, k := range kept {
		if k {
			newSets = append(newSets, a.sets[i])
		}
	}
	a.sets = newSets
}

func countTrue(b []bool) int {
	n := 0
	for _, v := range b {
		if v {
			n++
		}
	}

	return n
}

// ForPreference returns every critical set with preference level at or
// above the given threshold, with any set that is a strict superset of
// another in the result removed, sorted by ascending size so the most
// restrictive (smallest) sets are checked first.
func (a *Analysis) ForPreference(preference int) []Set {
	var relevant []Set
	for _, s := range a.sets {
		if s.Preference() >= preference {
			relevant = append(relevant, s)
		}
	}

	changed := true
	for changed {
		changed = false
		for i, s := range relevant {
			for j, other := range relevant {
				if i == j {
					continue
				}
				if s.IsSupersetOf(other) {
					relevant = append(relevant[:i], relevant[i+1:]...)
					changed = true
					break
				}
			}
			if changed {
				break
			}
		}
	}

	sortBySize(relevant)

	return relevant
}

func sortBySize(sets []Set) {
	for i := 1; i < len(sets); i++ {
		for j := i; j > 0 && sets[j].Size() < sets[j-1].Size(); j-- {
			sets[j], sets[j-1] = sets[j-1], sets[j]
		}
	}
}

// Sets returns every critical set derived by Analyze.
func (a *Analysis) Sets() []Set { return a.sets }

// PreferenceBound is the smallest preference level p such that some
// critical set with level >= p already has size >= the slot count: no
// scheduling can do better than p, so solvers may stop improving beyond it.
func (a *Analysis) PreferenceBound() int { return a.preferenceBound }

// InputData returns the InputData this Analysis was derived from.
func (a *Analysis) InputData() *model.InputData { return a.input }
