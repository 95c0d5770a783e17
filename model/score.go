package model

import "math"

// Score is the lexicographic objective minimised across the whole solver
// pipeline: Major is the worst-case (maximum) normalised preference used by
// any (chooser, slot) pair, Minor is a preference-exponent-weighted sum.
// Both fields are +Inf for an invalid solution. In greedy mode, Major is
// NaN and is ignored by Less.
type Score struct {
	Major float64
	Minor float64
}

// InvalidScore is the sentinel worst-possible score: no feasible solution
// compares lower than it.
var InvalidScore = Score{Major: math.Inf(1), Minor: math.Inf(1)}

// IsFinite reports whether both components (or, in greedy mode, just
// Minor) are finite.
func (s Score) IsFinite() bool {
	if !math.IsNaN(s.Major) && math.IsInf(s.Major, 1) {
		return false
	}

	return !math.IsInf(s.Minor, 1)
}

// Less compares two scores lexicographically: Major first (skipped if
// either is NaN, i.e. greedy mode), then Minor.
func (s Score) Less(other Score) bool {
	if !math.IsNaN(s.Major) && !math.IsNaN(other.Major) && s.Major != other.Major {
		return s.Major < other.Major
	}

	return s.Minor < other.Minor
}

// Evaluate computes the Score of a Solution: Major is the maximum
// normalised preference used across every (chooser, slot) pair; Minor is
// the sum over every (chooser, slot) pair of (pref+1)^exponent /
// MaxPreference()^exponent, pref being the normalised preference (the
// divisor is 1 when MaxPreference() is 0); greedy disables Major (set to
// NaN).
func Evaluate(sol *Solution, exponent float64, greedy bool) Score {
	if sol.IsInvalid() {
		return InvalidScore
	}

	input := sol.Scheduling().InputData()
	scaling := math.Pow(float64(input.MaxPreference()), exponent)
	if scaling == 0 {
		scaling = 1
	}

	major := 0.0
	minor := 0.0

	for p := 0; p < input.ChooserCount(); p++ {
		for s := 0; s < input.SlotCount(); s++ {
			w := sol.Assignment().ChoiceOf(p, s)
			pref := input.Chooser(p).Preferences[w]

			if float64(pref) > major {
				major = float64(pref)
			}
			minor += math.Pow(float64(pref)+1.0, exponent) / scaling
		}
	}

	if greedy {
		major = math.NaN()
	}

	return Score{Major: major, Minor: minor}
}
