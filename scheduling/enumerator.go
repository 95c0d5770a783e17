package scheduling

import (
	"context"

	"github.com/MaximilianAzendorf/wassign-sub000/model"
)

// Enumerator wraps a Solver to yield successive feasible schedulings with
// preference-level relaxation: a failed attempt at one critical-set
// preference level retries at the next-worse level instead of giving up,
// since a tighter level is strictly harder to satisfy than a looser one.
type Enumerator struct {
	solver *Solver
}

// NewEnumerator wraps solver.
func NewEnumerator(solver *Solver) *Enumerator {
	return &Enumerator{solver: solver}
}

// Next tries increasingly relaxed preference levels, starting from the
// critical set analysis's preference bound (or fully relaxed, with
// probability 1/prefRelaxation), until a scheduling is found or every
// level up to and including MaxPreference has been exhausted.
func (e *Enumerator) Next(ctx context.Context) bool {
	s := e.solver

	if s.rnd.IntN(prefRelaxation) == 0 {
		return s.attempt(ctx, nil)
	}

	level := s.csAnalysis.PreferenceBound()
	for {
		if ctx.Err() != nil {
			return false
		}

		if s.attempt(ctx, s.csAnalysis.ForPreference(level)) {
			return true
		}

		if level >= s.input.MaxPreference() {
			return false
		}
		level = s.input.PreferenceAfter(level)
	}
}

// Scheduling returns the last scheduling found.
func (e *Enumerator) Scheduling() *model.Scheduling { return e.solver.Scheduling() }

// HasSolution reports whether Next has ever succeeded.
func (e *Enumerator) HasSolution() bool { return e.solver.HasSolution() }
