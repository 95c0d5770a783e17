// Package shotgun repeatedly generates a scheduling and hill-climbs it to a
// local optimum, keeping the best solution seen across iterations. One
// Solver is a single sequential search; ThreadedSolver runs several in
// parallel goroutines and merges their progress.
package shotgun

import (
	"context"

	"github.com/MaximilianAzendorf/wassign-sub000/assignment"
	"github.com/MaximilianAzendorf/wassign-sub000/critical"
	"github.com/MaximilianAzendorf/wassign-sub000/hillclimb"
	"github.com/MaximilianAzendorf/wassign-sub000/mipflow"
	"github.com/MaximilianAzendorf/wassign-sub000/model"
	"github.com/MaximilianAzendorf/wassign-sub000/rng"
	"github.com/MaximilianAzendorf/wassign-sub000/scheduling"
)

// Progress is a snapshot of a Solver's cumulative search statistics.
type Progress struct {
	Iterations  int
	BestScore   model.Score
	Assignments int
	LPCount     int
}

// Solver owns one SchedulingEnumerator and one HillClimbingSolver, and
// repeatedly feeds schedulings from the former into the latter, keeping
// the best-scoring Solution seen.
type Solver struct {
	options model.Options

	enumerator *scheduling.Enumerator
	climber    *hillclimb.Solver

	iterations   int
	bestSolution model.Solution
	bestScore    model.Score
}

// New builds a Solver for a single sequential shotgun search.
func New(input *model.InputData, csAnalysis *critical.Analysis, staticData *mipflow.StaticData, options model.Options, rnd *rng.Source) *Solver {
	schedSolver := scheduling.New(input, csAnalysis, options, rnd)
	asn := assignment.New(input, csAnalysis, staticData, options)

	return &Solver{
		options:      options,
		enumerator:   scheduling.NewEnumerator(schedSolver),
		climber:      hillclimb.New(input, asn, options, rnd.Derive()),
		bestSolution: model.InvalidSolution(),
		bestScore:    model.InvalidScore,
	}
}

// CurrentSolution returns the best Solution found across every iteration
// run so far.
func (s *Solver) CurrentSolution() model.Solution { return s.bestSolution }

// Progress snapshots this Solver's running totals.
func (s *Solver) Progress() Progress {
	return Progress{
		Iterations:  s.iterations,
		BestScore:   s.bestScore,
		Assignments: s.climber.AssignmentCount(),
		LPCount:     s.climber.LPCount(),
	}
}

// Iterate runs up to numIterations scheduling-then-climb rounds, stopping
// early if the scheduling enumerator runs out of levels or ctx is
// cancelled, and returns the number of iterations actually completed.
func (s *Solver) Iterate(ctx context.Context, numIterations int) int {
	done := 0
	for ; done < numIterations; done++ {
		if !s.enumerator.Next(ctx) {
			break
		}

		sol := s.climber.Solve(ctx, s.enumerator.Scheduling())

		if ctx.Err() != nil {
			break
		}

		score := model.Evaluate(&sol, s.options.PrefExp, s.options.Greedy)
		if score.Less(s.bestScore) {
			s.bestSolution = sol
			s.bestScore = score
		}

		s.iterations++
	}

	return done
}
