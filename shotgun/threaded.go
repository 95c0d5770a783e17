package shotgun

import (
	"context"
	"sync"
	"time"

	"github.com/MaximilianAzendorf/wassign-sub000/critical"
	"github.com/MaximilianAzendorf/wassign-sub000/mipflow"
	"github.com/MaximilianAzendorf/wassign-sub000/model"
	"github.com/MaximilianAzendorf/wassign-sub000/rng"
)

// ThreadedProgress extends Progress with the time budget remaining across
// the whole pool of workers.
type ThreadedProgress struct {
	Progress
	TimeRemaining time.Duration
}

// ThreadedSolver runs options.ThreadCount independent Solvers as goroutines,
// each with its own private random stream, for up to options.Timeout
// seconds, and reports whichever worker holds the best-scoring Solution.
type ThreadedSolver struct {
	input   *model.InputData
	options model.Options

	mu        sync.Mutex
	workers   []*Solver
	startedAt time.Time
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	running   bool
}

// NewThreaded builds a ThreadedSolver ready to Start.
func NewThreaded(input *model.InputData, csAnalysis *critical.Analysis, staticData *mipflow.StaticData, options model.Options, rnd *rng.Source) *ThreadedSolver {
	threadCount := options.ThreadCount
	if threadCount < 1 {
		threadCount = 1
	}

	workers := make([]*Solver, threadCount)
	for i := range workers {
		workers[i] = New(input, csAnalysis, staticData, options, rnd.Derive())
	}

	return &ThreadedSolver{input: input, options: options, workers: workers}
}

// IsRunning reports whether a Start'ed search is still in flight.
func (t *ThreadedSolver) IsRunning() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.running
}

// Start launches every worker goroutine. A run still in flight is
// cancelled first, and Start waits for its workers to exit.
func (t *ThreadedSolver) Start() {
	t.Cancel()

	t.mu.Lock()
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(t.options.Timeout)*time.Second)
	t.cancel = cancel
	t.startedAt = time.Now()
	t.running = true
	t.mu.Unlock()

	for _, w := range t.workers {
		w := w
		t.wg.Add(1)
		go func() {
			defer t.wg.Done()
			threadLoop(ctx, w)
		}()
	}

	go func() {
		t.wg.Wait()
		t.mu.Lock()
		t.running = false
		t.mu.Unlock()
	}()
}

// threadLoop repeatedly iterates a worker until the context deadline
// passes or an iteration round makes no progress (the scheduling
// enumerator has been exhausted).
func threadLoop(ctx context.Context, w *Solver) {
	for ctx.Err() == nil {
		done := w.Iterate(ctx, 1)
		if done < 1 {
			return
		}
	}
}

// Cancel stops every worker goroutine and waits for them to exit.
func (t *ThreadedSolver) Cancel() {
	t.mu.Lock()
	cancel := t.cancel
	t.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	t.wg.Wait()

	t.mu.Lock()
	t.cancel = nil
	t.running = false
	t.mu.Unlock()
}

// WaitForResult blocks until every worker has exited (its deadline passed,
// its scheduling enumerator ran out, or Cancel was called), then returns
// the best Solution found.
func (t *ThreadedSolver) WaitForResult() model.Solution {
	t.wg.Wait()
	t.Cancel()
	return t.CurrentSolution()
}

// CurrentSolution returns the best-scoring Solution across every worker
// so far, valid to call while workers are still running.
func (t *ThreadedSolver) CurrentSolution() model.Solution {
	return t.Progress().BestSolution
}

// ThreadedProgressSnapshot bundles the aggregated progress plus the best
// solution found across every worker.
type ThreadedProgressSnapshot struct {
	ThreadedProgress
	BestSolution model.Solution
}

// Progress aggregates every worker's Progress: summed iteration/assignment/
// LP counts, the best score and matching solution across all workers, and
// the remaining time budget.
func (t *ThreadedSolver) Progress() ThreadedProgressSnapshot {
	t.mu.Lock()
	startedAt := t.startedAt
	t.mu.Unlock()

	result := ThreadedProgressSnapshot{BestSolution: model.InvalidSolution()}
	result.BestScore = model.InvalidScore

	remaining := time.Duration(t.options.Timeout)*time.Second - time.Since(startedAt)
	if remaining < 0 {
		remaining = 0
	}
	result.TimeRemaining = remaining

	for _, w := range t.workers {
		p := w.Progress()
		result.Iterations += p.Iterations
		result.Assignments += p.Assignments
		result.LPCount += p.LPCount

		if p.BestScore.Less(result.BestScore) {
			result.BestScore = p.BestScore
			result.BestSolution = w.CurrentSolution()
		}
	}

	return result
}
