package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/MaximilianAzendorf/wassign-sub000/critical"
	"github.com/MaximilianAzendorf/wassign-sub000/ioformat"
	"github.com/MaximilianAzendorf/wassign-sub000/mipflow"
	"github.com/MaximilianAzendorf/wassign-sub000/model"
	"github.com/MaximilianAzendorf/wassign-sub000/rng"
	"github.com/MaximilianAzendorf/wassign-sub000/shotgun"
	"github.com/MaximilianAzendorf/wassign-sub000/status"
)

// run wires the full pipeline: load input, build InputData, run critical
// set analysis, drive the threaded shotgun search for options.Timeout, and
// write the result. It implements the §7 error taxonomy: input errors
// return non-nil (exit 1); "no solution found" is reported on stderr and
// returns nil (exit 0).
func run(options model.Options) error {
	sink := status.Noop
	if options.Verbosity > 0 {
		sink = status.NewDefault(options.Verbosity >= 3)
	}

	raw, err := loadInput(options.InputFiles)
	if err != nil {
		return fmt.Errorf("loading input: %w", err)
	}

	input, err := model.NewInputData(raw)
	if err != nil {
		return fmt.Errorf("building input data: %w", err)
	}

	var csAnalysis *critical.Analysis
	if options.NoCs {
		csAnalysis = critical.Empty(input)
	} else {
		csAnalysis = critical.Analyze(input, !options.NoCsSimp, sink)
	}

	staticData := mipflow.NewStaticData(input)

	pool := shotgun.NewThreaded(input, csAnalysis, staticData, options, rng.NewFromEntropy())
	pool.Start()

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(options.Timeout)*time.Second)
	defer cancel()

	solution := waitWithProgress(ctx, pool, sink, options)

	if solution.IsInvalid() {
		fmt.Fprintln(os.Stderr, "no solution found")
		return nil
	}

	return writeSolution(solution, options.OutputFile)
}

// waitWithProgress blocks until ctx expires or the pool finishes early (the
// scheduling enumerator exhausted every preference level), periodically
// logging progress, then returns the best solution found.
func waitWithProgress(ctx context.Context, pool *shotgun.ThreadedSolver, sink status.Sink, options model.Options) model.Solution {
	throttle := status.NewThrottle(time.Second)

	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return pool.WaitForResult()
		case <-ticker.C:
			if !pool.IsRunning() {
				return pool.WaitForResult()
			}
			if options.Any && pool.Progress().Iterations > 0 {
				pool.Cancel()
				return pool.WaitForResult()
			}
			if throttle.Ready() {
				p := pool.Progress()
				sink.Info("search progress",
					fieldsFromProgress(p)...,
				)
			}
		}
	}
}

func loadInput(files []string) (model.MutableInputData, error) {
	if len(files) == 0 {
		return ioformat.DecodeInputData(os.Stdin)
	}
	if len(files) > 1 {
		return model.MutableInputData{}, fmt.Errorf("multiple input files are not supported by the JSON loader")
	}

	f, err := os.Open(files[0])
	if err != nil {
		return model.MutableInputData{}, err
	}
	defer f.Close()

	return ioformat.DecodeInputData(f)
}

func writeSolution(solution model.Solution, outputPrefix string) error {
	if outputPrefix == "" {
		if err := ioformat.WriteScheduling(os.Stdout, solution.Scheduling()); err != nil {
			return err
		}
		return ioformat.WriteAssignment(os.Stdout, solution.Assignment())
	}

	schedFile, err := os.Create(outputPrefix + ".scheduling.csv")
	if err != nil {
		return err
	}
	defer schedFile.Close()
	if err := ioformat.WriteScheduling(schedFile, solution.Scheduling()); err != nil {
		return err
	}

	asnFile, err := os.Create(outputPrefix + ".assignment.csv")
	if err != nil {
		return err
	}
	defer asnFile.Close()

	return ioformat.WriteAssignment(asnFile, solution.Assignment())
}
