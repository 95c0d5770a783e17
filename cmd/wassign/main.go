// Command wassign solves the two-layer choice scheduling and assignment
// problem described by an input document: choices are scheduled into
// slots, then choosers are assigned to choices within their slot, jointly
// minimising a lexicographic preference score.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/MaximilianAzendorf/wassign-sub000/model"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		inputFiles   []string
		outputFile   string
		verbosity    int
		anyMode      bool
		prefExp      float64
		timeoutStr   string
		csTimeoutStr string
		noCs         bool
		noCsSimp     bool
		threads      int
		maxNeighbors int
		greedy       bool
	)

	cmd := &cobra.Command{
		Use:     "wassign [options] [input-file ...]",
		Short:   "Solve a two-layer choice scheduling and assignment problem",
		Version: version,
		RunE: func(cmd *cobra.Command, args []string) error {
			inputFiles = append(inputFiles, args...)

			timeout, err := parseDuration(timeoutStr)
			if err != nil {
				return fmt.Errorf("--timeout: %w", err)
			}
			csTimeout, err := parseDuration(csTimeoutStr)
			if err != nil {
				return fmt.Errorf("--cs-timeout: %w", err)
			}

			options := model.DefaultOptions()
			options.InputFiles = inputFiles
			options.OutputFile = outputFile
			options.Verbosity = verbosity
			options.Any = anyMode
			options.PrefExp = prefExp
			options.Timeout = int(timeout.Seconds())
			options.CsTimeout = int(csTimeout.Seconds())
			options.NoCs = noCs
			options.NoCsSimp = noCsSimp
			if threads > 0 {
				options.ThreadCount = threads
			}
			if maxNeighbors > 0 {
				options.MaxNeighbors = maxNeighbors
			}
			options.Greedy = greedy

			return run(options)
		},
	}

	flags := cmd.Flags()
	flags.StringArrayVarP(&inputFiles, "input", "i", nil, "input file (repeatable); default stdin")
	flags.StringVarP(&outputFile, "output", "o", "", "output prefix; default stdout")
	flags.IntVarP(&verbosity, "verbosity", "v", 1, "output level (0 silent, 3 info)")
	flags.BoolVarP(&anyMode, "any", "a", false, "stop at first feasible solution")
	flags.Float64VarP(&prefExp, "pref-exp", "p", 3.0, "preference exponent")
	flags.StringVarP(&timeoutStr, "timeout", "t", "60s", "overall optimisation timeout")
	flags.StringVar(&csTimeoutStr, "cs-timeout", "3s", "per-preference-level scheduler timeout")
	flags.BoolVar(&noCs, "no-cs", false, "skip critical-set analysis")
	flags.BoolVar(&noCsSimp, "no-cs-simp", false, "skip critical-set simplification step")
	flags.IntVarP(&threads, "threads", "j", 0, "worker count (default: number of CPUs)")
	flags.IntVarP(&maxNeighbors, "max-neighbors", "n", 0, "hill-climb neighbours per iteration (default 12)")
	flags.BoolVarP(&greedy, "greedy", "g", false, "disable major score; sum-only scoring")

	return cmd
}
