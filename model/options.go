package model

import "runtime"

// Options bundles every tunable that flows from the CLI into the solver
// pipeline. It is built once per run and shared read-only across every
// worker.
type Options struct {
	InputFiles   []string
	OutputFile   string
	Verbosity    int
	Any          bool
	PrefExp      float64
	Timeout      int // seconds
	CsTimeout    int // seconds, per critical-set preference-level attempt
	NoCs         bool
	NoCsSimp     bool
	ThreadCount  int
	MaxNeighbors int
	Greedy       bool
}

// DefaultOptions mirrors original_source's Options::default_options.
func DefaultOptions() Options {
	return Options{
		Verbosity:    1,
		PrefExp:      3.0,
		Timeout:      60,
		CsTimeout:    3,
		ThreadCount:  runtime.NumCPU(),
		MaxNeighbors: 12,
	}
}
