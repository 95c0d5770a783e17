package model

// RawChoice is the as-parsed description of a choice, before hidden parts
// and filler choices are synthesized.
type RawChoice struct {
	Name     string
	Min, Max int
	// Parts is the number of time-slot parts this choice spans; 1 means
	// a single, non-continued choice. Parts > 1 causes Parts-1 hidden
	// continuation choices to be synthesized during InputData
	// construction.
	Parts int
	// Optional marks a choice that may end up unscheduled.
	Optional bool
}

// RawChooser is the as-parsed description of a chooser: a name plus one
// raw preference per original (pre-hidden-parts) choice. Values equal to
// MinPrefPlaceholder mean "don't care".
type RawChooser struct {
	Name        string
	Preferences []int
}

// MutableInputData is the builder-facing record produced by an external
// loader (the DSL parser, or the thin JSON loader in package ioformat) and
// consumed by NewInputData. It is not safe for concurrent use and is
// discarded once frozen into an InputData.
type MutableInputData struct {
	Choices     []RawChoice
	Choosers    []RawChooser
	SlotNames   []string
	Constraints []Constraint
}
