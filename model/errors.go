package model

import "fmt"

// Sentinel errors produced while building or validating an InputData.
//
// The input-layer sentinels are wrapped into InputError (see below) so
// callers can always type switch on *InputError regardless of which of them
// fired. ErrUnknownConstraintType is an internal logic error and is not
// wrapped into InputError.
var (
	// ErrInfeasibleConstraints indicates that the raw constraint list
	// contains a provable contradiction (e.g. SlotsHaveSameChoices(a,b)
	// with a != b) and reduce_and_optimize could not produce a
	// satisfiable canonical set.
	ErrInfeasibleConstraints = fmt.Errorf("model: constraint set is trivially infeasible")

	// ErrNoChoosers indicates an InputData with zero choosers, which
	// makes every slot vacuously over-satisfied and the solver
	// pipeline meaningless.
	ErrNoChoosers = fmt.Errorf("model: input has no choosers")

	// ErrNoChoices indicates an InputData with zero choices.
	ErrNoChoices = fmt.Errorf("model: input has no choices")

	// ErrPreferenceLengthMismatch indicates a chooser's preference
	// vector does not have one entry per choice.
	ErrPreferenceLengthMismatch = fmt.Errorf("model: chooser preference vector length does not match choice count")

	// ErrInvalidChoiceBounds indicates min > max, or min < 0, for some
	// choice.
	ErrInvalidChoiceBounds = fmt.Errorf("model: invalid choice capacity bounds")

	// ErrUnknownConstraintType is an internal logic error: a Constraint
	// carries a ConstraintType the current code does not know how to
	// interpret. Per the error taxonomy (spec §7) this is a programmer
	// fault, not a recoverable input error, so callers that hit this
	// should treat it as fatal.
	ErrUnknownConstraintType = fmt.Errorf("model: unknown constraint type")
)

// InputError wraps an input-layer problem (unknown name, malformed
// constraint, unsatisfiable reduction, size mismatch, ...) with an optional
// fuzzy-match suggestion, mirroring original_source's InputException +
// FuzzyMatch pairing. The DSL parser that would normally produce the
// "did you mean" suggestion is out of scope here (spec §1); this type only
// carries the field so such a parser can populate it later.
type InputError struct {
	// Err is the underlying sentinel or wrapped error.
	Err error

	// Context names the offending entity (a choice, chooser, slot or
	// constraint index) for human-readable reporting.
	Context string

	// Suggestion is a fuzzy-matched "did you mean" hint; empty when
	// none applies.
	Suggestion string
}

func (e *InputError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("%s: %v (did you mean %q?)", e.Context, e.Err, e.Suggestion)
	}
	if e.Context != "" {
		return fmt.Sprintf("%s: %v", e.Context, e.Err)
	}

	return e.Err.Error()
}

func (e *InputError) Unwrap() error {
	return e.Err
}

// NewInputError builds an InputError with no suggestion.
func NewInputError(context string, err error) *InputError {
	return &InputError{Context: context, Err: err}
}
