// Package ioformat is the thin I/O layer around the core solver: a minimal
// JSON loader producing a model.MutableInputData, and the CSV writers from
// §6.3. It deliberately does not implement the full input DSL (fuzzy name
// lookup, constraint expression grammar); that remains an external
// collaborator's job. encoding/json and encoding/csv are used directly
// since no third-party codec appears anywhere in the example pack.
package ioformat

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/MaximilianAzendorf/wassign-sub000/model"
)

// jsonChoice mirrors model.RawChoice's JSON shape.
type jsonChoice struct {
	Name     string `json:"name"`
	Min      int    `json:"min"`
	Max      int    `json:"max"`
	Parts    int    `json:"parts"`
	Optional bool   `json:"optional"`
}

// jsonChooser mirrors model.RawChooser's JSON shape.
type jsonChooser struct {
	Name        string `json:"name"`
	Preferences []int  `json:"preferences"`
}

// jsonConstraint mirrors model.Constraint's JSON shape; Type is one of the
// canonical type names in constraintTypeByName, spelled as
// model.ConstraintType.String spells them. Non-canonical type names are
// not accepted.
type jsonConstraint struct {
	Type  string `json:"type"`
	Left  int    `json:"left"`
	Right int    `json:"right"`
	Extra int    `json:"extra"`
}

// jsonDocument is the on-disk shape DecodeInputData expects.
type jsonDocument struct {
	Slots       []string         `json:"slots"`
	Choices     []jsonChoice     `json:"choices"`
	Choosers    []jsonChooser    `json:"choosers"`
	Constraints []jsonConstraint `json:"constraints"`
}

var constraintTypeByName = map[string]model.ConstraintType{
	"ChoiceIsInSlot":          model.ChoiceIsInSlot,
	"ChoiceIsNotInSlot":       model.ChoiceIsNotInSlot,
	"ChoicesAreInSameSlot":    model.ChoicesAreInSameSlot,
	"ChoicesAreNotInSameSlot": model.ChoicesAreNotInSameSlot,
	"ChoicesHaveOffset":       model.ChoicesHaveOffset,
	"SlotHasLimitedSize":      model.SlotHasLimitedSize,
	"ChoicesHaveSameChoosers": model.ChoicesHaveSameChoosers,
	"ChooserIsInChoice":       model.ChooserIsInChoice,
	"ChooserIsNotInChoice":    model.ChooserIsNotInChoice,
	"ChoosersHaveSameChoices": model.ChoosersHaveSameChoices,
}

// DecodeInputData reads a JSON document shaped like MutableInputData from
// r and converts it. Unknown constraint type names are rejected; every
// other field maps straight across.
func DecodeInputData(r io.Reader) (model.MutableInputData, error) {
	var doc jsonDocument
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return model.MutableInputData{}, fmt.Errorf("decoding input document: %w", err)
	}

	raw := model.MutableInputData{
		SlotNames: doc.Slots,
		Choices:   make([]model.RawChoice, len(doc.Choices)),
		Choosers:  make([]model.RawChooser, len(doc.Choosers)),
	}

	for i, c := range doc.Choices {
		parts := c.Parts
		if parts == 0 {
			parts = 1
		}
		raw.Choices[i] = model.RawChoice{
			Name: c.Name, Min: c.Min, Max: c.Max, Parts: parts, Optional: c.Optional,
		}
	}

	for i, c := range doc.Choosers {
		prefs := append([]int(nil), c.Preferences...)
		raw.Choosers[i] = model.RawChooser{Name: c.Name, Preferences: prefs}
	}

	for _, c := range doc.Constraints {
		t, ok := constraintTypeByName[c.Type]
		if !ok {
			return model.MutableInputData{}, fmt.Errorf("unknown constraint type %q", c.Type)
		}
		raw.Constraints = append(raw.Constraints, model.NewConstraint(t, c.Left, c.Right, c.Extra))
	}

	return raw, nil
}
