package ioformat

import (
	"encoding/csv"
	"io"
	"strings"

	"github.com/MaximilianAzendorf/wassign-sub000/model"
)

// WriteScheduling writes the <prefix>.scheduling.csv format of §6.3:
// header "Choice","Slot", one row per non-hidden choice, slot rendered as
// "not scheduled" for the synthesized not-scheduled slot and with the
// generated-entity prefix stripped otherwise.
func WriteScheduling(w io.Writer, scheduling *model.Scheduling) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write([]string{"Choice", "Slot"}); err != nil {
		return err
	}

	input := scheduling.InputData()
	for idx, choice := range input.Choices() {
		if strings.HasPrefix(choice.Name, model.HiddenChoicePrefix) {
			continue
		}

		slotName := "not scheduled"
		if sl := scheduling.SlotOf(idx); sl != model.NotScheduled {
			name := input.Slot(sl).Name
			if !strings.HasPrefix(name, model.NotScheduledSlotName) {
				slotName = strings.TrimPrefix(name, model.GeneratedPrefix)
			}
		}

		if err := cw.Write([]string{choice.Name, slotName}); err != nil {
			return err
		}
	}

	return cw.Error()
}

// WriteAssignment writes the <prefix>.assignment.csv format of §6.3:
// header "Chooser" followed by one column per non-not-scheduled slot; one
// row per chooser listing the attended choice's name in each slot.
func WriteAssignment(w io.Writer, assignment *model.Assignment) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	input := assignment.InputData()

	var slotIndexes []int
	header := []string{"Chooser"}
	for s, slot := range input.Slots() {
		if strings.HasPrefix(slot.Name, model.NotScheduledSlotName) {
			continue
		}
		slotIndexes = append(slotIndexes, s)
		header = append(header, strings.TrimPrefix(slot.Name, model.GeneratedPrefix))
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for p, chooser := range input.Choosers() {
		row := make([]string, 0, len(slotIndexes)+1)
		row = append(row, chooser.Name)

		for _, s := range slotIndexes {
			choice := assignment.ChoiceOf(p, s)
			row = append(row, input.Choice(choice).Name)
		}

		if err := cw.Write(row); err != nil {
			return err
		}
	}

	return cw.Error()
}
