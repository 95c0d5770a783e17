package mipflow

import "github.com/MaximilianAzendorf/wassign-sub000/model"

// FlowID packs two 32-bit ids into a single 64-bit node/edge key, mirroring
// original_source's MipFlowStaticData::make_long. High halves distinguish
// the three node families (chooser/slot pair, slot, choice) so the same
// packing scheme serves as both node and edge keys.
type FlowID uint64

const (
	// slotIDHigh and choiceIDHigh are reserved high halves that can never
	// collide with a real chooser index (chooser counts stay well under
	// 2^30 in practice; see StaticData's construction for the actual
	// collision argument: slot/choice nodes only ever appear with these
	// sentinel highs, and chooser nodes always pair a real chooser index
	// with a real slot index, both far below these constants).
	slotIDHigh   = 1<<31 - 1
	choiceIDHigh = 1<<31 - 2
)

// MakeFlowID packs (high, low) into a single FlowID.
func MakeFlowID(high, low int) FlowID {
	return FlowID(uint64(uint32(high))<<32 | uint64(uint32(low)))
}

// NodeChooser is the node key for chooser p in slot s.
func NodeChooser(p, s int) FlowID { return MakeFlowID(p, s) }

// NodeSlot is the node key for slot s.
func NodeSlot(s int) FlowID { return MakeFlowID(slotIDHigh, s) }

// NodeChoice is the node key for choice w.
func NodeChoice(w int) FlowID { return MakeFlowID(choiceIDHigh, w) }

// EdgeID is the edge key for the edge from -> to, where from and to are
// node indexes in the Flow (packed like original_source's edge_id helper).
func EdgeID(from, to int) FlowID { return MakeFlowID(from, to) }

// StaticData holds the part of an assignment flow instance that never
// changes across schedulings within one run: the bare chooser/slot and
// choice nodes. AssignmentSolver calls NewFlow to rebuild this node
// skeleton fresh for every (scheduling, preference-limit) attempt, since a
// Flow's edges and supplies depend on both and a built instance is not
// reused across attempts.
type StaticData struct {
	input *model.InputData

	ChooserSlotNodes [][]int // [chooser][slot] -> node index in the Flow from NewFlow
	ChoiceNodes      []int   // [choice] -> node index in the Flow from NewFlow
	SlotNodes        []int   // [slot] -> node index in the Flow from NewFlow
}

// NewStaticData builds the reusable node skeleton for an InputData's
// assignment problem.
func NewStaticData(input *model.InputData) *StaticData {
	sd := &StaticData{
		input:            input,
		ChooserSlotNodes: make([][]int, input.ChooserCount()),
		ChoiceNodes:      make([]int, input.ChoiceCount()),
		SlotNodes:        make([]int, input.SlotCount()),
	}

	return sd
}

// NewFlow builds a fresh Flow[FlowID, FlowID] with the chooser/slot, choice
// and slot nodes already added (but no edges or supplies set yet; those
// depend on the scheduling and preference limit under consideration).
func (sd *StaticData) NewFlow() (*Flow[FlowID, FlowID], *StaticData) {
	f := New[FlowID, FlowID]()
	instance := &StaticData{
		input:            sd.input,
		ChooserSlotNodes: make([][]int, sd.input.ChooserCount()),
		ChoiceNodes:      make([]int, sd.input.ChoiceCount()),
		SlotNodes:        make([]int, sd.input.SlotCount()),
	}

	for p := 0; p < sd.input.ChooserCount(); p++ {
		instance.ChooserSlotNodes[p] = make([]int, sd.input.SlotCount())
		for s := 0; s < sd.input.SlotCount(); s++ {
			instance.ChooserSlotNodes[p][s] = f.AddNodeKeyed(NodeChooser(p, s))
		}
	}
	for w := 0; w < sd.input.ChoiceCount(); w++ {
		instance.ChoiceNodes[w] = f.AddNodeKeyed(NodeChoice(w))
	}
	for s := 0; s < sd.input.SlotCount(); s++ {
		instance.SlotNodes[s] = f.AddNodeKeyed(NodeSlot(s))
	}

	return f, instance
}

// InputData returns the InputData this StaticData was built from.
func (sd *StaticData) InputData() *model.InputData { return sd.input }
