// Package mealy implements the extracted controller representation
// shared by the strategy extractor, the SAT-based minimizer and the
// AIGER/KISS writers: a transition-system view of a solved arena,
// grounded on original_source/src/mealy/MealyMachine.h's machine_t.
//
// Transitions are labelled with prime cubes (internal/bdd.Cube) rather
// than the original's SpecSeq<letter_t>: both represent a partially
// specified letter as one entry per bit with -1 for don't-care, so the
// extractor hands bdd.PrimeCubes' output straight to a Transition.
package mealy

import "github.com/tp971/strix/internal/bdd"

// Semantic names whether a machine reads its own last output (Mealy) or
// not (Moore), per spec.md §4.5.
type Semantic int

const (
	Mealy Semantic = iota
	Moore
)

// Reserved next-state markers, mirroring mealy::TOP_STATE/NONE_STATE.
const (
	// TopState is the synthetic self-looping sink state added for every
	// input letter combination the extracted machine does not need to
	// answer realizably (the don't-care heuristic of spec.md §4.5).
	TopState int32 = -1
	// NoneState marks a not-yet-allocated machine state.
	NoneState int32 = -2
)

// Transition is one outgoing edge of a machine state: NextState is
// either a real state id or TopState; Input/Output are prime cubes over
// the machine's own input/output alphabets (in a Moore machine extracted
// by internal/extract, Output holds the environment's chosen input cube).
type Transition struct {
	NextState int32
	Input     bdd.Cube
	Output    bdd.Cube
}

// Machine is an extracted, possibly-minimized Mealy or Moore controller.
type Machine struct {
	Inputs   []string
	Outputs  []string
	Semantic Semantic

	transitions [][]Transition

	// stateLabels holds the product-state label attached to each machine
	// state when extraction was run with addProductLabels, nil otherwise.
	stateLabels      []int64
	labelBits        int
	accumulatedBits  []int
	hasLabels        bool
}

// New allocates an empty machine with state 0 as its reset state.
func New(inputs, outputs []string, sem Semantic) *Machine {
	return &Machine{
		Inputs:      inputs,
		Outputs:     outputs,
		Semantic:    sem,
		transitions: [][]Transition{{}},
	}
}

// AddState appends a new, initially transition-less state and returns
// its id.
func (m *Machine) AddState() int32 {
	m.transitions = append(m.transitions, nil)
	return int32(len(m.transitions) - 1)
}

// NumStates returns the number of states, including the reset state.
func (m *Machine) NumStates() int32 {
	return int32(len(m.transitions))
}

// AddTransition appends t to state's outgoing edge list.
func (m *Machine) AddTransition(state int32, t Transition) {
	m.transitions[state] = append(m.transitions[state], t)
}

// Transitions returns state's outgoing edges.
func (m *Machine) Transitions(state int32) []Transition {
	return m.transitions[state]
}

// SetStateLabels attaches a packed product-state label (bits, the
// number actually used; accumulatedBits, the original per-component bit
// widths the label packs together) to each state, per spec.md §4.5's
// "use product state labels" option.
func (m *Machine) SetStateLabels(labels []int64, bits int, accumulatedBits []int) {
	m.stateLabels = labels
	m.labelBits = bits
	m.accumulatedBits = accumulatedBits
	m.hasLabels = true
}

// HasLabels reports whether SetStateLabels was ever called.
func (m *Machine) HasLabels() bool { return m.hasLabels }

// StateLabel returns state's packed label and its bit width.
func (m *Machine) StateLabel(state int32) (int64, int) {
	if !m.hasLabels || int(state) >= len(m.stateLabels) {
		return 0, 0
	}
	return m.stateLabels[state], m.labelBits
}

// RemapTopState rewrites every transition pointing at the synthetic
// TopState marker to point at topID instead, the last step of
// extraction once the real state count is known (mirroring the
// original's post-BFS top_state renumbering in constructMealyMachine/
// constructMooreMachine).
func (m *Machine) RemapTopState(topID int32) {
	for _, ts := range m.transitions {
		for i := range ts {
			if ts[i].NextState == TopState {
				ts[i].NextState = topID
			}
		}
	}
}

// SetMinimized replaces the machine's transition table in place with a
// minimized one, the way MealyMachine::minimizeMachine swaps min_machine
// in without changing the public state-count/transition accessors'
// call sites in the AIGER/KISS writers.
func (m *Machine) SetMinimized(transitions [][]Transition) {
	m.transitions = transitions
	m.hasLabels = false
}
