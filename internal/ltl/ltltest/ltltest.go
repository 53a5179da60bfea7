// Package ltltest is an in-memory double for internal/ltl.Translator,
// styled like internal/automaton's fakeTranslator and the teacher's
// enginetest/vertexmock doubles: tests register a canned DecomposedDPA
// per formula instead of driving a real LTL-to-DPA translation.
package ltltest

import (
	"fmt"

	"github.com/tp971/strix/internal/automaton"
	"github.com/tp971/strix/internal/color"
	"github.com/tp971/strix/internal/ltl"
)

// Translator answers Parse/CreateDecomposedAutomaton from a fixed
// table keyed by formula text, recording every call for assertions.
type Translator struct {
	Specs       map[string]ltl.Specification
	Automatons  map[string]*ltl.DecomposedDPA
	ParseCalls  []string
	DecomposeCalls []string
}

// New returns an empty double; register formulas with AddSpec.
func New() *Translator {
	return &Translator{
		Specs:      make(map[string]ltl.Specification),
		Automatons: make(map[string]*ltl.DecomposedDPA),
	}
}

// AddSpec registers the canned Specification and DecomposedDPA returned
// for formula.
func (t *Translator) AddSpec(formula string, spec ltl.Specification, dpa *ltl.DecomposedDPA) {
	t.Specs[formula] = spec
	t.Automatons[formula] = dpa
}

func (t *Translator) Parse(formula string, vars []string, finite bool) (ltl.Specification, error) {
	t.ParseCalls = append(t.ParseCalls, formula)
	spec, ok := t.Specs[formula]
	if !ok {
		return ltl.Specification{}, fmt.Errorf("ltltest: no spec registered for %q", formula)
	}
	spec.Finite = finite
	return spec, nil
}

func (t *Translator) CreateDecomposedAutomaton(spec ltl.Specification, inputs, outputs []string) (*ltl.DecomposedDPA, error) {
	t.DecomposeCalls = append(t.DecomposeCalls, spec.Formula)
	dpa, ok := t.Automatons[spec.Formula]
	if !ok {
		return nil, fmt.Errorf("ltltest: no automaton registered for %q", spec.Formula)
	}
	return dpa, nil
}

// oneStateLeaf is a single-state automaton.Translator: every query
// returns the same fixed table, used by SelfLoopDPA below.
type oneStateLeaf struct {
	edge         automaton.ScoredEdge
	nodeType     automaton.NodeType
	parity       color.Parity
	maxColor     color.Color
	alphabetSize int
}

func (l oneStateLeaf) QuerySuccessors(leafIndex int, state int32) (automaton.LeafQueryResult, error) {
	table := make([]automaton.ScoredEdge, 1<<uint(l.alphabetSize))
	for i := range table {
		table[i] = l.edge
	}
	return automaton.LeafQueryResult{
		PerLetter:    table,
		MaxColor:     l.maxColor,
		DefaultColor: l.maxColor,
		NodeType:     l.nodeType,
		Parity:       l.parity,
	}, nil
}

// SelfLoopDPA builds a one-leaf DecomposedDPA whose single automaton
// self-loops forever at color, accepting under p — the minimal fixture
// for "this formula is trivially realizable/unrealizable" tests,
// mirroring internal/arena's own buildSelfLoopArena test helper.
func SelfLoopDPA(varNames []string, color_ color.Color, p color.Parity) *ltl.DecomposedDPA {
	leaf := oneStateLeaf{
		edge:     automaton.ScoredEdge{Successor: 0, Color: color_, Score: 1, Weight: 1},
		nodeType: automaton.ParityType,
		parity:   p,
		maxColor: color_,

		alphabetSize: len(varNames),
	}
	vars := make([]int, len(varNames))
	for i := range vars {
		vars[i] = i
	}
	statuses := make(map[string]ltl.VariableStatus, len(varNames))
	for _, v := range varNames {
		statuses[v] = ltl.StatusInput
	}
	return &ltl.DecomposedDPA{
		Automata: []ltl.LeafAutomaton{{
			Translator:   leaf,
			AlphabetSize: len(varNames),
			Vars:         vars,
		}},
		Structure:        ltl.StructureNode{IsLeaf: true, LeafIndex: 0},
		VariableStatuses: statuses,
		NumVars:          len(varNames),
	}
}
