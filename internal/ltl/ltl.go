// Package ltl defines the external LTL→DPA collaborator's interface:
// parse a formula into a specification, then decompose it into the
// boolean-connective tree of leaf parity automata internal/tree.Build
// consumes. The translation itself is out of scope (spec.md §1 names
// it an external collaborator); this package only fixes the seam and
// the adapter glue that turns a DecomposedDPA into a tree.Spec.
//
// internal/ltl/ltltest provides an in-memory double for tests, styled
// like the teacher's enginetest/vertexmock test doubles.
package ltl

import (
	"errors"

	"github.com/tp971/strix/internal/automaton"
	"github.com/tp971/strix/internal/color"
	"github.com/tp971/strix/internal/tree"
)

// Sentinel errors for conditions the CLI boundary reports back as exit
// codes, per spec.md §7's error-handling conventions.
var (
	ErrNoTranslator        = errors.New("ltl: no translator configured")
	ErrRealizabilityUnknown = errors.New("ltl: translator could not decide realizability")
	ErrLabelWidthExceeded   = errors.New("ltl: product-state label exceeds the configured bit width")
	ErrVariableCollision    = errors.New("ltl: input/output variable name collides with a reserved proposition")
)

// VariableStatus classifies one named atomic proposition after parsing.
type VariableStatus int

const (
	StatusUnused VariableStatus = iota
	StatusInput
	StatusOutput
)

// Specification is the parsed, possibly-simplified formula plus the
// variable partition Parse committed to.
type Specification struct {
	Formula string
	Finite  bool // true for --from-ltlf: formula rewritten over a finite trace
	Inputs  []string
	Outputs []string
}

// LeafAutomaton is one leaf of a DecomposedDPA: a per-leaf translator
// (automaton.Translator's QuerySuccessors) plus the local alphabet it reads, given as
// global-proposition indices, local bit order.
type LeafAutomaton struct {
	Translator   automaton.Translator
	AlphabetSize int
	Vars         []int
}

// StructureNode mirrors tree.Spec but references leaves by index into
// DecomposedDPA.Automata instead of an already-built *automaton.Adapter,
// since CreateDecomposedAutomaton runs before any adapter is started.
type StructureNode struct {
	IsLeaf    bool
	LeafIndex int
	Tag       tree.Tag
	Children  []StructureNode
}

// DecomposedDPA is CreateDecomposedAutomaton's result: every leaf
// automaton, the boolean-connective tree combining them, and the
// resolved status of every declared variable.
type DecomposedDPA struct {
	Automata         []LeafAutomaton
	Structure        StructureNode
	VariableStatuses map[string]VariableStatus
	NumVars          int // total global proposition count (inputs+outputs)
}

// Translator is the external LTL→DPA collaborator's interface, per
// spec.md §6.
type Translator interface {
	// Parse reads formula over the propositions named in vars,
	// rewriting it for a finite trace first when finite is set
	// (--from-ltlf).
	Parse(formula string, vars []string, finite bool) (Specification, error)
	// CreateDecomposedAutomaton decomposes spec into leaf automata plus
	// the boolean-connective tree combining them, partitioning vars
	// into inputs and outputs.
	CreateDecomposedAutomaton(spec Specification, inputs, outputs []string) (*DecomposedDPA, error)
}

// BuildTree turns d into a tree.Spec, starting one automaton.Adapter
// per leaf. Each leaf's AlphabetSize is taken directly from its
// d.Automata entry; AlphabetMap entries default to "absent"
// (-1) for every global bit the leaf never declared.
func (d *DecomposedDPA) BuildTree() tree.Spec {
	return d.buildNode(d.Structure)
}

func (d *DecomposedDPA) buildNode(n StructureNode) tree.Spec {
	if n.IsLeaf {
		la := d.Automata[n.LeafIndex]
		alphabetMap := make([]int, d.NumVars)
		for i := range alphabetMap {
			alphabetMap[i] = -1
		}
		for localBit, globalVar := range la.Vars {
			alphabetMap[globalVar] = localBit
		}
		adapter := automaton.NewAdapter(n.LeafIndex, la.AlphabetSize, la.Translator)
		return tree.Spec{
			IsLeaf: true,
			Leaf: tree.LeafSpec{
				Adapter:      adapter,
				AlphabetMap:  alphabetMap,
				AlphabetSize: la.AlphabetSize,
				MinLeafIndex: n.LeafIndex,
			},
		}
	}
	children := make([]tree.Spec, len(n.Children))
	for i, c := range n.Children {
		children[i] = d.buildNode(c)
	}
	return tree.Spec{Tag: n.Tag, Children: children}
}

// parity re-exported for translator implementations that need to name
// an automaton's objective without importing internal/color directly
// alongside internal/ltl.
type Parity = color.Parity
