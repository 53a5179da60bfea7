// Package synthtest holds shared test fixtures for the pipeline,
// extraction, and CLI layers — small, pre-wired arenas/translators
// standing in for a real LTL-to-DPA decomposition, styled like the
// teacher's consensustest/snowtest fixture packages.
package synthtest

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tp971/strix/internal/arena"
	"github.com/tp971/strix/internal/bdd"
	"github.com/tp971/strix/internal/color"
	"github.com/tp971/strix/internal/letter"
	"github.com/tp971/strix/internal/ltl"
	"github.com/tp971/strix/internal/ltl/ltltest"
	"github.com/tp971/strix/internal/tree"
)

// OneInputOneOutput builds the arena for a single-leaf, always-won
// specification over one input and one output proposition: winner
// SysPlayer if the leaf's single color has the parity's accepting parity
// (e.g. color 0 under Even), EnvPlayer otherwise — the minimal fixture for
// internal/pipeline's builder+solver wiring and internal/extract's
// trivial/non-trivial extraction paths.
func OneInputOneOutput(t *testing.T, leafColor color.Color, parity color.Parity) (*arena.Arena, *arena.Builder) {
	t.Helper()

	dpa := ltltest.SelfLoopDPA([]string{"i0", "o0"}, leafColor, parity)
	root := tree.Build(dpa.BuildTree())

	inputMask := letter.Mask{Relevant: 0b01}
	outputMask := letter.Mask{Relevant: 0b10}

	inBDD, err := bdd.NewManager(1)
	require.NoError(t, err)
	outBDD, err := bdd.NewManager(1)
	require.NoError(t, err)

	a := arena.New(root, inputMask, outputMask, inBDD, outBDD)
	b := arena.NewBuilder(a, arena.NewBFS())
	return a, b
}

// RegisteredTranslator wraps ltltest.Translator with one formula already
// registered against the OneInputOneOutput fixture, for tests of
// cmd/strix's Parse/CreateDecomposedAutomaton call sequence.
func RegisteredTranslator(formula string, leafColor color.Color, parity color.Parity) *ltltest.Translator {
	tr := ltltest.New()
	dpa := ltltest.SelfLoopDPA([]string{"i0", "o0"}, leafColor, parity)
	tr.AddSpec(formula, ltl.Specification{
		Formula: formula,
		Inputs:  []string{"i0"},
		Outputs: []string{"o0"},
	}, dpa)
	return tr
}
