package arena

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tp971/strix/internal/automaton"
	"github.com/tp971/strix/internal/bdd"
	"github.com/tp971/strix/internal/color"
	"github.com/tp971/strix/internal/letter"
	"github.com/tp971/strix/internal/tree"
)

// selfLoopTranslator is a one-state Buchi automaton over a two-bit local
// alphabet (bit 0 = the input proposition, bit 1 = the output
// proposition) that always loops back to state 0, alternating color by
// the output bit.
type selfLoopTranslator struct{}

func (selfLoopTranslator) QuerySuccessors(leafIndex int, state int32) (automaton.LeafQueryResult, error) {
	table := make([]automaton.ScoredEdge, 4)
	for l := range table {
		c := color.Color(0)
		if l&2 != 0 {
			c = 1
		}
		table[l] = automaton.ScoredEdge{Successor: 0, Color: c, Score: 0.5, Weight: 1}
	}
	return automaton.LeafQueryResult{
		PerLetter: table,
		MaxColor:  1,
		NodeType:  automaton.Buchi,
		Parity:    color.Even,
	}, nil
}

func buildSelfLoopArena(t *testing.T) (*Arena, *Builder) {
	t.Helper()

	spec := tree.Spec{
		IsLeaf: true,
		Leaf: tree.LeafSpec{
			Adapter:      automaton.NewAdapter(0, 2, selfLoopTranslator{}),
			AlphabetMap:  []int{0, 1},
			AlphabetSize: 2,
			MinLeafIndex: 0,
		},
	}
	root := tree.Build(spec)

	inputMask := letter.Mask{Relevant: 0b01}
	outputMask := letter.Mask{Relevant: 0b10}

	inBDD, err := bdd.NewManager(1)
	require.NoError(t, err)
	outBDD, err := bdd.NewManager(1)
	require.NoError(t, err)

	a := New(root, inputMask, outputMask, inBDD, outBDD)
	b := NewBuilder(a, NewBFS())
	return a, b
}

func TestBuilderExploresSingleStateArena(t *testing.T) {
	require := require.New(t)

	a, b := buildSelfLoopArena(t)
	b.Run()

	require.True(a.Complete())
	require.Len(a.envNodes, 1)
	require.NotEqual(int32(unexploredSuccsBegin), a.envNodes[0].SuccsBegin)
	require.Len(a.sysNodes, 1) // the self-loop collapses both input actions to the same sys-node

	succs := a.EnvSuccs(0)
	require.Len(succs, 2) // one per relevant input action

	sysSuccs := a.SysSuccs(succs[0].SysNode)
	require.Len(sysSuccs, 2) // one per distinct (color, successor) pair
	for _, e := range sysSuccs {
		require.EqualValues(0, e.Successor) // loops back to the only env-node
	}
}
