package solver

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tp971/strix/internal/arena"
	"github.com/tp971/strix/internal/automaton"
	"github.com/tp971/strix/internal/bdd"
	"github.com/tp971/strix/internal/color"
	"github.com/tp971/strix/internal/letter"
	"github.com/tp971/strix/internal/tree"
)

// alwaysAcceptTranslator is a one-state weak automaton (even parity,
// color 0 always): every letter self-loops with an accepting color, so
// the system trivially wins regardless of the environment's choices.
type alwaysAcceptTranslator struct{}

func (alwaysAcceptTranslator) QuerySuccessors(leafIndex int, state int32) (automaton.LeafQueryResult, error) {
	table := make([]automaton.ScoredEdge, 4)
	for l := range table {
		table[l] = automaton.ScoredEdge{Successor: 0, Color: 0, Score: 1, Weight: 1}
	}
	return automaton.LeafQueryResult{
		PerLetter: table,
		MaxColor:  0,
		NodeType:  automaton.Weak,
		Parity:    color.Even,
	}, nil
}

func buildTrivialWinArena(t *testing.T) *arena.Arena {
	t.Helper()
	spec := tree.Spec{
		IsLeaf: true,
		Leaf: tree.LeafSpec{
			Adapter:      automaton.NewAdapter(0, 2, alwaysAcceptTranslator{}),
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

	a := arena.New(root, inputMask, outputMask, inBDD, outBDD)
	b := arena.NewBuilder(a, arena.NewBFS())
	b.Run()
	return a
}

func TestSolverDecidesAlwaysWinningArena(t *testing.T) {
	require := require.New(t)

	a := buildTrivialWinArena(t)
	require.True(a.Complete())
	require.GreaterOrEqual(a.InitialNode, int32(0))

	s := New(a, DefaultOptions())
	s.Run(context.Background())

	require.True(a.Solved())
	require.Equal(arena.SysPlayer, a.EnvNode(a.InitialNode).Winner)
}

func TestSolverParallelWorkersAgreeWithSequential(t *testing.T) {
	require := require.New(t)

	a := buildTrivialWinArena(t)
	s := New(a, Options{CompactColors: true, Workers: 4})
	s.Run(context.Background())

	require.True(a.Solved())
	require.Equal(arena.SysPlayer, a.EnvNode(a.InitialNode).Winner)
}
