package tree

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tp971/strix/internal/automaton"
	"github.com/tp971/strix/internal/color"
	"github.com/tp971/strix/internal/letter"
	"github.com/tp971/strix/internal/pstate"
)

// buchiTranslator is a minimal in-memory translator for a single-bit-alphabet
// Büchi automaton with two states: state 0 loops on bit=false emitting color
// 1, and advances to state 1 (color 0, the accepting edge) on bit=true;
// state 1 always returns to state 0 on the next letter.
type buchiTranslator struct{}

func (buchiTranslator) QuerySuccessors(leafIndex int, state int32) (automaton.LeafQueryResult, error) {
	switch state {
	case 0:
		return automaton.LeafQueryResult{
			PerLetter: []automaton.ScoredEdge{
				{Successor: 0, Color: 1, Score: 0.2, Weight: 1},
				{Successor: 1, Color: 0, Score: 0.8, Weight: 1},
			},
			MaxColor: 1, NodeType: automaton.Buchi, Parity: color.Even,
		}, nil
	default:
		return automaton.LeafQueryResult{
			PerLetter: []automaton.ScoredEdge{
				{Successor: 0, Color: 1, Score: 0.2, Weight: 1},
				{Successor: 0, Color: 1, Score: 0.2, Weight: 1},
			},
			MaxColor: 1, NodeType: automaton.Buchi, Parity: color.Even,
		}, nil
	}
}

func leafNode(tr automaton.Translator, idx int) *Node {
	a := automaton.NewAdapter(idx, 1, tr)
	return &Node{
		IsLeaf:       true,
		NodeType:     automaton.Buchi,
		Parity:       color.Even,
		MaxColor:     1,
		Adapter:      a,
		AlphabetMap:  []int{0},
		AlphabetSize: 1,
	}
}

func TestLeafSuccessorTracksAutomaton(t *testing.T) {
	require := require.New(t)

	n := leafNode(buchiTranslator{}, 0)
	state := n.InitialState()
	newState := state.Clone()

	cs := n.Successor(state, newState, letter.Letter(0))
	require.Equal(color.Color(1), cs.Color)
	require.EqualValues(0, newState[0])

	cs2 := n.Successor(newState, state.Clone(), letter.Letter(1))
	require.Equal(color.Color(0), cs2.Color)
}

func TestLeafTopBottomAbsorb(t *testing.T) {
	require := require.New(t)

	n := leafNode(buchiTranslator{}, 0)
	state := n.InitialState()
	state[0] = pstate.Top
	newState := state.Clone()

	cs := n.Successor(state, newState, letter.Letter(0))
	require.Equal(color.Color(n.Parity), cs.Color)
	require.Equal(1.0, cs.Score)
	require.EqualValues(pstate.Top, newState[0])
}

func conjunctionOf(children ...*Node) *Node {
	return &Node{
		Tag:            Conjunction,
		NodeType:       automaton.Buchi,
		Parity:         color.Even,
		MaxColor:       1,
		Children:       children,
		RoundRobinSize: len(children),
		ParityChild:    false,
		DP:             0,
	}
}

func disjunctionOf(children ...*Node) *Node {
	return &Node{
		Tag:            Disjunction,
		NodeType:       automaton.CoBuchi,
		Parity:         color.Odd,
		MaxColor:       1,
		Children:       children,
		RoundRobinSize: len(children),
		ParityChild:    false,
		DP:             0,
	}
}

func TestConjunctionBottomAbsorbs(t *testing.T) {
	require := require.New(t)

	a := leafNode(buchiTranslator{}, 0)
	b := leafNode(buchiTranslator{}, 1)
	root := conjunctionOf(a, b)

	state := root.InitialState()
	a.paint(state, pstate.Bottom, pstate.NoneBottom)
	newState := state.Clone()

	cs := root.Successor(state, newState, letter.Letter(0))
	require.Equal(color.Color(root.Parity.Dual()), cs.Color)
	require.True(root.isBottom(newState))
}

func TestDisjunctionTopAbsorbs(t *testing.T) {
	require := require.New(t)

	a := leafNode(buchiTranslator{}, 0)
	b := leafNode(buchiTranslator{}, 1)
	root := disjunctionOf(a, b)

	state := root.InitialState()
	a.paint(state, pstate.Top, pstate.NoneTop)
	newState := state.Clone()

	cs := root.Successor(state, newState, letter.Letter(0))
	require.Equal(color.Color(root.Parity), cs.Color)
	require.True(root.isTop(newState))
}

func TestConjunctionProducesScore(t *testing.T) {
	require := require.New(t)

	a := leafNode(buchiTranslator{}, 0)
	b := leafNode(buchiTranslator{}, 1)
	root := conjunctionOf(a, b)

	state := root.InitialState()
	newState := state.Clone()

	cs := root.Successor(state, newState, letter.Letter(1))
	require.GreaterOrEqual(cs.Score, 0.0)
	require.LessOrEqual(cs.Score, 1.0)
	require.Greater(cs.Weight, 0.0)
}

func TestBiconditionalWeakOnWeakEquality(t *testing.T) {
	require := require.New(t)

	a := leafNode(weakTranslator{sameColor: true}, 0)
	a.NodeType = automaton.Weak
	b := leafNode(weakTranslator{sameColor: true}, 1)
	b.NodeType = automaton.Weak

	root := &Node{
		Tag:      Biconditional,
		NodeType: automaton.Weak,
		Parity:   color.Even,
		MaxColor: 1,
		Children: []*Node{a, b},
	}

	state := root.InitialState()
	newState := state.Clone()
	cs := root.Successor(state, newState, letter.Letter(0))
	require.Equal(color.Color(root.Parity), cs.Color)
}

// weakTranslator always emits the same color on both its states, letting
// TestBiconditionalWeakOnWeakEquality exercise the weak-on-weak equality
// branch of the biconditional combinator deterministically.
type weakTranslator struct{ sameColor bool }

func (w weakTranslator) QuerySuccessors(leafIndex int, state int32) (automaton.LeafQueryResult, error) {
	c := color.Color(0)
	if !w.sameColor {
		c = color.Color(leafIndex % 2)
	}
	return automaton.LeafQueryResult{
		PerLetter: []automaton.ScoredEdge{
			{Successor: 0, Color: c, Score: 0.9, Weight: 1},
			{Successor: 0, Color: c, Score: 0.9, Weight: 1},
		},
		MaxColor: 1, NodeType: automaton.Weak, Parity: color.Even,
	}, nil
}

func leafSpec(tr automaton.Translator, idx int) Spec {
	return Spec{
		IsLeaf: true,
		Leaf: LeafSpec{
			Adapter:      automaton.NewAdapter(idx, 1, tr),
			AlphabetMap:  []int{0},
			AlphabetSize: 1,
			MinLeafIndex: idx,
		},
	}
}

func TestBuildConjunctionOfTwoBuchi(t *testing.T) {
	require := require.New(t)

	spec := Spec{
		Tag: Conjunction,
		Children: []Spec{
			leafSpec(buchiTranslator{}, 0),
			leafSpec(buchiTranslator{}, 1),
		},
	}
	root := Build(spec)

	require.Equal(automaton.Buchi, root.NodeType)
	require.Equal(color.Even, root.Parity)
	require.Equal(2, root.RoundRobinSize)
	require.False(root.ParityChild)
	require.Len(root.Children, 2)

	state := root.InitialState()
	newState := state.Clone()
	cs := root.Successor(state, newState, letter.Letter(1))
	require.GreaterOrEqual(cs.Score, 0.0)
	require.LessOrEqual(cs.Score, 1.0)
}

func TestBuildBiconditionalWeakOnWeak(t *testing.T) {
	require := require.New(t)

	spec := Spec{
		Tag: Biconditional,
		Children: []Spec{
			leafSpec(weakTranslator{sameColor: true}, 0),
			leafSpec(weakTranslator{sameColor: true}, 1),
		},
	}
	root := Build(spec)
	require.Equal(automaton.Weak, root.NodeType)

	state := root.InitialState()
	newState := state.Clone()
	cs := root.Successor(state, newState, letter.Letter(0))
	require.Equal(color.Color(root.Parity), cs.Color)
}

func TestBuildSingleLeafPassesThroughMetadata(t *testing.T) {
	require := require.New(t)

	spec := leafSpec(buchiTranslator{}, 0)
	root := Build(spec)

	require.True(root.IsLeaf)
	require.Equal(automaton.Buchi, root.NodeType)
	require.Equal(color.Even, root.Parity)
	require.Equal(color.Color(1), root.MaxColor)
}
