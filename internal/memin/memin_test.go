package memin

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tp971/strix/internal/bdd"
	"github.com/tp971/strix/internal/mealy"
)

// buildRedundantMachine builds a 3-state machine whose states 1 and 2 are
// behaviorally identical (both self-loop forever emitting o0=1) and
// therefore mergeable, while state 0 (which emits o0=0 on every input) is
// incompatible with both.
func buildRedundantMachine() *mealy.Machine {
	m := mealy.New([]string{"i0"}, []string{"o0"}, mealy.Mealy)
	s1 := m.AddState()
	s2 := m.AddState()

	m.AddTransition(0, mealy.Transition{NextState: s1, Input: bdd.Cube{0}, Output: bdd.Cube{0}})
	m.AddTransition(0, mealy.Transition{NextState: s2, Input: bdd.Cube{1}, Output: bdd.Cube{0}})
	m.AddTransition(s1, mealy.Transition{NextState: s1, Input: bdd.Cube{-1}, Output: bdd.Cube{1}})
	m.AddTransition(s2, mealy.Transition{NextState: s2, Input: bdd.Cube{-1}, Output: bdd.Cube{1}})
	return m
}

func TestMinimizeMergesEquivalentStates(t *testing.T) {
	m := buildRedundantMachine()
	require.EqualValues(t, 3, m.NumStates())

	min, changed, err := Minimize(m)
	require.NoError(t, err)
	require.True(t, changed)
	require.EqualValues(t, 2, min.NumStates())
}

func TestMinimizeLeavesSingleStateMachineAlone(t *testing.T) {
	m := mealy.New([]string{"i0"}, []string{"o0"}, mealy.Mealy)
	m.AddTransition(0, mealy.Transition{NextState: 0, Input: bdd.Cube{-1}, Output: bdd.Cube{1}})

	out, changed, err := Minimize(m)
	require.NoError(t, err)
	require.False(t, changed)
	require.Same(t, m, out)
}

func TestComputeIncompatibleFlagsConflictingOutputs(t *testing.T) {
	m := buildRedundantMachine()
	incompatible := computeIncompatible(m)

	require.True(t, incompatible[0][1])
	require.True(t, incompatible[0][2])
	require.False(t, incompatible[1][2])
}

func TestChromaticLowerBoundMatchesLargestClique(t *testing.T) {
	m := buildRedundantMachine()
	incompatible := computeIncompatible(m)
	require.Equal(t, 2, chromaticLowerBound(3, incompatible))
}

func TestCubesOverlap(t *testing.T) {
	require.True(t, cubesOverlap(bdd.Cube{-1}, bdd.Cube{0}))
	require.True(t, cubesOverlap(bdd.Cube{1}, bdd.Cube{1}))
	require.False(t, cubesOverlap(bdd.Cube{0}, bdd.Cube{1}))
}
