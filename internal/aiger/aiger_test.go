package aiger

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tp971/strix/internal/bdd"
	"github.com/tp971/strix/internal/mealy"
)

func buildTwoStateMachine() *mealy.Machine {
	m := mealy.New([]string{"i0"}, []string{"o0"}, mealy.Mealy)
	s1 := m.AddState()
	m.AddTransition(0, mealy.Transition{NextState: s1, Input: bdd.Cube{1}, Output: bdd.Cube{1}})
	m.AddTransition(0, mealy.Transition{NextState: 0, Input: bdd.Cube{0}, Output: bdd.Cube{0}})
	m.AddTransition(s1, mealy.Transition{NextState: s1, Input: bdd.Cube{-1}, Output: bdd.Cube{1}})
	return m
}

func TestBuildAllocatesOneLatchForTwoStates(t *testing.T) {
	c := Build(buildTwoStateMachine())
	require.Equal(t, 1, c.NumInputs)
	require.Equal(t, 1, c.NumLatches)
	require.Len(t, c.InputLits, 1)
	require.Len(t, c.LatchLits, 1)
	require.Len(t, c.OutputLits, 1)
	require.NotEmpty(t, c.Ands)
}

func TestLatchesForSingleStateMachineIsZero(t *testing.T) {
	m := mealy.New([]string{"i0"}, []string{"o0"}, mealy.Mealy)
	m.AddTransition(0, mealy.Transition{NextState: 0, Input: bdd.Cube{-1}, Output: bdd.Cube{1}})
	c := Build(m)
	require.Equal(t, 0, c.NumLatches)
	require.Empty(t, c.LatchLits)
}

func TestLatchesForHelper(t *testing.T) {
	require.Equal(t, 0, latchesFor(0))
	require.Equal(t, 0, latchesFor(1))
	require.Equal(t, 1, latchesFor(2))
	require.Equal(t, 2, latchesFor(3))
	require.Equal(t, 2, latchesFor(4))
	require.Equal(t, 3, latchesFor(5))
}

func TestWriteASCIIHeaderMatchesCircuitShape(t *testing.T) {
	c := Build(buildTwoStateMachine())
	var buf strings.Builder
	require.NoError(t, WriteASCII(&buf, c))

	lines := strings.Split(buf.String(), "\n")
	require.NotEmpty(t, lines)

	var maxVar, nInputs, nLatches, nOutputs, nAnds int
	n, err := fmt.Sscanf(lines[0], "aag %d %d %d %d %d", &maxVar, &nInputs, &nLatches, &nOutputs, &nAnds)
	require.NoError(t, err)
	require.Equal(t, 5, n)
	require.Equal(t, c.NumInputs, nInputs)
	require.Equal(t, c.NumLatches, nLatches)
	require.Equal(t, len(c.OutputLits), nOutputs)
	require.Equal(t, len(c.Ands), nAnds)

	require.Contains(t, buf.String(), "i0 i0\n")
	require.Contains(t, buf.String(), "o0 o0\n")
}

func TestBuilderAndConstantFolding(t *testing.T) {
	b := newBuilder(1)
	require.Equal(t, litFalse, b.and(litFalse, lit(1, false)))
	require.Equal(t, lit(1, false), b.and(litTrue, lit(1, false)))
	require.Equal(t, lit(1, false), b.and(lit(1, false), lit(1, false)))
	require.Equal(t, litFalse, b.and(lit(1, false), notLit(lit(1, false))))
}

func TestBuilderAndCachesSharedGates(t *testing.T) {
	b := newBuilder(1)
	a := lit(1, false)
	c := lit(2, false)
	first := b.and(a, c)
	second := b.and(a, c)
	require.Equal(t, first, second)
	require.Len(t, b.ands, 1)
}
