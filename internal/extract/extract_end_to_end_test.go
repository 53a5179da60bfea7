package extract

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tp971/strix/internal/arena"
	"github.com/tp971/strix/internal/color"
	"github.com/tp971/strix/internal/config"
	"github.com/tp971/strix/internal/mealy"
	"github.com/tp971/strix/internal/pipeline"
	"github.com/tp971/strix/internal/synthtest"
)

func solve(t *testing.T, leafColor color.Color, parity color.Parity) *arena.Arena {
	t.Helper()
	a, b := synthtest.OneInputOneOutput(t, leafColor, parity)
	p := pipeline.New(a, b, config.DefaultParameters(), nil, nil)
	p.Run(context.Background())
	return a
}

func TestExtractMealyWalksRealizableSelfLoop(t *testing.T) {
	a := solve(t, 0, color.Even)
	require.Equal(t, arena.SysPlayer, a.EnvNode(a.InitialNode).Winner)

	m, err := ExtractMealy(a, Options{})
	require.NoError(t, err)
	require.Equal(t, mealy.Mealy, m.Semantic)
	require.GreaterOrEqual(t, m.NumStates(), int32(1))
	require.NotEmpty(t, m.Transitions(0))
}

func TestExtractMooreWalksUnrealizableSelfLoop(t *testing.T) {
	a := solve(t, 0, color.Odd)
	require.Equal(t, arena.EnvPlayer, a.EnvNode(a.InitialNode).Winner)

	m, err := ExtractMoore(a, Options{})
	require.NoError(t, err)
	require.Equal(t, mealy.Moore, m.Semantic)
	require.GreaterOrEqual(t, m.NumStates(), int32(1))
	require.NotEmpty(t, m.Transitions(0))
}

func TestExtractMealyErrorsWhenEnvironmentWins(t *testing.T) {
	a := solve(t, 0, color.Odd)
	_, err := ExtractMealy(a, Options{})
	require.ErrorIs(t, err, ErrUnrealizable)
}

func TestExtractMooreErrorsWhenSystemWins(t *testing.T) {
	a := solve(t, 0, color.Even)
	_, err := ExtractMoore(a, Options{})
	require.ErrorIs(t, err, ErrUnsynthesizableWitness)
}

func TestExtractMealyHonorsCustomNames(t *testing.T) {
	a := solve(t, 0, color.Even)
	m, err := ExtractMealy(a, Options{InputNames: []string{"req"}, OutputNames: []string{"grant"}})
	require.NoError(t, err)
	require.Equal(t, []string{"req"}, m.Inputs)
	require.Equal(t, []string{"grant"}, m.Outputs)
}
