package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDefaultParametersValidate(t *testing.T) {
	require.NoError(t, DefaultParameters().Validate())
}

func TestExplorationStrategyString(t *testing.T) {
	require.Equal(t, "bfs", BFS.String())
	require.Equal(t, "pq", PQ.String())
}

func TestValidateRejectsInvalidWorkers(t *testing.T) {
	p := DefaultParameters()
	p.Workers = 0
	require.ErrorIs(t, p.Validate(), ErrInvalidWorkers)
}

func TestValidateRejectsInvalidExploration(t *testing.T) {
	p := DefaultParameters()
	p.Exploration = ExplorationStrategy(99)
	require.ErrorIs(t, p.Validate(), ErrInvalidExploration)
}

func TestValidateRejectsNegativeTimeout(t *testing.T) {
	p := DefaultParameters()
	p.SolveTimeout = -time.Second
	require.ErrorIs(t, p.Validate(), ErrSolveTimeoutTooLow)
}

func TestValidateAcceptsZeroTimeout(t *testing.T) {
	p := DefaultParameters()
	p.SolveTimeout = 0
	require.NoError(t, p.Validate())
}
