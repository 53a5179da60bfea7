package main

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tp971/strix/internal/config"
)

func TestSplitVarsParsesCommaList(t *testing.T) {
	require.Equal(t, []string{"a", "b", "c"}, splitVars("a,b,c"))
}

func TestSplitVarsTrimsAndSkipsEmpty(t *testing.T) {
	require.Equal(t, []string{"a", "b"}, splitVars(" a , ,b,"))
}

func TestSplitVarsEmptyInput(t *testing.T) {
	require.Nil(t, splitVars(""))
}

func TestBuildParametersDefaults(t *testing.T) {
	o := &cliOptions{exploration: "bfs", threads: 1, noCompactColors: false, noSimplifyFormula: false}
	p, err := o.buildParameters()
	require.NoError(t, err)
	require.Equal(t, config.BFS, p.Exploration)
	require.Equal(t, 1, p.Workers)
	require.True(t, p.CompactColors)
	require.True(t, p.SimplifyFormula)
}

func TestBuildParametersPQExploration(t *testing.T) {
	o := &cliOptions{exploration: "PQ", threads: 2}
	p, err := o.buildParameters()
	require.NoError(t, err)
	require.Equal(t, config.PQ, p.Exploration)
	require.Equal(t, 2, p.Workers)
}

func TestBuildParametersRejectsUnknownExploration(t *testing.T) {
	o := &cliOptions{exploration: "dfs"}
	_, err := o.buildParameters()
	require.Error(t, err)
}

func TestBuildParametersZeroThreadsDefaultsToOne(t *testing.T) {
	o := &cliOptions{exploration: "bfs", threads: 0}
	p, err := o.buildParameters()
	require.NoError(t, err)
	require.Equal(t, 1, p.Workers)
}

func TestBuildParametersFlagsPropagate(t *testing.T) {
	o := &cliOptions{
		exploration:       "bfs",
		threads:           1,
		clearQueue:        true,
		realizability:     true,
		labels:            true,
		minimize:          true,
		fromLTLf:          true,
		noCompactColors:   true,
		noSimplifyFormula: true,
	}
	p, err := o.buildParameters()
	require.NoError(t, err)
	require.True(t, p.ClearQueue)
	require.True(t, p.RealizabilityOnly)
	require.True(t, p.Labels)
	require.True(t, p.Minimize)
	require.True(t, p.FromLTLf)
	require.False(t, p.CompactColors)
	require.False(t, p.SimplifyFormula)
}
