package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tp971/strix/internal/bdd"
	"github.com/tp971/strix/internal/mealy"
)

func buildOneStateMachine() *mealy.Machine {
	m := mealy.New([]string{"i0"}, []string{"o0"}, mealy.Mealy)
	m.AddTransition(0, mealy.Transition{NextState: 0, Input: bdd.Cube{-1}, Output: bdd.Cube{1}})
	return m
}

func TestWriteMachineDefaultsToAiger(t *testing.T) {
	var buf strings.Builder
	require.NoError(t, writeMachine(&buf, buildOneStateMachine(), ""))
	require.True(t, strings.HasPrefix(buf.String(), "aag "))
}

func TestWriteMachineAiger(t *testing.T) {
	var buf strings.Builder
	require.NoError(t, writeMachine(&buf, buildOneStateMachine(), "aiger"))
	require.True(t, strings.HasPrefix(buf.String(), "aag "))
}

func TestWriteMachineKiss(t *testing.T) {
	var buf strings.Builder
	require.NoError(t, writeMachine(&buf, buildOneStateMachine(), "kiss"))
	require.True(t, strings.HasPrefix(buf.String(), ".i "))
}

func TestWriteMachineUnknownFormat(t *testing.T) {
	var buf strings.Builder
	err := writeMachine(&buf, buildOneStateMachine(), "dot")
	require.Error(t, err)
}

func TestNewTranslatorFailsClosedWithoutOwlJar(t *testing.T) {
	tr, err := newTranslator("")
	require.Nil(t, tr)
	require.Error(t, err)
}
