package pstate

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStateCloneIndependent(t *testing.T) {
	require := require.New(t)

	s := State{1, 2, 3}
	c := s.Clone()
	c[0] = 99
	require.EqualValues(1, s[0])
	require.True(s.Equal(State{1, 2, 3}))
	require.False(s.Equal(c))
}

func TestKeyDistinguishesStates(t *testing.T) {
	require := require.New(t)

	a := State{Top, None, Bottom}
	b := State{Top, None, NoneBottom}
	require.NotEqual(a.Key(), b.Key())

	c := State{Top, None, Bottom}
	require.Equal(a.Key(), c.Key())
}

func TestIsMarker(t *testing.T) {
	require := require.New(t)
	require.True(IsMarker(None))
	require.True(IsMarker(Top))
	require.True(IsMarker(NoneTop))
	require.False(IsMarker(Slot(0)))
	require.False(IsMarker(Slot(5)))
}
