package letter

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMaskFixAndExpand(t *testing.T) {
	require := require.New(t)

	m := NewMask(4)
	m = m.Fix(1, true)
	m = m.Fix(3, false)

	require.Equal(2, m.NumRelevant())

	// relevant bits are 0 and 2; action bit0 -> prop0, bit1 -> prop2
	full := m.Expand(Letter(0).With(0, true))
	require.True(full.Test(0))
	require.True(full.Test(1)) // fixed true
	require.False(full.Test(2))
	require.False(full.Test(3)) // fixed false
}

func TestMaskActionsCount(t *testing.T) {
	require := require.New(t)

	m := NewMask(3)
	require.Len(m.Actions(), 8)

	m = m.Fix(0, false).Fix(1, false)
	require.Len(m.Actions(), 2)
}
