package extract

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tp971/strix/internal/bdd"
)

func TestCombineMergesCubesDifferingInOneBit(t *testing.T) {
	merged, ok := combine(bdd.Cube{0, 1}, bdd.Cube{1, 1})
	require.True(t, ok)
	require.Equal(t, bdd.Cube{-1, 1}, merged)
}

func TestCombineRejectsCubesDifferingInMoreThanOneBit(t *testing.T) {
	_, ok := combine(bdd.Cube{0, 1}, bdd.Cube{1, 0})
	require.False(t, ok)
}

func TestCombineRejectsCubesWithMismatchedDontCares(t *testing.T) {
	_, ok := combine(bdd.Cube{0, -1}, bdd.Cube{1, 1})
	require.False(t, ok)
}

func TestMergeCubesCollapsesAdjacentPair(t *testing.T) {
	merged := mergeCubes([]bdd.Cube{{0, 1}, {1, 1}})
	require.Len(t, merged, 1)
	require.Equal(t, bdd.Cube{-1, 1}, merged[0])
}

func TestMergeCubesIsIdempotentOnIrreducibleSet(t *testing.T) {
	in := []bdd.Cube{{0, 0}, {1, 1}}
	merged := mergeCubes(in)
	require.Len(t, merged, 2)
}

func TestMergeCubesHandlesEmptyInput(t *testing.T) {
	require.Empty(t, mergeCubes(nil))
}
