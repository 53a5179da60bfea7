package pgdump

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tp971/strix/internal/color"
	"github.com/tp971/strix/internal/synthtest"
)

func TestWriteDumpsSelfLoopArena(t *testing.T) {
	a, b := synthtest.OneInputOneOutput(t, 0, color.Even)
	b.Run()

	var buf strings.Builder
	require.NoError(t, Write(&buf, a))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.NotEmpty(t, lines)
	require.True(t, strings.HasPrefix(lines[0], "parity "))
	require.True(t, strings.HasSuffix(lines[0], ";"))

	nEnv := int(a.NEnvNodes())
	nSys := int(a.NSysNodes())
	require.Equal(t, 1, nEnv) // the self-loop collapses to one env node and one sys hub
	require.Equal(t, 1, nSys)

	// one header line + one env line + one sys hub line + at least one
	// synthetic edge line + one shared TOP sink line
	require.GreaterOrEqual(t, len(lines), 1+nEnv+nSys+1+1)

	last := lines[len(lines)-1]
	require.Contains(t, last, `"top"`)

	for _, l := range lines[1 : 1+nEnv] {
		require.Contains(t, l, `"env`)
	}
}

func TestWriteEveryNodeLineEndsWithSemicolon(t *testing.T) {
	a, b := synthtest.OneInputOneOutput(t, 0, color.Even)
	b.Run()

	var buf strings.Builder
	require.NoError(t, Write(&buf, a))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	for _, l := range lines {
		require.True(t, strings.HasSuffix(l, ";"), "line %q must end with ;", l)
	}
}
