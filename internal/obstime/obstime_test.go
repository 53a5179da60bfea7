package obstime

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestStartStopAccumulates(t *testing.T) {
	timers := New()
	timers.Start(PhaseParse)
	time.Sleep(time.Millisecond)
	timers.Stop(PhaseParse)
	first := timers.Elapsed(PhaseParse)
	require.Greater(t, first, time.Duration(0))

	timers.Start(PhaseParse)
	time.Sleep(time.Millisecond)
	timers.Stop(PhaseParse)
	require.Greater(t, timers.Elapsed(PhaseParse), first)
}

func TestStartIsIdempotentWhileRunning(t *testing.T) {
	timers := New()
	timers.Start(PhaseSolve)
	started := timers.running[PhaseSolve]
	timers.Start(PhaseSolve) // should not reset the running marker
	require.Equal(t, started, timers.running[PhaseSolve])
}

func TestStopWithoutStartIsNoop(t *testing.T) {
	timers := New()
	timers.Stop(PhaseExplore)
	require.Equal(t, time.Duration(0), timers.Elapsed(PhaseExplore))
}

func TestReportOrdersByFirstStart(t *testing.T) {
	timers := New()
	timers.Start(PhaseSolve)
	timers.Stop(PhaseSolve)
	timers.Start(PhaseParse)
	timers.Stop(PhaseParse)

	var buf strings.Builder
	timers.Report(&buf)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	require.True(t, strings.HasPrefix(lines[0], PhaseSolve+":"))
	require.True(t, strings.HasPrefix(lines[1], PhaseParse+":"))
}
