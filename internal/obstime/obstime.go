// Package obstime implements the per-phase wall-clock timers the CLI's
// --timing flag surfaces, grounded on original_source/src/util/Timer.h's
// named-phase stopwatch.
package obstime

import (
	"fmt"
	"io"
	"time"
)

// Phases are named in the order original_source's strix binary times
// them: parsing, automaton construction, arena exploration, solving,
// strategy extraction.
const (
	PhaseParse     = "parse"
	PhaseAutomaton = "automaton"
	PhaseExplore   = "explore"
	PhaseSolve     = "solve"
	PhaseExtract   = "extract"
)

// Timers accumulates named phase durations across one synthesis run.
// Start/Stop may be called more than once per phase (e.g. repeated
// on-the-fly solve attempts); durations accumulate.
type Timers struct {
	running map[string]time.Time
	total   map[string]time.Duration
	order   []string
}

// New returns an empty Timers ready for use.
func New() *Timers {
	return &Timers{
		running: make(map[string]time.Time),
		total:   make(map[string]time.Duration),
	}
}

// Start marks phase as running; calling Start on an already-running
// phase is a no-op (the original's Timer guards re-entrant starts the
// same way).
func (t *Timers) Start(phase string) {
	if _, ok := t.running[phase]; ok {
		return
	}
	if _, seen := t.total[phase]; !seen {
		t.order = append(t.order, phase)
	}
	t.running[phase] = time.Now()
}

// Stop accumulates phase's elapsed time since its last Start and clears
// its running marker. Stopping a phase that was never started is a
// no-op.
func (t *Timers) Stop(phase string) {
	start, ok := t.running[phase]
	if !ok {
		return
	}
	t.total[phase] += time.Since(start)
	delete(t.running, phase)
}

// Elapsed returns phase's accumulated duration.
func (t *Timers) Elapsed(phase string) time.Duration {
	return t.total[phase]
}

// Report writes every phase's accumulated duration to w, in the order
// each phase was first started, one "phase: duration" line each —
// what --timing prints to stderr.
func (t *Timers) Report(w io.Writer) {
	for _, name := range t.order {
		fmt.Fprintf(w, "%s: %s\n", name, t.total[name])
	}
}
