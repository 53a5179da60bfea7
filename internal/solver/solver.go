// Package solver implements the distance-vector strategy-iteration
// parity-game solver described in spec.md §4.4, grounded on
// original_source/src/pg/PGSolver.cc and PGSISolver.cc: two full passes
// over the arena (system player, then environment player), each an outer
// strategy-improvement loop around an inner Bellman-Ford relaxation.
package solver

import (
	"context"

	"github.com/tp971/strix/internal/arena"
)

// Options tunes one solving run.
type Options struct {
	// CompactColors removes colors never used by any edge before solving,
	// per spec.md §4.4 (on by default, matching the original's default).
	CompactColors bool
	// Workers bounds the data-parallel fan-out of each Bellman-Ford/
	// strategy-improvement sweep; <= 1 runs sequentially.
	Workers int
}

// DefaultOptions mirrors the original CLI's defaults: compact colors on,
// single-threaded unless told otherwise.
func DefaultOptions() Options {
	return Options{CompactColors: true, Workers: 1}
}

// Solver drives repeated solve attempts against a single arena, the way
// PGSolver::solve's onthefly_construction branch re-enters
// preprocess_and_solve_game every time the builder signals growth.
type Solver struct {
	a    *arena.Arena
	opts Options
}

// New wires a solver over a to run with opts.
func New(a *arena.Arena, opts Options) *Solver {
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	return &Solver{a: a, opts: opts}
}

// Run solves a until its initial node is decided or ctx is cancelled,
// re-attempting after every arena growth signal.
func (s *Solver) Run(ctx context.Context) {
	a := s.a

	if a.InitialNode < 0 {
		// Decided at the root before a single node was ever built: a
		// tautological or unsatisfiable specification.
		a.Winning <- arena.Verdict{EnvNode: 0, Winner: a.TrivialWinner}
		a.SetSolved()
		return
	}

	var lastSeen int32 = -1
	for {
		if ctx.Err() != nil {
			return
		}
		if a.Solved() {
			return
		}
		if n := a.NEnvNodes(); n == lastSeen && !a.Complete() {
			a.WaitForGrowth(lastSeen)
		}
		lastSeen = a.NEnvNodes()

		p := newPass(a, s.opts)
		p.solveGame()

		if a.EnvNode(a.InitialNode).Winner != arena.UndecidedWinner {
			a.SetSolved()
			return
		}
		if a.Complete() {
			// A fully-explored, still-undecided arena means the initial
			// node is won by neither distance-infinity class, which
			// cannot happen for a well-formed parity game; bail instead
			// of spinning.
			return
		}
	}
}
