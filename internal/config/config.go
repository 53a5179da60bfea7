// Package config defines the tunable parameters of one synthesis run
// (exploration order, worker count, color compaction, extraction
// options) and their validation, the way luxfi-consensus's config
// package separates a plain Parameters struct from a stricter
// Validator.
package config

import (
	"errors"
	"time"
)

// Error variables for parameter validation, mirroring config.go's
// sentinel-per-field style.
var (
	ErrParametersInvalid  = errors.New("invalid synthesis parameters")
	ErrInvalidWorkers     = errors.New("workers must be >= 1")
	ErrInvalidExploration = errors.New("exploration must be BFS or PQ")
	ErrSolveTimeoutTooLow = errors.New("solve timeout must be >= 0")
)

// ExplorationStrategy selects the arena builder's frontier discipline,
// per original_source/src/Definitions.h's ExplorationStrategy enum.
type ExplorationStrategy int

const (
	BFS ExplorationStrategy = iota
	PQ
)

func (e ExplorationStrategy) String() string {
	if e == PQ {
		return "pq"
	}
	return "bfs"
}

// Parameters controls one end-to-end synthesis run, from formula
// parsing through strategy extraction, following the flag set read
// from original_source/src/strix/OptionParser.cc.
type Parameters struct {
	// Workers bounds the solver's parallelFor shard count; <= 1 runs
	// every pass sequentially.
	Workers int
	// Exploration selects the arena builder's frontier order.
	Exploration ExplorationStrategy
	// ClearQueue carries --clear-queue. The arena builder does not read
	// it: the frontier is always filtered after verdicts, never dropped.
	ClearQueue bool
	// CompactColors requests the solver's post-explore color-compaction
	// pass (--no-compact-colors clears this).
	CompactColors bool
	// RealizabilityOnly skips strategy extraction once a winner for the
	// initial node is known (--realizability/-r).
	RealizabilityOnly bool
	// Labels requests product-state labels on extracted machine states
	// (--labels/-l).
	Labels bool
	// Minimize requests SAT-based machine minimization via
	// internal/memin after extraction (--minimize/-m).
	Minimize bool
	// FromLTLf treats the input formula as LTLf over a finite trace
	// (--from-ltlf).
	FromLTLf bool
	// SimplifyFormula requests formula rewriting before decomposition
	// (clear by --no-simplify-formula).
	SimplifyFormula bool
	// SolveTimeout bounds one solver run; zero means no timeout.
	SolveTimeout time.Duration
}

// DefaultParameters returns the option set OptionParser.cc falls back
// to when a flag is not given on the command line.
func DefaultParameters() Parameters {
	return Parameters{
		Workers:           1,
		Exploration:       BFS,
		ClearQueue:        false,
		CompactColors:     true,
		RealizabilityOnly: false,
		Labels:            false,
		Minimize:          false,
		FromLTLf:          false,
		SimplifyFormula:   true,
		SolveTimeout:      0,
	}
}

// Validate checks Parameters for internally-inconsistent values.
func (p Parameters) Validate() error {
	if p.Workers < 1 {
		return ErrInvalidWorkers
	}
	if p.Exploration != BFS && p.Exploration != PQ {
		return ErrInvalidExploration
	}
	if p.SolveTimeout < 0 {
		return ErrSolveTimeoutTooLow
	}
	return nil
}
